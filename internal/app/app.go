//go:build ebiten

package app

import (
	"context"
	"errors"
	"log"

	"nanobreach/internal/core"
	"nanobreach/internal/levels"
	"nanobreach/internal/progress"
	"nanobreach/internal/render"
	"nanobreach/internal/session"
	"nanobreach/internal/sims/nano"
	"nanobreach/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var toolKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}

// Game adapts a play session to the ebiten.Game interface.
type Game struct {
	catalog *levels.Catalog
	store   progress.Store
	logger  *log.Logger

	sess    *session.Session
	painter *render.GridPainter
	hud     *ui.HUD
	palette render.Palette
	watch   *core.FixedStep

	scale    int
	selected nano.Tool
	watching bool
	invalid  nano.Reason
}

// New constructs a Game starting on level.
func New(cat *levels.Catalog, level nano.Level, store progress.Store, cfg *Config, logger *log.Logger) *Game {
	g := &Game{
		catalog:  cat,
		store:    store,
		logger:   logger,
		hud:      ui.NewHUD(cfg.Panel),
		palette:  render.DefaultPalette(),
		watch:    core.NewFixedStep(cfg.TPS),
		scale:    cfg.Scale,
		selected: nano.ToolBlock,
	}
	g.start(level)
	return g
}

func (g *Game) start(level nano.Level) {
	predict := true
	if p, err := g.store.Load(context.Background()); err == nil {
		predict = p.Settings.Predict
	} else {
		g.logger.Printf("load progress: %v", err)
	}
	g.sess = session.New(level,
		session.WithStore(g.store),
		session.WithLogger(g.logger),
		session.WithPredict(predict),
	)
	g.painter = render.NewGridPainter(level.Width, level.Height)
	g.invalid = nano.ReasonNone
	g.watching = false
	ebiten.SetWindowTitle("nanobreach - " + level.Name)
	ebiten.SetWindowSize(level.Width*g.scale+g.hud.Width(), level.Height*g.scale)
}

// Update handles per-frame input and advances the game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for i, key := range toolKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.selected = nano.Tools[i]
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		cx, cy := x/g.scale, y/g.scale
		if g.sess.State().InBounds(cx, cy) && x >= 0 && y >= 0 {
			g.play(nano.Place(g.selected, cx, cy))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.play(nano.Wait())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sess.Restart()
		g.invalid = nano.ReasonNone
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePredict()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if next, ok := g.catalog.Next(g.sess.Level().ID); ok {
			g.start(next)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.watching = !g.watching
		g.watch.Reset()
	}

	if g.watching && g.watch.ShouldStep() {
		g.play(nano.Wait())
	}
	if g.sess.Outcome().Finished() {
		g.watching = false
	}

	st := g.sess.State()
	g.hud.Update(ui.Status{
		LevelID:   st.ID,
		LevelName: st.Name,
		Turn:      st.Turn,
		Stats:     g.sess.Stats(),
		Outcome:   g.sess.Outcome(),
		Tools:     st.Tools,
		Cooldowns: st.Cooldowns,
		Selected:  g.selected,
		Predict:   g.sess.Predict(),
		Watching:  g.watching,
		Invalid:   g.invalid,
		Params:    g.sess.Parameters(),
	})
	return nil
}

func (g *Game) play(a nano.Action) {
	res, err := g.sess.Play(context.Background(), a)
	switch {
	case errors.Is(err, session.ErrFinished):
		return
	case err != nil:
		g.logger.Printf("play: %v", err)
	}
	g.invalid = res.InvalidAction
}

func (g *Game) togglePredict() {
	on := !g.sess.Predict()
	g.sess.SetPredict(on)
	ctx := context.Background()
	p, err := g.store.Load(ctx)
	if err == nil {
		p.Settings.Predict = on
		err = g.store.Save(ctx, p)
	}
	if err != nil {
		g.logger.Printf("save settings: %v", err)
	}
}

// Draw renders the board and the status panel.
func (g *Game) Draw(screen *ebiten.Image) {
	st := g.sess.State()
	mask := render.PredictionMask(st.Width, st.Height, g.sess.Prediction())
	g.painter.Blit(screen, g.sess.Cells(), g.palette, mask, g.scale)
	g.hud.Draw(screen, st.Width*g.scale, st.Height*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sess.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
