package levels

import (
	"fmt"

	"nanobreach/internal/sims/nano"
	"nanobreach/pkg/core"
)

// GenOptions shapes a procedurally generated level.
type GenOptions struct {
	ID         int
	Width      int
	Height     int
	WallChance float64
	Goals      int
	Nanos      int
	Diagonal   bool
}

// DefaultGenOptions returns the generator defaults.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		ID:         1000,
		Width:      10,
		Height:     10,
		WallChance: 0.08,
		Goals:      2,
		Nanos:      2,
	}
}

func (o GenOptions) normalized() GenOptions {
	d := DefaultGenOptions()
	if o.ID <= 0 {
		o.ID = d.ID
	}
	o.Width = max(o.Width, 3)
	o.Height = max(o.Height, 3)
	if o.WallChance < 0 {
		o.WallChance = 0
	}
	if o.WallChance > 0.4 {
		o.WallChance = 0.4
	}
	o.Goals = max(o.Goals, 1)
	o.Nanos = max(o.Nanos, 1)
	return o
}

// Generate builds a level from seed. The same seed and options always give
// the same level, and the result always passes Validate.
func Generate(seed int64, opts GenOptions) nano.Level {
	opts = opts.normalized()
	rng := core.NewRNG(seed)
	w, h := opts.Width, opts.Height

	level := nano.Level{
		ID:     opts.ID,
		Name:   fmt.Sprintf("Generated #%d", seed),
		Width:  w,
		Height: h,
		Tools: map[nano.Tool]int{
			nano.ToolBlock:    max(w*h/8, 2),
			nano.ToolPurge:    2,
			nano.ToolSplitter: 1,
		},
		Rules: nano.Rules{DiagonalGrowth: opts.Diagonal, PurgeCooldown: 2},
		Win:   nano.WinRules{SurviveTurns: (w + h) / 2, ProtectGoalTurns: 0},
		Lose:  nano.LoseRules{MaxNanoRatio: 0.6, MaxTurns: (w+h)/2 + 4},
	}

	free := make([]nano.Point, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := nano.Point{X: x, Y: y}
			if rng.Chance(opts.WallChance) {
				level.Walls = append(level.Walls, p)
				continue
			}
			free = append(free, p)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	take := func(n int, ok func(nano.Point) bool) []nano.Point {
		var picked []nano.Point
		rest := free[:0]
		for _, p := range free {
			if len(picked) < n && ok(p) {
				picked = append(picked, p)
				continue
			}
			rest = append(rest, p)
		}
		free = rest
		return picked
	}

	// Keep at least one free cell for nano.
	goalBudget := min(opts.Goals, len(free)-1)
	level.Goals = take(goalBudget, func(nano.Point) bool { return true })

	for minDist := max((w+h)/4, 2); minDist >= 0 && len(level.Nanos) < opts.Nanos; minDist-- {
		level.Nanos = append(level.Nanos, take(opts.Nanos-len(level.Nanos), func(p nano.Point) bool {
			return distanceToGoals(p, level.Goals) >= minDist
		})...)
	}
	if len(level.Nanos) == 0 {
		// The wall roll filled the board; reopen a cell for the seed.
		p := level.Walls[len(level.Walls)-1]
		level.Walls = level.Walls[:len(level.Walls)-1]
		level.Nanos = []nano.Point{p}
	}
	return level
}

func distanceToGoals(p nano.Point, goals []nano.Point) int {
	best := -1
	for _, g := range goals {
		d := abs(p.X-g.X) + abs(p.Y-g.Y)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 1 << 30
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
