package session

import (
	"context"

	"nanobreach/internal/core"
	"nanobreach/internal/levels"
	"nanobreach/internal/sims/nano"
)

func init() {
	core.Register("nano", func(cfg map[string]string) (core.Sim, error) {
		cat, err := levels.Builtin()
		if err != nil {
			return nil, err
		}
		level, err := levels.Resolve(cat, levels.FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return New(level), nil
	})
}

// Name implements core.Sim.
func (s *Session) Name() string { return "nano" }

// Size implements core.Sim.
func (s *Session) Size() core.Size {
	return core.Size{W: s.state.Width, H: s.state.Height}
}

// Reset implements core.Sim by restarting the level. Levels are fixed, so
// the seed is ignored.
func (s *Session) Reset(int64) { s.Restart() }

// Step implements core.Sim by waiting one turn.
func (s *Session) Step() {
	_, _ = s.Play(context.Background(), nano.Wait())
}

// Cells implements core.Sim.
func (s *Session) Cells() []uint8 { return s.state.Grid.Cells() }

// Parameters exposes the level rules.
func (s *Session) Parameters() core.ParameterSnapshot { return s.state.Parameters() }
