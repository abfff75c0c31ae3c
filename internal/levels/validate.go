package levels

import (
	"errors"
	"fmt"

	"nanobreach/internal/sims/nano"
)

var (
	// ErrInvalidLevel marks a level definition the engine must not be
	// started from.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrUnknownLevel is returned when a catalog has no level with the ID.
	ErrUnknownLevel = errors.New("unknown level")
)

// Validate checks the board-level consistency of a definition. All problems
// are reported together; each wraps ErrInvalidLevel.
func Validate(l nano.Level) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: level %d: %s", ErrInvalidLevel, l.ID, fmt.Sprintf(format, args...)))
	}

	if l.ID <= 0 {
		fail("id must be positive")
	}
	if l.Width <= 0 || l.Height <= 0 {
		fail("dimensions %dx%d must be positive", l.Width, l.Height)
		return errors.Join(errs...)
	}

	occupied := make(map[nano.Point]string, len(l.Walls)+len(l.Goals)+len(l.Nanos))
	stamp := func(kind string, pts []nano.Point) {
		for _, p := range pts {
			if p.X < 0 || p.Y < 0 || p.X >= l.Width || p.Y >= l.Height {
				fail("%s %v outside %dx%d board", kind, p, l.Width, l.Height)
				continue
			}
			if prev, ok := occupied[p]; ok {
				fail("%s %v overlaps %s", kind, p, prev)
				continue
			}
			occupied[p] = kind
		}
	}
	stamp("wall", l.Walls)
	stamp("goal", l.Goals)
	stamp("nano", l.Nanos)

	if len(l.Nanos) == 0 {
		fail("needs at least one nano cell")
	}
	for t, n := range l.Tools {
		if !t.Known() {
			fail("unknown tool %q", t)
		}
		if n < 0 {
			fail("tool %s count %d is negative", t, n)
		}
	}
	if l.Rules.PurgeCooldown < 0 {
		fail("purge cooldown %d is negative", l.Rules.PurgeCooldown)
	}
	if l.Win.SurviveTurns < 0 || l.Win.ProtectGoalTurns < 0 {
		fail("win thresholds must not be negative")
	}
	if l.Lose.MaxNanoRatio <= 0 || l.Lose.MaxNanoRatio > 1 {
		fail("max nano ratio %v outside (0, 1]", l.Lose.MaxNanoRatio)
	}
	if l.Lose.MaxTurns <= 0 {
		fail("max turns %d must be positive", l.Lose.MaxTurns)
	}
	return errors.Join(errs...)
}
