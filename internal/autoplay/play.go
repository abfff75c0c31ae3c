package autoplay

import (
	"context"
	"errors"

	"nanobreach/internal/session"
	"nanobreach/internal/sims/nano"
)

// fallbackTurns caps games whose level sets no turn limit.
const fallbackTurns = 1000

// Run summarises one automated game.
type Run struct {
	LevelID  int
	Policy   string
	Turns    int
	Rejected int
	Outcome  nano.Outcome
	Final    *nano.State
	// Err is set when the session reported a non-game error, such as a
	// failing progress store.
	Err error
}

// Play runs policy on level until the game finishes or maxTurns turns were
// adopted. maxTurns <= 0 uses the level's own turn limit. A rejected choice
// is replaced by a wait so the game always progresses.
func Play(level nano.Level, policy Policy, maxTurns int, opts ...session.Option) Run {
	if maxTurns <= 0 {
		maxTurns = level.Lose.MaxTurns
	}
	if maxTurns <= 0 {
		maxTurns = fallbackTurns
	}

	ctx := context.Background()
	sess := session.New(level, opts...)
	run := Run{LevelID: level.ID, Policy: policy.Name()}

	for sess.State().Turn < maxTurns && !sess.Outcome().Finished() {
		res, err := sess.Play(ctx, policy.Choose(sess.State()))
		if err == nil && !res.Adopted {
			run.Rejected++
			res, err = sess.Play(ctx, nano.Wait())
		}
		if err != nil {
			if !errors.Is(err, session.ErrFinished) {
				run.Err = err
			}
			break
		}
	}

	run.Turns = sess.State().Turn
	run.Outcome = sess.Outcome()
	run.Final = sess.State()
	return run
}
