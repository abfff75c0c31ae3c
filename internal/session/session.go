// Package session runs one game over one level: it decides which turns are
// adopted, records them and keeps the player's progress up to date.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"nanobreach/internal/progress"
	"nanobreach/internal/replay"
	"nanobreach/internal/sims/nano"
)

// ErrFinished is returned by Play once the level is won or lost.
var ErrFinished = errors.New("session finished")

// Result describes the outcome of one Play call.
type Result struct {
	// State is the session state after the call. For a rejected action it is
	// the unchanged state from before the call.
	State *nano.State
	// Adopted reports whether the turn was spent.
	Adopted       bool
	InvalidAction nano.Reason
	Outcome       nano.Outcome
	Stats         nano.Stats
}

// Option configures a Session.
type Option func(*Session)

// WithStore marks won levels as cleared in store.
func WithStore(store progress.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithRecorder sends the initial board and every adopted turn to rec.
func WithRecorder(rec *replay.Recorder) Option {
	return func(s *Session) { s.recorder = rec }
}

// WithLogger sets the logger; nil discards.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithPredict sets the initial prediction setting.
func WithPredict(on bool) Option {
	return func(s *Session) { s.predict = on }
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is not safe for concurrent use.
type Session struct {
	id      string
	level   nano.Level
	state   *nano.State
	predict bool

	store    progress.Store
	recorder *replay.Recorder
	logger   *log.Logger
}

// New starts a session on level.
func New(level nano.Level, opts ...Option) *Session {
	s := &Session{level: level, predict: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	s.Restart()
	return s
}

// ID returns the session identifier used in replay logs.
func (s *Session) ID() string { return s.id }

// Level returns the level being played.
func (s *Session) Level() nano.Level { return s.level }

// State returns the current state. Callers must not modify it.
func (s *Session) State() *nano.State { return s.state }

// Restart returns the session to the level's initial board.
func (s *Session) Restart() {
	s.state = nano.InitState(s.level)
	s.record()
	s.logger.Printf("session %s: start level %d %q", s.id, s.level.ID, s.level.Name)
}

// Outcome evaluates the current state.
func (s *Session) Outcome() nano.Outcome {
	return nano.EvaluateState(s.state)
}

// Stats returns the stats of the last adopted turn, or the initial stats
// before the first one.
func (s *Session) Stats() nano.Stats {
	if s.state.Stats == nil {
		return nano.InitialStats(s.state)
	}
	return *s.state.Stats
}

// Predict reports whether growth prediction is shown.
func (s *Session) Predict() bool { return s.predict }

// SetPredict toggles growth prediction.
func (s *Session) SetPredict(on bool) { s.predict = on }

// Prediction returns the cells the nano will take next turn, or an empty set
// when prediction is off.
func (s *Session) Prediction() nano.PointSet {
	if !s.predict {
		return nano.NewPointSet()
	}
	return nano.PredictGrowthCells(s.state)
}

// Play advances the game by one turn with a. A rejected action is reported
// but does not spend the turn.
func (s *Session) Play(ctx context.Context, a nano.Action) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.Outcome().Finished() {
		return Result{}, ErrFinished
	}

	next := nano.AdvanceTurn(s.state, a)
	if next.InvalidAction != nano.ReasonNone {
		s.logger.Printf("session %s: turn %d rejected %s at (%d,%d): %s",
			s.id, s.state.Turn+1, a.Type, a.X, a.Y, next.InvalidAction)
		return Result{
			State:         s.state,
			InvalidAction: next.InvalidAction,
			Outcome:       s.Outcome(),
			Stats:         s.Stats(),
		}, nil
	}

	s.state = next
	s.record()
	out := *next.Outcome
	res := Result{State: next, Adopted: true, Outcome: out, Stats: *next.Stats}

	switch {
	case out.Won:
		s.logger.Printf("session %s: level %d won on turn %d", s.id, s.level.ID, next.Turn)
		if s.store != nil {
			if err := s.store.MarkCleared(ctx, s.level.ID); err != nil {
				return res, fmt.Errorf("mark level %d cleared: %w", s.level.ID, err)
			}
		}
	case out.Lost:
		s.logger.Printf("session %s: level %d lost on turn %d", s.id, s.level.ID, next.Turn)
	}
	return res, nil
}

func (s *Session) record() {
	if s.recorder != nil {
		s.recorder.Record(s.id, s.state)
	}
}
