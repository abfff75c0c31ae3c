package nano

import (
	"maps"
	"slices"

	"nanobreach/internal/core"
)

// State is a full snapshot of a game in progress. Treat it as immutable:
// callers derive new states through AdvanceTurn and friends and never write
// into a state they received.
type State struct {
	ID     int
	Name   string
	Width  int
	Height int

	Grid *core.ByteGrid
	Turn int

	Tools     map[Tool]int
	Cooldowns map[Tool]int
	GoalCells []Point

	Rules Rules
	Win   WinRules
	Lose  LoseRules

	// LastNanoCount is the nano count at the end of the previous turn.
	LastNanoCount int
	InvalidAction Reason
	LastAction    *Action
	// GrowthTargets holds the cells converted by the latest growth phase.
	GrowthTargets []Point

	// Stats and Outcome are attached by AdvanceTurn only.
	Stats   *Stats
	Outcome *Outcome
}

// InitState builds the turn-zero state for a level. Walls are stamped first,
// then goals, then nanos, so a later stamp wins on a shared coordinate.
// Coordinates outside the board are ignored.
func InitState(level Level) *State {
	grid := core.NewByteGrid(level.Width, level.Height)
	for _, p := range level.Walls {
		grid.Set(p.X, p.Y, uint8(Wall))
	}
	for _, p := range level.Goals {
		grid.Set(p.X, p.Y, uint8(Goal))
	}
	for _, p := range level.Nanos {
		grid.Set(p.X, p.Y, uint8(Nano))
	}

	tools := make(map[Tool]int, len(level.Tools))
	for t, n := range level.Tools {
		if n < 0 {
			n = 0
		}
		tools[t] = n
	}

	return &State{
		ID:            level.ID,
		Name:          level.Name,
		Width:         level.Width,
		Height:        level.Height,
		Grid:          grid,
		Tools:         tools,
		Cooldowns:     map[Tool]int{ToolPurge: 0},
		GoalCells:     slices.Clone(level.Goals),
		Rules:         level.Rules,
		Win:           level.Win,
		Lose:          level.Lose,
		LastNanoCount: grid.Count(uint8(Nano)),
		GrowthTargets: []Point{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	next := *s
	next.Grid = s.Grid.Clone()
	next.Tools = maps.Clone(s.Tools)
	next.Cooldowns = maps.Clone(s.Cooldowns)
	next.GoalCells = slices.Clone(s.GoalCells)
	next.GrowthTargets = slices.Clone(s.GrowthTargets)
	if s.LastAction != nil {
		a := *s.LastAction
		next.LastAction = &a
	}
	if s.Stats != nil {
		st := *s.Stats
		next.Stats = &st
	}
	if s.Outcome != nil {
		o := *s.Outcome
		next.Outcome = &o
	}
	return &next
}

// InBounds reports whether (x, y) lies on the board.
func (s *State) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// Cell returns the value at (x, y).
func (s *State) Cell(x, y int) Cell { return Cell(s.Grid.At(x, y)) }

// Count returns how many cells hold c.
func (s *State) Count(c Cell) int { return s.Grid.Count(uint8(c)) }
