package autoplay

import (
	"slices"
	"testing"

	"nanobreach/internal/levels"
	"nanobreach/internal/sims/nano"
)

func openLevel(w, h int, nanos, goals []nano.Point) nano.Level {
	return nano.Level{
		ID:     9,
		Name:   "open",
		Width:  w,
		Height: h,
		Goals:  goals,
		Nanos:  nanos,
		Tools:  map[nano.Tool]int{nano.ToolBlock: 3, nano.ToolPurge: 1, nano.ToolSplitter: 1},
		Rules:  nano.Rules{PurgeCooldown: 2},
		Win:    nano.WinRules{SurviveTurns: 50},
		Lose:   nano.LoseRules{MaxNanoRatio: 1, MaxTurns: 50},
	}
}

type badPolicy struct{}

func (badPolicy) Name() string { return "bad" }
func (badPolicy) Choose(s *nano.State) nano.Action {
	return nano.Place(nano.ToolBlock, -1, -1)
}

func TestGreedyPurgesNanoNextToGoal(t *testing.T) {
	s := nano.InitState(openLevel(5, 1, []nano.Point{{X: 0, Y: 0}}, []nano.Point{{X: 1, Y: 0}}))
	got := Greedy{}.Choose(s)
	want := nano.Place(nano.ToolPurge, 0, 0)
	if got != want {
		t.Fatalf("choose = %+v, want %+v", got, want)
	}
}

func TestGreedyBlocksNearestPredictedCell(t *testing.T) {
	s := nano.InitState(openLevel(5, 5, []nano.Point{{X: 2, Y: 2}}, []nano.Point{{X: 4, Y: 2}}))
	got := Greedy{}.Choose(s)
	want := nano.Place(nano.ToolBlock, 3, 2)
	if got != want {
		t.Fatalf("choose = %+v, want %+v", got, want)
	}
}

func TestGreedyWithoutGoalsTakesFirstTarget(t *testing.T) {
	s := nano.InitState(openLevel(5, 5, []nano.Point{{X: 2, Y: 2}}, nil))
	got := Greedy{}.Choose(s)
	want := nano.Place(nano.ToolBlock, 2, 1)
	if got != want {
		t.Fatalf("choose = %+v, want %+v", got, want)
	}
}

func TestGreedyFallsBackToSplitterThenWait(t *testing.T) {
	lvl := openLevel(5, 5, []nano.Point{{X: 2, Y: 2}}, nil)
	lvl.Tools = map[nano.Tool]int{nano.ToolSplitter: 1}
	if got := (Greedy{}).Choose(nano.InitState(lvl)); got.Tool() != nano.ToolSplitter {
		t.Fatalf("tool = %q, want splitter", got.Tool())
	}
	lvl.Tools = map[nano.Tool]int{}
	if got := (Greedy{}).Choose(nano.InitState(lvl)); !got.IsWait() {
		t.Fatalf("choose = %+v, want wait", got)
	}
}

func TestWaiterLosesOnSmallBoard(t *testing.T) {
	lvl := openLevel(3, 1, []nano.Point{{X: 0, Y: 0}}, nil)
	lvl.Lose.MaxNanoRatio = 0.5
	run := Play(lvl, Waiter{}, 0)
	if !run.Outcome.Lost || run.Turns != 1 {
		t.Fatalf("run = %+v, want loss on turn 1", run)
	}
	if run.Policy != "wait" || run.LevelID != 9 {
		t.Fatalf("run metadata = %q/%d", run.Policy, run.LevelID)
	}
}

func TestPlayStopsAtMaxTurns(t *testing.T) {
	lvl := openLevel(20, 20, []nano.Point{{X: 10, Y: 10}}, nil)
	run := Play(lvl, Waiter{}, 3)
	if run.Turns != 3 {
		t.Fatalf("turns = %d, want 3", run.Turns)
	}
	if run.Outcome.Finished() {
		t.Fatalf("outcome = %+v, want unfinished", run.Outcome)
	}
}

func TestPlayReplacesRejectedChoices(t *testing.T) {
	lvl := openLevel(20, 20, []nano.Point{{X: 10, Y: 10}}, nil)
	run := Play(lvl, badPolicy{}, 4)
	if run.Turns != 4 || run.Rejected != 4 {
		t.Fatalf("turns/rejected = %d/%d, want 4/4", run.Turns, run.Rejected)
	}
}

func TestGreedyIsDeterministicOnCatalog(t *testing.T) {
	cat, err := levels.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	for _, lvl := range cat.All() {
		a := Play(lvl, Greedy{}, 0)
		b := Play(lvl, Greedy{}, 0)
		if a.Turns != b.Turns || a.Outcome != b.Outcome {
			t.Fatalf("level %d: runs differ: %+v vs %+v", lvl.ID, a.Outcome, b.Outcome)
		}
		if !slices.Equal(a.Final.Grid.Cells(), b.Final.Grid.Cells()) {
			t.Fatalf("level %d: final grids differ", lvl.ID)
		}
		if !a.Outcome.Finished() {
			t.Fatalf("level %d: greedy run did not finish in %d turns", lvl.ID, a.Turns)
		}
		if a.Err != nil {
			t.Fatalf("level %d: %v", lvl.ID, a.Err)
		}
	}
}

func TestPolicies(t *testing.T) {
	ps := Policies()
	if _, ok := ps["greedy"]; !ok {
		t.Fatalf("greedy missing from %v", ps)
	}
	if _, ok := ps["wait"]; !ok {
		t.Fatalf("wait missing from %v", ps)
	}
}
