package nano

import (
	"slices"
	"testing"
)

func baseLevel() Level {
	return Level{
		ID:     99,
		Name:   "test",
		Width:  5,
		Height: 5,
		Nanos:  []Point{{X: 2, Y: 2}},
		Tools:  map[Tool]int{ToolBlock: 3, ToolPurge: 2, ToolSplitter: 1},
		Rules:  Rules{DiagonalGrowth: false, PurgeCooldown: 2},
		Win:    WinRules{SurviveTurns: 20},
		Lose:   LoseRules{MaxNanoRatio: 1, MaxTurns: 20},
	}
}

func TestInitStateStampOrder(t *testing.T) {
	level := baseLevel()
	level.Walls = []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	level.Goals = []Point{{X: 1, Y: 1}, {X: 4, Y: 4}}
	level.Nanos = []Point{{X: 4, Y: 4}, {X: 2, Y: 2}}

	s := InitState(level)

	cases := []struct {
		p    Point
		want Cell
	}{
		{Point{0, 0}, Wall},
		{Point{1, 1}, Goal},
		{Point{4, 4}, Nano},
		{Point{2, 2}, Nano},
		{Point{3, 3}, Empty},
	}
	for _, tc := range cases {
		if got := s.Cell(tc.p.X, tc.p.Y); got != tc.want {
			t.Fatalf("cell %v=%v want %v", tc.p, got, tc.want)
		}
	}
	if s.Turn != 0 {
		t.Fatalf("turn=%d want 0", s.Turn)
	}
	if s.Cooldowns[ToolPurge] != 0 {
		t.Fatalf("purge cooldown=%d want 0", s.Cooldowns[ToolPurge])
	}
	if s.LastNanoCount != 2 {
		t.Fatalf("last nano count=%d want 2", s.LastNanoCount)
	}
	if !slices.Equal(s.GoalCells, level.Goals) {
		t.Fatalf("goal cells=%v want %v", s.GoalCells, level.Goals)
	}
	if s.InvalidAction != ReasonNone || s.Stats != nil || s.Outcome != nil {
		t.Fatal("fresh state must carry no rejection, stats or outcome")
	}
}

func TestInitStateDeterministic(t *testing.T) {
	a := InitState(baseLevel())
	b := InitState(baseLevel())
	if !slices.Equal(a.Grid.Cells(), b.Grid.Cells()) {
		t.Fatal("same level must produce the same grid")
	}
}

func TestGrowthIsSimultaneous(t *testing.T) {
	s := InitState(baseLevel())
	next := AdvanceTurn(s, Wait())

	for _, p := range []Point{{2, 2}, {1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if next.Cell(p.X, p.Y) != Nano {
			t.Fatalf("cell %v=%v want nano\n%s", p, next.Cell(p.X, p.Y), next)
		}
	}
	if next.Cell(0, 2) != Empty {
		t.Fatalf("growth chained to (0,2)\n%s", next)
	}
	if got := next.Count(Nano); got != 5 {
		t.Fatalf("nano count=%d want 5", got)
	}
	if len(next.GrowthTargets) != 4 {
		t.Fatalf("growth targets=%v want 4 entries", next.GrowthTargets)
	}
}

func TestGrowthDiagonal(t *testing.T) {
	level := baseLevel()
	level.Rules.DiagonalGrowth = true
	next := AdvanceTurn(InitState(level), Wait())

	if got := next.Count(Nano); got != 9 {
		t.Fatalf("diagonal nano count=%d want 9\n%s", got, next)
	}
	if next.Cell(1, 1) != Nano || next.Cell(3, 3) != Nano {
		t.Fatalf("diagonals not reached\n%s", next)
	}
}

func TestGrowthTargetsDeduplicated(t *testing.T) {
	level := baseLevel()
	level.Nanos = []Point{{X: 1, Y: 2}, {X: 3, Y: 2}}
	s := InitState(level)

	targets := PredictGrowthCells(s)
	if !targets.Has(Point{2, 2}) {
		t.Fatal("shared neighbor must be a target")
	}
	next := RunGrowthPhase(s)
	seen := map[Point]int{}
	for _, p := range next.GrowthTargets {
		seen[p]++
	}
	if seen[Point{2, 2}] != 1 {
		t.Fatalf("shared neighbor listed %d times", seen[Point{2, 2}])
	}
	if len(next.GrowthTargets) != targets.Len() {
		t.Fatalf("growth converted %d cells, prediction said %d", len(next.GrowthTargets), targets.Len())
	}
}

func TestGrowthBlockedByWallBlockSplitter(t *testing.T) {
	level := baseLevel()
	level.Walls = []Point{{X: 2, Y: 1}}
	s := InitState(level)
	s = ApplyAction(s, Place(ToolBlock, 1, 2))
	s = ApplyAction(s, Place(ToolSplitter, 3, 2))

	next := RunGrowthPhase(s)
	if next.Cell(2, 1) != Wall || next.Cell(1, 2) != Block || next.Cell(3, 2) != Splitter {
		t.Fatalf("obstacles overwritten\n%s", next)
	}
	if next.Cell(2, 3) != Nano {
		t.Fatalf("open neighbor not grown\n%s", next)
	}
	if got := next.Count(Nano); got != 2 {
		t.Fatalf("nano count=%d want 2\n%s", got, next)
	}
}

func TestPredictionMatchesGrowth(t *testing.T) {
	_, _, walls, goals, nanos, err := ParseBoard([]string{
		"..#....",
		".n#..G.",
		"...S...",
		"#...n..",
		"....#..",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, diagonal := range []bool{false, true} {
		level := baseLevel()
		level.Width, level.Height = 7, 5
		level.Walls, level.Goals, level.Nanos = walls, goals, nanos
		level.Rules.DiagonalGrowth = diagonal

		s := InitState(level)
		s.Grid.Set(3, 2, uint8(Splitter))
		for turn := 0; turn < 4; turn++ {
			predicted := PredictGrowthCells(s)
			next := RunGrowthPhase(s)
			if !slices.Equal(predicted.Sorted(), NewPointSet(next.GrowthTargets...).Sorted()) {
				t.Fatalf("diagonal=%v turn %d: prediction %v, growth %v", diagonal, turn, predicted.Keys(), next.GrowthTargets)
			}
			s = next
		}
	}
}

func TestPredictDoesNotMutate(t *testing.T) {
	s := InitState(baseLevel())
	before := append([]uint8(nil), s.Grid.Cells()...)
	_ = PredictGrowthCells(s)
	if !slices.Equal(before, s.Grid.Cells()) {
		t.Fatal("prediction changed the grid")
	}
}

func TestBlockPlacementUntilExhausted(t *testing.T) {
	s := InitState(baseLevel())
	targets := []Point{{0, 0}, {4, 0}, {0, 4}}
	for i, p := range targets {
		before := s.Tools[ToolBlock]
		s = ApplyAction(s, Place(ToolBlock, p.X, p.Y))
		if s.InvalidAction != ReasonNone {
			t.Fatalf("placement %d rejected: %s", i, s.InvalidAction)
		}
		if s.Cell(p.X, p.Y) != Block {
			t.Fatalf("cell %v=%v want block", p, s.Cell(p.X, p.Y))
		}
		if s.Tools[ToolBlock] != before-1 {
			t.Fatalf("block count=%d want %d", s.Tools[ToolBlock], before-1)
		}
	}

	grid := append([]uint8(nil), s.Grid.Cells()...)
	s = ApplyAction(s, Place(ToolBlock, 4, 4))
	if s.InvalidAction != ReasonNoResource {
		t.Fatalf("invalid action=%q want %q", s.InvalidAction, ReasonNoResource)
	}
	if !slices.Equal(grid, s.Grid.Cells()) {
		t.Fatal("rejected placement changed the grid")
	}
	if s.Tools[ToolBlock] != 0 {
		t.Fatalf("block count=%d want 0", s.Tools[ToolBlock])
	}
}

func TestPlacementRequiresEmptyCell(t *testing.T) {
	level := baseLevel()
	level.Walls = []Point{{X: 0, Y: 0}}
	level.Goals = []Point{{X: 4, Y: 4}}
	s := InitState(level)

	for _, a := range []Action{
		Place(ToolBlock, 0, 0),
		Place(ToolBlock, 2, 2),
		Place(ToolSplitter, 4, 4),
		Place(ToolPurge, 1, 1),
		{Type: "laser", X: 1, Y: 1},
	} {
		next := ApplyAction(s, a)
		if next.InvalidAction != ReasonInvalidTarget {
			t.Fatalf("%+v: invalid action=%q want %q", a, next.InvalidAction, ReasonInvalidTarget)
		}
	}
}

func TestPurgeAndCooldown(t *testing.T) {
	level := baseLevel()
	level.Nanos = []Point{{X: 2, Y: 2}, {X: 0, Y: 0}}
	s := InitState(level)

	purged := ApplyAction(s, Place(ToolPurge, 2, 2))
	if purged.Cell(2, 2) != Empty {
		t.Fatalf("purged cell=%v want empty", purged.Cell(2, 2))
	}
	if purged.Tools[ToolPurge] != 1 {
		t.Fatalf("purge count=%d want 1", purged.Tools[ToolPurge])
	}
	if purged.Cooldowns[ToolPurge] != 2 {
		t.Fatalf("purge cooldown=%d want 2", purged.Cooldowns[ToolPurge])
	}

	again := ApplyAction(purged, Place(ToolPurge, 0, 0))
	if again.InvalidAction != ReasonCooldown {
		t.Fatalf("same-turn purge: invalid action=%q want %q", again.InvalidAction, ReasonCooldown)
	}

	turned := AdvanceTurn(s, Place(ToolPurge, 2, 2))
	if turned.Cooldowns[ToolPurge] != 1 {
		t.Fatalf("cooldown after tick=%d want 1", turned.Cooldowns[ToolPurge])
	}
	next := AdvanceTurn(turned, Place(ToolPurge, 0, 0))
	if next.InvalidAction != ReasonCooldown {
		t.Fatalf("next-turn purge: invalid action=%q want %q", next.InvalidAction, ReasonCooldown)
	}
	if next.Cooldowns[ToolPurge] != 0 {
		t.Fatalf("cooldown=%d want 0", next.Cooldowns[ToolPurge])
	}
	final := AdvanceTurn(next, Place(ToolPurge, 0, 0))
	if final.InvalidAction != ReasonNone {
		t.Fatalf("purge after cooldown rejected: %q", final.InvalidAction)
	}
}

func TestCooldownCheckedAfterResource(t *testing.T) {
	level := baseLevel()
	level.Tools[ToolPurge] = 0
	s := InitState(level)
	s.Cooldowns[ToolPurge] = 3
	next := ApplyAction(s, Place(ToolPurge, 2, 2))
	if next.InvalidAction != ReasonNoResource {
		t.Fatalf("invalid action=%q want %q", next.InvalidAction, ReasonNoResource)
	}
}

func TestOutOfBoundsAlwaysInvalidTarget(t *testing.T) {
	for _, tools := range []map[Tool]int{
		{ToolBlock: 3, ToolPurge: 2, ToolSplitter: 1},
		{},
	} {
		level := baseLevel()
		level.Tools = tools
		s := InitState(level)
		for _, a := range []Action{
			Place(ToolBlock, -1, 0),
			Place(ToolPurge, 5, 2),
			Place(ToolSplitter, 2, 5),
			Place(ToolBlock, 0, -3),
		} {
			applied := ApplyAction(s, a)
			if applied.InvalidAction != ReasonInvalidTarget {
				t.Fatalf("%+v: invalid action=%q want %q", a, applied.InvalidAction, ReasonInvalidTarget)
			}
			if !slices.Equal(applied.Grid.Cells(), s.Grid.Cells()) {
				t.Fatalf("%+v: grid changed", a)
			}
			turned := AdvanceTurn(s, a)
			if turned.InvalidAction != ReasonInvalidTarget {
				t.Fatalf("%+v: advance invalid action=%q", a, turned.InvalidAction)
			}
		}
	}
}

func TestRejectedActionStillCostsTurn(t *testing.T) {
	s := InitState(baseLevel())
	next := AdvanceTurn(s, Place(ToolBlock, 9, 9))
	if next.Turn != 1 {
		t.Fatalf("turn=%d want 1", next.Turn)
	}
	if next.Count(Nano) != 5 {
		t.Fatalf("growth skipped after rejected action\n%s", next)
	}
	cleared := AdvanceTurn(next, Wait())
	if cleared.InvalidAction != ReasonNone {
		t.Fatalf("valid action must clear rejection, got %q", cleared.InvalidAction)
	}
}

func TestTurnCounterMonotonic(t *testing.T) {
	level := baseLevel()
	level.Win.SurviveTurns = 100
	level.Lose.MaxTurns = 100
	s := InitState(level)
	actions := []Action{
		Wait(),
		Place(ToolBlock, 0, 0),
		Place(ToolBlock, 0, 0),
		Place(ToolPurge, 40, 40),
		Place(ToolSplitter, 4, 4),
		{Type: "bogus"},
		Wait(),
	}
	for i, a := range actions {
		s = AdvanceTurn(s, a)
		if s.Turn != i+1 {
			t.Fatalf("after %d calls turn=%d", i+1, s.Turn)
		}
	}
}

func TestAdvanceTurnDoesNotAliasInput(t *testing.T) {
	s := InitState(baseLevel())
	grid := append([]uint8(nil), s.Grid.Cells()...)
	tools := s.Tools[ToolBlock]

	next := AdvanceTurn(s, Place(ToolBlock, 0, 0))
	next.Grid.Set(4, 4, uint8(Wall))
	next.Tools[ToolBlock] = 42
	next.Cooldowns[ToolPurge] = 9

	if !slices.Equal(grid, s.Grid.Cells()) {
		t.Fatal("input grid changed")
	}
	if s.Tools[ToolBlock] != tools || s.Cooldowns[ToolPurge] != 0 || s.Turn != 0 {
		t.Fatal("input counters changed")
	}
}

func TestGoalBreachForcesLoss(t *testing.T) {
	level := baseLevel()
	level.Goals = []Point{{X: 2, Y: 1}}
	level.Win.SurviveTurns = 1
	s := InitState(level)
	next := AdvanceTurn(s, Wait())

	if next.Outcome == nil {
		t.Fatal("advance must attach an outcome")
	}
	if !next.Outcome.GoalBreached || !next.Outcome.Lost {
		t.Fatalf("outcome=%+v want breached and lost", *next.Outcome)
	}
	if next.Outcome.Won {
		t.Fatal("breach must never win")
	}
}

func TestEvaluateWinConditions(t *testing.T) {
	cases := []struct {
		name  string
		turn  int
		nanos []Point
		win   WinRules
		lose  LoseRules
		won   bool
		lost  bool
	}{
		{
			name: "survive",
			turn: 5, nanos: []Point{{2, 2}},
			win:  WinRules{SurviveTurns: 5},
			lose: LoseRules{MaxNanoRatio: 1, MaxTurns: 10},
			won:  true,
		},
		{
			name: "eradicate",
			turn: 1,
			win:  WinRules{SurviveTurns: 10, EradicateAll: true},
			lose: LoseRules{MaxNanoRatio: 1, MaxTurns: 10},
			won:  true,
		},
		{
			name: "protect goal",
			turn: 3, nanos: []Point{{2, 2}},
			win:  WinRules{SurviveTurns: 10, ProtectGoalTurns: 3},
			lose: LoseRules{MaxNanoRatio: 1, MaxTurns: 10},
			won:  true,
		},
		{
			name: "max turns without win",
			turn: 10, nanos: []Point{{2, 2}},
			win:  WinRules{SurviveTurns: 11},
			lose: LoseRules{MaxNanoRatio: 1, MaxTurns: 10},
			lost: true,
		},
		{
			name: "max turns after win",
			turn: 10, nanos: []Point{{2, 2}},
			win:  WinRules{SurviveTurns: 10},
			lose: LoseRules{MaxNanoRatio: 1, MaxTurns: 10},
			won:  true,
		},
		{
			name: "ratio exceeded with survival",
			turn: 5, nanos: []Point{{0, 0}, {1, 0}},
			win:  WinRules{SurviveTurns: 5},
			lose: LoseRules{MaxNanoRatio: 0.05, MaxTurns: 10},
			won:  true, lost: true,
		},
		{
			name: "ratio at threshold",
			turn: 1, nanos: []Point{{0, 0}},
			win:  WinRules{SurviveTurns: 10},
			lose: LoseRules{MaxNanoRatio: 0.04, MaxTurns: 10},
		},
	}

	for _, tc := range cases {
		level := baseLevel()
		level.Nanos = tc.nanos
		level.Win = tc.win
		level.Lose = tc.lose
		s := InitState(level)
		s.Turn = tc.turn

		out := EvaluateState(s)
		if out.Won != tc.won || out.Lost != tc.lost {
			t.Fatalf("%s: won=%v lost=%v want won=%v lost=%v", tc.name, out.Won, out.Lost, tc.won, tc.lost)
		}
		if out.NanoCount != len(tc.nanos) {
			t.Fatalf("%s: nano count=%d want %d", tc.name, out.NanoCount, len(tc.nanos))
		}
	}
}

func TestEvaluateStuckLose(t *testing.T) {
	level := baseLevel()
	level.Tools = map[Tool]int{ToolBlock: 0, ToolPurge: 0, ToolSplitter: 0}
	level.Lose.StuckLose = true
	if !EvaluateState(InitState(level)).Lost {
		t.Fatal("no tools with nano left must lose")
	}

	level.Nanos = nil
	if EvaluateState(InitState(level)).Lost {
		t.Fatal("stuck rule needs nano on the board")
	}

	level = baseLevel()
	level.Lose.StuckLose = true
	level.Tools = map[Tool]int{ToolBlock: 0, ToolPurge: 1, ToolSplitter: 0}
	if EvaluateState(InitState(level)).Lost {
		t.Fatal("a remaining tool must not count as stuck")
	}
}

func TestEvaluateReportsRatio(t *testing.T) {
	level := baseLevel()
	level.Nanos = []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	out := EvaluateState(InitState(level))
	if out.NanoRatio != 0.2 {
		t.Fatalf("ratio=%v want 0.2", out.NanoRatio)
	}
}

func TestStats(t *testing.T) {
	s := InitState(baseLevel())
	initial := InitialStats(s)
	if initial.GrowthRate != 1 || initial.Increase != 0 || initial.PredictedNext != 4 {
		t.Fatalf("initial stats=%+v", initial)
	}

	next := AdvanceTurn(s, Wait())
	st := next.Stats
	if st == nil {
		t.Fatal("advance must attach stats")
	}
	if st.NanoCount != 5 || st.Increase != 4 || st.GrowthRate != 5 {
		t.Fatalf("stats=%+v want count 5, increase 4, rate 5", *st)
	}
	if st.PredictedNext != PredictGrowthCells(next).Len() || st.PredictedNext != 8 {
		t.Fatalf("predicted next=%d want 8", st.PredictedNext)
	}
	if next.LastNanoCount != 5 {
		t.Fatalf("last nano count=%d want 5", next.LastNanoCount)
	}
}

func TestGrowthRateZeroWhenPreviousEmpty(t *testing.T) {
	level := baseLevel()
	level.Nanos = nil
	next := AdvanceTurn(InitState(level), Wait())
	if next.Stats.GrowthRate != 0 {
		t.Fatalf("growth rate=%v want 0", next.Stats.GrowthRate)
	}
	if next.Stats.Increase != 0 || next.Stats.NanoCount != 0 {
		t.Fatalf("stats=%+v on empty board", *next.Stats)
	}
}

func TestGrowthRateAfterPurge(t *testing.T) {
	level := baseLevel()
	level.Width, level.Height = 1, 1
	level.Nanos = []Point{{0, 0}}
	s := InitState(level)

	purged := AdvanceTurn(s, Place(ToolPurge, 0, 0))
	if purged.Stats.NanoCount != 0 || purged.Stats.Increase != -1 || purged.Stats.GrowthRate != 0 {
		t.Fatalf("stats=%+v", *purged.Stats)
	}
	after := AdvanceTurn(purged, Wait())
	if after.Stats.GrowthRate != 0 {
		t.Fatalf("growth rate from zero=%v want 0", after.Stats.GrowthRate)
	}
}
