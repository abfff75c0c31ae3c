package nano

// Rules configures growth and tool timing for a level.
type Rules struct {
	DiagonalGrowth bool
	PurgeCooldown  int
}

// WinRules lists the victory thresholds. A level is won when any enabled
// condition holds and no goal has been breached.
type WinRules struct {
	SurviveTurns     int
	EradicateAll     bool
	ProtectGoalTurns int
}

// LoseRules lists the defeat thresholds.
type LoseRules struct {
	MaxNanoRatio float64
	MaxTurns     int
	StuckLose    bool
}

// Level is the static definition a game starts from.
type Level struct {
	ID     int
	Name   string
	Width  int
	Height int

	Walls []Point
	Goals []Point
	Nanos []Point

	Tools map[Tool]int

	Rules Rules
	Win   WinRules
	Lose  LoseRules
}
