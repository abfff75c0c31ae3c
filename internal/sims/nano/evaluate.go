package nano

// Outcome summarizes a state against its level's win and lose thresholds.
type Outcome struct {
	NanoCount    int     `json:"nano_count"`
	NanoRatio    float64 `json:"nano_ratio"`
	GoalBreached bool    `json:"goal_breached"`
	Won          bool    `json:"won"`
	Lost         bool    `json:"lost"`
}

// Finished reports whether the game is over either way.
func (o Outcome) Finished() bool { return o.Won || o.Lost }

// EvaluateState computes the outcome of s without changing it. A breached
// goal always forbids a win and always counts as a loss.
func EvaluateState(s *State) Outcome {
	nanoCount := s.Count(Nano)
	ratio := 0.0
	if cells := s.Width * s.Height; cells > 0 {
		ratio = float64(nanoCount) / float64(cells)
	}

	breached := false
	for _, p := range s.GoalCells {
		if s.InBounds(p.X, p.Y) && s.Cell(p.X, p.Y) == Nano {
			breached = true
			break
		}
	}

	survived := s.Turn >= s.Win.SurviveTurns
	eradicated := s.Win.EradicateAll && nanoCount == 0
	protected := s.Win.ProtectGoalTurns > 0 && s.Turn >= s.Win.ProtectGoalTurns && !breached
	won := !breached && (survived || eradicated || protected)

	lostByRatio := ratio > s.Lose.MaxNanoRatio
	lostByTurns := s.Turn >= s.Lose.MaxTurns && !won
	stuck := s.Lose.StuckLose && toolsExhausted(s.Tools) && nanoCount > 0
	lost := breached || lostByRatio || lostByTurns || stuck

	return Outcome{
		NanoCount:    nanoCount,
		NanoRatio:    ratio,
		GoalBreached: breached,
		Won:          won,
		Lost:         lost,
	}
}

func toolsExhausted(tools map[Tool]int) bool {
	for _, n := range tools {
		if n > 0 {
			return false
		}
	}
	return true
}
