package nano

// Stats describes how the infestation moved during the latest turn.
type Stats struct {
	NanoCount int `json:"nano_count"`
	// Increase is the nano count change since the previous turn.
	Increase int `json:"increase"`
	// GrowthRate is current/previous nano count, 0 when the previous count
	// was 0.
	GrowthRate    float64 `json:"growth_rate"`
	PredictedNext int     `json:"predicted_next"`
}

// AdvanceTurn plays one full turn: apply the action, grow, tick cooldowns,
// bump the turn counter and evaluate. A rejected action still costs the turn
// and still lets the nano grow; the rejection is reported in InvalidAction.
func AdvanceTurn(s *State, a Action) *State {
	next := s.Clone()
	applyAction(next, a)
	grow(next)
	tickCooldowns(next)
	next.Turn++

	outcome := EvaluateState(next)
	prev := s.LastNanoCount
	rate := 0.0
	if prev != 0 {
		rate = float64(outcome.NanoCount) / float64(prev)
	}

	next.LastNanoCount = outcome.NanoCount
	next.Stats = &Stats{
		NanoCount:     outcome.NanoCount,
		Increase:      outcome.NanoCount - prev,
		GrowthRate:    rate,
		PredictedNext: len(growthTargets(next)),
	}
	next.Outcome = &outcome
	return next
}

// InitialStats reports the stats shown before the first turn: nothing has
// grown yet, so the rate is flat.
func InitialStats(s *State) Stats {
	return Stats{
		NanoCount:     s.LastNanoCount,
		Increase:      0,
		GrowthRate:    1,
		PredictedNext: len(growthTargets(s)),
	}
}
