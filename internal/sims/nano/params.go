package nano

import "nanobreach/internal/core"

// Parameters lists the level's rules and thresholds for display.
func (s *State) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Board",
			Params: []core.Parameter{
				core.IntParam("w", "Width", s.Width),
				core.IntParam("h", "Height", s.Height),
				core.IntParam("goals", "Goal cells", len(s.GoalCells)),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				core.BoolParam("diagonal", "Diagonal growth", s.Rules.DiagonalGrowth),
				core.IntParam("purge_cooldown", "Purge cooldown", s.Rules.PurgeCooldown),
			},
		},
		{
			Name: "Win",
			Params: []core.Parameter{
				core.IntParam("survive_turns", "Survive turns", s.Win.SurviveTurns),
				core.BoolParam("eradicate_all", "Eradicate all", s.Win.EradicateAll),
				core.IntParam("protect_goal_turns", "Protect goal turns", s.Win.ProtectGoalTurns),
			},
		},
		{
			Name: "Lose",
			Params: []core.Parameter{
				core.FloatParam("max_nano_ratio", "Max nano ratio", s.Lose.MaxNanoRatio),
				core.IntParam("max_turns", "Max turns", s.Lose.MaxTurns),
				core.BoolParam("stuck_lose", "Lose when out of tools", s.Lose.StuckLose),
			},
		},
	}}
}
