package ui

import (
	"fmt"
	"strings"

	"nanobreach/internal/core"
	"nanobreach/internal/sims/nano"
)

// Status is everything the side panel shows about a running game.
type Status struct {
	LevelID   int
	LevelName string
	Turn      int
	Stats     nano.Stats
	Outcome   nano.Outcome
	Tools     map[nano.Tool]int
	Cooldowns map[nano.Tool]int
	Selected  nano.Tool
	Predict   bool
	Watching  bool
	// Invalid is the reason the last action was refused, if any.
	Invalid nano.Reason
	Params  core.ParameterSnapshot
}

// Lines formats s for the panel, top to bottom.
func Lines(s Status) []string {
	lines := []string{
		fmt.Sprintf("Level %d: %s", s.LevelID, s.LevelName),
		fmt.Sprintf("Turn %d", s.Turn),
		fmt.Sprintf("Nanos %d (%+d)", s.Stats.NanoCount, s.Stats.Increase),
		fmt.Sprintf("Growth x%.2f", s.Stats.GrowthRate),
		fmt.Sprintf("Next +%d", s.Stats.PredictedNext),
		"",
	}
	for i, t := range nano.Tools {
		marker := " "
		if t == s.Selected {
			marker = ">"
		}
		line := fmt.Sprintf("%s%d %-8s %d", marker, i+1, t, s.Tools[t])
		if cd := s.Cooldowns[t]; cd > 0 {
			line += fmt.Sprintf(" (cd %d)", cd)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	switch {
	case s.Outcome.Won:
		lines = append(lines, "CONTAINED - N next, R retry")
	case s.Outcome.Lost:
		lines = append(lines, "BREACHED - R retry")
	case s.Invalid != nano.ReasonNone:
		lines = append(lines, "Refused: "+string(s.Invalid))
	}

	var flags []string
	if s.Predict {
		flags = append(flags, "preview")
	}
	if s.Watching {
		flags = append(flags, "watch")
	}
	if len(flags) > 0 {
		lines = append(lines, "["+strings.Join(flags, " ")+"]")
	}

	for _, g := range s.Params.Groups {
		lines = append(lines, "", g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}
