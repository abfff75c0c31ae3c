// Package autoplay drives sessions with simple scripted players. The sweep
// command uses it to check that levels are neither trivial nor hopeless.
package autoplay

import (
	"nanobreach/internal/sims/nano"
)

// Policy picks the next action for a state.
type Policy interface {
	Name() string
	Choose(s *nano.State) nano.Action
}

// Waiter never acts.
type Waiter struct{}

func (Waiter) Name() string { return "wait" }
func (Waiter) Choose(*nano.State) nano.Action { return nano.Wait() }

// Greedy purges nanos that touch a goal, otherwise walls off the predicted
// growth cell nearest to a goal.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Choose(s *nano.State) nano.Action {
	if p, ok := purgeTarget(s); ok {
		return nano.Place(nano.ToolPurge, p.X, p.Y)
	}
	tool, ok := blockingTool(s)
	if !ok {
		return nano.Wait()
	}
	targets := nano.PredictGrowthCells(s).Sorted()
	if len(targets) == 0 {
		return nano.Wait()
	}
	best := targets[0]
	if len(s.GoalCells) > 0 {
		bestDist := goalDistance(s, best)
		for _, p := range targets[1:] {
			if d := goalDistance(s, p); d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return nano.Place(tool, best.X, best.Y)
}

func purgeTarget(s *nano.State) (nano.Point, bool) {
	if s.Tools[nano.ToolPurge] <= 0 || s.Cooldowns[nano.ToolPurge] > 0 {
		return nano.Point{}, false
	}
	offsets := nano.Neighborhood(s.Rules.DiagonalGrowth)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if s.Cell(x, y) != nano.Nano {
				continue
			}
			for _, o := range offsets {
				nx, ny := x+o.X, y+o.Y
				if s.InBounds(nx, ny) && s.Cell(nx, ny) == nano.Goal {
					return nano.Point{X: x, Y: y}, true
				}
			}
		}
	}
	return nano.Point{}, false
}

func blockingTool(s *nano.State) (nano.Tool, bool) {
	switch {
	case s.Tools[nano.ToolBlock] > 0:
		return nano.ToolBlock, true
	case s.Tools[nano.ToolSplitter] > 0:
		return nano.ToolSplitter, true
	}
	return "", false
}

// goalDistance is the Manhattan distance from p to the nearest goal.
func goalDistance(s *nano.State, p nano.Point) int {
	best := -1
	for _, g := range s.GoalCells {
		d := abs(g.X-p.X) + abs(g.Y-p.Y)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Policies lists the built-in policies by name.
func Policies() map[string]Policy {
	return map[string]Policy{
		Waiter{}.Name(): Waiter{},
		Greedy{}.Name(): Greedy{},
	}
}
