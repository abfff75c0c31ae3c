package nano

// ActionWait is the action type that skips placement for a turn.
const ActionWait = "wait"

// Action is one player move: a wait, or a tool applied at (X, Y).
type Action struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Wait returns the no-op action.
func Wait() Action { return Action{Type: ActionWait} }

// Place returns an action applying tool at (x, y).
func Place(tool Tool, x, y int) Action { return Action{Type: string(tool), X: x, Y: y} }

// IsWait reports whether a carries no placement. The zero Action is a wait.
func (a Action) IsWait() bool { return a.Type == "" || a.Type == ActionWait }

// Tool returns the tool named by the action.
func (a Action) Tool() Tool { return Tool(a.Type) }

// CanPlaceTool reports whether tool may target (x, y): purge needs a nano
// cell, every other tool needs an empty one.
func CanPlaceTool(s *State, tool Tool, x, y int) bool {
	if !s.InBounds(x, y) {
		return false
	}
	cell := s.Cell(x, y)
	if tool == ToolPurge {
		return cell == Nano
	}
	return cell == Empty
}

// ApplyAction validates a and applies it to a copy of s. A rejected action
// leaves the grid untouched and sets InvalidAction; an applied one clears it.
// The turn counter is not advanced here.
func ApplyAction(s *State, a Action) *State {
	next := s.Clone()
	applyAction(next, a)
	return next
}

func applyAction(s *State, a Action) {
	act := a
	s.LastAction = &act
	s.InvalidAction = ReasonNone
	if a.IsWait() {
		return
	}
	if reason := validate(s, a); reason != ReasonNone {
		s.InvalidAction = reason
		return
	}

	tool := a.Tool()
	switch tool {
	case ToolBlock:
		s.Grid.Set(a.X, a.Y, uint8(Block))
	case ToolPurge:
		s.Grid.Set(a.X, a.Y, uint8(Empty))
		s.Cooldowns[ToolPurge] = max(s.Rules.PurgeCooldown, 0)
	case ToolSplitter:
		s.Grid.Set(a.X, a.Y, uint8(Splitter))
	}
	s.Tools[tool]--
}

// validate checks target, then resource, then cooldown.
func validate(s *State, a Action) Reason {
	tool := a.Tool()
	if !tool.Known() || !CanPlaceTool(s, tool, a.X, a.Y) {
		return ReasonInvalidTarget
	}
	if s.Tools[tool] <= 0 {
		return ReasonNoResource
	}
	if tool == ToolPurge && s.Cooldowns[ToolPurge] > 0 {
		return ReasonCooldown
	}
	return ReasonNone
}
