// Package nano implements the nano containment puzzle: a grid where an
// infestation grows every turn and the player spends limited tools to keep it
// away from the goal cells.
//
// The engine is pure. Every operation takes a *State and returns a new one;
// no returned state shares grid, map or slice storage with its input.
package nano

import "strconv"

// Cell enumerates the values a grid cell can hold. The numeric values double
// as display values for the renderer.
type Cell uint8

const (
	Empty Cell = iota
	Nano
	Wall
	Block
	Splitter
	Goal
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Nano:
		return "nano"
	case Wall:
		return "wall"
	case Block:
		return "block"
	case Splitter:
		return "splitter"
	case Goal:
		return "goal"
	default:
		return "cell(" + strconv.Itoa(int(c)) + ")"
	}
}

// Tool names a limited player resource.
type Tool string

const (
	ToolBlock    Tool = "block"
	ToolPurge    Tool = "purge"
	ToolSplitter Tool = "splitter"
)

// Tools lists every tool in HUD order.
var Tools = []Tool{ToolBlock, ToolPurge, ToolSplitter}

// Known reports whether t is one of the defined tools.
func (t Tool) Known() bool {
	switch t {
	case ToolBlock, ToolPurge, ToolSplitter:
		return true
	}
	return false
}

// Reason explains why an action was rejected. The zero value means the action
// was applied.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonInvalidTarget Reason = "invalid-target"
	ReasonNoResource    Reason = "no-resource"
	ReasonCooldown      Reason = "cooldown"
)

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key formats p the way board overlays index cells.
func (p Point) Key() string { return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) }
