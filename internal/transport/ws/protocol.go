package ws

import (
	"encoding/json"

	"nanobreach/internal/session"
	"nanobreach/internal/sims/nano"
)

const Version = "1"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeState   = "STATE"
	TypeAct     = "ACT"
	TypeRestart = "RESTART"
	TypePredict = "PREDICT"
	TypeError   = "ERROR"
)

// Error codes sent in ERROR frames.
const (
	CodeBadRequest   = "bad_request"
	CodeBadVersion   = "bad_version"
	CodeUnknownLevel = "unknown_level"
	CodeFinished     = "finished"
	CodeInternal     = "internal"
)

// BaseMessage lets us route incoming frames by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	LevelID         int    `json:"level_id"`
}

type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Action          nano.Action `json:"action"`
}

type PredictMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	On              bool   `json:"on"`
}

type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

// StateMsg is the full board as seen after the latest frame.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	LevelID         int    `json:"level_id"`
	LevelName       string `json:"level_name"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Turn            int    `json:"turn"`
	// Grid is row-major cell codes.
	Grid      []int          `json:"grid"`
	Tools     map[string]int `json:"tools"`
	Cooldowns map[string]int `json:"cooldowns"`

	InvalidAction string       `json:"invalid_action,omitempty"`
	Adopted       bool         `json:"adopted"`
	Stats         nano.Stats   `json:"stats"`
	Outcome       nano.Outcome `json:"outcome"`
	Prediction    []nano.Point `json:"prediction"`
}

func newError(code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: message}
}

// stateMsg snapshots sess. invalid and adopted describe the frame that
// produced it.
func stateMsg(sess *session.Session, invalid nano.Reason, adopted bool) StateMsg {
	st := sess.State()
	cells := st.Grid.Cells()
	grid := make([]int, len(cells))
	for i, c := range cells {
		grid[i] = int(c)
	}
	tools := make(map[string]int, len(st.Tools))
	for t, n := range st.Tools {
		tools[string(t)] = n
	}
	cooldowns := make(map[string]int, len(st.Cooldowns))
	for t, n := range st.Cooldowns {
		cooldowns[string(t)] = n
	}
	return StateMsg{
		Type:            TypeState,
		ProtocolVersion: Version,
		SessionID:       sess.ID(),
		LevelID:         st.ID,
		LevelName:       st.Name,
		Width:           st.Width,
		Height:          st.Height,
		Turn:            st.Turn,
		Grid:            grid,
		Tools:           tools,
		Cooldowns:       cooldowns,
		InvalidAction:   string(invalid),
		Adopted:         adopted,
		Stats:           sess.Stats(),
		Outcome:         sess.Outcome(),
		Prediction:      sess.Prediction().Sorted(),
	}
}
