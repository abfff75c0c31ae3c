// Package replay records played turns to parquet and checks that a recording
// still reproduces under the current engine.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"nanobreach/internal/sims/nano"
)

// ErrDiverged reports a recording that no longer matches re-simulation.
var ErrDiverged = errors.New("replay diverged")

// TurnRow is one adopted turn. Turn 0 rows describe the initial board and
// carry a wait action.
type TurnRow struct {
	SessionID string `parquet:"session_id,dict"`
	LevelID   int32  `parquet:"level_id"`
	Turn      int32  `parquet:"turn"`

	ActionType string `parquet:"action_type,dict"`
	ActionX    int32  `parquet:"action_x"`
	ActionY    int32  `parquet:"action_y"`
	Invalid    string `parquet:"invalid,dict"`

	Width     int32 `parquet:"width"`
	Height    int32 `parquet:"height"`
	NanoCount int32 `parquet:"nano_count"`
	Won       bool  `parquet:"won"`
	Lost      bool  `parquet:"lost"`

	Grid []byte `parquet:"grid"`
}

// RowFromState captures s as a row.
func RowFromState(sessionID string, s *nano.State) TurnRow {
	row := TurnRow{
		SessionID:  sessionID,
		LevelID:    int32(s.ID),
		Turn:       int32(s.Turn),
		ActionType: nano.ActionWait,
		Invalid:    string(s.InvalidAction),
		Width:      int32(s.Width),
		Height:     int32(s.Height),
		Grid:       slices.Clone(s.Grid.Cells()),
	}
	if s.LastAction != nil && !s.LastAction.IsWait() {
		row.ActionType = s.LastAction.Type
		row.ActionX = int32(s.LastAction.X)
		row.ActionY = int32(s.LastAction.Y)
	}
	out := nano.EvaluateState(s)
	row.NanoCount = int32(out.NanoCount)
	row.Won = out.Won
	row.Lost = out.Lost
	return row
}

// Action returns the action recorded on the row.
func (r TurnRow) Action() nano.Action {
	if r.ActionType == "" || r.ActionType == nano.ActionWait {
		return nano.Wait()
	}
	return nano.Action{Type: r.ActionType, X: int(r.ActionX), Y: int(r.ActionY)}
}

// Recorder buffers rows for one or more sessions. It is safe for concurrent
// use.
type Recorder struct {
	mu   sync.Mutex
	rows []TurnRow
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Record appends the snapshot of s.
func (r *Recorder) Record(sessionID string, s *nano.State) {
	row := RowFromState(sessionID, s)
	r.mu.Lock()
	r.rows = append(r.rows, row)
	r.mu.Unlock()
}

// Rows returns a copy of the buffered rows.
func (r *Recorder) Rows() []TurnRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rows)
}

// Len returns the number of buffered rows.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Flush writes the buffered rows to path and clears the buffer.
func (r *Recorder) Flush(path string) error {
	r.mu.Lock()
	rows := r.rows
	r.rows = nil
	r.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}
	return WriteFile(path, rows)
}

// WriteFile writes rows to path through a temp file and rename.
func WriteFile(path string, rows []TurnRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "nano_turn_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadFile loads every row from a parquet turn log.
func ReadFile(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()

	rows := make([]TurnRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}

// Sessions groups rows by session ID, keeping file order within a session.
func Sessions(rows []TurnRow) map[string][]TurnRow {
	out := map[string][]TurnRow{}
	for _, r := range rows {
		out[r.SessionID] = append(out[r.SessionID], r)
	}
	return out
}
