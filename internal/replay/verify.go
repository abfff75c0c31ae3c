package replay

import (
	"fmt"
	"slices"

	"nanobreach/internal/sims/nano"
)

// Verify replays the actions of one session's rows from the level's initial
// state and returns ErrDiverged at the first row whose board or outcome does
// not match. Rows must be in turn order. A turn-0 row restarts the level
// and is checked against the initial board.
func Verify(level nano.Level, rows []TurnRow) error {
	state := nano.InitState(level)
	for i, row := range rows {
		if row.Turn == 0 {
			state = nano.InitState(level)
			if err := compare(state, row); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			continue
		}
		if int(row.Turn) != state.Turn+1 {
			return fmt.Errorf("%w: row %d is turn %d, expected %d", ErrDiverged, i, row.Turn, state.Turn+1)
		}
		state = nano.AdvanceTurn(state, row.Action())
		if err := compare(state, row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func compare(s *nano.State, row TurnRow) error {
	want := RowFromState(row.SessionID, s)
	switch {
	case want.Width != row.Width || want.Height != row.Height:
		return fmt.Errorf("%w: turn %d board %dx%d, recorded %dx%d", ErrDiverged, row.Turn, want.Width, want.Height, row.Width, row.Height)
	case !slices.Equal(want.Grid, row.Grid):
		return fmt.Errorf("%w: turn %d grid differs", ErrDiverged, row.Turn)
	case want.Invalid != row.Invalid:
		return fmt.Errorf("%w: turn %d invalid %q, recorded %q", ErrDiverged, row.Turn, want.Invalid, row.Invalid)
	case want.Won != row.Won || want.Lost != row.Lost || want.NanoCount != row.NanoCount:
		return fmt.Errorf("%w: turn %d outcome differs", ErrDiverged, row.Turn)
	}
	return nil
}
