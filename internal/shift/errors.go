package shift

import "errors"

var (
	// ErrInvalidRange is returned when a requested time range ends before it starts.
	ErrInvalidRange = errors.New("shift: start must not be after end")
	// ErrInvalidConfig is returned for nonsensical layout parameters.
	ErrInvalidConfig = errors.New("shift: invalid layout config")
	// ErrEmptyGrid is returned when the fetched sheet has no rows at all.
	ErrEmptyGrid = errors.New("shift: sheet is empty")
	// ErrNoDateHeaders is returned when row 1 holds no date-formatted columns.
	ErrNoDateHeaders = errors.New("shift: no date headers found")
	// ErrNoPastRow is returned when every candidate row lies in the future.
	ErrNoPastRow = errors.New("shift: no past time rows found")
	// ErrNoDayRow is returned when the log table has no row for the target day.
	ErrNoDayRow = errors.New("shift: no row for target day")
)
