package shiftassign

import "errors"

var (
	ErrAssignmentsNotFound = errors.New("shift assignments not found")
	ErrInvalidMonthKey     = errors.New("invalid month key, use YYYY-MM")
	ErrProjectIDRequired   = errors.New("project ID is required")
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidExportFormat = errors.New("export format must be xlsx or csv")

	// Grid controller errors
	ErrNoSelection     = errors.New("no project/month selected")
	ErrSaveInProgress  = errors.New("a save is already in progress")
	ErrDayOutOfRange   = errors.New("day is outside the selected month")
	ErrUnknownEmployee = errors.New("employee is not on the project roster")
	ErrNotReady        = errors.New("assignments are still loading")
)
