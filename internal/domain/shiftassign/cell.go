package shiftassign

import (
	"strings"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

// RestDay is the stored sentinel of a rest day cell
const RestDay = "RD"

// ExportPlaceholder is written for empty cells in spreadsheet exports
const ExportPlaceholder = "-"

type CellKind int

const (
	CellUnset CellKind = iota
	CellRestDay
	CellTimeRange
)

func (k CellKind) String() string {
	switch k {
	case CellRestDay:
		return "rest_day"
	case CellTimeRange:
		return "time_range"
	}
	return "unset"
}

// Cell is the decoded form of one grid cell.
// Start and End are only meaningful for CellTimeRange; either may be empty while being entered.
type Cell struct {
	Kind  CellKind
	Start string
	End   string
}

func UnsetCell() Cell {
	return Cell{Kind: CellUnset}
}

func RestDayCell() Cell {
	return Cell{Kind: CellRestDay}
}

// TimeRangeCell builds a time range cell, collapsing to unset when both sides are empty
func TimeRangeCell(start, end string) Cell {
	if start == "" && end == "" {
		return UnsetCell()
	}
	return Cell{Kind: CellTimeRange, Start: start, End: end}
}

func (c Cell) IsRestDay() bool {
	return c.Kind == CellRestDay
}

// Encode renders the cell at the storage boundary.
// One-sided ranges keep the separator ("09:00-", "-17:00") so the side survives decoding.
func (c Cell) Encode() string {
	switch c.Kind {
	case CellRestDay:
		return RestDay
	case CellTimeRange:
		if c.Start == "" && c.End == "" {
			return ""
		}
		return c.Start + "-" + c.End
	}
	return ""
}

// DecodeCell parses a stored cell value. It never fails: unknown or corrupted
// values decode to an unset cell.
func DecodeCell(raw string) Cell {
	if raw == RestDay {
		return RestDayCell()
	}
	if raw == "" || raw == "-" {
		return UnsetCell()
	}

	start, end, found := strings.Cut(raw, "-")
	if !found {
		// legacy one-sided value written without separator
		if validator.IsValidClockTime(raw) {
			return TimeRangeCell(raw, "")
		}
		return UnsetCell()
	}
	if strings.Contains(end, "-") {
		return UnsetCell()
	}
	if start != "" && !validator.IsValidClockTime(start) {
		return UnsetCell()
	}
	if end != "" && !validator.IsValidClockTime(end) {
		return UnsetCell()
	}

	return TimeRangeCell(start, end)
}

// DecodeTimeRange returns the start and end sides of a stored value.
// Rest days and malformed values yield two empty sides.
func DecodeTimeRange(raw string) (start, end string, isRestDay bool) {
	c := DecodeCell(raw)
	return c.Start, c.End, c.IsRestDay()
}

// EncodeTimeRange joins both sides with "-". When only one side is set that side
// is emitted alone, without a separator; when neither is set the result is empty.
func EncodeTimeRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "-" + end
	case start != "":
		return start
	case end != "":
		return end
	}
	return ""
}

// ToggleRestDay flips a cell between rest day and empty. Any time range is discarded.
func ToggleRestDay(raw string) string {
	if raw == RestDay {
		return ""
	}
	return RestDay
}

// IsCanonical reports whether raw is one of the accepted stored shapes.
// Used to reject malformed input at the API; stored data is still decoded defensively.
func IsCanonical(raw string) bool {
	if raw == "" || raw == RestDay {
		return true
	}
	c := DecodeCell(raw)
	if c.Kind != CellTimeRange {
		return false
	}
	return c.Encode() == raw || c.Start == raw
}
