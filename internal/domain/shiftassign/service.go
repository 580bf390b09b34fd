package shiftassign

import "context"

type Service interface {
	// Get returns the saved assignments or an empty set when none exist yet
	Get(ctx context.Context, projectID, monthYear string) (AssignmentsResponse, error)

	// Save replaces the project month wholesale
	Save(ctx context.Context, req SaveRequest) (SaveResponse, error)

	// Delete clears a saved project month; ErrAssignmentsNotFound when nothing was saved
	Delete(ctx context.Context, projectID, monthYear string) error

	// Export renders the project month grid as a spreadsheet
	Export(ctx context.Context, projectID, monthYear string, format ExportFormat) (ExportResult, error)
}
