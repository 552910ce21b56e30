package attendance

import "context"

// Service is the attendance recording engine. Every entry point (direct
// API, mobile check page, QR kiosk) goes through the same four
// transitions; entry points differ only in how they obtain the reported
// location and notes.
type Service interface {
	// CheckIn creates today's record. On ErrAlreadyCheckedIn the
	// existing record is returned alongside the error so retried
	// requests see a consistent body.
	CheckIn(ctx context.Context, req ActionRequest) (Record, error)

	// CheckOut closes today's record and computes overtime.
	CheckOut(ctx context.Context, req ActionRequest) (Record, error)

	// StartBreak transitions working -> on_break.
	StartBreak(ctx context.Context, req ActionRequest) (Record, error)

	// EndBreak transitions on_break -> working and accumulates break
	// minutes.
	EndBreak(ctx context.Context, req ActionRequest) (Record, error)

	// GetMyAttendance lists the authenticated employee's own records.
	GetMyAttendance(ctx context.Context, employeeID, orgID string, filter ListFilter) (ListResult, error)

	// ListAttendance lists records for manager/admin review.
	ListAttendance(ctx context.Context, orgID string, filter ListFilter) (ListResult, error)
}
