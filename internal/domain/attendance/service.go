package attendance

import (
	"context"
)

// AttendanceService defines business logic for the per-employee-per-day
// session state machine.
type AttendanceService interface {
	// ClockAction dispatches a clock verb against today's (or a backdated)
	// session. Invalid transitions never mutate the stored record.
	ClockAction(ctx context.Context, req ClockActionRequest) (AttendanceResponse, error)

	// MarkAttendance is the administrative override: sets a day's status
	// directly, synthesizing a work window for present/late when none given.
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves records for the authenticated employee.
	GetMyAttendance(ctx context.Context, filter Filter) (ListAttendanceResponse, error)

	// ListAttendance retrieves company-wide records (admin/manager).
	ListAttendance(ctx context.Context, filter Filter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single record by ID.
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
}
