package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. Every
// lookup is scoped by companyID; Update must honor the record's Version and
// fail with ErrVersionConflict on a stale write.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	Update(ctx context.Context, att Attendance) (Attendance, error)

	List(ctx context.Context, filter Filter, companyID string) ([]Attendance, int64, error)

	// ListForPeriod returns every record for the calendar month, used by the
	// payroll calculator.
	ListForPeriod(ctx context.Context, companyID string, employeeID string, periodMonth, periodYear int) ([]Attendance, error)

	// LockForPeriod flags a month of records immutable once a payroll run that
	// references them is finalized. Runs inside the finalize transaction.
	LockForPeriod(ctx context.Context, companyID string, employeeIDs []string, periodMonth, periodYear int) error
}
