package attendance

import (
	"time"
)

// Status is the per-day session state. The absence of a record means the
// employee is still clocked out for that date.
type Status string

const (
	StatusClockedIn Status = "clocked_in"
	StatusOnBreak   Status = "on_break"
	StatusCompleted Status = "completed"

	// Administrative statuses set by MarkAttendance or leave approval.
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
)

// Attendance is one employee-day. At most one row exists per
// (employee_id, date); durations are tracked in whole minutes.
type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time

	ClockIn    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	ClockOut   *time.Time

	WorkMinutes     int
	BreakMinutes    int
	OvertimeMinutes int

	Status       Status
	Note         *string
	EmployeeNote *string

	// Locked is set when a finalized payroll entry references this record;
	// locked records reject every mutation.
	Locked  bool
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined
	EmployeeName *string
}

// HasLoggedHours reports whether the day carries completed, non-zero work time.
func (a Attendance) HasLoggedHours() bool {
	return a.Status == StatusCompleted && a.WorkMinutes > 0
}
