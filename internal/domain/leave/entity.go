package leave

import (
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypeEmergency LeaveType = "emergency"
)

// LeaveRequest transitions exactly once: pending -> approved | rejected.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	CompanyID  string
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time

	// TotalDays is the inclusive calendar day count, always >= 1.
	TotalDays int

	Reason       string
	Status       LeaveRequestStatus
	ApproverID   *string
	DecisionNote *string
	DecidedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined
	EmployeeName *string
}

// Decided reports whether the request reached a terminal state.
func (r LeaveRequest) Decided() bool {
	return r.Status != LeaveRequestStatusPending
}

// Dates returns every calendar date in [StartDate, EndDate].
func (r LeaveRequest) Dates() []time.Time {
	var dates []time.Time
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
