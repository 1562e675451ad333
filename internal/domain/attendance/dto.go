package attendance

import (
	"github.com/jobhive/employer-backend-go/internal/pkg/validator"
)

// Action is a clock verb submitted by the employee's device.
type Action string

const (
	ActionClockIn    Action = "clock-in"
	ActionClockOut   Action = "clock-out"
	ActionBreakStart Action = "break-start"
	ActionBreakEnd   Action = "break-end"
)

var validActions = []string{
	string(ActionClockIn), string(ActionClockOut),
	string(ActionBreakStart), string(ActionBreakEnd),
}

type ClockActionRequest struct {
	Action Action `json:"action"`

	// Timestamp backdates the action; only administrative callers may set it.
	// Defaults to now.
	Timestamp *string `json:"timestamp"`

	// EmployeeID overrides the claim subject for administrative corrections.
	EmployeeID *string `json:"employee_id"`

	Location *string `json:"location"`
	Note     *string `json:"note"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(r.Action), validActions) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of clock-in, clock-out, break-start, break-end",
		})
	}

	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an ISO8601 datetime",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

var markableStatuses = []string{
	string(StatusPresent), string(StatusAbsent),
	string(StatusLate), string(StatusLeave),
}

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Note       *string `json:"note"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Status, markableStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, leave",
		})
	}

	if r.CheckIn != nil {
		if _, ok := validator.IsValidClock(*r.CheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be in HH:MM format",
			})
		}
	}

	if r.CheckOut != nil {
		if _, ok := validator.IsValidClock(*r.CheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Filter struct {
	EmployeeID *string
	DateFrom   *string
	DateTo     *string
	Status     *string
	Page       int
	Limit      int
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		}
	}

	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  *string  `json:"employee_name,omitempty"`
	Date          string   `json:"date"`
	ClockInTime   *string  `json:"clock_in_time"`
	BreakStart    *string  `json:"break_start"`
	BreakEnd      *string  `json:"break_end"`
	ClockOutTime  *string  `json:"clock_out_time"`
	WorkHours     *float64 `json:"work_hours"`
	BreakHours    *float64 `json:"break_hours"`
	OvertimeHours *float64 `json:"overtime_hours"`
	Status        string   `json:"status"`
	Note          *string  `json:"note,omitempty"`
	EmployeeNote  *string  `json:"employee_note,omitempty"`
	Locked        bool     `json:"locked"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
