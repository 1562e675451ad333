package response

import (
	"errors"
	"net/http"

	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/leave"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/jobhive/employer-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors. ErrInvalidTransition covers the whole
	// state-machine family (double clock-in, break misuse, completed day).
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrLeaveConflict):
		Conflict(w, "Employee is on approved leave for this date")
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Attendance was modified concurrently, retry the action")
	case errors.Is(err, attendance.ErrRecordLocked):
		Conflict(w, "Attendance is referenced by finalized payroll and cannot change")
	case errors.Is(err, attendance.ErrClockOutBeforeIn):
		BadRequest(w, "Clock out must be after clock in", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeInactive):
		UnprocessableEntity(w, "Employee is not active")
	case errors.Is(err, employee.ErrIncompleteOvertime):
		BadRequest(w, "Overtime override requires both multiplier and weekly threshold", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyDecided):
		Conflict(w, "Leave request already approved or rejected")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Leave end date is before start date", nil)
	case errors.Is(err, leave.ErrCommentRequired):
		BadRequest(w, "A comment is required to reject a leave request", nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrSettingsNotFound):
		NotFound(w, "Overtime settings not found")
	case errors.Is(err, overtime.ErrInvalidMode):
		BadRequest(w, "Overtime mode must be global or individual", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrRunAlreadyProcessed):
		Conflict(w, "Payroll run already processed")
	case errors.Is(err, payroll.ErrRunNotFinalizable):
		UnprocessableEntity(w, "Payroll run has no valid entries to finalize")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrEntryFinalized):
		Conflict(w, "Payroll entry is finalized and cannot change")
	case errors.Is(err, payroll.ErrEntryNotFinalized):
		UnprocessableEntity(w, "Payroll entry is not finalized yet")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNoActiveEmployees):
		UnprocessableEntity(w, "Company has no active employees")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
