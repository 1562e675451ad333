package attendance

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the root of every state-machine misuse error;
// callers can match the family with errors.Is.
var ErrInvalidTransition = errors.New("invalid attendance transition")

var (
	ErrAlreadyClockedIn = fmt.Errorf("%w: already clocked in for this date", ErrInvalidTransition)
	ErrNotClockedIn     = fmt.Errorf("%w: no open session for this date", ErrInvalidTransition)
	ErrBreakInProgress  = fmt.Errorf("%w: break in progress", ErrInvalidTransition)
	ErrNotOnBreak       = fmt.Errorf("%w: no break in progress", ErrInvalidTransition)
	ErrDayCompleted     = fmt.Errorf("%w: attendance for this date is already completed", ErrInvalidTransition)
)

var (
	ErrLeaveConflict      = errors.New("employee is on approved leave for this date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrRecordLocked       = errors.New("attendance record is referenced by finalized payroll and cannot change")
	ErrVersionConflict    = errors.New("attendance record was modified concurrently")
	ErrClockOutBeforeIn   = errors.New("clock out must be after clock in")
)
