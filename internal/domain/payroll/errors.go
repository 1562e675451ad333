package payroll

import "errors"

var (
	ErrRunNotFound         = errors.New("payroll run not found")
	ErrRunAlreadyProcessed = errors.New("payroll run already processed")
	ErrRunNotFinalizable   = errors.New("payroll run has no valid entries to finalize")
	ErrEntryNotFound       = errors.New("payroll entry not found")
	ErrEntryFinalized      = errors.New("payroll entry is finalized and cannot change")
	ErrEntryNotFinalized   = errors.New("payroll entry is not finalized yet")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
	ErrNoActiveEmployees   = errors.New("company has no active employees")
)
