package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeCodeExists   = errors.New("employee code already exists")
	ErrEmployeeInactive     = errors.New("employee is not active")
	ErrInvalidSalaryType    = errors.New("salary type must be hourly or monthly")
	ErrIncompleteOvertime   = errors.New("overtime override requires both multiplier and weekly threshold")
	ErrNegativeSalaryConfig = errors.New("salary amounts cannot be negative")
)
