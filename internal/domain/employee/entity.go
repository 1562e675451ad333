package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FullName     string
	Department   *string
	SalaryType   SalaryType
	BaseSalary   decimal.Decimal
	HourlyRate   decimal.Decimal

	// Individual overtime override, honored only when company settings run in
	// individual mode. Nil means the global policy applies.
	OvertimeMultiplier           *decimal.Decimal
	OvertimeWeeklyThresholdHours *decimal.Decimal

	BankAccountRef string
	Status         Status
	HireDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SalaryType string

const (
	SalaryTypeHourly  SalaryType = "hourly"
	SalaryTypeMonthly SalaryType = "monthly"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// HasOvertimeOverride reports whether both override fields are set.
func (e Employee) HasOvertimeOverride() bool {
	return e.OvertimeMultiplier != nil && e.OvertimeWeeklyThresholdHours != nil
}
