package employee

import (
	"github.com/jobhive/employer-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Filter struct {
	Department *string
	Status     *string
	Page       int
	Limit      int
}

type CreateEmployeeRequest struct {
	EmployeeCode                 string           `json:"employee_code"`
	FullName                     string           `json:"full_name"`
	Department                   *string          `json:"department"`
	SalaryType                   string           `json:"salary_type"`
	BaseSalary                   decimal.Decimal  `json:"base_salary"`
	HourlyRate                   decimal.Decimal  `json:"hourly_rate"`
	OvertimeMultiplier           *decimal.Decimal `json:"overtime_multiplier"`
	OvertimeWeeklyThresholdHours *decimal.Decimal `json:"overtime_weekly_threshold_hours"`
	BankAccountRef               string           `json:"bank_account_ref"`
	HireDate                     string           `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if r.SalaryType != string(SalaryTypeHourly) && r.SalaryType != string(SalaryTypeMonthly) {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_type",
			Message: "salary_type must be hourly or monthly",
		})
	}

	if r.BaseSalary.IsNegative() || r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "salary",
			Message: "base_salary and hourly_rate cannot be negative",
		})
	}

	if (r.OvertimeMultiplier == nil) != (r.OvertimeWeeklyThresholdHours == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_override",
			Message: "overtime override requires both multiplier and weekly threshold",
		})
	}

	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID                           string           `json:"-"`
	FullName                     *string          `json:"full_name"`
	Department                   *string          `json:"department"`
	SalaryType                   *string          `json:"salary_type"`
	BaseSalary                   *decimal.Decimal `json:"base_salary"`
	HourlyRate                   *decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier           *decimal.Decimal `json:"overtime_multiplier"`
	OvertimeWeeklyThresholdHours *decimal.Decimal `json:"overtime_weekly_threshold_hours"`
	BankAccountRef               *string          `json:"bank_account_ref"`
	Status                       *string          `json:"status"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SalaryType != nil && *r.SalaryType != string(SalaryTypeHourly) && *r.SalaryType != string(SalaryTypeMonthly) {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_type",
			Message: "salary_type must be hourly or monthly",
		})
	}

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary cannot be negative",
		})
	}

	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate cannot be negative",
		})
	}

	if r.Status != nil && *r.Status != string(StatusActive) && *r.Status != string(StatusInactive) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or inactive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID                           string           `json:"id"`
	CompanyID                    string           `json:"company_id"`
	EmployeeCode                 string           `json:"employee_code"`
	FullName                     string           `json:"full_name"`
	Department                   *string          `json:"department"`
	SalaryType                   string           `json:"salary_type"`
	BaseSalary                   decimal.Decimal  `json:"base_salary"`
	HourlyRate                   decimal.Decimal  `json:"hourly_rate"`
	OvertimeMultiplier           *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	OvertimeWeeklyThresholdHours *decimal.Decimal `json:"overtime_weekly_threshold_hours,omitempty"`
	BankAccountRef               string           `json:"bank_account_ref"`
	Status                       string           `json:"status"`
	HireDate                     string           `json:"hire_date"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Employees  []EmployeeResponse `json:"employees"`
}
