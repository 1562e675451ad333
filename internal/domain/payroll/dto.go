package payroll

import (
	"github.com/jobhive/employer-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// EmployeeInput carries per-employee amounts an employer keys in for a run.
type EmployeeInput struct {
	EmployeeID string          `json:"employee_id"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
}

type RunPayrollRequest struct {
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Inputs      []EmployeeInput `json:"inputs"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "period_month",
			Message: "period_month must be between 1 and 12",
		})
	}

	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "period_year",
			Message: "period_year is out of range",
		})
	}

	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{
			Field:   "tax_rate",
			Message: "tax_rate must be a fraction between 0 and 1",
		})
	}

	for _, in := range r.Inputs {
		if validator.IsEmpty(in.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "inputs",
				Message: "every input needs an employee_id",
			})
			break
		}
		if in.Bonus.IsNegative() || in.Deductions.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "inputs",
				Message: "bonus and deductions cannot be negative",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateAdjustmentRequest struct {
	EntryID string          `json:"-"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id is required",
		})
	}

	if r.Amount.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount cannot be zero",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollEntryResponse struct {
	ID                  string          `json:"id"`
	RunID               string          `json:"run_id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	EmployeeCode        *string         `json:"employee_code,omitempty"`
	PeriodMonth         int             `json:"period_month"`
	PeriodYear          int             `json:"period_year"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	HoursWorked         decimal.Decimal `json:"hours_worked"`
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`
	WeekendHolidayHours decimal.Decimal `json:"weekend_holiday_hours"`
	WeekendHolidayPay   decimal.Decimal `json:"weekend_holiday_pay"`
	Bonus               decimal.Decimal `json:"bonus"`
	Deductions          decimal.Decimal `json:"deductions"`
	Tax                 decimal.Decimal `json:"tax"`
	GrossPay            decimal.Decimal `json:"gross_pay"`
	NetPay              decimal.Decimal `json:"net_pay"`
	BankAccountRef      string          `json:"bank_account_ref"`
	TransferRef         *string         `json:"transfer_ref,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"`
	Note                *string         `json:"note,omitempty"`
	AdjustsEntryID      *string         `json:"adjusts_entry_id,omitempty"`
	Finalized           bool            `json:"finalized"`
}

type PayrollRunResponse struct {
	ID              string                 `json:"id"`
	CompanyID       string                 `json:"company_id"`
	PeriodMonth     int                    `json:"period_month"`
	PeriodYear      int                    `json:"period_year"`
	TotalGross      decimal.Decimal        `json:"total_gross"`
	TotalDeductions decimal.Decimal        `json:"total_deductions"`
	TotalTax        decimal.Decimal        `json:"total_tax"`
	TotalNet        decimal.Decimal        `json:"total_net"`
	Status          string                 `json:"status"`
	ProcessedAt     *string                `json:"processed_at,omitempty"`
	Entries         []PayrollEntryResponse `json:"entries"`
}
