package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusProcessed RunStatus = "processed"
)

// PayrollRun is the atomic unit of finalizing one company's pay period.
// "processed" is terminal: the run, its entries and the attendance they
// reference all become immutable.
type PayrollRun struct {
	ID          string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int

	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalTax        decimal.Decimal
	TotalNet        decimal.Decimal

	Status      RunStatus
	ProcessedAt *time.Time
	ProcessedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WarningNegativeNetPay flags an entry whose unclamped net pay was negative.
// Non-fatal: the entry is still drafted so a human can adjust it before the
// run is finalized.
const WarningNegativeNetPay = "NEGATIVE_NET_PAY"

// PayrollEntry is one employee's derived pay for a period. Entries are never
// hand-edited; post-finalize corrections are new entries referencing the
// original through AdjustsEntryID.
type PayrollEntry struct {
	ID          string
	RunID       string
	EmployeeID  string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int

	BaseSalary          decimal.Decimal
	HoursWorked         decimal.Decimal
	OvertimeHours       decimal.Decimal
	WeekendHolidayHours decimal.Decimal
	WeekendHolidayPay   decimal.Decimal
	Bonus               decimal.Decimal
	Deductions          decimal.Decimal
	Tax                 decimal.Decimal
	GrossPay            decimal.Decimal
	NetPay              decimal.Decimal

	BankAccountRef string
	TransferRef    *string
	Warnings       []string
	Note           *string
	AdjustsEntryID *string
	Finalized      bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined
	EmployeeName *string
	EmployeeCode *string
}

// PayPeriod identifies one calendar month.
type PayPeriod struct {
	Month int
	Year  int
}

// Start returns midnight UTC on the first day of the period.
func (p PayPeriod) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the first day of the following month.
func (p PayPeriod) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}
