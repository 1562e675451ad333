package payroll

import (
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	overtimesvc "github.com/jobhive/employer-backend-go/internal/service/overtime"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// ComputeInput bundles everything one employee's pay derives from. Attendance
// must already be filtered to the pay period.
type ComputeInput struct {
	Employee   employee.Employee
	Period     payroll.PayPeriod
	Attendance []attendance.Attendance
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
	TaxRate    decimal.Decimal
	Settings   overtime.Settings
}

// Compute derives one payroll entry from attendance. Pure: no persistence,
// no clock reads. A negative unclamped net pay is not an error; the entry
// comes back with net clamped to zero and a warning so the draft can be
// corrected before finalize.
func Compute(in ComputeInput) payroll.PayrollEntry {
	var (
		regularMinutes        int
		overtimeMinutes       int
		weekendHolidayMinutes int
		weekendHolidayPay     decimal.Decimal
	)

	for _, rec := range in.Attendance {
		if !countsForPay(rec) {
			continue
		}

		policy := overtimesvc.Resolve(in.Employee, rec.Date, in.Settings)

		// Weekend and holiday hours are paid in their own bucket; a day never
		// accrues both the day multiplier and standard overtime.
		if policy.Class != overtimesvc.ClassWeekday {
			weekendHolidayMinutes += rec.WorkMinutes
			weekendHolidayPay = weekendHolidayPay.Add(
				minutesToHours(rec.WorkMinutes).
					Mul(in.Employee.HourlyRate).
					Mul(policy.DayMultiplier()))
			continue
		}

		regularMinutes += rec.WorkMinutes - rec.OvertimeMinutes
		overtimeMinutes += rec.OvertimeMinutes
	}

	hoursWorked := minutesToHours(regularMinutes)
	overtimeHours := minutesToHours(overtimeMinutes)

	policy := overtimesvc.Resolve(in.Employee, in.Period.Start(), in.Settings)
	overtimePay := overtimeHours.Mul(in.Employee.HourlyRate).Mul(policy.Multiplier)

	var gross decimal.Decimal
	switch in.Employee.SalaryType {
	case employee.SalaryTypeMonthly:
		gross = in.Employee.BaseSalary.Add(overtimePay).Add(weekendHolidayPay).Add(in.Bonus)
	default:
		gross = hoursWorked.Mul(in.Employee.HourlyRate).
			Add(overtimePay).Add(weekendHolidayPay).Add(in.Bonus)
	}
	gross = gross.Round(2)

	tax := gross.Mul(in.TaxRate).Round(2)

	var warnings []string
	net := gross.Sub(in.Deductions).Sub(tax)
	if net.IsNegative() {
		warnings = append(warnings, payroll.WarningNegativeNetPay)
		net = decimal.Zero
	}

	return payroll.PayrollEntry{
		EmployeeID:          in.Employee.ID,
		CompanyID:           in.Employee.CompanyID,
		PeriodMonth:         in.Period.Month,
		PeriodYear:          in.Period.Year,
		BaseSalary:          in.Employee.BaseSalary,
		HoursWorked:         hoursWorked,
		OvertimeHours:       overtimeHours,
		WeekendHolidayHours: minutesToHours(weekendHolidayMinutes),
		WeekendHolidayPay:   weekendHolidayPay.Round(2),
		Bonus:               in.Bonus,
		Deductions:          in.Deductions,
		Tax:                 tax,
		GrossPay:            gross,
		NetPay:              net.Round(2),
		BankAccountRef:      in.Employee.BankAccountRef,
		Warnings:            warnings,
	}
}

// countsForPay admits days with actual or administratively credited work time.
func countsForPay(rec attendance.Attendance) bool {
	if rec.WorkMinutes <= 0 {
		return false
	}
	switch rec.Status {
	case attendance.StatusCompleted, attendance.StatusPresent, attendance.StatusLate:
		return true
	}
	return false
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
}
