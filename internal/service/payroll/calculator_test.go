package payroll

import (
	"testing"
	"time"

	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testSettings() overtime.Settings {
	return overtime.Settings{
		Mode:                 overtime.ModeGlobal,
		WeeklyThresholdHours: decimal.NewFromInt(40),
		OvertimeMultiplier:   decimal.RequireFromString("1.5"),
		WeekendMultiplier:    decimal.NewFromInt(2),
		HolidayMultiplier:    decimal.NewFromInt(2),
		Holidays:             overtime.Holidays{"2026-01-01"},
	}
}

func monthlyEmployee() employee.Employee {
	return employee.Employee{
		ID:             "emp-1",
		CompanyID:      "comp-1",
		SalaryType:     employee.SalaryTypeMonthly,
		BaseSalary:     decimal.NewFromInt(8000),
		HourlyRate:     decimal.NewFromInt(50),
		BankAccountRef: "acct-1",
	}
}

// completedDay builds a finished weekday record; date math picks real 2026
// weekdays so day classification behaves.
func completedDay(date time.Time, workMinutes, overtimeMinutes int) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:      "emp-1",
		Date:            date,
		WorkMinutes:     workMinutes,
		OvertimeMinutes: overtimeMinutes,
		Status:          attendance.StatusCompleted,
	}
}

func TestCompute_MonthlySalaryWithOvertime(t *testing.T) {
	// Four weekdays at 2h overtime each: 8 overtime hours total.
	records := []attendance.Attendance{
		completedDay(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 600, 120),
		completedDay(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), 600, 120),
		completedDay(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), 600, 120),
		completedDay(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), 600, 120),
	}

	entry := Compute(ComputeInput{
		Employee:   monthlyEmployee(),
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: records,
		Bonus:      decimal.NewFromInt(500),
		Deductions: decimal.Zero,
		TaxRate:    decimal.Zero,
		Settings:   testSettings(),
	})

	// 8000 base + 8h x 50 x 1.5 + 500 bonus = 9100.
	assert.True(t, entry.GrossPay.Equal(decimal.NewFromInt(9100)), "gross = %s", entry.GrossPay)
	assert.True(t, entry.NetPay.Equal(decimal.NewFromInt(9100)))
	assert.True(t, entry.OvertimeHours.Equal(decimal.NewFromInt(8)))
	assert.Empty(t, entry.Warnings)
}

func TestCompute_HourlySalary(t *testing.T) {
	emp := monthlyEmployee()
	emp.SalaryType = employee.SalaryTypeHourly
	emp.HourlyRate = decimal.NewFromInt(20)

	// One 8h day, one 10h day (2h overtime).
	records := []attendance.Attendance{
		completedDay(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 480, 0),
		completedDay(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), 600, 120),
	}

	entry := Compute(ComputeInput{
		Employee:   emp,
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: records,
		Bonus:      decimal.Zero,
		Deductions: decimal.Zero,
		TaxRate:    decimal.Zero,
		Settings:   testSettings(),
	})

	// 16 regular hours x 20 + 2 overtime hours x 20 x 1.5 = 320 + 60 = 380.
	assert.True(t, entry.GrossPay.Equal(decimal.NewFromInt(380)), "gross = %s", entry.GrossPay)
	assert.True(t, entry.HoursWorked.Equal(decimal.NewFromInt(16)))
	assert.True(t, entry.OvertimeHours.Equal(decimal.NewFromInt(2)))
}

func TestCompute_WeekendAndHolidayBuckets(t *testing.T) {
	emp := monthlyEmployee()

	records := []attendance.Attendance{
		// Thursday Jan 1 is a company holiday: 4h at 2x.
		completedDay(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 240, 0),
		// Saturday Jan 10: 4h at 2x. Overtime minutes on a weekend day are
		// folded into the bucket, never double-multiplied.
		completedDay(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 240, 0),
	}

	entry := Compute(ComputeInput{
		Employee:   emp,
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: records,
		Bonus:      decimal.Zero,
		Deductions: decimal.Zero,
		TaxRate:    decimal.Zero,
		Settings:   testSettings(),
	})

	// 8h x 50 x 2 = 800 weekend/holiday pay on top of base.
	assert.True(t, entry.WeekendHolidayHours.Equal(decimal.NewFromInt(8)))
	assert.True(t, entry.WeekendHolidayPay.Equal(decimal.NewFromInt(800)), "whPay = %s", entry.WeekendHolidayPay)
	assert.True(t, entry.GrossPay.Equal(decimal.NewFromInt(8800)))
	assert.True(t, entry.OvertimeHours.IsZero())
}

func TestCompute_TaxRounding(t *testing.T) {
	entry := Compute(ComputeInput{
		Employee:   monthlyEmployee(),
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: nil,
		Bonus:      decimal.Zero,
		Deductions: decimal.Zero,
		TaxRate:    decimal.RequireFromString("0.1175"),
		Settings:   testSettings(),
	})

	// 8000 x 0.1175 = 940 tax.
	assert.True(t, entry.Tax.Equal(decimal.NewFromInt(940)), "tax = %s", entry.Tax)
	assert.True(t, entry.NetPay.Equal(decimal.NewFromInt(7060)))
}

func TestCompute_NegativeNetClampsToZero(t *testing.T) {
	entry := Compute(ComputeInput{
		Employee:   monthlyEmployee(),
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: nil,
		Bonus:      decimal.Zero,
		Deductions: decimal.NewFromInt(10000),
		TaxRate:    decimal.Zero,
		Settings:   testSettings(),
	})

	assert.True(t, entry.NetPay.IsZero())
	assert.Contains(t, entry.Warnings, payroll.WarningNegativeNetPay)
}

func TestCompute_IgnoresDaysWithoutLoggedWork(t *testing.T) {
	emp := monthlyEmployee()
	emp.SalaryType = employee.SalaryTypeHourly
	emp.HourlyRate = decimal.NewFromInt(20)

	records := []attendance.Attendance{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Status: attendance.StatusLeave},
		{Date: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), Status: attendance.StatusAbsent},
		completedDay(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), 480, 0),
	}

	entry := Compute(ComputeInput{
		Employee:   emp,
		Period:     payroll.PayPeriod{Month: 1, Year: 2026},
		Attendance: records,
		Bonus:      decimal.Zero,
		Deductions: decimal.Zero,
		TaxRate:    decimal.Zero,
		Settings:   testSettings(),
	})

	assert.True(t, entry.HoursWorked.Equal(decimal.NewFromInt(8)))
	assert.True(t, entry.GrossPay.Equal(decimal.NewFromInt(160)))
}
