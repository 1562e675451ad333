package overtime

import (
	"time"

	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

// DayClass routes a day's hours into one pay bucket. A weekend or holiday day
// never also accrues standard overtime, so no hour is multiplied twice.
type DayClass string

const (
	ClassWeekday DayClass = "weekday"
	ClassWeekend DayClass = "weekend"
	ClassHoliday DayClass = "holiday"
)

// workdaysPerWeek pro-rates the weekly threshold into a per-day one applied
// at clock-out.
const workdaysPerWeek = 5

// Policy is the resolved overtime rule set for one employee-day.
type Policy struct {
	WeeklyThresholdHours  decimal.Decimal
	DailyThresholdMinutes int
	Multiplier            decimal.Decimal
	WeekendMultiplier     decimal.Decimal
	HolidayMultiplier     decimal.Decimal
	Class                 DayClass
}

// DayMultiplier returns the multiplier the day's hours are paid at when the
// day is weekend or holiday.
func (p Policy) DayMultiplier() decimal.Decimal {
	switch p.Class {
	case ClassHoliday:
		return p.HolidayMultiplier
	case ClassWeekend:
		return p.WeekendMultiplier
	default:
		return decimal.NewFromInt(1)
	}
}

// Resolve maps (employee, date, settings) to the applicable policy. In
// individual mode an employee override replaces the base threshold and
// multiplier only; weekend/holiday multipliers always come from the global
// settings.
func Resolve(emp employee.Employee, date time.Time, settings overtime.Settings) Policy {
	p := Policy{
		WeeklyThresholdHours: settings.WeeklyThresholdHours,
		Multiplier:           settings.OvertimeMultiplier,
		WeekendMultiplier:    settings.WeekendMultiplier,
		HolidayMultiplier:    settings.HolidayMultiplier,
		Class:                Classify(date, settings.Holidays),
	}

	if settings.Mode == overtime.ModeIndividual && emp.HasOvertimeOverride() {
		p.Multiplier = *emp.OvertimeMultiplier
		p.WeeklyThresholdHours = *emp.OvertimeWeeklyThresholdHours
	}

	p.DailyThresholdMinutes = int(p.WeeklyThresholdHours.
		Div(decimal.NewFromInt(workdaysPerWeek)).
		Mul(decimal.NewFromInt(60)).
		IntPart())

	return p
}

// Classify determines the day class; company holidays win over weekends.
func Classify(date time.Time, holidays overtime.Holidays) DayClass {
	if holidays.Contains(date) {
		return ClassHoliday
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ClassWeekend
	}
	return ClassWeekday
}
