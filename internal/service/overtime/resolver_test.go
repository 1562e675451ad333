package overtime

import (
	"testing"
	"time"

	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	domain "github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func globalSettings() domain.Settings {
	return domain.Settings{
		Mode:                 domain.ModeGlobal,
		WeeklyThresholdHours: decimal.NewFromInt(40),
		OvertimeMultiplier:   decimal.RequireFromString("1.5"),
		WeekendMultiplier:    decimal.NewFromInt(2),
		HolidayMultiplier:    decimal.RequireFromString("2.5"),
		Holidays:             domain.Holidays{"2026-01-01"},
	}
}

func overriddenEmployee() employee.Employee {
	mult := decimal.NewFromInt(2)
	threshold := decimal.NewFromInt(35)
	return employee.Employee{
		OvertimeMultiplier:           &mult,
		OvertimeWeeklyThresholdHours: &threshold,
	}
}

func TestResolve_GlobalMode(t *testing.T) {
	// Monday.
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	p := Resolve(overriddenEmployee(), date, globalSettings())

	assert.True(t, p.Multiplier.Equal(decimal.RequireFromString("1.5")),
		"global mode must ignore the employee override")
	assert.True(t, p.WeeklyThresholdHours.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 480, p.DailyThresholdMinutes)
	assert.Equal(t, ClassWeekday, p.Class)
}

func TestResolve_IndividualModeOverride(t *testing.T) {
	settings := globalSettings()
	settings.Mode = domain.ModeIndividual
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	p := Resolve(overriddenEmployee(), date, settings)

	assert.True(t, p.Multiplier.Equal(decimal.NewFromInt(2)))
	assert.True(t, p.WeeklyThresholdHours.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, 420, p.DailyThresholdMinutes)
	// Weekend and holiday multipliers stay global even with an override.
	assert.True(t, p.WeekendMultiplier.Equal(decimal.NewFromInt(2)))
	assert.True(t, p.HolidayMultiplier.Equal(decimal.RequireFromString("2.5")))
}

func TestResolve_IndividualModeWithoutOverride(t *testing.T) {
	settings := globalSettings()
	settings.Mode = domain.ModeIndividual
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	p := Resolve(employee.Employee{}, date, settings)

	assert.True(t, p.Multiplier.Equal(decimal.RequireFromString("1.5")),
		"employees without an override fall back to global values")
	assert.Equal(t, 480, p.DailyThresholdMinutes)
}

func TestClassify(t *testing.T) {
	holidays := domain.Holidays{"2026-01-03"}

	cases := []struct {
		name string
		date time.Time
		want DayClass
	}{
		{"weekday", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), ClassWeekday},
		{"saturday", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), ClassWeekend},
		{"sunday", time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), ClassWeekend},
		// Jan 3 2026 is a Saturday; holiday classification wins.
		{"holiday on weekend", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), ClassHoliday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.date, holidays))
		})
	}
}

func TestPolicy_DayMultiplier(t *testing.T) {
	settings := globalSettings()

	holiday := Resolve(employee.Employee{}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), settings)
	require.Equal(t, ClassHoliday, holiday.Class)
	assert.True(t, holiday.DayMultiplier().Equal(decimal.RequireFromString("2.5")))

	weekday := Resolve(employee.Employee{}, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), settings)
	assert.True(t, weekday.DayMultiplier().Equal(decimal.NewFromInt(1)))
}
