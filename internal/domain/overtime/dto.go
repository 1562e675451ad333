package overtime

import (
	"github.com/jobhive/employer-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	Mode                 *string          `json:"mode"`
	WeeklyThresholdHours *decimal.Decimal `json:"weekly_threshold_hours"`
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier"`
	WeekendMultiplier    *decimal.Decimal `json:"weekend_multiplier"`
	HolidayMultiplier    *decimal.Decimal `json:"holiday_multiplier"`
	Holidays             *Holidays        `json:"holidays"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Mode != nil && *r.Mode != string(ModeGlobal) && *r.Mode != string(ModeIndividual) {
		errs = append(errs, validator.ValidationError{
			Field:   "mode",
			Message: "mode must be global or individual",
		})
	}

	if r.WeeklyThresholdHours != nil && r.WeeklyThresholdHours.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_threshold_hours",
			Message: "weekly_threshold_hours cannot be negative",
		})
	}

	for field, mult := range map[string]*decimal.Decimal{
		"overtime_multiplier": r.OvertimeMultiplier,
		"weekend_multiplier":  r.WeekendMultiplier,
		"holiday_multiplier":  r.HolidayMultiplier,
	} {
		if mult != nil && mult.LessThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "multiplier must be at least 1",
			})
		}
	}

	if r.Holidays != nil {
		for _, d := range *r.Holidays {
			if _, ok := validator.IsValidDate(d); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "holidays",
					Message: "holidays must be YYYY-MM-DD dates",
				})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SettingsResponse struct {
	CompanyID            string          `json:"company_id"`
	Mode                 string          `json:"mode"`
	WeeklyThresholdHours decimal.Decimal `json:"weekly_threshold_hours"`
	OvertimeMultiplier   decimal.Decimal `json:"overtime_multiplier"`
	WeekendMultiplier    decimal.Decimal `json:"weekend_multiplier"`
	HolidayMultiplier    decimal.Decimal `json:"holiday_multiplier"`
	Holidays             Holidays        `json:"holidays"`
}
