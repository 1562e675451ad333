package overtime

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeGlobal     Mode = "global"
	ModeIndividual Mode = "individual"
)

// Holidays is the JSONB list of company holiday dates (YYYY-MM-DD).
type Holidays []string

// Value implements driver.Valuer for database storage
func (h Holidays) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner
func (h *Holidays) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for Holidays")
	}

	return json.Unmarshal(data, h)
}

// Contains reports whether date falls on a company holiday.
func (h Holidays) Contains(date time.Time) bool {
	key := date.Format("2006-01-02")
	for _, d := range h {
		if d == key {
			return true
		}
	}
	return false
}

// Settings is the company-wide overtime configuration. In individual mode an
// employee's override replaces the base threshold and multiplier; the
// weekend/holiday multipliers always come from here.
type Settings struct {
	ID                   string
	CompanyID            string
	Mode                 Mode
	WeeklyThresholdHours decimal.Decimal
	OvertimeMultiplier   decimal.Decimal
	WeekendMultiplier    decimal.Decimal
	HolidayMultiplier    decimal.Decimal
	Holidays             Holidays
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultSettings mirrors a common 40-hour policy and is used when a company
// has never saved its own.
func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:            companyID,
		Mode:                 ModeGlobal,
		WeeklyThresholdHours: decimal.NewFromInt(40),
		OvertimeMultiplier:   decimal.NewFromFloat(1.5),
		WeekendMultiplier:    decimal.NewFromFloat(2.0),
		HolidayMultiplier:    decimal.NewFromFloat(2.0),
	}
}
