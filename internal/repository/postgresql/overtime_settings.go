package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/pkg/database"
)

type overtimeSettingsRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeSettingsRepository(db *database.DB) overtime.SettingsRepository {
	return &overtimeSettingsRepositoryImpl{db: db}
}

// GetByCompanyID implements overtime.SettingsRepository.
func (r *overtimeSettingsRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (overtime.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, mode,
			   weekly_threshold_hours, overtime_multiplier,
			   weekend_multiplier, holiday_multiplier, holidays,
			   created_at, updated_at
		FROM overtime_settings
		WHERE company_id = $1
	`

	var s overtime.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Mode,
		&s.WeeklyThresholdHours, &s.OvertimeMultiplier,
		&s.WeekendMultiplier, &s.HolidayMultiplier, &s.Holidays,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Settings{}, overtime.ErrSettingsNotFound
		}
		return overtime.Settings{}, fmt.Errorf("select overtime settings: %w", err)
	}

	return s, nil
}

// Upsert implements overtime.SettingsRepository. One row per company.
func (r *overtimeSettingsRepositoryImpl) Upsert(ctx context.Context, settings overtime.Settings) (overtime.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_settings (
			id, company_id, mode,
			weekly_threshold_hours, overtime_multiplier,
			weekend_multiplier, holiday_multiplier, holidays,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4,
			$5, $6, $7,
			NOW(), NOW()
		)
		ON CONFLICT (company_id) DO UPDATE SET
			mode = EXCLUDED.mode,
			weekly_threshold_hours = EXCLUDED.weekly_threshold_hours,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			weekend_multiplier = EXCLUDED.weekend_multiplier,
			holiday_multiplier = EXCLUDED.holiday_multiplier,
			holidays = EXCLUDED.holidays,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		settings.CompanyID, settings.Mode,
		settings.WeeklyThresholdHours, settings.OvertimeMultiplier,
		settings.WeekendMultiplier, settings.HolidayMultiplier, settings.Holidays,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return overtime.Settings{}, fmt.Errorf("upsert overtime settings: %w", err)
	}

	return settings, nil
}
