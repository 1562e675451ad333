package overtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
)

type SettingsServiceImpl struct {
	settingsRepo overtime.SettingsRepository
}

func NewSettingsService(settingsRepo overtime.SettingsRepository) overtime.SettingsService {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// GetSettings implements overtime.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (overtime.SettingsResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return overtime.SettingsResponse{}, err
	}

	settings, err := s.settingsRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, overtime.ErrSettingsNotFound) {
			settings = overtime.DefaultSettings(companyID)
		} else {
			return overtime.SettingsResponse{}, fmt.Errorf("failed to get overtime settings: %w", err)
		}
	}

	return toSettingsResponse(settings), nil
}

// UpdateSettings implements overtime.SettingsService. Unset fields keep their
// current (or default) values.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req overtime.UpdateSettingsRequest) (overtime.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SettingsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return overtime.SettingsResponse{}, err
	}

	settings, err := s.settingsRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, overtime.ErrSettingsNotFound) {
			settings = overtime.DefaultSettings(companyID)
		} else {
			return overtime.SettingsResponse{}, fmt.Errorf("failed to get overtime settings: %w", err)
		}
	}

	if req.Mode != nil {
		settings.Mode = overtime.Mode(*req.Mode)
	}
	if req.WeeklyThresholdHours != nil {
		settings.WeeklyThresholdHours = *req.WeeklyThresholdHours
	}
	if req.OvertimeMultiplier != nil {
		settings.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.WeekendMultiplier != nil {
		settings.WeekendMultiplier = *req.WeekendMultiplier
	}
	if req.HolidayMultiplier != nil {
		settings.HolidayMultiplier = *req.HolidayMultiplier
	}
	if req.Holidays != nil {
		settings.Holidays = *req.Holidays
	}

	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		return overtime.SettingsResponse{}, fmt.Errorf("failed to save overtime settings: %w", err)
	}

	return toSettingsResponse(saved), nil
}

func toSettingsResponse(s overtime.Settings) overtime.SettingsResponse {
	holidays := s.Holidays
	if holidays == nil {
		holidays = overtime.Holidays{}
	}
	return overtime.SettingsResponse{
		CompanyID:            s.CompanyID,
		Mode:                 string(s.Mode),
		WeeklyThresholdHours: s.WeeklyThresholdHours,
		OvertimeMultiplier:   s.OvertimeMultiplier,
		WeekendMultiplier:    s.WeekendMultiplier,
		HolidayMultiplier:    s.HolidayMultiplier,
		Holidays:             holidays,
	}
}
