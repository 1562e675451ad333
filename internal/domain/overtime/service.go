package overtime

import (
	"context"
)

// SettingsService manages the company overtime configuration consumed by the
// attendance and payroll flows.
type SettingsService interface {
	// GetSettings returns the company configuration, falling back to
	// defaults when nothing has been saved yet.
	GetSettings(ctx context.Context) (SettingsResponse, error)

	// UpdateSettings applies a partial update and returns the result.
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
