package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	List(ctx context.Context, companyID string, filter Filter) ([]LeaveRequest, int64, error)

	// UpdateDecision records the terminal transition; implementations must only
	// move pending requests.
	UpdateDecision(ctx context.Context, req LeaveRequest) error
}
