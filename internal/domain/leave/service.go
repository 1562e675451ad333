package leave

import (
	"context"
)

// LeaveService defines the leave-approval workflow. Approval writes
// status=leave attendance records for every date in range, skipping and
// reporting dates that already hold completed logged hours.
type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)

	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)

	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)

	ListLeaveRequests(ctx context.Context, filter Filter) (ListLeaveRequestResponse, error)
}
