package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrAlreadyDecided       = errors.New("leave request already approved or rejected")
	ErrInvalidDateRange     = errors.New("leave end date is before start date")
	ErrCommentRequired      = errors.New("a comment is required to reject a leave request")
)
