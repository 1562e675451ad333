package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/leave"
	"github.com/jobhive/employer-backend-go/internal/pkg/keylock"
)

type LeaveServiceImpl struct {
	locks          *keylock.KeyLock
	leaveRepo      leave.LeaveRequestRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	logger         *slog.Logger
}

func NewLeaveService(
	locks *keylock.KeyLock,
	leaveRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	logger *slog.Logger,
) leave.LeaveService {
	return &LeaveServiceImpl{
		locks:          locks,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		logger:         logger,
	}
}

type identity struct {
	CompanyID  string
	UserID     string
	EmployeeID string
	Role       string
}

func identityFromContext(ctx context.Context) (identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return identity{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	id := identity{CompanyID: companyID}
	if userID, ok := claims["user_id"].(string); ok {
		id.UserID = userID
	}
	if employeeID, ok := claims["employee_id"].(string); ok {
		id.EmployeeID = employeeID
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}

	return id, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	employeeID := ident.EmployeeID
	if req.EmployeeID != nil && *req.EmployeeID != "" && *req.EmployeeID != ident.EmployeeID {
		if ident.Role == "employee" {
			return leave.LeaveRequestResponse{}, fmt.Errorf("only administrators may submit leave for another employee")
		}
		employeeID = *req.EmployeeID
	}
	if employeeID == "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, ident.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		LeaveType:  leave.LeaveType(req.LeaveType),
		StartDate:  start,
		EndDate:    end,
		TotalDays:  int(end.Sub(start).Hours()/24) + 1,
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return toLeaveResponse(created, nil), nil
}

// Decide implements leave.LeaveService. Approval writes a status=leave record
// for each date in range, one day at a time under that day's lock; dates that
// already carry completed logged hours or sit under finalized payroll are
// skipped and reported as conflicts, never failures. The decision itself
// lands regardless of conflicts.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.leaveRepo.GetByID(ctx, req.RequestID, ident.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Decided() {
		return leave.LeaveRequestResponse{}, leave.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	request.ApproverID = &ident.UserID
	request.DecidedAt = &now
	if req.Comment != "" {
		request.DecisionNote = &req.Comment
	}

	if req.Decision == leave.DecisionReject {
		request.Status = leave.LeaveRequestStatusRejected
		if err := s.leaveRepo.UpdateDecision(ctx, request); err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to record decision: %w", err)
		}
		return toLeaveResponse(request, nil), nil
	}

	request.Status = leave.LeaveRequestStatusApproved
	if err := s.leaveRepo.UpdateDecision(ctx, request); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to record decision: %w", err)
	}

	conflicts := s.applyLeaveDates(ctx, request)
	if len(conflicts) > 0 {
		s.logger.Warn("leave approved with skipped dates",
			slog.String("leave_request_id", request.ID),
			slog.Int("conflicts", len(conflicts)))
	}

	return toLeaveResponse(request, conflicts), nil
}

func (s *LeaveServiceImpl) applyLeaveDates(ctx context.Context, request leave.LeaveRequest) []leave.DateConflict {
	var conflicts []leave.DateConflict
	note := fmt.Sprintf("approved %s leave", request.LeaveType)

	for _, date := range request.Dates() {
		conflict := s.applyLeaveDate(ctx, request, date, note)
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}

	return conflicts
}

func (s *LeaveServiceImpl) applyLeaveDate(ctx context.Context, request leave.LeaveRequest, date time.Time, note string) *leave.DateConflict {
	dateStr := date.Format("2006-01-02")

	unlock := s.locks.Lock(request.EmployeeID + "|" + dateStr)
	defer unlock()

	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, request.EmployeeID, date, request.CompanyID)
	if err != nil {
		return &leave.DateConflict{Date: dateStr, Reason: "failed to load attendance: " + err.Error()}
	}

	if rec == nil {
		_, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID: request.EmployeeID,
			CompanyID:  request.CompanyID,
			Date:       date,
			Status:     attendance.StatusLeave,
			Note:       &note,
		})
		if err != nil {
			return &leave.DateConflict{Date: dateStr, Reason: "failed to write attendance: " + err.Error()}
		}
		return nil
	}

	if rec.Locked {
		return &leave.DateConflict{Date: dateStr, Reason: "attendance is referenced by finalized payroll"}
	}
	if rec.HasLoggedHours() {
		return &leave.DateConflict{Date: dateStr, Reason: "completed attendance with logged hours exists"}
	}

	// Open sessions are overridden too; the eventual clock-out fails
	// against the leave status.
	next := *rec
	next.ClockIn = nil
	next.BreakStart = nil
	next.BreakEnd = nil
	next.ClockOut = nil
	next.WorkMinutes = 0
	next.BreakMinutes = 0
	next.OvertimeMinutes = 0
	next.Status = attendance.StatusLeave
	next.Note = &note
	if _, err := s.attendanceRepo.Update(ctx, next); err != nil {
		return &leave.DateConflict{Date: dateStr, Reason: "failed to write attendance: " + err.Error()}
	}

	return nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.leaveRepo.GetByID(ctx, id, ident.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toLeaveResponse(request, nil), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	// Plain employees only ever see their own requests.
	if ident.Role == "employee" && ident.EmployeeID != "" {
		filter.EmployeeID = &ident.EmployeeID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	requests, total, err := s.leaveRepo.List(ctx, ident.CompanyID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, toLeaveResponse(r, nil))
	}

	return resp, nil
}

func toLeaveResponse(r leave.LeaveRequest, conflicts []leave.DateConflict) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		LeaveType:    string(r.LeaveType),
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		TotalDays:    r.TotalDays,
		Reason:       r.Reason,
		Status:       string(r.Status),
		ApproverID:   r.ApproverID,
		DecisionNote: r.DecisionNote,
		Conflicts:    conflicts,
	}
	if r.DecidedAt != nil {
		decidedAt := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}
