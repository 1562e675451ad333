package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/pkg/keylock"
	overtimesvc "github.com/jobhive/employer-backend-go/internal/service/overtime"
)

// Synthesized work window for administratively marked present/late days when
// the caller gives no explicit times.
const (
	defaultCheckIn     = "09:00"
	defaultCheckOut    = "17:00"
	defaultWorkMinutes = 480
)

type AttendanceServiceImpl struct {
	locks          *keylock.KeyLock
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	settingsRepo   overtime.SettingsRepository
}

func NewAttendanceService(
	locks *keylock.KeyLock,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo overtime.SettingsRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		locks:          locks,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settingsRepo:   settingsRepo,
	}
}

type identity struct {
	CompanyID  string
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
	if employeeID, ok := claims["employee_id"].(string); ok {
		id.EmployeeID = employeeID
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}

	return id, nil
}

// ClockAction implements attendance.AttendanceService. The whole
// read-check-transition-write sequence runs under the employee-day lock, so
// racing submissions for the same day serialize and the loser sees the state
// the winner left behind. A failed transition never mutates the record.
func (a *AttendanceServiceImpl) ClockAction(ctx context.Context, req attendance.ClockActionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID := ident.EmployeeID
	if req.EmployeeID != nil && *req.EmployeeID != "" && *req.EmployeeID != ident.EmployeeID {
		if ident.Role == "employee" {
			return attendance.AttendanceResponse{}, fmt.Errorf("only administrators may clock for another employee")
		}
		employeeID = *req.EmployeeID
	}
	if employeeID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		if ident.Role == "employee" {
			return attendance.AttendanceResponse{}, fmt.Errorf("only administrators may backdate clock actions")
		}
		parsed, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		ts = parsed.UTC()
	}
	date := ts.Truncate(24 * time.Hour)

	unlock := a.locks.Lock(employeeID + "|" + date.Format("2006-01-02"))
	defer unlock()

	emp, err := a.employeeRepo.GetByID(ctx, employeeID, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance for date: %w", err)
	}
	if rec != nil && rec.Locked {
		return attendance.AttendanceResponse{}, attendance.ErrRecordLocked
	}

	var saved attendance.Attendance
	switch req.Action {
	case attendance.ActionClockIn:
		saved, err = a.clockIn(ctx, emp, rec, date, ts, req.Note)
	case attendance.ActionBreakStart:
		saved, err = a.breakStart(ctx, rec, ts)
	case attendance.ActionBreakEnd:
		saved, err = a.breakEnd(ctx, rec, ts)
	case attendance.ActionClockOut:
		saved, err = a.clockOut(ctx, emp, rec, ts)
	default:
		err = fmt.Errorf("unknown clock action %q", req.Action)
	}
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(saved), nil
}

func (a *AttendanceServiceImpl) clockIn(ctx context.Context, emp employee.Employee, rec *attendance.Attendance, date, ts time.Time, note *string) (attendance.Attendance, error) {
	if rec == nil {
		return a.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID:   emp.ID,
			CompanyID:    emp.CompanyID,
			Date:         date,
			ClockIn:      &ts,
			Status:       attendance.StatusClockedIn,
			EmployeeNote: note,
		})
	}

	switch rec.Status {
	case attendance.StatusLeave:
		return attendance.Attendance{}, attendance.ErrLeaveConflict
	case attendance.StatusClockedIn, attendance.StatusOnBreak:
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	case attendance.StatusAbsent:
		// An absent marking is provisional; actually showing up supersedes it.
		next := *rec
		next.ClockIn = &ts
		next.BreakStart = nil
		next.BreakEnd = nil
		next.ClockOut = nil
		next.WorkMinutes = 0
		next.BreakMinutes = 0
		next.OvertimeMinutes = 0
		next.Status = attendance.StatusClockedIn
		next.EmployeeNote = note
		return a.attendanceRepo.Update(ctx, next)
	default:
		return attendance.Attendance{}, attendance.ErrDayCompleted
	}
}

func (a *AttendanceServiceImpl) breakStart(ctx context.Context, rec *attendance.Attendance, ts time.Time) (attendance.Attendance, error) {
	if rec == nil {
		return attendance.Attendance{}, attendance.ErrNotClockedIn
	}

	switch rec.Status {
	case attendance.StatusClockedIn:
		next := *rec
		next.BreakStart = &ts
		next.BreakEnd = nil
		next.Status = attendance.StatusOnBreak
		return a.attendanceRepo.Update(ctx, next)
	case attendance.StatusOnBreak:
		return attendance.Attendance{}, attendance.ErrBreakInProgress
	case attendance.StatusCompleted:
		return attendance.Attendance{}, attendance.ErrDayCompleted
	default:
		return attendance.Attendance{}, attendance.ErrNotClockedIn
	}
}

func (a *AttendanceServiceImpl) breakEnd(ctx context.Context, rec *attendance.Attendance, ts time.Time) (attendance.Attendance, error) {
	if rec == nil || rec.Status != attendance.StatusOnBreak {
		return attendance.Attendance{}, attendance.ErrNotOnBreak
	}

	next := *rec
	next.BreakEnd = &ts
	if next.BreakStart != nil && ts.After(*next.BreakStart) {
		// Breaks accumulate; BreakStart/BreakEnd hold the latest pair.
		next.BreakMinutes += int(ts.Sub(*next.BreakStart).Minutes())
	}
	next.Status = attendance.StatusClockedIn
	return a.attendanceRepo.Update(ctx, next)
}

func (a *AttendanceServiceImpl) clockOut(ctx context.Context, emp employee.Employee, rec *attendance.Attendance, ts time.Time) (attendance.Attendance, error) {
	if rec == nil {
		return attendance.Attendance{}, attendance.ErrNotClockedIn
	}

	switch rec.Status {
	case attendance.StatusOnBreak:
		return attendance.Attendance{}, attendance.ErrBreakInProgress
	case attendance.StatusCompleted:
		return attendance.Attendance{}, attendance.ErrDayCompleted
	case attendance.StatusClockedIn:
	default:
		return attendance.Attendance{}, attendance.ErrNotClockedIn
	}

	if rec.ClockIn == nil || !ts.After(*rec.ClockIn) {
		return attendance.Attendance{}, attendance.ErrClockOutBeforeIn
	}

	next := *rec
	next.ClockOut = &ts
	next.WorkMinutes = int(ts.Sub(*rec.ClockIn).Minutes()) - next.BreakMinutes
	if next.WorkMinutes < 0 {
		next.WorkMinutes = 0
	}
	next.OvertimeMinutes = 0
	next.Status = attendance.StatusCompleted

	policy, err := a.resolvePolicy(ctx, emp, next.Date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	// Weekend and holiday hours are paid through their own multiplier bucket
	// at payroll time, so only weekdays accrue standard overtime here.
	if policy.Class == overtimesvc.ClassWeekday && next.WorkMinutes > policy.DailyThresholdMinutes {
		next.OvertimeMinutes = next.WorkMinutes - policy.DailyThresholdMinutes
	}

	return a.attendanceRepo.Update(ctx, next)
}

func (a *AttendanceServiceImpl) resolvePolicy(ctx context.Context, emp employee.Employee, date time.Time) (overtimesvc.Policy, error) {
	settings, err := a.settingsRepo.GetByCompanyID(ctx, emp.CompanyID)
	if err != nil {
		if !errors.Is(err, overtime.ErrSettingsNotFound) {
			return overtimesvc.Policy{}, fmt.Errorf("failed to get overtime settings: %w", err)
		}
		settings = overtime.DefaultSettings(emp.CompanyID)
	}
	return overtimesvc.Resolve(emp, date, settings), nil
}

// MarkAttendance implements attendance.AttendanceService. Administrative
// markings replace whatever the day holds unless payroll already locked it.
func (a *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	unlock := a.locks.Lock(req.EmployeeID + "|" + req.Date)
	defer unlock()

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance for date: %w", err)
	}
	if rec != nil && rec.Locked {
		return attendance.AttendanceResponse{}, attendance.ErrRecordLocked
	}

	next := attendance.Attendance{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Note:       req.Note,
	}
	if rec != nil {
		next.ID = rec.ID
		next.Version = rec.Version
		next.EmployeeNote = rec.EmployeeNote
	}

	if req.Status == string(attendance.StatusPresent) || req.Status == string(attendance.StatusLate) {
		checkIn, checkOut := defaultCheckIn, defaultCheckOut
		if req.CheckIn != nil {
			checkIn = *req.CheckIn
		}
		if req.CheckOut != nil {
			checkOut = *req.CheckOut
		}

		in, out, err := clockWindow(date, checkIn, checkOut)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		next.ClockIn = &in
		next.ClockOut = &out
		next.WorkMinutes = int(out.Sub(in).Minutes())
	}

	var saved attendance.Attendance
	if rec == nil {
		saved, err = a.attendanceRepo.Create(ctx, next)
	} else {
		saved, err = a.attendanceRepo.Update(ctx, next)
	}
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(saved), nil
}

// clockWindow anchors two wall-clock times onto the record's date in UTC.
func clockWindow(date time.Time, checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := anchorClock(date, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := anchorClock(date, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, attendance.ErrClockOutBeforeIn
	}
	return in, out, nil
}

func anchorClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		if t, err = time.Parse("15:04:05", clock); err != nil {
			return time.Time{}, fmt.Errorf("failed to parse clock time: %w", err)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.Filter) (attendance.ListAttendanceResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if ident.EmployeeID == "" {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	filter.EmployeeID = &ident.EmployeeID
	return a.list(ctx, filter, ident.CompanyID)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.Filter) (attendance.ListAttendanceResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return a.list(ctx, filter, ident.CompanyID)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.Filter, companyID string) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := a.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Attendances = append(resp.Attendances, toAttendanceResponse(rec))
	}

	return resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.attendanceRepo.GetByID(ctx, id, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(rec), nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func minutesToHoursPtr(minutes int) *float64 {
	hours := float64(minutes) / 60
	return &hours
}

func toAttendanceResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		EmployeeName:  rec.EmployeeName,
		Date:          rec.Date.Format("2006-01-02"),
		ClockInTime:   timePtrToString(rec.ClockIn),
		BreakStart:    timePtrToString(rec.BreakStart),
		BreakEnd:      timePtrToString(rec.BreakEnd),
		ClockOutTime:  timePtrToString(rec.ClockOut),
		WorkHours:     minutesToHoursPtr(rec.WorkMinutes),
		BreakHours:    minutesToHoursPtr(rec.BreakMinutes),
		OvertimeHours: minutesToHoursPtr(rec.OvertimeMinutes),
		Status:        string(rec.Status),
		Note:          rec.Note,
		EmployeeNote:  rec.EmployeeNote,
		Locked:        rec.Locked,
	}
}
