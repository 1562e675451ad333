package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/jobhive/employer-backend-go/internal/pkg/bank"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   overtime.SettingsRepository
	gateway        bank.TransferGateway
	logger         *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo overtime.SettingsRepository,
	gateway bank.TransferGateway,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		gateway:        gateway,
		logger:         logger,
	}
}

type identity struct {
	CompanyID string
	UserID    string
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

	return id, nil
}

// RunPayroll implements payroll.PayrollService. Drafting is idempotent: a
// second run for the same period recomputes the existing draft's entries in
// place instead of creating a second run. A processed period can never be
// redrafted.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByPeriod(ctx, ident.CompanyID, req.PeriodMonth, req.PeriodYear)
	switch {
	case err == nil:
		if run.Status == payroll.RunStatusProcessed {
			return payroll.PayrollRunResponse{}, payroll.ErrRunAlreadyProcessed
		}
	case errors.Is(err, payroll.ErrRunNotFound):
		run, err = s.payrollRepo.CreateRun(ctx, payroll.PayrollRun{
			CompanyID:   ident.CompanyID,
			PeriodMonth: req.PeriodMonth,
			PeriodYear:  req.PeriodYear,
			Status:      payroll.RunStatusDraft,
		})
		if err != nil {
			return payroll.PayrollRunResponse{}, fmt.Errorf("failed to create payroll run: %w", err)
		}
	default:
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to look up payroll run: %w", err)
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(employees) == 0 {
		return payroll.PayrollRunResponse{}, payroll.ErrNoActiveEmployees
	}

	settings, err := s.settingsRepo.GetByCompanyID(ctx, ident.CompanyID)
	if err != nil {
		if !errors.Is(err, overtime.ErrSettingsNotFound) {
			return payroll.PayrollRunResponse{}, fmt.Errorf("failed to get overtime settings: %w", err)
		}
		settings = overtime.DefaultSettings(ident.CompanyID)
	}

	inputs := make(map[string]payroll.EmployeeInput, len(req.Inputs))
	for _, in := range req.Inputs {
		inputs[in.EmployeeID] = in
	}

	period := payroll.PayPeriod{Month: req.PeriodMonth, Year: req.PeriodYear}
	entries := make([]payroll.PayrollEntry, 0, len(employees))
	for _, emp := range employees {
		records, err := s.attendanceRepo.ListForPeriod(ctx, ident.CompanyID, emp.ID, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return payroll.PayrollRunResponse{}, fmt.Errorf("failed to load attendance for employee %s: %w", emp.ID, err)
		}

		in := inputs[emp.ID]
		entry := Compute(ComputeInput{
			Employee:   emp,
			Period:     period,
			Attendance: records,
			Bonus:      in.Bonus,
			Deductions: in.Deductions,
			TaxRate:    req.TaxRate,
			Settings:   settings,
		})
		entry.RunID = run.ID

		for _, warning := range entry.Warnings {
			s.logger.Warn("payroll entry drafted with warning",
				slog.String("run_id", run.ID),
				slog.String("employee_id", emp.ID),
				slog.String("warning", warning))
		}

		entries = append(entries, entry)
	}

	run.TotalGross, run.TotalDeductions, run.TotalTax, run.TotalNet = sumTotals(entries)

	saved, err := s.payrollRepo.ReplaceEntries(ctx, run, entries)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to store payroll entries: %w", err)
	}

	return toRunResponse(run, saved), nil
}

func sumTotals(entries []payroll.PayrollEntry) (gross, deductions, tax, net decimal.Decimal) {
	for _, e := range entries {
		gross = gross.Add(e.GrossPay)
		deductions = deductions.Add(e.Deductions)
		tax = tax.Add(e.Tax)
		net = net.Add(e.NetPay)
	}
	return gross, deductions, tax, net
}

// FinalizeRun implements payroll.PayrollService. The repository performs the
// terminal transition in one transaction: entries flip to finalized with
// their transfer references, the run becomes processed and the referenced
// attendance locks. Transfers are initiated through the gateway first; only
// returned references are stored.
func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) (payroll.PayrollRunResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if run.Status == payroll.RunStatusProcessed {
		return payroll.PayrollRunResponse{}, payroll.ErrRunAlreadyProcessed
	}

	entries, err := s.payrollRepo.ListEntriesByRun(ctx, runID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	if len(entries) == 0 {
		return payroll.PayrollRunResponse{}, payroll.ErrRunNotFinalizable
	}

	transferRefs := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.NetPay.IsZero() {
			continue
		}
		ref, err := s.gateway.Transfer(ctx, entry.BankAccountRef, entry.NetPay)
		if err != nil {
			return payroll.PayrollRunResponse{}, fmt.Errorf("failed to initiate transfer for employee %s: %w", entry.EmployeeID, err)
		}
		transferRefs[entry.ID] = ref
	}

	now := time.Now().UTC()
	run.Status = payroll.RunStatusProcessed
	run.ProcessedAt = &now
	if ident.UserID != "" {
		run.ProcessedBy = &ident.UserID
	}

	finalized, err := s.payrollRepo.Finalize(ctx, run, transferRefs)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to finalize payroll run: %w", err)
	}

	entries, err = s.payrollRepo.ListEntriesByRun(ctx, runID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to list payroll entries: %w", err)
	}

	s.logger.Info("payroll run finalized",
		slog.String("run_id", runID),
		slog.Int("entries", len(entries)),
		slog.String("total_net", finalized.TotalNet.StringFixed(2)))

	return toRunResponse(finalized, entries), nil
}

// GetRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.PayrollRunResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	entries, err := s.payrollRepo.ListEntriesByRun(ctx, runID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to list payroll entries: %w", err)
	}

	return toRunResponse(run, entries), nil
}

// GetPayslip implements payroll.PayrollService. Payslips only exist for
// finalized entries and are served verbatim from storage.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return payroll.PayrollEntryResponse{}, err
	}

	if periodMonth < 1 || periodMonth > 12 {
		return payroll.PayrollEntryResponse{}, payroll.ErrInvalidPeriod
	}

	entry, err := s.payrollRepo.GetFinalizedEntry(ctx, employeeID, ident.CompanyID, periodMonth, periodYear)
	if err != nil {
		return payroll.PayrollEntryResponse{}, err
	}

	return toEntryResponse(entry), nil
}

// CreateAdjustment implements payroll.PayrollService. Finalized entries never
// change; a correction is a fresh entry pointing back at the original.
func (s *PayrollServiceImpl) CreateAdjustment(ctx context.Context, req payroll.CreateAdjustmentRequest) (payroll.PayrollEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollEntryResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return payroll.PayrollEntryResponse{}, err
	}

	original, err := s.payrollRepo.GetEntryByID(ctx, req.EntryID, ident.CompanyID)
	if err != nil {
		return payroll.PayrollEntryResponse{}, err
	}
	if !original.Finalized {
		return payroll.PayrollEntryResponse{}, payroll.ErrEntryNotFinalized
	}

	net := req.Amount
	if net.IsNegative() {
		net = decimal.Zero
	}

	adjustment := payroll.PayrollEntry{
		RunID:          original.RunID,
		EmployeeID:     original.EmployeeID,
		CompanyID:      original.CompanyID,
		PeriodMonth:    original.PeriodMonth,
		PeriodYear:     original.PeriodYear,
		GrossPay:       req.Amount,
		NetPay:         net,
		BankAccountRef: original.BankAccountRef,
		Note:           &req.Reason,
		AdjustsEntryID: &original.ID,
		Finalized:      true,
	}

	created, err := s.payrollRepo.CreateAdjustment(ctx, adjustment)
	if err != nil {
		return payroll.PayrollEntryResponse{}, fmt.Errorf("failed to create adjustment entry: %w", err)
	}

	s.logger.Info("payroll adjustment recorded",
		slog.String("entry_id", original.ID),
		slog.String("adjustment_id", created.ID),
		slog.String("amount", req.Amount.StringFixed(2)))

	return toEntryResponse(created), nil
}

func toEntryResponse(e payroll.PayrollEntry) payroll.PayrollEntryResponse {
	return payroll.PayrollEntryResponse{
		ID:                  e.ID,
		RunID:               e.RunID,
		EmployeeID:          e.EmployeeID,
		EmployeeName:        e.EmployeeName,
		EmployeeCode:        e.EmployeeCode,
		PeriodMonth:         e.PeriodMonth,
		PeriodYear:          e.PeriodYear,
		BaseSalary:          e.BaseSalary,
		HoursWorked:         e.HoursWorked,
		OvertimeHours:       e.OvertimeHours,
		WeekendHolidayHours: e.WeekendHolidayHours,
		WeekendHolidayPay:   e.WeekendHolidayPay,
		Bonus:               e.Bonus,
		Deductions:          e.Deductions,
		Tax:                 e.Tax,
		GrossPay:            e.GrossPay,
		NetPay:              e.NetPay,
		BankAccountRef:      e.BankAccountRef,
		TransferRef:         e.TransferRef,
		Warnings:            e.Warnings,
		Note:                e.Note,
		AdjustsEntryID:      e.AdjustsEntryID,
		Finalized:           e.Finalized,
	}
}

func toRunResponse(run payroll.PayrollRun, entries []payroll.PayrollEntry) payroll.PayrollRunResponse {
	resp := payroll.PayrollRunResponse{
		ID:              run.ID,
		CompanyID:       run.CompanyID,
		PeriodMonth:     run.PeriodMonth,
		PeriodYear:      run.PeriodYear,
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalTax:        run.TotalTax,
		TotalNet:        run.TotalNet,
		Status:          string(run.Status),
		Entries:         make([]payroll.PayrollEntryResponse, 0, len(entries)),
	}
	if run.ProcessedAt != nil {
		processedAt := run.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processedAt
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	return resp
}
