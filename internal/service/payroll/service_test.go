package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollRepo struct {
	payroll.PayrollRepository

	runs      map[string]payroll.PayrollRun
	entries   map[string][]payroll.PayrollEntry
	adjusted  []payroll.PayrollEntry
	finalized bool
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		runs:    make(map[string]payroll.PayrollRun),
		entries: make(map[string][]payroll.PayrollEntry),
	}
}

func (f *fakePayrollRepo) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	run.ID = fmt.Sprintf("run-%d-%d", run.PeriodYear, run.PeriodMonth)
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakePayrollRepo) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (f *fakePayrollRepo) GetRunByPeriod(ctx context.Context, companyID string, periodMonth, periodYear int) (payroll.PayrollRun, error) {
	for _, run := range f.runs {
		if run.CompanyID == companyID && run.PeriodMonth == periodMonth && run.PeriodYear == periodYear {
			return run, nil
		}
	}
	return payroll.PayrollRun{}, payroll.ErrRunNotFound
}

func (f *fakePayrollRepo) ReplaceEntries(ctx context.Context, run payroll.PayrollRun, entries []payroll.PayrollEntry) ([]payroll.PayrollEntry, error) {
	out := make([]payroll.PayrollEntry, 0, len(entries))
	for i, e := range entries {
		e.ID = fmt.Sprintf("entry-%d", i+1)
		out = append(out, e)
	}
	f.entries[run.ID] = out
	f.runs[run.ID] = run
	return out, nil
}

func (f *fakePayrollRepo) ListEntriesByRun(ctx context.Context, runID string, companyID string) ([]payroll.PayrollEntry, error) {
	return f.entries[runID], nil
}

func (f *fakePayrollRepo) GetEntryByID(ctx context.Context, id string, companyID string) (payroll.PayrollEntry, error) {
	for _, entries := range f.entries {
		for _, e := range entries {
			if e.ID == id {
				return e, nil
			}
		}
	}
	return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) GetFinalizedEntry(ctx context.Context, employeeID string, companyID string, periodMonth, periodYear int) (payroll.PayrollEntry, error) {
	for _, entries := range f.entries {
		for _, e := range entries {
			if e.EmployeeID == employeeID && e.PeriodMonth == periodMonth && e.PeriodYear == periodYear && e.Finalized {
				return e, nil
			}
		}
	}
	return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) Finalize(ctx context.Context, run payroll.PayrollRun, transferRefs map[string]string) (payroll.PayrollRun, error) {
	f.finalized = true
	f.runs[run.ID] = run
	entries := f.entries[run.ID]
	for i := range entries {
		entries[i].Finalized = true
		if ref, ok := transferRefs[entries[i].ID]; ok {
			r := ref
			entries[i].TransferRef = &r
		}
	}
	return run, nil
}

func (f *fakePayrollRepo) CreateAdjustment(ctx context.Context, entry payroll.PayrollEntry) (payroll.PayrollEntry, error) {
	entry.ID = "adj-1"
	f.adjusted = append(f.adjusted, entry)
	return entry, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository

	active []employee.Employee
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.active, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository

	byEmployee map[string][]attendance.Attendance
}

func (f *fakeAttendanceRepo) ListForPeriod(ctx context.Context, companyID string, employeeID string, periodMonth, periodYear int) ([]attendance.Attendance, error) {
	return f.byEmployee[employeeID], nil
}

type fakeSettingsRepo struct {
	overtime.SettingsRepository
}

func (f *fakeSettingsRepo) GetByCompanyID(ctx context.Context, companyID string) (overtime.Settings, error) {
	return overtime.Settings{}, overtime.ErrSettingsNotFound
}

type fakeGateway struct {
	calls int
	fail  bool
}

func (g *fakeGateway) Transfer(ctx context.Context, accountRef string, amount decimal.Decimal) (string, error) {
	g.calls++
	if g.fail {
		return "", fmt.Errorf("gateway unavailable")
	}
	return fmt.Sprintf("TRF-%d", g.calls), nil
}

func authedContext(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func adminContext(t *testing.T) context.Context {
	return authedContext(t, map[string]interface{}{
		"company_id": "comp-1",
		"user_id":    "user-9",
		"role":       "admin",
	})
}

type fixtures struct {
	svc      payroll.PayrollService
	payrolls *fakePayrollRepo
	gateway  *fakeGateway
}

func newFixtures(active []employee.Employee, att map[string][]attendance.Attendance) fixtures {
	payrollRepo := newFakePayrollRepo()
	gateway := &fakeGateway{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPayrollService(
		payrollRepo,
		&fakeEmployeeRepo{active: active},
		&fakeAttendanceRepo{byEmployee: att},
		&fakeSettingsRepo{},
		gateway,
		logger,
	)
	return fixtures{svc: svc, payrolls: payrollRepo, gateway: gateway}
}

func activeMonthly() []employee.Employee {
	return []employee.Employee{{
		ID:             "emp-1",
		CompanyID:      "comp-1",
		SalaryType:     employee.SalaryTypeMonthly,
		BaseSalary:     decimal.NewFromInt(5000),
		HourlyRate:     decimal.NewFromInt(30),
		BankAccountRef: "acct-1",
		Status:         employee.StatusActive,
	}}
}

func TestRunPayroll_DraftsEntriesAndTotals(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)

	resp, err := fx.svc.RunPayroll(adminContext(t), payroll.RunPayrollRequest{
		PeriodMonth: 1,
		PeriodYear:  2026,
		TaxRate:     decimal.RequireFromString("0.1"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusDraft), resp.Status)
	require.Len(t, resp.Entries, 1)
	assert.True(t, resp.TotalGross.Equal(decimal.NewFromInt(5000)))
	assert.True(t, resp.TotalTax.Equal(decimal.NewFromInt(500)))
	assert.True(t, resp.TotalNet.Equal(decimal.NewFromInt(4500)))
}

func TestRunPayroll_RedraftReusesRun(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)
	req := payroll.RunPayrollRequest{PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero}

	first, err := fx.svc.RunPayroll(ctx, req)
	require.NoError(t, err)

	req.Inputs = []payroll.EmployeeInput{{EmployeeID: "emp-1", Bonus: decimal.NewFromInt(100)}}
	second, err := fx.svc.RunPayroll(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same period redraft reuses the run")
	assert.Len(t, fx.payrolls.runs, 1)
	assert.True(t, second.TotalGross.Equal(decimal.NewFromInt(5100)))
}

func TestRunPayroll_ProcessedPeriodRejectsRedraft(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	fx.payrolls.runs["run-x"] = payroll.PayrollRun{
		ID: "run-x", CompanyID: "comp-1", PeriodMonth: 1, PeriodYear: 2026,
		Status: payroll.RunStatusProcessed,
	}

	_, err := fx.svc.RunPayroll(adminContext(t), payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})

	assert.ErrorIs(t, err, payroll.ErrRunAlreadyProcessed)
}

func TestRunPayroll_NoActiveEmployees(t *testing.T) {
	fx := newFixtures(nil, nil)

	_, err := fx.svc.RunPayroll(adminContext(t), payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})

	assert.ErrorIs(t, err, payroll.ErrNoActiveEmployees)
}

func TestFinalizeRun_MarksEntriesAndStoresTransferRefs(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	draft, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)

	resp, err := fx.svc.FinalizeRun(ctx, draft.ID)

	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusProcessed), resp.Status)
	assert.NotNil(t, resp.ProcessedAt)
	require.Len(t, resp.Entries, 1)
	assert.True(t, resp.Entries[0].Finalized)
	require.NotNil(t, resp.Entries[0].TransferRef)
	assert.Equal(t, 1, fx.gateway.calls)
}

func TestFinalizeRun_Twice(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	draft, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = fx.svc.FinalizeRun(ctx, draft.ID)
	require.NoError(t, err)

	_, err = fx.svc.FinalizeRun(ctx, draft.ID)

	assert.ErrorIs(t, err, payroll.ErrRunAlreadyProcessed)
}

func TestFinalizeRun_EmptyRun(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	fx.payrolls.runs["run-x"] = payroll.PayrollRun{
		ID: "run-x", CompanyID: "comp-1", Status: payroll.RunStatusDraft,
	}

	_, err := fx.svc.FinalizeRun(adminContext(t), "run-x")

	assert.ErrorIs(t, err, payroll.ErrRunNotFinalizable)
}

func TestFinalizeRun_GatewayFailureleavesRunDraft(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	draft, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)
	fx.gateway.fail = true

	_, err = fx.svc.FinalizeRun(ctx, draft.ID)

	require.Error(t, err)
	assert.False(t, fx.payrolls.finalized, "nothing persists when a transfer fails")
	assert.Equal(t, payroll.RunStatusDraft, fx.payrolls.runs[draft.ID].Status)
}

func TestGetPayslip_OnlyServesFinalizedEntries(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	draft, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = fx.svc.GetPayslip(ctx, "emp-1", 1, 2026)
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound, "draft entries have no payslip")

	_, err = fx.svc.FinalizeRun(ctx, draft.ID)
	require.NoError(t, err)

	slip, err := fx.svc.GetPayslip(ctx, "emp-1", 1, 2026)
	require.NoError(t, err)
	assert.True(t, slip.NetPay.Equal(decimal.NewFromInt(5000)))
	assert.True(t, slip.Finalized)
}

func TestCreateAdjustment_ReferencesOriginal(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	draft, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)
	_, err = fx.svc.FinalizeRun(ctx, draft.ID)
	require.NoError(t, err)

	resp, err := fx.svc.CreateAdjustment(ctx, payroll.CreateAdjustmentRequest{
		EntryID: "entry-1",
		Amount:  decimal.NewFromInt(250),
		Reason:  "missed shift differential",
	})

	require.NoError(t, err)
	require.NotNil(t, resp.AdjustsEntryID)
	assert.Equal(t, "entry-1", *resp.AdjustsEntryID)
	assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(250)))
	require.NotNil(t, resp.Note)
	assert.Equal(t, "missed shift differential", *resp.Note)
}

func TestCreateAdjustment_RejectsDraftEntry(t *testing.T) {
	fx := newFixtures(activeMonthly(), nil)
	ctx := adminContext(t)

	_, err := fx.svc.RunPayroll(ctx, payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = fx.svc.CreateAdjustment(ctx, payroll.CreateAdjustmentRequest{
		EntryID: "entry-1",
		Amount:  decimal.NewFromInt(250),
		Reason:  "missed shift differential",
	})

	assert.ErrorIs(t, err, payroll.ErrEntryNotFinalized)
}

func TestRunPayroll_UsesAttendanceForHourly(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-2", CompanyID: "comp-1",
		SalaryType: employee.SalaryTypeHourly,
		HourlyRate: decimal.NewFromInt(25),
		Status:     employee.StatusActive,
	}
	att := map[string][]attendance.Attendance{
		"emp-2": {{
			EmployeeID:  "emp-2",
			Date:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			WorkMinutes: 480,
			Status:      attendance.StatusCompleted,
		}},
	}
	fx := newFixtures([]employee.Employee{emp}, att)

	resp, err := fx.svc.RunPayroll(adminContext(t), payroll.RunPayrollRequest{
		PeriodMonth: 1, PeriodYear: 2026, TaxRate: decimal.Zero,
	})

	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.True(t, resp.Entries[0].GrossPay.Equal(decimal.NewFromInt(200)))
}
