package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollService struct {
	payroll.PayrollService
	payslipFn func(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error)
}

func (f *fakePayrollService) GetPayslip(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
	return f.payslipFn(ctx, employeeID, periodMonth, periodYear)
}

type fakeSettingsService struct {
	overtime.SettingsService
}

type fakePayslipRenderer struct{}

func (f *fakePayslipRenderer) Render(ctx context.Context, entry payroll.PayrollEntryResponse) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func payslipContext(t *testing.T, role, employeeID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	claims := map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "comp-1",
		"role":       role,
		"type":       "access",
	}
	if employeeID != "" {
		claims["employee_id"] = employeeID
	}
	tok, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func payslipTestRouter(svc payroll.PayrollService) *chi.Mux {
	h := NewPayrollHandler(svc, &fakeSettingsService{}, &fakePayslipRenderer{})
	r := chi.NewRouter()
	r.Get("/payroll/payslips", h.GetPayslip)
	r.Get("/payroll/payslips/pdf", h.DownloadPayslipPDF)
	return r
}

func TestPayrollHandler_Payslip_EmployeeCannotReadOthers(t *testing.T) {
	called := false
	svc := &fakePayrollService{
		payslipFn: func(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
			called = true
			return payroll.PayrollEntryResponse{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/payroll/payslips?employee_id=emp-2&month=1&year=2026", nil)
	req = req.WithContext(payslipContext(t, "employee", "emp-1"))
	rec := httptest.NewRecorder()

	payslipTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestPayrollHandler_PayslipPDF_EmployeeCannotReadOthers(t *testing.T) {
	called := false
	svc := &fakePayrollService{
		payslipFn: func(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
			called = true
			return payroll.PayrollEntryResponse{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/payroll/payslips/pdf?employee_id=emp-2&month=1&year=2026", nil)
	req = req.WithContext(payslipContext(t, "employee", "emp-1"))
	rec := httptest.NewRecorder()

	payslipTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestPayrollHandler_Payslip_DefaultsToClaimSubject(t *testing.T) {
	var gotEmployeeID string
	svc := &fakePayrollService{
		payslipFn: func(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
			gotEmployeeID = employeeID
			return payroll.PayrollEntryResponse{ID: "entry-1", EmployeeID: employeeID, Finalized: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/payroll/payslips?month=1&year=2026", nil)
	req = req.WithContext(payslipContext(t, "employee", "emp-1"))
	rec := httptest.NewRecorder()

	payslipTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-1", gotEmployeeID)
}

func TestPayrollHandler_Payslip_ManagerMayTargetAnyEmployee(t *testing.T) {
	var gotEmployeeID string
	svc := &fakePayrollService{
		payslipFn: func(ctx context.Context, employeeID string, periodMonth, periodYear int) (payroll.PayrollEntryResponse, error) {
			gotEmployeeID = employeeID
			return payroll.PayrollEntryResponse{ID: "entry-1", EmployeeID: employeeID, Finalized: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/payroll/payslips?employee_id=emp-2&month=1&year=2026", nil)
	req = req.WithContext(payslipContext(t, "manager", ""))
	rec := httptest.NewRecorder()

	payslipTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-2", gotEmployeeID)
}
