package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/overtime"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/jobhive/employer-backend-go/internal/handler/http/response"
	"github.com/jobhive/employer-backend-go/internal/service/payslip"
)

type PayrollHandler interface {
	RunPayroll(w http.ResponseWriter, r *http.Request)
	FinalizeRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslipPDF(w http.ResponseWriter, r *http.Request)
	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	GetOvertimeSettings(w http.ResponseWriter, r *http.Request)
	UpdateOvertimeSettings(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService  payroll.PayrollService
	settingsService overtime.SettingsService
	payslipService  payslip.Service
}

func NewPayrollHandler(payrollService payroll.PayrollService, settingsService overtime.SettingsService, payslipService payslip.Service) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService:  payrollService,
		settingsService: settingsService,
		payslipService:  payslipService,
	}
}

// RunPayroll implements PayrollHandler.
func (h *PayrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Run payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run drafted", resp)
}

// FinalizeRun implements PayrollHandler.
func (h *PayrollHandlerImpl) FinalizeRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	resp, err := h.payrollService.FinalizeRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run finalized", resp)
}

// GetRun implements PayrollHandler.
func (h *PayrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	resp, err := h.payrollService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID, month, year, err := payslipQuery(r)
	if err != nil {
		payslipQueryError(w, err)
		return
	}

	resp, err := h.payrollService.GetPayslip(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// DownloadPayslipPDF implements PayrollHandler.
func (h *PayrollHandlerImpl) DownloadPayslipPDF(w http.ResponseWriter, r *http.Request) {
	employeeID, month, year, err := payslipQuery(r)
	if err != nil {
		payslipQueryError(w, err)
		return
	}

	entry, err := h.payrollService.GetPayslip(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	pdf, err := h.payslipService.Render(r.Context(), entry)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%d-%02d.pdf", year, month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Error("Payslip PDF write error", "error", err)
	}
}

// CreateAdjustment implements PayrollHandler.
func (h *PayrollHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create adjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EntryID = chi.URLParam(r, "id")

	resp, err := h.payrollService.CreateAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment recorded", resp)
}

// GetOvertimeSettings implements PayrollHandler.
func (h *PayrollHandlerImpl) GetOvertimeSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateOvertimeSettings implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateOvertimeSettings(w http.ResponseWriter, r *http.Request) {
	var req overtime.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update overtime settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.settingsService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

var errPayslipForbidden = errors.New("cannot access another employee's payslip")

func payslipQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, errPayslipForbidden) {
		response.Forbidden(w, "Cannot access another employee's payslip")
		return
	}
	response.BadRequest(w, err.Error(), nil)
}

// payslipQuery resolves the payslip target. Employees get their own slip;
// the employee_id query param overrides for employer lookups only.
func payslipQuery(r *http.Request) (employeeID string, month, year int, err error) {
	q := r.URL.Query()

	_, claims, claimsErr := jwtauth.FromContext(r.Context())
	if claimsErr != nil {
		return "", 0, 0, fmt.Errorf("failed to extract claims from context: %w", claimsErr)
	}
	claimEmployeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	employeeID = q.Get("employee_id")
	if employeeID == "" {
		employeeID = claimEmployeeID
	}
	if employeeID == "" {
		return "", 0, 0, fmt.Errorf("employee_id is required")
	}
	if role == "employee" && employeeID != claimEmployeeID {
		return "", 0, 0, errPayslipForbidden
	}

	month, err = strconv.Atoi(q.Get("month"))
	if err != nil {
		return "", 0, 0, fmt.Errorf("month must be a number")
	}
	year, err = strconv.Atoi(q.Get("year"))
	if err != nil {
		return "", 0, 0, fmt.Errorf("year must be a number")
	}

	return employeeID, month, year, nil
}
