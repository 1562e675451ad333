package payroll

import (
	"context"
)

// PayrollService drafts, finalizes and serves payroll for a company.
type PayrollService interface {
	// RunPayroll drafts (or deterministically redrafts) the run for a period.
	RunPayroll(ctx context.Context, req RunPayrollRequest) (PayrollRunResponse, error)

	// FinalizeRun is all-or-nothing: every entry finalizes and the run flips
	// to processed, or nothing changes.
	FinalizeRun(ctx context.Context, runID string) (PayrollRunResponse, error)

	GetRun(ctx context.Context, runID string) (PayrollRunResponse, error)

	// GetPayslip is a pure read of a finalized entry; it never recomputes.
	GetPayslip(ctx context.Context, employeeID string, periodMonth, periodYear int) (PayrollEntryResponse, error)

	// CreateAdjustment records a post-finalize correction as a new entry
	// referencing the original.
	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (PayrollEntryResponse, error)
}
