package payroll

import "context"

// PayrollRepository defines data access for runs and entries. ReplaceEntries
// and Finalize are transactional: either everything inside them lands or
// nothing does.
type PayrollRepository interface {
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)

	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)

	// GetRunByPeriod returns ErrRunNotFound when the company has no run for
	// the period yet.
	GetRunByPeriod(ctx context.Context, companyID string, periodMonth, periodYear int) (PayrollRun, error)

	// ReplaceEntries atomically deletes a draft run's entries, inserts the
	// recomputed ones and updates the run totals.
	ReplaceEntries(ctx context.Context, run PayrollRun, entries []PayrollEntry) ([]PayrollEntry, error)

	ListEntriesByRun(ctx context.Context, runID string, companyID string) ([]PayrollEntry, error)

	GetEntryByID(ctx context.Context, id string, companyID string) (PayrollEntry, error)

	// GetFinalizedEntry serves payslip reads; it never returns draft entries.
	GetFinalizedEntry(ctx context.Context, employeeID string, companyID string, periodMonth, periodYear int) (PayrollEntry, error)

	// Finalize flips the run to processed, marks every entry finalized with its
	// transfer reference, and locks the referenced attendance rows, all in one
	// transaction.
	Finalize(ctx context.Context, run PayrollRun, transferRefs map[string]string) (PayrollRun, error)

	// CreateAdjustment inserts a correction entry referencing a finalized one.
	CreateAdjustment(ctx context.Context, entry PayrollEntry) (PayrollEntry, error)
}
