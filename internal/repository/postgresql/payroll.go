package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/jobhive/employer-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db          *database.DB
	attendances attendance.AttendanceRepository
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db, attendances: NewAttendanceRepository(db)}
}

const runColumns = `
	id, company_id, period_month, period_year,
	total_gross, total_deductions, total_tax, total_net,
	status, processed_at, processed_by, created_at, updated_at
`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID, &run.CompanyID, &run.PeriodMonth, &run.PeriodYear,
		&run.TotalGross, &run.TotalDeductions, &run.TotalTax, &run.TotalNet,
		&run.Status, &run.ProcessedAt, &run.ProcessedBy, &run.CreatedAt, &run.UpdatedAt,
	)
	return run, err
}

// CreateRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, company_id, period_month, period_year,
			total_gross, total_deductions, total_tax, total_net,
			status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			0, 0, 0, 0,
			$4, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		run.CompanyID, run.PeriodMonth, run.PeriodYear, run.Status,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("insert payroll run: %w", err)
	}

	return run, nil
}

// GetRunByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	run, err := scanRun(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("select payroll run: %w", err)
	}

	return run, nil
}

// GetRunByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetRunByPeriod(ctx context.Context, companyID string, periodMonth, periodYear int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`

	run, err := scanRun(q.QueryRow(ctx, query, companyID, periodMonth, periodYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("select payroll run by period: %w", err)
	}

	return run, nil
}

const insertEntryQuery = `
	INSERT INTO payroll_entries (
		id, run_id, employee_id, company_id, period_month, period_year,
		base_salary, hours_worked, overtime_hours,
		weekend_holiday_hours, weekend_holiday_pay,
		bonus, deductions, tax, gross_pay, net_pay,
		bank_account_ref, transfer_ref, warnings, note, adjusts_entry_id, finalized,
		created_at, updated_at
	) VALUES (
		uuidv7(), $1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10,
		$11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21,
		NOW(), NOW()
	) RETURNING id, created_at, updated_at
`

// ReplaceEntries implements payroll.PayrollRepository. Runs in one
// transaction so a redraft can never leave a run with a mix of old and new
// entries.
func (r *payrollRepositoryImpl) ReplaceEntries(ctx context.Context, run payroll.PayrollRun, entries []payroll.PayrollEntry) ([]payroll.PayrollEntry, error) {
	out := make([]payroll.PayrollEntry, 0, len(entries))

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM payroll_entries WHERE run_id = $1 AND NOT finalized`,
			run.ID,
		); err != nil {
			return fmt.Errorf("delete draft entries: %w", err)
		}

		for _, entry := range entries {
			err := tx.QueryRow(ctx, insertEntryQuery,
				entry.RunID, entry.EmployeeID, entry.CompanyID, entry.PeriodMonth, entry.PeriodYear,
				entry.BaseSalary, entry.HoursWorked, entry.OvertimeHours,
				entry.WeekendHolidayHours, entry.WeekendHolidayPay,
				entry.Bonus, entry.Deductions, entry.Tax, entry.GrossPay, entry.NetPay,
				entry.BankAccountRef, entry.TransferRef, entry.Warnings, entry.Note, entry.AdjustsEntryID, entry.Finalized,
			).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert payroll entry: %w", err)
			}
			out = append(out, entry)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE payroll_runs SET
				total_gross = $1, total_deductions = $2, total_tax = $3, total_net = $4,
				updated_at = NOW()
			WHERE id = $5 AND status = 'draft'
		`, run.TotalGross, run.TotalDeductions, run.TotalTax, run.TotalNet, run.ID)
		if err != nil {
			return fmt.Errorf("update run totals: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return payroll.ErrRunAlreadyProcessed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

const entryColumns = `
	pe.id, pe.run_id, pe.employee_id, pe.company_id, pe.period_month, pe.period_year,
	pe.base_salary, pe.hours_worked, pe.overtime_hours,
	pe.weekend_holiday_hours, pe.weekend_holiday_pay,
	pe.bonus, pe.deductions, pe.tax, pe.gross_pay, pe.net_pay,
	pe.bank_account_ref, pe.transfer_ref, pe.warnings, pe.note, pe.adjusts_entry_id, pe.finalized,
	pe.created_at, pe.updated_at,
	e.full_name, e.employee_code
`

func scanEntry(row pgx.Row) (payroll.PayrollEntry, error) {
	var e payroll.PayrollEntry
	err := row.Scan(
		&e.ID, &e.RunID, &e.EmployeeID, &e.CompanyID, &e.PeriodMonth, &e.PeriodYear,
		&e.BaseSalary, &e.HoursWorked, &e.OvertimeHours,
		&e.WeekendHolidayHours, &e.WeekendHolidayPay,
		&e.Bonus, &e.Deductions, &e.Tax, &e.GrossPay, &e.NetPay,
		&e.BankAccountRef, &e.TransferRef, &e.Warnings, &e.Note, &e.AdjustsEntryID, &e.Finalized,
		&e.CreatedAt, &e.UpdatedAt,
		&e.EmployeeName, &e.EmployeeCode,
	)
	return e, err
}

// ListEntriesByRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListEntriesByRun(ctx context.Context, runID string, companyID string) ([]payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM payroll_entries pe
		INNER JOIN employees e ON pe.employee_id = e.id
		WHERE pe.run_id = $1 AND pe.company_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("select payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.PayrollEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetEntryByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetEntryByID(ctx context.Context, id string, companyID string) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM payroll_entries pe
		INNER JOIN employees e ON pe.employee_id = e.id
		WHERE pe.id = $1 AND pe.company_id = $2
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
		}
		return payroll.PayrollEntry{}, fmt.Errorf("select payroll entry: %w", err)
	}

	return entry, nil
}

// GetFinalizedEntry implements payroll.PayrollRepository. Adjustments are
// excluded; the payslip is the original finalized entry.
func (r *payrollRepositoryImpl) GetFinalizedEntry(ctx context.Context, employeeID string, companyID string, periodMonth, periodYear int) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM payroll_entries pe
		INNER JOIN employees e ON pe.employee_id = e.id
		WHERE pe.employee_id = $1 AND pe.company_id = $2
		  AND pe.period_month = $3 AND pe.period_year = $4
		  AND pe.finalized AND pe.adjusts_entry_id IS NULL
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, employeeID, companyID, periodMonth, periodYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
		}
		return payroll.PayrollEntry{}, fmt.Errorf("select finalized payroll entry: %w", err)
	}

	return entry, nil
}

// Finalize implements payroll.PayrollRepository. One transaction covers the
// run transition, the entry flips and the attendance locks; a concurrent
// finalize loses on the status predicate and nothing of its work persists.
func (r *payrollRepositoryImpl) Finalize(ctx context.Context, run payroll.PayrollRun, transferRefs map[string]string) (payroll.PayrollRun, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE payroll_runs SET
				status = $1, processed_at = $2, processed_by = $3, updated_at = NOW()
			WHERE id = $4 AND company_id = $5 AND status = 'draft'
		`, run.Status, run.ProcessedAt, run.ProcessedBy, run.ID, run.CompanyID)
		if err != nil {
			return fmt.Errorf("update payroll run status: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return payroll.ErrRunAlreadyProcessed
		}

		if _, err := tx.Exec(ctx, `
			UPDATE payroll_entries SET finalized = true, updated_at = NOW()
			WHERE run_id = $1
		`, run.ID); err != nil {
			return fmt.Errorf("finalize payroll entries: %w", err)
		}

		for entryID, ref := range transferRefs {
			if _, err := tx.Exec(ctx, `
				UPDATE payroll_entries SET transfer_ref = $1, updated_at = NOW()
				WHERE id = $2 AND run_id = $3
			`, ref, entryID, run.ID); err != nil {
				return fmt.Errorf("record transfer reference: %w", err)
			}
		}

		rows, err := tx.Query(ctx, `
			SELECT employee_id FROM payroll_entries WHERE run_id = $1
		`, run.ID)
		if err != nil {
			return fmt.Errorf("list run employees: %w", err)
		}
		var employeeIDs []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scan run employee: %w", err)
			}
			employeeIDs = append(employeeIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("list run employees: %w", err)
		}

		txCtx := context.WithValue(ctx, "tx", tx)
		if err := r.attendances.LockForPeriod(txCtx, run.CompanyID, employeeIDs, run.PeriodMonth, run.PeriodYear); err != nil {
			return fmt.Errorf("lock attendances for run: %w", err)
		}

		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	return r.GetRunByID(ctx, run.ID, run.CompanyID)
}

// CreateAdjustment implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateAdjustment(ctx context.Context, entry payroll.PayrollEntry) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, insertEntryQuery,
		entry.RunID, entry.EmployeeID, entry.CompanyID, entry.PeriodMonth, entry.PeriodYear,
		entry.BaseSalary, entry.HoursWorked, entry.OvertimeHours,
		entry.WeekendHolidayHours, entry.WeekendHolidayPay,
		entry.Bonus, entry.Deductions, entry.Tax, entry.GrossPay, entry.NetPay,
		entry.BankAccountRef, entry.TransferRef, entry.Warnings, entry.Note, entry.AdjustsEntryID, entry.Finalized,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return payroll.PayrollEntry{}, fmt.Errorf("insert adjustment entry: %w", err)
	}

	return entry, nil
}
