package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/attendance"
	"github.com/jobhive/employer-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.clock_in, a.break_start, a.break_end, a.clock_out,
	a.work_minutes, a.break_minutes, a.overtime_minutes,
	a.status, a.note, a.employee_note, a.locked, a.version,
	a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.CompanyID,
		&a.Date,
		&a.ClockIn,
		&a.BreakStart,
		&a.BreakEnd,
		&a.ClockOut,
		&a.WorkMinutes,
		&a.BreakMinutes,
		&a.OvertimeMinutes,
		&a.Status,
		&a.Note,
		&a.EmployeeNote,
		&a.Locked,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date,
			clock_in, break_start, break_end, clock_out,
			work_minutes, break_minutes, overtime_minutes,
			status, note, employee_note, locked, version,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, false, 1,
			NOW(), NOW()
		) RETURNING id, locked, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.CompanyID, att.Date,
		att.ClockIn, att.BreakStart, att.BreakEnd, att.ClockOut,
		att.WorkMinutes, att.BreakMinutes, att.OvertimeMinutes,
		att.Status, att.Note, att.EmployeeNote,
	).Scan(&att.ID, &att.Locked, &att.Version, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.id = $1 AND a.company_id = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("select attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2 AND a.company_id = $3
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select attendance by date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository. The version predicate
// turns a lost race into ErrVersionConflict instead of a silent overwrite;
// the locked predicate backs up the service-level lock check.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			clock_in = $1,
			break_start = $2,
			break_end = $3,
			clock_out = $4,
			work_minutes = $5,
			break_minutes = $6,
			overtime_minutes = $7,
			status = $8,
			note = $9,
			employee_note = $10,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $11 AND company_id = $12 AND version = $13 AND NOT locked
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ClockIn, att.BreakStart, att.BreakEnd, att.ClockOut,
		att.WorkMinutes, att.BreakMinutes, att.OvertimeMinutes,
		att.Status, att.Note, att.EmployeeNote,
		att.ID, att.CompanyID, att.Version,
	).Scan(&att.Version, &att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, r.classifyUpdateMiss(ctx, att)
		}
		return attendance.Attendance{}, fmt.Errorf("update attendance: %w", err)
	}

	return att, nil
}

// classifyUpdateMiss tells a stale version apart from a locked or deleted row.
func (r *attendanceRepositoryImpl) classifyUpdateMiss(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	var locked bool
	var version int
	err := q.QueryRow(ctx,
		`SELECT locked, version FROM attendances WHERE id = $1 AND company_id = $2`,
		att.ID, att.CompanyID,
	).Scan(&locked, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("inspect attendance after failed update: %w", err)
	}

	if locked {
		return attendance.ErrRecordLocked
	}
	if version != att.Version {
		return attendance.ErrVersionConflict
	}
	return attendance.ErrAttendanceNotFound
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := `WHERE a.company_id = $1`
	args := []any{companyID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND a.date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND a.date <= $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND a.status = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM attendances a
		INNER JOIN employees e ON a.employee_id = e.id
		%s
		ORDER BY a.date DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date,
			&a.ClockIn, &a.BreakStart, &a.BreakEnd, &a.ClockOut,
			&a.WorkMinutes, &a.BreakMinutes, &a.OvertimeMinutes,
			&a.Status, &a.Note, &a.EmployeeNote, &a.Locked, &a.Version,
			&a.CreatedAt, &a.UpdatedAt,
			&a.EmployeeName,
		)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}

	return records, total, rows.Err()
}

// ListForPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForPeriod(ctx context.Context, companyID string, employeeID string, periodMonth, periodYear int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.company_id = $1 AND a.employee_id = $2
		  AND EXTRACT(MONTH FROM a.date) = $3
		  AND EXTRACT(YEAR FROM a.date) = $4
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, periodMonth, periodYear)
	if err != nil {
		return nil, fmt.Errorf("select attendances for period: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}

	return records, rows.Err()
}

// LockForPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) LockForPeriod(ctx context.Context, companyID string, employeeIDs []string, periodMonth, periodYear int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			locked = true,
			updated_at = NOW()
		WHERE company_id = $1 AND employee_id = ANY($2)
		  AND EXTRACT(MONTH FROM date) = $3
		  AND EXTRACT(YEAR FROM date) = $4
	`

	if _, err := q.Exec(ctx, query, companyID, employeeIDs, periodMonth, periodYear); err != nil {
		return fmt.Errorf("lock attendances for period: %w", err)
	}

	return nil
}
