package employee

import "context"

// EmployeeRepository defines data access for employees. Every method takes a
// companyID so one company can never read another's staff.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// GetActiveByCompanyID returns every active employee, used by payroll runs.
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	List(ctx context.Context, companyID string, filter Filter) ([]Employee, int64, error)

	Update(ctx context.Context, emp Employee) error
}
