package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := time.Parse("2006-01-02", req.HireDate)

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		CompanyID:                    companyID,
		EmployeeCode:                 req.EmployeeCode,
		FullName:                     req.FullName,
		Department:                   req.Department,
		SalaryType:                   employee.SalaryType(req.SalaryType),
		BaseSalary:                   req.BaseSalary,
		HourlyRate:                   req.HourlyRate,
		OvertimeMultiplier:           req.OvertimeMultiplier,
		OvertimeWeeklyThresholdHours: req.OvertimeWeeklyThresholdHours,
		BankAccountRef:               req.BankAccountRef,
		Status:                       employee.StatusActive,
		HireDate:                     hireDate,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.Filter) (employee.ListEmployeeResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	employees, total, err := s.employeeRepo.List(ctx, companyID, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, emp := range employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(emp))
	}

	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService. The overtime override
// fields update together so an employee never ends up with half an override.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Department != nil {
		emp.Department = req.Department
	}
	if req.SalaryType != nil {
		emp.SalaryType = employee.SalaryType(*req.SalaryType)
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.HourlyRate != nil {
		emp.HourlyRate = *req.HourlyRate
	}
	if req.OvertimeMultiplier != nil || req.OvertimeWeeklyThresholdHours != nil {
		if req.OvertimeMultiplier == nil || req.OvertimeWeeklyThresholdHours == nil {
			return employee.EmployeeResponse{}, employee.ErrIncompleteOvertime
		}
		emp.OvertimeMultiplier = req.OvertimeMultiplier
		emp.OvertimeWeeklyThresholdHours = req.OvertimeWeeklyThresholdHours
	}
	if req.BankAccountRef != nil {
		emp.BankAccountRef = *req.BankAccountRef
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toEmployeeResponse(emp), nil
}

func toEmployeeResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:                           e.ID,
		CompanyID:                    e.CompanyID,
		EmployeeCode:                 e.EmployeeCode,
		FullName:                     e.FullName,
		Department:                   e.Department,
		SalaryType:                   string(e.SalaryType),
		BaseSalary:                   e.BaseSalary,
		HourlyRate:                   e.HourlyRate,
		OvertimeMultiplier:           e.OvertimeMultiplier,
		OvertimeWeeklyThresholdHours: e.OvertimeWeeklyThresholdHours,
		BankAccountRef:               e.BankAccountRef,
		Status:                       string(e.Status),
		HireDate:                     e.HireDate.Format("2006-01-02"),
	}
}
