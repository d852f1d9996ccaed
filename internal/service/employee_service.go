package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

type employeeStore interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	ExistsEmployeeID(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type billCounter interface {
	CountByEmployee(ctx context.Context, employeeID string) (int, error)
}

// EmployeeService manages employee records. Bills reference employees by
// their external number; an employee with bills on file cannot be deleted.
type EmployeeService struct {
	repo   employeeStore
	bills  billCounter
	logger *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(repo employeeStore, bills billCounter, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, bills: bills, logger: logger}
}

// Create registers an employee, seeding them as their own first dependent.
func (s *EmployeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest) (*models.Employee, error) {
	exists, err := s.repo.ExistsEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already exists")
	}

	employee := &models.Employee{
		EmployeeID:  strings.TrimSpace(req.EmployeeID),
		Name:        strings.TrimSpace(req.Name),
		FatherName:  optional(req.FatherName),
		Designation: optional(req.Designation),
		Status:      models.EmploymentWorking,
		SubDivision: req.SubDivision,
		Phone:       optional(req.Phone),
		BankAccount: optional(req.BankAccount),
		BankName:    optional(req.BankName),
		BankBranch:  optional(req.BankBranch),
		LifeStatus:  models.LifeAlive,
	}
	if req.Status != "" {
		employee.Status = models.EmploymentStatus(req.Status)
	}
	if req.LifeStatus != "" {
		employee.LifeStatus = models.LifeStatus(req.LifeStatus)
	}

	if err := applyLifecycleDates(employee, req.RetirementDate, req.DeathDate); err != nil {
		return nil, err
	}

	dependents, err := buildDependents(employee.Name, req.Dependents)
	if err != nil {
		return nil, err
	}
	employee.Dependents = dependents

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Get fetches one employee by external number.
func (s *EmployeeService) Get(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, err := s.repo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch employee")
	}
	return employee, nil
}

// List returns all employees, optionally narrowed to names containing the
// search term.
func (s *EmployeeService) List(ctx context.Context, search string) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	search = strings.TrimSpace(search)
	if search == "" {
		return employees, nil
	}
	filtered := make([]models.Employee, 0, len(employees))
	for _, employee := range employees {
		if strings.Contains(strings.ToLower(employee.Name), strings.ToLower(search)) {
			filtered = append(filtered, employee)
		}
	}
	return filtered, nil
}

// Update rewrites the employee record. The dependents list replaces the
// stored one wholesale, with the Self entry re-seeded first.
func (s *EmployeeService) Update(ctx context.Context, employeeID string, req dto.UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	employee.Name = strings.TrimSpace(req.Name)
	employee.FatherName = optional(req.FatherName)
	employee.Designation = optional(req.Designation)
	employee.SubDivision = req.SubDivision
	employee.Phone = optional(req.Phone)
	employee.BankAccount = optional(req.BankAccount)
	employee.BankName = optional(req.BankName)
	employee.BankBranch = optional(req.BankBranch)
	if req.Status != "" {
		employee.Status = models.EmploymentStatus(req.Status)
	}
	if req.LifeStatus != "" {
		employee.LifeStatus = models.LifeStatus(req.LifeStatus)
	}

	employee.RetirementDate = nil
	employee.DeathDate = nil
	if err := applyLifecycleDates(employee, req.RetirementDate, req.DeathDate); err != nil {
		return nil, err
	}

	dependents, err := buildDependents(employee.Name, req.Dependents)
	if err != nil {
		return nil, err
	}
	employee.Dependents = dependents

	affected, err := s.repo.Update(ctx, employee)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	return employee, nil
}

// Delete removes the employee. Deletion is refused while bills still
// reference the employee, so no bill is left pointing at a phantom record.
func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	employee, err := s.Get(ctx, employeeID)
	if err != nil {
		return err
	}

	count, err := s.bills.CountByEmployee(ctx, employee.EmployeeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count employee bills")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "employee has bills on file and cannot be deleted")
	}

	affected, err := s.repo.Delete(ctx, employee.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	return nil
}

func applyLifecycleDates(employee *models.Employee, retirementDate, deathDate string) error {
	if retirementDate != "" {
		if employee.Status != models.EmploymentRetired {
			return appErrors.Clone(appErrors.ErrValidation, "retirement_date requires RETIRED status")
		}
		parsed, err := dto.ParseDate(retirementDate)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "invalid retirement_date")
		}
		employee.RetirementDate = &parsed
	} else if employee.Status == models.EmploymentRetired {
		return appErrors.Clone(appErrors.ErrValidation, "retirement_date is required for RETIRED status")
	}

	if deathDate != "" {
		if employee.LifeStatus != models.LifeDeceased {
			return appErrors.Clone(appErrors.ErrValidation, "death_date requires DECEASED life status")
		}
		parsed, err := dto.ParseDate(deathDate)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "invalid death_date")
		}
		employee.DeathDate = &parsed
	} else if employee.LifeStatus == models.LifeDeceased {
		return appErrors.Clone(appErrors.ErrValidation, "death_date is required for DECEASED life status")
	}

	return nil
}

func buildDependents(name string, extra []dto.DependentPayload) (models.Dependents, error) {
	dependents := models.Dependents{{Name: name, Relation: "Self"}}
	for _, dep := range extra {
		if strings.EqualFold(strings.TrimSpace(dep.Relation), "Self") {
			continue
		}
		dependents = append(dependents, models.Dependent{
			Name:     strings.TrimSpace(dep.Name),
			Relation: strings.TrimSpace(dep.Relation),
		})
	}
	if len(dependents) > models.MaxDependents {
		return nil, appErrors.Clone(appErrors.ErrValidation, "an employee may have at most 4 dependents")
	}
	return dependents, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
