package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

const employeeColumns = `id, employee_id, name, father_name, designation, status, sub_division, phone,
       bank_account, bank_name, bank_branch, life_status, retirement_date, death_date,
       dependents, created_at, updated_at`

// EmployeeRepository persists employee records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee row.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	const query = `INSERT INTO employees
	(id, employee_id, name, father_name, designation, status, sub_division, phone,
	 bank_account, bank_name, bank_branch, life_status, retirement_date, death_date,
	 dependents, created_at, updated_at)
	VALUES (:id, :employee_id, :name, :father_name, :designation, :status, :sub_division, :phone,
	 :bank_account, :bank_name, :bank_branch, :life_status, :retirement_date, :death_date,
	 :dependents, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// GetByID fetches one employee by internal identifier. Returns
// sql.ErrNoRows when absent.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByEmployeeID fetches one employee by the externally assigned number.
func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, employeeID); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsEmployeeID reports whether the external number is already taken.
func (r *EmployeeRepository) ExistsEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM employees WHERE employee_id = $1`, employeeID); err != nil {
		return false, fmt.Errorf("count employee id: %w", err)
	}
	return count > 0, nil
}

// List returns all employees, newest first.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC`
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// Update rewrites the employee record. Returns the number of affected rows.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) (int64, error) {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET
	name = :name,
	father_name = :father_name,
	designation = :designation,
	status = :status,
	sub_division = :sub_division,
	phone = :phone,
	bank_account = :bank_account,
	bank_name = :bank_name,
	bank_branch = :bank_branch,
	life_status = :life_status,
	retirement_date = :retirement_date,
	death_date = :death_date,
	dependents = :dependents,
	updated_at = :updated_at
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, employee)
	if err != nil {
		return 0, fmt.Errorf("update employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update employee rows: %w", err)
	}
	return affected, nil
}

// Delete removes the employee. Returns the number of affected rows.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete employee rows: %w", err)
	}
	return affected, nil
}
