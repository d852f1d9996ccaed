package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

func employeeRows(e *models.Employee) *sqlmock.Rows {
	dependents, _ := e.Dependents.Value()
	return sqlmock.NewRows([]string{
		"id", "employee_id", "name", "father_name", "designation", "status", "sub_division", "phone",
		"bank_account", "bank_name", "bank_branch", "life_status", "retirement_date", "death_date",
		"dependents", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.EmployeeID, e.Name, e.FatherName, e.Designation, e.Status, e.SubDivision, e.Phone,
		e.BankAccount, e.BankName, e.BankBranch, e.LifeStatus, e.RetirementDate, e.DeathDate,
		dependents, e.CreatedAt, e.UpdatedAt,
	)
}

func sampleEmployee() *models.Employee {
	now := time.Now().UTC()
	return &models.Employee{
		ID:          "emp-uuid-1",
		EmployeeID:  "EMP-7",
		Name:        "R. Sharma",
		Status:      models.EmploymentWorking,
		SubDivision: models.SubDivisionWS2,
		LifeStatus:  models.LifeAlive,
		Dependents: models.Dependents{
			{Name: "R. Sharma", Relation: "Self"},
			{Name: "S. Sharma", Relation: "Spouse"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEmployeeRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := sampleEmployee()
	employee.ID = ""
	require.NoError(t, repo.Create(context.Background(), employee))
	require.NotEmpty(t, employee.ID)

	stored := sampleEmployee()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, name")).
		WithArgs("EMP-7").
		WillReturnRows(employeeRows(stored))

	found, err := repo.GetByEmployeeID(context.Background(), "EMP-7")
	require.NoError(t, err)
	require.Equal(t, "EMP-7", found.EmployeeID)
	require.Len(t, found.Dependents, 2)
	require.Equal(t, "Self", found.Dependents[0].Relation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	employee := sampleEmployee()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	affected, err := repo.Update(context.Background(), employee)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id")).
		WithArgs(employee.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	affected, err = repo.Delete(context.Background(), employee.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM employees WHERE employee_id")).
		WithArgs("EMP-7").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsEmployeeID(context.Background(), "EMP-7")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
