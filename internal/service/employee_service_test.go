package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

type employeeRepoStub struct {
	employees map[string]*models.Employee
}

func newEmployeeRepoStub() *employeeRepoStub {
	return &employeeRepoStub{employees: make(map[string]*models.Employee)}
}

func (r *employeeRepoStub) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = "row-" + employee.EmployeeID
	}
	clone := *employee
	r.employees[employee.EmployeeID] = &clone
	return nil
}

func (r *employeeRepoStub) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, ok := r.employees[employeeID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *employee
	return &clone, nil
}

func (r *employeeRepoStub) ExistsEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	_, ok := r.employees[employeeID]
	return ok, nil
}

func (r *employeeRepoStub) List(ctx context.Context) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(r.employees))
	for _, employee := range r.employees {
		out = append(out, *employee)
	}
	return out, nil
}

func (r *employeeRepoStub) Update(ctx context.Context, employee *models.Employee) (int64, error) {
	for key, stored := range r.employees {
		if stored.ID == employee.ID {
			clone := *employee
			r.employees[key] = &clone
			return 1, nil
		}
	}
	return 0, nil
}

func (r *employeeRepoStub) Delete(ctx context.Context, id string) (int64, error) {
	for key, stored := range r.employees {
		if stored.ID == id {
			delete(r.employees, key)
			return 1, nil
		}
	}
	return 0, nil
}

type billCounterStub struct {
	counts map[string]int
}

func (c *billCounterStub) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	return c.counts[employeeID], nil
}

func newTestEmployeeService(repo *employeeRepoStub, counts map[string]int) *EmployeeService {
	if counts == nil {
		counts = map[string]int{}
	}
	return NewEmployeeService(repo, &billCounterStub{counts: counts}, nil)
}

func createEmployeeRequest() dto.CreateEmployeeRequest {
	return dto.CreateEmployeeRequest{
		EmployeeID:  "EMP-7",
		Name:        "R. Sharma",
		SubDivision: models.SubDivisionWS2,
	}
}

func TestEmployeeServiceCreateSeedsSelfDependent(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	req := createEmployeeRequest()
	req.Dependents = []dto.DependentPayload{
		{Name: "S. Sharma", Relation: "Spouse"},
		{Name: "R. Sharma", Relation: "Self"}, // duplicate Self is dropped
	}

	employee, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, employee.Dependents, 2)
	require.Equal(t, "Self", employee.Dependents[0].Relation)
	require.Equal(t, "R. Sharma", employee.Dependents[0].Name)
	require.Equal(t, "Spouse", employee.Dependents[1].Relation)
	require.Equal(t, models.EmploymentWorking, employee.Status)
	require.Equal(t, models.LifeAlive, employee.LifeStatus)
}

func TestEmployeeServiceCreateDependentCap(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	req := createEmployeeRequest()
	req.Dependents = []dto.DependentPayload{
		{Name: "A", Relation: "Spouse"},
		{Name: "B", Relation: "Son"},
		{Name: "C", Relation: "Daughter"},
		{Name: "D", Relation: "Mother"},
	}

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEmployeeServiceCreateDuplicateID(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	_, err := svc.Create(context.Background(), createEmployeeRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createEmployeeRequest())
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestEmployeeServiceLifecycleDates(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	req := createEmployeeRequest()
	req.Status = string(models.EmploymentRetired)
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err) // RETIRED without a retirement_date

	req.RetirementDate = "2022-06-30"
	employee, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, employee.RetirementDate)

	other := createEmployeeRequest()
	other.EmployeeID = "EMP-8"
	other.DeathDate = "2023-01-01"
	_, err = svc.Create(context.Background(), other)
	require.Error(t, err) // death_date without DECEASED

	other.LifeStatus = string(models.LifeDeceased)
	employee, err = svc.Create(context.Background(), other)
	require.NoError(t, err)
	require.NotNil(t, employee.DeathDate)
}

func TestEmployeeServiceListSearch(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	_, err := svc.Create(context.Background(), createEmployeeRequest())
	require.NoError(t, err)
	second := createEmployeeRequest()
	second.EmployeeID = "EMP-8"
	second.Name = "K. Verma"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	matched, err := svc.List(context.Background(), "verma")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "K. Verma", matched[0].Name)
}

func TestEmployeeServiceUpdateReplacesDependents(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, nil)

	req := createEmployeeRequest()
	req.Dependents = []dto.DependentPayload{{Name: "S. Sharma", Relation: "Spouse"}}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "EMP-7", dto.UpdateEmployeeRequest{
		Name:        "R. Sharma",
		SubDivision: models.SubDivisionPH3,
		Dependents:  []dto.DependentPayload{{Name: "M. Sharma", Relation: "Mother"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.SubDivisionPH3, updated.SubDivision)
	require.Len(t, updated.Dependents, 2)
	require.Equal(t, "Self", updated.Dependents[0].Relation)
	require.Equal(t, "Mother", updated.Dependents[1].Relation)
}

func TestEmployeeServiceDeleteBlockedByBills(t *testing.T) {
	repo := newEmployeeRepoStub()
	svc := newTestEmployeeService(repo, map[string]int{"EMP-7": 2})

	_, err := svc.Create(context.Background(), createEmployeeRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "EMP-7")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))

	svc = newTestEmployeeService(repo, nil)
	require.NoError(t, svc.Delete(context.Background(), "EMP-7"))

	err = svc.Delete(context.Background(), "EMP-7")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
