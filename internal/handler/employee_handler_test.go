package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	"github.com/harshbansal7/bills-lifecycle-system/internal/service"
	"github.com/harshbansal7/bills-lifecycle-system/internal/workflow"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type employeeStoreMock struct {
	employees map[string]*models.Employee
}

func newEmployeeStoreMock() *employeeStoreMock {
	return &employeeStoreMock{employees: make(map[string]*models.Employee)}
}

func (m *employeeStoreMock) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = "row-" + employee.EmployeeID
	}
	clone := *employee
	m.employees[employee.EmployeeID] = &clone
	return nil
}

func (m *employeeStoreMock) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, ok := m.employees[employeeID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *employee
	return &clone, nil
}

func (m *employeeStoreMock) ExistsEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	_, ok := m.employees[employeeID]
	return ok, nil
}

func (m *employeeStoreMock) List(ctx context.Context) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(m.employees))
	for _, employee := range m.employees {
		out = append(out, *employee)
	}
	return out, nil
}

func (m *employeeStoreMock) Update(ctx context.Context, employee *models.Employee) (int64, error) {
	return 1, nil
}

func (m *employeeStoreMock) Delete(ctx context.Context, id string) (int64, error) {
	for key, stored := range m.employees {
		if stored.ID == id {
			delete(m.employees, key)
			return 1, nil
		}
	}
	return 0, nil
}

type billCounterMock struct {
	count int
}

func (m *billCounterMock) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	return m.count, nil
}

func newEmployeeHandler(store *employeeStoreMock, billCount int) *EmployeeHandler {
	employees := service.NewEmployeeService(store, &billCounterMock{count: billCount}, nil)
	engine := workflow.NewEngine(workflow.NewRegistry())
	bills := service.NewBillService(newBillStoreMock(), employeeDirectoryMock{}, engine, nil)
	return NewEmployeeHandler(employees, bills)
}

func employeePayload() dto.CreateEmployeeRequest {
	return dto.CreateEmployeeRequest{
		EmployeeID:  "EMP-7",
		Name:        "R. Sharma",
		SubDivision: models.SubDivisionWS2,
	}
}

func TestEmployeeHandlerCreate(t *testing.T) {
	handler := newEmployeeHandler(newEmployeeStoreMock(), 0)

	w, c := postJSON(t, employeePayload(), "/employees")
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Employee `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "EMP-7", envelope.Data.EmployeeID)
	require.Len(t, envelope.Data.Dependents, 1)
	require.Equal(t, "Self", envelope.Data.Dependents[0].Relation)
}

func TestEmployeeHandlerCreateRejectsUnknownSubDivision(t *testing.T) {
	handler := newEmployeeHandler(newEmployeeStoreMock(), 0)

	payload := employeePayload()
	payload.SubDivision = "Head Office"
	w, c := postJSON(t, payload, "/employees")
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandlerDeleteBlockedByBills(t *testing.T) {
	store := newEmployeeStoreMock()
	handler := newEmployeeHandler(store, 0)

	w, c := postJSON(t, employeePayload(), "/employees")
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	blocked := newEmployeeHandler(store, 2)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/employees/EMP-7", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "EMP-7"}}

	blocked.Delete(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestEmployeeHandlerSubDivisions(t *testing.T) {
	handler := newEmployeeHandler(newEmployeeStoreMock(), 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/subdivisions", nil)
	c.Request = req

	handler.SubDivisions(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, models.SubDivisions, envelope.Data)
}
