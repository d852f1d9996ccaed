package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	"github.com/harshbansal7/bills-lifecycle-system/internal/service"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/response"
)

// EmployeeHandler exposes employee endpoints.
type EmployeeHandler struct {
	employees *service.EmployeeService
	bills     *service.BillService
}

// NewEmployeeHandler constructs EmployeeHandler.
func NewEmployeeHandler(employees *service.EmployeeService, bills *service.BillService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, bills: bills}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Get godoc
// @Summary Get employee detail
// @Tags Employees
// @Produce json
// @Param id path string true "Employee number"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create godoc
// @Summary Register an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body dto.CreateEmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update godoc
// @Summary Update an employee record
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee number"
// @Param payload body dto.UpdateEmployeeRequest true "Employee payload"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Delete godoc
// @Summary Delete an employee without bills on file
// @Tags Employees
// @Param id path string true "Employee number"
// @Success 204
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Bills godoc
// @Summary List the bills referencing an employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee number"
// @Success 200 {object} response.Envelope
// @Router /employees/{id}/bills [get]
func (h *EmployeeHandler) Bills(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	bills, err := h.bills.ListByEmployee(c.Request.Context(), employee.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bills, nil)
}

// SubDivisions godoc
// @Summary List the valid sub-division names
// @Tags Employees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees/subdivisions [get]
func (h *EmployeeHandler) SubDivisions(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.SubDivisions, nil)
}
