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

// BillHandler exposes bill endpoints.
type BillHandler struct {
	bills *service.BillService
}

// NewBillHandler constructs BillHandler.
func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

// List godoc
// @Summary List bills
// @Tags Bills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.bills.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bills, nil)
}

// Get godoc
// @Summary Get bill detail
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	bill, err := h.bills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill, nil)
}

// Create godoc
// @Summary Register a new bill
// @Tags Bills
// @Accept json
// @Produce json
// @Param payload body dto.CreateBillRequest true "Bill payload"
// @Success 201 {object} response.Envelope
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bill, err := h.bills.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bill)
}

// Update godoc
// @Summary Update bill record fields
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param payload body dto.UpdateBillRequest true "Bill payload"
// @Success 200 {object} response.Envelope
// @Router /bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bill, err := h.bills.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill, nil)
}

// Delete godoc
// @Summary Delete a bill
// @Tags Bills
// @Param id path string true "Bill ID"
// @Success 204
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	if err := h.bills.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateStatus godoc
// @Summary Move a bill to its next workflow status
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param payload body dto.UpdateBillStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /bills/{id}/status [put]
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bill, err := h.bills.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill, nil)
}

// History godoc
// @Summary Render a bill's status history, most recent first
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Envelope
// @Router /bills/{id}/history [get]
func (h *BillHandler) History(c *gin.Context) {
	entries, err := h.bills.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ListByStatus godoc
// @Summary List bills currently in a workflow status
// @Tags Bills
// @Produce json
// @Param status path string true "Status label"
// @Success 200 {object} response.Envelope
// @Router /bills/status/{status} [get]
func (h *BillHandler) ListByStatus(c *gin.Context) {
	bills, err := h.bills.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bills, nil)
}

// Filter godoc
// @Summary Filter bills by AND-combined criteria
// @Tags Bills
// @Accept json
// @Produce json
// @Param payload body dto.FilterBillsRequest true "Filter payload"
// @Success 200 {object} response.Envelope
// @Router /bills/filter [post]
func (h *BillHandler) Filter(c *gin.Context) {
	var req dto.FilterBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bills, err := h.bills.Filter(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bills, nil)
}

// Statuses godoc
// @Summary List the workflow statuses in order
// @Tags Bills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bills/statuses [get]
func (h *BillHandler) Statuses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.bills.Engine().Registry().Statuses(), nil)
}

// Hospitals godoc
// @Summary List the recognised hospital categories
// @Tags Bills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bills/hospitals [get]
func (h *BillHandler) Hospitals(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.Hospitals, nil)
}
