package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/service"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/response"
)

// ExportHandler serves the bill register downloads, synchronous and
// queued.
type ExportHandler struct {
	exports *service.ExportService
	jobs    *service.ExportJobService
}

// NewExportHandler constructs ExportHandler. jobs may be nil when the
// async pipeline is disabled.
func NewExportHandler(exports *service.ExportService, jobs *service.ExportJobService) *ExportHandler {
	return &ExportHandler{exports: exports, jobs: jobs}
}

// Register godoc
// @Summary Download the bill register
// @Tags Bills
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /bills/export [get]
func (h *ExportHandler) Register(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	// Filter criteria come in as query parameters so the link stays
	// bookmarkable from the register view.
	req := dto.FilterBillsRequest{
		BillNumber:   c.Query("bill_number"),
		EmployeeID:   c.Query("employee_id"),
		EmployeeName: c.Query("employee_name"),
		Status:       c.Query("status"),
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
		Hospital:     c.Query("hospital"),
	}

	result, err := h.exports.Register(c.Request.Context(), format, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// EnqueueJob godoc
// @Summary Queue an async register export
// @Tags Bills
// @Accept json
// @Produce json
// @Param payload body dto.ExportJobRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /bills/export/jobs [post]
func (h *ExportHandler) EnqueueJob(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.New("EXPORTS_DISABLED", http.StatusServiceUnavailable, "async exports are disabled"))
		return
	}
	var req dto.ExportJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.jobs.Enqueue(service.ExportFormat(req.Format), req.Filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// JobStatus godoc
// @Summary Get async export job status
// @Tags Bills
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /bills/export/jobs/{id} [get]
func (h *ExportHandler) JobStatus(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.New("EXPORTS_DISABLED", http.StatusServiceUnavailable, "async exports are disabled"))
		return
	}
	job, err := h.jobs.Status(c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed async export by signed token
// @Tags Bills
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /bills/export/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.New("EXPORTS_DISABLED", http.StatusServiceUnavailable, "async exports are disabled"))
		return
	}
	result, err := h.jobs.Download(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
