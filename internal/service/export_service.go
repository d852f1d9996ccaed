package service

import (
	"context"
	"fmt"
	"time"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	"github.com/harshbansal7/bills-lifecycle-system/internal/workflow"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/export"
)

// ExportFormat selects the register output encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

var registerHeaders = []string{
	"Bill Number", "Employee ID", "Employee Name", "Dependent", "Receipt Date",
	"Amount Claimed", "Current Status", "Latest Reference", "Latest Approved Amount",
}

type billFilterer interface {
	Filter(ctx context.Context, filter models.BillFilter) ([]models.Bill, error)
}

// ExportService renders the bill register as CSV or PDF.
type ExportService struct {
	repo    billFilterer
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
}

// NewExportService constructs the service. maxRows <= 0 means unlimited.
func NewExportService(repo billFilterer, maxRows int) *ExportService {
	return &ExportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
	}
}

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Register renders the bills matching the filter into the requested format.
func (s *ExportService) Register(ctx context.Context, format ExportFormat, req dto.FilterBillsRequest) (*ExportResult, error) {
	filter, err := req.ToFilter()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	bills, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bills for export")
	}
	if s.maxRows > 0 && len(bills) > s.maxRows {
		bills = bills[:s.maxRows]
	}

	table := export.Table{Headers: registerHeaders, Rows: make([][]string, 0, len(bills))}
	for _, bill := range bills {
		table.Rows = append(table.Rows, registerRow(bill))
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case ExportCSV:
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("bill-register-%s.csv", stamp),
		}, nil
	case ExportPDF:
		content, err := s.pdf.Render(table, "Medical Bill Register")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("bill-register-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func registerRow(bill models.Bill) []string {
	latestRef := ""
	if bill.LatestReferenceNumber != nil {
		latestRef = *bill.LatestReferenceNumber
	}
	latestAmount := ""
	if bill.LatestApprovedAmount != nil {
		latestAmount = workflow.FormatCurrency(*bill.LatestApprovedAmount)
	}
	label, _ := workflow.SplitLabel(bill.CurrentStatus)
	return []string{
		bill.BillNumber,
		bill.EmployeeID,
		bill.EmployeeName,
		bill.DependentName,
		workflow.FormatDate(bill.ReceiptDate),
		workflow.FormatCurrency(bill.AmountClaimed),
		label,
		latestRef,
		latestAmount,
	}
}
