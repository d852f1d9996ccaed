package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

// FlexString accepts either a JSON string or number and keeps the raw text.
// Forms post approved amounts as numbers, scripts as strings; the workflow
// engine is the authority on parsing either way.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("value must be a string or number")
}

// CreateBillRequest is the payload for registering a new bill. The reference
// number feeds the initial history entry.
type CreateBillRequest struct {
	BillNumber          string  `json:"bill_number" binding:"required"`
	ReceiptDate         string  `json:"receipt_date" binding:"required"`
	EmployeeID          string  `json:"employee_id" binding:"required"`
	EmployeeName        string  `json:"employee_name" binding:"required"`
	DependentName       string  `json:"dependent_name" binding:"required"`
	Relationship        string  `json:"relationship" binding:"required"`
	TreatmentPeriodFrom string  `json:"treatment_period_from" binding:"required"`
	TreatmentPeriodTo   string  `json:"treatment_period_to" binding:"required"`
	AmountClaimed       float64 `json:"amount_claimed" binding:"required,gt=0"`
	Hospital            string  `json:"hospital" binding:"required"`
	ReferenceNumber     string  `json:"reference_number" binding:"required"`
}

// UpdateBillRequest is a full-record update excluding status history and the
// fields derived from it.
type UpdateBillRequest struct {
	BillNumber          string  `json:"bill_number" binding:"required"`
	ReceiptDate         string  `json:"receipt_date" binding:"required"`
	EmployeeID          string  `json:"employee_id" binding:"required"`
	EmployeeName        string  `json:"employee_name" binding:"required"`
	DependentName       string  `json:"dependent_name" binding:"required"`
	Relationship        string  `json:"relationship" binding:"required"`
	TreatmentPeriodFrom string  `json:"treatment_period_from" binding:"required"`
	TreatmentPeriodTo   string  `json:"treatment_period_to" binding:"required"`
	AmountClaimed       float64 `json:"amount_claimed" binding:"required,gt=0"`
	Hospital            string  `json:"hospital" binding:"required"`
}

// UpdateBillStatusRequest requests a workflow transition.
type UpdateBillStatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	Date            string     `json:"date"`
	Remarks         string     `json:"remarks"`
	ReferenceNumber FlexString `json:"reference_number"`
	ApprovedAmount  FlexString `json:"approved_amount"`
	Version         *int       `json:"version"`
}

// SuppliedFields flattens the status-specific inputs for the engine.
func (r UpdateBillStatusRequest) SuppliedFields() map[string]string {
	return map[string]string{
		"reference_number": string(r.ReferenceNumber),
		"approved_amount":  string(r.ApprovedAmount),
	}
}

// ReferenceSearchPayload narrows the filter to bills with a matching history
// entry.
type ReferenceSearchPayload struct {
	Status string `json:"status"`
	Number string `json:"number"`
}

// FilterBillsRequest carries AND-combined filter criteria. All fields are
// optional.
type FilterBillsRequest struct {
	BillNumber      string                  `json:"bill_number"`
	EmployeeID      string                  `json:"employee_id"`
	EmployeeName    string                  `json:"employee_name"`
	Status          string                  `json:"status"`
	DateFrom        string                  `json:"date_from"`
	DateTo          string                  `json:"date_to"`
	AmountFrom      *float64                `json:"amount_from"`
	AmountTo        *float64                `json:"amount_to"`
	ReferenceSearch *ReferenceSearchPayload `json:"reference_search"`
	Hospital        string                  `json:"hospital"`
}

// ToFilter converts the payload into the repository filter.
func (r FilterBillsRequest) ToFilter() (models.BillFilter, error) {
	filter := models.BillFilter{
		BillNumber:   strings.TrimSpace(r.BillNumber),
		EmployeeID:   strings.TrimSpace(r.EmployeeID),
		EmployeeName: strings.TrimSpace(r.EmployeeName),
		Status:       strings.TrimSpace(r.Status),
		AmountFrom:   r.AmountFrom,
		AmountTo:     r.AmountTo,
		Hospital:     strings.TrimSpace(r.Hospital),
	}

	if r.DateFrom != "" {
		from, err := ParseDate(r.DateFrom)
		if err != nil {
			return filter, fmt.Errorf("date_from: %w", err)
		}
		filter.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := ParseDate(r.DateTo)
		if err != nil {
			return filter, fmt.Errorf("date_to: %w", err)
		}
		filter.DateTo = &to
	}
	if r.ReferenceSearch != nil && strings.TrimSpace(r.ReferenceSearch.Number) != "" {
		filter.ReferenceSearch = &models.ReferenceSearch{
			Status: strings.TrimSpace(r.ReferenceSearch.Status),
			Number: strings.TrimSpace(r.ReferenceSearch.Number),
		}
	}

	return filter, nil
}

// ExportJobRequest queues an async register export.
type ExportJobRequest struct {
	Format string             `json:"format" binding:"required,oneof=csv pdf"`
	Filter FilterBillsRequest `json:"filter"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate accepts the date forms clients send (date inputs and full ISO
// timestamps).
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
