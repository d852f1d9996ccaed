package workflow

import (
	"strconv"
	"strings"
	"time"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

// Engine validates status transitions against the registry and maintains the
// projections derived from a bill's status history. All methods are pure
// functions over their arguments and safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine constructs an engine over the shared registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry exposes the underlying status table.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// ProposeTransition validates a requested status change and builds the
// history entry for it. The entry is not appended; persistence happens in a
// separate explicit step.
//
// Supplied fields not declared for the status are dropped. Required fields
// must be non-empty, and currency fields must parse as non-negative numbers.
func (e *Engine) ProposeTransition(status string, date time.Time, remarks string, supplied map[string]string) (*models.StatusUpdate, error) {
	fields, err := e.registry.FieldsFor(status)
	if err != nil {
		return nil, err
	}
	if e.registry.IsInitial(status) {
		return nil, appErrors.ErrInitialStatusReasserted
	}

	update := &models.StatusUpdate{
		Status:  status,
		Date:    date,
		Remarks: strings.TrimSpace(remarks),
	}

	for _, field := range fields {
		raw := strings.TrimSpace(supplied[field.Name])
		if raw == "" {
			if field.Required {
				return nil, appErrors.MissingRequiredField(field.Name)
			}
			continue
		}

		switch field.Type {
		case FieldCurrency:
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil || amount < 0 {
				return nil, appErrors.InvalidFieldValue(field.Name)
			}
			if field.Name == FieldApprovedAmount {
				update.ApprovedAmount = &amount
			}
		default:
			if field.Name == FieldReferenceNumber {
				value := raw
				update.ReferenceNumber = &value
			}
		}
	}

	return update, nil
}

// InitialEntry builds the history entry recorded at bill creation. The
// status label carries the originating sub-division after a " - " separator
// so the history view can show it as a secondary line.
func (e *Engine) InitialEntry(date time.Time, referenceNumber, subDivision string) (*models.StatusUpdate, error) {
	status := e.registry.InitialStatus()
	fields, err := e.registry.FieldsFor(status)
	if err != nil {
		return nil, err
	}

	update := &models.StatusUpdate{
		Status:  status,
		Date:    date,
		Remarks: "Bill received from subdivision",
	}
	if subDivision != "" {
		update.Status = status + labelSeparator + subDivision
	}

	referenceNumber = strings.TrimSpace(referenceNumber)
	for _, field := range fields {
		if field.Name == FieldReferenceNumber {
			if referenceNumber == "" && field.Required {
				return nil, appErrors.MissingRequiredField(field.Name)
			}
			if referenceNumber != "" {
				update.ReferenceNumber = &referenceNumber
			}
		}
	}

	return update, nil
}

// AppendAndProject appends the update to the bill's history and recomputes
// the derived summary fields. Appending is the only mutation; the projection
// itself is a pure function of the history and may be re-run at any time.
func (e *Engine) AppendAndProject(bill *models.Bill, update models.StatusUpdate) *models.Bill {
	bill.StatusHistory = append(bill.StatusHistory, update)
	e.Project(bill)
	return bill
}

// Project recomputes current_status, latest_reference_number and
// latest_approved_amount from the status history. Running it twice over the
// same history yields identical results.
func (e *Engine) Project(bill *models.Bill) {
	bill.LatestReferenceNumber = nil
	bill.LatestApprovedAmount = nil

	if len(bill.StatusHistory) == 0 {
		bill.CurrentStatus = ""
		return
	}

	bill.CurrentStatus = bill.StatusHistory[len(bill.StatusHistory)-1].Status

	for i := len(bill.StatusHistory) - 1; i >= 0; i-- {
		entry := bill.StatusHistory[i]
		if bill.LatestReferenceNumber == nil && entry.ReferenceNumber != nil {
			ref := *entry.ReferenceNumber
			bill.LatestReferenceNumber = &ref
		}
		if bill.LatestApprovedAmount == nil && entry.ApprovedAmount != nil {
			amount := *entry.ApprovedAmount
			bill.LatestApprovedAmount = &amount
		}
		if bill.LatestReferenceNumber != nil && bill.LatestApprovedAmount != nil {
			break
		}
	}
}
