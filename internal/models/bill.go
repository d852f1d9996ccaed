package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StatusUpdate is one immutable entry in a bill's status history. Only the
// fields declared by the workflow registry for the given status are stored.
type StatusUpdate struct {
	Status          string    `json:"status"`
	Date            time.Time `json:"date"`
	Remarks         string    `json:"remarks,omitempty"`
	ReferenceNumber *string   `json:"reference_number,omitempty"`
	ApprovedAmount  *float64  `json:"approved_amount,omitempty"`
}

// StatusHistory is the append-only sequence of status updates. Insertion
// order is chronological order; entries are never reordered or deleted.
type StatusHistory []StatusUpdate

// Value implements driver.Valuer for the JSONB column.
func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner.
func (h *StatusHistory) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = nil
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("unsupported status history source type %T", src)
	}
}

// Bill is a medical reimbursement claim. CurrentStatus,
// LatestReferenceNumber and LatestApprovedAmount are projections over
// StatusHistory; they are stored for querying but never set independently.
type Bill struct {
	ID                    string        `db:"id" json:"id"`
	BillNumber            string        `db:"bill_number" json:"bill_number"`
	ReceiptDate           time.Time     `db:"receipt_date" json:"receipt_date"`
	EmployeeID            string        `db:"employee_id" json:"employee_id"`
	EmployeeName          string        `db:"employee_name" json:"employee_name"`
	DependentName         string        `db:"dependent_name" json:"dependent_name"`
	Relationship          string        `db:"relationship" json:"relationship"`
	TreatmentPeriodFrom   time.Time     `db:"treatment_period_from" json:"treatment_period_from"`
	TreatmentPeriodTo     time.Time     `db:"treatment_period_to" json:"treatment_period_to"`
	AmountClaimed         float64       `db:"amount_claimed" json:"amount_claimed"`
	Hospital              string        `db:"hospital" json:"hospital"`
	SubDivision           string        `db:"sub_division" json:"sub_division"`
	CurrentStatus         string        `db:"current_status" json:"current_status"`
	StatusHistory         StatusHistory `db:"status_history" json:"status_history"`
	LatestReferenceNumber *string       `db:"latest_reference_number" json:"latest_reference_number,omitempty"`
	LatestApprovedAmount  *float64      `db:"latest_approved_amount" json:"latest_approved_amount,omitempty"`
	Version               int           `db:"version" json:"version"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at" json:"updated_at"`
}

// ReferenceSearch matches bills whose history contains an entry with the
// given status carrying a reference number containing the given substring.
// An empty status matches any entry.
type ReferenceSearch struct {
	Status string `json:"status,omitempty"`
	Number string `json:"number,omitempty"`
}

// BillFilter constrains filter queries. All set fields are AND-combined.
type BillFilter struct {
	BillNumber      string           `json:"bill_number,omitempty"`
	EmployeeID      string           `json:"employee_id,omitempty"`
	EmployeeName    string           `json:"employee_name,omitempty"`
	Status          string           `json:"status,omitempty"`
	DateFrom        *time.Time       `json:"date_from,omitempty"`
	DateTo          *time.Time       `json:"date_to,omitempty"`
	AmountFrom      *float64         `json:"amount_from,omitempty"`
	AmountTo        *float64         `json:"amount_to,omitempty"`
	ReferenceSearch *ReferenceSearch `json:"reference_search,omitempty"`
	Hospital        string           `json:"hospital,omitempty"`
}

// Hospitals lists the recognised hospital categories.
var Hospitals = []string{
	"Government Hospital",
	"Private Hospital",
	"Other",
}
