package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EmploymentStatus captures whether an employee is still in service.
type EmploymentStatus string

const (
	EmploymentWorking EmploymentStatus = "WORKING"
	EmploymentRetired EmploymentStatus = "RETIRED"
)

// LifeStatus records whether the employee is alive.
type LifeStatus string

const (
	LifeAlive    LifeStatus = "ALIVE"
	LifeDeceased LifeStatus = "DECEASED"
)

// SubDivision enumerates the office sub-divisions bills originate from.
const (
	SubDivisionSewerage1 = "Sewerage Sub Division No. 1"
	SubDivisionWS2       = "W/S Sub Division No. 2"
	SubDivisionWS6       = "W/S Sub Division No. 6"
	SubDivisionPH3       = "PH Division No. 3"
	SubDivisionMCPH      = "MC PH Division"
	SubDivisionOther     = "Other"
)

// SubDivisions lists the valid sub-division names in display order.
var SubDivisions = []string{
	SubDivisionSewerage1,
	SubDivisionWS2,
	SubDivisionWS6,
	SubDivisionPH3,
	SubDivisionMCPH,
	SubDivisionOther,
}

// MaxDependents caps the dependents recorded per employee, the employee's
// own "Self" entry included.
const MaxDependents = 4

// Dependent is a family member eligible for reimbursement under an employee.
type Dependent struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Dependents is stored as a JSONB column.
type Dependents []Dependent

// Value implements driver.Valuer.
func (d Dependents) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *Dependents) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported dependents source type %T", src)
	}
}

// Employee is a record of a serving or retired employee whose medical bills
// are tracked. Bills reference it by EmployeeID without an ownership relation.
type Employee struct {
	ID             string           `db:"id" json:"id"`
	EmployeeID     string           `db:"employee_id" json:"employee_id"`
	Name           string           `db:"name" json:"name"`
	FatherName     *string          `db:"father_name" json:"father_name,omitempty"`
	Designation    *string          `db:"designation" json:"designation,omitempty"`
	Status         EmploymentStatus `db:"status" json:"status"`
	SubDivision    string           `db:"sub_division" json:"sub_division"`
	Phone          *string          `db:"phone" json:"phone,omitempty"`
	BankAccount    *string          `db:"bank_account" json:"bank_account,omitempty"`
	BankName       *string          `db:"bank_name" json:"bank_name,omitempty"`
	BankBranch     *string          `db:"bank_branch" json:"bank_branch,omitempty"`
	LifeStatus     LifeStatus       `db:"life_status" json:"life_status"`
	RetirementDate *time.Time       `db:"retirement_date" json:"retirement_date,omitempty"`
	DeathDate      *time.Time       `db:"death_date" json:"death_date,omitempty"`
	Dependents     Dependents       `db:"dependents" json:"dependents"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// ValidSubDivision reports whether the given name is a known sub-division.
func ValidSubDivision(name string) bool {
	for _, sd := range SubDivisions {
		if sd == name {
			return true
		}
	}
	return false
}
