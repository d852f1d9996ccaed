package dto

// DependentPayload describes one family member on an employee record.
type DependentPayload struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation" binding:"required"`
}

// CreateEmployeeRequest is the payload for registering an employee. The
// employee is seeded as their own "Self" dependent; the payload may add up
// to three more.
type CreateEmployeeRequest struct {
	EmployeeID     string             `json:"employee_id" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	FatherName     string             `json:"father_name"`
	Designation    string             `json:"designation"`
	Status         string             `json:"status" binding:"omitempty,oneof=WORKING RETIRED"`
	SubDivision    string             `json:"sub_division" binding:"required,subdivision"`
	Phone          string             `json:"phone"`
	BankAccount    string             `json:"bank_account"`
	BankName       string             `json:"bank_name"`
	BankBranch     string             `json:"bank_branch"`
	LifeStatus     string             `json:"life_status" binding:"omitempty,oneof=ALIVE DECEASED"`
	RetirementDate string             `json:"retirement_date"`
	DeathDate      string             `json:"death_date"`
	Dependents     []DependentPayload `json:"dependents" binding:"omitempty,dive"`
}

// UpdateEmployeeRequest mirrors the create payload for full-record edits.
// The dependents list replaces the stored one wholesale.
type UpdateEmployeeRequest struct {
	Name           string             `json:"name" binding:"required"`
	FatherName     string             `json:"father_name"`
	Designation    string             `json:"designation"`
	Status         string             `json:"status" binding:"omitempty,oneof=WORKING RETIRED"`
	SubDivision    string             `json:"sub_division" binding:"required,subdivision"`
	Phone          string             `json:"phone"`
	BankAccount    string             `json:"bank_account"`
	BankName       string             `json:"bank_name"`
	BankBranch     string             `json:"bank_branch"`
	LifeStatus     string             `json:"life_status" binding:"omitempty,oneof=ALIVE DECEASED"`
	RetirementDate string             `json:"retirement_date"`
	DeathDate      string             `json:"death_date"`
	Dependents     []DependentPayload `json:"dependents" binding:"omitempty,dive"`
}
