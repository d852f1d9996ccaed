package workflow

import (
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

// FieldType describes how a status field is entered and rendered.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldCurrency FieldType = "currency"
	FieldDate     FieldType = "date"
)

// Canonical status field names.
const (
	FieldReferenceNumber = "reference_number"
	FieldApprovedAmount  = "approved_amount"
)

// Workflow status names, in default selection order.
const (
	StatusReceivedFromSubdivision = "Received From Subdivision"
	StatusSentToMS                = "Sent to Medical Superintendent"
	StatusReceivedFromMS          = "Received back from Medical Superintendent"
	StatusSentToCO                = "Sent to Circle Office"
	StatusReceivedFromCO          = "Received back from Circle Office"
	StatusOfficeOrder             = "Office Order"
	StatusPassingOfVoucher        = "Passing of Voucher"
	StatusSentBackToSubdivision   = "Sent Back to Subdivision"
	StatusRejected                = "Rejected"
)

// Field describes one status-specific input.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Type     FieldType `json:"type"`
}

type statusSpec struct {
	fields  []Field
	initial bool
}

// Registry is the immutable table of workflow statuses and the extra fields
// each one requires. It is built once at startup and shared by reference;
// there is no mutation API.
type Registry struct {
	order []string
	specs map[string]statusSpec
}

// NewRegistry builds the fixed status table.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]statusSpec)}

	r.add(StatusReceivedFromSubdivision, statusSpec{
		initial: true,
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Reference Number", Required: true, Type: FieldText},
		},
	})
	r.add(StatusSentToMS, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Letter No.", Required: true, Type: FieldText},
			{Name: FieldApprovedAmount, Label: "Recommended Amount", Required: true, Type: FieldCurrency},
		},
	})
	r.add(StatusReceivedFromMS, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Letter No.", Required: true, Type: FieldText},
			{Name: FieldApprovedAmount, Label: "Approved Amount", Required: true, Type: FieldCurrency},
		},
	})
	r.add(StatusSentToCO, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Letter No.", Required: true, Type: FieldText},
		},
	})
	r.add(StatusReceivedFromCO, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Letter No.", Required: true, Type: FieldText},
		},
	})
	r.add(StatusOfficeOrder, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Office Order Number", Required: true, Type: FieldText},
			{Name: FieldApprovedAmount, Label: "Sanctioned Amount", Required: true, Type: FieldCurrency},
		},
	})
	r.add(StatusPassingOfVoucher, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Voucher Number", Required: true, Type: FieldText},
		},
	})
	r.add(StatusSentBackToSubdivision, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Letter No.", Required: false, Type: FieldText},
		},
	})
	r.add(StatusRejected, statusSpec{
		fields: []Field{
			{Name: FieldReferenceNumber, Label: "Reference Number", Required: false, Type: FieldText},
		},
	})

	return r
}

func (r *Registry) add(name string, spec statusSpec) {
	r.order = append(r.order, name)
	r.specs[name] = spec
}

// FieldsFor returns the ordered field descriptors for a status.
func (r *Registry) FieldsFor(status string) ([]Field, error) {
	spec, ok := r.specs[status]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownStatus, "unknown bill status: "+status)
	}
	fields := make([]Field, len(spec.fields))
	copy(fields, spec.fields)
	return fields, nil
}

// IsInitial reports whether the status is the workflow's entry state, which
// is only reachable at bill creation.
func (r *Registry) IsInitial(status string) bool {
	spec, ok := r.specs[status]
	return ok && spec.initial
}

// InitialStatus returns the name of the workflow's entry state.
func (r *Registry) InitialStatus() string {
	for _, name := range r.order {
		if r.specs[name].initial {
			return name
		}
	}
	return ""
}

// Statuses returns all status names in declaration order.
func (r *Registry) Statuses() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Known reports whether the status exists in the table.
func (r *Registry) Known(status string) bool {
	_, ok := r.specs[status]
	return ok
}
