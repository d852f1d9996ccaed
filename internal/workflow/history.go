package workflow

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

// labelSeparator splits a status label into a primary name and a free-text
// detail line. Inherited display convention; the primary part is what the
// registry knows about.
const labelSeparator = " - "

const dateLayout = "02/01/2006"

// FieldValue pairs a field's display label with its formatted value.
type FieldValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HistoryEntry is one row of the rendered status history.
type HistoryEntry struct {
	Label   string       `json:"label"`
	Detail  string       `json:"detail,omitempty"`
	Date    string       `json:"date"`
	Fields  []FieldValue `json:"fields,omitempty"`
	Remarks string       `json:"remarks,omitempty"`
}

// RenderHistory projects a bill's status history into display entries, most
// recent first. It never mutates the bill.
func (e *Engine) RenderHistory(bill *models.Bill) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(bill.StatusHistory))

	for i := len(bill.StatusHistory) - 1; i >= 0; i-- {
		update := bill.StatusHistory[i]

		label, detail := SplitLabel(update.Status)
		entry := HistoryEntry{
			Label:   label,
			Detail:  detail,
			Date:    update.Date.Format(dateLayout),
			Remarks: update.Remarks,
		}

		if fields, err := e.registry.FieldsFor(label); err == nil {
			for _, field := range fields {
				value, ok := fieldValue(update, field)
				if !ok {
					continue
				}
				entry.Fields = append(entry.Fields, FieldValue{Label: field.Label, Value: value})
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// SplitLabel separates a status label into its primary name and optional
// detail suffix.
func SplitLabel(status string) (label, detail string) {
	if idx := strings.Index(status, labelSeparator); idx >= 0 {
		return status[:idx], status[idx+len(labelSeparator):]
	}
	return status, ""
}

func fieldValue(update models.StatusUpdate, field Field) (string, bool) {
	switch field.Name {
	case FieldReferenceNumber:
		if update.ReferenceNumber == nil {
			return "", false
		}
		return *update.ReferenceNumber, true
	case FieldApprovedAmount:
		if update.ApprovedAmount == nil {
			return "", false
		}
		return FormatCurrency(*update.ApprovedAmount), true
	default:
		return "", false
	}
}

// FormatCurrency renders an amount as rupees with two decimal places and
// Indian digit grouping, e.g. 123456 -> "₹1,23,456.00".
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}

	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + "₹" + groupIndian(whole) + "." + frac
}

// groupIndian inserts separators in the Indian numbering style: the last
// three digits form one group, everything before that groups in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",")
}

// FormatDate renders a timestamp in the dd/mm/yyyy form used across the UI.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
