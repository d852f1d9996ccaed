package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

const billColumns = `id, bill_number, receipt_date, employee_id, employee_name, dependent_name, relationship,
       treatment_period_from, treatment_period_to, amount_claimed, hospital, sub_division,
       current_status, status_history, latest_reference_number, latest_approved_amount,
       version, created_at, updated_at`

// BillRepository persists bills and their status histories.
type BillRepository struct {
	db *sqlx.DB
}

// NewBillRepository constructs the repository.
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create inserts a new bill row.
func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now
	if bill.Version == 0 {
		bill.Version = 1
	}
	const query = `INSERT INTO bills
	(id, bill_number, receipt_date, employee_id, employee_name, dependent_name, relationship,
	 treatment_period_from, treatment_period_to, amount_claimed, hospital, sub_division,
	 current_status, status_history, latest_reference_number, latest_approved_amount,
	 version, created_at, updated_at)
	VALUES (:id, :bill_number, :receipt_date, :employee_id, :employee_name, :dependent_name, :relationship,
	 :treatment_period_from, :treatment_period_to, :amount_claimed, :hospital, :sub_division,
	 :current_status, :status_history, :latest_reference_number, :latest_approved_amount,
	 :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bill); err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

// GetByID fetches one bill. Returns sql.ErrNoRows when absent.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`
	var bill models.Bill
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		return nil, err
	}
	return &bill, nil
}

// ExistsBillNumber reports whether a bill with the given number is already
// registered.
func (r *BillRepository) ExistsBillNumber(ctx context.Context, billNumber string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM bills WHERE bill_number = $1`, billNumber); err != nil {
		return false, fmt.Errorf("count bill number: %w", err)
	}
	return count > 0, nil
}

// List returns all bills, newest first.
func (r *BillRepository) List(ctx context.Context) ([]models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY created_at DESC`
	var bills []models.Bill
	if err := r.db.SelectContext(ctx, &bills, query); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// ListByEmployee returns every bill referencing the employee, newest first.
func (r *BillRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE employee_id = $1 ORDER BY created_at DESC`
	var bills []models.Bill
	if err := r.db.SelectContext(ctx, &bills, query, employeeID); err != nil {
		return nil, fmt.Errorf("list bills by employee: %w", err)
	}
	return bills, nil
}

// ListByStatus returns bills currently in the given workflow state. The
// initial state embeds the sub-division after " - ", so matching also
// accepts that suffixed form.
func (r *BillRepository) ListByStatus(ctx context.Context, status string) ([]models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills
	WHERE current_status = $1 OR current_status LIKE $1 || ' - %'
	ORDER BY updated_at DESC`
	var bills []models.Bill
	if err := r.db.SelectContext(ctx, &bills, query, status); err != nil {
		return nil, fmt.Errorf("list bills by status: %w", err)
	}
	return bills, nil
}

// CountByEmployee returns the number of bills referencing the employee.
func (r *BillRepository) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM bills WHERE employee_id = $1`, employeeID); err != nil {
		return 0, fmt.Errorf("count bills by employee: %w", err)
	}
	return count, nil
}

// Update rewrites the mutable record fields, leaving the status history and
// its projections untouched. Returns the number of affected rows.
func (r *BillRepository) Update(ctx context.Context, bill *models.Bill) (int64, error) {
	bill.UpdatedAt = time.Now().UTC()
	const query = `UPDATE bills SET
	bill_number = :bill_number,
	receipt_date = :receipt_date,
	employee_id = :employee_id,
	employee_name = :employee_name,
	dependent_name = :dependent_name,
	relationship = :relationship,
	treatment_period_from = :treatment_period_from,
	treatment_period_to = :treatment_period_to,
	amount_claimed = :amount_claimed,
	hospital = :hospital,
	updated_at = :updated_at
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, bill)
	if err != nil {
		return 0, fmt.Errorf("update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update bill rows: %w", err)
	}
	return affected, nil
}

// AppendStatus stores the grown history and recomputed projections. The
// version predicate rejects writes racing against another update; zero
// affected rows means the bill is gone or the caller held a stale version.
func (r *BillRepository) AppendStatus(ctx context.Context, bill *models.Bill, expectedVersion int) (int64, error) {
	bill.UpdatedAt = time.Now().UTC()
	const query = `UPDATE bills SET
	current_status = $1,
	status_history = $2,
	latest_reference_number = $3,
	latest_approved_amount = $4,
	version = version + 1,
	updated_at = $5
	WHERE id = $6 AND version = $7`
	res, err := r.db.ExecContext(ctx, query,
		bill.CurrentStatus,
		bill.StatusHistory,
		bill.LatestReferenceNumber,
		bill.LatestApprovedAmount,
		bill.UpdatedAt,
		bill.ID,
		expectedVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("append bill status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("append bill status rows: %w", err)
	}
	if affected > 0 {
		bill.Version = expectedVersion + 1
	}
	return affected, nil
}

// Delete removes the bill. Returns the number of affected rows.
func (r *BillRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete bill rows: %w", err)
	}
	return affected, nil
}

// Filter returns bills matching every set criterion, most recently updated
// first.
func (r *BillRepository) Filter(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + billColumns + ` FROM bills`)

	args := make([]interface{}, 0, 8)
	conditions := make([]string, 0, 8)

	if filter.BillNumber != "" {
		args = append(args, filter.BillNumber)
		conditions = append(conditions, fmt.Sprintf("bill_number ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.EmployeeName != "" {
		args = append(args, filter.EmployeeName)
		conditions = append(conditions, fmt.Sprintf("employee_name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("(current_status = $%d OR current_status LIKE $%d || ' - %%')", len(args), len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("receipt_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("receipt_date <= $%d", len(args)))
	}
	if filter.AmountFrom != nil {
		args = append(args, *filter.AmountFrom)
		conditions = append(conditions, fmt.Sprintf("amount_claimed >= $%d", len(args)))
	}
	if filter.AmountTo != nil {
		args = append(args, *filter.AmountTo)
		conditions = append(conditions, fmt.Sprintf("amount_claimed <= $%d", len(args)))
	}
	if filter.Hospital != "" {
		args = append(args, filter.Hospital)
		conditions = append(conditions, fmt.Sprintf("hospital = $%d", len(args)))
	}
	if rs := filter.ReferenceSearch; rs != nil && rs.Number != "" {
		args = append(args, rs.Number)
		numberIdx := len(args)
		if rs.Status != "" {
			args = append(args, rs.Status)
			conditions = append(conditions, fmt.Sprintf(
				`EXISTS (SELECT 1 FROM jsonb_array_elements(status_history) entry
				 WHERE split_part(entry->>'status', ' - ', 1) = $%d
				   AND entry->>'reference_number' ILIKE '%%' || $%d || '%%')`, len(args), numberIdx))
		} else {
			conditions = append(conditions, fmt.Sprintf(
				`EXISTS (SELECT 1 FROM jsonb_array_elements(status_history) entry
				 WHERE entry->>'reference_number' ILIKE '%%' || $%d || '%%')`, numberIdx))
		}
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY updated_at DESC")

	var bills []models.Bill
	if err := r.db.SelectContext(ctx, &bills, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("filter bills: %w", err)
	}
	return bills, nil
}
