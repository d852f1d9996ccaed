package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func billRows(bill *models.Bill) *sqlmock.Rows {
	history, _ := bill.StatusHistory.Value()
	return sqlmock.NewRows([]string{
		"id", "bill_number", "receipt_date", "employee_id", "employee_name", "dependent_name", "relationship",
		"treatment_period_from", "treatment_period_to", "amount_claimed", "hospital", "sub_division",
		"current_status", "status_history", "latest_reference_number", "latest_approved_amount",
		"version", "created_at", "updated_at",
	}).AddRow(
		bill.ID, bill.BillNumber, bill.ReceiptDate, bill.EmployeeID, bill.EmployeeName, bill.DependentName, bill.Relationship,
		bill.TreatmentPeriodFrom, bill.TreatmentPeriodTo, bill.AmountClaimed, bill.Hospital, bill.SubDivision,
		bill.CurrentStatus, history, bill.LatestReferenceNumber, bill.LatestApprovedAmount,
		bill.Version, bill.CreatedAt, bill.UpdatedAt,
	)
}

func sampleBill() *models.Bill {
	ref := "SD-100"
	now := time.Now().UTC()
	return &models.Bill{
		ID:            "bill-1",
		BillNumber:    "MB/2024/001",
		ReceiptDate:   now,
		EmployeeID:    "EMP-7",
		EmployeeName:  "R. Sharma",
		DependentName: "R. Sharma",
		Relationship:  "Self",
		TreatmentPeriodFrom: now.AddDate(0, -1, 0),
		TreatmentPeriodTo:   now,
		AmountClaimed:       15000,
		Hospital:            "Government Hospital",
		SubDivision:         models.SubDivisionWS2,
		CurrentStatus:       "Received From Subdivision",
		StatusHistory: models.StatusHistory{
			{Status: "Received From Subdivision", Date: now, ReferenceNumber: &ref},
		},
		LatestReferenceNumber: &ref,
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func TestBillRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bills")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	bill := sampleBill()
	bill.ID = ""
	require.NoError(t, repo.Create(context.Background(), bill))
	require.NotEmpty(t, bill.ID)
	require.Equal(t, 1, bill.Version)

	stored := sampleBill()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, bill_number, receipt_date")).
		WithArgs(stored.ID).
		WillReturnRows(billRows(stored))

	found, err := repo.GetByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored.ID, found.ID)
	require.Len(t, found.StatusHistory, 1)
	require.Equal(t, "SD-100", *found.StatusHistory[0].ReferenceNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryExistsBillNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM bills WHERE bill_number")).
		WithArgs("MB/2024/001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBillNumber(context.Background(), "MB/2024/001")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryAppendStatusVersionGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)
	bill := sampleBill()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bills SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	affected, err := repo.AppendStatus(context.Background(), bill, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
	require.Equal(t, 2, bill.Version)

	// stale version touches no rows
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bills SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	affected, err = repo.AppendStatus(context.Background(), bill, 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryFilterConditions(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)
	stored := sampleBill()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, bill_number, receipt_date")).
		WithArgs("MB", "Office Order", "OO-5", "Office Order").
		WillReturnRows(billRows(stored))

	bills, err := repo.Filter(context.Background(), models.BillFilter{
		BillNumber: "MB",
		Status:     "Office Order",
		ReferenceSearch: &models.ReferenceSearch{
			Status: "Office Order",
			Number: "OO-5",
		},
	})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryFilterReferenceSearchAnyStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, bill_number, receipt_date")).
		WithArgs("OO-5").
		WillReturnRows(billRows(sampleBill()))

	bills, err := repo.Filter(context.Background(), models.BillFilter{
		ReferenceSearch: &models.ReferenceSearch{Number: "OO-5"},
	})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBillRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bills WHERE id")).
		WithArgs("bill-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), "bill-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
