package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	"github.com/harshbansal7/bills-lifecycle-system/internal/workflow"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

type billRepoStub struct {
	bills       map[string]*models.Bill
	billNumbers map[string]bool
	lastFilter  models.BillFilter
	filterCalls int
}

func newBillRepoStub() *billRepoStub {
	return &billRepoStub{bills: make(map[string]*models.Bill), billNumbers: make(map[string]bool)}
}

func (r *billRepoStub) Create(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = "bill-" + bill.BillNumber
	}
	if bill.Version == 0 {
		bill.Version = 1
	}
	clone := *bill
	r.bills[bill.ID] = &clone
	r.billNumbers[bill.BillNumber] = true
	return nil
}

func (r *billRepoStub) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	bill, ok := r.bills[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *bill
	clone.StatusHistory = append(models.StatusHistory(nil), bill.StatusHistory...)
	return &clone, nil
}

func (r *billRepoStub) ExistsBillNumber(ctx context.Context, billNumber string) (bool, error) {
	return r.billNumbers[billNumber], nil
}

func (r *billRepoStub) List(ctx context.Context) ([]models.Bill, error) {
	out := make([]models.Bill, 0, len(r.bills))
	for _, bill := range r.bills {
		out = append(out, *bill)
	}
	return out, nil
}

func (r *billRepoStub) ListByEmployee(ctx context.Context, employeeID string) ([]models.Bill, error) {
	out := make([]models.Bill, 0)
	for _, bill := range r.bills {
		if bill.EmployeeID == employeeID {
			out = append(out, *bill)
		}
	}
	return out, nil
}

func (r *billRepoStub) ListByStatus(ctx context.Context, status string) ([]models.Bill, error) {
	out := make([]models.Bill, 0)
	for _, bill := range r.bills {
		label, _ := workflow.SplitLabel(bill.CurrentStatus)
		if label == status {
			out = append(out, *bill)
		}
	}
	return out, nil
}

func (r *billRepoStub) Update(ctx context.Context, bill *models.Bill) (int64, error) {
	if _, ok := r.bills[bill.ID]; !ok {
		return 0, nil
	}
	clone := *bill
	r.bills[bill.ID] = &clone
	return 1, nil
}

func (r *billRepoStub) AppendStatus(ctx context.Context, bill *models.Bill, expectedVersion int) (int64, error) {
	stored, ok := r.bills[bill.ID]
	if !ok || stored.Version != expectedVersion {
		return 0, nil
	}
	clone := *bill
	clone.Version = expectedVersion + 1
	r.bills[bill.ID] = &clone
	bill.Version = clone.Version
	return 1, nil
}

func (r *billRepoStub) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := r.bills[id]; !ok {
		return 0, nil
	}
	delete(r.bills, id)
	return 1, nil
}

func (r *billRepoStub) Filter(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	r.lastFilter = filter
	r.filterCalls++
	out := make([]models.Bill, 0)
	for _, bill := range r.bills {
		out = append(out, *bill)
	}
	return out, nil
}

type employeeDirStub struct {
	employees map[string]*models.Employee
}

func (d *employeeDirStub) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	if employee, ok := d.employees[employeeID]; ok {
		clone := *employee
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

type cacheStub struct {
	store       map[string][]byte
	invalidated int
}

func newCacheStub() *cacheStub {
	return &cacheStub{store: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = raw
	return nil
}

func (c *cacheStub) InvalidatePrefix(ctx context.Context, prefix string) {
	c.invalidated++
	c.store = make(map[string][]byte)
}

func newTestBillService(repo *billRepoStub, opts ...BillServiceOption) *BillService {
	directory := &employeeDirStub{employees: map[string]*models.Employee{
		"EMP-7": {EmployeeID: "EMP-7", Name: "R. Sharma", SubDivision: models.SubDivisionWS2},
	}}
	engine := workflow.NewEngine(workflow.NewRegistry())
	return NewBillService(repo, directory, engine, nil, opts...)
}

func createBillRequest() dto.CreateBillRequest {
	return dto.CreateBillRequest{
		BillNumber:          "MB/2024/001",
		ReceiptDate:         "2024-01-05",
		EmployeeID:          "EMP-7",
		EmployeeName:        "R. Sharma",
		DependentName:       "R. Sharma",
		Relationship:        "Self",
		TreatmentPeriodFrom: "2023-12-01",
		TreatmentPeriodTo:   "2023-12-20",
		AmountClaimed:       15000,
		Hospital:            "Government Hospital",
		ReferenceNumber:     "SD-100",
	}
}

func TestBillServiceCreateSetsInitialStatus(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)
	require.Len(t, bill.StatusHistory, 1)
	require.Equal(t, models.SubDivisionWS2, bill.SubDivision)

	label, detail := workflow.SplitLabel(bill.CurrentStatus)
	require.Equal(t, workflow.StatusReceivedFromSubdivision, label)
	require.Equal(t, models.SubDivisionWS2, detail)
	require.Equal(t, "SD-100", *bill.LatestReferenceNumber)
	require.Nil(t, bill.LatestApprovedAmount)
}

func TestBillServiceCreateUnknownEmployee(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	req := createBillRequest()
	req.EmployeeID = "EMP-404"
	bill, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "Unknown", bill.SubDivision)
	require.Equal(t, workflow.StatusReceivedFromSubdivision, bill.CurrentStatus)
}

func TestBillServiceCreateDuplicateBillNumber(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	_, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createBillRequest())
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestBillServiceStatusLifecycle(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), bill.ID, dto.UpdateBillStatusRequest{
		Status:          workflow.StatusOfficeOrder,
		Date:            "2024-03-20",
		Remarks:         "sanctioned",
		ReferenceNumber: "OO-55",
		ApprovedAmount:  "12000",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusOfficeOrder, updated.CurrentStatus)
	require.Equal(t, "OO-55", *updated.LatestReferenceNumber)
	require.Equal(t, 12000.0, *updated.LatestApprovedAmount)
	require.Len(t, updated.StatusHistory, 2)
}

func TestBillServiceStatusValidationErrors(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), bill.ID, dto.UpdateBillStatusRequest{
		Status: workflow.StatusOfficeOrder,
	})
	require.Error(t, err)
	require.Equal(t, "MISSING_REQUIRED_FIELD", appErrors.FromError(err).Code)

	_, err = svc.UpdateStatus(context.Background(), bill.ID, dto.UpdateBillStatusRequest{
		Status:          workflow.StatusReceivedFromSubdivision,
		ReferenceNumber: "SD-2",
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrInitialStatusReasserted))

	_, err = svc.UpdateStatus(context.Background(), "missing", dto.UpdateBillStatusRequest{
		Status:          workflow.StatusSentToCO,
		ReferenceNumber: "L-1",
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestBillServiceStatusStaleVersion(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	stale := bill.Version - 1
	_, err = svc.UpdateStatus(context.Background(), bill.ID, dto.UpdateBillStatusRequest{
		Status:          workflow.StatusSentToCO,
		ReferenceNumber: "L-1",
		Version:         &stale,
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrStaleVersion))
}

func TestBillServiceHistoryRendersLatestFirst(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), bill.ID, dto.UpdateBillStatusRequest{
		Status:          workflow.StatusOfficeOrder,
		Date:            "2024-03-20",
		ReferenceNumber: "OO-55",
		ApprovedAmount:  "12000",
	})
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), bill.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, workflow.StatusOfficeOrder, entries[0].Label)
	require.Equal(t, workflow.StatusReceivedFromSubdivision, entries[1].Label)
}

func TestBillServiceListByStatusRejectsUnknown(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	_, err := svc.ListByStatus(context.Background(), "Lost In Transit")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrUnknownStatus))
}

func TestBillServiceFilterUsesCache(t *testing.T) {
	repo := newBillRepoStub()
	cache := newCacheStub()
	svc := newTestBillService(repo, WithBillCache(cache, time.Minute))

	_, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)
	require.Equal(t, 1, cache.invalidated)

	req := dto.FilterBillsRequest{Status: workflow.StatusReceivedFromSubdivision}
	_, err = svc.Filter(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, repo.filterCalls)

	// second identical filter is served from the cache
	_, err = svc.Filter(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, repo.filterCalls)

	// writes flush cached results
	bill, err := svc.Create(context.Background(), func() dto.CreateBillRequest {
		r := createBillRequest()
		r.BillNumber = "MB/2024/002"
		return r
	}())
	require.NoError(t, err)
	require.NotNil(t, bill)

	_, err = svc.Filter(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, repo.filterCalls)
}

func TestBillServiceFilterPassesReferenceSearch(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	_, err := svc.Filter(context.Background(), dto.FilterBillsRequest{
		ReferenceSearch: &dto.ReferenceSearchPayload{Status: workflow.StatusOfficeOrder, Number: "OO-5"},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.ReferenceSearch)
	require.Equal(t, workflow.StatusOfficeOrder, repo.lastFilter.ReferenceSearch.Status)
	require.Equal(t, "OO-5", repo.lastFilter.ReferenceSearch.Number)
}

func TestBillServiceDelete(t *testing.T) {
	repo := newBillRepoStub()
	svc := newTestBillService(repo)

	bill, err := svc.Create(context.Background(), createBillRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), bill.ID))
	err = svc.Delete(context.Background(), bill.ID)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
