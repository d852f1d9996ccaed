package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
	"github.com/harshbansal7/bills-lifecycle-system/internal/workflow"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
)

const billCachePrefix = "bills:filter:"

type billStore interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, id string) (*models.Bill, error)
	ExistsBillNumber(ctx context.Context, billNumber string) (bool, error)
	List(ctx context.Context) ([]models.Bill, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Bill, error)
	ListByStatus(ctx context.Context, status string) ([]models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) (int64, error)
	AppendStatus(ctx context.Context, bill *models.Bill, expectedVersion int) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Filter(ctx context.Context, filter models.BillFilter) ([]models.Bill, error)
}

type employeeDirectory interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
}

type billCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string)
}

type cacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// BillService orchestrates bill CRUD and the status workflow.
type BillService struct {
	repo      billStore
	employees employeeDirectory
	engine    *workflow.Engine
	cache     billCache
	cacheTTL  time.Duration
	metrics   cacheObserver
	logger    *zap.Logger
}

// BillServiceOption configures the service.
type BillServiceOption func(*BillService)

// WithBillCache enables filter-result caching.
func WithBillCache(cache billCache, ttl time.Duration) BillServiceOption {
	return func(s *BillService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithCacheMetrics reports filter cache hits and misses.
func WithCacheMetrics(observer cacheObserver) BillServiceOption {
	return func(s *BillService) {
		s.metrics = observer
	}
}

// NewBillService constructs the service.
func NewBillService(repo billStore, employees employeeDirectory, engine *workflow.Engine, logger *zap.Logger, opts ...BillServiceOption) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &BillService{
		repo:      repo,
		employees: employees,
		engine:    engine,
		logger:    logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Engine exposes the workflow engine for handlers that render history.
func (s *BillService) Engine() *workflow.Engine {
	return s.engine
}

// Create registers a new bill with its initial workflow entry.
func (s *BillService) Create(ctx context.Context, req dto.CreateBillRequest) (*models.Bill, error) {
	exists, err := s.repo.ExistsBillNumber(ctx, req.BillNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bill number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bill number already exists")
	}

	receiptDate, err := dto.ParseDate(req.ReceiptDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid receipt_date")
	}
	periodFrom, err := dto.ParseDate(req.TreatmentPeriodFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid treatment_period_from")
	}
	periodTo, err := dto.ParseDate(req.TreatmentPeriodTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid treatment_period_to")
	}

	// The sub-division travels with the bill as a snapshot; a missing
	// employee record does not block registration.
	subDivision := "Unknown"
	if employee, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID); err == nil {
		subDivision = employee.SubDivision
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve employee")
	}

	detail := subDivision
	if detail == "Unknown" {
		detail = ""
	}
	initial, err := s.engine.InitialEntry(time.Now().UTC(), req.ReferenceNumber, detail)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		BillNumber:          req.BillNumber,
		ReceiptDate:         receiptDate,
		EmployeeID:          req.EmployeeID,
		EmployeeName:        req.EmployeeName,
		DependentName:       req.DependentName,
		Relationship:        req.Relationship,
		TreatmentPeriodFrom: periodFrom,
		TreatmentPeriodTo:   periodTo,
		AmountClaimed:       req.AmountClaimed,
		Hospital:            req.Hospital,
		SubDivision:         subDivision,
	}
	s.engine.AppendAndProject(bill, *initial)

	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bill")
	}

	s.invalidateCache(ctx)
	return bill, nil
}

// Get fetches one bill.
func (s *BillService) Get(ctx context.Context, id string) (*models.Bill, error) {
	bill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch bill")
	}
	return bill, nil
}

// List returns all bills, newest first.
func (s *BillService) List(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bills")
	}
	return bills, nil
}

// ListByEmployee returns every bill referencing the employee.
func (s *BillService) ListByEmployee(ctx context.Context, employeeID string) ([]models.Bill, error) {
	bills, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employee bills")
	}
	return bills, nil
}

// ListByStatus returns bills currently in the given workflow state.
func (s *BillService) ListByStatus(ctx context.Context, status string) ([]models.Bill, error) {
	if !s.engine.Registry().Known(status) {
		return nil, appErrors.Clone(appErrors.ErrUnknownStatus, "unknown bill status: "+status)
	}
	bills, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bills by status")
	}
	return bills, nil
}

// Update rewrites the bill's record fields. The status history and its
// projections are untouched.
func (s *BillService) Update(ctx context.Context, id string, req dto.UpdateBillRequest) (*models.Bill, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	receiptDate, err := dto.ParseDate(req.ReceiptDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid receipt_date")
	}
	periodFrom, err := dto.ParseDate(req.TreatmentPeriodFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid treatment_period_from")
	}
	periodTo, err := dto.ParseDate(req.TreatmentPeriodTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid treatment_period_to")
	}

	bill.BillNumber = req.BillNumber
	bill.ReceiptDate = receiptDate
	bill.EmployeeID = req.EmployeeID
	bill.EmployeeName = req.EmployeeName
	bill.DependentName = req.DependentName
	bill.Relationship = req.Relationship
	bill.TreatmentPeriodFrom = periodFrom
	bill.TreatmentPeriodTo = periodTo
	bill.AmountClaimed = req.AmountClaimed
	bill.Hospital = req.Hospital

	affected, err := s.repo.Update(ctx, bill)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bill")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
	}

	s.invalidateCache(ctx)
	return bill, nil
}

// Delete removes the bill.
func (s *BillService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bill")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "bill not found")
	}
	s.invalidateCache(ctx)
	return nil
}

// UpdateStatus validates the transition, appends the history entry and
// persists the recomputed projections atomically. A stale version token is
// rejected so racing updates cannot silently overwrite each other.
func (s *BillService) UpdateStatus(ctx context.Context, id string, req dto.UpdateBillStatusRequest) (*models.Bill, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := dto.ParseDate(req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status date")
		}
		date = parsed
	}

	update, err := s.engine.ProposeTransition(req.Status, date, req.Remarks, req.SuppliedFields())
	if err != nil {
		return nil, err
	}

	expectedVersion := bill.Version
	if req.Version != nil {
		expectedVersion = *req.Version
	}

	s.engine.AppendAndProject(bill, *update)

	affected, err := s.repo.AppendStatus(ctx, bill, expectedVersion)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bill status")
	}
	if affected == 0 {
		return nil, appErrors.ErrStaleVersion
	}

	s.invalidateCache(ctx)
	return bill, nil
}

// History renders the bill's status history for display, most recent first.
func (s *BillService) History(ctx context.Context, id string) ([]workflow.HistoryEntry, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.RenderHistory(bill), nil
}

// Filter returns bills matching the AND-combined criteria, consulting the
// cache first when one is configured.
func (s *BillService) Filter(ctx context.Context, req dto.FilterBillsRequest) ([]models.Bill, error) {
	filter, err := req.ToFilter()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	key := filterCacheKey(filter)
	if s.cache != nil {
		var cached []models.Bill
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.observeCache(true)
			return cached, nil
		}
		s.observeCache(false)
	}

	bills, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter bills")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bills, s.cacheTTL); err != nil {
			s.logger.Warn("bill filter cache write failed", zap.Error(err))
		}
	}
	return bills, nil
}

func (s *BillService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(hit)
	}
}

func (s *BillService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidatePrefix(ctx, billCachePrefix)
	}
}

func filterCacheKey(filter models.BillFilter) string {
	payload, err := json.Marshal(filter)
	if err != nil {
		return billCachePrefix + "all"
	}
	sum := sha256.Sum256(payload)
	return billCachePrefix + hex.EncodeToString(sum[:])
}
