package settlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/ports/settletx"
	"service-carrier-settlement/internal/service/ledger"
)

// codePrefix is the sequence-code prefix for settlements.
const codePrefix = "STL"

// Service closes out a carrier's accounts for a period as one atomic unit:
// lock, classify, aggregate, distribute discrepancies, persist.
type Service struct {
	repo             TxRunner
	fees             FeeResolver
	logger           logx.Logger
	created          prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a settlement Service.
func NewService(repo TxRunner, fees FeeResolver, logger logx.Logger, created prometheus.Counter, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		repo:             repo,
		fees:             fees,
		logger:           logger,
		created:          created,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// BatchRequest settles every terminal-status order of one carrier for one day.
type BatchRequest struct {
	StoreID            int64
	CarrierID          int64
	Date               time.Time
	ReportedCollected  decimal.Decimal
	ConfirmDiscrepancy bool
}

// ManualRequest settles an explicit, caller-supplied order list.
type ManualRequest struct {
	StoreID            int64
	CarrierID          int64
	Date               time.Time // defaults to today
	OrderIDs           []string
	ReportedCollected  decimal.Decimal
	ConfirmDiscrepancy bool
}

// Result is the success payload of a settlement run.
type Result struct {
	SettlementID  int64
	Code          string
	Dispatched    int
	Delivered     int
	NotDelivered  int
	CODExpected   decimal.Decimal
	CODCollected  decimal.Decimal
	CarrierFees   decimal.Decimal
	FailedFees    decimal.Decimal
	NetReceivable decimal.Decimal
}

// SettleBatch runs a settlement over a carrier's orders for one day.
func (s *Service) SettleBatch(ctx context.Context, req BatchRequest) (Result, error) {
	if err := validateIDs(req.StoreID, req.CarrierID, req.ReportedCollected); err != nil {
		return Result{}, err
	}
	if req.Date.IsZero() {
		return Result{}, fmt.Errorf("settlement date required: %w", apperr.ErrInvalid)
	}
	return s.settle(ctx, settleInput{
		storeID:   req.StoreID,
		carrierID: req.CarrierID,
		day:       truncateDay(req.Date),
		reported:  req.ReportedCollected,
		confirm:   req.ConfirmDiscrepancy,
	})
}

// ReconcileManual runs a settlement over an explicit order list.
func (s *Service) ReconcileManual(ctx context.Context, req ManualRequest) (Result, error) {
	if err := validateIDs(req.StoreID, req.CarrierID, req.ReportedCollected); err != nil {
		return Result{}, err
	}
	if len(req.OrderIDs) == 0 {
		return Result{}, fmt.Errorf("order list empty: %w", apperr.ErrInvalid)
	}
	ids := make([]string, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return Result{}, fmt.Errorf("blank order id: %w", apperr.ErrInvalid)
		}
		ids = append(ids, id)
	}
	day := req.Date
	if day.IsZero() {
		day = s.now()
	}
	return s.settle(ctx, settleInput{
		storeID:   req.StoreID,
		carrierID: req.CarrierID,
		day:       truncateDay(day),
		orderIDs:  ids,
		reported:  req.ReportedCollected,
		confirm:   req.ConfirmDiscrepancy,
	})
}

type settleInput struct {
	storeID   int64
	carrierID int64
	day       time.Time
	orderIDs  []string // nil means "every settleable order of the day"
	reported  decimal.Decimal
	confirm   bool
}

func (s *Service) settle(ctx context.Context, in settleInput) (Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var res Result
	err := s.repo.WithTx(ctx, func(tx settletx.Repository) error {
		if err := tx.LockSettlementPeriod(ctx, in.storeID, in.carrierID, in.day); err != nil {
			return err
		}

		carrier, err := s.loadCarrier(ctx, tx, in.storeID, in.carrierID)
		if err != nil {
			return err
		}

		exists, err := tx.SettlementExists(ctx, in.storeID, in.carrierID, in.day)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("settlement for carrier %d on %s already exists: %w",
				in.carrierID, in.day.Format("2006-01-02"), apperr.ErrConflict)
		}

		orders, err := s.lockCandidates(ctx, tx, in)
		if err != nil {
			return err
		}

		totals, err := s.aggregate(ctx, tx, carrier, orders)
		if err != nil {
			return err
		}

		collected, byOrder, err := s.resolveCollected(in, totals)
		if err != nil {
			return err
		}

		now := s.now()
		if err := s.writeMovements(ctx, tx, carrier, totals, byOrder, in.confirm, now); err != nil {
			return err
		}

		code, err := tx.NextSequenceCode(ctx, in.storeID, codePrefix, in.day)
		if err != nil {
			return err
		}

		stl := &domain.Settlement{
			StoreID:       in.storeID,
			CarrierID:     in.carrierID,
			Code:          code,
			PeriodDate:    in.day,
			Dispatched:    len(orders),
			Delivered:     totals.delivered,
			NotDelivered:  totals.notDelivered,
			CODExpected:   totals.codExpected,
			CODCollected:  collected,
			CarrierFees:   totals.carrierFees,
			FailedFees:    totals.failedFees,
			NetReceivable: domain.ComputeNet(collected, totals.carrierFees, totals.failedFees),
			Status:        domain.SettlementOpen,
			CreatedAt:     now,
		}
		if err := tx.InsertSettlement(ctx, stl); err != nil {
			return err
		}

		orderIDs := make([]string, 0, len(orders))
		for _, o := range orders {
			orderIDs = append(orderIDs, o.ID)
		}
		if err := tx.StampReconciled(ctx, orderIDs, now); err != nil {
			return err
		}
		if err := tx.TagMovementsWithSettlement(ctx, orderIDs, stl.ID); err != nil {
			return err
		}

		res = Result{
			SettlementID:  stl.ID,
			Code:          stl.Code,
			Dispatched:    stl.Dispatched,
			Delivered:     stl.Delivered,
			NotDelivered:  stl.NotDelivered,
			CODExpected:   stl.CODExpected,
			CODCollected:  stl.CODCollected,
			CarrierFees:   stl.CarrierFees,
			FailedFees:    stl.FailedFees,
			NetReceivable: stl.NetReceivable,
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if s.created != nil {
		s.created.Inc()
	}
	s.logger.Info("settlement created",
		logx.String("event", "settlement_created"),
		logx.String("code", res.Code),
		logx.Int64("carrier_id", in.carrierID),
		logx.Int("orders", res.Dispatched),
		logx.String("net_receivable", res.NetReceivable.String()),
	)
	return res, nil
}

func (s *Service) loadCarrier(ctx context.Context, tx settletx.Repository, storeID, carrierID int64) (*domain.Carrier, error) {
	carrier, err := tx.CarrierByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if carrier == nil || carrier.StoreID != storeID {
		return nil, fmt.Errorf("carrier %d: %w", carrierID, apperr.ErrNotFound)
	}
	if !carrier.Active {
		return nil, fmt.Errorf("carrier %d inactive: %w", carrierID, apperr.ErrConflict)
	}
	return carrier, nil
}

// lockCandidates locks the candidate orders and rejects any that are not in
// the expected pre-settlement state. Overlap with a previous settlement is a
// hard error, never a silent skip.
func (s *Service) lockCandidates(ctx context.Context, tx settletx.Repository, in settleInput) ([]domain.Order, error) {
	var (
		orders []domain.Order
		err    error
	)
	if in.orderIDs != nil {
		orders, err = tx.LockOrders(ctx, in.storeID, in.orderIDs)
		if err != nil {
			return nil, err
		}
		if len(orders) != len(in.orderIDs) {
			return nil, fmt.Errorf("%d of %d orders missing: %w",
				len(in.orderIDs)-len(orders), len(in.orderIDs), apperr.ErrNotFound)
		}
	} else {
		orders, err = tx.LockOrdersForPeriod(ctx, in.storeID, in.carrierID, in.day)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, fmt.Errorf("no settleable orders for carrier %d on %s: %w",
				in.carrierID, in.day.Format("2006-01-02"), apperr.ErrNotFound)
		}
	}

	for i := range orders {
		o := &orders[i]
		if o.ReconciledAt != nil {
			return nil, fmt.Errorf("order %q: %w", o.ID, apperr.ErrAlreadyReconciled)
		}
		if o.CarrierID == nil || *o.CarrierID != in.carrierID {
			return nil, fmt.Errorf("order %q not assigned to carrier %d: %w", o.ID, in.carrierID, apperr.ErrConflict)
		}
		if !o.Status.Terminal() {
			return nil, fmt.Errorf("order %q status %q not settleable: %w", o.ID, o.Status, apperr.ErrConflict)
		}
	}
	return orders, nil
}

// batchTotals accumulates the classification pass over the locked orders.
type batchTotals struct {
	delivered    int
	notDelivered int
	codExpected  decimal.Decimal
	carrierFees  decimal.Decimal
	failedFees   decimal.Decimal
	codShares    []codShare
	fees         map[string]decimal.Decimal
	orders       []domain.Order
}

func (s *Service) aggregate(ctx context.Context, tx settletx.Repository, carrier *domain.Carrier, orders []domain.Order) (*batchTotals, error) {
	t := &batchTotals{
		codExpected: decimal.Zero,
		carrierFees: decimal.Zero,
		failedFees:  decimal.Zero,
		fees:        make(map[string]decimal.Decimal, len(orders)),
		orders:      orders,
	}

	for i := range orders {
		o := &orders[i]
		fee, err := s.fees.Fee(ctx, carrier.ID, o.City, o.Zone)
		if err != nil {
			return nil, err
		}
		t.fees[o.ID] = fee

		if o.Status.Delivered() {
			t.delivered++
			t.carrierFees = t.carrierFees.Add(fee)
			if o.CashOnDelivery() {
				t.codExpected = t.codExpected.Add(o.TotalPrice)
				t.codShares = append(t.codShares, codShare{OrderID: o.ID, Expected: o.TotalPrice})
			}
			continue
		}

		t.notDelivered++
		if carrier.ChargesFailedAttempt {
			t.failedFees = t.failedFees.Add(ledger.FailedAttemptCharge(fee))
		}
	}
	return t, nil
}

// resolveCollected reconciles the reported cash total against the expected
// sum. A difference requires explicit caller confirmation, and the confirmed
// difference is distributed across the contributing COD orders so the
// per-order amounts sum to exactly the reported total.
func (s *Service) resolveCollected(in settleInput, t *batchTotals) (decimal.Decimal, map[string]decimal.Decimal, error) {
	byOrder := make(map[string]decimal.Decimal, len(t.codShares))
	for _, sh := range t.codShares {
		byOrder[sh.OrderID] = sh.Expected
	}

	if t.codExpected.Equal(in.reported) {
		return t.codExpected, byOrder, nil
	}
	if !in.confirm {
		return decimal.Zero, nil, fmt.Errorf(
			"reported collected %s differs from expected %s and discrepancy is not confirmed: %w",
			in.reported, t.codExpected, apperr.ErrConflict)
	}
	if len(t.codShares) == 0 {
		return decimal.Zero, nil, fmt.Errorf(
			"reported collected %s with no COD orders to absorb it: %w", in.reported, apperr.ErrConflict)
	}
	distributed, err := distributeCollected(in.reported, t.codShares)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return in.reported, distributed, nil
}

// writeMovements re-runs the ledger generators over every order in the batch
// so the ledger is complete even when a status event was missed. The upsert
// key guarantees this overwrites instead of duplicating.
func (s *Service) writeMovements(
	ctx context.Context,
	tx settletx.Repository,
	carrier *domain.Carrier,
	t *batchTotals,
	byOrder map[string]decimal.Decimal,
	discrepancyConfirmed bool,
	at time.Time,
) error {
	for i := range t.orders {
		o := &t.orders[i]
		fee := t.fees[o.ID]

		if !o.Status.Delivered() {
			if carrier.ChargesFailedAttempt {
				if _, err := ledger.WriteFailedMovement(ctx, tx, carrier, o, fee, at); err != nil {
					return err
				}
			}
			continue
		}

		collected := byOrder[o.ID]
		if _, err := ledger.WriteDeliveredMovements(ctx, tx, carrier, o, collected, fee, "", at); err != nil {
			return err
		}
		if o.CashOnDelivery() {
			if err := tx.UpdateOrderCollected(ctx, o.ID, collected, discrepancyConfirmed); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateIDs(storeID, carrierID int64, reported decimal.Decimal) error {
	if storeID <= 0 {
		return fmt.Errorf("store id required: %w", apperr.ErrInvalid)
	}
	if carrierID <= 0 {
		return fmt.Errorf("carrier id required: %w", apperr.ErrInvalid)
	}
	if reported.IsNegative() {
		return fmt.Errorf("reported collected %s negative: %w", reported, apperr.ErrInvalid)
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
