package ledger

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
)

// failedAttemptFactor is the share of the delivery fee charged for a failed
// or returned delivery, for carriers configured to charge one.
var failedAttemptFactor = decimal.RequireFromString("0.5")

// Processor reacts to an order reaching a terminal delivery outcome by
// writing the ledger entries it implies. All writes are idempotent upserts
// keyed by (order, kind), so the processor is safe to call from multiple
// status-change paths.
type Processor struct {
	repo             TxRunner
	fees             FeeResolver
	logger           logx.Logger
	written          prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
}

// NewProcessor creates a new ledger Processor.
func NewProcessor(repo TxRunner, fees FeeResolver, logger logx.Logger, written prometheus.Counter, timeout time.Duration) *Processor {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Processor{
		repo:             repo,
		fees:             fees,
		logger:           logger,
		written:          written,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (p *Processor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.operationTimeout)
}

// DeliveredRequest carries the inputs for a completed delivery.
type DeliveredRequest struct {
	OrderID   string
	Collected *decimal.Decimal // carrier-reported; defaults to the order total
	BatchRef  string
}

// HandleDelivered records the financial effects of a delivered order: a
// cod_collected entry when the order is cash on delivery, and a delivery_fee
// entry when the carrier's resolved fee is positive.
func (p *Processor) HandleDelivered(ctx context.Context, req DeliveredRequest) error {
	orderID, err := validateOrderID(req.OrderID)
	if err != nil {
		return err
	}
	if req.Collected != nil && req.Collected.IsNegative() {
		return fmt.Errorf("collected amount %s: %w", req.Collected, apperr.ErrInvalid)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var wrote int
	err = p.repo.WithTx(ctx, func(tx settletx.Repository) error {
		order, carrier, err := p.loadOrderAndCarrier(ctx, tx, orderID)
		if err != nil {
			return err
		}

		collected := order.TotalPrice
		if req.Collected != nil {
			collected = *req.Collected
		}

		fee, err := p.fees.Fee(ctx, carrier.ID, order.City, order.Zone)
		if err != nil {
			return err
		}

		wrote, err = WriteDeliveredMovements(ctx, tx, carrier, order, collected, fee, req.BatchRef, p.now())
		return err
	})
	if err != nil {
		return err
	}

	p.countWritten(wrote)
	p.logger.Info("delivery movements recorded",
		logx.String("event", "delivery_recorded"),
		logx.String("order_id", orderID),
		logx.Int("movements", wrote),
	)
	return nil
}

// HandleFailed records the failed-attempt fee for a failed or returned
// delivery. Carriers not configured to charge for failures produce nothing.
func (p *Processor) HandleFailed(ctx context.Context, orderID string) error {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var wrote int
	err = p.repo.WithTx(ctx, func(tx settletx.Repository) error {
		order, carrier, err := p.loadOrderAndCarrier(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !carrier.ChargesFailedAttempt {
			return nil
		}

		fee, err := p.fees.Fee(ctx, carrier.ID, order.City, order.Zone)
		if err != nil {
			return err
		}

		wrote, err = WriteFailedMovement(ctx, tx, carrier, order, fee, p.now())
		return err
	})
	if err != nil {
		return err
	}

	p.countWritten(wrote)
	if wrote > 0 {
		p.logger.Info("failed-attempt fee recorded",
			logx.String("event", "failed_attempt_recorded"),
			logx.String("order_id", orderID),
		)
	}
	return nil
}

func (p *Processor) loadOrderAndCarrier(ctx context.Context, tx settletx.Repository, orderID string) (*domain.Order, *domain.Carrier, error) {
	order, err := tx.OrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	if order.CarrierID == nil {
		return nil, nil, fmt.Errorf("order %q has no assigned carrier: %w", orderID, apperr.ErrConflict)
	}
	carrier, err := tx.CarrierByID(ctx, *order.CarrierID)
	if err != nil {
		return nil, nil, err
	}
	if carrier == nil {
		return nil, nil, fmt.Errorf("carrier %d: %w", *order.CarrierID, apperr.ErrNotFound)
	}
	return order, carrier, nil
}

func (p *Processor) countWritten(n int) {
	if p.written != nil && n > 0 {
		p.written.Add(float64(n))
	}
}

// WriteDeliveredMovements upserts the cod_collected and delivery_fee entries
// for one delivered order. The settlement batch processor reuses it so
// re-running the generator over a settled batch overwrites rather than
// duplicates. Returns the number of entries written.
func WriteDeliveredMovements(
	ctx context.Context,
	tx settletx.Repository,
	carrier *domain.Carrier,
	order *domain.Order,
	collected, fee decimal.Decimal,
	batchRef string,
	at time.Time,
) (int, error) {
	wrote := 0

	if order.CashOnDelivery() {
		m := &domain.Movement{
			StoreID:     order.StoreID,
			CarrierID:   carrier.ID,
			OrderID:     &order.ID,
			Kind:        domain.MovementCODCollected,
			Amount:      collected,
			Description: describe("COD collected", order.ID, batchRef),
			OccurredOn:  at,
		}
		if err := tx.UpsertMovement(ctx, m); err != nil {
			return wrote, err
		}
		wrote++
	}

	if fee.IsPositive() {
		m := &domain.Movement{
			StoreID:     order.StoreID,
			CarrierID:   carrier.ID,
			OrderID:     &order.ID,
			Kind:        domain.MovementDeliveryFee,
			Amount:      fee.Neg(),
			Description: describe("delivery fee", order.ID, batchRef),
			OccurredOn:  at,
		}
		if err := tx.UpsertMovement(ctx, m); err != nil {
			return wrote, err
		}
		wrote++
	}

	return wrote, nil
}

// FailedAttemptCharge returns the positive magnitude charged to the store
// for one failed attempt at the given resolved fee.
func FailedAttemptCharge(fee decimal.Decimal) decimal.Decimal {
	return fee.Mul(failedAttemptFactor)
}

// WriteFailedMovement upserts the failed_attempt_fee entry for one failed
// delivery. Returns the number of entries written (0 or 1).
func WriteFailedMovement(
	ctx context.Context,
	tx settletx.Repository,
	carrier *domain.Carrier,
	order *domain.Order,
	fee decimal.Decimal,
	at time.Time,
) (int, error) {
	charge := fee.Mul(failedAttemptFactor)
	if !charge.IsPositive() {
		return 0, nil
	}
	m := &domain.Movement{
		StoreID:     order.StoreID,
		CarrierID:   carrier.ID,
		OrderID:     &order.ID,
		Kind:        domain.MovementFailedAttemptFee,
		Amount:      charge.Neg(),
		Description: describe("failed attempt fee", order.ID, ""),
		OccurredOn:  at,
	}
	if err := tx.UpsertMovement(ctx, m); err != nil {
		return 0, err
	}
	return 1, nil
}

func describe(what, orderID, batchRef string) string {
	if batchRef == "" {
		return fmt.Sprintf("%s for order %s", what, orderID)
	}
	return fmt.Sprintf("%s for order %s (batch %s)", what, orderID, batchRef)
}

func validateOrderID(raw string) (string, error) {
	orderID := strings.TrimSpace(raw)
	if orderID == "" {
		return "", apperr.ErrInvalid
	}
	return orderID, nil
}
