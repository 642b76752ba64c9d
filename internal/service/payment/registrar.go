package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/ports/settletx"
)

// codePrefix is the sequence-code prefix for payment records.
const codePrefix = "PAY"

// Registrar records actual cash transfers between store and carrier. Every
// registration produces one payment record and exactly one offsetting ledger
// movement.
type Registrar struct {
	repo             TxRunner
	logger           logx.Logger
	lockBusy         prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
	newReference     func() string
}

// NewRegistrar creates and configures a payment Registrar.
func NewRegistrar(repo TxRunner, logger logx.Logger, lockBusy prometheus.Counter, timeout time.Duration) *Registrar {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Registrar{
		repo:             repo,
		logger:           logger,
		lockBusy:         lockBusy,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
		newReference:     uuid.NewString,
	}
}

func (g *Registrar) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.operationTimeout)
}

// Request carries one cash transfer to register.
type Request struct {
	StoreID       int64
	CarrierID     int64
	Direction     domain.PaymentDirection
	Amount        decimal.Decimal
	Method        string
	Reference     string
	SettlementIDs []int64
	MovementIDs   []int64
}

// Result is the success payload of a payment registration.
type Result struct {
	PaymentID       int64
	Code            string
	Reference       string
	MovementID      int64
	SettlementsPaid int64
	MovementsTagged int64
}

func (r *Request) validate() error {
	if r.StoreID <= 0 || r.CarrierID <= 0 {
		return fmt.Errorf("store and carrier ids required: %w", apperr.ErrInvalid)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive: %w", r.Amount, apperr.ErrInvalid)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("direction %q: %w", r.Direction, apperr.ErrInvalid)
	}
	return nil
}

// Register records the transfer. The carrier's payment key uses a fail-fast
// lock: a concurrent registration gets ErrLockBusy immediately instead of
// queueing.
func (g *Registrar) Register(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	var res Result
	err := g.repo.WithTx(ctx, func(tx settletx.Repository) error {
		ok, err := tx.TryLockCarrierPayments(ctx, req.StoreID, req.CarrierID)
		if err != nil {
			return err
		}
		if !ok {
			if g.lockBusy != nil {
				g.lockBusy.Inc()
			}
			return fmt.Errorf("carrier %d payment registration: %w", req.CarrierID, apperr.ErrLockBusy)
		}

		carrier, err := tx.CarrierByID(ctx, req.CarrierID)
		if err != nil {
			return err
		}
		if carrier == nil || carrier.StoreID != req.StoreID {
			return fmt.Errorf("carrier %d: %w", req.CarrierID, apperr.ErrNotFound)
		}
		if !carrier.Active {
			return fmt.Errorf("carrier %d inactive: %w", req.CarrierID, apperr.ErrConflict)
		}

		now := g.now()
		code, err := tx.NextSequenceCode(ctx, req.StoreID, codePrefix, now)
		if err != nil {
			return err
		}

		reference := strings.TrimSpace(req.Reference)
		if reference == "" {
			reference = g.newReference()
		}

		record := &domain.PaymentRecord{
			StoreID:       req.StoreID,
			CarrierID:     req.CarrierID,
			Code:          code,
			Direction:     req.Direction,
			Amount:        req.Amount,
			Method:        req.Method,
			Reference:     reference,
			SettlementIDs: req.SettlementIDs,
			MovementIDs:   req.MovementIDs,
			CreatedAt:     now,
		}
		if err := tx.InsertPaymentRecord(ctx, record); err != nil {
			return err
		}

		offset, err := g.writeOffset(ctx, tx, record, now)
		if err != nil {
			return err
		}

		paid := int64(0)
		if len(req.SettlementIDs) > 0 {
			paid, err = tx.MarkSettlementsPaid(ctx, req.SettlementIDs)
			if err != nil {
				return err
			}
			if paid != int64(len(req.SettlementIDs)) {
				return fmt.Errorf("%d of %d settlements not open: %w",
					int64(len(req.SettlementIDs))-paid, len(req.SettlementIDs), apperr.ErrConflict)
			}
		}

		tagged := int64(0)
		if len(req.MovementIDs) > 0 {
			tagged, err = tx.TagMovementsWithPayment(ctx, req.MovementIDs, record.ID)
			if err != nil {
				return err
			}
		}

		res = Result{
			PaymentID:       record.ID,
			Code:            record.Code,
			Reference:       record.Reference,
			MovementID:      offset,
			SettlementsPaid: paid,
			MovementsTagged: tagged,
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	g.logger.Info("payment registered",
		logx.String("event", "payment_registered"),
		logx.String("code", res.Code),
		logx.Int64("carrier_id", req.CarrierID),
		logx.String("direction", string(req.Direction)),
		logx.String("amount", req.Amount.String()),
	)
	return res, nil
}

// writeOffset writes the single movement offsetting the transfer: money
// received from the carrier reduces what it owes, money sent increases it.
func (g *Registrar) writeOffset(ctx context.Context, tx settletx.Repository, record *domain.PaymentRecord, at time.Time) (int64, error) {
	kind := record.Direction.OffsetKind()
	amount := record.Amount
	if kind.Sign() < 0 {
		amount = amount.Neg()
	}

	m := &domain.Movement{
		StoreID:     record.StoreID,
		CarrierID:   record.CarrierID,
		Kind:        kind,
		Amount:      amount,
		PaymentID:   &record.ID,
		Description: fmt.Sprintf("payment %s (%s)", record.Code, record.Reference),
		OccurredOn:  at,
	}
	if err := tx.InsertMovement(ctx, m); err != nil {
		return 0, err
	}
	return m.ID, nil
}
