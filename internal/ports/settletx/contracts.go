package settletx

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/domain"
)

// Repository is the transactional surface the settlement services run
// against. Every method executes inside the transaction opened by the
// enclosing WithTx call; any returned error rolls the whole operation back.
type Repository interface {
	// LockSettlementPeriod takes the blocking advisory lock serializing
	// settlement runs for one (store, carrier, day).
	LockSettlementPeriod(ctx context.Context, storeID, carrierID int64, day time.Time) error
	// TryLockCarrierPayments takes the fail-fast advisory lock guarding
	// payment registration for one carrier. Returns false when busy.
	TryLockCarrierPayments(ctx context.Context, storeID, carrierID int64) (bool, error)
	// NextSequenceCode reserves the next PREFIX-YYYYMMDD-NNN code for
	// (store, prefix, day). Safe under concurrent callers.
	NextSequenceCode(ctx context.Context, storeID int64, prefix string, day time.Time) (string, error)

	CarrierByID(ctx context.Context, id int64) (*domain.Carrier, error)

	OrderByID(ctx context.Context, id string) (*domain.Order, error)
	// LockOrders selects the given orders FOR UPDATE, ordered by id.
	LockOrders(ctx context.Context, storeID int64, ids []string) ([]domain.Order, error)
	// LockOrdersForPeriod selects a carrier's terminal-status orders for one
	// day FOR UPDATE, ordered by id.
	LockOrdersForPeriod(ctx context.Context, storeID, carrierID int64, day time.Time) ([]domain.Order, error)
	StampReconciled(ctx context.Context, ids []string, at time.Time) error
	UpdateOrderCollected(ctx context.Context, id string, amount decimal.Decimal, discrepancyConfirmed bool) error

	// UpsertMovement inserts or overwrites the movement keyed by
	// (order_id, kind) and fills in the row id.
	UpsertMovement(ctx context.Context, m *domain.Movement) error
	// InsertMovement inserts an orderless movement (payments, adjustments).
	InsertMovement(ctx context.Context, m *domain.Movement) error
	TagMovementsWithSettlement(ctx context.Context, orderIDs []string, settlementID int64) error
	TagMovementsWithPayment(ctx context.Context, movementIDs []int64, paymentID int64) (int64, error)

	SettlementExists(ctx context.Context, storeID, carrierID int64, day time.Time) (bool, error)
	InsertSettlement(ctx context.Context, s *domain.Settlement) error
	MarkSettlementsPaid(ctx context.Context, ids []int64) (int64, error)

	InsertPaymentRecord(ctx context.Context, p *domain.PaymentRecord) error
}
