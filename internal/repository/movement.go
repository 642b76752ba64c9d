package repository

import (
	"context"
	"fmt"

	"service-carrier-settlement/internal/domain"
)

// UpsertMovement inserts the movement or, when a row for (order_id, kind)
// already exists, overwrites its amount and description. This is the
// lock-free idempotent write the delivery event processor relies on: calling
// it twice for one order never duplicates a ledger entry.
func (r *TxRepo) UpsertMovement(ctx context.Context, m *domain.Movement) error {
	if m.OrderID == nil {
		return fmt.Errorf("upsert movement: order reference required")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("upsert movement: %w", err)
	}
	err := r.tx.QueryRow(ctx, `
        INSERT INTO movements (store_id, carrier_id, order_id, kind, amount, description, occurred_on)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (order_id, kind) WHERE order_id IS NOT NULL
        DO UPDATE SET amount = EXCLUDED.amount, description = EXCLUDED.description
        RETURNING id
    `, m.StoreID, m.CarrierID, *m.OrderID, m.Kind, m.Amount, m.Description, m.OccurredOn).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("upsert movement %q/%s: %w", *m.OrderID, m.Kind, err)
	}
	return nil
}

// InsertMovement inserts an orderless movement (payment offsets, manual
// adjustments) and fills in the row id.
func (r *TxRepo) InsertMovement(ctx context.Context, m *domain.Movement) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	err := r.tx.QueryRow(ctx, `
        INSERT INTO movements (store_id, carrier_id, order_id, kind, amount, settlement_id, payment_id, description, occurred_on)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, m.StoreID, m.CarrierID, m.OrderID, m.Kind, m.Amount, m.SettlementID, m.PaymentID, m.Description, m.OccurredOn).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert movement %s: %w", m.Kind, err)
	}
	return nil
}

// TagMovementsWithSettlement links every untagged movement of the processed
// orders to the settlement that summarizes them. Movements are never
// rewritten beyond this reference.
func (r *TxRepo) TagMovementsWithSettlement(ctx context.Context, orderIDs []string, settlementID int64) error {
	_, err := r.tx.Exec(ctx, `
        UPDATE movements SET settlement_id = $2
        WHERE order_id = ANY($1) AND settlement_id IS NULL
    `, orderIDs, settlementID)
	if err != nil {
		return fmt.Errorf("tag movements with settlement %d: %w", settlementID, err)
	}
	return nil
}

// TagMovementsWithPayment marks movements as discharged by a payment record.
// Returns the number of rows tagged.
func (r *TxRepo) TagMovementsWithPayment(ctx context.Context, movementIDs []int64, paymentID int64) (int64, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE movements SET payment_id = $2
        WHERE id = ANY($1) AND payment_id IS NULL
    `, movementIDs, paymentID)
	if err != nil {
		return 0, fmt.Errorf("tag movements with payment %d: %w", paymentID, err)
	}
	return ct.RowsAffected(), nil
}
