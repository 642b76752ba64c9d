package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/domain"
)

const orderColumns = `
    id, store_id, carrier_id, total_price, payment_method, prepaid_method,
    status, city, zone, collected_amount, discrepancy_confirmed, reconciled_at
`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.StoreID, &o.CarrierID, &o.TotalPrice, &o.PaymentMethod,
		&o.PrepaidMethod, &o.Status, &o.City, &o.Zone, &o.CollectedAmount,
		&o.DiscrepancyConfirmed, &o.ReconciledAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// OrderByID returns a single order, nil if absent. No row lock: the ledger
// write path stays lock-free and relies on the (order, kind) upsert key.
func (r *TxRepo) OrderByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q: %w", id, err)
	}
	return o, nil
}

// LockOrders selects the given orders FOR UPDATE in ascending id order.
// Missing ids simply produce a shorter result; the caller decides whether
// that is an error.
func (r *TxRepo) LockOrders(ctx context.Context, storeID int64, ids []string) ([]domain.Order, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE store_id = $1 AND id = ANY($2)
        ORDER BY id
        FOR UPDATE
    `, storeID, ids)
	if err != nil {
		return nil, fmt.Errorf("lock orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// LockOrdersForPeriod selects a carrier's terminal-status orders for one day
// FOR UPDATE in ascending id order.
func (r *TxRepo) LockOrdersForPeriod(ctx context.Context, storeID, carrierID int64, day time.Time) ([]domain.Order, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE store_id = $1
          AND carrier_id = $2
          AND status = ANY($3)
          AND delivered_on = $4
        ORDER BY id
        FOR UPDATE
    `, storeID, carrierID,
		[]string{string(domain.OrderDelivered), string(domain.OrderFailed), string(domain.OrderReturned)},
		day)
	if err != nil {
		return nil, fmt.Errorf("lock orders for period: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// StampReconciled marks every order as settled. Rows already stamped are not
// touched; the caller must have rejected them beforehand.
func (r *TxRepo) StampReconciled(ctx context.Context, ids []string, at time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders SET reconciled_at = $2
        WHERE id = ANY($1) AND reconciled_at IS NULL
    `, ids, at)
	if err != nil {
		return fmt.Errorf("stamp reconciled: %w", err)
	}
	if int(ct.RowsAffected()) != len(ids) {
		return fmt.Errorf("stamp reconciled: expected %d rows, got %d", len(ids), ct.RowsAffected())
	}
	return nil
}

// UpdateOrderCollected records the carrier-reported collected amount for an order.
func (r *TxRepo) UpdateOrderCollected(ctx context.Context, id string, amount decimal.Decimal, discrepancyConfirmed bool) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders SET collected_amount = $2, discrepancy_confirmed = $3
        WHERE id = $1
    `, id, amount, discrepancyConfirmed)
	if err != nil {
		return fmt.Errorf("update order %q collected: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %q not found", id)
	}
	return nil
}
