package repository

import (
	"context"
	"fmt"
	"time"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
)

// SettlementExists reports whether a settlement already covers the
// (store, carrier, day) period.
func (r *TxRepo) SettlementExists(ctx context.Context, storeID, carrierID int64, day time.Time) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM settlements
            WHERE store_id = $1 AND carrier_id = $2 AND period_date = $3
        )
    `, storeID, carrierID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("settlement exists check: %w", err)
	}
	return exists, nil
}

// InsertSettlement persists an immutable settlement snapshot and fills in the
// row id.
func (r *TxRepo) InsertSettlement(ctx context.Context, s *domain.Settlement) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO settlements (
            store_id, carrier_id, code, period_date,
            dispatched, delivered, not_delivered,
            cod_expected, cod_collected, carrier_fees, failed_fees, net_receivable,
            status, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `, s.StoreID, s.CarrierID, s.Code, s.PeriodDate,
		s.Dispatched, s.Delivered, s.NotDelivered,
		s.CODExpected, s.CODCollected, s.CarrierFees, s.FailedFees, s.NetReceivable,
		s.Status, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert settlement %q: %w", s.Code, err)
	}
	return nil
}

// MarkSettlementsPaid flips open settlements to paid and returns how many
// rows changed.
func (r *TxRepo) MarkSettlementsPaid(ctx context.Context, ids []int64) (int64, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE settlements SET status = $2
        WHERE id = ANY($1) AND status = $3
    `, ids, string(domain.SettlementPaid), string(domain.SettlementOpen))
	if err != nil {
		return 0, fmt.Errorf("mark settlements paid: %w", err)
	}
	return ct.RowsAffected(), nil
}
