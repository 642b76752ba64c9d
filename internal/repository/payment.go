package repository

import (
	"context"
	"fmt"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
)

// InsertPaymentRecord persists a payment record and fills in the row id.
func (r *TxRepo) InsertPaymentRecord(ctx context.Context, p *domain.PaymentRecord) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO payment_records (
            store_id, carrier_id, code, direction, amount, method, reference,
            settlement_ids, movement_ids, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `, p.StoreID, p.CarrierID, p.Code, string(p.Direction), p.Amount, p.Method, p.Reference,
		p.SettlementIDs, p.MovementIDs, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert payment record %q: %w", p.Code, err)
	}
	return nil
}
