package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/domain"
)

// UnsettledByKind aggregates a carrier's movements not yet linked to a
// settlement, grouped by kind. Balances are always derived from the ledger
// on read; nothing here is cached.
func (s *Store) UnsettledByKind(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error) {
	bal := domain.CarrierBalance{StoreID: storeID, CarrierID: carrierID, Net: decimal.Zero}

	rows, err := s.db.Query(ctx, `
        SELECT kind, SUM(amount)
        FROM movements
        WHERE store_id = $1 AND carrier_id = $2 AND settlement_id IS NULL
        GROUP BY kind
        ORDER BY kind
    `, storeID, carrierID)
	if err != nil {
		return bal, fmt.Errorf("unsettled by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kt domain.KindTotal
		if err := rows.Scan(&kt.Kind, &kt.Total); err != nil {
			return bal, err
		}
		bal.ByKind = append(bal.ByKind, kt)
		bal.Net = bal.Net.Add(kt.Total)
	}
	return bal, rows.Err()
}

// PendingSettlements returns a carrier's settlements not yet discharged by a
// payment, oldest first.
func (s *Store) PendingSettlements(ctx context.Context, storeID, carrierID int64) ([]domain.Settlement, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, store_id, carrier_id, code, period_date,
               dispatched, delivered, not_delivered,
               cod_expected, cod_collected, carrier_fees, failed_fees, net_receivable,
               status, created_at
        FROM settlements
        WHERE store_id = $1 AND carrier_id = $2 AND status = $3
        ORDER BY period_date, id
    `, storeID, carrierID, string(domain.SettlementOpen))
	if err != nil {
		return nil, fmt.Errorf("pending settlements: %w", err)
	}
	defer rows.Close()

	var out []domain.Settlement
	for rows.Next() {
		var st domain.Settlement
		if err := rows.Scan(&st.ID, &st.StoreID, &st.CarrierID, &st.Code, &st.PeriodDate,
			&st.Dispatched, &st.Delivered, &st.NotDelivered,
			&st.CODExpected, &st.CODCollected, &st.CarrierFees, &st.FailedFees, &st.NetReceivable,
			&st.Status, &st.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// PendingMovements returns a carrier's movements not yet discharged by a
// payment record, oldest first.
func (s *Store) PendingMovements(ctx context.Context, storeID, carrierID int64) ([]domain.Movement, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, store_id, carrier_id, order_id, kind, amount,
               settlement_id, payment_id, description, occurred_on
        FROM movements
        WHERE store_id = $1 AND carrier_id = $2 AND payment_id IS NULL
        ORDER BY occurred_on, id
    `, storeID, carrierID)
	if err != nil {
		return nil, fmt.Errorf("pending movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		var m domain.Movement
		if err := rows.Scan(&m.ID, &m.StoreID, &m.CarrierID, &m.OrderID, &m.Kind, &m.Amount,
			&m.SettlementID, &m.PaymentID, &m.Description, &m.OccurredOn); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
