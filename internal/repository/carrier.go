package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"service-carrier-settlement/internal/domain"
)

// CarrierByID - returns carrier configuration by its ID, nil if absent.
func (r *TxRepo) CarrierByID(ctx context.Context, id int64) (*domain.Carrier, error) {
	var c domain.Carrier
	err := r.tx.QueryRow(ctx, `
        SELECT id, store_id, name, settlement_type, charges_failed_attempt, active
        FROM carriers WHERE id = $1
    `, id).Scan(&c.ID, &c.StoreID, &c.Name, &c.SettlementType, &c.ChargesFailedAttempt, &c.Active)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get carrier %d: %w", id, err)
	}
	return &c, nil
}

const carrierRatesQuery = `
    SELECT id, carrier_id, table_kind, label, fee, active, position
    FROM coverage_rates
    WHERE carrier_id = $1 AND active
    ORDER BY CASE table_kind WHEN 'city' THEN 0 ELSE 1 END, position, id
`

// CarrierRates returns a carrier's active coverage rates, city-keyed tables
// first, in table position order.
func (s *Store) CarrierRates(ctx context.Context, carrierID int64) ([]domain.CoverageRate, error) {
	rows, err := s.db.Query(ctx, carrierRatesQuery, carrierID)
	if err != nil {
		return nil, fmt.Errorf("rates for carrier %d: %w", carrierID, err)
	}
	defer rows.Close()
	return scanRates(rows)
}

func scanRates(rows pgx.Rows) ([]domain.CoverageRate, error) {
	var out []domain.CoverageRate
	for rows.Next() {
		var cr domain.CoverageRate
		if err := rows.Scan(&cr.ID, &cr.CarrierID, &cr.TableKind, &cr.Label, &cr.Fee, &cr.Active, &cr.Position); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
