package coverage

import (
	"context"

	"service-carrier-settlement/internal/domain"
)

// RateSource provides a carrier's active coverage rates, city-keyed tables
// first, in table position order.
type RateSource interface {
	CarrierRates(ctx context.Context, carrierID int64) ([]domain.CoverageRate, error)
}
