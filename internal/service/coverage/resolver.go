package coverage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
)

// Resolver answers "what does this carrier charge to deliver there" through
// an ordered chain of pure lookup strategies. Read-only, safe under
// concurrency.
type Resolver struct {
	rates  RateSource
	logger logx.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(rates RateSource, logger logx.Logger) *Resolver {
	return &Resolver{rates: rates, logger: logger}
}

// strategy inspects the rate list and either produces a fee or passes.
type strategy func(rates []domain.CoverageRate, city, zone string) (decimal.Decimal, bool)

// strategies is the fallback chain, evaluated in order: exact city match,
// exact zone match, canonical fallback label (city table before zone table),
// carrier's first active rate.
var strategies = []strategy{
	matchExact(domain.RateTableCity), // city-keyed tables win over zone-keyed
	matchExact(domain.RateTableZone),
	matchFallbackLabel,
	firstActive,
}

// Fee resolves the agreed delivery fee for a carrier and destination. When no
// strategy matches (including a carrier with no rate table at all) it returns
// zero and logs a warning rather than failing the caller.
func (r *Resolver) Fee(ctx context.Context, carrierID int64, city, zone string) (decimal.Decimal, error) {
	rates, err := r.rates.CarrierRates(ctx, carrierID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load rates for carrier %d: %w", carrierID, err)
	}

	for _, s := range strategies {
		if fee, ok := s(rates, city, zone); ok {
			if fee.IsNegative() {
				r.logger.Warn("negative coverage fee clamped to zero",
					logx.Int64("carrier_id", carrierID),
					logx.String("city", city),
					logx.String("zone", zone),
				)
				return decimal.Zero, nil
			}
			return fee, nil
		}
	}

	r.logger.Warn("no coverage rate matched, defaulting fee to zero",
		logx.Int64("carrier_id", carrierID),
		logx.String("city", city),
		logx.String("zone", zone),
	)
	return decimal.Zero, nil
}

// matchExact matches the destination name against one table kind. City
// destinations are compared to city-keyed labels, zone destinations to
// zone-keyed labels; comparison is case- and whitespace-insensitive.
func matchExact(kind domain.RateTableKind) strategy {
	return func(rates []domain.CoverageRate, city, zone string) (decimal.Decimal, bool) {
		want := domain.NormalizeLabel(city)
		if kind == domain.RateTableZone {
			want = domain.NormalizeLabel(zone)
		}
		if want == "" {
			return decimal.Zero, false
		}
		for _, cr := range rates {
			if cr.TableKind == kind && domain.NormalizeLabel(cr.Label) == want {
				return cr.Fee, true
			}
		}
		return decimal.Zero, false
	}
}

// matchFallbackLabel picks the first rate carrying a canonical catch-all
// label. The rate list is ordered city-table-first, so a city-keyed
// "default" wins over a zone-keyed one.
func matchFallbackLabel(rates []domain.CoverageRate, _, _ string) (decimal.Decimal, bool) {
	for _, cr := range rates {
		if domain.IsFallbackLabel(cr.Label) {
			return cr.Fee, true
		}
	}
	return decimal.Zero, false
}

// firstActive falls back to the carrier's first active rate.
func firstActive(rates []domain.CoverageRate, _, _ string) (decimal.Decimal, bool) {
	for _, cr := range rates {
		if cr.Active {
			return cr.Fee, true
		}
	}
	return decimal.Zero, false
}
