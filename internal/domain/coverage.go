package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTableKind distinguishes city-keyed coverage tables from zone-keyed ones.
// City-keyed tables take precedence when both exist for a carrier.
type RateTableKind string

const (
	RateTableCity RateTableKind = "city"
	RateTableZone RateTableKind = "zone"
)

// Valid checks if the RateTableKind is valid
func (k RateTableKind) Valid() bool {
	return k == RateTableCity || k == RateTableZone
}

// FallbackLabels are the canonical catch-all labels a coverage table may use
// instead of a real destination name.
var FallbackLabels = [...]string{"default", "other", "general"}

// IsFallbackLabel reports whether the label is one of the canonical catch-alls.
func IsFallbackLabel(label string) bool {
	n := NormalizeLabel(label)
	for _, l := range FallbackLabels {
		if n == l {
			return true
		}
	}
	return false
}

// NormalizeLabel lowercases and trims a destination label for comparison.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// CoverageRate maps a destination label to the agreed delivery fee for one carrier.
type CoverageRate struct {
	ID        int64
	CarrierID int64
	TableKind RateTableKind
	Label     string
	Fee       decimal.Decimal
	Active    bool
	Position  int
}
