package settlement

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/apperr"
)

// codShare pairs a COD order with the amount it was expected to collect.
type codShare struct {
	OrderID  string
	Expected decimal.Decimal
}

// distributeCollected spreads a reported cash total across the contributing
// COD orders when it differs from the expected sum. The difference is split
// in integer cents: an even share per order, with the leftover remainder
// cents assigned one at a time to the first orders in ascending order-id
// order. The distributed amounts always sum to exactly the reported total.
// An under-report severe enough to drive any per-order amount below zero is
// rejected: collected movements cannot carry a negative amount.
func distributeCollected(reported decimal.Decimal, shares []codShare) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(shares))
	if len(shares) == 0 {
		return out, nil
	}

	sorted := make([]codShare, len(shares))
	copy(sorted, shares)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OrderID < sorted[j].OrderID })

	expectedCents := int64(0)
	cents := make([]int64, len(sorted))
	for i, sh := range sorted {
		cents[i] = toCents(sh.Expected)
		expectedCents += cents[i]
	}

	diff := toCents(reported) - expectedCents
	n := int64(len(sorted))
	base := diff / n
	rem := diff - base*n

	for i := range cents {
		cents[i] += base
	}
	step := int64(1)
	if rem < 0 {
		step = -1
		rem = -rem
	}
	for i := int64(0); i < rem; i++ {
		cents[i] += step
	}

	for i, sh := range sorted {
		if cents[i] < 0 {
			return nil, fmt.Errorf(
				"reported collected %s drives order %q share negative: %w",
				reported, sh.OrderID, apperr.ErrConflict)
		}
		out[sh.OrderID] = fromCents(cents[i])
	}
	return out, nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
