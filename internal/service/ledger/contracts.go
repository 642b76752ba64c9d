package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/ports/settletx"
)

// TxRunner opens a transaction and executes fn within it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx settletx.Repository) error) error
}

// FeeResolver resolves the agreed delivery fee for a carrier and destination.
type FeeResolver interface {
	Fee(ctx context.Context, carrierID int64, city, zone string) (decimal.Decimal, error)
}
