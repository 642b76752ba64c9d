package payment

import (
	"context"

	"service-carrier-settlement/internal/ports/settletx"
)

// TxRunner opens a transaction and executes fn within it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx settletx.Repository) error) error
}
