package reporting

import (
	"context"
	"fmt"
	"time"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
)

// Reader is the read-only aggregate surface of the movement ledger.
type Reader interface {
	UnsettledByKind(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error)
	PendingSettlements(ctx context.Context, storeID, carrierID int64) ([]domain.Settlement, error)
	PendingMovements(ctx context.Context, storeID, carrierID int64) ([]domain.Movement, error)
}

// PendingResult groups everything still awaiting a payment for one carrier.
type PendingResult struct {
	Settlements []domain.Settlement
	Movements   []domain.Movement
}

// Service exposes the derived reporting views. Balances are aggregated from
// the ledger on every call; nothing is cached as mutable state.
type Service struct {
	reader           Reader
	operationTimeout time.Duration
}

// NewService creates a new reporting Service.
func NewService(reader Reader, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{reader: reader, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Balance returns a carrier's current position: per-kind sums of unsettled
// movements and their net.
func (s *Service) Balance(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error) {
	if storeID <= 0 || carrierID <= 0 {
		return domain.CarrierBalance{}, fmt.Errorf("store and carrier ids required: %w", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.reader.UnsettledByKind(ctx, storeID, carrierID)
}

// Pending returns a carrier's settlements and movements awaiting payment.
func (s *Service) Pending(ctx context.Context, storeID, carrierID int64) (PendingResult, error) {
	if storeID <= 0 || carrierID <= 0 {
		return PendingResult{}, fmt.Errorf("store and carrier ids required: %w", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	settlements, err := s.reader.PendingSettlements(ctx, storeID, carrierID)
	if err != nil {
		return PendingResult{}, err
	}
	movements, err := s.reader.PendingMovements(ctx, storeID, carrierID)
	if err != nil {
		return PendingResult{}, err
	}
	return PendingResult{Settlements: settlements, Movements: movements}, nil
}
