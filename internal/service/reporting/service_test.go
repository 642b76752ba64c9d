package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/service/reporting"
)

type stubReader struct {
	balanceFn     func(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error)
	settlementsFn func(ctx context.Context, storeID, carrierID int64) ([]domain.Settlement, error)
	movementsFn   func(ctx context.Context, storeID, carrierID int64) ([]domain.Movement, error)
}

func (s stubReader) UnsettledByKind(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error) {
	return s.balanceFn(ctx, storeID, carrierID)
}

func (s stubReader) PendingSettlements(ctx context.Context, storeID, carrierID int64) ([]domain.Settlement, error) {
	return s.settlementsFn(ctx, storeID, carrierID)
}

func (s stubReader) PendingMovements(ctx context.Context, storeID, carrierID int64) ([]domain.Movement, error) {
	return s.movementsFn(ctx, storeID, carrierID)
}

func TestService_Balance(t *testing.T) {
	t.Parallel()

	want := domain.CarrierBalance{
		StoreID:   1,
		CarrierID: 5,
		ByKind: []domain.KindTotal{
			{Kind: domain.MovementCODCollected, Total: decimal.RequireFromString("250.00")},
			{Kind: domain.MovementDeliveryFee, Total: decimal.RequireFromString("-40.00")},
		},
		Net: decimal.RequireFromString("210.00"),
	}
	svc := reporting.NewService(stubReader{
		balanceFn: func(_ context.Context, storeID, carrierID int64) (domain.CarrierBalance, error) {
			require.Equal(t, int64(1), storeID)
			require.Equal(t, int64(5), carrierID)
			return want, nil
		},
	}, time.Second)

	got, err := svc.Balance(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Equal(t, want.CarrierID, got.CarrierID)
	require.True(t, got.Net.Equal(want.Net))
}

func TestService_Balance_InvalidIDs(t *testing.T) {
	t.Parallel()

	svc := reporting.NewService(stubReader{}, time.Second)

	_, err := svc.Balance(context.Background(), 0, 5)
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.Balance(context.Background(), 1, -1)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_Pending(t *testing.T) {
	t.Parallel()

	svc := reporting.NewService(stubReader{
		settlementsFn: func(context.Context, int64, int64) ([]domain.Settlement, error) {
			return []domain.Settlement{{ID: 42, Code: "STL-20250615-001", Status: domain.SettlementOpen}}, nil
		},
		movementsFn: func(context.Context, int64, int64) ([]domain.Movement, error) {
			return []domain.Movement{{ID: 7, Kind: domain.MovementAdjustmentDebit}}, nil
		},
	}, time.Second)

	res, err := svc.Pending(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Settlements, 1)
	require.Len(t, res.Movements, 1)
	require.Equal(t, "STL-20250615-001", res.Settlements[0].Code)
}
