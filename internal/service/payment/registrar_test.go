package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/ports/settletx"
	"service-carrier-settlement/internal/service/payment"
)

type stubRepo struct {
	tryLockFn   func(ctx context.Context, storeID, carrierID int64) (bool, error)
	carrFn      func(ctx context.Context, id int64) (*domain.Carrier, error)
	nextCodeFn  func(ctx context.Context, storeID int64, prefix string, day time.Time) (string, error)
	insertPayFn func(ctx context.Context, p *domain.PaymentRecord) error
	insertMovFn func(ctx context.Context, m *domain.Movement) error
	markPaidFn  func(ctx context.Context, ids []int64) (int64, error)
	tagPayFn    func(ctx context.Context, movementIDs []int64, paymentID int64) (int64, error)
}

func (s *stubRepo) LockSettlementPeriod(context.Context, int64, int64, time.Time) error {
	return nil
}
func (s *stubRepo) TryLockCarrierPayments(ctx context.Context, storeID, carrierID int64) (bool, error) {
	if s.tryLockFn == nil {
		return true, nil
	}
	return s.tryLockFn(ctx, storeID, carrierID)
}
func (s *stubRepo) NextSequenceCode(ctx context.Context, storeID int64, prefix string, day time.Time) (string, error) {
	if s.nextCodeFn == nil {
		return "PAY-20250101-001", nil
	}
	return s.nextCodeFn(ctx, storeID, prefix, day)
}
func (s *stubRepo) CarrierByID(ctx context.Context, id int64) (*domain.Carrier, error) {
	if s.carrFn == nil {
		return &domain.Carrier{ID: id, StoreID: 1, Active: true}, nil
	}
	return s.carrFn(ctx, id)
}
func (s *stubRepo) OrderByID(context.Context, string) (*domain.Order, error) { return nil, nil }
func (s *stubRepo) LockOrders(context.Context, int64, []string) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubRepo) LockOrdersForPeriod(context.Context, int64, int64, time.Time) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubRepo) StampReconciled(context.Context, []string, time.Time) error { return nil }
func (s *stubRepo) UpdateOrderCollected(context.Context, string, decimal.Decimal, bool) error {
	return nil
}
func (s *stubRepo) UpsertMovement(context.Context, *domain.Movement) error { return nil }
func (s *stubRepo) InsertMovement(ctx context.Context, m *domain.Movement) error {
	if s.insertMovFn == nil {
		m.ID = 77
		return nil
	}
	return s.insertMovFn(ctx, m)
}
func (s *stubRepo) TagMovementsWithSettlement(context.Context, []string, int64) error {
	return nil
}
func (s *stubRepo) TagMovementsWithPayment(ctx context.Context, movementIDs []int64, paymentID int64) (int64, error) {
	if s.tagPayFn == nil {
		return int64(len(movementIDs)), nil
	}
	return s.tagPayFn(ctx, movementIDs, paymentID)
}
func (s *stubRepo) SettlementExists(context.Context, int64, int64, time.Time) (bool, error) {
	return false, nil
}
func (s *stubRepo) InsertSettlement(context.Context, *domain.Settlement) error { return nil }
func (s *stubRepo) MarkSettlementsPaid(ctx context.Context, ids []int64) (int64, error) {
	if s.markPaidFn == nil {
		return int64(len(ids)), nil
	}
	return s.markPaidFn(ctx, ids)
}
func (s *stubRepo) InsertPaymentRecord(ctx context.Context, p *domain.PaymentRecord) error {
	if s.insertPayFn == nil {
		p.ID = 300
		return nil
	}
	return s.insertPayFn(ctx, p)
}

var _ settletx.Repository = (*stubRepo)(nil)

type stubRunner struct {
	repo *stubRepo
}

func (s stubRunner) WithTx(_ context.Context, fn func(tx settletx.Repository) error) error {
	return fn(s.repo)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newRegistrar(repo *stubRepo) *payment.Registrar {
	return payment.NewRegistrar(stubRunner{repo: repo}, logx.Nop(), nil, 5*time.Second)
}

func TestRegistrar_Register_FromCarrier(t *testing.T) {
	t.Parallel()

	var (
		record *domain.PaymentRecord
		offset *domain.Movement
	)
	repo := &stubRepo{
		insertPayFn: func(_ context.Context, p *domain.PaymentRecord) error {
			p.ID = 300
			record = p
			return nil
		},
		insertMovFn: func(_ context.Context, m *domain.Movement) error {
			m.ID = 77
			offset = m
			return nil
		},
	}

	res, err := newRegistrar(repo).Register(context.Background(), payment.Request{
		StoreID:       1,
		CarrierID:     5,
		Direction:     domain.PaymentFromCarrier,
		Amount:        dec(t, "210.00"),
		Method:        "bank_transfer",
		Reference:     "TRX-1",
		SettlementIDs: []int64{42},
	})
	require.NoError(t, err)

	require.Equal(t, int64(300), res.PaymentID)
	require.Equal(t, "PAY-20250101-001", res.Code)
	require.Equal(t, "TRX-1", res.Reference)
	require.Equal(t, int64(77), res.MovementID)
	require.Equal(t, int64(1), res.SettlementsPaid)

	require.NotNil(t, record)
	require.Equal(t, domain.PaymentFromCarrier, record.Direction)

	// money received from the carrier reduces what it owes
	require.NotNil(t, offset)
	require.Equal(t, domain.MovementPaymentReceived, offset.Kind)
	require.True(t, offset.Amount.Equal(dec(t, "-210.00")), "got %s", offset.Amount)
	require.NotNil(t, offset.PaymentID)
	require.Equal(t, int64(300), *offset.PaymentID)
}

func TestRegistrar_Register_ToCarrierOffsetIsPositive(t *testing.T) {
	t.Parallel()

	var offset *domain.Movement
	repo := &stubRepo{
		insertMovFn: func(_ context.Context, m *domain.Movement) error {
			m.ID = 78
			offset = m
			return nil
		},
	}

	_, err := newRegistrar(repo).Register(context.Background(), payment.Request{
		StoreID:   1,
		CarrierID: 5,
		Direction: domain.PaymentToCarrier,
		Amount:    dec(t, "99.00"),
	})
	require.NoError(t, err)

	require.NotNil(t, offset)
	require.Equal(t, domain.MovementPaymentSent, offset.Kind)
	require.True(t, offset.Amount.Equal(dec(t, "99.00")), "got %s", offset.Amount)
}

func TestRegistrar_Register_GeneratesReferenceWhenEmpty(t *testing.T) {
	t.Parallel()

	res, err := newRegistrar(&stubRepo{}).Register(context.Background(), payment.Request{
		StoreID:   1,
		CarrierID: 5,
		Direction: domain.PaymentFromCarrier,
		Amount:    dec(t, "10.00"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Reference)
}

func TestRegistrar_Register_LockBusy(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		tryLockFn: func(context.Context, int64, int64) (bool, error) { return false, nil },
	}

	_, err := newRegistrar(repo).Register(context.Background(), payment.Request{
		StoreID:   1,
		CarrierID: 5,
		Direction: domain.PaymentFromCarrier,
		Amount:    dec(t, "10.00"),
	})
	require.ErrorIs(t, err, apperr.ErrLockBusy)
}

func TestRegistrar_Register_SettlementNotOpen(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		markPaidFn: func(_ context.Context, ids []int64) (int64, error) {
			return int64(len(ids)) - 1, nil
		},
	}

	_, err := newRegistrar(repo).Register(context.Background(), payment.Request{
		StoreID:       1,
		CarrierID:     5,
		Direction:     domain.PaymentFromCarrier,
		Amount:        dec(t, "10.00"),
		SettlementIDs: []int64{41, 42},
	})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegistrar_Register_UnknownCarrier(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		carrFn: func(context.Context, int64) (*domain.Carrier, error) { return nil, nil },
	}

	_, err := newRegistrar(repo).Register(context.Background(), payment.Request{
		StoreID:   1,
		CarrierID: 5,
		Direction: domain.PaymentFromCarrier,
		Amount:    dec(t, "10.00"),
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegistrar_Register_Validation(t *testing.T) {
	t.Parallel()

	reg := newRegistrar(&stubRepo{})

	_, err := reg.Register(context.Background(), payment.Request{
		CarrierID: 5, Direction: domain.PaymentFromCarrier, Amount: dec(t, "10.00"),
	})
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = reg.Register(context.Background(), payment.Request{
		StoreID: 1, CarrierID: 5, Direction: domain.PaymentFromCarrier, Amount: decimal.Zero,
	})
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = reg.Register(context.Background(), payment.Request{
		StoreID: 1, CarrierID: 5, Direction: "sideways", Amount: dec(t, "10.00"),
	})
	require.ErrorIs(t, err, apperr.ErrInvalid)
}
