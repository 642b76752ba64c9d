package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-carrier-settlement/internal/ports/settletx"
)

// Store is the settlement engine's persistence root. Transactional work goes
// through WithTx; read-only reporting queries run directly on the pool.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// WithTx opens a transaction and executes fn within it. The transaction is
// rolled back on error or panic, committed otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx settletx.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo implements settletx.Repository over one pgx transaction.
type TxRepo struct {
	tx pgx.Tx
}

var _ settletx.Repository = (*TxRepo)(nil)

// LockSettlementPeriod - blocking advisory lock serializing settlement runs
// for one (store, carrier, day). Held until the transaction ends.
func (r *TxRepo) LockSettlementPeriod(ctx context.Context, storeID, carrierID int64, day time.Time) error {
	key := fmt.Sprintf("settlement:%d:%d:%s", storeID, carrierID, day.Format("2006-01-02"))
	if _, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock settlement period %q: %w", key, err)
	}
	return nil
}

// TryLockCarrierPayments - fail-fast advisory lock for payment registration.
// Returns false immediately when another registration holds the lock.
func (r *TxRepo) TryLockCarrierPayments(ctx context.Context, storeID, carrierID int64) (bool, error) {
	key := fmt.Sprintf("payment:%d:%d", storeID, carrierID)
	var ok bool
	err := r.tx.QueryRow(ctx,
		`SELECT pg_try_advisory_xact_lock(hashtextextended($1, 0))`, key,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("try lock carrier payments %q: %w", key, err)
	}
	return ok, nil
}

// NextSequenceCode reserves the next PREFIX-YYYYMMDD-NNN code for (store,
// prefix, day). A short-lived advisory lock on the (store, day, prefix) key
// makes "count existing + 1" safe under concurrent callers.
func (r *TxRepo) NextSequenceCode(ctx context.Context, storeID int64, prefix string, day time.Time) (string, error) {
	datePart := day.Format("20060102")
	key := fmt.Sprintf("seq:%d:%s:%s", storeID, prefix, datePart)
	if _, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return "", fmt.Errorf("lock sequence %q: %w", key, err)
	}

	var next int
	err := r.tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(seq), 0) + 1
        FROM sequence_codes
        WHERE store_id = $1 AND prefix = $2 AND day = $3
    `, storeID, prefix, day).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("next sequence for %q: %w", key, err)
	}

	code := fmt.Sprintf("%s-%s-%03d", prefix, datePart, next)
	_, err = r.tx.Exec(ctx, `
        INSERT INTO sequence_codes (store_id, prefix, day, seq, code)
        VALUES ($1, $2, $3, $4, $5)
    `, storeID, prefix, day, next, code)
	if err != nil {
		return "", fmt.Errorf("reserve sequence code %q: %w", code, err)
	}
	return code, nil
}
