package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/order-service/internal/db"
	"github.com/nikolayk812/order-service/internal/port"
)

type transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) (port.Transactor, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}

	return &transactor{pool: pool}, nil
}

func (t *transactor) WithinTx(ctx context.Context, fn func(orders port.OrderRepository, items port.OrderItemRepository) error) error {
	_, err := inTx(ctx, t.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(NewOrderWithTx(tx), NewOrderItemWithTx(tx))
	})
	return err
}

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	return inTx(ctx, dbtx, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

func inTx[T any](ctx context.Context, dbtx db.DBTX, fn func(tx pgx.Tx) (T, error)) (_ T, txErr error) {
	var zero T

	// Already in a transaction, the owner commits
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(tx)
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}
