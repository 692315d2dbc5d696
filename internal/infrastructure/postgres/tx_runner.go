package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txBeginner lo cumplen *pgxpool.Pool y pgx.Tx (transacción anidada = savepoint).
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ txBeginner = (*pgxpool.Pool)(nil)

// inTx ejecuta fn dentro de una transacción y hace Commit o Rollback.
// Si q no sabe abrir transacciones, fn corre directamente sobre q.
func inTx(ctx context.Context, q Querier, fn func(Querier) error) error {
	b, ok := q.(txBeginner)
	if !ok {
		return fn(q)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
