package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// dbtx is satisfied by both *pgxpool.Conn and pgx.Tx starters.
type txStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx executes fn inside a single transaction. The transaction scopes one
// logical write unit only; dependent write units that must survive a later
// failure run in their own transaction.
func WithTx(ctx context.Context, starter txStarter, fn func(pgx.Tx) error) error {
	tx, err := starter.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
