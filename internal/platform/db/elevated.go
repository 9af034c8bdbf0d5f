package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Elevated runs fn on a connection switched to the service role, which
// bypasses row-level security. The switch lives only for the duration of fn;
// the role is reset before the connection returns to the pool. Callers must
// complete the authorization chain before reaching for this path, and must
// never use it to re-derive authorization.
func Elevated(ctx context.Context, pool *pgxpool.Pool, serviceRole string, fn func(conn *pgxpool.Conn) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("platform/db: acquire: %w", err)
	}
	defer conn.Release()

	if serviceRole != "" {
		if _, err := conn.Exec(ctx, "SET ROLE "+pgx.Identifier{serviceRole}.Sanitize()); err != nil {
			return fmt.Errorf("platform/db: set role: %w", err)
		}
		defer func() {
			_, _ = conn.Exec(context.WithoutCancel(ctx), "RESET ROLE")
		}()
	}

	return fn(conn)
}
