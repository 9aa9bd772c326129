package resources

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ DBInstance = (*pgxpool.Pool)(nil)
)

// DBInstance is the subset of a pgx pool the application reads through.
type DBInstance interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Closable is released by the base server when the application stops.
type Closable interface {
	Close()
}

type StopFn func(ctx context.Context, timeout time.Duration)
