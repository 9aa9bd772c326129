package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"contributions-viewer/pkg/resources"
)

type postgresSource struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
}

// NewPostgresSource reads every row of the contributions table once. The
// table is only read; the service never writes to it.
func NewPostgresSource(pool resources.DBInstance) Source {
	return &postgresSource{
		tracer:  otel.GetTracerProvider().Tracer("contributions-viewer/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

func (s *postgresSource) Load(ctx context.Context) ([]Contribution, error) {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "load_contributions", start, err) }()

	ctx, span := s.tracer.Start(ctx, "source.LoadPostgres")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, start_time, end_time, owner
		 FROM contributions
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}

	contributions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Contribution, error) {
		var c Contribution
		scanErr := row.Scan(&c.Id, &c.Title, &c.Description, &c.StartTime, &c.EndTime, &c.Owner)

		return c, scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read contributions: %w", err)
	}

	span.SetAttributes(attribute.Int("source.records", len(contributions)))

	return contributions, nil
}

/*

 */

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("contributions-viewer/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
