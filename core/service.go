package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Engine interface {
	Search(ctx context.Context, query Query) (*Page, error)
	Count(ctx context.Context) (int, error)
}

type engine struct {
	tracer  trace.Tracer
	metrics *QueryMetrics
	store   *Store
}

func NewEngine(store *Store) Engine {
	return &engine{
		tracer:  otel.GetTracerProvider().Tracer("contributions-viewer/core"),
		metrics: NewQueryMetrics(),
		store:   store,
	}
}

func (e *engine) Search(ctx context.Context, query Query) (*Page, error) {
	start := time.Now()

	var err error

	var page *Page

	defer func() { e.metrics.Observe(ctx, query, start, page, err) }()

	ctx, span := e.tracer.Start(ctx, "engine.Search", trace.WithAttributes(
		attribute.String("query.match", string(query.Match)),
		attribute.String("query.order_by", string(query.OrderBy)),
		attribute.StringSlice("query.filters", query.Filters.Supplied()),
		attribute.Int("query.skip", query.Skip),
		attribute.Int("query.limit", query.Limit),
	))
	defer span.End()

	err = query.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	records, err := e.store.Snapshot()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	page = Evaluate(records, query)

	span.SetAttributes(attribute.Int("query.total", page.Total), attribute.Int("query.returned", len(page.Contributions)))

	log.Ctx(ctx).Debug().
		Str("match", string(query.Match)).
		Strs("filters", query.Filters.Supplied()).
		Int("total", page.Total).
		Int("returned", len(page.Contributions)).
		Msg("contributions query evaluated")

	return page, nil
}

func (e *engine) Count(_ context.Context) (int, error) {
	records, err := e.store.Snapshot()
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

/*

 */

type QueryMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
	qResults metric.Int64Histogram
}

func NewQueryMetrics() *QueryMetrics {
	meter := otel.Meter("contributions-viewer/core")

	qTotal, _ := meter.Int64Counter("contributions.query.total")
	qErrors, _ := meter.Int64Counter("contributions.query.errors.total")
	qLatency, _ := meter.Float64Histogram("contributions.query.duration.ms")
	qResults, _ := meter.Int64Histogram("contributions.query.results")

	return &QueryMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency, qResults: qResults}
}

func (m *QueryMetrics) Observe(ctx context.Context, query Query, start time.Time, page *Page, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("query.match", string(query.Match)),
		attribute.String("query.order_by", string(query.OrderBy)),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Microseconds()) / 1000
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}

	if page != nil {
		m.qResults.Record(ctx, int64(page.Total), metric.WithAttributes(attrs...))
	}
}
