// Package dashboard composes the filter, query, cache, derive, and agg
// layers into the render inputs for the three dashboard views: market
// overview, bond explorer, and ratings & risk.
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"muni-dashboard/internal/cache"
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/query"
	"muni-dashboard/internal/table"
)

// topN is the fixed cut applied to every ranked view.
const topN = 10

// Service renders dashboard views. Each render is sequential and blocking:
// one or more executor calls through the cache, then pure computation. The
// cache is the only state shared across renders.
type Service struct {
	cache     *cache.Cache
	trades    *cache.Cache
	tradeTmpl viewTemplate
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTradeArchive routes trade queries to a separate cached backend (the
// ClickHouse trade archive) instead of the primary store.
func WithTradeArchive(trades *cache.Cache) Option {
	return func(s *Service) {
		s.trades = trades
		s.tradeTmpl = tradeArchiveTmpl
	}
}

// NewService creates a dashboard service over the cached primary backend.
func NewService(c *cache.Cache, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		cache:     c,
		trades:    c,
		tradeTmpl: tradeTmpl,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetch assembles and runs one filtered view query through the cache.
func (s *Service) fetch(ctx context.Context, c *cache.Cache, class cache.Class, tmpl viewTemplate, sel domain.FilterSelection) (*table.Table, error) {
	preds := query.BuildPredicates(sel, tmpl.dims)
	q, params := query.Assemble(tmpl.dialect, tmpl.base, preds, tmpl.suffix)
	return c.Query(ctx, class, q, params)
}

// fetchBonds runs the filtered bond universe query.
func (s *Service) fetchBonds(ctx context.Context, sel domain.FilterSelection) (*table.Table, error) {
	return s.fetch(ctx, s.cache, cache.ClassView, bondTmpl, sel)
}

// fetchTrades runs the filtered trade query against the trade backend.
func (s *Service) fetchTrades(ctx context.Context, sel domain.FilterSelection) (*table.Table, error) {
	return s.fetch(ctx, s.trades, cache.ClassView, s.tradeTmpl, sel)
}

// fetchRatings runs the filtered rating history query.
func (s *Service) fetchRatings(ctx context.Context, sel domain.FilterSelection) (*table.Table, error) {
	return s.fetch(ctx, s.cache, cache.ClassView, ratingTmpl, sel)
}

// reference runs an unfiltered reference-list query under the long TTL.
func (s *Service) reference(ctx context.Context, q string) (*table.Table, error) {
	return s.cache.Query(ctx, cache.ClassReference, q, nil)
}

// columnValues flattens one string column into a slice, skipping NULLs.
func columnValues(t *table.Table, col string) []string {
	vals := make([]string, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if v, ok := t.String(i, col); ok {
			vals = append(vals, v)
		}
	}
	return vals
}
