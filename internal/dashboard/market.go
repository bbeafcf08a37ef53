package dashboard

import (
	"context"

	"go.uber.org/zap"

	"muni-dashboard/internal/agg"
	"muni-dashboard/internal/derive"
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/present"
	"muni-dashboard/internal/table"
)

// MarketOverview renders the market overview: universe metrics, top
// coupons, coupon by state, maturity distribution, and trade activity for
// the current filter selection.
func (s *Service) MarketOverview(ctx context.Context, sel domain.FilterSelection) *present.View {
	const name = "market_overview"

	bonds, err := s.fetchBonds(ctx, sel)
	if err != nil {
		s.logger.Error("market overview: bond query failed", zap.Error(err))
		return present.Failed(name, "bond data is unavailable")
	}
	if bonds.Empty() {
		return present.NoData(name, "no bonds match this selection")
	}

	bonds, err = derive.AddYearsToMaturity(bonds, "issue_date", "maturity_date", "years_to_maturity")
	if err == nil {
		bonds, err = derive.AddMaturityYear(bonds, "maturity_date", "maturity_year")
	}
	if err != nil {
		s.logger.Error("market overview: derive failed", zap.Error(err))
		return present.Failed(name, "bond data is unavailable")
	}

	view := &present.View{Name: name, Status: present.StatusOK}
	view.Metrics = append(view.Metrics,
		present.Metric{Label: "Bonds", Value: bonds.NumRows()},
		meanMetric(bonds, "coupon_rate", "Avg Coupon"),
		meanMetric(bonds, "duration", "Avg Duration"),
		meanMetric(bonds, "years_to_maturity", "Avg Years to Maturity"),
	)

	view.Listings = append(view.Listings, present.Listing{
		Title: "Top Coupons",
		Data:  agg.TopN(bonds, "coupon_rate", topN),
	})

	byState, err := agg.GroupMean(bonds, "issuer_state", "coupon_rate", topN)
	if err != nil {
		s.logger.Error("market overview: coupon by state failed", zap.Error(err))
		return present.Failed(name, "bond data is unavailable")
	}
	view.Charts = append(view.Charts, present.Chart{
		Title: "Avg Coupon by State",
		Kind:  present.ChartBar,
		Data:  byState,
		X:     "issuer_state",
		Y:     "coupon_rate",
	})

	byYear, err := agg.GroupCount(bonds, "maturity_year", 0)
	if err != nil {
		s.logger.Error("market overview: maturity distribution failed", zap.Error(err))
		return present.Failed(name, "bond data is unavailable")
	}
	view.Charts = append(view.Charts, present.Chart{
		Title:   "Maturity Year Distribution",
		Kind:    present.ChartBar,
		Data:    byYear,
		X:       "maturity_year",
		Y:       "count",
		Tooltip: "count",
	})

	s.addTradeActivity(ctx, sel, view)
	return view
}

// addTradeActivity appends trade metrics to the market view. A failing
// trade backend degrades this section only; the rest of the view stands.
func (s *Service) addTradeActivity(ctx context.Context, sel domain.FilterSelection, view *present.View) {
	trades, err := s.fetchTrades(ctx, sel)
	if err != nil {
		s.logger.Warn("market overview: trade activity unavailable", zap.Error(err))
		view.Message = "trade activity is unavailable"
		return
	}
	if trades.Empty() {
		return
	}

	latest, err := derive.LatestPerKey(trades, "date", "bond_id")
	if err != nil {
		s.logger.Warn("market overview: latest trades failed", zap.Error(err))
		view.Message = "trade activity is unavailable"
		return
	}

	view.Metrics = append(view.Metrics,
		present.Metric{Label: "Trades", Value: trades.NumRows()},
		meanMetric(latest, "price", "Avg Latest Price"),
		meanMetric(latest, "yield", "Avg Latest Yield"),
	)
	view.Charts = append(view.Charts, present.Chart{
		Title:   "Latest Price vs Yield",
		Kind:    present.ChartScatter,
		Data:    latest,
		X:       "yield",
		Y:       "price",
		Tooltip: "cusip",
	})
}

// meanMetric builds a mean metric; a column with no data carries a nil
// value so presentation can show "no data" instead of zero.
func meanMetric(t *table.Table, col, label string) present.Metric {
	if m, ok := agg.Mean(t, col); ok {
		return present.Metric{Label: label, Value: m}
	}
	return present.Metric{Label: label, Value: nil}
}
