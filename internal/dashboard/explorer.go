package dashboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"muni-dashboard/internal/derive"
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/present"
)

// CUSIPs returns the selectable bond identifiers, cached under the
// reference TTL.
func (s *Service) CUSIPs(ctx context.Context) ([]string, error) {
	t, err := s.reference(ctx, cusipListQuery)
	if err != nil {
		return nil, err
	}
	return columnValues(t, "cusip"), nil
}

// BondExplorer renders the single-bond view: metadata summary, price and
// yield history, and latest-trade metrics.
func (s *Service) BondExplorer(ctx context.Context, cusip string) *present.View {
	const name = "bond_explorer"

	cusip = strings.TrimSpace(cusip)
	if cusip == "" {
		return present.NoData(name, "no bond selected")
	}
	sel := domain.FilterSelection{domain.DimCUSIP: []string{cusip}}

	bond, err := s.fetchBonds(ctx, sel)
	if err != nil {
		s.logger.Error("bond explorer: metadata query failed",
			zap.String("cusip", cusip), zap.Error(err))
		return present.Failed(name, "bond data is unavailable")
	}
	if bond.Empty() {
		return present.NoData(name, "no metadata found for this bond")
	}

	b := bondFromRow(bond, 0)
	// Issuer fields are nil when the association is absent; the bond
	// itself is never dropped for that.
	var issuerName, issuerState any
	if b.Issuer != nil {
		issuerName, issuerState = b.Issuer.Name, b.Issuer.State
	}

	view := &present.View{Name: name, Status: present.StatusOK}
	view.Metrics = append(view.Metrics,
		present.Metric{Label: "CUSIP", Value: b.CUSIP},
		present.Metric{Label: "Issuer", Value: issuerName},
		present.Metric{Label: "State", Value: issuerState},
		present.Metric{Label: "Type", Value: b.Type},
		present.Metric{Label: "Purpose", Value: b.PurposeCategory},
		present.Metric{Label: "Coupon", Value: b.CouponRate},
		present.Metric{Label: "Issue Date", Value: b.IssueDate},
		present.Metric{Label: "Maturity Date", Value: b.MaturityDate},
		present.Metric{Label: "Duration", Value: b.Duration},
		present.Metric{Label: "Tax Exempt", Value: b.TaxExempt},
	)
	if !b.IssueDate.IsZero() && !b.MaturityDate.IsZero() {
		view.Metrics = append(view.Metrics, present.Metric{
			Label: "Years to Maturity",
			Value: derive.YearsToMaturity(b.IssueDate, b.MaturityDate),
		})
	}
	view.Listings = append(view.Listings, present.Listing{Title: "Bond Summary", Data: bond})

	trades, err := s.fetchTrades(ctx, sel)
	if err != nil {
		s.logger.Warn("bond explorer: trade query failed",
			zap.String("cusip", cusip), zap.Error(err))
		view.Message = "trade history is unavailable"
		return view
	}
	if trades.Empty() {
		view.Message = "no trades found for this bond"
		return view
	}

	view.Charts = append(view.Charts,
		present.Chart{
			Title: "Price over Time",
			Kind:  present.ChartLine,
			Data:  trades,
			X:     "date",
			Y:     "price",
		},
		present.Chart{
			Title: "Yield over Time",
			Kind:  present.ChartLine,
			Data:  trades,
			X:     "date",
			Y:     "yield",
		},
	)

	latest, err := derive.LatestPerKey(trades, "date", "bond_id")
	if err != nil || latest.Empty() {
		if err != nil {
			s.logger.Warn("bond explorer: latest trade failed", zap.Error(err))
		}
		return view
	}
	last := tradeFromRow(latest, 0)
	view.Metrics = append(view.Metrics,
		present.Metric{Label: "Latest Price", Value: last.Price},
		present.Metric{Label: "Latest Yield", Value: last.Yield},
		present.Metric{Label: "Last Trade Date", Value: last.Date},
	)
	return view
}
