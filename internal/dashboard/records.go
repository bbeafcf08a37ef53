package dashboard

import (
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/table"
)

// The executors return generic result tables; these scans map the known
// view projections back onto the domain types so the views work with
// typed records instead of raw cells.

// bondFromRow scans one row of the bond universe projection. An absent
// issuer association leaves Issuer nil; the row itself is never dropped
// for that.
func bondFromRow(t *table.Table, row int) domain.Bond {
	b := domain.Bond{}
	if id, ok := t.Float(row, "bond_id"); ok {
		b.ID = int64(id)
	}
	b.CUSIP, _ = t.String(row, "cusip")
	b.Type, _ = t.String(row, "type")
	b.CouponRate, _ = t.Float(row, "coupon_rate")
	b.IssueDate, _ = t.Time(row, "issue_date")
	b.MaturityDate, _ = t.Time(row, "maturity_date")
	b.Duration, _ = t.Float(row, "duration")
	b.TaxExempt, _ = t.Value(row, "tax_status").(bool)
	b.PurposeCategory, _ = t.String(row, "purpose_category")
	b.PurposeDescription, _ = t.String(row, "purpose_description")
	if name, ok := t.String(row, "issuer_name"); ok {
		state, _ := t.String(row, "issuer_state")
		b.Issuer = &domain.Issuer{Name: name, State: state}
	}
	return b
}

// tradeFromRow scans one row of the trade projection.
func tradeFromRow(t *table.Table, row int) domain.Trade {
	tr := domain.Trade{}
	if id, ok := t.Float(row, "trade_id"); ok {
		tr.ID = int64(id)
	}
	if id, ok := t.Float(row, "bond_id"); ok {
		tr.BondID = int64(id)
	}
	tr.Date, _ = t.Time(row, "date")
	tr.Price, _ = t.Float(row, "price")
	tr.Yield, _ = t.Float(row, "yield")
	if q, ok := t.Float(row, "quantity"); ok {
		tr.Quantity = int64(q)
	}
	return tr
}

// ratingFromRow scans one row of the rating history projection.
func ratingFromRow(t *table.Table, row int) domain.CreditRating {
	r := domain.CreditRating{}
	if id, ok := t.Float(row, "rating_id"); ok {
		r.ID = int64(id)
	}
	if id, ok := t.Float(row, "bond_id"); ok {
		r.BondID = int64(id)
	}
	r.Agency, _ = t.String(row, "agency")
	r.Grade, _ = t.String(row, "grade")
	r.Outlook, _ = t.String(row, "outlook")
	r.RatedAt, _ = t.Time(row, "rated_at")
	return r
}

// worstRating returns the rating with the worst scale rank among the
// table's rows. Unknown grades carry the sentinel rank and so can win.
func worstRating(t *table.Table) (domain.CreditRating, bool) {
	var worst domain.CreditRating
	rank, found := -1, false
	for i := 0; i < t.NumRows(); i++ {
		r := ratingFromRow(t, i)
		if rr := domain.RatingRank(r.Grade); !found || rr > rank {
			worst, rank, found = r, rr, true
		}
	}
	return worst, found
}
