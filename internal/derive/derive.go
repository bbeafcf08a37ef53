// Package derive computes fields not stored directly: years to maturity,
// maturity year, credit-rating ordinal rank, and latest-record-per-key
// selection. All functions are pure over a fetched result table; no I/O.
package derive

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/table"
)

// YearsToMaturity returns (maturity - issue) in days divided by 365.0.
func YearsToMaturity(issue, maturity time.Time) float64 {
	return maturity.Sub(issue).Hours() / 24 / 365.0
}

// MaturityYear returns the calendar year component of the maturity date.
func MaturityYear(maturity time.Time) int {
	return maturity.Year()
}

// AddYearsToMaturity appends a years-to-maturity column computed from the
// issue and maturity date columns. A row with either date missing gets a
// NULL in the derived column; it stays in the table.
func AddYearsToMaturity(t *table.Table, issueCol, maturityCol, out string) (*table.Table, error) {
	if err := requireColumns(t, issueCol, maturityCol); err != nil {
		return nil, err
	}
	vals := make([]any, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		issue, okIssue := t.Time(i, issueCol)
		maturity, okMaturity := t.Time(i, maturityCol)
		if !okIssue || !okMaturity {
			continue
		}
		vals[i] = YearsToMaturity(issue, maturity)
	}
	return t.WithColumn(out, vals)
}

// AddMaturityYear appends a maturity-year column. Rows with a missing
// maturity date get NULL.
func AddMaturityYear(t *table.Table, maturityCol, out string) (*table.Table, error) {
	if err := requireColumns(t, maturityCol); err != nil {
		return nil, err
	}
	vals := make([]any, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if maturity, ok := t.Time(i, maturityCol); ok {
			vals[i] = float64(MaturityYear(maturity))
		}
	}
	return t.WithColumn(out, vals)
}

// AddRatingRank appends the ordinal rank of the grade column per the fixed
// rating scale. Grades outside the scale get the sentinel worst-case rank
// and are logged once per distinct grade as a data-quality signal; they are
// never dropped and never fail the computation.
func AddRatingRank(t *table.Table, gradeCol, out string, logger *zap.Logger) (*table.Table, error) {
	if err := requireColumns(t, gradeCol); err != nil {
		return nil, err
	}
	seenUnknown := make(map[string]bool)
	vals := make([]any, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		grade, ok := t.String(i, gradeCol)
		if !ok {
			vals[i] = float64(domain.UnknownRatingRank)
			continue
		}
		if !domain.KnownGrade(grade) && !seenUnknown[grade] {
			seenUnknown[grade] = true
			logger.Warn("unknown rating grade, ranked worst-case",
				zap.String("grade", grade))
		}
		vals[i] = float64(domain.RatingRank(grade))
	}
	return t.WithColumn(out, vals)
}

// LatestPerKey selects, for each distinct key, the row with the maximum
// date. Rows with a missing date or key are skipped. Equal max dates
// resolve to the first row encountered in the input ordering; callers that
// need a deterministic result supply input ordered by date with a stable
// row identifier as secondary sort key. Output rows appear in first-seen
// key order, which makes the operation idempotent: applying it to its own
// output returns the same table.
func LatestPerKey(t *table.Table, dateCol string, keyCols ...string) (*table.Table, error) {
	if len(keyCols) == 0 {
		return nil, fmt.Errorf("latest per key: no key columns")
	}
	if err := requireColumns(t, append([]string{dateCol}, keyCols...)...); err != nil {
		return nil, err
	}

	type best struct {
		row  int
		date time.Time
	}
	byKey := make(map[string]best)
	var order []string

	for i := 0; i < t.NumRows(); i++ {
		date, ok := t.Time(i, dateCol)
		if !ok {
			continue
		}
		k, ok := rowKey(t, i, keyCols)
		if !ok {
			continue
		}
		cur, seen := byKey[k]
		if !seen {
			byKey[k] = best{row: i, date: date}
			order = append(order, k)
			continue
		}
		// Strict greater-than keeps the first-encountered row on ties.
		if date.After(cur.date) {
			byKey[k] = best{row: i, date: date}
		}
	}

	indices := make([]int, 0, len(order))
	for _, k := range order {
		indices = append(indices, byKey[k].row)
	}
	return t.Select(indices), nil
}

// rowKey joins the key column values for a row. The unit separator keeps
// composite keys unambiguous.
func rowKey(t *table.Table, row int, keyCols []string) (string, bool) {
	var b []byte
	for i, col := range keyCols {
		v := t.Value(row, col)
		if v == nil {
			return "", false
		}
		if i > 0 {
			b = append(b, 0x1f)
		}
		b = append(b, fmt.Sprintf("%v", v)...)
	}
	return string(b), true
}

func requireColumns(t *table.Table, cols ...string) error {
	for _, col := range cols {
		if !t.HasColumn(col) {
			return fmt.Errorf("table has no column %q", col)
		}
	}
	return nil
}
