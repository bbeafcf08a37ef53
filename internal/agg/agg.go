// Package agg provides the pure reducers feeding the dashboard views:
// means and counts over numeric columns, top-N / bottom-N selection, and
// grouped aggregates. No formatting happens here; rendering of currency
// and percent values is a presentation concern.
package agg

import (
	"fmt"
	"sort"

	"muni-dashboard/internal/table"
)

// Mean returns the arithmetic mean of the column's non-NULL numeric
// values. The second return is false when no such value exists: an empty
// input has no mean, it is "no data", not zero.
func Mean(t *table.Table, col string) (float64, bool) {
	sum := 0.0
	n := 0
	for i := 0; i < t.NumRows(); i++ {
		if v, ok := t.Float(i, col); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Count returns the number of non-NULL values in the column.
func Count(t *table.Table, col string) int {
	n := 0
	for i := 0; i < t.NumRows(); i++ {
		if t.Value(i, col) != nil {
			n++
		}
	}
	return n
}

// TopN returns the n rows with the largest values in the sort column.
// The sort is stable: ties keep their original row order, so a tie at the
// cutoff resolves to the first-encountered row, deterministically. Rows
// without a numeric value in the sort column are excluded.
func TopN(t *table.Table, sortCol string, n int) *table.Table {
	return rankRows(t, sortCol, n, true)
}

// BottomN returns the n rows with the smallest values in the sort column,
// with the same stability and NULL handling as TopN.
func BottomN(t *table.Table, sortCol string, n int) *table.Table {
	return rankRows(t, sortCol, n, false)
}

func rankRows(t *table.Table, sortCol string, n int, descending bool) *table.Table {
	type ranked struct {
		row int
		val float64
	}
	var rows []ranked
	for i := 0; i < t.NumRows(); i++ {
		if v, ok := t.Float(i, sortCol); ok {
			rows = append(rows, ranked{row: i, val: v})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return rows[i].val > rows[j].val
		}
		return rows[i].val < rows[j].val
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	indices := make([]int, len(rows))
	for i, r := range rows {
		indices[i] = r.row
	}
	return t.Select(indices)
}

// GroupMean groups rows by the group column, averages the value column per
// group (NULL values excluded), and returns a two-column table sorted
// descending by the mean and truncated to the top n groups (n <= 0 keeps
// all). Groups tied on the mean keep first-appearance order. Rows with a
// NULL group are skipped; a group whose values are all NULL is dropped
// rather than reported as zero.
func GroupMean(t *table.Table, groupCol, valCol string, n int) (*table.Table, error) {
	groups, order, err := groupRows(t, groupCol)
	if err != nil {
		return nil, err
	}

	type groupMean struct {
		key  string
		mean float64
	}
	var means []groupMean
	for _, key := range order {
		sub := t.Select(groups[key])
		if m, ok := Mean(sub, valCol); ok {
			means = append(means, groupMean{key: key, mean: m})
		}
	}

	sort.SliceStable(means, func(i, j int) bool { return means[i].mean > means[j].mean })
	if n > 0 && len(means) > n {
		means = means[:n]
	}

	out := table.New(groupCol, valCol)
	for _, g := range means {
		if err := out.AppendRow(g.key, g.mean); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GroupCount groups rows by the group column and returns a table of
// (group, count) sorted descending by count, truncated to the top n groups
// (n <= 0 keeps all). Ties keep first-appearance order.
func GroupCount(t *table.Table, groupCol string, n int) (*table.Table, error) {
	groups, order, err := groupRows(t, groupCol)
	if err != nil {
		return nil, err
	}

	type groupCount struct {
		key   string
		count int
	}
	counts := make([]groupCount, 0, len(order))
	for _, key := range order {
		counts = append(counts, groupCount{key: key, count: len(groups[key])})
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}

	out := table.New(groupCol, "count")
	for _, g := range counts {
		if err := out.AppendRow(g.key, float64(g.count)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// groupRows buckets row indices by the group column's printed value,
// preserving first-appearance order of groups. NULL groups are skipped.
func groupRows(t *table.Table, groupCol string) (map[string][]int, []string, error) {
	if !t.HasColumn(groupCol) {
		return nil, nil, fmt.Errorf("table has no column %q", groupCol)
	}
	groups := make(map[string][]int)
	var order []string
	for i := 0; i < t.NumRows(); i++ {
		v := t.Value(i, groupCol)
		if v == nil {
			continue
		}
		key := fmt.Sprintf("%v", v)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return groups, order, nil
}
