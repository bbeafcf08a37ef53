// Package present holds the inputs the dashboard core hands to the
// rendering layer: charts, tabular listings, and scalar metrics, wrapped
// in a per-view envelope. The core prepares these values and nothing else;
// rendering and number formatting live outside.
package present

import "muni-dashboard/internal/table"

// ChartKind selects the chart primitive used to render a table.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
)

// Chart is a table plus the column bindings a chart needs.
type Chart struct {
	Title   string       `json:"title"`
	Kind    ChartKind    `json:"kind"`
	Data    *table.Table `json:"data"`
	X       string       `json:"x"`
	Y       string       `json:"y"`
	Color   string       `json:"color,omitempty"`
	Tooltip string       `json:"tooltip,omitempty"`
}

// Listing is a table rendered as a plain tabular view.
type Listing struct {
	Title string       `json:"title"`
	Data  *table.Table `json:"data"`
}

// Metric is a single highlighted scalar with its label.
type Metric struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Status is the outcome of one view render.
type Status string

const (
	// StatusOK means the view has data.
	StatusOK Status = "ok"
	// StatusNoData means the queries succeeded but returned zero rows for
	// the current selection. Informational, not an error.
	StatusNoData Status = "no_data"
	// StatusError means a data-source failure; the message carries the
	// user-visible explanation. Other views are unaffected.
	StatusError Status = "error"
)

// View is the complete render input for one dashboard view.
type View struct {
	Name     string    `json:"name"`
	Status   Status    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Metrics  []Metric  `json:"metrics,omitempty"`
	Charts   []Chart   `json:"charts,omitempty"`
	Listings []Listing `json:"listings,omitempty"`
}

// NoData builds a "no data for this selection" view.
func NoData(name, message string) *View {
	return &View{Name: name, Status: StatusNoData, Message: message}
}

// Failed builds a per-view failure state.
func Failed(name, message string) *View {
	return &View{Name: name, Status: StatusError, Message: message}
}
