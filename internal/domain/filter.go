package domain

// Filter dimension names accepted by the dashboard views.
const (
	DimState           = "state"
	DimBondType        = "type"
	DimPurposeCategory = "purpose"
	DimRatingAgency    = "agency"
	DimOutlook         = "outlook"
	DimCUSIP           = "cusip"
)

// FilterSelection maps a filter dimension name to the values the user
// selected for it. It is request-scoped: created per view render, consumed
// by query assembly, then discarded. An absent or empty dimension means
// "no restriction" on that dimension, never "match nothing".
type FilterSelection map[string][]string

// Values returns the selected values for a dimension, nil when unrestricted.
func (s FilterSelection) Values(dim string) []string {
	return s[dim]
}

// Active reports whether the dimension restricts the result set.
func (s FilterSelection) Active(dim string) bool {
	return len(s[dim]) > 0
}
