package dashboard

import (
	"context"

	"go.uber.org/zap"

	"muni-dashboard/internal/domain"
)

// FilterOptions returns the selectable values per filter dimension, each
// cached under the reference TTL. A dimension whose reference query fails
// is returned empty rather than failing the rest.
func (s *Service) FilterOptions(ctx context.Context) map[string][]string {
	lists := []struct {
		dim   string
		query string
		col   string
	}{
		{domain.DimState, stateOptions, "state"},
		{domain.DimBondType, typeOptions, "type"},
		{domain.DimPurposeCategory, purposeOptions, "category"},
		{domain.DimRatingAgency, agencyOptions, "agency"},
		{domain.DimOutlook, outlookOptions, "outlook"},
	}

	opts := make(map[string][]string, len(lists))
	for _, l := range lists {
		t, err := s.reference(ctx, l.query)
		if err != nil {
			s.logger.Warn("filter options unavailable",
				zap.String("dimension", l.dim), zap.Error(err))
			opts[l.dim] = []string{}
			continue
		}
		opts[l.dim] = columnValues(t, l.col)
	}
	return opts
}
