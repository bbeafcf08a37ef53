package dashboard

import (
	"context"

	"go.uber.org/zap"

	"muni-dashboard/internal/agg"
	"muni-dashboard/internal/derive"
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/present"
)

// RatingsRisk renders the ratings & risk view: current rating per bond,
// grade distribution in scale order, the worst-rated bonds, and the
// outlook breakdown for the current filter selection.
func (s *Service) RatingsRisk(ctx context.Context, sel domain.FilterSelection) *present.View {
	const name = "ratings_risk"

	ratings, err := s.fetchRatings(ctx, sel)
	if err != nil {
		s.logger.Error("ratings view: rating query failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}
	if ratings.Empty() {
		return present.NoData(name, "no ratings match this selection")
	}

	// Current rating per bond: max rated_at, first-encountered on ties
	// (input is ordered by rated_at with rating_id as stable secondary key).
	current, err := derive.LatestPerKey(ratings, "rated_at", "bond_id")
	if err != nil {
		s.logger.Error("ratings view: latest per bond failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}
	current, err = derive.AddRatingRank(current, "grade", "rating_rank", s.logger)
	if err != nil {
		s.logger.Error("ratings view: rating rank failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}

	view := &present.View{Name: name, Status: present.StatusOK}
	view.Metrics = append(view.Metrics,
		present.Metric{Label: "Rated Bonds", Value: current.NumRows()},
		present.Metric{Label: "Rating Events", Value: ratings.NumRows()},
	)
	if worst, ok := worstRating(current); ok {
		view.Metrics = append(view.Metrics,
			present.Metric{Label: "Worst Grade", Value: worst.Grade})
	}

	distribution, err := agg.GroupCount(current, "grade", 0)
	if err == nil {
		// Order grades best-to-worst by scale rank rather than by count.
		// The per-bond pass above already logged any unknown grades for
		// this render, so this re-rank stays quiet.
		distribution, err = derive.AddRatingRank(distribution, "grade", "rating_rank", zap.NewNop())
	}
	if err != nil {
		s.logger.Error("ratings view: distribution failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}
	distribution = agg.BottomN(distribution, "rating_rank", 0)
	view.Charts = append(view.Charts, present.Chart{
		Title:   "Current Rating Distribution",
		Kind:    present.ChartBar,
		Data:    distribution,
		X:       "grade",
		Y:       "count",
		Tooltip: "count",
	})

	view.Listings = append(view.Listings, present.Listing{
		Title: "Lowest Rated Bonds",
		Data:  agg.TopN(current, "rating_rank", topN),
	})

	outlooks, err := agg.GroupCount(current, "outlook", 0)
	if err != nil {
		s.logger.Error("ratings view: outlook breakdown failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}
	view.Charts = append(view.Charts, present.Chart{
		Title: "Outlook Breakdown",
		Kind:  present.ChartBar,
		Data:  outlooks,
		X:     "outlook",
		Y:     "count",
	})

	// Per-agency current ratings for side-by-side comparison.
	byAgency, err := derive.LatestPerKey(ratings, "rated_at", "bond_id", "agency")
	if err != nil {
		s.logger.Error("ratings view: latest per bond+agency failed", zap.Error(err))
		return present.Failed(name, "rating data is unavailable")
	}
	view.Listings = append(view.Listings, present.Listing{
		Title: "Current Ratings by Agency",
		Data:  byAgency,
	})

	return view
}
