package domain

import "time"

// CreditRating is one rating event for a bond from a single agency.
// A bond may accumulate ratings over time from multiple agencies; the
// current rating is the one with the maximum date per bond (or per
// bond+agency when agencies are compared).
type CreditRating struct {
	ID      int64
	BondID  int64
	Agency  string
	Grade   string // ordinal grade, e.g. "AA+"
	Outlook string // e.g. "stable", "positive", "negative"
	RatedAt time.Time
}

// RatingScale is the fixed, total, strictly-ordered enumeration of known
// grades from best to worst. Grades outside this scale rank after every
// known grade (worst-case), never excluded.
var RatingScale = []string{
	"AAA",
	"AA+", "AA", "AA-",
	"A+", "A", "A-",
	"BBB+", "BBB", "BBB-",
	"BB+", "BB", "BB-",
	"B+", "B", "B-",
	"CCC+", "CCC", "CCC-",
	"CC",
	"C",
	"D",
}

// UnknownRatingRank is the sentinel rank assigned to grades outside
// RatingScale. It is strictly worse than every known grade, so ranking is
// a total order over arbitrary observed strings with no failure path.
var UnknownRatingRank = len(RatingScale)

var ratingRank = func() map[string]int {
	m := make(map[string]int, len(RatingScale))
	for i, g := range RatingScale {
		m[g] = i
	}
	return m
}()

// RatingRank returns the ordinal position of a grade in RatingScale
// (0 = best). Unrecognized grades map to UnknownRatingRank.
func RatingRank(grade string) int {
	if r, ok := ratingRank[grade]; ok {
		return r
	}
	return UnknownRatingRank
}

// KnownGrade reports whether the grade is part of RatingScale.
func KnownGrade(grade string) bool {
	_, ok := ratingRank[grade]
	return ok
}
