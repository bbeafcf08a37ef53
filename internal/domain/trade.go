package domain

import "time"

// Trade is one recorded trade of a bond. Trades are ordered by date;
// the latest trade for a bond is the one with the maximum date.
type Trade struct {
	ID       int64
	BondID   int64
	Date     time.Time
	Price    float64 // currency, positive
	Yield    float64 // percentage, may be negative
	Quantity int64
}
