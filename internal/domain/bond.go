package domain

import "time"

// Bond represents a municipal bond instrument.
// CUSIP uniquely identifies a bond; MaturityDate is always after IssueDate.
type Bond struct {
	ID           int64
	CUSIP        string // unique, fixed-format identifier
	Type         string
	CouponRate   float64 // percentage
	IssueDate    time.Time
	MaturityDate time.Time
	Duration     float64 // years
	TaxExempt    bool

	PurposeCategory    string
	PurposeDescription string

	// Issuer association is optional (left-joined); nil when absent.
	Issuer *Issuer
}

// Issuer is the entity backing zero or more bonds. A bond has at most one
// issuer in this model.
type Issuer struct {
	ID    int64
	Name  string
	State string // two-letter code
}
