package dashboard

import "muni-dashboard/internal/query"

// viewTemplate pairs a base query (fixed projection and joins) with its
// suffix and filterable dimensions. Templates stay valid with zero, one,
// or many active predicates; the assembler only appends a WHERE block
// between base and suffix.
type viewTemplate struct {
	base    string
	suffix  string
	dims    []query.Dimension
	dialect query.Dialect
}

// bondTmpl is the filtered bond universe. The issuer association is
// left-joined: bonds without an issuer stay in the result with NULL
// issuer_name/issuer_state, and are dropped only when a state filter is
// active (a NULL state matches no "is any of" set). That is the documented
// post-join contract of the state dimension.
var bondTmpl = viewTemplate{
	base: `SELECT
  b.id AS bond_id,
  b.cusip, b.type, b.coupon_rate, b.issue_date, b.maturity_date,
  b.duration, b.tax_status,
  bp.category AS purpose_category, bp.description AS purpose_description,
  i.name AS issuer_name, i.state AS issuer_state
FROM bonds b
JOIN bonds_purposes bp ON b.purpose_id = bp.id
LEFT JOIN bonds_issuers bi ON bi.bond_id = b.id
LEFT JOIN issuers i ON bi.issuer_id = i.id`,
	suffix: `ORDER BY b.cusip ASC, b.id ASC`,
	dims: []query.Dimension{
		{Name: "state", Column: "i.state", Scope: query.ScopePostJoin},
		{Name: "type", Column: "b.type", Scope: query.ScopePostJoin},
		{Name: "purpose", Column: "bp.category", Scope: query.ScopePostJoin},
		{Name: "cusip", Column: "b.cusip", Scope: query.ScopePostJoin},
	},
	dialect: query.DialectPostgres,
}

// tradeTmpl joins trades back through bonds so trade views accept the same
// filter dimensions as bond views. Ordered by date with the trade id as
// stable secondary key: latest-per-key tie-breaks depend on deterministic
// input ordering.
var tradeTmpl = viewTemplate{
	base: `SELECT
  b.id AS bond_id, b.cusip,
  t.id AS trade_id, t.date, t.price, t.yield, t.quantity
FROM trades t
JOIN bonds_trades bt ON bt.trade_id = t.id
JOIN bonds b ON b.id = bt.bond_id
JOIN bonds_purposes bp ON b.purpose_id = bp.id
LEFT JOIN bonds_issuers bi ON bi.bond_id = b.id
LEFT JOIN issuers i ON bi.issuer_id = i.id`,
	suffix: `ORDER BY t.date ASC, t.id ASC`,
	dims: []query.Dimension{
		{Name: "state", Column: "i.state", Scope: query.ScopePostJoin},
		{Name: "type", Column: "b.type", Scope: query.ScopePostJoin},
		{Name: "purpose", Column: "bp.category", Scope: query.ScopePostJoin},
		{Name: "cusip", Column: "b.cusip", Scope: query.ScopePostJoin},
	},
	dialect: query.DialectPostgres,
}

// tradeArchiveTmpl serves the same trade view contract from the
// denormalized ClickHouse trade archive when one is configured.
var tradeArchiveTmpl = viewTemplate{
	base: `SELECT
  bond_id, cusip, trade_id, date, price, yield, quantity
FROM trade_archive`,
	suffix: `ORDER BY date ASC, trade_id ASC`,
	dims: []query.Dimension{
		{Name: "state", Column: "issuer_state", Scope: query.ScopePostJoin},
		{Name: "type", Column: "bond_type", Scope: query.ScopePostJoin},
		{Name: "purpose", Column: "purpose_category", Scope: query.ScopePostJoin},
		{Name: "cusip", Column: "cusip", Scope: query.ScopePostJoin},
	},
	dialect: query.DialectClickHouse,
}

// ratingTmpl is the filtered rating history. Agency and outlook restrict
// the rating row itself; state, type, and purpose restrict the bond side.
var ratingTmpl = viewTemplate{
	base: `SELECT
  b.id AS bond_id, b.cusip,
  r.id AS rating_id, r.agency, r.grade, r.outlook, r.rated_at
FROM credit_ratings r
JOIN bonds b ON b.id = r.bond_id
JOIN bonds_purposes bp ON b.purpose_id = bp.id
LEFT JOIN bonds_issuers bi ON bi.bond_id = b.id
LEFT JOIN issuers i ON bi.issuer_id = i.id`,
	suffix: `ORDER BY r.rated_at ASC, r.id ASC`,
	dims: []query.Dimension{
		{Name: "state", Column: "i.state", Scope: query.ScopePostJoin},
		{Name: "type", Column: "b.type", Scope: query.ScopePostJoin},
		{Name: "purpose", Column: "bp.category", Scope: query.ScopePostJoin},
		{Name: "agency", Column: "r.agency", Scope: query.ScopePostJoin},
		{Name: "outlook", Column: "r.outlook", Scope: query.ScopePostJoin},
	},
	dialect: query.DialectPostgres,
}

// Reference lists: slowly changing, cached under the long TTL class.
const (
	cusipListQuery = `SELECT cusip FROM bonds ORDER BY cusip ASC`
	stateOptions   = `SELECT DISTINCT state FROM issuers ORDER BY state ASC`
	typeOptions    = `SELECT DISTINCT type FROM bonds ORDER BY type ASC`
	purposeOptions = `SELECT DISTINCT category FROM bonds_purposes ORDER BY category ASC`
	agencyOptions  = `SELECT DISTINCT agency FROM credit_ratings ORDER BY agency ASC`
	outlookOptions = `SELECT DISTINCT outlook FROM credit_ratings ORDER BY outlook ASC`
)
