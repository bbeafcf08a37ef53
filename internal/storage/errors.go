package storage

import "errors"

// ErrDataSource marks executor failures: unreachable store, malformed
// query, scan failure. Views surface it as a per-view failure state; it
// must never abort other independent views. No retry path exists; the next
// render after TTL expiry is the only recovery.
var ErrDataSource = errors.New("data source error")
