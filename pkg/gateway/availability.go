package gateway

import "sync/atomic"

// Availability is a typed unavailability latch for a vector index. Once
// latched, callers skip probing the index until Reset. Races are benign
// (worst case one extra failed probe); the atomic keeps the race detector
// quiet in tests. Retrieval and extraction each own a separate instance.
type Availability struct {
	down atomic.Bool
}

// Available reports whether the index should be probed.
func (a *Availability) Available() bool {
	return !a.down.Load()
}

// MarkUnavailable latches the index off.
func (a *Availability) MarkUnavailable() {
	a.down.Store(true)
}

// Reset clears the latch so the next call probes the index again.
func (a *Availability) Reset() {
	a.down.Store(false)
}
