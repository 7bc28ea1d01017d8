package host

import "sync/atomic"

// Refs counts guest values owned by the host that have not been released.
type Refs struct {
	live atomic.Int64
}

// Inc records a new owned reference.
func (r *Refs) Inc() {
	r.live.Add(1)
}

// Dec records a released reference.
func (r *Refs) Dec() {
	r.live.Add(-1)
}

// Live returns the number of outstanding owned references.
func (r *Refs) Live() int64 {
	return r.live.Load()
}
