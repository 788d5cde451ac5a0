// Package route implements the per-destination route tables shared by
// the dynamic routing engines (spec.md §3 "Route entry"): a sink-oriented
// shape for Directed Diffusion and a destination-oriented shape for AODV.
// OLSRv2 builds its own path on demand from a topology matrix (see
// package olsrv2) rather than maintaining one of these tables.
package route

import "github.com/kprusa/wsnrouting/routing"

// SinkEntry is a Directed Diffusion gradient towards one sink. Each sink
// id has at most one entry, which is by construction the "current" one.
type SinkEntry struct {
	SinkID     routing.NodeID
	NextHop    routing.NodeID
	NextHopLQE float64
	HopToSink  int
	LastUpdate routing.Time
}

// SinkTable holds one gradient per sink.
type SinkTable struct {
	entries map[routing.NodeID]*SinkEntry
}

// NewSinkTable creates an empty sink-oriented route table.
func NewSinkTable() *SinkTable {
	return &SinkTable{entries: make(map[routing.NodeID]*SinkEntry)}
}

// Get returns the current entry for sink, if any.
func (t *SinkTable) Get(sink routing.NodeID) (*SinkEntry, bool) {
	e, ok := t.entries[sink]
	return e, ok
}

// Best returns the entry with the fewest hops among all known sinks,
// breaking ties by smallest sink id; used to resolve "closest sink"
// (Broadcast end-destination) data forwarding in Directed Diffusion.
func (t *SinkTable) Best() (*SinkEntry, bool) {
	var best *SinkEntry
	for _, e := range t.entries {
		if best == nil || e.HopToSink < best.HopToSink ||
			(e.HopToSink == best.HopToSink && e.SinkID < best.SinkID) {
			best = e
		}
	}
	return best, best != nil
}

// Update applies spec.md §4.3's gradient update rule: install candidate
// as the route to sink if no entry exists yet, or if candidate has fewer
// hops, or if hops tie and candidate's next-hop LQE is strictly higher.
// Returns true if the table changed.
func (t *SinkTable) Update(sink, nextHop routing.NodeID, hopToSink int, nextHopLQE float64, now routing.Time) bool {
	cur, ok := t.entries[sink]
	if !ok {
		t.entries[sink] = &SinkEntry{
			SinkID:     sink,
			NextHop:    nextHop,
			NextHopLQE: nextHopLQE,
			HopToSink:  hopToSink,
			LastUpdate: now,
		}
		return true
	}
	if hopToSink < cur.HopToSink || (hopToSink == cur.HopToSink && nextHopLQE > cur.NextHopLQE) {
		cur.NextHop = nextHop
		cur.NextHopLQE = nextHopLQE
		cur.HopToSink = hopToSink
		cur.LastUpdate = now
		return true
	}
	return false
}

// InvalidateVia removes every sink entry whose next-hop is dead, called
// when the neighbor table evicts dead, returning the sinks affected.
func (t *SinkTable) InvalidateVia(nextHop routing.NodeID) []routing.NodeID {
	var removed []routing.NodeID
	for sink, e := range t.entries {
		if e.NextHop == nextHop {
			delete(t.entries, sink)
			removed = append(removed, sink)
		}
	}
	return removed
}

// ForEach performs an unordered iteration over all sink entries.
func (t *SinkTable) ForEach(visitor func(*SinkEntry)) {
	for _, e := range t.entries {
		visitor(e)
	}
}
