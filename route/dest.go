package route

import "github.com/kprusa/wsnrouting/routing"

// DestEntry is an AODV destination-oriented route: next hop and hop count
// towards dst, plus the sequence numbers of the RREQ/RREP that last
// updated it.
type DestEntry struct {
	Dst        routing.NodeID
	NextHop    routing.NodeID
	HopCount   int
	SeqRREQ    int
	SeqRREP    int
	LastUpdate routing.Time
}

// DestTable holds one entry per destination.
type DestTable struct {
	entries map[routing.NodeID]*DestEntry
}

// NewDestTable creates an empty destination-oriented route table.
func NewDestTable() *DestTable {
	return &DestTable{entries: make(map[routing.NodeID]*DestEntry)}
}

// Get returns the entry for dst, if any.
func (t *DestTable) Get(dst routing.NodeID) (*DestEntry, bool) {
	e, ok := t.entries[dst]
	return e, ok
}

// UpdateFromRREQ applies the reverse-route update rule: admit only if the
// stored entry is absent, or the candidate's sequence number is >= the
// stored one and its hop count is strictly smaller. Returns true if the
// table changed.
func (t *DestTable) UpdateFromRREQ(dst, nextHop routing.NodeID, hopCount, seq int, now routing.Time) bool {
	return t.update(dst, nextHop, hopCount, seq, true, now)
}

// UpdateFromRREP applies the same monotonicity rule for the forward
// route installed by an RREP (spec.md §4.4 RREP unicast), keyed by
// SeqRREQ as the comparison sequence (the RREP's carried seq_rreq per the
// wire format) — see the aodv package for the call site.
func (t *DestTable) UpdateFromRREP(dst, nextHop routing.NodeID, hopCount, seq int, now routing.Time) bool {
	return t.update(dst, nextHop, hopCount, seq, false, now)
}

func (t *DestTable) update(dst, nextHop routing.NodeID, hopCount, seq int, viaRREQ bool, now routing.Time) bool {
	cur, ok := t.entries[dst]
	if !ok {
		e := &DestEntry{Dst: dst, NextHop: nextHop, HopCount: hopCount, LastUpdate: now}
		if viaRREQ {
			e.SeqRREQ = seq
		} else {
			e.SeqRREQ = seq
			e.SeqRREP = seq
		}
		t.entries[dst] = e
		return true
	}

	storedSeq := cur.SeqRREQ
	admit := seq >= storedSeq && hopCount < cur.HopCount
	if !admit {
		return false
	}

	cur.NextHop = nextHop
	cur.HopCount = hopCount
	cur.SeqRREQ = seq
	if !viaRREQ {
		cur.SeqRREP = seq
	}
	cur.LastUpdate = now
	return true
}

// InvalidateVia removes every destination entry whose next-hop is dead,
// returning the destinations affected.
func (t *DestTable) InvalidateVia(nextHop routing.NodeID) []routing.NodeID {
	var removed []routing.NodeID
	for dst, e := range t.entries {
		if e.NextHop == nextHop {
			delete(t.entries, dst)
			removed = append(removed, dst)
		}
	}
	return removed
}

// ForEach performs an unordered iteration over all destination entries.
func (t *DestTable) ForEach(visitor func(*DestEntry)) {
	for _, e := range t.entries {
		visitor(e)
	}
}
