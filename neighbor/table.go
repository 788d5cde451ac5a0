// Package neighbor implements the one-hop neighbor table and link-quality
// estimator shared by the Directed Diffusion, AODV and OLSRv2 engines
// (spec.md §4.1), grounded on routing_neighbors_management.c's
// neighbor_update family of functions.
package neighbor

import (
	"github.com/kprusa/wsnrouting/routing"
)

// Entry is a single one-hop peer and its link-quality state. Invariants:
// RxCount >= 1, 0 <= LQE <= 1, LastHeard is monotone non-decreasing.
type Entry struct {
	ID        routing.NodeID
	Kind      routing.NodeKind
	Position  routing.Position
	HopToSink int

	RxCount       int
	LossCount     int
	LQE           float64
	SmoothedPower float64

	LastHeard  routing.Time
	Slot       int
	InitialSlot int

	// OneHop is the neighbor's own advertised one-hop list, the basis of
	// this node's 2-hop view in OLSRv2. Unused by Directed Diffusion/AODV.
	OneHop []routing.NodeID
}

// Config tunes the table's slot accounting and power smoothing.
type Config struct {
	HelloStart  routing.Time
	HelloPeriod routing.Time
	// Alpha is the smoothing factor for received power: p' = alpha*p + (1-alpha)*rxPower.
	Alpha float64
}

// Table is a node's one-hop neighbor table.
type Table struct {
	cfg     Config
	entries map[routing.NodeID]*Entry
}

// New creates an empty neighbor table.
func New(cfg Config) *Table {
	return &Table{cfg: cfg, entries: make(map[routing.NodeID]*Entry)}
}

func (t *Table) slot(now routing.Time) int {
	if t.cfg.HelloPeriod <= 0 {
		return 0
	}
	return int((now - t.cfg.HelloStart) / t.cfg.HelloPeriod)
}

// ObserveHello updates or inserts the neighbor identified by src, applying
// the reception-ratio and smoothed-power update rules of spec.md §4.1. It
// returns the resulting entry.
func (t *Table) ObserveHello(src routing.NodeID, kind routing.NodeKind, pos routing.Position, hopToSink int, rxPower float64, now routing.Time) *Entry {
	slotNow := t.slot(now)

	e, ok := t.entries[src]
	if !ok {
		e = &Entry{
			ID:            src,
			InitialSlot:   slotNow,
			Slot:          slotNow,
			RxCount:       1,
			LossCount:     slotNow,
			SmoothedPower: rxPower,
		}
		e.LQE = float64(e.RxCount) / float64(e.RxCount+e.LossCount)
		t.entries[src] = e
	} else {
		e.RxCount++
		lost := slotNow - e.Slot - 1
		if lost > 0 {
			e.LossCount += lost
		}
		e.LQE = float64(e.RxCount) / float64(e.RxCount+e.LossCount)
		e.Slot = slotNow
		e.SmoothedPower = t.cfg.Alpha*e.SmoothedPower + (1-t.cfg.Alpha)*rxPower
	}

	e.Kind = kind
	e.Position = pos
	e.HopToSink = hopToSink
	e.LastHeard = now

	if e.LQE < 0 {
		e.LQE = 0
	}
	if e.LQE > 1 {
		e.LQE = 1
	}
	return e
}

// Get returns the entry for id, if present.
func (t *Table) Get(id routing.NodeID) (*Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// SetOneHop records the neighbor's own advertised one-hop list, used by
// OLSRv2 to build the 2-hop view. No-op if the neighbor is unknown.
func (t *Table) SetOneHop(id routing.NodeID, oneHop []routing.NodeID) {
	if e, ok := t.entries[id]; ok {
		e.OneHop = append([]routing.NodeID(nil), oneHop...)
	}
}

// Sweep removes entries that have not been heard from in at least
// timeout; onEvict (if non-nil) is called for each evicted neighbor id so
// that callers can invalidate routes through it (spec.md §4.1).
func (t *Table) Sweep(now routing.Time, timeout routing.Time, onEvict func(routing.NodeID)) {
	for id, e := range t.entries {
		if now-e.LastHeard >= timeout {
			delete(t.entries, id)
			if onEvict != nil {
				onEvict(id)
			}
		}
	}
}

// ForEach performs an unordered iteration over all known neighbors.
func (t *Table) ForEach(visitor func(*Entry)) {
	for _, e := range t.entries {
		visitor(e)
	}
}

// Len returns the number of known neighbors.
func (t *Table) Len() int { return len(t.entries) }

// Meets reports whether id's current LQE satisfies the acceptance
// threshold used to admit route-table updates (spec.md §4.1).
func (t *Table) Meets(id routing.NodeID, threshold float64) bool {
	e, ok := t.entries[id]
	return ok && e.LQE >= threshold
}
