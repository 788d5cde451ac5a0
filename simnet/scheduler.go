// Package simnet is a minimal in-memory discrete-event scheduler, MAC and
// topology model used to exercise the routing engines in tests and by
// cmd/wsnroutesim. The real scheduler, MAC and node model are external
// collaborators of the routing suite (spec.md §1); simnet is a reference
// implementation of those collaborators' contracts, not part of the core.
//
// The event queue is grounded on the pack's own discrete-event simulator
// idiom (inference-sim's container/heap-based ClusterEventQueue); the
// topology model generalizes the teacher's NetworkTypology/Link/LinkState
// line format from single-digit labels to arbitrary NodeIDs.
package simnet

import (
	"container/heap"

	"github.com/kprusa/wsnrouting/routing"
)

type event struct {
	at  routing.Time
	seq uint64
	fn  func()
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq // ties broken by insertion order, spec.md §5
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler is a reference implementation of routing.Scheduler.
type Scheduler struct {
	h   eventHeap
	now routing.Time
	seq uint64
}

// NewScheduler creates an empty scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() routing.Time { return s.now }

// Schedule places fn on the queue to run at virtual time at.
func (s *Scheduler) Schedule(at routing.Time, fn func()) {
	s.seq++
	heap.Push(&s.h, &event{at: at, seq: s.seq, fn: fn})
}

// Pending reports whether any event remains queued.
func (s *Scheduler) Pending() bool { return len(s.h) > 0 }

// RunUntil drains every queued event with a fire time <= stop, advancing
// Now() to each event's time before invoking it.
func (s *Scheduler) RunUntil(stop routing.Time) {
	for len(s.h) > 0 && s.h[0].at <= stop {
		ev := heap.Pop(&s.h).(*event)
		s.now = ev.at
		ev.fn()
	}
}

// RunAll drains the entire queue, including events scheduled by events
// that are themselves still running. maxEvents bounds runaway rescheduling
// loops (e.g. an unlimited HELLO timer) the same way a real testbed run
// is bounded by a stop time.
func (s *Scheduler) RunAll(maxEvents int) {
	for len(s.h) > 0 && maxEvents > 0 {
		ev := heap.Pop(&s.h).(*event)
		s.now = ev.at
		ev.fn()
		maxEvents--
	}
}
