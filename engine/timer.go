package engine

import (
	"math/rand"

	"github.com/kprusa/wsnrouting/routing"
)

// Periodic tracks a single periodic control-plane timer (HELLO, TC,
// INTEREST, RREQ), mirroring the original C pattern of a
// previous_*_slot_time accumulator plus a remaining-transmissions
// counter, generalized from scheduler_add_callback(prev+period+jitter*period, ...).
type Periodic struct {
	Start     routing.Time
	Period    routing.Time
	Remaining int // -1 means unlimited, per spec.md §3 "hello_nbr (-1 = unlimited)"

	prevSlot routing.Time
	started  bool
}

// Armed reports whether this timer should still fire again.
func (p *Periodic) Armed() bool {
	return p.Remaining != 0
}

// Consume decrements the remaining-transmissions counter if bounded. Call
// once per firing, before deciding whether to reschedule.
func (p *Periodic) Consume() {
	if p.Remaining > 0 {
		p.Remaining--
	}
}

// Arm schedules the first firing at Start and marks the timer started.
func (p *Periodic) Arm(sched routing.Scheduler, fn func()) {
	p.prevSlot = p.Start
	p.started = true
	sched.Schedule(p.Start, fn)
}

// Reschedule arranges the next firing at prevSlot+Period plus a uniform
// jitter in [0, Period), the same jitter spec.md §5 requires to break
// symmetry between simultaneously scheduled nodes. No-op if the timer is
// exhausted (spec.md §5 "exhausted counters ... cause the next self-
// rescheduling to return without re-arming").
func (p *Periodic) Reschedule(sched routing.Scheduler, rng *rand.Rand, fn func()) {
	if !p.Armed() {
		return
	}
	p.prevSlot += p.Period
	jitter := routing.Time(0)
	if p.Period > 0 {
		jitter = routing.Time(rng.Float64() * float64(p.Period))
	}
	sched.Schedule(p.prevSlot+jitter, fn)
}

// UniformBackoff returns a uniformly random duration in [0, backoff).
func UniformBackoff(rng *rand.Rand, backoff routing.Time) routing.Time {
	if backoff <= 0 {
		return 0
	}
	return routing.Time(rng.Float64() * float64(backoff))
}
