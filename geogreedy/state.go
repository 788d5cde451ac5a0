package geogreedy

import (
	"math"

	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/neighbor"
	"github.com/kprusa/wsnrouting/routing"
)

// dataHeaderSize approximates greedy.c's routing_header_size: dst id +
// dst position + src id + src position + hop + type.
const dataHeaderSize = 4 + 3*8 + 4 + 3*8 + 4 + 4

// State is a node's greedy geographic routing state: a one-hop neighbor
// table refreshed by periodic HELLOs, no route table of any kind.
type State struct {
	*engine.Base
	module *Module
	cfg    Params

	hello engine.Periodic
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, cfg Params) *State {
	base := engine.NewBase("geogreedy", node, mac, sched, app, neighbor.Config{
		HelloStart:  cfg.HelloStart,
		HelloPeriod: cfg.HelloPeriod,
	})
	return &State{Base: base, module: m, cfg: cfg}
}

// Bootstrap queries the MAC header size and arms the periodic HELLO timer.
func (s *State) Bootstrap() error {
	s.QueryHeaderSize()
	if s.cfg.HelloStatus {
		s.hello = engine.Periodic{Start: s.cfg.HelloStart, Period: s.cfg.HelloPeriod, Remaining: s.cfg.HelloNbr}
		s.hello.Arm(s.Sched, s.fireHello)
	}
	return nil
}

// Unbind emits a per-node stats line and folds this node's counters into
// the class-wide aggregate.
func (s *State) Unbind() {
	s.Log.WithFields(map[string]any{
		"tx_bytes": s.Stats.TxBytes,
		"rx_bytes": s.Stats.RxBytes,
	}).Info("unbind: node stats")
	s.module.aggregate.Merge(s.Stats)
}

// HeaderSize returns the MAC overhead plus the shared data header.
func (s *State) HeaderSize() int { return s.Overhead + dataHeaderSize }

// HeaderRealSize returns the same, in on-air bits.
func (s *State) HeaderRealSize() int { return s.HeaderSize() * 8 }

func distance(a, b routing.Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// destPosition resolves dst's position: a known one-hop neighbor's
// advertised position, or (for a destination never heard from directly)
// the MAC's position oracle if it implements routing.NeighborLocator —
// the same dependency greedy.c's caller implicitly had on knowing
// destination_t.position up front.
func (s *State) destPosition(dst routing.NodeID) (routing.Position, bool) {
	if e, ok := s.Neighbors.Get(dst); ok {
		return e.Position, true
	}
	if loc, ok := s.MAC.(routing.NeighborLocator); ok {
		return loc.Position(dst)
	}
	return routing.Position{}, false
}

// nextHop picks the one-hop neighbor geographically closest to dstPos,
// stopping immediately if dst itself is a one-hop neighbor (greedy.c's
// get_nexthop: "stop in case the exact destination was found").
func (s *State) nextHop(dst routing.NodeID, dstPos routing.Position) (routing.NodeID, bool) {
	bestDist := distance(s.Node.Position(), dstPos)
	var best routing.NodeID
	found, exact := false, false
	s.Neighbors.ForEach(func(e *neighbor.Entry) {
		if exact {
			return
		}
		if e.ID == dst {
			best, found, exact = e.ID, true, true
			return
		}
		if d := distance(e.Position, dstPos); d < bestDist {
			bestDist, best, found = d, e.ID, true
		}
	})
	return best, found
}
