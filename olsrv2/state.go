package olsrv2

import (
	"sort"

	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/neighbor"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/seenset"
)

// State is a node's OLSRv2 routing state.
type State struct {
	*engine.Base
	module *Module
	cfg    Params

	topology *Matrix
	mprs     []routing.NodeID
	tcSeen   *seenset.Cache

	hello engine.Periodic
	tc    engine.Periodic

	tcSeq int
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, cfg Params) *State {
	base := engine.NewBase("olsrv2", node, mac, sched, app, neighbor.Config{
		HelloStart:  cfg.HelloStart,
		HelloPeriod: cfg.HelloPeriod,
		Alpha:       cfg.RSSISmoothingFactor,
	})
	return &State{
		Base:     base,
		module:   m,
		cfg:      cfg,
		topology: NewMatrix(),
		tcSeen:   seenset.New(),
	}
}

// Bootstrap queries the MAC header size, seeds the connectivity matrix
// with this node's own (empty) row, and arms the HELLO and TC timers.
func (s *State) Bootstrap() error {
	s.QueryHeaderSize()
	s.refreshSelfRow()

	if s.cfg.HelloStatus {
		s.hello = engine.Periodic{Start: s.cfg.HelloStart, Period: s.cfg.HelloPeriod, Remaining: s.cfg.HelloNbr}
		s.hello.Arm(s.Sched, s.fireHello)
	}
	if s.cfg.TCStatus {
		s.tc = engine.Periodic{Start: s.cfg.TCStart, Period: s.cfg.TCPeriod, Remaining: s.cfg.TCNbr}
		s.tc.Arm(s.Sched, s.fireTC)
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

const dataHeaderSize = 32

// oneHopIDs returns this node's live one-hop neighbor ids, sorted.
func (s *State) oneHopIDs() []routing.NodeID {
	var ids []routing.NodeID
	s.Neighbors.ForEach(func(e *neighbor.Entry) { ids = append(ids, e.ID) })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// refreshSelfRow keeps the connectivity matrix's own row in sync with
// the live neighbor table, so compute_path can route through (or from)
// this node even before it has ever sent a TC of its own.
func (s *State) refreshSelfRow() {
	s.topology.SetRow(s.Node.ID(), s.oneHopIDs())
}

// MPRs returns this node's currently selected multi-point relay set.
func (s *State) MPRs() []routing.NodeID {
	return append([]routing.NodeID(nil), s.mprs...)
}

// RouteHopCount reports the hop-count of the current best path to dst
// over the present topology view, replacing the original OLSRv2
// set_header's hop-count-in-position side channel with a proper
// accessor (spec.md §9 Open Question resolution).
func (s *State) RouteHopCount(dst routing.NodeID) (int, bool) {
	path := s.topology.ShortestPath(s.Node.ID(), dst)
	if path == nil {
		return 0, false
	}
	return len(path) - 1, true
}

// Path returns this node's current shortest path to dst, or false if
// unreachable over the present topology view (spec.md §8 "Dijkstra:
// returns a path whose length equals the matrix-shortest path length").
func (s *State) Path(dst routing.NodeID) ([]routing.NodeID, bool) {
	path := s.topology.ShortestPath(s.Node.ID(), dst)
	return path, path != nil
}

// Connected reports whether the connectivity matrix carries a directed
// edge a->b from this node's point of view.
func (s *State) Connected(a, b routing.NodeID) bool {
	return s.topology.Adjacent(a, b)
}
