// Package aodv implements on-demand AODV routing: a sensor with no route
// to its target floods an RREQ, the target (or an intermediate node that
// already knows a route) unicasts an RREP back along the reverse path,
// and both the reverse (RREQ-installed) and forward (RREP-installed)
// routes are destination-oriented entries admitted only on a
// newer-or-equal sequence with a strictly smaller hop count. Grounded on
// aodv.c and routing_rreq_management.c.
package aodv

import (
	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/neighbor"
	"github.com/kprusa/wsnrouting/route"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/seenset"
)

// State is a node's AODV routing state.
type State struct {
	*engine.Base
	module *Module
	cfg    Params

	routes *route.DestTable
	rreqSeen *seenset.Cache
	rrepSeen *seenset.Cache

	hello engine.Periodic
	rreq  engine.Periodic

	rreqSeq  int
	rrepSeq  int
	firstRREQAt routing.Time
	haveFiredRREQ bool

	pathEstablished bool
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, cfg Params) *State {
	base := engine.NewBase("aodv", node, mac, sched, app, neighbor.Config{
		HelloStart:  cfg.HelloStart,
		HelloPeriod: cfg.HelloPeriod,
		Alpha:       cfg.RSSISmoothingFactor,
	})
	return &State{
		Base:     base,
		module:   m,
		cfg:      cfg,
		routes:   route.NewDestTable(),
		rreqSeen: seenset.New(),
		rrepSeen: seenset.New(),
	}
}

// Bootstrap queries the MAC header size and arms the HELLO and periodic
// RREQ timers.
func (s *State) Bootstrap() error {
	s.QueryHeaderSize()

	if s.cfg.HelloStatus {
		s.hello = engine.Periodic{Start: s.cfg.HelloStart, Period: s.cfg.HelloPeriod, Remaining: s.cfg.HelloNbr}
		s.hello.Arm(s.Sched, s.fireHello)
	}
	if s.cfg.RREQStatus {
		s.rreq = engine.Periodic{Start: s.cfg.RREQStart, Period: s.cfg.RREQPeriod, Remaining: s.cfg.RREQNbr}
		s.rreq.Arm(s.Sched, s.firePeriodicRREQ)
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

// RouteTo reports the currently installed destination-oriented route to
// dst, if any.
func (s *State) RouteTo(dst routing.NodeID) (route.DestEntry, bool) {
	e, ok := s.routes.Get(dst)
	if !ok {
		return route.DestEntry{}, false
	}
	return *e, true
}

const dataHeaderSize = 32

func (s *State) fireHello() {
	s.Neighbors.Sweep(s.Sched.Now(), s.cfg.HelloTimeout, func(dead routing.NodeID) {
		s.routes.InvalidateVia(dead)
	})

	hh := &routing.HelloHeader{Position: s.Node.Position()}
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   routing.Broadcast,
			EndDest:    routing.Broadcast,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeHello,
		},
		Control:      hh,
		RealSizeBits: s.cfg.HelloRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err == nil {
		_ = s.Tx(pkt)
	}
	s.hello.Consume()
	s.hello.Reschedule(s.Sched, s.Rng, s.fireHello)
}

func (s *State) handleHello(pkt *routing.Packet) {
	hh, ok := pkt.Control.(*routing.HelloHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeHello, pkt.RealSizeBits)
	s.Neighbors.ObserveHello(pkt.Header.Source, pkt.Header.SourceKind, hh.Position, hh.HopToSink, pkt.RxPowerDBm, s.Sched.Now())
}

// rreqSeenKey identifies one (originator, target, data_type) RREQ flow.
func rreqSeenKey(src, dst routing.NodeID, dataType int) seenset.Key {
	return seenset.Key{Originator: src, Target: dst, DataType: dataType}
}

// rrepSeenKey identifies one RREP reply flow, keyed the same way the
// original tracks it: by (dst-of-RREP == RREQ originator, src-of-RREP ==
// RREQ target), using the RREQ's sequence as the freshness token.
func rrepSeenKey(rrepSrc, rrepDst routing.NodeID) seenset.Key {
	return seenset.Key{Originator: rrepSrc, Target: rrepDst, DataType: -1}
}
