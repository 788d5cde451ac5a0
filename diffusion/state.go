package diffusion

import (
	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/neighbor"
	"github.com/kprusa/wsnrouting/route"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/seenset"
)

// State is a node's Directed Diffusion routing state.
type State struct {
	*engine.Base
	module *Module
	cfg    Params

	routes  *route.SinkTable
	seen    *seenset.Cache
	hello   engine.Periodic
	interest engine.Periodic

	interestSeq int

	pathEstablished bool
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, cfg Params) *State {
	base := engine.NewBase("diffusion", node, mac, sched, app, neighbor.Config{
		HelloStart:  cfg.HelloStart,
		HelloPeriod: cfg.HelloPeriod,
		Alpha:       cfg.RSSISmoothingFactor,
	})
	return &State{
		Base:   base,
		module: m,
		cfg:    cfg,
		routes: route.NewSinkTable(),
		seen:   seenset.New(),
	}
}

// Bootstrap queries the MAC for header size and arms the HELLO and (for
// sinks) INTEREST timers.
func (s *State) Bootstrap() error {
	s.QueryHeaderSize()

	if s.cfg.HelloStatus {
		s.hello = engine.Periodic{Start: s.cfg.HelloStart, Period: s.cfg.HelloPeriod, Remaining: s.cfg.HelloNbr}
		s.hello.Arm(s.Sched, s.fireHello)
	}
	if s.cfg.NodeType == routing.Sink && s.cfg.InterestStatus {
		s.interest = engine.Periodic{Start: s.cfg.InterestStart, Period: s.cfg.InterestPeriod, Remaining: s.cfg.InterestNbr}
		s.interest.Arm(s.Sched, s.fireInterest)
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
func (s *State) HeaderSize() int {
	return s.Overhead + dataHeaderSize
}

// HeaderRealSize returns the same, in on-air bits.
func (s *State) HeaderRealSize() int {
	return s.HeaderSize() * 8
}

// dataHeaderSize approximates sizeof(packet_header) in the original
// layout: a handful of ints plus the OLSRv2 path (unused here, so the
// fixed fields only).
const dataHeaderSize = 32

func (s *State) fireHello() {
	s.Neighbors.Sweep(s.Sched.Now(), s.cfg.HelloTimeout, func(dead routing.NodeID) {
		s.routes.InvalidateVia(dead)
	})

	s.sendHello()
	s.hello.Consume()
	s.hello.Reschedule(s.Sched, s.Rng, s.fireHello)
}

func (s *State) sendHello() {
	hh := &routing.HelloHeader{Position: s.Node.Position()}
	if s.cfg.NodeType == routing.Sink {
		hh.SinkID = s.Node.ID()
		hh.HopToSink = 0
	} else if best, ok := s.routes.Best(); ok {
		hh.SinkID = best.SinkID
		hh.HopToSink = best.HopToSink
	} else {
		hh.SinkID = routing.NoSink
		hh.HopToSink = -1
	}

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
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err != nil {
		return
	}
	_ = s.Tx(pkt)
	s.Log.WithFields(map[string]any{"sink_id": hh.SinkID, "hop_to_sink": hh.HopToSink}).Debug("sent hello")
}

func (s *State) handleHello(pkt *routing.Packet) {
	hh, ok := pkt.Control.(*routing.HelloHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeHello, pkt.RealSizeBits)

	nbr := s.Neighbors.ObserveHello(pkt.Header.Source, pkt.Header.SourceKind, hh.Position, hh.HopToSink, pkt.RxPowerDBm, s.Sched.Now())
	if !s.Neighbors.Meets(nbr.ID, s.cfg.LQEThreshold) {
		return
	}
	if s.cfg.NodeType != routing.Sensor {
		return
	}
	if hh.SinkID == routing.NoSink || hh.HopToSink < 0 {
		return
	}

	changed := s.routes.Update(hh.SinkID, pkt.Header.Source, hh.HopToSink+1, nbr.LQE, s.Sched.Now())
	if changed && !s.pathEstablished {
		s.pathEstablished = true
		s.Stats.HasPathEstablishment = true
		s.Stats.PathEstablishmentDelay = s.Sched.Now()
	}
}

// RouteTo reports the current gradient to sink, if any.
func (s *State) RouteTo(sink routing.NodeID) (route.SinkEntry, bool) {
	e, ok := s.routes.Get(sink)
	if !ok {
		return route.SinkEntry{}, false
	}
	return *e, true
}

// selectSink resolves a SetHeader destination to a concrete sink-oriented
// route entry. dst == routing.Broadcast means "closest sink".
func (s *State) selectSink(dst routing.NodeID) (route.SinkEntry, bool) {
	if dst == routing.Broadcast {
		e, ok := s.routes.Best()
		if !ok {
			return route.SinkEntry{}, false
		}
		return *e, true
	}
	e, ok := s.routes.Get(dst)
	if !ok {
		return route.SinkEntry{}, false
	}
	return *e, true
}
