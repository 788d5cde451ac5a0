package olsrv2

import "github.com/kprusa/wsnrouting/routing"

func (s *State) fireHello() {
	// A dead neighbor's own advertised one-hop list disappears with its
	// Entry and its matrix row is cleared; refreshSelfRow below drops it
	// from this node's row and the MPR pass that follows stops relying on
	// it (spec.md §4.5 "stale 2-hop rows are zeroed when the corresponding
	// neighbor times out").
	s.Neighbors.Sweep(s.Sched.Now(), s.cfg.HelloTimeout, func(dead routing.NodeID) {
		s.topology.SetRow(dead, nil)
	})
	s.refreshSelfRow()
	s.mprs = selectMPRs(s.Node.ID(), s.oneHopIDs(), s.topology)

	s.sendHello()
	s.hello.Consume()
	s.hello.Reschedule(s.Sched, s.Rng, s.fireHello)
}

func (s *State) sendHello() {
	hh := &routing.HelloHeader{
		SinkID:    routing.NoSink,
		HopToSink: -1,
		Position:  s.Node.Position(),
		OneHop:    s.oneHopIDs(),
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
}

// handleHello updates the sender's neighbor-table entry, replaces the
// connectivity matrix row indexed by the sender with its advertised
// one-hop list (spec.md §4.5 HELLO processing step (b): this doubles as
// the 2-hop view MPR selection reads), refreshes this node's own row,
// and re-runs MPR selection ("Re-run after every HELLO processing").
func (s *State) handleHello(pkt *routing.Packet) {
	hh, ok := pkt.Control.(*routing.HelloHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeHello, pkt.RealSizeBits)

	if pkt.Header.Source == s.Node.ID() {
		return
	}

	nbr := s.Neighbors.ObserveHello(pkt.Header.Source, pkt.Header.SourceKind, hh.Position, hh.HopToSink, pkt.RxPowerDBm, s.Sched.Now())
	s.Neighbors.SetOneHop(nbr.ID, hh.OneHop)
	s.topology.SetRow(nbr.ID, hh.OneHop)
	s.refreshSelfRow()
	s.mprs = selectMPRs(s.Node.ID(), s.oneHopIDs(), s.topology)
}
