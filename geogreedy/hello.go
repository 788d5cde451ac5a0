package geogreedy

import "github.com/kprusa/wsnrouting/routing"

func (s *State) fireHello() {
	s.Neighbors.Sweep(s.Sched.Now(), s.cfg.HelloTimeout, nil)
	s.sendHello()
	s.hello.Consume()
	s.hello.Reschedule(s.Sched, s.Rng, s.fireHello)
}

func (s *State) sendHello() {
	hh := &routing.HelloHeader{
		SinkID:    routing.NoSink,
		HopToSink: -1,
		Position:  s.Node.Position(),
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

// handleHello inserts or refreshes the sender's neighbor-table entry
// (greedy.c's add_neighbor).
func (s *State) handleHello(pkt *routing.Packet) {
	hh, ok := pkt.Control.(*routing.HelloHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeHello, pkt.RealSizeBits)

	if pkt.Header.Source == s.Node.ID() {
		return
	}
	s.Neighbors.ObserveHello(pkt.Header.Source, pkt.Header.SourceKind, hh.Position, hh.HopToSink, pkt.RxPowerDBm, s.Sched.Now())
}
