package aodv

import "github.com/kprusa/wsnrouting/routing"

// SetHeader installs the DATA header for an outgoing packet. If no route
// to dst exists yet, it starts RREQ discovery and returns ErrNoRoute so
// the caller can retry later (spec.md §4.4 on-demand scenario).
func (s *State) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	entry, ok := s.routes.Get(dst)
	if !ok {
		s.StartDiscovery(dst)
		return routing.ErrNoRoute
	}

	pkt.Header = routing.DataHeader{
		Source:     s.Node.ID(),
		LinkDest:   entry.NextHop,
		EndDest:    dst,
		SourceKind: s.Node.Kind(),
		Type:       routing.TypeData,
		Hop:        0,
	}
	if err := s.MAC.SetHeader(pkt, entry.NextHop); err != nil {
		return routing.ErrHeaderInstallFailed
	}
	return nil
}

// Rx demultiplexes an incoming packet by its type tag. Anchor nodes
// discard every received packet by design.
func (s *State) Rx(pkt *routing.Packet) {
	if s.IsAnchor() {
		return
	}
	switch pkt.Header.Type {
	case routing.TypeHello:
		s.handleHello(pkt)
	case routing.TypeRREQ:
		s.handleRREQ(pkt)
	case routing.TypeRREP:
		s.handleRREP(pkt)
	case routing.TypeData:
		s.handleData(pkt)
	default:
		s.DropUnknownType(pkt.Header.Type)
	}
}

func (s *State) handleData(pkt *routing.Packet) {
	s.RecordRx(routing.TypeData, pkt.RealSizeBits)
	pkt.Header.Hop++

	if pkt.Header.EndDest == s.Node.ID() {
		s.App.Deliver(pkt)
		return
	}

	entry, ok := s.routes.Get(pkt.Header.EndDest)
	if !ok {
		return
	}
	pkt.Header.LinkDest = entry.NextHop
	if err := s.MAC.SetHeader(pkt, entry.NextHop); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
