package geogreedy

import "github.com/kprusa/wsnrouting/routing"

// SetHeader installs the DATA header for an outgoing packet, picking the
// one-hop neighbor geographically nearest dst. Broadcast is forwarded
// unchanged. Hop is seeded from the configured hop limit and decremented
// on every forwarding hop (greedy.c's nodedata->hop countdown).
func (s *State) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	linkDest := routing.Broadcast
	if dst != routing.Broadcast {
		dstPos, ok := s.destPosition(dst)
		if !ok {
			return routing.ErrNoRoute
		}
		hop, ok := s.nextHop(dst, dstPos)
		if !ok {
			return routing.ErrNoRoute
		}
		linkDest = hop
	}

	pkt.Header = routing.DataHeader{
		Source:     s.Node.ID(),
		LinkDest:   linkDest,
		EndDest:    dst,
		SourceKind: s.Node.Kind(),
		Type:       routing.TypeData,
		Hop:        s.cfg.HopLimit,
	}
	if err := s.MAC.SetHeader(pkt, linkDest); err != nil {
		return routing.ErrHeaderInstallFailed
	}
	return nil
}

// Rx demultiplexes an incoming packet by its type tag.
func (s *State) Rx(pkt *routing.Packet) {
	switch pkt.Header.Type {
	case routing.TypeHello:
		s.handleHello(pkt)
	case routing.TypeData:
		s.handleData(pkt)
	default:
		s.DropUnknownType(pkt.Header.Type)
	}
}

func (s *State) handleData(pkt *routing.Packet) {
	s.RecordRx(routing.TypeData, pkt.RealSizeBits)

	if pkt.Header.EndDest == routing.Broadcast || pkt.Header.EndDest == s.Node.ID() {
		s.App.Deliver(pkt)
		return
	}

	pkt.Header.Hop--
	if pkt.Header.Hop <= 0 {
		s.DropTTL(routing.TypeData)
		return
	}

	dstPos, ok := s.destPosition(pkt.Header.EndDest)
	if !ok {
		return
	}
	hop, ok := s.nextHop(pkt.Header.EndDest, dstPos)
	if !ok {
		return
	}
	pkt.Header.LinkDest = hop
	if err := s.MAC.SetHeader(pkt, hop); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
