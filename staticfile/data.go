package staticfile

import "github.com/kprusa/wsnrouting/routing"

// SetHeader installs the DATA header for an outgoing packet, looking up
// dst in the class-wide route table installed at Bind. Broadcast is
// passed through unchanged; any other unknown destination is ErrNoRoute
// (filestatic.c's set_header logs and fails the same way).
func (s *State) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	linkDest := routing.Broadcast
	if dst != routing.Broadcast {
		nextHop, ok := s.routes[dst]
		if !ok {
			return routing.ErrNoRoute
		}
		linkDest = nextHop
	}

	pkt.Header = routing.DataHeader{
		Source:     s.node.ID(),
		LinkDest:   linkDest,
		EndDest:    dst,
		SourceKind: s.node.Kind(),
		Type:       routing.TypeData,
	}
	if err := s.mac.SetHeader(pkt, linkDest); err != nil {
		return routing.ErrHeaderInstallFailed
	}
	return nil
}

// Rx delivers a packet addressed to this node, or forwards it along the
// static route to its end destination.
func (s *State) Rx(pkt *routing.Packet) {
	s.recordRx(pkt.Header.Type, pkt.RealSizeBits)

	if pkt.Header.EndDest == routing.Broadcast || pkt.Header.EndDest == s.node.ID() {
		s.app.Deliver(pkt)
		return
	}

	nextHop, ok := s.routes[pkt.Header.EndDest]
	if !ok {
		return
	}
	pkt.Header.LinkDest = nextHop
	if err := s.mac.SetHeader(pkt, nextHop); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
