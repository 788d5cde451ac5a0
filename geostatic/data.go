package geostatic

import "github.com/kprusa/wsnrouting/routing"

// SetHeader installs the DATA header for an outgoing packet via nextHop.
// Broadcast is forwarded unchanged.
func (s *State) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	linkDest := routing.Broadcast
	if dst != routing.Broadcast {
		hop, ok := s.nextHop(dst)
		if !ok {
			return routing.ErrNoRoute
		}
		linkDest = hop
	}

	pkt.Header = routing.DataHeader{
		Source:     s.node.ID(),
		LinkDest:   linkDest,
		EndDest:    dst,
		SourceKind: s.node.Kind(),
		Type:       routing.TypeData,
		Hop:        s.cfg.HopLimit,
	}
	if err := s.mac.SetHeader(pkt, linkDest); err != nil {
		return routing.ErrHeaderInstallFailed
	}
	return nil
}

// Rx forwards a packet not addressed to this node, or delivers it.
func (s *State) Rx(pkt *routing.Packet) {
	s.recordRx(pkt.Header.Type, pkt.RealSizeBits)

	if pkt.Header.EndDest == routing.Broadcast || pkt.Header.EndDest == s.node.ID() {
		s.app.Deliver(pkt)
		return
	}

	hop, ok := s.nextHop(pkt.Header.EndDest)
	if !ok {
		return
	}
	pkt.Header.Hop--
	if pkt.Header.Hop <= 0 {
		return
	}
	pkt.Header.LinkDest = hop
	if err := s.mac.SetHeader(pkt, hop); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
