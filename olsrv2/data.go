package olsrv2

import "github.com/kprusa/wsnrouting/routing"

// SetHeader computes an end-to-end path to dst via Dijkstra over the
// current connectivity matrix and installs it as a source route on pkt
// (spec.md §4.5 "Invoked on demand by set_header and stored in the
// outgoing DATA packet as a source route with an index pointer initially
// 1"). Returns ErrNoRoute if dst is unreachable in the present topology
// view.
func (s *State) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	path := s.topology.ShortestPath(s.Node.ID(), dst)
	if path == nil || len(path) < 2 {
		return routing.ErrNoRoute
	}

	pkt.Header = routing.DataHeader{
		Source:     s.Node.ID(),
		LinkDest:   path[1],
		EndDest:    dst,
		SourceKind: s.Node.Kind(),
		Type:       routing.TypeData,
		Hop:        0,
		Path:       path,
		PathIndex:  1,
	}
	if err := s.MAC.SetHeader(pkt, path[1]); err != nil {
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
	case routing.TypeTC:
		s.handleTC(pkt)
	case routing.TypeData:
		s.handleData(pkt)
	default:
		s.DropUnknownType(pkt.Header.Type)
	}
}

// handleData advances the packet along its pre-computed source route
// (spec.md §4.5 "Data forwarding: at each hop, advance path_index, set
// link next-hop to path[path_index], and transmit. Consume when
// end_destination == self").
func (s *State) handleData(pkt *routing.Packet) {
	s.RecordRx(routing.TypeData, pkt.RealSizeBits)
	pkt.Header.Hop++

	if pkt.Header.EndDest == s.Node.ID() {
		s.App.Deliver(pkt)
		return
	}

	pkt.Header.PathIndex++
	if pkt.Header.PathIndex >= len(pkt.Header.Path) {
		return
	}
	next := pkt.Header.Path[pkt.Header.PathIndex]
	pkt.Header.LinkDest = next
	if err := s.MAC.SetHeader(pkt, next); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
