package olsrv2

import (
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/seenset"
)

func (s *State) fireTC() {
	s.sendTC()
	s.tc.Consume()
	s.tc.Reschedule(s.Sched, s.Rng, s.fireTC)
}

func (s *State) sendTC() {
	s.tcSeq++
	s.broadcastTC(s.Node.ID(), s.tcSeq, s.oneHopIDs(), s.mprs)
}

func (s *State) broadcastTC(originator routing.NodeID, seq int, oneHop, mprSet []routing.NodeID) {
	th := &routing.TCHeader{
		Originator: originator,
		Seq:        seq,
		OneHop:     oneHop,
		MPRSet:     mprSet,
	}
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   routing.Broadcast,
			EndDest:    routing.Broadcast,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeTC,
		},
		Control:      th,
		RealSizeBits: s.cfg.TCRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err != nil {
		return
	}
	_ = s.Tx(pkt)
}

// handleTC implements spec.md §4.5's TC reception rule: always refresh
// the connectivity matrix's row for the originator, then forward only
// if this node's id appears in the advertised MPR set and the sequence
// is newer than tc_cache[originator]; otherwise drop as stale or
// non-relaying. The originator/seq/one-hop-list triple is carried
// verbatim hop to hop, but the MPR-set field is rewritten to this
// node's own selection before re-broadcasting: relay eligibility is a
// per-hop gate against the immediate sender's MPR choice, not a single
// distant check against the originator's — the same gate every
// standard OLSR relay applies, and the only way a TC outlives its first
// hop (see DESIGN.md).
func (s *State) handleTC(pkt *routing.Packet) {
	th, ok := pkt.Control.(*routing.TCHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeTC, pkt.RealSizeBits)

	if th.Originator == s.Node.ID() {
		return
	}

	s.topology.SetRow(th.Originator, th.OneHop)

	key := seenset.Key{Originator: th.Originator, Target: routing.Broadcast, DataType: 0}
	if !s.tcSeen.Fresh(key, th.Seq) {
		s.DropDuplicate(routing.TypeTC, th.Originator)
		return
	}
	if !containsID(th.MPRSet, s.Node.ID()) {
		return
	}

	s.tcSeen.Record(key, th.Seq, s.Sched.Now())
	s.broadcastTC(th.Originator, th.Seq, th.OneHop, s.mprs)
}
