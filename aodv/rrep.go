package aodv

import "github.com/kprusa/wsnrouting/routing"

// sendRREP is the destination's reply to a fresh RREQ: unicast an RREP
// back along the just-installed reverse route.
func (s *State) sendRREP(rh *routing.RREQHeader) {
	rev, ok := s.routes.Get(rh.Src)
	if !ok {
		return
	}
	hopToDst := rh.TTLMax - (rh.TTL - 1)
	s.unicastRREP(rev.NextHop, &routing.RREPHeader{
		Src:      s.Node.ID(),
		Dst:      rh.Src,
		Seq:      s.rrepSeq,
		SeqRREQ:  rh.Seq,
		HopToDst: hopToDst,
	})
	s.rrepSeen.Record(rrepSeenKey(s.Node.ID(), rh.Src), rh.Seq, s.Sched.Now())
	s.rrepSeq++
}

// sendRREPFromIntermediate answers an RREQ on behalf of a destination the
// intermediate node already knows a route to: reply carries the sum of
// the reverse hop count (to the RREQ's originator) plus the intermediate
// node's own forward hop count (to the destination).
func (s *State) sendRREPFromIntermediate(rh *routing.RREQHeader, fwdHopToDst int) {
	rev, ok := s.routes.Get(rh.Src)
	if !ok {
		return
	}
	s.unicastRREP(rev.NextHop, &routing.RREPHeader{
		Src:      rh.Dst,
		Dst:      rh.Src,
		Seq:      s.rrepSeq,
		SeqRREQ:  rh.Seq,
		HopToDst: rev.HopCount + fwdHopToDst,
	})
	s.rrepSeen.Record(rrepSeenKey(rh.Dst, rh.Src), rh.Seq, s.Sched.Now())
	s.rrepSeq++
}

func (s *State) unicastRREP(nextHop routing.NodeID, rh *routing.RREPHeader) {
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   nextHop,
			EndDest:    rh.Dst,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeRREP,
		},
		Control:      rh,
		RealSizeBits: s.cfg.RREPRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, nextHop); err != nil {
		return
	}
	_ = s.Tx(pkt)
}

func (s *State) handleRREP(pkt *routing.Packet) {
	rh, ok := pkt.Control.(*routing.RREPHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeRREP, pkt.RealSizeBits)

	if rh.Src == s.Node.ID() {
		return
	}

	changed := s.routes.UpdateFromRREP(rh.Src, pkt.Header.Source, rh.HopToDst, rh.SeqRREQ, s.Sched.Now())
	if changed && !s.pathEstablished {
		s.pathEstablished = true
		s.Stats.HasPathEstablishment = true
		s.Stats.PathEstablishmentDelay = s.Sched.Now() - s.firstRREQAt
	}

	if rh.Dst == s.Node.ID() {
		return
	}

	rev, ok := s.routes.Get(rh.Dst)
	if !ok {
		return
	}
	s.unicastRREP(rev.NextHop, rh)
}
