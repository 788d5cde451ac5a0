package diffusion

import (
	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/seenset"
)

func (s *State) fireInterest() {
	s.interestSeq++
	ih := &routing.InterestHeader{
		SinkID:   s.Node.ID(),
		Seq:      s.interestSeq,
		TTL:      s.cfg.InterestTTL,
		TTLMax:   s.cfg.InterestTTL,
		DataType: s.cfg.InterestDataType,
	}
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   routing.Broadcast,
			EndDest:    routing.Broadcast,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeInterest,
			Hop:        0,
		},
		Control:      ih,
		RealSizeBits: s.cfg.InterestRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err == nil {
		_ = s.Tx(pkt)
	}
	s.seen.Record(s.interestKey(ih.SinkID, ih.DataType), ih.Seq, s.Sched.Now())

	s.interest.Consume()
	s.interest.Reschedule(s.Sched, s.Rng, s.fireInterest)
}

func (s *State) interestKey(sink routing.NodeID, dataType int) seenset.Key {
	return seenset.Key{Originator: sink, Target: routing.Broadcast, DataType: dataType}
}

func (s *State) handleInterest(pkt *routing.Packet) {
	ih, ok := pkt.Control.(*routing.InterestHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeInterest, pkt.RealSizeBits)

	if s.cfg.NodeType != routing.Sensor {
		return
	}

	newHop := pkt.Header.Hop + 1
	lqe := 0.0
	if nb, ok := s.Neighbors.Get(pkt.Header.Source); ok {
		lqe = nb.LQE
	}
	if s.routes.Update(ih.SinkID, pkt.Header.Source, newHop, lqe, s.Sched.Now()) && !s.pathEstablished {
		s.pathEstablished = true
		s.Stats.HasPathEstablishment = true
		s.Stats.PathEstablishmentDelay = s.Sched.Now()
	}

	ttl := ih.TTL - 1
	if ttl <= 0 {
		s.DropTTL(routing.TypeInterest)
		return
	}
	if s.Rng.Float64() >= s.cfg.InterestPropagationProb {
		s.DropProbability(routing.TypeInterest)
		return
	}
	key := s.interestKey(ih.SinkID, ih.DataType)
	if !s.seen.Fresh(key, ih.Seq) {
		s.DropDuplicate(routing.TypeInterest, ih.SinkID)
		return
	}
	s.seen.Record(key, ih.Seq, s.Sched.Now())

	fwd := pkt.Clone()
	fwd.Header.Source = s.Node.ID()
	fwd.Header.Hop = newHop
	fwdHeader := *ih
	fwdHeader.TTL = ttl
	fwd.Control = &fwdHeader

	delay := engine.UniformBackoff(s.Rng, s.cfg.InterestPropagationBackoff)
	s.Sched.Schedule(s.Sched.Now()+delay, func() {
		if err := s.MAC.SetHeader(fwd, routing.Broadcast); err != nil {
			return
		}
		_ = s.Tx(fwd)
	})
}
