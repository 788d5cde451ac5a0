package aodv

import (
	"github.com/kprusa/wsnrouting/engine"
	"github.com/kprusa/wsnrouting/routing"
)

// StartDiscovery broadcasts a fresh RREQ towards dst. Called by SetHeader
// when no route exists yet (spec.md §4.4 "a sensor whose application
// targets a destination with no route initiates an RREQ").
func (s *State) StartDiscovery(dst routing.NodeID) {
	if !s.haveFiredRREQ {
		s.haveFiredRREQ = true
		s.firstRREQAt = s.Sched.Now()
	}
	s.rreqSeq++
	s.sendRREQ(dst, s.rreqSeq, s.cfg.RREQTTL)
}

// firePeriodicRREQ re-broadcasts an RREQ towards cfg.SinkID if no route
// to it exists yet (spec.md periodic RREQ generation), then reschedules.
func (s *State) firePeriodicRREQ() {
	if s.cfg.SinkID != routing.NoSink {
		if _, ok := s.routes.Get(s.cfg.SinkID); !ok {
			s.StartDiscovery(s.cfg.SinkID)
		}
	}
	s.rreq.Consume()
	s.rreq.Reschedule(s.Sched, s.Rng, s.firePeriodicRREQ)
}

func (s *State) sendRREQ(dst routing.NodeID, seq, ttl int) {
	rh := &routing.RREQHeader{
		Src:      s.Node.ID(),
		Dst:      dst,
		Seq:      seq,
		TTL:      ttl,
		TTLMax:   ttl,
		DataType: s.cfg.RREQDataType,
	}
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   routing.Broadcast,
			EndDest:    routing.Broadcast,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeRREQ,
		},
		Control:      rh,
		RealSizeBits: s.cfg.RREQRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err != nil {
		return
	}
	_ = s.Tx(pkt)
}

func (s *State) handleRREQ(pkt *routing.Packet) {
	rh, ok := pkt.Control.(*routing.RREQHeader)
	if !ok {
		return
	}
	s.RecordRx(routing.TypeRREQ, pkt.RealSizeBits)

	if rh.Src == s.Node.ID() {
		return
	}

	hopToSrc := rh.TTLMax - (rh.TTL - 1)
	s.routes.UpdateFromRREQ(rh.Src, pkt.Header.Source, hopToSrc, rh.Seq, s.Sched.Now())

	key := rreqSeenKey(rh.Src, rh.Dst, rh.DataType)

	if rh.Dst == s.Node.ID() {
		if s.rreqSeen.Fresh(key, rh.Seq) {
			s.sendRREP(rh)
		}
		s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
		return
	}

	if route, ok := s.routes.Get(rh.Dst); ok && s.rreqSeen.Fresh(key, rh.Seq) {
		if _, replied := s.rrepSeen.LastSeq(rrepSeenKey(rh.Dst, rh.Src)); !replied {
			delay := engine.UniformBackoff(s.Rng, s.cfg.RREPPropagationBackoff)
			hopToDst := route.HopCount
			s.Sched.Schedule(s.Sched.Now()+delay, func() {
				s.sendRREPFromIntermediate(rh, hopToDst)
			})
		}
		s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
		return
	}

	if s.cfg.NodeType == routing.Sensor && s.rreqSeen.Fresh(key, rh.Seq) {
		ttl := rh.TTL - 1
		if ttl <= 0 {
			s.DropTTL(routing.TypeRREQ)
			s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
			return
		}
		if s.Rng.Float64() > s.cfg.RREQPropagationProb {
			s.DropProbability(routing.TypeRREQ)
			s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
			return
		}
		s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
		fwd := *rh
		fwd.TTL = ttl
		delay := engine.UniformBackoff(s.Rng, s.cfg.RREQPropagationBackoff)
		s.Sched.Schedule(s.Sched.Now()+delay, func() {
			s.rebroadcastRREQ(&fwd)
		})
		return
	}

	s.DropDuplicate(routing.TypeRREQ, rh.Src)
	s.rreqSeen.Record(key, rh.Seq, s.Sched.Now())
}

func (s *State) rebroadcastRREQ(rh *routing.RREQHeader) {
	pkt := &routing.Packet{
		Header: routing.DataHeader{
			Source:     s.Node.ID(),
			LinkDest:   routing.Broadcast,
			EndDest:    routing.Broadcast,
			SourceKind: s.Node.Kind(),
			Type:       routing.TypeRREQ,
		},
		Control:      rh,
		RealSizeBits: s.cfg.RREQRealSizeBits,
	}
	if err := s.MAC.SetHeader(pkt, routing.Broadcast); err != nil {
		return
	}
	_ = s.Tx(pkt)
}
