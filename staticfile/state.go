package staticfile

import (
	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// dataHeaderSize approximates filestatic.c's routing_header_size: a
// destination id and a source id, both nodeid_t.
const dataHeaderSize = 8

// State is a node's static-file routing state: an immutable dst ->
// next_hop table sliced from the class-wide route file at Bind.
type State struct {
	module *Module
	node   routing.NodeInfo
	mac    routing.MAC
	sched  routing.Scheduler
	app    routing.Application
	log    *logrus.Entry

	routes   map[routing.NodeID]routing.NodeID
	overhead int
	stats    routing.Stats
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, routes map[routing.NodeID]routing.NodeID) *State {
	return &State{
		module: m,
		node:   node,
		mac:    mac,
		sched:  sched,
		app:    app,
		log:    routing.NodeLogger("staticfile", node.ID()),
		routes: routes,
		stats:  routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
	}
}

// Bootstrap queries the MAC header size. There is no control-plane
// traffic to schedule: the route table never changes after Bind.
func (s *State) Bootstrap() error {
	s.overhead = s.mac.HeaderSize()
	return nil
}

// Unbind emits a per-node stats line and folds this node's counters into
// the class-wide aggregate.
func (s *State) Unbind() {
	s.log.WithFields(logrus.Fields{
		"tx_bytes": s.stats.TxBytes,
		"rx_bytes": s.stats.RxBytes,
	}).Info("unbind: node stats")
	s.module.aggregate.Merge(s.stats)
}

// HeaderSize returns the MAC overhead plus the routing header.
func (s *State) HeaderSize() int { return s.overhead + dataHeaderSize }

// HeaderRealSize returns the same, in on-air bits.
func (s *State) HeaderRealSize() int { return s.HeaderSize() * 8 }

func (s *State) recordTx(t routing.PacketType, bits int) {
	s.stats.TxByType[t]++
	s.stats.TxBytes += bits / 8
}

func (s *State) recordRx(t routing.PacketType, bits int) {
	s.stats.RxByType[t]++
	s.stats.RxBytes += bits / 8
}

// Tx hands pkt to the MAC, recording stats.
func (s *State) Tx(pkt *routing.Packet) error {
	if err := s.mac.Tx(pkt); err != nil {
		return err
	}
	s.recordTx(pkt.Header.Type, pkt.RealSizeBits)
	return nil
}
