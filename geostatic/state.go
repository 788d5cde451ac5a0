package geostatic

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// dataHeaderSize approximates geostatic.c's routing_header_size: dst id,
// src id, hop count.
const dataHeaderSize = 4 + 4 + 4

type neighborInfo struct {
	id  routing.NodeID
	pos routing.Position
}

// State is a node's static geographic routing state: a fixed neighbor
// snapshot taken once at Bootstrap, plus the "current next hop" memo
// geostatic.c's get_nexthop uses to avoid reselecting every call.
type State struct {
	module *Module
	node   routing.NodeInfo
	mac    routing.MAC
	sched  routing.Scheduler
	app    routing.Application
	log    *logrus.Entry
	rng    *rand.Rand

	cfg       Params
	neighbors []neighborInfo
	overhead  int
	stats     routing.Stats

	currDst       routing.NodeID
	haveCurrDst   bool
	currNextHop   routing.NodeID
	haveNextHop   bool
	randomCounter int
}

func newState(m *Module, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, cfg Params) *State {
	return &State{
		module:        m,
		node:          node,
		mac:           mac,
		sched:         sched,
		app:           app,
		log:           routing.NodeLogger("geostatic", node.ID()),
		rng:           rand.New(rand.NewSource(int64(node.ID())*2654435761 + 1)),
		cfg:           cfg,
		stats:         routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
		randomCounter: cfg.Random,
	}
}

// Bootstrap queries the MAC header size and finds every node within
// range via the MAC's position oracle (geostatic.c's find_neighbors). A
// MAC that does not implement routing.NeighborLocator leaves this node
// with no neighbors, unable to route anywhere but to itself.
func (s *State) Bootstrap() error {
	s.overhead = s.mac.HeaderSize()

	loc, ok := s.mac.(routing.NeighborLocator)
	if !ok {
		s.log.Warn("bootstrap: mac exposes no position oracle, no neighbors discovered")
		return nil
	}
	self := s.node.Position()
	for id, pos := range loc.AllPositions() {
		if id == s.node.ID() {
			continue
		}
		if distance(self, pos) <= s.cfg.Range {
			s.neighbors = append(s.neighbors, neighborInfo{id: id, pos: pos})
		}
	}
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

func distance(a, b routing.Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (s *State) alive(id routing.NodeID) bool {
	if loc, ok := s.mac.(routing.NeighborLocator); ok {
		return loc.Alive(id)
	}
	return true
}
