// Package engine factors the scaffolding shared by the dynamic routing
// engines that run their own neighbor discovery (Directed Diffusion,
// AODV, OLSRv2, greedy geographic routing): the common embedding of
// neighbor table, scheduler/MAC/application handles, structured logging,
// stats accounting and periodic-timer bookkeeping (spec.md §9 "factor
// the shared ... machinery into one module; each protocol specialises
// the update rules and the packet layouts"). Static routing engines
// (file-driven, static geographic) have no discovery loop and so manage
// their own minimal per-node state instead.
package engine

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/neighbor"
	"github.com/kprusa/wsnrouting/routing"
)

// Base is embedded by each protocol's per-node state. It is not itself a
// routing.NodeHandle: each protocol still implements SetHeader/Tx/Rx with
// its own semantics, but shares everything else through Base's methods.
type Base struct {
	Node  routing.NodeInfo
	MAC   routing.MAC
	Sched routing.Scheduler
	App   routing.Application

	Neighbors *neighbor.Table
	Log       *logrus.Entry
	Stats     routing.Stats
	Rng       *rand.Rand

	// Overhead is the MAC's header size, discovered lazily at Bootstrap.
	Overhead int
}

// NewBase wires a Base from the handles supplied at Bind time.
func NewBase(protocol string, node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, nbrCfg neighbor.Config) *Base {
	return &Base{
		Node:      node,
		MAC:       mac,
		Sched:     sched,
		App:       app,
		Neighbors: neighbor.New(nbrCfg),
		Log:       routing.NodeLogger(protocol, node.ID()),
		Rng:       rand.New(rand.NewSource(int64(node.ID())*2654435761 + 1)),
		Stats: routing.Stats{
			TxByType: make(map[routing.PacketType]int),
			RxByType: make(map[routing.PacketType]int),
		},
	}
}

// QueryHeaderSize caches the MAC's header size; called once at Bootstrap.
func (b *Base) QueryHeaderSize() {
	b.Overhead = b.MAC.HeaderSize()
}

// IsAnchor reports whether this node discards every received packet by
// design (spec.md §7 "anchor-node-ingress").
func (b *Base) IsAnchor() bool {
	return b.Node.Kind() == routing.Anchor
}

// RecordTx updates the stats counters for a packet about to be handed to
// the MAC.
func (b *Base) RecordTx(t routing.PacketType, bits int) {
	b.Stats.TxByType[t]++
	b.Stats.TxBytes += bits / 8
}

// RecordRx updates the stats counters for a packet just received.
func (b *Base) RecordRx(t routing.PacketType, bits int) {
	b.Stats.RxByType[t]++
	b.Stats.RxBytes += bits / 8
}

// Tx hands pkt to the MAC, recording stats and logging the transmission.
func (b *Base) Tx(pkt *routing.Packet) error {
	if err := b.MAC.Tx(pkt); err != nil {
		return err
	}
	b.RecordTx(pkt.Header.Type, pkt.RealSizeBits)
	return nil
}

// DropDuplicate logs a silent duplicate-flood drop (spec.md §7).
func (b *Base) DropDuplicate(t routing.PacketType, originator routing.NodeID) {
	b.Log.WithFields(logrus.Fields{"type": t.String(), "originator": originator}).Debug("duplicate flood, dropping")
}

// DropTTL logs a silent ttl-exhausted drop.
func (b *Base) DropTTL(t routing.PacketType) {
	b.Log.WithField("type", t.String()).Debug("ttl exhausted, dropping")
}

// DropProbability logs a silent probability-filter drop.
func (b *Base) DropProbability(t routing.PacketType) {
	b.Log.WithField("type", t.String()).Debug("dropped by propagation probability")
}

// DropUnknownType logs an unknown packet type drop (not silent: spec.md
// §7 calls for a log line here).
func (b *Base) DropUnknownType(t routing.PacketType) {
	b.Log.WithField("type", int(t)).Warn("unknown packet type, dropping")
}

func init() {
	// The suite logs through logrus; callers (cmd/wsnroutesim, tests) may
	// override the level/formatter. A conservative default keeps library
	// code quiet unless the host opts in to verbose logging.
	logrus.SetLevel(logrus.InfoLevel)
}
