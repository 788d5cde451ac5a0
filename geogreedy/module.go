// Package geogreedy implements greedy geographic routing: nodes
// periodically broadcast a position-carrying HELLO, and a data packet is
// forwarded to whichever one-hop neighbor is geographically closest to
// the end destination, bounded by a decrementing hop limit. Grounded on
// original_source/greedy.c.
package geogreedy

import (
	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// Module is the class-wide greedy geographic routing module.
type Module struct {
	aggregate routing.Stats
	log       *logrus.Entry
}

// New creates an unbound greedy geographic routing module.
func New() *Module {
	return &Module{
		aggregate: routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
		log:       logrus.WithField("protocol", "geogreedy"),
	}
}

// Init has no class-wide parameters; present for contract symmetry.
func (m *Module) Init(routing.Params) error { return nil }

// Destroy emits the aggregate class-wide stats line.
func (m *Module) Destroy() {
	m.log.WithFields(logrus.Fields{
		"tx_bytes": m.aggregate.TxBytes,
		"rx_bytes": m.aggregate.RxBytes,
	}).Info("destroy: class stats")
}

// Bind validates params and creates this node's greedy geographic state.
func (m *Module) Bind(node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, params routing.Params) (routing.NodeHandle, error) {
	cfg, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	return newState(m, node, mac, sched, app, cfg), nil
}
