// Package geostatic implements static geographic routing: every node
// discovers its radio neighbors once at Bootstrap from a global position
// oracle rather than through HELLO exchange, and forwards by geographic
// nearest-to-destination next hop with an optional randomized selection
// mode. Grounded on original_source/geostatic.c.
package geostatic

import (
	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// Module is the class-wide static geographic routing module.
type Module struct {
	aggregate routing.Stats
	log       *logrus.Entry
}

// New creates an unbound static geographic routing module.
func New() *Module {
	return &Module{
		aggregate: routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
		log:       logrus.WithField("protocol", "geostatic"),
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

// Bind validates params and creates this node's static geographic state.
func (m *Module) Bind(node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, params routing.Params) (routing.NodeHandle, error) {
	cfg, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	return newState(m, node, mac, sched, app, cfg), nil
}
