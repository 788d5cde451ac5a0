package diffusion

import (
	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// Module is the class-wide Directed Diffusion routing module: Init once,
// then Bind once per participating node (spec.md §6).
type Module struct {
	aggregate routing.Stats
	log       *logrus.Entry
}

// New creates an unbound Directed Diffusion module.
func New() *Module {
	return &Module{
		aggregate: routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
		log:       logrus.WithField("protocol", "diffusion"),
	}
}

// Init accepts class-wide parameters. Directed Diffusion has none beyond
// what is already per-node; present for contract symmetry.
func (m *Module) Init(routing.Params) error { return nil }

// Destroy emits the aggregate class-wide stats line.
func (m *Module) Destroy() {
	m.log.WithFields(logrus.Fields{
		"tx_bytes": m.aggregate.TxBytes,
		"rx_bytes": m.aggregate.RxBytes,
	}).Info("destroy: class stats")
}

// Bind validates params and creates this node's Directed Diffusion state.
func (m *Module) Bind(node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, params routing.Params) (routing.NodeHandle, error) {
	cfg, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	return newState(m, node, mac, sched, app, cfg), nil
}
