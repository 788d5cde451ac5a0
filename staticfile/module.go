package staticfile

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/routing"
)

// Module is the class-wide static-file routing module: the route file is
// opened and parsed once in Init, then split per node in Bind.
type Module struct {
	routes    Routes
	aggregate routing.Stats
	log       *logrus.Entry
}

// New creates an unbound static-file routing module.
func New() *Module {
	return &Module{
		aggregate: routing.Stats{TxByType: map[routing.PacketType]int{}, RxByType: map[routing.PacketType]int{}},
		log:       logrus.WithField("protocol", "staticfile"),
	}
}

// Init opens and parses the class-wide route file (param "file", default
// "routing.data").
func (m *Module) Init(p routing.Params) error {
	path := p.String("file", "routing.data")
	f, err := os.Open(path)
	if err != nil {
		return routing.ConfigError{Key: "file", Msg: fmt.Sprintf("cannot open %q: %v", path, err)}
	}
	defer f.Close()

	routes, err := ParseRoutes(f)
	if err != nil {
		return routing.ConfigError{Key: "file", Msg: err.Error()}
	}
	m.routes = routes
	return nil
}

// Destroy emits the aggregate class-wide stats line.
func (m *Module) Destroy() {
	m.log.WithFields(logrus.Fields{
		"tx_bytes": m.aggregate.TxBytes,
		"rx_bytes": m.aggregate.RxBytes,
	}).Info("destroy: class stats")
}

// Bind creates this node's static-routing state from its private slice
// of the class-wide route table.
func (m *Module) Bind(node routing.NodeInfo, mac routing.MAC, sched routing.Scheduler, app routing.Application, _ routing.Params) (routing.NodeHandle, error) {
	return newState(m, node, mac, sched, app, m.routes.For(node.ID())), nil
}
