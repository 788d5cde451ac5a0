package simnet

import "github.com/kprusa/wsnrouting/routing"

// NodeInfo is a reference routing.NodeInfo: a fixed id/kind/position plus
// a liveness flag a test can flip to model node death.
type NodeInfo struct {
	id       routing.NodeID
	kind     routing.NodeKind
	position routing.Position
	alive    bool
}

// NewNodeInfo creates a live node at the given position.
func NewNodeInfo(id routing.NodeID, kind routing.NodeKind, pos routing.Position) *NodeInfo {
	return &NodeInfo{id: id, kind: kind, position: pos, alive: true}
}

func (n *NodeInfo) ID() routing.NodeID          { return n.id }
func (n *NodeInfo) Kind() routing.NodeKind       { return n.kind }
func (n *NodeInfo) Position() routing.Position   { return n.position }
func (n *NodeInfo) Alive() bool                  { return n.alive }
func (n *NodeInfo) SetAlive(alive bool)          { n.alive = alive }
func (n *NodeInfo) Move(pos routing.Position)    { n.position = pos }

// Application is a reference routing.Application that just records every
// packet delivered to it, for test assertions.
type Application struct {
	Delivered []*routing.Packet
}

func (a *Application) Deliver(pkt *routing.Packet) {
	a.Delivered = append(a.Delivered, pkt)
}

type boundNode struct {
	info   *NodeInfo
	handle routing.NodeHandle
	mac    *mac
}

// Network wires a Scheduler and a Topology together into a shared radio
// medium: MAC.Tx on one node schedules Rx on every node currently in
// range, after a fixed per-hop delay.
type Network struct {
	Sched    *Scheduler
	Topo     Topology
	AirTime  routing.Time
	overhead int

	nodes map[routing.NodeID]*boundNode
}

// NewNetwork creates a network on top of an existing scheduler and
// topology. overhead is the fixed MAC header size every node's
// routing.MAC reports via HeaderSize.
func NewNetwork(sched *Scheduler, topo Topology, airTime routing.Time, overhead int) *Network {
	return &Network{
		Sched:    sched,
		Topo:     topo,
		AirTime:  airTime,
		overhead: overhead,
		nodes:    make(map[routing.NodeID]*boundNode),
	}
}

// MAC returns a routing.MAC bound to the given node's identity, to be
// passed to a routing.Module's Bind call before the resulting NodeHandle
// is registered with Register.
func (n *Network) MAC(id routing.NodeID) routing.MAC {
	return &mac{net: n, src: id}
}

// Register associates a bound NodeHandle with its NodeInfo so the network
// can route Rx events to it.
func (n *Network) Register(info *NodeInfo, handle routing.NodeHandle) {
	n.nodes[info.id] = &boundNode{info: info, handle: handle}
}

// deliver fans a transmitted packet out to every node currently reachable
// from src, per the topology, scheduling each Rx after AirTime.
func (n *Network) deliver(src routing.NodeID, linkDest routing.NodeID, pkt *routing.Packet) {
	for id, bn := range n.nodes {
		if id == src || !bn.info.alive {
			continue
		}
		if linkDest != routing.Broadcast && id != linkDest {
			continue
		}
		if !n.Topo.LinkUp(src, id, n.Sched.Now()) {
			continue
		}
		clone := pkt.Clone()
		dest := bn.handle
		n.Sched.Schedule(n.Sched.Now()+n.AirTime, func() {
			dest.Rx(clone)
		})
	}
}

// mac is the per-node routing.MAC handed to a Module at Bind time.
type mac struct {
	net *Network
	src routing.NodeID
}

func (m *mac) HeaderSize() int { return m.net.overhead }

// Position implements routing.NeighborLocator.
func (m *mac) Position(id routing.NodeID) (routing.Position, bool) { return m.net.position(id) }

// Alive implements routing.NeighborLocator.
func (m *mac) Alive(id routing.NodeID) bool { return m.net.alive(id) }

// AllPositions implements routing.NeighborLocator.
func (m *mac) AllPositions() map[routing.NodeID]routing.Position { return m.net.allPositions() }

func (n *Network) position(id routing.NodeID) (routing.Position, bool) {
	bn, ok := n.nodes[id]
	if !ok {
		return routing.Position{}, false
	}
	return bn.info.position, true
}

func (n *Network) alive(id routing.NodeID) bool {
	bn, ok := n.nodes[id]
	return ok && bn.info.alive
}

func (n *Network) allPositions() map[routing.NodeID]routing.Position {
	out := make(map[routing.NodeID]routing.Position, len(n.nodes))
	for id, bn := range n.nodes {
		if bn.info.alive {
			out[id] = bn.info.position
		}
	}
	return out
}

// SetHeader is a no-op in simnet: nodes must already be registered, and
// there is no lower MAC header to populate beyond what the engine itself
// tracks in routing.DataHeader.
func (m *mac) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	return nil
}

func (m *mac) Tx(pkt *routing.Packet) error {
	m.net.deliver(m.src, pkt.Header.LinkDest, pkt)
	return nil
}
