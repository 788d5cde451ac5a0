// Package scenarios reproduces the end-to-end scenarios named against
// the real simnet scheduler/network/topology, as opposed to the
// fake-MAC unit tests each protocol package already carries: a full
// Directed Diffusion gradient build and data delivery, an on-demand
// AODV route discovery and a duplicate-RREQ flood, OLSRv2 MPR selection
// and TC-driven Dijkstra convergence, and neighbor eviction on timeout.
package scenarios

import (
	"testing"

	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/simnet"
)

// bindOpts is one node's placement and per-node parameter overrides for
// a scenario's network.
type bindOpts struct {
	id     routing.NodeID
	kind   routing.NodeKind
	pos    routing.Position
	params routing.Params
}

// harness wires a simnet scheduler, network and topology together and
// binds every requested node to mod, mirroring cmd/wsnroutesim's wiring
// but keeping the concrete per-node handles and applications a scenario
// test asserts against.
type harness struct {
	Sched *simnet.Scheduler
	Net   *simnet.Network
	Nodes map[routing.NodeID]routing.NodeHandle
	Apps  map[routing.NodeID]*simnet.Application
	Infos map[routing.NodeID]*simnet.NodeInfo
}

func newHarness(t *testing.T, mod routing.Module, topo simnet.Topology, airTime routing.Time, opts []bindOpts) *harness {
	t.Helper()
	sched := simnet.NewScheduler()
	net := simnet.NewNetwork(sched, topo, airTime, 0)
	if err := mod.Init(routing.Params{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	h := &harness{
		Sched: sched,
		Net:   net,
		Nodes: make(map[routing.NodeID]routing.NodeHandle),
		Apps:  make(map[routing.NodeID]*simnet.Application),
		Infos: make(map[routing.NodeID]*simnet.NodeInfo),
	}
	for _, o := range opts {
		info := simnet.NewNodeInfo(o.id, o.kind, o.pos)
		mac := net.MAC(o.id)
		app := &simnet.Application{}
		handle, err := mod.Bind(info, mac, sched, app, o.params)
		if err != nil {
			t.Fatalf("bind node %d: %v", o.id, err)
		}
		net.Register(info, handle)
		h.Nodes[o.id] = handle
		h.Apps[o.id] = app
		h.Infos[o.id] = info
	}
	for id, handle := range h.Nodes {
		if err := handle.Bootstrap(); err != nil {
			t.Fatalf("bootstrap node %d: %v", id, err)
		}
	}
	return h
}

// withParams copies base and overlays extra on top, used to keep each
// scenario's per-node parameter differences (node_type, sink_id, a
// disabled timer) readable at the call site.
func withParams(base routing.Params, extra map[string]string) routing.Params {
	out := make(routing.Params, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
