package scenarios

import (
	"testing"
	"time"

	"github.com/kprusa/wsnrouting/aodv"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/simnet"
)

// TestAODVOnDemandDiscovery reproduces the on-demand AODV scenario: a
// sensor with no route floods an RREQ, the destination replies, and a
// retried set_header call succeeds with the installed route.
func TestAODVOnDemandDiscovery(t *testing.T) {
	topo := simnet.NewStaticRange(15)
	topo.Place(0, routing.Position{X: 0, Y: 0, Z: 0})
	topo.Place(1, routing.Position{X: 10, Y: 0, Z: 0})
	topo.Place(2, routing.Position{X: 20, Y: 0, Z: 0})

	params := routing.Params{"node_type": "sensor", "rreq_ttl": "9999"}
	h := newHarness(t, aodv.New(), topo, routing.Time(10*time.Millisecond), []bindOpts{
		{id: 0, kind: routing.Sensor, pos: topo.Positions[0], params: params},
		{id: 1, kind: routing.Sensor, pos: topo.Positions[1], params: params},
		{id: 2, kind: routing.Sensor, pos: topo.Positions[2], params: params},
	})

	node2 := h.Nodes[2].(*aodv.State)

	pkt := &routing.Packet{}
	err := node2.SetHeader(pkt, 0)
	if err != routing.ErrNoRoute {
		t.Fatalf("first set_header(dst=0) = %v, want ErrNoRoute", err)
	}

	h.Sched.RunUntil(routing.Time(3 * time.Second))

	retry := &routing.Packet{}
	if err := node2.SetHeader(retry, 0); err != nil {
		t.Fatalf("retried set_header(dst=0): %v", err)
	}
	if retry.Header.LinkDest != 1 {
		t.Fatalf("retried header link_dest = %d, want 1", retry.Header.LinkDest)
	}

	route, ok := node2.RouteTo(0)
	if !ok {
		t.Fatal("node 2 has no installed route to 0 after discovery")
	}
	if route.NextHop != 1 || route.HopCount != 2 {
		t.Fatalf("node 2 route to 0 = %+v, want next_hop=1 hop_to_dst=2", route)
	}

	if n := node2.Stats.RxByType[routing.TypeRREP]; n != 1 {
		t.Fatalf("node 2 received %d RREPs, want exactly 1", n)
	}
}

// TestAODVDuplicateRREQSuppression reproduces the duplicate-suppression
// scenario: a 4-node diamond where the destination sees the same RREQ
// flood arrive by two independent paths and only answers the first.
func TestAODVDuplicateRREQSuppression(t *testing.T) {
	topo := simnet.NewStaticRange(12)
	topo.Place(0, routing.Position{X: 0, Y: 0, Z: 0})    // A
	topo.Place(1, routing.Position{X: 10, Y: 0, Z: 0})   // B
	topo.Place(2, routing.Position{X: 0, Y: 10, Z: 0})   // C
	topo.Place(3, routing.Position{X: 10, Y: 10, Z: 0})  // D

	params := routing.Params{"node_type": "sensor", "rreq_ttl": "9999"}
	h := newHarness(t, aodv.New(), topo, routing.Time(10*time.Millisecond), []bindOpts{
		{id: 0, kind: routing.Sensor, pos: topo.Positions[0], params: params},
		{id: 1, kind: routing.Sensor, pos: topo.Positions[1], params: params},
		{id: 2, kind: routing.Sensor, pos: topo.Positions[2], params: params},
		{id: 3, kind: routing.Sensor, pos: topo.Positions[3], params: params},
	})

	a := h.Nodes[0].(*aodv.State)
	d := h.Nodes[3].(*aodv.State)

	a.StartDiscovery(3)
	h.Sched.RunUntil(routing.Time(3 * time.Second))

	if n := d.Stats.RxByType[routing.TypeRREQ]; n != 2 {
		t.Fatalf("D received %d RREQs (via B and C), want 2", n)
	}
	if n := d.Stats.TxByType[routing.TypeRREP]; n != 1 {
		t.Fatalf("D sent %d RREPs, want exactly 1 (second arrival suppressed)", n)
	}
}
