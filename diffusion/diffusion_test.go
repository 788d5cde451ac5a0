package diffusion

import (
	"testing"

	"github.com/kprusa/wsnrouting/routing"
)

// fakeMAC records installed headers and transmitted packets without any
// network behind it; tests drive Rx directly.
type fakeMAC struct {
	headerSize int
	sent       []*routing.Packet
}

func (m *fakeMAC) HeaderSize() int { return m.headerSize }
func (m *fakeMAC) SetHeader(pkt *routing.Packet, dst routing.NodeID) error {
	pkt.Header.LinkDest = dst
	return nil
}
func (m *fakeMAC) Tx(pkt *routing.Packet) error {
	m.sent = append(m.sent, pkt)
	return nil
}

// fakeScheduler is a trivial routing.Scheduler that never runs fn; it
// records the requested fire time of every Schedule call, enough for tests
// that only need to assert something got scheduled.
type fakeScheduler struct {
	now       routing.Time
	scheduled []routing.Time
}

func (s *fakeScheduler) Now() routing.Time { return s.now }
func (s *fakeScheduler) Schedule(at routing.Time, fn func()) {
	s.scheduled = append(s.scheduled, at)
}

type fakeNodeInfo struct {
	id   routing.NodeID
	kind routing.NodeKind
	pos  routing.Position
}

func (n fakeNodeInfo) ID() routing.NodeID        { return n.id }
func (n fakeNodeInfo) Kind() routing.NodeKind     { return n.kind }
func (n fakeNodeInfo) Position() routing.Position { return n.pos }
func (n fakeNodeInfo) Alive() bool                { return true }

type fakeApp struct {
	delivered []*routing.Packet
}

func (a *fakeApp) Deliver(pkt *routing.Packet) { a.delivered = append(a.delivered, pkt) }

func newTestState(t *testing.T, id routing.NodeID, kind routing.NodeKind, p routing.Params) (*State, *fakeMAC, *fakeScheduler, *fakeApp) {
	t.Helper()
	mod := New()
	mac := &fakeMAC{headerSize: 10}
	sched := &fakeScheduler{}
	app := &fakeApp{}
	node := fakeNodeInfo{id: id, kind: kind}
	h, err := mod.Bind(node, mac, sched, app, p)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	s := h.(*State)
	return s, mac, sched, app
}

func TestSink_SendsHelloWithZeroHop(t *testing.T) {
	s, mac, _, _ := newTestState(t, 1, routing.Sink, routing.Params{"node_type": "sink"})
	s.QueryHeaderSize()
	s.sendHello()

	if len(mac.sent) != 1 {
		t.Fatalf("sent %d packets, want 1", len(mac.sent))
	}
	hh := mac.sent[0].Control.(*routing.HelloHeader)
	if hh.SinkID != 1 || hh.HopToSink != 0 {
		t.Errorf("got %+v, want SinkID=1 HopToSink=0", hh)
	}
}

func TestSensor_SendsHelloWithNoSinkUntilGradientKnown(t *testing.T) {
	s, mac, _, _ := newTestState(t, 2, routing.Sensor, routing.Params{"node_type": "sensor"})
	s.sendHello()

	hh := mac.sent[0].Control.(*routing.HelloHeader)
	if hh.SinkID != routing.NoSink || hh.HopToSink != -1 {
		t.Errorf("got %+v, want SinkID=NoSink HopToSink=-1", hh)
	}
}

func TestHandleHello_InstallsGradientAndMarksPathEstablishment(t *testing.T) {
	s, _, sched, _ := newTestState(t, 2, routing.Sensor, routing.Params{"node_type": "sensor", "lqe_threshold": "0"})
	sched.now = 5

	pkt := &routing.Packet{
		Header:       routing.DataHeader{Source: 1, SourceKind: routing.Sink, Type: routing.TypeHello},
		Control:      &routing.HelloHeader{SinkID: 1, HopToSink: 0},
		RealSizeBits: 64,
	}
	s.handleHello(pkt)

	entry, ok := s.RouteTo(1)
	if !ok {
		t.Fatal("expected a route to sink 1")
	}
	if entry.HopToSink != 1 || entry.NextHop != 1 {
		t.Errorf("got %+v, want HopToSink=1 NextHop=1", entry)
	}
	if !s.Stats.HasPathEstablishment || s.Stats.PathEstablishmentDelay != 5 {
		t.Errorf("path establishment stat not recorded: %+v", s.Stats)
	}
}

func TestHandleHello_IgnoredBelowLQEThreshold(t *testing.T) {
	s, _, sched, _ := newTestState(t, 2, routing.Sensor, routing.Params{"node_type": "sensor", "lqe_threshold": "0.9"})

	pkt := &routing.Packet{
		Header:  routing.DataHeader{Source: 1, SourceKind: routing.Sink, Type: routing.TypeHello},
		Control: &routing.HelloHeader{SinkID: 1, HopToSink: 0},
	}
	// A neighbor first heard in slot 0 starts at LQE 1.0 (no loss slots
	// counted yet) and clears the 0.9 threshold.
	s.handleHello(pkt)
	if _, ok := s.RouteTo(1); !ok {
		t.Fatal("first observation should clear the 0.9 threshold")
	}

	// A neighbor first heard in slot 5 starts with 5 loss slots (LQE 1/6),
	// below the threshold, so the gradient it advertises is ignored.
	sched.now = 5 * s.cfg.HelloPeriod
	s.handleHello(&routing.Packet{
		Header:  routing.DataHeader{Source: 3, SourceKind: routing.Sensor, Type: routing.TypeHello},
		Control: &routing.HelloHeader{SinkID: 7, HopToSink: 0},
	})
	if _, ok := s.RouteTo(7); ok {
		t.Fatal("hello from a neighbor below the LQE threshold should not install a route")
	}
}

func TestSetHeader_NoRouteIsError(t *testing.T) {
	s, _, _, _ := newTestState(t, 2, routing.Sensor, routing.Params{"node_type": "sensor"})
	pkt := &routing.Packet{}
	if err := s.SetHeader(pkt, routing.Broadcast); err != routing.ErrNoRoute {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestRx_Data_DeliversAtEndDest(t *testing.T) {
	s, _, _, app := newTestState(t, 1, routing.Sink, routing.Params{"node_type": "sink"})
	pkt := &routing.Packet{Header: routing.DataHeader{Type: routing.TypeData, EndDest: 1}}
	s.Rx(pkt)

	if len(app.delivered) != 1 {
		t.Fatalf("delivered %d packets, want 1", len(app.delivered))
	}
}

func TestRx_Data_AnchorDropsSilently(t *testing.T) {
	s, _, _, app := newTestState(t, 9, routing.Anchor, routing.Params{"node_type": "sensor"})
	s.Rx(&routing.Packet{Header: routing.DataHeader{Type: routing.TypeData, EndDest: 9}})

	if len(app.delivered) != 0 {
		t.Fatal("anchor should never deliver")
	}
}

func TestFireInterest_OnlyFromSink(t *testing.T) {
	s, mac, _, _ := newTestState(t, 1, routing.Sink, routing.Params{
		"node_type":                             "sink",
		"sink_interest_propagation_probability": "1",
	})
	s.fireInterest()

	if len(mac.sent) != 1 {
		t.Fatalf("sent %d packets, want 1", len(mac.sent))
	}
	ih := mac.sent[0].Control.(*routing.InterestHeader)
	if ih.Seq != 1 || ih.SinkID != 1 {
		t.Errorf("got %+v, want Seq=1 SinkID=1", ih)
	}
}

func TestHandleInterest_DuplicateIsDropped(t *testing.T) {
	s, mac, sched, _ := newTestState(t, 2, routing.Sensor, routing.Params{
		"node_type":                             "sensor",
		"sink_interest_propagation_probability": "1",
		"sink_interest_ttl":                      "5",
	})
	pkt := &routing.Packet{
		Header:  routing.DataHeader{Source: 1, Type: routing.TypeInterest, Hop: 0},
		Control: &routing.InterestHeader{SinkID: 1, Seq: 1, TTL: 5, TTLMax: 5, DataType: 0},
	}
	s.handleInterest(pkt)
	firstScheduled := len(sched.scheduled)
	if firstScheduled == 0 {
		t.Fatal("expected a rebroadcast to be scheduled")
	}

	s.handleInterest(pkt)
	if len(sched.scheduled) != firstScheduled {
		t.Error("duplicate interest should not schedule another rebroadcast")
	}
	_ = mac
}

func TestHandleInterest_TTLExhaustedDropped(t *testing.T) {
	s, _, sched, _ := newTestState(t, 2, routing.Sensor, routing.Params{
		"node_type":                             "sensor",
		"sink_interest_propagation_probability": "1",
	})
	pkt := &routing.Packet{
		Header:  routing.DataHeader{Source: 1, Type: routing.TypeInterest, Hop: 0},
		Control: &routing.InterestHeader{SinkID: 1, Seq: 1, TTL: 0, TTLMax: 5, DataType: 0},
	}
	s.handleInterest(pkt)
	if len(sched.scheduled) != 0 {
		t.Error("ttl-exhausted interest should not be rescheduled")
	}
}
