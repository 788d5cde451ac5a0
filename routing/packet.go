package routing

import "time"

// DataHeader is the common data-plane header carried by every packet,
// control or data. It is the one part of the packet every engine agrees
// on; the type-specific sub-header lives in Control.
type DataHeader struct {
	Source     NodeID
	LinkDest   NodeID // immediate link-layer next hop; Broadcast for floods
	EndDest    NodeID // end-to-end destination; Broadcast means "closest sink"
	SourceKind NodeKind
	Type       PacketType
	Hop        int

	// Path and PathIndex are OLSRv2's source route, set by
	// olsrv2.State.SetHeader and advanced on every forwarding hop.
	Path      []NodeID
	PathIndex int
}

// HelloHeader is the sub-header of a HELLO packet.
type HelloHeader struct {
	SinkID      NodeID
	HopToSink   int
	Position    Position
	OneHop      []NodeID // OLSRv2's bounded one-hop list
	LinkType    int      // neighbor's view of the link type, protocol-specific
}

// InterestHeader is the sub-header of an INTEREST packet (Directed Diffusion).
type InterestHeader struct {
	SinkID   NodeID
	Seq      int
	TTL      int
	TTLMax   int
	DataType int
}

// RREQHeader is the sub-header of an RREQ packet (AODV).
type RREQHeader struct {
	Src      NodeID
	Dst      NodeID
	Seq      int
	TTL      int
	TTLMax   int
	DataType int
}

// RREPHeader is the sub-header of an RREP packet (AODV).
type RREPHeader struct {
	Src      NodeID
	Dst      NodeID
	Seq      int
	SeqRREQ  int
	HopToDst int
}

// TCHeader is the sub-header of a TC packet (OLSRv2).
type TCHeader struct {
	Originator NodeID
	Seq        int
	OneHop     []NodeID
	MPRSet     []NodeID
}

// Packet is the opaque transport object handed between the routing layer,
// the MAC below and the application above. Real-size/air-time/received-
// power model the radio characteristics the host scheduler cares about;
// Header and Control are the routing-layer payload.
type Packet struct {
	Header  DataHeader
	Control any // one of *HelloHeader, *InterestHeader, *RREQHeader, *RREPHeader, *TCHeader; nil for DATA

	RealSizeBits int
	RxPowerDBm   float64
	AirTime      time.Duration

	// Payload is the application-layer data carried by a DATA packet.
	Payload []byte
}

// Clone returns a deep-enough copy suitable for re-transmission (e.g. a
// rebroadcast after a jittered backoff) without aliasing the Path slice.
func (p *Packet) Clone() *Packet {
	cp := *p
	if p.Header.Path != nil {
		cp.Header.Path = append([]NodeID(nil), p.Header.Path...)
	}
	if p.Payload != nil {
		cp.Payload = append([]byte(nil), p.Payload...)
	}
	return &cp
}
