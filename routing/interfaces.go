package routing

// Scheduler places a future callback on the host discrete-event queue.
// It is the suite's only suspension point: nothing in the core blocks on
// I/O, everything advances through Schedule call-backs fired by the host.
type Scheduler interface {
	// Now returns the current virtual time.
	Now() Time
	// Schedule arranges for fn to run at virtual time "at". For events at
	// the same node, the host guarantees non-decreasing time order with
	// ties broken by insertion order (spec.md §5).
	Schedule(at Time, fn func())
}

// MAC is the link layer immediately below routing. It exposes just enough
// surface for the routing layer to size its own headers and hand packets
// down for transmission.
type MAC interface {
	// HeaderSize returns the MAC's own header overhead in bytes, queried
	// once at Bootstrap and cached by the engine.
	HeaderSize() int
	// SetHeader installs the MAC-layer header for a packet addressed to
	// dst (which may be Broadcast). Returns an error if it cannot.
	SetHeader(pkt *Packet, dst NodeID) error
	// Tx hands a fully-headered packet to the MAC for transmission. The
	// MAC takes ownership of pkt.
	Tx(pkt *Packet) error
}

// NodeInfo exposes the read-only node/position/connectivity model a
// routing engine needs: identity, location and liveness.
type NodeInfo interface {
	ID() NodeID
	Kind() NodeKind
	Position() Position
	Alive() bool
}

// Application is the layer above routing; Deliver hands it a decapsulated
// DATA packet addressed to this node.
type Application interface {
	Deliver(pkt *Packet)
}

// NeighborLocator is an optional capability a MAC may implement: a
// position oracle exposing every node's fixed location and liveness.
// Static geographic routing uses it to enumerate its radio neighbors
// once at Bootstrap instead of running a discovery protocol
// (geostatic.c's find_neighbors scans every simulated node's position
// directly); greedy geographic routing uses it only to resolve an
// arbitrary destination id's position for SetHeader, since the data
// plane otherwise carries no position for anything beyond a one-hop
// neighbor. A MAC that does not implement this interface simply leaves
// those two engines unable to resolve unknown destinations.
type NeighborLocator interface {
	// Position reports id's current location, and whether id is known.
	Position(id NodeID) (Position, bool)
	// Alive reports whether id is currently alive.
	Alive(id NodeID) bool
	// AllPositions returns the position of every currently alive node.
	AllPositions() map[NodeID]Position
}

// Stats accumulates the per-class or per-node counters spec.md §3 and §6
// describe ("emits optional ... stats line" on Destroy/Unbind).
type Stats struct {
	TxByType map[PacketType]int
	RxByType map[PacketType]int
	TxBytes  int
	RxBytes  int

	// PathEstablishmentDelay is the time to a node's first successful
	// route install, measured from its first RREQ in AODV and from
	// virtual time zero in Directed Diffusion.
	PathEstablishmentDelay Time
	HasPathEstablishment   bool
}

func newStats() Stats {
	return Stats{
		TxByType: make(map[PacketType]int),
		RxByType: make(map[PacketType]int),
	}
}

func (s *Stats) recordTx(t PacketType, bytes int) {
	if s.TxByType == nil {
		s.TxByType = make(map[PacketType]int)
	}
	s.TxByType[t]++
	s.TxBytes += bytes
}

func (s *Stats) recordRx(t PacketType, bytes int) {
	if s.RxByType == nil {
		s.RxByType = make(map[PacketType]int)
	}
	s.RxByType[t]++
	s.RxBytes += bytes
}

// Merge folds other's counters into s, used to aggregate per-node stats
// into a class-wide total on Destroy.
func (s *Stats) Merge(other Stats) {
	if s.TxByType == nil {
		s.TxByType = make(map[PacketType]int)
	}
	if s.RxByType == nil {
		s.RxByType = make(map[PacketType]int)
	}
	for k, v := range other.TxByType {
		s.TxByType[k] += v
	}
	for k, v := range other.RxByType {
		s.RxByType[k] += v
	}
	s.TxBytes += other.TxBytes
	s.RxBytes += other.RxBytes
}

// Module is the class-wide routing module contract (spec.md §6): one
// instance is Init'd once, then Bind'd once per participating node.
type Module interface {
	// Init parses class-wide parameters and readies the module.
	Init(params Params) error
	// Destroy emits an optional aggregate stats line and releases
	// class-wide state.
	Destroy()
	// Bind creates the per-node state for node, validating params.
	// Parse failures leave the node unusable and return an error.
	Bind(node NodeInfo, mac MAC, sched Scheduler, app Application, params Params) (NodeHandle, error)
}

// NodeHandle is the per-node half of the routing module contract.
type NodeHandle interface {
	// Unbind tears the node down, optionally emitting a stats line.
	Unbind()
	// Bootstrap queries the MAC for header size and schedules the
	// node's first periodic control-plane events.
	Bootstrap() error
	// SetHeader installs the data header for an outgoing packet bound
	// for dst (Broadcast means "closest sink" for Directed Diffusion).
	// Returns ErrNoRoute if no route exists; AODV additionally kicks off
	// an RREQ as a side effect.
	SetHeader(pkt *Packet, dst NodeID) error
	// HeaderSize returns the MAC overhead plus sizeof(data header).
	HeaderSize() int
	// HeaderRealSize returns the same, in on-air bits.
	HeaderRealSize() int
	// Tx hands a packet with an installed header to the MAC.
	Tx(pkt *Packet) error
	// Rx demultiplexes an incoming packet by its PacketType tag.
	Rx(pkt *Packet)
}
