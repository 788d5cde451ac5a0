// Package olsrv2 implements the OLSRv2 engine: periodic HELLO exchange
// driving one-hop/two-hop neighbor discovery and greedy MPR selection,
// MPR-gated TC dissemination that builds a per-node connectivity matrix,
// and on-demand Dijkstra path computation whose result is carried as a
// source route in the outgoing DATA header (spec.md §4.5). Grounded on
// olsrv2.c and the route_update_from_tc / dijkstra functions of
// routing_routes_management.c and routing_neighbors_management.c.
package olsrv2

import "github.com/kprusa/wsnrouting/routing"

// Params is the parsed, validated configuration for one bound OLSRv2 node.
type Params struct {
	NodeType routing.NodeKind

	HelloStatus  bool
	HelloNbr     int
	HelloStart   routing.Time
	HelloPeriod  routing.Time
	HelloTimeout routing.Time

	TCStatus bool
	TCNbr    int
	TCStart  routing.Time
	TCPeriod routing.Time

	RSSISmoothingFactor float64
	LQEThreshold        float64

	HelloRealSizeBits int
	TCRealSizeBits    int
}

func parseParams(p routing.Params) (Params, error) {
	cfg := Params{}

	nodeType, err := p.NodeKindParam(routing.Sensor)
	if err != nil {
		return cfg, err
	}
	cfg.NodeType = nodeType

	if cfg.HelloStatus, err = p.Bool("hello_status", true); err != nil {
		return cfg, err
	}
	if cfg.HelloNbr, err = p.Int("hello_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.HelloStart, err = p.Duration("hello_start", 0); err != nil {
		return cfg, err
	}
	if cfg.HelloPeriod, err = p.Duration("hello_period", routing.Time(1e9)); err != nil {
		return cfg, err
	}
	if cfg.HelloTimeout, err = p.Duration("hello_timeout", 3*cfg.HelloPeriod); err != nil {
		return cfg, err
	}

	if cfg.TCStatus, err = p.Bool("tc_status", true); err != nil {
		return cfg, err
	}
	if cfg.TCNbr, err = p.Int("tc_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.TCStart, err = p.Duration("tc_start", cfg.HelloPeriod); err != nil {
		return cfg, err
	}
	if cfg.TCPeriod, err = p.Duration("tc_period", 2*cfg.HelloPeriod); err != nil {
		return cfg, err
	}

	if cfg.RSSISmoothingFactor, err = p.RangeFloat("rssi_smoothing_factor", 0.9, 0, 1); err != nil {
		return cfg, err
	}
	if cfg.LQEThreshold, err = p.RangeFloat("lqe_threshold", 0.8, 0, 1); err != nil {
		return cfg, err
	}

	if cfg.HelloRealSizeBits, err = p.Int("hello_packet_real_size", 20); err != nil {
		return cfg, err
	}
	cfg.HelloRealSizeBits *= 8
	if cfg.TCRealSizeBits, err = p.Int("tc_packet_real_size", 24); err != nil {
		return cfg, err
	}
	cfg.TCRealSizeBits *= 8

	return cfg, nil
}
