// Package diffusion implements the Directed Diffusion routing engine:
// periodic HELLO for neighbor discovery, sink-originated INTEREST floods
// that install reverse gradients, and data forwarding along the
// established gradient towards the closest (or named) sink (spec.md
// §4.3), grounded on directed_diffusion.c.
package diffusion

import "github.com/kprusa/wsnrouting/routing"

// Params is the parsed, validated set of per-node configuration options
// Directed Diffusion recognizes (spec.md §6).
type Params struct {
	NodeType routing.NodeKind
	SinkID   routing.NodeID

	HelloStatus  bool
	HelloNbr     int
	HelloStart   routing.Time
	HelloPeriod  routing.Time
	HelloTimeout routing.Time

	InterestStatus              bool
	InterestNbr                 int
	InterestStart               routing.Time
	InterestPeriod              routing.Time
	InterestPropagationProb     float64
	InterestPropagationBackoff  routing.Time
	InterestTTL                 int
	InterestDataType            int

	RSSISmoothingFactor float64
	LQEThreshold        float64

	HelloRealSizeBits    int
	InterestRealSizeBits int
}

func parseParams(p routing.Params) (Params, error) {
	var cfg Params
	var err error

	if cfg.NodeType, err = p.NodeKindParam(routing.Sensor); err != nil {
		return cfg, err
	}
	sinkID, err := p.Int("sink_id", int(routing.NoSink))
	if err != nil {
		return cfg, err
	}
	cfg.SinkID = routing.NodeID(sinkID)

	if cfg.HelloStatus, err = p.Bool("hello_status", true); err != nil {
		return cfg, err
	}
	if cfg.HelloNbr, err = p.Int("hello_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.HelloStart, err = p.Duration("hello_start", 0); err != nil {
		return cfg, err
	}
	if cfg.HelloPeriod, err = p.Duration("hello_period", 1_000_000_000); err != nil {
		return cfg, err
	}
	if cfg.HelloTimeout, err = p.Duration("hello_timeout", 3*cfg.HelloPeriod); err != nil {
		return cfg, err
	}

	if cfg.InterestStatus, err = p.Bool("sink_interest_status", true); err != nil {
		return cfg, err
	}
	if cfg.InterestNbr, err = p.Int("sink_interest_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.InterestStart, err = p.Duration("sink_interest_start", 0); err != nil {
		return cfg, err
	}
	if cfg.InterestPeriod, err = p.Duration("sink_interest_period", cfg.HelloPeriod); err != nil {
		return cfg, err
	}
	if cfg.InterestPropagationProb, err = p.RangeFloat("sink_interest_propagation_probability", 1, 0, 1); err != nil {
		return cfg, err
	}
	if cfg.InterestPropagationBackoff, err = p.Duration("sink_interest_propagation_backoff", cfg.HelloPeriod/10); err != nil {
		return cfg, err
	}
	if cfg.InterestTTL, err = p.Int("sink_interest_ttl", 32); err != nil {
		return cfg, err
	}
	if cfg.InterestDataType, err = p.Int("sink_interest_data_type", 0); err != nil {
		return cfg, err
	}

	if cfg.RSSISmoothingFactor, err = p.RangeFloat("rssi_smoothing_factor", 0.5, 0, 1); err != nil {
		return cfg, err
	}
	if cfg.LQEThreshold, err = p.RangeFloat("lqe_threshold", 0, 0, 1); err != nil {
		return cfg, err
	}

	if cfg.HelloRealSizeBits, err = p.Int("hello_packet_real_size", 32); err != nil {
		return cfg, err
	}
	cfg.HelloRealSizeBits *= 8
	if cfg.InterestRealSizeBits, err = p.Int("interest_packet_real_size", 32); err != nil {
		return cfg, err
	}
	cfg.InterestRealSizeBits *= 8

	return cfg, nil
}
