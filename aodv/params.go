package aodv

import "github.com/kprusa/wsnrouting/routing"

// Params is the parsed, validated configuration for one bound AODV node.
type Params struct {
	NodeType routing.NodeKind
	SinkID   routing.NodeID

	HelloStatus bool
	HelloNbr    int
	HelloStart  routing.Time
	HelloPeriod routing.Time
	HelloTimeout routing.Time

	RREQStatus              bool
	RREQNbr                 int
	RREQStart               routing.Time
	RREQPeriod              routing.Time
	RREQPropagationProb     float64
	RREQPropagationBackoff  routing.Time
	RREPPropagationBackoff  routing.Time
	RREQTTL                 int
	RREQDataType            int

	RSSISmoothingFactor float64
	LQEThreshold        float64

	HelloRealSizeBits int
	RREQRealSizeBits  int
	RREPRealSizeBits  int
}

func parseParams(p routing.Params) (Params, error) {
	cfg := Params{}

	nodeType, err := p.NodeKindParam(routing.Sensor)
	if err != nil {
		return cfg, err
	}
	cfg.NodeType = nodeType

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
	if cfg.HelloPeriod, err = p.Duration("hello_period", routing.Time(1e9)); err != nil {
		return cfg, err
	}
	if cfg.HelloTimeout, err = p.Duration("hello_timeout", 3*cfg.HelloPeriod); err != nil {
		return cfg, err
	}

	if cfg.RREQStatus, err = p.Bool("rreq_status", false); err != nil {
		return cfg, err
	}
	if cfg.RREQNbr, err = p.Int("rreq_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.RREQStart, err = p.Duration("rreq_start", 0); err != nil {
		return cfg, err
	}
	if cfg.RREQPeriod, err = p.Duration("rreq_period", routing.Time(10e9)); err != nil {
		return cfg, err
	}
	if cfg.RREQPropagationProb, err = p.RangeFloat("rreq_propagation_probability", 1.0, 0, 1); err != nil {
		return cfg, err
	}
	if cfg.RREQPropagationBackoff, err = p.Duration("rreq_propagation_backoff", routing.Time(1e9)); err != nil {
		return cfg, err
	}
	if cfg.RREPPropagationBackoff, err = p.Duration("rrep_propagation_backoff", routing.Time(200e6)); err != nil {
		return cfg, err
	}
	if cfg.RREQTTL, err = p.Int("rreq_ttl", 9999); err != nil {
		return cfg, err
	}
	if cfg.RREQDataType, err = p.Int("rreq_data_type", -1); err != nil {
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
	if cfg.RREQRealSizeBits, err = p.Int("rreq_packet_real_size", 24); err != nil {
		return cfg, err
	}
	cfg.RREQRealSizeBits *= 8
	if cfg.RREPRealSizeBits, err = p.Int("rrep_packet_real_size", 20); err != nil {
		return cfg, err
	}
	cfg.RREPRealSizeBits *= 8

	return cfg, nil
}
