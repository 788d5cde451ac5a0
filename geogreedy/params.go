package geogreedy

import "github.com/kprusa/wsnrouting/routing"

// Params is the parsed, validated configuration for one bound greedy
// geographic routing node.
type Params struct {
	HelloStatus bool
	HelloNbr    int
	HelloStart  routing.Time
	HelloPeriod routing.Time
	HelloTimeout routing.Time

	HopLimit int

	HelloRealSizeBits int
}

func parseParams(p routing.Params) (Params, error) {
	cfg := Params{}
	var err error

	if cfg.HelloStatus, err = p.Bool("hello_status", true); err != nil {
		return cfg, err
	}
	if cfg.HelloNbr, err = p.Int("hello_nbr", -1); err != nil {
		return cfg, err
	}
	if cfg.HelloStart, err = p.Duration("start", 0); err != nil {
		return cfg, err
	}
	if cfg.HelloPeriod, err = p.Duration("period", routing.Time(1e9)); err != nil {
		return cfg, err
	}
	if cfg.HelloTimeout, err = p.Duration("timeout", routing.Time(2500e6)); err != nil {
		return cfg, err
	}
	if cfg.HopLimit, err = p.Int("hop", 32); err != nil {
		return cfg, err
	}
	if cfg.HelloRealSizeBits, err = p.Int("hello_packet_real_size", 16); err != nil {
		return cfg, err
	}
	cfg.HelloRealSizeBits *= 8

	return cfg, nil
}
