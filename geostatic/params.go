package geostatic

import "github.com/kprusa/wsnrouting/routing"

// Params is the parsed, validated configuration for one bound static
// geographic routing node.
type Params struct {
	HopLimit int
	Range    float64
	Random   int // 0 = always nearest neighbor; N>=1 = reselect every N calls
}

func parseParams(p routing.Params) (Params, error) {
	cfg := Params{}
	var err error

	if cfg.HopLimit, err = p.Int("hop", 32); err != nil {
		return cfg, err
	}
	if cfg.Range, err = p.Float("range", 1); err != nil {
		return cfg, err
	}
	if cfg.Random, err = p.Int("random", 0); err != nil {
		return cfg, err
	}

	return cfg, nil
}
