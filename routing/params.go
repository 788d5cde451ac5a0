package routing

import (
	"strconv"
	"time"
)

// Params is a per-node or class-wide configuration bag. Parsing the file
// or document that produces this map is the host's job (out of scope,
// spec.md §1); validating the recognized keys of spec.md §6 is this
// type's job, extending the teacher's line-format validation idiom
// (parseLinkState) to an arbitrary key-value map.
type Params map[string]string

// String returns the raw value for key, or def if absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int parses key as an integer, returning def if the key is absent.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ConfigError{Key: key, Msg: "not an integer: '" + v + "'"}
	}
	return n, nil
}

// Float parses key as a float64, returning def if the key is absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, ConfigError{Key: key, Msg: "not a number: '" + v + "'"}
	}
	return f, nil
}

// Bool parses key as a boolean ("0"/"1"/"true"/"false"), returning def if
// the key is absent.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true, nil
	case "0", "false", "FALSE", "False":
		return false, nil
	default:
		return false, ConfigError{Key: key, Msg: "not a boolean: '" + v + "'"}
	}
}

// Duration parses key as a count of nanoseconds (the unit virtual time is
// expressed in throughout this suite), returning def if the key is absent.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, ConfigError{Key: key, Msg: "not a duration (ns): '" + v + "'"}
	}
	return time.Duration(n), nil
}

// RangeFloat parses key as a float64 and validates lo <= value <= hi.
func (p Params) RangeFloat(key string, def, lo, hi float64) (float64, error) {
	f, err := p.Float(key, def)
	if err != nil {
		return 0, err
	}
	if f < lo || f > hi {
		return 0, ConfigError{Key: key, Msg: "out of range [" + strconv.FormatFloat(lo, 'g', -1, 64) + ", " + strconv.FormatFloat(hi, 'g', -1, 64) + "]"}
	}
	return f, nil
}

// NodeKindParam parses the node_type parameter.
func (p Params) NodeKindParam(def NodeKind) (NodeKind, error) {
	v, ok := p["node_type"]
	if !ok {
		return def, nil
	}
	switch v {
	case "sensor":
		return Sensor, nil
	case "sink":
		return Sink, nil
	case "anchor":
		return Anchor, nil
	default:
		return 0, ConfigError{Key: "node_type", Msg: "must be one of {sensor, sink, anchor}: '" + v + "'"}
	}
}
