package simnet

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kprusa/wsnrouting/routing"
)

// Topology decides, at a given virtual time, whether a radio link between
// two nodes is usable. Implementations need not be symmetric.
type Topology interface {
	LinkUp(a, b routing.NodeID, now routing.Time) bool
}

// StaticRange is a Topology in which every node sits at a fixed position
// and any pair within Range of each other has a (symmetric) link.
type StaticRange struct {
	Positions map[routing.NodeID]routing.Position
	Range     float64
}

// NewStaticRange creates a StaticRange with no positions registered.
func NewStaticRange(rangeMeters float64) *StaticRange {
	return &StaticRange{Positions: make(map[routing.NodeID]routing.Position), Range: rangeMeters}
}

// Place records a node's fixed position.
func (t *StaticRange) Place(id routing.NodeID, pos routing.Position) {
	t.Positions[id] = pos
}

// LinkUp reports whether a and b are within radio range of each other.
func (t *StaticRange) LinkUp(a, b routing.NodeID, _ routing.Time) bool {
	if a == b {
		return false
	}
	pa, ok := t.Positions[a]
	if !ok {
		return false
	}
	pb, ok := t.Positions[b]
	if !ok {
		return false
	}
	dx, dy, dz := pa.X-pb.X, pa.Y-pb.Y, pa.Z-pb.Z
	return math.Sqrt(dx*dx+dy*dy+dz*dz) <= t.Range
}

// LinkStatus is whether a directed link is usable starting at some time.
type LinkStatus int

const (
	LinkUp LinkStatus = iota
	LinkDown
)

// LinkEvent is one entry of a ScriptedTopology's per-pair timeline,
// generalizing the teacher's NetworkTypology "time UP|DOWN from to" line
// format from single-digit node labels to arbitrary routing.NodeIDs.
type LinkEvent struct {
	At     routing.Time
	Status LinkStatus
	From   routing.NodeID
	To     routing.NodeID
}

// ScriptedTopology drives link state from an explicit, time-ordered script
// of LinkEvents, one timeline per ordered (from, to) pair. A pair with no
// recorded event is considered down. This is the generalized form of the
// teacher's NetworkTypology.
type ScriptedTopology struct {
	timelines map[[2]routing.NodeID][]LinkEvent
}

// NewScriptedTopology creates an empty scripted topology.
func NewScriptedTopology() *ScriptedTopology {
	return &ScriptedTopology{timelines: make(map[[2]routing.NodeID][]LinkEvent)}
}

// Add appends a LinkEvent. Events for a given (from, to) pair must be
// added in non-decreasing time order, mirroring the teacher's assumption
// that its input files are already time-sorted.
func (t *ScriptedTopology) Add(ev LinkEvent) {
	key := [2]routing.NodeID{ev.From, ev.To}
	t.timelines[key] = append(t.timelines[key], ev)
}

// AddSymmetric is a convenience for radios, which are link-symmetric in
// practice even though the underlying model is directed.
func (t *ScriptedTopology) AddSymmetric(at routing.Time, status LinkStatus, a, b routing.NodeID) {
	t.Add(LinkEvent{At: at, Status: status, From: a, To: b})
	t.Add(LinkEvent{At: at, Status: status, From: b, To: a})
}

// LinkUp reports the most recent scripted status for (a, b) at or before
// now; a pair never scripted is down.
func (t *ScriptedTopology) LinkUp(a, b routing.NodeID, now routing.Time) bool {
	timeline := t.timelines[[2]routing.NodeID{a, b}]
	status := LinkDown
	for _, ev := range timeline {
		if ev.At > now {
			break
		}
		status = ev.Status
	}
	return status == LinkUp
}

// ParseScriptedTopology reads the "time status from to" line format
// (teacher's link-state file grammar) into a ScriptedTopology. Blank
// lines and lines starting with '#' are ignored.
func ParseScriptedTopology(r io.Reader) (*ScriptedTopology, error) {
	topo := NewScriptedTopology()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("simnet: topology line %d: want 4 fields, got %d", lineNo, len(fields))
		}
		atMs, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("simnet: topology line %d: bad time: %w", lineNo, err)
		}
		var status LinkStatus
		switch strings.ToUpper(fields[1]) {
		case "UP":
			status = LinkUp
		case "DOWN":
			status = LinkDown
		default:
			return nil, fmt.Errorf("simnet: topology line %d: bad status %q", lineNo, fields[1])
		}
		from, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("simnet: topology line %d: bad from: %w", lineNo, err)
		}
		to, err := strconv.ParseInt(fields[3], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("simnet: topology line %d: bad to: %w", lineNo, err)
		}
		topo.Add(LinkEvent{
			At:     routing.Time(atMs) * routing.Time(1e6),
			Status: status,
			From:   routing.NodeID(from),
			To:     routing.NodeID(to),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return topo, nil
}
