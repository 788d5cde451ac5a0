// Command wsnroutesim drives the simnet reference scheduler/MAC/topology
// against one of the six routing modules, reading a node-placement file
// and an optional link-state script in the same line-oriented grammar the
// teacher's NetworkTypology/link-state file used (generalized by
// simnet.ParseScriptedTopology), and reporting per-node delivery and
// traffic counts at the end of the run.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kprusa/wsnrouting/aodv"
	"github.com/kprusa/wsnrouting/diffusion"
	"github.com/kprusa/wsnrouting/geogreedy"
	"github.com/kprusa/wsnrouting/geostatic"
	"github.com/kprusa/wsnrouting/olsrv2"
	"github.com/kprusa/wsnrouting/routing"
	"github.com/kprusa/wsnrouting/simnet"
	"github.com/kprusa/wsnrouting/staticfile"
)

// paramList accumulates repeated -param key=value flags into a
// routing.Params bag.
type paramList routing.Params

func (p paramList) String() string { return "" }

func (p paramList) Set(kv string) error {
	k, v, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("wsnroutesim: -param must be key=value, got %q", kv)
	}
	p[k] = v
	return nil
}

// nodeSpec is one line of the placement file: "id x y [z] [kind]".
type nodeSpec struct {
	id   routing.NodeID
	pos  routing.Position
	kind routing.NodeKind
}

// parseNodes reads the node-placement file. Blank lines and lines
// starting with '#' are ignored, following ParseScriptedTopology's
// convention.
func parseNodes(r io.Reader) ([]nodeSpec, error) {
	var out []nodeSpec
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || len(fields) > 5 {
			return nil, fmt.Errorf("wsnroutesim: nodes line %d: want 3-5 fields, got %d", lineNo, len(fields))
		}
		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("wsnroutesim: nodes line %d: bad id: %w", lineNo, err)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("wsnroutesim: nodes line %d: bad x: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("wsnroutesim: nodes line %d: bad y: %w", lineNo, err)
		}
		z := 0.0
		kind := routing.Sensor
		rest := fields[3:]
		if len(rest) > 0 {
			if v, err := strconv.ParseFloat(rest[0], 64); err == nil {
				z = v
				rest = rest[1:]
			}
		}
		if len(rest) > 0 {
			switch rest[0] {
			case "sensor":
				kind = routing.Sensor
			case "sink":
				kind = routing.Sink
			case "anchor":
				kind = routing.Anchor
			default:
				return nil, fmt.Errorf("wsnroutesim: nodes line %d: bad kind %q", lineNo, rest[0])
			}
		}
		out = append(out, nodeSpec{id: routing.NodeID(id), pos: routing.Position{X: x, Y: y, Z: z}, kind: kind})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func newModule(protocol string) (routing.Module, error) {
	switch protocol {
	case "staticfile":
		return staticfile.New(), nil
	case "geogreedy":
		return geogreedy.New(), nil
	case "geostatic":
		return geostatic.New(), nil
	case "diffusion":
		return diffusion.New(), nil
	case "aodv":
		return aodv.New(), nil
	case "olsrv2":
		return olsrv2.New(), nil
	default:
		return nil, fmt.Errorf("wsnroutesim: unknown protocol %q (want one of staticfile, geogreedy, geostatic, diffusion, aodv, olsrv2)", protocol)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		protocol    = flag.String("protocol", "", "routing protocol: staticfile|geogreedy|geostatic|diffusion|aodv|olsrv2")
		nodesPath   = flag.String("nodes", "", "node placement file: lines of 'id x y [z] [sensor|sink|anchor]'")
		topoPath    = flag.String("topology", "", "scripted link-state file (simnet's 'time UP|DOWN from to' grammar); omitted means a fixed-range topology")
		radioRange  = flag.Float64("range", 50, "radio range in meters, used when -topology is omitted")
		duration    = flag.Duration("duration", 30*time.Second, "virtual run length; 0 drains the event queue to exhaustion")
		airTime     = flag.Duration("air-time", 10*time.Millisecond, "per-hop transmission delay")
		overhead    = flag.Int("overhead", 0, "fixed MAC header size in bytes")
		maxEvents   = flag.Int("max-events", 1_000_000, "event budget when -duration is 0")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	var params = make(paramList)
	flag.Var(params, "param", "class-wide parameter as key=value, repeatable")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *protocol == "" || *nodesPath == "" {
		flag.Usage()
		return fmt.Errorf("wsnroutesim: -protocol and -nodes are required")
	}

	mod, err := newModule(*protocol)
	if err != nil {
		return err
	}

	nf, err := os.Open(*nodesPath)
	if err != nil {
		return fmt.Errorf("wsnroutesim: %w", err)
	}
	defer nf.Close()
	specs, err := parseNodes(nf)
	if err != nil {
		return err
	}

	sched := simnet.NewScheduler()

	var topo simnet.Topology
	if *topoPath != "" {
		tf, err := os.Open(*topoPath)
		if err != nil {
			return fmt.Errorf("wsnroutesim: %w", err)
		}
		defer tf.Close()
		scripted, err := simnet.ParseScriptedTopology(tf)
		if err != nil {
			return err
		}
		topo = scripted
	} else {
		sr := simnet.NewStaticRange(*radioRange)
		for _, s := range specs {
			sr.Place(s.id, s.pos)
		}
		topo = sr
	}

	net := simnet.NewNetwork(sched, topo, routing.Time(*airTime), *overhead)

	if err := mod.Init(routing.Params(params)); err != nil {
		return fmt.Errorf("wsnroutesim: init: %w", err)
	}

	var sinkID routing.NodeID = routing.NoSink
	for _, s := range specs {
		if s.kind == routing.Sink {
			sinkID = s.id
			break
		}
	}

	type bound struct {
		info   *simnet.NodeInfo
		handle routing.NodeHandle
		app    *simnet.Application
	}
	nodes := make([]bound, 0, len(specs))

	for _, s := range specs {
		info := simnet.NewNodeInfo(s.id, s.kind, s.pos)
		mac := net.MAC(s.id)
		app := &simnet.Application{}

		nodeParams := make(routing.Params, len(params)+2)
		for k, v := range params {
			nodeParams[k] = v
		}
		if _, ok := nodeParams["node_type"]; !ok {
			nodeParams["node_type"] = s.kind.String()
		}
		if _, ok := nodeParams["sink_id"]; !ok && sinkID != routing.NoSink {
			nodeParams["sink_id"] = strconv.Itoa(int(sinkID))
		}

		handle, err := mod.Bind(info, mac, sched, app, nodeParams)
		if err != nil {
			return fmt.Errorf("wsnroutesim: bind node %d: %w", s.id, err)
		}
		net.Register(info, handle)
		nodes = append(nodes, bound{info: info, handle: handle, app: app})
	}

	for _, n := range nodes {
		if err := n.handle.Bootstrap(); err != nil {
			return fmt.Errorf("wsnroutesim: bootstrap node %d: %w", n.info.ID(), err)
		}
	}

	if *duration > 0 {
		sched.RunUntil(routing.Time(*duration))
	} else {
		sched.RunAll(*maxEvents)
	}

	for _, n := range nodes {
		n.handle.Unbind()
	}
	mod.Destroy()

	for _, n := range nodes {
		fmt.Printf("node %d: delivered %d packets\n", n.info.ID(), len(n.app.Delivered))
	}
	return nil
}
