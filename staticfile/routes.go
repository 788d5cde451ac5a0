// Package staticfile implements file-driven static routing: a class-wide
// route file of "id dst next_hop" lines, loaded once at Init and split
// per node at Bind, with no discovery protocol and no periodic control
// traffic. Grounded on original_source/filestatic.c.
package staticfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kprusa/wsnrouting/routing"
)

// Routes is a class-wide route table: id -> dst -> next_hop, the
// generalization of filestatic.c's per-node hashtable keyed by dst to a
// map keyed by owning node id, so Init can parse the file exactly once.
type Routes map[routing.NodeID]map[routing.NodeID]routing.NodeID

// For returns id's private subset of the table (dst -> next_hop), or nil
// if id owns no routes.
func (r Routes) For(id routing.NodeID) map[routing.NodeID]routing.NodeID {
	return r[id]
}

// ParseRoutes reads the "id dst next_hop" line format (filestatic.c's
// sscanf grammar). Blank lines and lines starting with '#' are ignored.
func ParseRoutes(r io.Reader) (Routes, error) {
	routes := make(Routes)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("staticfile: line %d: want 3 fields, got %d", lineNo, len(fields))
		}
		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("staticfile: line %d: bad id: %w", lineNo, err)
		}
		dst, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("staticfile: line %d: bad dst: %w", lineNo, err)
		}
		nextHop, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("staticfile: line %d: bad next_hop: %w", lineNo, err)
		}
		nodeID := routing.NodeID(id)
		if routes[nodeID] == nil {
			routes[nodeID] = make(map[routing.NodeID]routing.NodeID)
		}
		routes[nodeID][routing.NodeID(dst)] = routing.NodeID(nextHop)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}
