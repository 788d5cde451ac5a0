package olsrv2

import (
	"sort"

	"github.com/kprusa/wsnrouting/routing"
)

// Matrix is OLSRv2's per-node connectivity matrix (spec.md §3
// "per-node connectivity matrix"): one row per known originator, each row
// the set of nodes that originator advertised as directly reachable.
type Matrix struct {
	rows map[routing.NodeID]map[routing.NodeID]bool
}

// NewMatrix creates an empty connectivity matrix.
func NewMatrix() *Matrix {
	return &Matrix{rows: make(map[routing.NodeID]map[routing.NodeID]bool)}
}

// SetRow replaces src's row with exactly the given neighbor set (spec.md
// §4.5 "row originator becomes exactly the advertised one-hop list").
func (m *Matrix) SetRow(src routing.NodeID, neighbors []routing.NodeID) {
	row := make(map[routing.NodeID]bool, len(neighbors))
	for _, n := range neighbors {
		row[n] = true
	}
	m.rows[src] = row
}

// Adjacent reports whether the matrix carries a directed edge a->b.
func (m *Matrix) Adjacent(a, b routing.NodeID) bool {
	return m.rows[a][b]
}

// Row returns id's advertised one-hop list (the matrix row), sorted, or
// nil if id is not yet known. Used to read the two-hop view for MPR
// selection from the same matrix Dijkstra runs over (spec.md §4.5 HELLO
// processing step (b): "replaces the row of its 2-hop matrix indexed by
// the sender with the advertised list").
func (m *Matrix) Row(id routing.NodeID) []routing.NodeID {
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	out := make([]routing.NodeID, 0, len(row))
	for n := range row {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *Matrix) nodeIDs() []routing.NodeID {
	seen := make(map[routing.NodeID]bool)
	for src, row := range m.rows {
		seen[src] = true
		for dst := range row {
			seen[dst] = true
		}
	}
	ids := make([]routing.NodeID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ShortestPath runs Dijkstra with uniform hop-count edge weights over the
// matrix, returning the ordered node sequence from src to dst (inclusive
// of both ends), or nil if unreachable (spec.md §4.5 compute_path). Ties
// among equal-distance frontier nodes are broken by smallest id: the
// candidate scan below walks ids in ascending order and only ever
// improves on a strictly shorter distance, so the first (smallest-id)
// node to reach a given distance is the one whose path survives.
func (m *Matrix) ShortestPath(src, dst routing.NodeID) []routing.NodeID {
	ids := m.nodeIDs()
	if !containsID(ids, src) {
		return nil
	}
	if src == dst {
		return []routing.NodeID{src}
	}

	const unreached = -1
	dist := make(map[routing.NodeID]int, len(ids))
	prev := make(map[routing.NodeID]routing.NodeID, len(ids))
	visited := make(map[routing.NodeID]bool, len(ids))
	for _, id := range ids {
		dist[id] = unreached
	}
	dist[src] = 0

	for range ids {
		u, ok := closestUnvisited(ids, dist, visited)
		if !ok {
			break
		}
		visited[u] = true
		if u == dst {
			break
		}
		for _, v := range ids {
			if visited[v] || !m.Adjacent(u, v) {
				continue
			}
			nd := dist[u] + 1
			if dist[v] == unreached || nd < dist[v] {
				dist[v] = nd
				prev[v] = u
			}
		}
	}

	if dist[dst] == unreached {
		return nil
	}
	path := []routing.NodeID{dst}
	for cur := dst; cur != src; {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func closestUnvisited(ids []routing.NodeID, dist map[routing.NodeID]int, visited map[routing.NodeID]bool) (routing.NodeID, bool) {
	var best routing.NodeID
	bestDist := -1
	found := false
	for _, id := range ids {
		if visited[id] || dist[id] == -1 {
			continue
		}
		if !found || dist[id] < bestDist {
			bestDist = dist[id]
			best = id
			found = true
		}
	}
	return best, found
}

func containsID(ids []routing.NodeID, id routing.NodeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
