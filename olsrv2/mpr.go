package olsrv2

import (
	"sort"

	"github.com/kprusa/wsnrouting/routing"
)

// selectMPRs runs the greedy set-cover of spec.md §4.5 over self's
// one-hop list and the two-hop view read from the same connectivity
// matrix HELLO reception populates, deterministically tie-broken by
// smallest node id. This is a clean re-derivation of the algorithm's
// stated intent rather than a port of the original mpr_selection/
// get_all_2hop_neighbors C, whose index-based coverage bookkeeping does
// not correspond cleanly to a textbook greedy set-cover (see DESIGN.md).
func selectMPRs(self routing.NodeID, oneHop []routing.NodeID, topology *Matrix) []routing.NodeID {
	sorted := append([]routing.NodeID(nil), oneHop...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	in1Hop := make(map[routing.NodeID]bool, len(sorted))
	for _, n := range sorted {
		in1Hop[n] = true
	}

	twoHopOf := make(map[routing.NodeID][]routing.NodeID, len(sorted))
	uncovered := make(map[routing.NodeID]bool)
	for _, n := range sorted {
		row := topology.Row(n)
		twoHopOf[n] = row
		for _, two := range row {
			if two == self || in1Hop[two] {
				continue
			}
			uncovered[two] = true
		}
	}

	var mprs []routing.NodeID
	chosen := make(map[routing.NodeID]bool, len(sorted))
	for len(uncovered) > 0 {
		var best routing.NodeID
		bestCount := 0
		found := false
		for _, n := range sorted {
			if chosen[n] {
				continue
			}
			count := 0
			for _, two := range twoHopOf[n] {
				if uncovered[two] {
					count++
				}
			}
			if count > bestCount {
				bestCount = count
				best = n
				found = true
			}
		}
		if !found {
			// Remaining uncovered two-hop peers are not reachable
			// through any currently-known one-hop neighbor.
			break
		}
		mprs = append(mprs, best)
		chosen[best] = true
		for _, two := range twoHopOf[best] {
			delete(uncovered, two)
		}
	}

	sort.Slice(mprs, func(i, j int) bool { return mprs[i] < mprs[j] })
	return mprs
}
