package geostatic

import "github.com/kprusa/wsnrouting/routing"

// nextHop selects the next hop towards dst, reproducing geostatic.c's
// get_nexthop: three modes depending on cfg.Random, all sharing the same
// "reinit on destination change or dead next hop" guard.
func (s *State) nextHop(dst routing.NodeID) (routing.NodeID, bool) {
	if s.currDst != dst || !s.haveCurrDst || !s.haveNextHop || !s.alive(s.currNextHop) {
		s.randomCounter = s.cfg.Random
	}

	var hop routing.NodeID
	found := false

	switch {
	case s.cfg.Random == 0:
		// Always take the nearest neighbor to dst, unless the memoized
		// choice for the same destination is still alive.
		if s.haveNextHop && s.haveCurrDst && s.currDst == dst && s.alive(s.currNextHop) {
			hop, found = s.currNextHop, true
			break
		}
		hop, found = s.nearestTo(dst)

	case s.randomCounter == s.cfg.Random:
		// Reselection round: pick uniformly among neighbors strictly
		// nearer to dst than this node, or dst itself if it is a
		// neighbor.
		hop, found = s.randomNearerNeighbor(dst)

	default:
		// Mid-interval: keep the current next hop.
		hop, found = s.currNextHop, s.haveNextHop
	}

	s.randomCounter--
	if s.randomCounter <= 0 {
		s.randomCounter = s.cfg.Random
	}

	s.currDst, s.haveCurrDst = dst, true
	s.currNextHop, s.haveNextHop = hop, found
	return hop, found
}

// nearestTo returns the neighbor geographically closest to dst among
// those nearer than this node itself, preferring an exact match.
func (s *State) nearestTo(dst routing.NodeID) (routing.NodeID, bool) {
	dstPos, ok := s.positionOf(dst)
	if !ok {
		return 0, false
	}
	bestDist := distance(s.node.Position(), dstPos)
	var best routing.NodeID
	found := false
	for _, n := range s.neighbors {
		if n.id == dst {
			return n.id, true
		}
		if !s.alive(n.id) {
			continue
		}
		if d := distance(n.pos, dstPos); d < bestDist {
			bestDist, best, found = d, n.id, true
		}
	}
	return best, found
}

// randomNearerNeighbor picks uniformly among live neighbors strictly
// nearer dst than this node (geostatic.c's random geographic routing
// branch), short-circuiting to an exact match if dst is itself a
// neighbor.
func (s *State) randomNearerNeighbor(dst routing.NodeID) (routing.NodeID, bool) {
	dstPos, ok := s.positionOf(dst)
	if !ok {
		return 0, false
	}
	selfDist := distance(s.node.Position(), dstPos)

	var candidates []routing.NodeID
	for _, n := range s.neighbors {
		if n.id == dst {
			return n.id, true
		}
		if !s.alive(n.id) {
			continue
		}
		if distance(n.pos, dstPos) < selfDist {
			candidates = append(candidates, n.id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

// positionOf resolves dst's position from the neighbor snapshot, or
// falls back to the node itself if dst happens to be this node.
func (s *State) positionOf(dst routing.NodeID) (routing.Position, bool) {
	if dst == s.node.ID() {
		return s.node.Position(), true
	}
	for _, n := range s.neighbors {
		if n.id == dst {
			return n.pos, true
		}
	}
	if loc, ok := s.mac.(routing.NeighborLocator); ok {
		return loc.Position(dst)
	}
	return routing.Position{}, false
}
