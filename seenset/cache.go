// Package seenset implements the small flood-suppression tables used by
// the Interest, RREQ and RREP control planes (spec.md §4.2): at most one
// entry per (originator, target, data type), with the stored sequence
// number monotone non-decreasing.
package seenset

import "github.com/kprusa/wsnrouting/routing"

// Key identifies a seen-set row.
type Key struct {
	Originator routing.NodeID
	Target     routing.NodeID
	DataType   int
}

type entry struct {
	lastSeq  int
	lastTime routing.Time
}

// Cache is a seen-set table.
type Cache struct {
	m map[Key]entry
}

// New creates an empty seen-set cache.
func New() *Cache {
	return &Cache{m: make(map[Key]entry)}
}

// Fresh reports whether seq is fresh for key: true iff no entry exists
// with a stored sequence number >= seq.
func (c *Cache) Fresh(key Key, seq int) bool {
	e, ok := c.m[key]
	if !ok {
		return true
	}
	return seq > e.lastSeq
}

// Record upserts key with max(seq, stored seq) and the current time.
func (c *Cache) Record(key Key, seq int, now routing.Time) {
	e, ok := c.m[key]
	if !ok || seq > e.lastSeq {
		e.lastSeq = seq
	}
	e.lastTime = now
	c.m[key] = e
}

// LastSeq returns the stored sequence number for key, if any.
func (c *Cache) LastSeq(key Key) (int, bool) {
	e, ok := c.m[key]
	return e.lastSeq, ok
}

// Len returns the number of distinct keys tracked.
func (c *Cache) Len() int { return len(c.m) }
