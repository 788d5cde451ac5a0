package olsrv2

import (
	"reflect"
	"testing"

	"github.com/kprusa/wsnrouting/routing"
)

func line(n int) *Matrix {
	m := NewMatrix()
	for i := 0; i < n; i++ {
		var row []routing.NodeID
		if i > 0 {
			row = append(row, routing.NodeID(i-1))
		}
		if i < n-1 {
			row = append(row, routing.NodeID(i+1))
		}
		m.SetRow(routing.NodeID(i), row)
	}
	return m
}

func TestMatrix_ShortestPath_SixNodeLine(t *testing.T) {
	m := line(6)
	path := m.ShortestPath(0, 5)
	want := []routing.NodeID{0, 1, 2, 3, 4, 5}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
}

func TestMatrix_ShortestPath_Unreachable(t *testing.T) {
	m := NewMatrix()
	m.SetRow(0, []routing.NodeID{1})
	m.SetRow(1, []routing.NodeID{0})
	if path := m.ShortestPath(0, 9); path != nil {
		t.Fatalf("path = %v, want nil (unreachable)", path)
	}
}

func TestMatrix_ShortestPath_SameNode(t *testing.T) {
	m := NewMatrix()
	m.SetRow(0, []routing.NodeID{1})
	path := m.ShortestPath(0, 0)
	if !reflect.DeepEqual(path, []routing.NodeID{0}) {
		t.Fatalf("path = %v, want [0]", path)
	}
}

func TestMatrix_ShortestPath_TieBreakSmallestID(t *testing.T) {
	// 0 has two equidistant two-hop routes to 3: via 1 and via 2; the
	// smaller intermediate id (1) must win.
	m := NewMatrix()
	m.SetRow(0, []routing.NodeID{1, 2})
	m.SetRow(1, []routing.NodeID{0, 3})
	m.SetRow(2, []routing.NodeID{0, 3})
	m.SetRow(3, []routing.NodeID{1, 2})

	path := m.ShortestPath(0, 3)
	want := []routing.NodeID{0, 1, 3}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
}
