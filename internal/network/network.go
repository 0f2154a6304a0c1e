// Package network models a road network as a directed graph of nodes and
// edges. Edges carry a polyline shape and a set of lanes with per-vehicle-class
// permissions. The graph is read-only once built; the generator never mutates it.
package network

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Node is a junction in the road network.
type Node struct {
	ID    string
	Coord orb.Point

	incoming []*Edge
	outgoing []*Edge
}

// Incoming returns the edges ending at this node.
func (n *Node) Incoming() []*Edge { return n.incoming }

// Outgoing returns the edges starting at this node.
func (n *Node) Outgoing() []*Edge { return n.outgoing }

// NeighboringNodes returns the distinct nodes reachable over one incoming or
// outgoing edge. A node with exactly one neighbor is a dead end.
func (n *Node) NeighboringNodes() []*Node {
	seen := make(map[string]bool)
	var neighbors []*Node
	for _, e := range n.incoming {
		if e.From != n && !seen[e.From.ID] {
			seen[e.From.ID] = true
			neighbors = append(neighbors, e.From)
		}
	}
	for _, e := range n.outgoing {
		if e.To != n && !seen[e.To.ID] {
			seen[e.To.ID] = true
			neighbors = append(neighbors, e.To)
		}
	}
	return neighbors
}

// Lane is a single lane of an edge with its vehicle-class permissions.
// SUMO semantics: a non-empty allow list is exclusive, otherwise every class
// not on the disallow list is permitted.
type Lane struct {
	ID       string
	allow    map[string]bool
	disallow map[string]bool
}

// NewLane builds a lane from space-separated allow/disallow class lists.
// Empty strings mean "no restriction on that side".
func NewLane(id string, allow, disallow []string) Lane {
	l := Lane{ID: id}
	if len(allow) > 0 {
		l.allow = make(map[string]bool, len(allow))
		for _, c := range allow {
			l.allow[c] = true
		}
	}
	if len(disallow) > 0 {
		l.disallow = make(map[string]bool, len(disallow))
		for _, c := range disallow {
			l.disallow[c] = true
		}
	}
	return l
}

// Allows reports whether the given vehicle class may use this lane.
func (l Lane) Allows(class string) bool {
	if l.allow != nil {
		return l.allow[class] || l.allow["all"]
	}
	if l.disallow != nil {
		return !l.disallow[class] && !l.disallow["all"]
	}
	return true
}

// Edge is a directed street segment between two nodes.
type Edge struct {
	ID    string
	From  *Node
	To    *Node
	Shape orb.LineString
	Lanes []Lane
}

// Length returns the planar length of the edge shape.
func (e *Edge) Length() float64 {
	return planar.Length(e.Shape)
}

// LanesAllowing returns the lanes on this edge permitting the vehicle class.
func (e *Edge) LanesAllowing(class string) []Lane {
	var lanes []Lane
	for _, l := range e.Lanes {
		if l.Allows(class) {
			lanes = append(lanes, l)
		}
	}
	return lanes
}

// Net is an immutable road network. Node and edge iteration order is the
// insertion order, so a network built the same way always enumerates the same.
type Net struct {
	nodes    []*Node
	nodeByID map[string]*Node
	edges    []*Edge
	edgeByID map[string]*Edge
}

// New returns an empty network.
func New() *Net {
	return &Net{
		nodeByID: make(map[string]*Node),
		edgeByID: make(map[string]*Edge),
	}
}

// AddNode inserts a node. Re-adding an existing ID returns the existing node.
func (net *Net) AddNode(id string, x, y float64) *Node {
	if n, ok := net.nodeByID[id]; ok {
		return n
	}
	n := &Node{ID: id, Coord: orb.Point{x, y}}
	net.nodes = append(net.nodes, n)
	net.nodeByID[id] = n
	return n
}

// AddEdge inserts an edge between two existing nodes. A nil or empty shape
// defaults to the straight line between the endpoint coordinates.
func (net *Net) AddEdge(id, from, to string, lanes []Lane, shape orb.LineString) (*Edge, error) {
	if _, ok := net.edgeByID[id]; ok {
		return nil, fmt.Errorf("edge %q already exists", id)
	}
	fn, ok := net.nodeByID[from]
	if !ok {
		return nil, fmt.Errorf("edge %q: unknown from-node %q", id, from)
	}
	tn, ok := net.nodeByID[to]
	if !ok {
		return nil, fmt.Errorf("edge %q: unknown to-node %q", id, to)
	}
	if len(shape) == 0 {
		shape = orb.LineString{fn.Coord, tn.Coord}
	}
	e := &Edge{ID: id, From: fn, To: tn, Shape: shape, Lanes: lanes}
	net.edges = append(net.edges, e)
	net.edgeByID[id] = e
	fn.outgoing = append(fn.outgoing, e)
	tn.incoming = append(tn.incoming, e)
	return e, nil
}

// Nodes returns all nodes in insertion order.
func (net *Net) Nodes() []*Node { return net.nodes }

// Edges returns all edges in insertion order.
func (net *Net) Edges() []*Edge { return net.edges }

// Node looks up a node by ID, nil if absent.
func (net *Net) Node(id string) *Node { return net.nodeByID[id] }

// Edge looks up an edge by ID, nil if absent.
func (net *Net) Edge(id string) *Edge { return net.edgeByID[id] }

// Bounds returns the bounding box over all node coordinates and edge shapes.
func (net *Net) Bounds() orb.Bound {
	var b orb.Bound
	first := true
	for _, n := range net.nodes {
		if first {
			b = orb.Bound{Min: n.Coord, Max: n.Coord}
			first = false
			continue
		}
		b = b.Extend(n.Coord)
	}
	for _, e := range net.edges {
		for _, p := range e.Shape {
			b = b.Extend(p)
		}
	}
	return b
}
