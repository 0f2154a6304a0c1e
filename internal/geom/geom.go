// Package geom holds the geometric helpers shared by the placement engines:
// shape centroids, the network centre and radius used to normalize noise
// coordinates, and arc-length interpolation along an edge.
package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/soeholm/citystats/internal/network"
)

// Centroid returns the arithmetic mean of the shape vertices.
// Deliberately not length-weighted; vertex density acts as an implicit weight.
func Centroid(shape orb.LineString) orb.Point {
	if len(shape) == 0 {
		return orb.Point{}
	}
	var sx, sy float64
	for _, p := range shape {
		sx += p.X()
		sy += p.Y()
	}
	n := float64(len(shape))
	return orb.Point{sx / n, sy / n}
}

// Centre estimates the city centre as the mean of all node coordinates.
func Centre(net *network.Net) orb.Point {
	nodes := net.Nodes()
	if len(nodes) == 0 {
		return orb.Point{}
	}
	var sx, sy float64
	for _, n := range nodes {
		sx += n.Coord.X()
		sy += n.Coord.Y()
	}
	n := float64(len(nodes))
	return orb.Point{sx / n, sy / n}
}

// Radius returns the distance from the centre to the furthest node, i.e. the
// bounding radius of the network. Zero for an empty or single-point network.
func Radius(net *network.Net, centre orb.Point) float64 {
	var max float64
	for _, n := range net.Nodes() {
		if d := planar.Distance(centre, n.Coord); d > max {
			max = d
		}
	}
	return max
}

// PointOnEdge interpolates a point at the given arc-length distance along the
// edge shape. The distance is clamped to [0, edge length].
func PointOnEdge(e *network.Edge, dist float64) orb.Point {
	shape := e.Shape
	if len(shape) == 0 {
		return orb.Point{}
	}
	if dist <= 0 {
		return shape[0]
	}
	remaining := dist
	for i := 0; i+1 < len(shape); i++ {
		seg := planar.Distance(shape[i], shape[i+1])
		if remaining <= seg && seg > 0 {
			t := remaining / seg
			return orb.Point{
				shape[i].X() + t*(shape[i+1].X()-shape[i].X()),
				shape[i].Y() + t*(shape[i+1].Y()-shape[i].Y()),
			}
		}
		remaining -= seg
	}
	return shape[len(shape)-1]
}
