// City gate placement — directional-extremal search over dead-end nodes.
package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/stats"
)

// vehicleClassPrivate marks lanes usable by private vehicles; only roads with
// such lanes qualify as gate locations.
const vehicleClassPrivate = "private"

// ErrNoDeadEnds is returned when gates are requested but the network has no
// eligible dead-end node to place them on.
var ErrNoDeadEnds = errors.New("network has no dead-end nodes allowing private vehicles")

// PlaceGates inserts up to count city gates into the cityGates section.
// Gates are placed on dead-end nodes found by extremal search along count
// evenly spaced directions from a random base angle: for each direction the
// dead end furthest that way becomes a gate. The same node may be selected
// for several directions; that simply means more traffic through that gate.
// Existing entries are never removed. Returns the number of entries added.
func PlaceGates(net *network.Net, doc *stats.Document, count int, rng *rand.Rand) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("city gates: count %d is negative", count)
	}

	section := doc.Section("cityGates")
	existing := len(stats.Records(section, "entrance"))
	n := count - existing
	if n < 0 {
		slog.Warn("more city gates already defined than requested",
			"requested", count, "existing", existing)
		return 0, nil
	}
	if n == 0 {
		return 0, nil
	}
	slog.Info("inserting new city gates", "count", n)

	deadEnds := deadEndNodes(net)
	if len(deadEnds) == 0 {
		return 0, fmt.Errorf("city gates: %d requested: %w", count, ErrNoDeadEnds)
	}

	// n unit vectors evenly spaced from a random base angle. With n = 4 and
	// base angle 0 these are the cardinal directions E, N, W, S.
	tau := 2 * math.Pi
	baseRad := rng.Float64() * tau

	for i := 0; i < n; i++ {
		rad := math.Mod(baseRad+float64(i)*tau/float64(n), tau)
		gate := furthestInDirection(deadEnds, math.Cos(rad), math.Sin(rad))

		// Relative traffic share through this gate, proportional to the
		// private-capable lanes on the opposite travel direction.
		incomingLanes := privateLaneCount(gate.Incoming())
		outgoingLanes := privateLaneCount(gate.Outgoing())
		incomingTraffic := (1 + rng.Float64()) * float64(outgoingLanes)
		outgoingTraffic := (1 + rng.Float64()) * float64(incomingLanes)

		edge := gateEdge(gate)
		slog.Debug("adding city gate entrance",
			"edge", edge.ID,
			"incoming", incomingTraffic,
			"outgoing", outgoingTraffic)
		doc.Append(section, "entrance",
			stats.Attr{Key: "edge", Value: edge.ID},
			stats.Attr{Key: "incoming", Value: strconv.FormatFloat(incomingTraffic, 'f', -1, 64)},
			stats.Attr{Key: "outgoing", Value: strconv.FormatFloat(outgoingTraffic, 'f', -1, 64)},
			stats.Attr{Key: "pos", Value: "0"})
	}
	return n, nil
}

// deadEndNodes returns the admissible gate locations: nodes with exactly one
// neighboring node where at least one adjoining edge has a lane permitting
// private vehicles.
func deadEndNodes(net *network.Net) []*network.Node {
	var deadEnds []*network.Node
	for _, node := range net.Nodes() {
		if len(node.NeighboringNodes()) != 1 {
			continue
		}
		if hasPrivateLane(node.Incoming()) || hasPrivateLane(node.Outgoing()) {
			deadEnds = append(deadEnds, node)
		}
	}
	return deadEnds
}

func hasPrivateLane(edges []*network.Edge) bool {
	for _, e := range edges {
		if len(e.LanesAllowing(vehicleClassPrivate)) > 0 {
			return true
		}
	}
	return false
}

func privateLaneCount(edges []*network.Edge) int {
	count := 0
	for _, e := range edges {
		count += len(e.LanesAllowing(vehicleClassPrivate))
	}
	return count
}

// furthestInDirection picks the node whose position vector has the maximum
// dot product with (dx, dy).
func furthestInDirection(nodes []*network.Node, dx, dy float64) *network.Node {
	best := nodes[0]
	bestDot := math.Inf(-1)
	for _, n := range nodes {
		dot := n.Coord.X()*dx + n.Coord.Y()*dy
		if dot > bestDot {
			bestDot = dot
			best = n
		}
	}
	return best
}

// gateEdge picks the edge the gate record points at: an outgoing edge when
// the node has one, otherwise an incoming edge.
func gateEdge(node *network.Node) *network.Edge {
	if out := node.Outgoing(); len(out) > 0 {
		return out[0]
	}
	return node.Incoming()[0]
}
