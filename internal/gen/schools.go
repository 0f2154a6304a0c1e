// School placement — spatial districting plus per-district extremal search on
// the population field, followed by bounded attribute randomization.
package gen

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strconv"

	"github.com/soeholm/citystats/internal/config"
	"github.com/soeholm/citystats/internal/geom"
	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/noise"
	"github.com/soeholm/citystats/internal/stats"
)

// Districting partitions the network's edges into k contiguous, roughly
// equal-size spatial groups. Strategies must be deterministic for a fixed
// input so placement stays reproducible.
type Districting interface {
	Partition(edges []*network.Edge, k int) [][]*network.Edge
}

// AxisDistricting sorts edges by the first coordinate of their centroid and
// chunks the sorted sequence. A coarse 1D heuristic; districts are vertical
// bands across the city.
type AxisDistricting struct{}

// Partition implements Districting. The last district absorbs the remainder,
// and when k exceeds the edge count the shortfall simply yields fewer
// districts.
func (AxisDistricting) Partition(edges []*network.Edge, k int) [][]*network.Edge {
	if len(edges) == 0 || k <= 0 {
		return nil
	}
	sorted := make([]*network.Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return geom.Centroid(sorted[i].Shape).X() < geom.Centroid(sorted[j].Shape).X()
	})

	size := (len(sorted) + k - 1) / k
	var districts [][]*network.Edge
	for start := 0; start < len(sorted); start += size {
		end := start + size
		if end > len(sorted) {
			end = len(sorted)
		}
		districts = append(districts, sorted[start:end])
	}
	return districts
}

// PlaceSchools inserts schools into the schools section. The target count is
// cfg.Count when set, otherwise derived from the inhabitant count via the
// schools-per-1000-inhabitants ratio, rounded up. Only the difference to the
// already present schools is added; existing entries are never removed.
// Returns the number of schools added.
func PlaceSchools(net *network.Net, doc *stats.Document, cfg config.Schools,
	population noise.Field, districting Districting, rng *rand.Rand) (int, error) {

	section := doc.Section("schools")
	existing := len(stats.Records(section, "school"))

	var target int
	if cfg.Count != nil {
		target = *cfg.Count
	} else {
		inhabitants, err := doc.Inhabitants()
		if err != nil {
			return 0, fmt.Errorf("schools: %w", err)
		}
		target = int(math.Ceil(float64(inhabitants) * cfg.Ratio / 1000))
	}

	n := target - existing
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		slog.Warn("more schools already defined than requested",
			"requested", target, "existing", existing)
		return 0, nil
	}

	edges := schoolEdges(net, n, population, districting)
	slog.Info("inserting new schools", "count", len(edges))

	step := cfg.StepSeconds()
	for _, edge := range edges {
		beginAge := randInt(rng, cfg.BeginAge.Min, cfg.BeginAge.Max)
		endAge := randInt(rng, endAgeLow(cfg.EndAge, beginAge), maxInt(cfg.EndAge.Max, beginAge+1))
		pos := randInt(rng, 0, 100)

		at := geom.PointOnEdge(edge, float64(pos)/100*edge.Length())
		slog.Debug("placing school", "edge", edge.ID, "pos", pos, "x", at.X(), "y", at.Y())

		doc.Append(section, "school",
			stats.Attr{Key: "edge", Value: edge.ID},
			stats.Attr{Key: "pos", Value: strconv.Itoa(pos)},
			stats.Attr{Key: "beginAge", Value: strconv.Itoa(beginAge)},
			stats.Attr{Key: "endAge", Value: strconv.Itoa(endAge)},
			stats.Attr{Key: "capacity", Value: strconv.Itoa(randInt(rng, cfg.Capacity.Min, cfg.Capacity.Max))},
			stats.Attr{Key: "opening", Value: strconv.Itoa(randStep(rng, cfg.Open.Earliest*3600, cfg.Open.Latest*3600, step))},
			stats.Attr{Key: "closing", Value: strconv.Itoa(randStep(rng, cfg.Close.Earliest*3600, cfg.Close.Latest*3600, step))})
	}
	return len(edges), nil
}

// schoolEdges selects one edge per district: the one with the highest
// population field value at its centroid.
func schoolEdges(net *network.Net, count int, population noise.Field, districting Districting) []*network.Edge {
	centre := geom.Centre(net)
	radius := geom.Radius(net, centre)

	var selected []*network.Edge
	for _, district := range districting.Partition(net.Edges(), count) {
		best := district[0]
		bestWeight := population.At(geom.Centroid(best.Shape), centre, radius)
		for _, e := range district[1:] {
			if w := population.At(geom.Centroid(e.Shape), centre, radius); w >= bestWeight {
				best, bestWeight = e, w
			}
		}
		selected = append(selected, best)
	}
	return selected
}

// endAgeLow clamps the lower bound of the end-age draw so the result is
// always strictly above the begin age.
func endAgeLow(r config.IntRange, beginAge int) int {
	if r.Min > beginAge {
		return r.Min
	}
	return beginAge + 1
}

// randInt draws uniformly from the inclusive range [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// randStep draws from {lo, lo+step, ...} below hi, quantizing opening and
// closing times to the configured granularity.
func randStep(rng *rand.Rand, lo, hi, step int) int {
	if step <= 0 || hi <= lo {
		return lo
	}
	slots := (hi - lo + step - 1) / step
	return lo + step*rng.Intn(slots)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
