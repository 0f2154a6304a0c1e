// Package noise provides the deterministic scalar fields used to assign
// population and industry weight across the network. Built on 2D simplex
// noise, normalized to [0,1].
package noise

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/paulmach/orb"
)

// baseRange bounds the drawn field bases. The underlying noise keeps good
// resolution well past this range, and excluding zero keeps the degenerate
// origin sample out of every field.
const baseRange = 65536

// Field is a deterministic 2D scalar noise field. Two fields built from
// different bases are decorrelated: the base seeds the gradient table and
// additionally offsets every sampled coordinate.
type Field struct {
	src  opensimplex.Noise
	base float64
}

// NewField builds a field from an integer base. Same base, same field,
// across runs and processes.
func NewField(base int) Field {
	return Field{
		src:  opensimplex.NewNormalized(int64(base)),
		base: float64(base),
	}
}

// Sample returns the field value at (x, y), always in [0,1].
func (f Field) Sample(x, y float64) float64 {
	return f.src.Eval2(x+f.base, y+f.base)
}

// At samples the field at a network coordinate normalized by the city centre
// and bounding radius, so the feature size of the field scales with the
// extent of the network rather than its absolute coordinate system.
func (f Field) At(p, centre orb.Point, radius float64) float64 {
	if radius <= 0 {
		radius = 1
	}
	return f.Sample((p.X()-centre.X())/radius, (p.Y()-centre.Y())/radius)
}

// Bases holds the per-run field bases for the two independent fields.
type Bases struct {
	Population int
	Industry   int
}

// DrawBases draws the population and industry bases from the shared random
// stream. Bases are non-zero and never equal to each other; the industry base
// is redrawn until it differs.
func DrawBases(rng *rand.Rand) Bases {
	pop := 1 + rng.Intn(baseRange)
	ind := 1 + rng.Intn(baseRange)
	for ind == pop {
		ind = 1 + rng.Intn(baseRange)
	}
	return Bases{Population: pop, Industry: ind}
}
