// Package gen contains the three generation engines and the pipeline that
// runs them: noise-based street weights, city gate placement and school
// placement. All randomness flows through one shared *rand.Rand, so the draw
// order fixed by the pipeline is part of the reproducibility contract —
// a fixed seed reproduces the exact same statistics document.
package gen

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/soeholm/citystats/internal/config"
	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/noise"
	"github.com/soeholm/citystats/internal/stats"
)

// Pipeline wires the engines to a network, a statistics document and one
// random stream. The document is mutated in place.
type Pipeline struct {
	Net *network.Net
	Doc *stats.Document
	Cfg config.Config
	Rng *rand.Rand

	// Districting overrides the school partitioning strategy.
	// Defaults to AxisDistricting.
	Districting Districting
}

// Summary reports what a run produced.
type Summary struct {
	Bases           noise.Bases
	StreetsWeighted int
	GatesAdded      int
	SchoolsAdded    int
}

// Run validates inputs, draws the noise bases and executes the engines in
// order: street weights, city gates, schools. Nothing is mutated before
// validation passes; a failing engine aborts the run.
func (p *Pipeline) Run() (Summary, error) {
	var sum Summary

	if err := p.Cfg.Validate(); err != nil {
		return sum, err
	}
	if err := p.Doc.Validate(); err != nil {
		return sum, err
	}

	sum.Bases = noise.DrawBases(p.Rng)
	slog.Debug("noise bases drawn",
		"population", sum.Bases.Population, "industry", sum.Bases.Industry)
	populationField := noise.NewField(sum.Bases.Population)
	industryField := noise.NewField(sum.Bases.Industry)

	slog.Info("writing noise weights to streets")
	sum.StreetsWeighted = ApplyNetworkNoise(p.Net, p.Doc, populationField, industryField)

	slog.Info("setting up city gates", "count", p.Cfg.Gates.Count)
	gates, err := PlaceGates(p.Net, p.Doc, p.Cfg.Gates.Count, p.Rng)
	if err != nil {
		return sum, fmt.Errorf("place gates: %w", err)
	}
	sum.GatesAdded = gates

	districting := p.Districting
	if districting == nil {
		districting = AxisDistricting{}
	}
	schools, err := PlaceSchools(p.Net, p.Doc, p.Cfg.Schools, populationField, districting, p.Rng)
	if err != nil {
		return sum, fmt.Errorf("place schools: %w", err)
	}
	sum.SchoolsAdded = schools

	return sum, nil
}
