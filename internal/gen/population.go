// Noise application — writes population and industry weight to every street.
package gen

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/soeholm/citystats/internal/geom"
	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/noise"
	"github.com/soeholm/citystats/internal/stats"
)

// ApplyNetworkNoise samples the population and industry fields at the
// centroid of every edge and writes both weights into the matching street
// record. Edges without a street record are skipped. Returns the number of
// streets written.
func ApplyNetworkNoise(net *network.Net, doc *stats.Document, population, industry noise.Field) int {
	centre := geom.Centre(net)
	radius := geom.Radius(net, centre)

	byEdge := make(map[string]*etree.Element)
	for _, s := range stats.Records(doc.Find("streets"), "street") {
		byEdge[s.SelectAttrValue("edge", "")] = s
	}

	written := 0
	for _, e := range net.Edges() {
		street, ok := byEdge[e.ID]
		if !ok {
			continue
		}
		c := geom.Centroid(e.Shape)
		street.CreateAttr("population", formatWeight(population.At(c, centre, radius)))
		street.CreateAttr("industry", formatWeight(industry.At(c, centre, radius)))
		written++
	}
	return written
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
