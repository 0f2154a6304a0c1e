package gen

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soeholm/citystats/internal/noise"
	"github.com/soeholm/citystats/internal/stats"
)

func TestApplyNetworkNoiseWritesAllStreets(t *testing.T) {
	net := compassNet(t)
	doc := testDoc(t, net, 1000, "")

	written := ApplyNetworkNoise(net, doc, noise.NewField(11), noise.NewField(22))
	assert.Equal(t, len(net.Edges()), written)

	for _, s := range stats.Records(doc.Find("streets"), "street") {
		pop, err := strconv.ParseFloat(s.SelectAttrValue("population", ""), 64)
		require.NoError(t, err)
		ind, err := strconv.ParseFloat(s.SelectAttrValue("industry", ""), 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pop, 0.0)
		assert.LessOrEqual(t, pop, 1.0)
		assert.GreaterOrEqual(t, ind, 0.0)
		assert.LessOrEqual(t, ind, 1.0)
		assert.NotEqual(t, pop, ind, "fields with distinct bases diverge")
	}
}

// TestApplyNetworkNoiseDeterministic: identical fields on identical inputs
// produce a bit-identical document.
func TestApplyNetworkNoiseDeterministic(t *testing.T) {
	net := compassNet(t)

	run := func() []byte {
		doc := testDoc(t, net, 1000, "")
		ApplyNetworkNoise(net, doc, noise.NewField(314), noise.NewField(159))
		out, err := doc.Bytes()
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, run(), run())
}

// An edge with no street record is skipped without error.
func TestApplyNetworkNoiseSkipsUnknownEdges(t *testing.T) {
	net := compassNet(t)
	doc, err := stats.Parse([]byte(`<city>
        <general inhabitants="1000" households="300"/>
        <streets>
            <street edge="CN" population="0" workPosition="0"/>
            <street edge="phantom" population="0" workPosition="0"/>
        </streets>
    </city>`))
	require.NoError(t, err)

	written := ApplyNetworkNoise(net, doc, noise.NewField(1), noise.NewField(2))
	assert.Equal(t, 1, written, "only the matched street is written")

	for _, s := range stats.Records(doc.Find("streets"), "street") {
		if s.SelectAttrValue("edge", "") == "phantom" {
			assert.Equal(t, "0", s.SelectAttrValue("population", ""), "unmatched street untouched")
		}
	}
}
