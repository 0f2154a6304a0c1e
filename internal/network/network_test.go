package network

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNet = `<?xml version="1.0" encoding="UTF-8"?>
<net version="1.3">
    <edge id=":gneJ1_0" function="internal">
        <lane id=":gneJ1_0_0" shape="95.00,0.00 105.00,0.00"/>
    </edge>
    <edge id="in" from="gate" to="centre">
        <lane id="in_0" disallow="pedestrian" shape="0.00,0.00 100.00,0.00"/>
        <lane id="in_1" shape="0.00,1.00 100.00,1.00"/>
    </edge>
    <edge id="out" from="centre" to="gate" shape="100.00,0.00 50.00,25.00 0.00,0.00">
        <lane id="out_0" allow="bus" shape="100.00,0.00 0.00,0.00"/>
    </edge>
    <edge id="path" from="centre" to="hill">
        <lane id="path_0" allow="pedestrian bicycle" shape="100.00,0.00 100.00,50.00"/>
    </edge>
    <junction id="gate" type="dead_end" x="0.00" y="0.00"/>
    <junction id="centre" type="priority" x="100.00" y="0.00"/>
    <junction id="hill" type="dead_end" x="100.00" y="50.00"/>
    <junction id=":gneJ1_0" type="internal" x="95.00" y="0.00"/>
</net>`

func TestParseNetwork(t *testing.T) {
	net, err := Parse([]byte(sampleNet))
	require.NoError(t, err)

	assert.Len(t, net.Nodes(), 3, "internal junction skipped")
	assert.Len(t, net.Edges(), 3, "internal edge skipped")

	in := net.Edge("in")
	require.NotNil(t, in)
	assert.Equal(t, "gate", in.From.ID)
	assert.Equal(t, "centre", in.To.ID)
	assert.Len(t, in.Lanes, 2)
	// Shape falls back to the first lane shape.
	assert.Equal(t, orb.LineString{{0, 0}, {100, 0}}, in.Shape)

	out := net.Edge("out")
	require.NotNil(t, out)
	// Edge-level shape wins over lane shapes.
	assert.Equal(t, orb.LineString{{100, 0}, {50, 25}, {0, 0}}, out.Shape)
}

func TestLanePermissions(t *testing.T) {
	net, err := Parse([]byte(sampleNet))
	require.NoError(t, err)

	in := net.Edge("in")
	// disallow=pedestrian keeps private allowed; unrestricted lane allows all.
	assert.Len(t, in.LanesAllowing("private"), 2)
	assert.Len(t, in.LanesAllowing("pedestrian"), 1)

	// allow=bus is exclusive.
	out := net.Edge("out")
	assert.Empty(t, out.LanesAllowing("private"))
	assert.Len(t, out.LanesAllowing("bus"), 1)

	path := net.Edge("path")
	assert.Empty(t, path.LanesAllowing("private"))
	assert.Len(t, path.LanesAllowing("bicycle"), 1)
}

func TestLaneAllowAll(t *testing.T) {
	assert.True(t, NewLane("l", []string{"all"}, nil).Allows("private"))
	assert.False(t, NewLane("l", nil, []string{"all"}).Allows("private"))
}

func TestNeighboringNodes(t *testing.T) {
	net, err := Parse([]byte(sampleNet))
	require.NoError(t, err)

	gate := net.Node("gate")
	require.NotNil(t, gate)
	// Connected to centre twice (in and out) — still one neighbor.
	assert.Len(t, gate.NeighboringNodes(), 1)

	centre := net.Node("centre")
	require.NotNil(t, centre)
	assert.Len(t, centre.NeighboringNodes(), 2)
}

func TestAddEdgeErrors(t *testing.T) {
	net := New()
	net.AddNode("a", 0, 0)

	_, err := net.AddEdge("e", "a", "missing", nil, nil)
	assert.Error(t, err)

	net.AddNode("b", 1, 1)
	_, err = net.AddEdge("e", "a", "b", nil, nil)
	require.NoError(t, err)
	_, err = net.AddEdge("e", "a", "b", nil, nil)
	assert.Error(t, err, "duplicate edge ID")
}

func TestBounds(t *testing.T) {
	net := New()
	net.AddNode("a", -10, 5)
	net.AddNode("b", 20, -15)
	net.AddEdge("ab", "a", "b", nil, orb.LineString{{-10, 5}, {0, 30}, {20, -15}})

	b := net.Bounds()
	assert.Equal(t, orb.Point{-10, -15}, b.Min)
	assert.Equal(t, orb.Point{20, 30}, b.Max)
}
