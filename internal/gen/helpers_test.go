package gen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/stats"
)

func openLane() []network.Lane {
	return []network.Lane{network.NewLane("", nil, nil)}
}

// compassNet is a star network: a centre node with four dead-end spokes at
// the compass points, radius 100, all edges allowing private vehicles.
func compassNet(t *testing.T) *network.Net {
	t.Helper()
	net := network.New()
	net.AddNode("C", 0, 0)
	net.AddNode("N", 0, 100)
	net.AddNode("E", 100, 0)
	net.AddNode("S", 0, -100)
	net.AddNode("W", -100, 0)
	for _, id := range []string{"N", "E", "S", "W"} {
		_, err := net.AddEdge(id+"C", id, "C", openLane(), nil)
		require.NoError(t, err)
		_, err = net.AddEdge("C"+id, "C", id, openLane(), nil)
		require.NoError(t, err)
	}
	return net
}

// gridNet is a symmetric 3x3 grid spanning (-100,-100)..(100,100) with a
// dead-end stub hanging off each corner, one per quadrant at (±150, ±150).
func gridNet(t *testing.T) *network.Net {
	t.Helper()
	net := network.New()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			net.AddNode(gridID(col, row), float64(col-1)*100, float64(row-1)*100)
		}
	}
	link := func(a, b string) {
		_, err := net.AddEdge(a+"_"+b, a, b, openLane(), nil)
		require.NoError(t, err)
		_, err = net.AddEdge(b+"_"+a, b, a, openLane(), nil)
		require.NoError(t, err)
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if col < 2 {
				link(gridID(col, row), gridID(col+1, row))
			}
			if row < 2 {
				link(gridID(col, row), gridID(col, row+1))
			}
		}
	}
	stubs := []struct {
		id     string
		x, y   float64
		corner string
	}{
		{"sNE", 150, 150, gridID(2, 2)},
		{"sNW", -150, 150, gridID(0, 2)},
		{"sSW", -150, -150, gridID(0, 0)},
		{"sSE", 150, -150, gridID(2, 0)},
	}
	for _, s := range stubs {
		net.AddNode(s.id, s.x, s.y)
		link(s.id, s.corner)
	}
	return net
}

func gridID(col, row int) string {
	return fmt.Sprintf("g%d%d", col, row)
}

// lineNet is a straight west-to-east chain with the given number of edges.
func lineNet(t *testing.T, edges int) *network.Net {
	t.Helper()
	net := network.New()
	for i := 0; i <= edges; i++ {
		net.AddNode(fmt.Sprintf("n%d", i), float64(i)*100, 0)
	}
	for i := 0; i < edges; i++ {
		_, err := net.AddEdge(fmt.Sprintf("e%d", i),
			fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1), openLane(), nil)
		require.NoError(t, err)
	}
	return net
}

// testDoc builds a statistics document with a street record per edge.
func testDoc(t *testing.T, net *network.Net, inhabitants int, extra string) *stats.Document {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, `<city><general inhabitants="%d" households="%d"/><streets>`,
		inhabitants, inhabitants/3)
	for _, e := range net.Edges() {
		fmt.Fprintf(&b, `<street edge="%s" population="0" workPosition="0"/>`, e.ID)
	}
	b.WriteString(`</streets>`)
	b.WriteString(extra)
	b.WriteString(`</city>`)

	doc, err := stats.Parse([]byte(b.String()))
	require.NoError(t, err)
	return doc
}
