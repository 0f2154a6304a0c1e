// Loading of SUMO-style .net.xml network descriptions.
package network

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

// LoadFile reads a road network from a SUMO-style .net.xml file.
// Internal junctions and edges (generated intersection plumbing, IDs starting
// with ':') are skipped; only the plain street graph is kept.
func LoadFile(path string) (*Net, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read network %s: %w", path, err)
	}
	return fromDocument(doc)
}

// Parse reads a road network from an in-memory .net.xml document.
func Parse(data []byte) (*Net, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse network: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *etree.Document) (*Net, error) {
	root := doc.Root()
	if root == nil || root.Tag != "net" {
		return nil, fmt.Errorf("network file: root element is not <net>")
	}

	net := New()

	for _, j := range root.SelectElements("junction") {
		id := j.SelectAttrValue("id", "")
		if id == "" || strings.HasPrefix(id, ":") || j.SelectAttrValue("type", "") == "internal" {
			continue
		}
		x, err := strconv.ParseFloat(j.SelectAttrValue("x", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("junction %q: bad x coordinate: %w", id, err)
		}
		y, err := strconv.ParseFloat(j.SelectAttrValue("y", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("junction %q: bad y coordinate: %w", id, err)
		}
		net.AddNode(id, x, y)
	}

	for _, e := range root.SelectElements("edge") {
		id := e.SelectAttrValue("id", "")
		if id == "" || strings.HasPrefix(id, ":") || e.SelectAttrValue("function", "") == "internal" {
			continue
		}
		from := e.SelectAttrValue("from", "")
		to := e.SelectAttrValue("to", "")
		if from == "" || to == "" {
			return nil, fmt.Errorf("edge %q: missing from/to junction", id)
		}

		var lanes []Lane
		var laneShape orb.LineString
		for _, l := range e.SelectElements("lane") {
			lanes = append(lanes, NewLane(
				l.SelectAttrValue("id", ""),
				splitClasses(l.SelectAttrValue("allow", "")),
				splitClasses(l.SelectAttrValue("disallow", "")),
			))
			if laneShape == nil {
				if s, err := parseShape(l.SelectAttrValue("shape", "")); err == nil && len(s) > 0 {
					laneShape = s
				}
			}
		}

		// Edge-level shape wins; first lane shape is the usual fallback.
		shape, err := parseShape(e.SelectAttrValue("shape", ""))
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", id, err)
		}
		if len(shape) == 0 {
			shape = laneShape
		}

		if _, err := net.AddEdge(id, from, to, lanes, shape); err != nil {
			return nil, fmt.Errorf("network file: %w", err)
		}
	}

	if len(net.Nodes()) == 0 {
		return nil, fmt.Errorf("network file: no junctions found")
	}
	return net, nil
}

func splitClasses(s string) []string {
	return strings.Fields(s)
}

// parseShape parses the SUMO shape syntax "x1,y1 x2,y2 ...".
func parseShape(s string) (orb.LineString, error) {
	if s == "" {
		return nil, nil
	}
	var line orb.LineString
	for _, pair := range strings.Fields(s) {
		xy := strings.Split(pair, ",")
		if len(xy) < 2 {
			return nil, fmt.Errorf("bad shape point %q", pair)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad shape point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad shape point %q: %w", pair, err)
		}
		line = append(line, orb.Point{x, y})
	}
	return line, nil
}
