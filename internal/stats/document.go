// Package stats wraps the city statistics document: a hierarchical XML tree
// of sections (general, population, workHours, streets, cityGates, schools)
// keyed by attribute maps. The document is loaded once, mutated in place by
// the generation engines, and written back as a whole.
package stats

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/beevik/etree"
)

// Attr is a single record attribute. Records keep attribute insertion order
// so serialized output is stable for a fixed seed.
type Attr struct {
	Key   string
	Value string
}

// Document is a mutable in-memory statistics tree.
type Document struct {
	doc  *etree.Document
	root *etree.Element
}

// LoadFile reads a statistics document from disk.
func LoadFile(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read statistics %s: %w", path, err)
	}
	return wrap(doc)
}

// Parse reads a statistics document from memory.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse statistics: %w", err)
	}
	return wrap(doc)
}

func wrap(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("statistics document is empty")
	}
	if root.Tag != "city" {
		return nil, fmt.Errorf("statistics document: root element is <%s>, expected <city>", root.Tag)
	}
	return &Document{doc: doc, root: root}, nil
}

// Find returns the named top-level section, or nil if absent.
func (d *Document) Find(name string) *etree.Element {
	return d.root.SelectElement(name)
}

// Section returns the named top-level section, creating it if absent.
func (d *Document) Section(name string) *etree.Element {
	if e := d.root.SelectElement(name); e != nil {
		return e
	}
	return d.root.CreateElement(name)
}

// Append adds a record element with the given attributes to a section.
func (d *Document) Append(section *etree.Element, tag string, attrs ...Attr) *etree.Element {
	e := section.CreateElement(tag)
	for _, a := range attrs {
		e.CreateAttr(a.Key, a.Value)
	}
	return e
}

// Records returns the records of the given tag within a section. A nil
// section yields no records.
func Records(section *etree.Element, tag string) []*etree.Element {
	if section == nil {
		return nil
	}
	return section.SelectElements(tag)
}

// Inhabitants returns the inhabitant count from the general section.
func (d *Document) Inhabitants() (int, error) {
	general := d.Find("general")
	if general == nil {
		return 0, fmt.Errorf("statistics document has no <general> section")
	}
	v := general.SelectAttrValue("inhabitants", "")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("general inhabitants %q: %w", v, err)
	}
	return n, nil
}

// WriteFile serializes the whole document to path, replacing any existing
// file. This is the single persistence point of a run.
func (d *Document) WriteFile(path string) error {
	d.doc.Indent(4)
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("write statistics %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the document to memory.
func (d *Document) Bytes() ([]byte, error) {
	d.doc.Indent(4)
	return d.doc.WriteToBytes()
}

// Validate checks the document preconditions and repairs the optional
// sections. The general section with inhabitant and household counts is
// mandatory and cannot be defaulted. A missing population bracket set or
// workHours section is filled with fixed defaults; the defaulting only
// triggers when the section is entirely absent, so it is idempotent.
func (d *Document) Validate() error {
	general := d.Find("general")
	if general == nil {
		return fmt.Errorf("statistics document is missing <general>; inhabitants and households are required")
	}
	if general.SelectAttrValue("inhabitants", "") == "" {
		return fmt.Errorf("statistics document: general section has no inhabitants count")
	}
	if general.SelectAttrValue("households", "") == "" {
		return fmt.Errorf("statistics document: general section has no households count")
	}

	if d.Find("population") == nil {
		slog.Info("population brackets missing from statistics, adding default configuration")
		pop := d.Section("population")
		d.Append(pop, "bracket", Attr{"beginAge", "0"}, Attr{"endAge", "30"}, Attr{"peopleNbr", "30"})
		d.Append(pop, "bracket", Attr{"beginAge", "30"}, Attr{"endAge", "60"}, Attr{"peopleNbr", "40"})
		d.Append(pop, "bracket", Attr{"beginAge", "60"}, Attr{"endAge", "90"}, Attr{"peopleNbr", "30"})
	}

	if d.Find("workHours") == nil {
		slog.Info("work hours missing from statistics, adding default configuration")
		wh := d.Section("workHours")
		d.Append(wh, "opening", Attr{"hour", "28800"}, Attr{"proportion", "70"}) // 70% at 8.00
		d.Append(wh, "opening", Attr{"hour", "30600"}, Attr{"proportion", "30"}) // 30% at 8.30
		d.Append(wh, "closing", Attr{"hour", "43200"}, Attr{"proportion", "10"}) // 10% at 12.00
		d.Append(wh, "closing", Attr{"hour", "61200"}, Attr{"proportion", "30"}) // 30% at 17.00
		d.Append(wh, "closing", Attr{"hour", "63000"}, Attr{"proportion", "60"}) // 60% at 17.30
	}

	return nil
}
