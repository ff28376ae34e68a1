package doctree

import (
	"encoding/xml"
	"fmt"
)

const (
	SchemaVersion = "2.0"
	SchemaType    = "Surgical_DSD"
	SourceUpload  = "User_Upload"
)

// SymbolicTree is the Document Schema Definition of one ingested document.
// Element and attribute order is fixed by the struct layout, so rendering
// the same tree always yields the same markup.
type SymbolicTree struct {
	XMLName  xml.Name `xml:"Document"`
	Version  string   `xml:"version,attr"`
	Type     string   `xml:"type,attr"`
	Metadata Metadata `xml:"Metadata"`
	Body     Body     `xml:"Body"`
}

// Metadata records provenance.
type Metadata struct {
	Source string `xml:"Source"`
}

// Body holds one node per paragraph in document order.
type Body struct {
	Nodes []Node `xml:"Node"`
}

// Node is a UID-addressed paragraph.
type Node struct {
	UID   string `xml:"uid,attr"`
	Style string `xml:"style,attr"`
	Index int    `xml:"index,attr"`
	Text  string `xml:",chardata"`
}

// Build stamps every paragraph with a fresh UID from gen.
func Build(paras []Paragraph, gen UIDGenerator) *SymbolicTree {
	if gen == nil {
		gen = RandomUIDs(UIDPrefix)
	}
	t := &SymbolicTree{
		Version:  SchemaVersion,
		Type:     SchemaType,
		Metadata: Metadata{Source: SourceUpload},
	}
	t.Body.Nodes = make([]Node, 0, len(paras))
	for _, p := range paras {
		t.Body.Nodes = append(t.Body.Nodes, Node{
			UID:   gen(),
			Style: p.Style,
			Index: p.Index,
			Text:  p.Text,
		})
	}
	return t
}

// Render serializes the tree as indented XML.
func (t *SymbolicTree) Render() (string, error) {
	out, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render dsd: %w", err)
	}
	return string(out) + "\n", nil
}

// Lookup returns the node with the given UID.
func (t *SymbolicTree) Lookup(uid string) (Node, bool) {
	for _, n := range t.Body.Nodes {
		if n.UID == uid {
			return n, true
		}
	}
	return Node{}, false
}
