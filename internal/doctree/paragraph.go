// Package doctree holds the normalized paragraph sequence of a source
// document and the UID-addressed Symbolic Document Schema built from it.
package doctree

import "strings"

// DefaultStyle is the label given to paragraphs that carry no explicit style.
const DefaultStyle = "Normal"

// Paragraph is one non-empty paragraph in document order.
type Paragraph struct {
	Index int    `json:"index" yaml:"index"` // ordinal among all paragraphs, empty ones included
	Style string `json:"style" yaml:"style"`
	Text  string `json:"text" yaml:"text"`
}

// JoinText concatenates paragraph text one per line.
func JoinText(paras []Paragraph) string {
	var sb strings.Builder
	for i, p := range paras {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
