package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhisync/synccore/internal/doctree"
	"github.com/fumiama/go-docx"
)

// docxParagraphs returns the non-empty paragraphs of a .docx in document
// order. Index counts every body paragraph, so skipped empty paragraphs
// leave gaps rather than renumbering the ones that follow.
func docxParagraphs(data []byte) (paras []doctree.Paragraph, err error) {
	defer func() {
		if r := recover(); r != nil {
			paras, err = nil, fmt.Errorf("docx reader panic: %v", r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	index := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		i := index
		index++

		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		paras = append(paras, doctree.Paragraph{
			Index: i,
			Style: docxParagraphStyle(para),
			Text:  text,
		})
	}
	return paras, nil
}

func docxParagraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil || para.Properties.Style.Val == "" {
		return doctree.DefaultStyle
	}
	return para.Properties.Style.Val
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRunText(&buf, c)
		case *docx.Hyperlink:
			writeRunText(&buf, &c.Run)
		}
	}
	return strings.TrimSpace(buf.String())
}

func writeRunText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		}
	}
}
