package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var fenceRe = regexp.MustCompile("```json\\s*|\\s*```")

var markdown = goldmark.New()

// Sanitize recovers a parseable JSON payload from raw model output. A
// Markdown code fence wrapping the whole answer is unwrapped. Otherwise
// ASCII control characters are dropped (which also removes raw newlines
// inside string literals), stray fence markers are stripped and the
// result is trimmed; a fenced block embedded in prose is used only when
// that pass does not yield valid JSON. Clean input passes through
// unchanged and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	if strings.HasPrefix(strings.TrimSpace(raw), "```") {
		if body, ok := fencedBody(raw); ok {
			return stripFences(body)
		}
	}
	cleaned := stripFences(raw)
	if json.Valid([]byte(cleaned)) || !strings.Contains(raw, "```") {
		return cleaned
	}
	if body, ok := fencedBody(raw); ok {
		return stripFences(body)
	}
	return cleaned
}

func stripFences(s string) string {
	s = stripControl(s)
	for strings.Contains(s, "```") {
		s = fenceRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// fencedBody returns the contents of the first top-level fenced code block.
func fencedBody(s string) (string, bool) {
	src := []byte(s)
	doc := markdown.Parser().Parse(text.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			continue
		}
		var sb strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		return sb.String(), true
	}
	return "", false
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
