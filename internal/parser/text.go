package parser

import (
	"golang.org/x/text/encoding/unicode"
)

// DecodeText decodes bytes as UTF-8. Invalid sequences become U+FFFD
// instead of failing the request.
func DecodeText(data []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		// The UTF-8 decoder replaces rather than rejects; keep the raw
		// bytes if the transformer still gives up.
		return string(data)
	}
	return string(out)
}
