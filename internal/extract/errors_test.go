package extract

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"ééé", 3, "é..."},
		{"ééé", 4, "éé..."},
		{"日本語", 2, "..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.n)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestMalformedOutputError_RawIsValidUTF8(t *testing.T) {
	// One ASCII byte shifts every two-byte rune across the cut.
	cleaned := "x" + strings.Repeat("é", rawLogLimit)

	_, err := Assemble(cleaned, "contract.docx")
	require.Error(t, err)

	var me *MalformedOutputError
	require.True(t, errors.As(err, &me))
	assert.True(t, utf8.ValidString(me.Raw))
	assert.True(t, strings.HasSuffix(me.Raw, "..."))
}
