package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "clean json unchanged",
			raw:  `[{"type":"LOGIC","title":"FEES","content":"Pay {{AMOUNT}}"}]`,
			want: `[{"type":"LOGIC","title":"FEES","content":"Pay {{AMOUNT}}"}]`,
		},
		{
			name: "json fence",
			raw:  "```json\n[{\"type\":\"LOGIC\"}]\n```",
			want: `[{"type":"LOGIC"}]`,
		},
		{
			name: "bare fence",
			raw:  "```\n[]\n```",
			want: `[]`,
		},
		{
			name: "prose before fence",
			raw:  "Here is the skeleton:\n\n```json\n[{\"title\":\"A\"}]\n```\nDone.",
			want: `[{"title":"A"}]`,
		},
		{
			name: "raw newline inside string literal",
			raw:  "[{\"content\":\"line one\nline two\"}]",
			want: `[{"content":"line oneline two"}]`,
		},
		{
			name: "tabs and DEL removed",
			raw:  "[{\"content\":\"a\tb\x7f\"}]",
			want: `[{"content":"ab"}]`,
		},
		{
			name: "inline fence markers",
			raw:  "```json [1, 2] ```",
			want: `[1, 2]`,
		},
		{
			name: "surrounding whitespace",
			raw:  "   [ ]   ",
			want: `[ ]`,
		},
		{
			name: "fence lines inside a string literal",
			raw:  "[{\"type\":\"LOGIC\",\"content\":\"see\n```\ncode\n```\nend\"}]",
			want: `[{"type":"LOGIC","content":"seecodeend"}]`,
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`[{"a":1}]`,
		"```json\n[{\"a\":\"x\ny\"}]\n```",
		"``````json\n[]\n``````",
		"  \x00```json [ ] ```\t\n",
		"````",
		"prefix ``` suffix",
		"[{\"content\":\"see\n```\ncode\n```\nend\"}]",
		"Result:\n```json\n[1]\n```",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.NotContains(t, once, "```")
	}
}

func TestSanitize_FencedResponseWithRawNewlineParses(t *testing.T) {
	raw := "```json\n[{\"type\":\"LOGIC\",\"title\":\"PAYMENT_TERMS\",\"content\":\"Pay {{AMOUNT}}\nwithin 30 days\"}]\n```"

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(Sanitize(raw)), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Pay {{AMOUNT}}within 30 days", items[0]["content"])
}

func TestSanitize_EmbeddedFenceKeepsArray(t *testing.T) {
	raw := "[{\"type\":\"LOGIC\",\"title\":\"EXHIBIT\",\"content\":\"see\n```\ncode\n```\nend\"}]"

	atoms, err := Assemble(Sanitize(raw), "contract.docx")
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.Equal(t, "seecodeend", atoms[0].Content)
	assert.Equal(t, TypeLogic, atoms[0].Type)
}
