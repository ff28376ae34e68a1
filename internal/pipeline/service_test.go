package pipeline

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dhisync/synccore/internal/doctree"
	"github.com/dhisync/synccore/internal/extract"
	"github.com/dhisync/synccore/internal/parser"
	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCapability returns reply (or err) and records every document it saw.
type scriptedCapability struct {
	mu    sync.Mutex
	docs  []string
	calls atomic.Int32
	reply string
	err   error
}

func (c *scriptedCapability) Generate(ctx context.Context, p extract.Prompt) (string, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.docs = append(c.docs, p.Document)
	c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.reply, c.err
}

func buildDocx(t *testing.T, texts ...string) []byte {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	for _, text := range texts {
		p := w.AddParagraph()
		if text != "" {
			p.AddText(text)
		}
	}
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func newService(capability extract.Capability, shortCircuit bool) *Service {
	return New(Options{
		Normalizer:                parser.New(parser.Options{PDFTextExtraction: true}),
		Capability:                capability,
		Stats:                     extract.NewLLMStats(0),
		UIDs:                      doctree.SequentialUIDs(doctree.UIDPrefix),
		ShortCircuitParseFailures: shortCircuit,
	})
}

const twoAtoms = `[{"type":"STRUCTURE","title":"PREAMBLE","content":"This Agreement"},{"type":"LOGIC","title":"TERM","content":"{{TERM}} months"}]`

func TestIngest_ThreeParagraphs(t *testing.T) {
	data := buildDocx(t, "MASTER SERVICES AGREEMENT", "", "1. Definitions", "Fees are {{AMOUNT}}.")
	svc := newService(&scriptedCapability{}, false)

	res, err := svc.Ingest(data, "msa.docx")
	require.NoError(t, err)
	assert.Equal(t, "msa.docx", res.Filename)
	assert.Equal(t, SchemaDSDXML, res.SchemaType)
	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Tree.Body.Nodes, 3)
	assert.Equal(t, 3, strings.Count(res.DSD, "<Node "))
	assert.Contains(t, res.DSD, `<Node uid="sync_00000000" style="Normal" index="0">MASTER SERVICES AGREEMENT</Node>`)
	assert.Contains(t, res.DSD, `index="2">1. Definitions</Node>`)
}

func TestIngest_UnsupportedBeforeParse(t *testing.T) {
	svc := newService(&scriptedCapability{}, false)

	_, err := svc.Ingest([]byte("%PDF-1.4 not parsed"), "contract.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
	assert.False(t, parser.IsParseError(err))
}

func TestIngest_CorruptDocxIsParseFault(t *testing.T) {
	svc := newService(&scriptedCapability{}, false)

	_, err := svc.Ingest([]byte("definitely not a zip"), "broken.docx")
	require.Error(t, err)
	assert.True(t, parser.IsParseError(err))
	assert.NotErrorIs(t, err, parser.ErrUnsupportedFormat)
}

func TestExtract_PlainTextPDF(t *testing.T) {
	capability := &scriptedCapability{reply: twoAtoms}
	svc := newService(capability, false)

	text := "Agreement between {{PARTY_A}} and {{PARTY_B}}. End"
	require.Len(t, text, 50)

	res, err := svc.Extract(context.Background(), []byte(text), "contract.pdf")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, res.Err)
	require.Len(t, res.Mandates, 2)
	assert.Equal(t, "node_0_contract", res.Mandates[0].ID)
	assert.Equal(t, "node_1_contract", res.Mandates[1].ID)
	for _, m := range res.Mandates {
		assert.False(t, m.Approved)
		assert.False(t, m.IsError)
	}

	require.Len(t, capability.docs, 1)
	assert.Equal(t, text, capability.docs[0])
}

func TestExtract_FencedResponseWithRawNewline(t *testing.T) {
	reply := "```json\n[{\"type\":\"LOGIC\",\"title\":\"PAYMENT_TERMS\",\"content\":\"Pay {{AMOUNT}}\nnet 30\"}]\n```"
	svc := newService(&scriptedCapability{reply: reply}, false)

	res, err := svc.Extract(context.Background(), buildDocx(t, "Payment terms."), "terms.docx")
	require.NoError(t, err)
	require.Len(t, res.Mandates, 1)
	assert.Equal(t, "node_0_terms", res.Mandates[0].ID)
	assert.Equal(t, "Payment Terms", res.Mandates[0].Title)
	assert.Equal(t, "Pay {{AMOUNT}}net 30", res.Mandates[0].Content)
}

func TestExtract_CapabilityFaultDegrades(t *testing.T) {
	svc := newService(&scriptedCapability{err: errors.New("503 service unavailable")}, false)

	res, err := svc.Extract(context.Background(), []byte("plain text"), "contract.pdf")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Mandates, 1)
	assert.True(t, res.Mandates[0].IsError)
	assert.Equal(t, extract.TypeStructure, res.Mandates[0].Type)
	assert.True(t, extract.IsCapabilityFailure(res.Err))
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	capability := &scriptedCapability{reply: twoAtoms}
	svc := newService(capability, false)

	_, err := svc.Extract(context.Background(), []byte("a,b"), "sheet.csv")
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
	assert.Zero(t, capability.calls.Load())
}

func TestExtract_CorruptDocxForwardsFailureText(t *testing.T) {
	capability := &scriptedCapability{reply: twoAtoms}
	svc := newService(capability, false)

	res, err := svc.Extract(context.Background(), []byte("not a zip"), "broken.docx")
	require.NoError(t, err)
	require.Len(t, capability.docs, 1)
	assert.True(t, strings.HasPrefix(capability.docs[0], "File Parsing Error: "))
	assert.Len(t, res.Mandates, 2)
}

func TestExtract_CorruptDocxShortCircuit(t *testing.T) {
	capability := &scriptedCapability{reply: twoAtoms}
	svc := newService(capability, true)

	res, err := svc.Extract(context.Background(), []byte("not a zip"), "broken.docx")
	require.NoError(t, err)
	assert.Zero(t, capability.calls.Load())
	require.Len(t, res.Mandates, 1)
	assert.True(t, res.Mandates[0].IsError)
	assert.Equal(t, extract.ErrorAtomID, res.Mandates[0].ID)
	assert.True(t, strings.HasPrefix(res.Mandates[0].Reasoning, "File Parsing Error: "))
	assert.True(t, parser.IsParseError(res.Err))
}

func TestExtract_CancelledRequestDegrades(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newService(&scriptedCapability{reply: twoAtoms}, false)
	res, err := svc.Extract(ctx, []byte("text"), "contract.pdf")
	require.NoError(t, err)
	require.Len(t, res.Mandates, 1)
	assert.True(t, res.Mandates[0].IsError)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestGraph_Stub(t *testing.T) {
	svc := newService(&scriptedCapability{}, false)
	res, err := svc.Graph(buildDocx(t, "Section 1", "See Section 1."), "g.docx")
	require.NoError(t, err)
	assert.NotNil(t, res.Nodes)
	assert.NotNil(t, res.Edges)
	assert.Empty(t, res.Nodes)
	assert.Equal(t, StatusSuccess, res.Status)

	_, err = svc.Graph([]byte("x"), "g.pdf")
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
}

func TestIngest_RandomUIDs(t *testing.T) {
	svc := New(Options{Capability: &scriptedCapability{}})
	res, err := svc.Ingest(buildDocx(t, "One", "Two"), "a.docx")
	require.NoError(t, err)
	uid := regexp.MustCompile(`^sync_[0-9a-f]{8}$`)
	for _, n := range res.Tree.Body.Nodes {
		assert.Regexp(t, uid, n.UID)
	}
}
