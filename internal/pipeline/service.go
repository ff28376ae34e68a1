// Package pipeline composes the normalizer, tree builder and atomizer into
// the ingestion, extraction and graph request paths.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/dhisync/synccore/internal/doctree"
	"github.com/dhisync/synccore/internal/extract"
	"github.com/dhisync/synccore/internal/parser"
)

const (
	StatusSuccess = "SUCCESS"
	SchemaDSDXML  = "DSD_XML"
)

// Options wires a Service.
type Options struct {
	Normalizer *parser.Normalizer
	Capability extract.Capability
	Stats      *extract.LLMStats
	UIDs       doctree.UIDGenerator

	// ShortCircuitParseFailures returns the diagnostic atom for a .docx that
	// could not be parsed instead of sending its failure text to the capability.
	ShortCircuitParseFailures bool

	Logger *slog.Logger
}

// Service runs documents through the pipeline. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	normalizer   *parser.Normalizer
	atomizer     *extract.Atomizer
	uids         doctree.UIDGenerator
	shortCircuit bool
	log          *slog.Logger
}

func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	norm := opts.Normalizer
	if norm == nil {
		norm = parser.New(parser.Options{Logger: log})
	}
	uids := opts.UIDs
	if uids == nil {
		uids = doctree.RandomUIDs(doctree.UIDPrefix)
	}
	return &Service{
		normalizer:   norm,
		atomizer:     extract.NewAtomizer(opts.Capability, opts.Stats, log),
		uids:         uids,
		shortCircuit: opts.ShortCircuitParseFailures,
		log:          log,
	}
}

// IngestResult is the ingestion response envelope.
type IngestResult struct {
	Filename   string `json:"filename" yaml:"filename"`
	SchemaType string `json:"schema_type" yaml:"schema_type"`
	DSD        string `json:"dsd" yaml:"dsd"`
	Status     string `json:"status" yaml:"status"`

	Tree *doctree.SymbolicTree `json:"-" yaml:"-"`
}

// ExtractResult is the extraction response envelope.
type ExtractResult struct {
	Filename string         `json:"filename" yaml:"filename"`
	Mandates []extract.Atom `json:"mandates" yaml:"mandates"`
	Status   string         `json:"status" yaml:"status"`

	Truncated bool  `json:"-" yaml:"-"`
	Err       error `json:"-" yaml:"-"`
}

// GraphResult is the cross-reference graph response envelope.
type GraphResult struct {
	Filename string              `json:"filename"`
	Nodes    []doctree.GraphNode `json:"nodes"`
	Edges    []doctree.GraphEdge `json:"edges"`
	Status   string              `json:"status"`
}

// Ingest parses a .docx into a Symbolic DSD. Unsupported extensions yield
// parser.ErrUnsupportedFormat; an unreadable container yields a *parser.ParseError.
func (s *Service) Ingest(data []byte, filename string) (IngestResult, error) {
	tree, err := s.tree(data, filename)
	if err != nil {
		return IngestResult{}, err
	}
	dsd, err := tree.Render()
	if err != nil {
		return IngestResult{}, err
	}
	s.log.Info("document ingested", "filename", filename, "nodes", len(tree.Body.Nodes))
	return IngestResult{
		Filename:   filename,
		SchemaType: SchemaDSDXML,
		DSD:        dsd,
		Status:     StatusSuccess,
		Tree:       tree,
	}, nil
}

// Graph builds the tree for a .docx and returns its cross-reference graph.
func (s *Service) Graph(data []byte, filename string) (GraphResult, error) {
	tree, err := s.tree(data, filename)
	if err != nil {
		return GraphResult{}, err
	}
	g := doctree.ExtractGraph(tree)
	return GraphResult{Filename: filename, Nodes: g.Nodes, Edges: g.Edges, Status: StatusSuccess}, nil
}

func (s *Service) tree(data []byte, filename string) (*doctree.SymbolicTree, error) {
	if _, err := parser.DetectAllowed(filename, parser.FormatDocx); err != nil {
		return nil, err
	}
	paras, err := s.normalizer.Paragraphs(data)
	if err != nil {
		return nil, err
	}
	return doctree.Build(paras, s.uids), nil
}

// Extract maps a .docx or .pdf onto atoms. Only an unsupported extension
// is returned as an error: parse faults, capability faults and malformed
// output all produce a SUCCESS envelope whose single atom has IsError set.
func (s *Service) Extract(ctx context.Context, data []byte, filename string) (ExtractResult, error) {
	format, err := parser.DetectAllowed(filename, parser.FormatDocx, parser.FormatPDF)
	if err != nil {
		return ExtractResult{}, err
	}

	ext := s.normalizer.Normalize(data, format)
	if ext.Degraded() && s.shortCircuit {
		s.log.Warn("skipping atomization of unparseable document", "filename", filename, "error", ext.Failure)
		atom := extract.ErrorAtom(ext.Failure)
		atom.Reasoning = "File Parsing Error: " + ext.Failure.Error()
		return ExtractResult{
			Filename: filename,
			Mandates: []extract.Atom{atom},
			Status:   StatusSuccess,
			Err:      ext.Failure,
		}, nil
	}

	out := s.atomizer.Atomize(ctx, ext.Text, filename)
	return ExtractResult{
		Filename:  filename,
		Mandates:  out.Atoms,
		Status:    StatusSuccess,
		Truncated: out.Truncated,
		Err:       out.Err,
	}, nil
}
