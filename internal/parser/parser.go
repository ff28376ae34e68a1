// Package parser normalizes uploaded contract bytes into addressable units:
// an ordered paragraph sequence for .docx, decoded text for everything else.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dhisync/synccore/internal/doctree"
)

// Format identifies a source document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for extensions outside the accepted set.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError reports that a structured container could not be opened.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Detect maps a filename extension onto a Format.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return FormatDocx, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DetectAllowed is Detect restricted to the given formats.
func DetectAllowed(filename string, allowed ...Format) (Format, error) {
	f, err := Detect(filename)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Options tunes the normalizer.
type Options struct {
	// PDFTextExtraction reads page text from bytes carrying a %PDF- header
	// instead of decoding them as UTF-8.
	PDFTextExtraction bool
	// FallbackPdftotext shells out to pdftotext when the Go reader fails.
	FallbackPdftotext bool
	Logger            *slog.Logger
}

// Normalizer turns raw document bytes into text or paragraphs.
type Normalizer struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Normalizer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{opts: opts, log: log}
}

// Extraction is the normalized form of one document.
type Extraction struct {
	Format     Format
	Text       string
	Paragraphs []doctree.Paragraph // structured formats only

	// Failure is set when the structured container could not be parsed.
	// Text then holds a synthetic description of the failure.
	Failure error
}

// Degraded reports whether Text is a failure placeholder.
func (e Extraction) Degraded() bool {
	return e.Failure != nil
}

// Paragraphs extracts the non-empty paragraphs of a .docx container.
func (n *Normalizer) Paragraphs(data []byte) ([]doctree.Paragraph, error) {
	paras, err := docxParagraphs(data)
	if err != nil {
		return nil, &ParseError{Format: FormatDocx, Err: err}
	}
	return paras, nil
}

// Normalize produces the text forwarded to atomization. A .docx that cannot
// be parsed does not fail: its Text describes the failure and Failure is set.
func (n *Normalizer) Normalize(data []byte, format Format) Extraction {
	switch format {
	case FormatDocx:
		paras, err := n.Paragraphs(data)
		if err != nil {
			n.log.Warn("structured parse failed, substituting failure text", "format", format, "error", err)
			return Extraction{
				Format:  format,
				Text:    "File Parsing Error: " + err.Error(),
				Failure: err,
			}
		}
		return Extraction{Format: format, Text: doctree.JoinText(paras), Paragraphs: paras}
	case FormatPDF:
		if n.opts.PDFTextExtraction && looksLikePDF(data) {
			text, err := n.pdfText(data)
			if err == nil && strings.TrimSpace(text) != "" {
				return Extraction{Format: format, Text: text}
			}
			n.log.Debug("pdf text extraction unavailable, decoding raw bytes", "error", err)
		}
		return Extraction{Format: format, Text: DecodeText(data)}
	default:
		return Extraction{Format: format, Text: DecodeText(data)}
	}
}
