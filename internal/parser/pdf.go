package parser

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// pdfText tries the Go reader first, then pdftotext if enabled.
func (n *Normalizer) pdfText(data []byte) (string, error) {
	text, err := extractPDFText(data)
	if err != nil && n.opts.FallbackPdftotext {
		n.log.Debug("go pdf reader failed, trying pdftotext", "error", err)
		text, err = extractPdftotext(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pt = strings.TrimSpace(pt); pt != "" {
			pages = append(pages, pt)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func extractPdftotext(data []byte) (string, error) {
	// pdftotext reads from a path, so spill to a temp file.
	tmp, err := os.CreateTemp("", "synccore-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
