package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dhisync/synccore/internal/config"
	"github.com/dhisync/synccore/internal/doctree"
	"github.com/dhisync/synccore/internal/extract"
	"github.com/dhisync/synccore/internal/parser"
)

// Components is a Service wired from configuration, along with the
// capability client and stats it reports on.
type Components struct {
	Service *Service
	Gemini  *extract.GeminiClient
	Stats   *extract.LLMStats
}

// NewFromConfig builds the production pipeline backed by Gemini.
func NewFromConfig(ctx context.Context, cfg config.Config, log *slog.Logger) (Components, error) {
	uids, err := doctree.NewUIDGenerator(cfg.UIDScheme)
	if err != nil {
		return Components{}, fmt.Errorf("uid generator: %w", err)
	}

	gemini := extract.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	stats := extract.NewLLMStats(cfg.LLMStatsWindow)

	svc := New(Options{
		Normalizer: parser.New(parser.Options{
			PDFTextExtraction: cfg.PDFTextExtraction,
			FallbackPdftotext: cfg.PDFFallbackPdftotext,
			Logger:            log,
		}),
		Capability:                gemini,
		Stats:                     stats,
		UIDs:                      uids,
		ShortCircuitParseFailures: cfg.ShortCircuitParseFailures,
		Logger:                    log,
	})
	return Components{Service: svc, Gemini: gemini, Stats: stats}, nil
}
