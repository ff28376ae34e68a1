package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Document is one input to ExtractBatch.
type Document struct {
	Filename string
	Data     []byte
}

// ExtractBatch runs Extract over docs with at most limit in flight.
// Results keep the input order. The first unsupported document cancels
// the remaining work and its error is returned.
func (s *Service) ExtractBatch(ctx context.Context, docs []Document, limit int) ([]ExtractResult, error) {
	if limit <= 0 {
		limit = 1
	}
	results := make([]ExtractResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			res, err := s.Extract(gctx, doc.Data, doc.Filename)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Filename, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
