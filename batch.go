package gocert

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one participant of a batch.
type BatchResult struct {
	Index       int
	Data        CertificateData
	Certificate *RenderedCertificate
	Err         error
}

// RenderBatch renders one certificate per participant with at most limit
// renders in flight (GOMAXPROCS when limit is not positive). A failed render
// never stops the others; results are returned in input order. Participants
// not yet started when ctx is canceled fail with the context error.
func RenderBatch(ctx context.Context, r CertificateRenderer, cfg CertificateConfig, participants []CertificateData, limit int) []BatchResult {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	cfg = cfg.Effective()
	results := make([]BatchResult, len(participants))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, data := range participants {
		i, data := i, data
		results[i] = BatchResult{Index: i, Data: data}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			cert, err := renderSafely(ctx, r, cfg, data)
			results[i].Certificate, results[i].Err = cert, err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// renderSafely turns a panicking render into an error for that participant.
func renderSafely(ctx context.Context, r CertificateRenderer, cfg CertificateConfig, data CertificateData) (cert *RenderedCertificate, err error) {
	defer func() {
		if p := recover(); p != nil {
			cert, err = nil, fmt.Errorf("render %q: panic: %v", data.ParticipantName, p)
		}
	}()
	return r.Render(ctx, cfg, data)
}

// BatchErrors counts the failed results.
func BatchErrors(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
