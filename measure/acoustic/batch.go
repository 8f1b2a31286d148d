package acoustic

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AnalyzeAll analyzes independent signals in parallel, running at most
// limit analyses at a time (no limit when limit <= 0). Results are in input
// order. The first failure cancels the remaining work and is returned
// without partial results.
func (a *Analyzer) AnalyzeAll(ctx context.Context, sigs []Signal, limit int) ([]*Metrics, error) {
	out := make([]*Metrics, len(sigs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, sig := range sigs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			m, err := a.Analyze(gctx, sig)
			if err != nil {
				return fmt.Errorf("acoustic: signal %d: %w", i, err)
			}
			out[i] = m

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
