package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/model"
)

// BatchEnrichAndTag enriches a collection with at most MaxConcurrent leads in
// flight. Each worker serializes its own adapter calls; the shared rate
// limiters pace the external services across workers. Always returns one
// output per input, in input order.
func (o *Orchestrator) BatchEnrichAndTag(ctx context.Context, leads []*model.Lead) *model.BatchResult {
	result := &model.BatchResult{
		Total: len(leads),
		Leads: make([]*model.Lead, len(leads)),
	}
	if len(leads) == 0 {
		return result
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrent)

	for i, lead := range leads {
		g.Go(func() error {
			if lead == nil {
				return nil
			}
			if gCtx.Err() != nil {
				// Cancelled mid-batch: pass the lead through unmodified.
				result.Leads[i] = lead
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			out, outcome := o.EnrichAndTag(gCtx, lead)
			result.Leads[i] = out

			mu.Lock()
			switch outcome {
			case OutcomeEnriched:
				result.Enriched++
			case OutcomeSkipped:
				result.Skipped++
			default:
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	zap.L().Info("enrich: batch complete",
		zap.Int("total", result.Total),
		zap.Int("enriched", result.Enriched),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result
}
