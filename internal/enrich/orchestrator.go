// Package enrich sequences the external adapters over a lead, merges their
// results, and finishes every run with a full auto-tagging pass.
package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/autotag"
	"github.com/sells-group/leadscout/internal/captions"
	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/research"
	"github.com/sells-group/leadscout/internal/social"
	"github.com/sells-group/leadscout/internal/tags"
)

// Outcome classifies how a single enrichment run ended.
type Outcome string

const (
	// OutcomeEnriched means external data was fetched and merged.
	OutcomeEnriched Outcome = "enriched"
	// OutcomeSkipped means the lead had no usable handle; it was auto-tagged
	// from existing data only.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means every adapter failed; the lead was still
	// auto-tagged from existing data.
	OutcomeFailed Outcome = "failed"
)

// SocialFetcher is the social metrics dependency.
type SocialFetcher interface {
	Fetch(ctx context.Context, handle string) (*social.Metrics, error)
}

// CaptionAnalyzer is the caption analysis dependency.
type CaptionAnalyzer interface {
	Analyze(ctx context.Context, caps []string) []captions.PainPoint
}

// Researcher is the deep research dependency.
type Researcher interface {
	Enabled() bool
	Research(ctx context.Context, name, bestURL string) (*research.Dossier, error)
}

// Orchestrator runs the enrichment pipeline. Adapter dependencies are
// injected; a nil adapter simply disables that stage.
type Orchestrator struct {
	social    SocialFetcher
	captions  CaptionAnalyzer
	research  Researcher
	cfg       config.EnrichConfig
	socialLim *rate.Limiter
	resLim    *rate.Limiter
	now       func() time.Time
}

// New creates an Orchestrator with per-service rate limiters sized from cfg.
func New(sf SocialFetcher, ca CaptionAnalyzer, r Researcher, cfg config.EnrichConfig) *Orchestrator {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.AdapterTimeoutSecs <= 0 {
		cfg.AdapterTimeoutSecs = 60
	}
	if cfg.SocialPerSecond <= 0 {
		cfg.SocialPerSecond = 1
	}
	if cfg.ResearchPerSecond <= 0 {
		cfg.ResearchPerSecond = 0.5
	}
	return &Orchestrator{
		social:    sf,
		captions:  ca,
		research:  r,
		cfg:       cfg,
		socialLim: rate.NewLimiter(rate.Limit(cfg.SocialPerSecond), 1),
		resLim:    rate.NewLimiter(rate.Limit(cfg.ResearchPerSecond), 1),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// EnrichAndTag runs the adapter sequence on a copy of the lead and returns
// the copy fully auto-tagged. Adapter failures degrade the run, they never
// propagate: the worst case is a lead tagged from whatever data it already
// carried.
func (o *Orchestrator) EnrichAndTag(ctx context.Context, lead *model.Lead) (*model.Lead, Outcome) {
	out := lead.Clone()
	started := o.now()

	handle := social.NormalizeHandle(out.InstagramHandle)
	if handle == "" {
		zap.L().Info("enrich: no usable handle, auto-tagging only",
			zap.String("lead_id", out.ID),
			zap.String("lead", out.Name),
		)
		out = autotag.AutoTag(out, autotag.Options{Now: o.now()})
		o.record(out, "autotag_only", "no usable handle")
		return out, OutcomeSkipped
	}

	metrics := o.fetchSocial(ctx, out, handle)
	if metrics != nil {
		o.mergeSocial(out, metrics)
		o.applyCaptionPains(ctx, out, metrics)
		o.applyBioBusiness(out, metrics.Biography)
	}

	o.applyResearch(ctx, out)

	out = autotag.AutoTag(out, autotag.Options{Now: o.now()})

	if metrics == nil {
		o.record(out, "enrichment_failed", "social metrics unavailable")
		zap.L().Warn("enrich: lead degraded to auto-tag only",
			zap.String("lead_id", out.ID),
			zap.Duration("duration", o.now().Sub(started)),
		)
		return out, OutcomeFailed
	}

	now := o.now()
	out.Enriched = true
	out.LastEnrichedAt = &now
	o.record(out, "full_enrichment", "social metrics + caption analysis + research")

	zap.L().Info("enrich: lead enriched",
		zap.String("lead_id", out.ID),
		zap.String("handle", handle),
		zap.Int("followers", out.Followers),
		zap.Int("score", out.Score),
		zap.String("tier", string(out.Tier)),
		zap.Duration("duration", now.Sub(started)),
	)

	return out, OutcomeEnriched
}

// fetchSocial calls the social adapter under the shared rate limiter and the
// per-call timeout. Social failures are the one loud adapter error; they are
// caught here so the pipeline continues.
func (o *Orchestrator) fetchSocial(ctx context.Context, lead *model.Lead, handle string) *social.Metrics {
	if o.social == nil {
		return nil
	}
	if err := o.socialLim.Wait(ctx); err != nil {
		return nil
	}

	callCtx, cancel := o.adapterCtx(ctx)
	defer cancel()

	metrics, err := o.social.Fetch(callCtx, handle)
	if err != nil {
		level := zap.L().Warn
		if errors.Is(err, social.ErrNoCredential) {
			level = zap.L().Debug
		}
		level("enrich: social metrics fetch failed",
			zap.String("lead_id", lead.ID),
			zap.String("handle", handle),
			zap.Error(err),
		)
		return nil
	}
	return metrics
}

// mergeSocial copies fetched metrics onto the lead and estimates posting
// frequency from the post count.
func (o *Orchestrator) mergeSocial(lead *model.Lead, m *social.Metrics) {
	lead.InstagramHandle = m.Handle
	lead.Followers = m.Followers
	lead.EngagementRate = m.EngagementRate
	lead.PostingFreq = EstimatePostingFrequency(m.Posts)
	if lead.Website == "" && m.ExternalURL != "" {
		lead.Website = m.ExternalURL
	}
}

// applyCaptionPains runs caption analysis over the latest posts and attaches
// the surviving pain points as ai tags with evidence.
func (o *Orchestrator) applyCaptionPains(ctx context.Context, lead *model.Lead, m *social.Metrics) {
	if o.captions == nil || len(m.LatestPosts) == 0 {
		return
	}

	callCtx, cancel := o.adapterCtx(ctx)
	defer cancel()

	caps := make([]string, 0, len(m.LatestPosts))
	for _, p := range m.LatestPosts {
		caps = append(caps, p.Caption)
	}

	for _, pp := range o.captions.Analyze(callCtx, caps) {
		meta := tags.Meta{
			AppliedBy:  model.AppliedByAI,
			AppliedAt:  o.now(),
			Confidence: pp.Confidence,
			Evidence:   pp.Evidence,
		}
		if _, err := tags.Add(lead, pp.Tag, meta); err != nil {
			zap.L().Warn("enrich: add pain tag",
				zap.String("lead_id", lead.ID),
				zap.String("tag", pp.Tag),
				zap.Error(err),
			)
		}
	}
}

// applyBioBusiness infers a business type from the fetched biography. The
// tag store's precedence rule keeps an existing ai or manual business tag.
func (o *Orchestrator) applyBioBusiness(lead *model.Lead, biography string) {
	business := autotag.BusinessFromText(biography)
	if business == "" || business == "other" {
		return
	}
	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: o.now()}
	if _, err := tags.Add(lead, "business:"+business, meta); err != nil {
		zap.L().Warn("enrich: add business tag from bio",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}
}

// applyResearch fetches a dossier and merges the summary and any contact
// candidates the lead was missing.
func (o *Orchestrator) applyResearch(ctx context.Context, lead *model.Lead) {
	if o.research == nil || !o.research.Enabled() {
		return
	}
	if err := o.resLim.Wait(ctx); err != nil {
		return
	}

	callCtx, cancel := o.adapterCtx(ctx)
	defer cancel()

	dossier, err := o.research.Research(callCtx, lead.Name, lead.BestURL())
	if err != nil {
		zap.L().Warn("enrich: deep research failed",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
		return
	}

	lead.ResearchSummary = dossier.Summary
	lead.ResearchConfidence = dossier.ConfidenceScore
	if lead.Email == "" && dossier.ContactInfo.Email != "" {
		lead.Email = dossier.ContactInfo.Email
	}
	if lead.InstagramHandle == "" && dossier.ContactInfo.InstagramHandle != "" {
		lead.InstagramHandle = social.NormalizeHandle(dossier.ContactInfo.InstagramHandle)
	}
}

func (o *Orchestrator) adapterCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(o.cfg.AdapterTimeoutSecs)*time.Second)
}

func (o *Orchestrator) record(lead *model.Lead, method, details string) {
	lead.EnrichmentHistory = append(lead.EnrichmentHistory, model.EnrichmentRecord{
		ID:        uuid.NewString(),
		Timestamp: o.now(),
		Method:    method,
		Details:   details,
	})
}

// EstimatePostingFrequency derives a posting cadence from the total post
// count assuming a 52-week account age. Coarse, not time-series based.
func EstimatePostingFrequency(totalPosts int) model.PostingFrequency {
	perWeek := float64(totalPosts) / 52.0
	switch {
	case perWeek < 1:
		return model.PostingLow
	case perWeek <= 3:
		return model.PostingIdeal
	case perWeek <= 7:
		return model.PostingHigh
	default:
		return model.PostingPowerUser
	}
}
