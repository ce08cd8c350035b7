// Package scorer computes a lead's outreach score from its tag set.
//
// Two scoring paths exist on purpose and are named separately: TagScore is
// the tag-weight base formula; the auto-tagger's ICP stage applies its
// profile deltas on top of that base. Tier assignment trusts the combined
// score on the lead.
package scorer

import (
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/tags"
)

// BaseScore is the starting score before any tag weight applies.
const BaseScore = 50

// Tier thresholds, shared by TierForScore and the auto-tagger's priority
// stage so the two paths always agree.
const (
	TierGreenMin  = 70
	TierYellowMin = 40
)

// vietnamPenalty is the kill switch: Vietnam-based leads are effectively
// disqualified regardless of their other signals.
const vietnamPenalty = -60

// tagWeights is the fixed weight table for the base formula. Tags not listed
// contribute nothing.
var tagWeights = map[string]int{
	// follower buckets
	"followers:<1k":       -15,
	"followers:1k-5k":     -5,
	"followers:5k-10k":    5,
	"followers:10k-100k":  15,
	"followers:100k-500k": 5,
	"followers:500k+":     -5,

	// geography
	"geo:us":        10,
	"geo:taiwan":    10,
	"geo:uk":        5,
	"geo:singapore": 5,

	// platform presence
	"platform:shopify":        10,
	"platform:tiktok_shop":    8,
	"platform:instagram_shop": 5,
	"platform:amazon":         3,
	"platform:etsy":           3,
}

// TagScore computes the tag-weight base score for a lead: base 50 plus the
// weight of every tag present, with the Vietnam kill switch, clamped to
// [0, 100].
func TagScore(lead *model.Lead) int {
	score := BaseScore

	for _, t := range lead.Tags {
		if w, ok := tagWeights[t.FullTag]; ok {
			score += w
		}
	}

	if tags.Has(lead, "geo:vietnam") {
		score += vietnamPenalty
	}

	clamped := Clamp(score)
	if clamped != score {
		zap.L().Debug("scorer: clamped score",
			zap.String("lead_id", lead.ID),
			zap.Int("raw", score),
			zap.Int("clamped", clamped),
		)
	}
	return clamped
}

// Clamp bounds a score to [0, 100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TierForScore maps a score to its tier: ≥70 GREEN, 40–69 YELLOW, <40 RED.
func TierForScore(score int) model.Tier {
	switch {
	case score >= TierGreenMin:
		return model.TierGreen
	case score >= TierYellowMin:
		return model.TierYellow
	default:
		return model.TierRed
	}
}
