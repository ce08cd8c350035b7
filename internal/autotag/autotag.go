// Package autotag is the deterministic multi-stage rule engine that derives
// a lead's tag set, score, and tier from whatever data the lead carries.
package autotag

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/scorer"
	"github.com/sells-group/leadscout/internal/tags"
)

// Options configures a tagging run.
type Options struct {
	// Now overrides the timestamp stamped on tags and on the lead.
	// Zero means time.Now.
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// AutoTag runs the full stage sequence on a copy of the lead and returns the
// copy. The input lead is never mutated.
//
// Stage order: basic (geo + business) → platform → audience → posting →
// ICP → priority. The tag-weight base score is computed after the audience
// stages so the ICP deltas stack on top of it.
func AutoTag(lead *model.Lead, opts Options) *model.Lead {
	out := lead.Clone()
	now := opts.now()

	ApplyBasicTags(out, now)
	ApplyPlatformTags(out, now)
	ApplyAudienceTags(out, now)
	ApplyPostingTags(out, now)

	out.Score = scorer.TagScore(out)

	ApplyICPTags(out, now)
	ApplyPriorityTag(out, now)

	return out
}

// Retag strips every auto-applied tag (ai and manual tags survive) and reruns
// the full stage sequence. This is the supported way to refresh stale
// automatic classifications without losing curated tags.
func Retag(lead *model.Lead, opts Options) *model.Lead {
	out := lead.Clone()
	removed := tags.RemoveByAppliedBy(out, model.AppliedByAuto)
	zap.L().Debug("autotag: stripped auto tags before retag",
		zap.String("lead_id", out.ID),
		zap.Int("removed", removed),
	)
	return AutoTag(out, opts)
}

// BatchAutoTag tags each lead independently, catching per-item problems.
// Always returns one output per input; a lead that cannot be tagged passes
// through unmodified.
func BatchAutoTag(leads []*model.Lead, opts Options) []*model.Lead {
	out := make([]*model.Lead, len(leads))
	for i, l := range leads {
		if l == nil {
			out[i] = nil
			continue
		}
		tagged, err := safeAutoTag(l, opts)
		if err != nil {
			zap.L().Warn("autotag: lead failed, passing through untagged",
				zap.String("lead_id", l.ID),
				zap.Error(err),
			)
			out[i] = l
			continue
		}
		out[i] = tagged
	}
	return out
}

func safeAutoTag(lead *model.Lead, opts Options) (out *model.Lead, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("autotag: panic: %v", r)
		}
	}()
	return AutoTag(lead, opts), nil
}

// phonePrefixes maps E.164 prefixes to geo tag names, longest prefix first.
var phonePrefixes = []struct {
	prefix string
	geo    string
}{
	{"+886", "taiwan"},
	{"+84", "vietnam"},
	{"+65", "singapore"},
	{"+44", "uk"},
	{"+1", "us"},
}

// businessKeywords maps business categories to their match keywords, checked
// in fixed order with first match winning.
var businessKeywords = []struct {
	name     string
	keywords []string
}{
	{"fashion", []string{"fashion", "apparel", "clothing", "boutique", "dress", "outfit", "streetwear"}},
	{"accessories", []string{"accessor", "jewelry", "jewellery", "handbag", "bag", "watch", "sunglass"}},
	{"beauty", []string{"beauty", "cosmetic", "skincare", "makeup", "fragrance"}},
	{"shoes", []string{"shoe", "sneaker", "footwear", "boot", "sandal"}},
	{"home", []string{"home decor", "decor", "furniture", "homeware", "kitchen", "candle"}},
	{"electronics", []string{"electronic", "gadget", "charger", "earbud", "smart device"}},
}

// reviewerKeywords flag accounts that review tools rather than sell goods.
var reviewerKeywords = []string{
	"ai tool", "tech review", "app review", "software review",
	"saas", "gadget review", "unboxing", "productivity tool",
}

// ApplyBasicTags is stage 1: geography from the phone prefix and business
// type from keyword matching over the description. Business inference is
// skipped when an ai- or manual-applied business tag already exists.
func ApplyBasicTags(lead *model.Lead, now time.Time) {
	if geo := geoFromPhone(lead.Phone); geo != "" {
		meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}
		if _, err := tags.Add(lead, "geo:"+geo, meta); err != nil {
			zap.L().Warn("autotag: add geo tag", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	if cur := tags.FirstInCategory(lead, tags.CategoryBusiness); cur != nil && cur.AppliedBy != model.AppliedByAuto {
		return
	}
	if business := BusinessFromText(lead.BusinessDescription); business != "" {
		meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}
		if _, err := tags.Add(lead, "business:"+business, meta); err != nil {
			zap.L().Warn("autotag: add business tag", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
}

// geoFromPhone maps an E.164 phone number to a geo tag name. Unknown or
// unmatched prefixes map to "other"; an empty phone maps to nothing.
func geoFromPhone(phone string) string {
	normalized := normalizePhone(phone)
	if normalized == "" {
		return ""
	}
	for _, p := range phonePrefixes {
		if strings.HasPrefix(normalized, p.prefix) {
			return p.geo
		}
	}
	return "other"
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r == '+' || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BusinessFromText infers a business category from free text. Returns
// "other" for non-empty text with no keyword match, "" for empty text.
func BusinessFromText(text string) string {
	folded := foldText(text)
	if folded == "" {
		return ""
	}
	for _, bc := range businessKeywords {
		for _, kw := range bc.keywords {
			if strings.Contains(folded, kw) {
				return bc.name
			}
		}
	}
	return "other"
}

// platformChecks are independent boolean substring checks over the lead's
// handle, website, and store URL.
var platformChecks = []struct {
	tag     string
	needles []string
}{
	{"platform:tiktok_shop", []string{"tiktok"}},
	{"platform:instagram_shop", []string{"instagram.com/shop", "instagram shop"}},
	{"platform:shopify", []string{"shopify", "myshopify"}},
	{"platform:amazon", []string{"amazon."}},
	{"platform:etsy", []string{"etsy."}},
}

// ApplyPlatformTags is stage 2: purely additive platform detection, zero to
// many tags.
func ApplyPlatformTags(lead *model.Lead, now time.Time) {
	haystack := strings.ToLower(lead.InstagramHandle + " " + lead.Website + " " + lead.StoreURL + " " + lead.BusinessDescription)
	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}

	for _, pc := range platformChecks {
		for _, needle := range pc.needles {
			if strings.Contains(haystack, needle) {
				if _, err := tags.Add(lead, pc.tag, meta); err != nil {
					zap.L().Warn("autotag: add platform tag", zap.String("lead_id", lead.ID), zap.Error(err))
				}
				break
			}
		}
	}
}

// ApplyAudienceTags is stage 3: follower bucket and engagement band, each an
// exclusive replace when the underlying metric is known.
func ApplyAudienceTags(lead *model.Lead, now time.Time) {
	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}

	if lead.Followers > 0 {
		if bucket := tags.FollowerBucket(lead.Followers); bucket != nil {
			if err := tags.SetInCategory(lead, bucket.FullTag(), meta); err != nil {
				zap.L().Warn("autotag: set follower bucket", zap.String("lead_id", lead.ID), zap.Error(err))
			}
		}
	}

	if lead.EngagementRate > 0 {
		band := "medium"
		switch {
		case lead.EngagementRate < 1:
			band = "low"
		case lead.EngagementRate > 2:
			band = "high"
		}
		if err := tags.SetInCategory(lead, "engagement:"+band, meta); err != nil {
			zap.L().Warn("autotag: set engagement band", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
}

// ApplyPostingTags is stage 4: mirror the lead's posting-frequency label into
// the posting category. Skipped entirely when an ai-applied posting tag
// exists.
func ApplyPostingTags(lead *model.Lead, now time.Time) {
	if lead.PostingFreq == "" {
		return
	}
	for _, t := range tags.ByCategory(lead, tags.CategoryPosting) {
		if t.AppliedBy == model.AppliedByAI {
			return
		}
	}
	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}
	if err := tags.SetInCategory(lead, "posting:"+string(lead.PostingFreq), meta); err != nil {
		zap.L().Warn("autotag: set posting tag", zap.String("lead_id", lead.ID), zap.Error(err))
	}
}

// ApplyICPTags is stage 5: composite ICP classification. The icp category is
// always cleared first; the three profiles are evaluated in fixed priority
// order and only the first match applies, adjusting the score by the
// profile's registered delta. The power-user profile additionally forces the
// tier to RED, which stage 6 honors.
func ApplyICPTags(lead *model.Lead, now time.Time) {
	tags.RemoveByCategory(lead, tags.CategoryICP)
	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}

	profile := tags.ICPNeutral
	switch {
	case matchesIdealProfile(lead):
		profile = tags.ICPIdeal
	case matchesPowerUserProfile(lead):
		profile = tags.ICPAvoidPower
	case matchesToolReviewerProfile(lead):
		profile = tags.ICPAvoidReviews
	}

	if err := tags.SetInCategory(lead, profile, meta); err != nil {
		zap.L().Warn("autotag: set icp tag", zap.String("lead_id", lead.ID), zap.Error(err))
		return
	}

	if def := tags.Get(profile); def != nil && def.ScoreDelta != 0 {
		lead.Score = scorer.Clamp(lead.Score + def.ScoreDelta)
	}

	if profile != tags.ICPNeutral {
		zap.L().Debug("autotag: icp profile matched",
			zap.String("lead_id", lead.ID),
			zap.String("profile", profile),
			zap.Int("score", lead.Score),
		)
	}
}

func matchesIdealProfile(lead *model.Lead) bool {
	return tags.HasAnyOf(lead, "business:fashion", "business:accessories") &&
		tags.Has(lead, "followers:10k-100k") &&
		tags.HasAnyOf(lead, "geo:us", "geo:taiwan") &&
		tags.Has(lead, "posting:ideal") &&
		tags.HasAnyOf(lead, "pain:manual_video", "pain:low_diversity")
}

func matchesPowerUserProfile(lead *model.Lead) bool {
	return tags.Has(lead, "posting:power_user") &&
		tags.Has(lead, "content:professional")
}

func matchesToolReviewerProfile(lead *model.Lead) bool {
	if !tags.Has(lead, "business:other") {
		return false
	}
	folded := foldText(lead.BusinessDescription)
	for _, kw := range reviewerKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// ApplyPriorityTag is stage 6: replace the priority category with the tag
// matching the lead's current score and set the tier to match, except the
// power-user ICP keeps its forced RED tier. Stamps LastTaggedAt.
func ApplyPriorityTag(lead *model.Lead, now time.Time) {
	tier := scorer.TierForScore(lead.Score)
	if tags.Has(lead, tags.ICPAvoidPower) {
		tier = model.TierRed
	}

	meta := tags.Meta{AppliedBy: model.AppliedByAuto, AppliedAt: now}
	if err := tags.SetInCategory(lead, tags.PriorityTagForTier(tier), meta); err != nil {
		zap.L().Warn("autotag: set priority tag", zap.String("lead_id", lead.ID), zap.Error(err))
	}

	lead.Tier = tier
	stamped := now
	lead.LastTaggedAt = &stamped
}

// foldText lowercases and strips diacritics so keyword matching is
// accent-insensitive.
func foldText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
