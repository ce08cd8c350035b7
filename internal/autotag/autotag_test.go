package autotag

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/tags"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testOpts() Options {
	return Options{Now: testNow}
}

func addTag(t *testing.T, lead *model.Lead, fullTag string, by model.AppliedBy) {
	t.Helper()
	_, err := tags.Add(lead, fullTag, tags.Meta{AppliedBy: by, AppliedAt: testNow, Confidence: 0.9})
	require.NoError(t, err)
}

func fullTags(lead *model.Lead) []string {
	out := make([]string, 0, len(lead.Tags))
	for _, tg := range lead.Tags {
		out = append(out, tg.FullTag)
	}
	sort.Strings(out)
	return out
}

func TestGeoFromPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+1 555 123 4567", "us"},
		{"+886-2-1234-5678", "taiwan"},
		{"+84 90 123 4567", "vietnam"},
		{"+44 20 7946 0000", "uk"},
		{"+65 1234 5678", "singapore"},
		{"+49 30 1234567", "other"},
		{"(02) 1234-5678", "other"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, geoFromPhone(tt.phone), tt.phone)
	}
}

func TestBusinessFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Boutique fashion for the modern woman", "fashion"},
		{"Handmade jewelry and watches", "accessories"},
		{"Clean skincare brand", "beauty"},
		{"Custom sneakers", "shoes"},
		{"Scandinavian furniture and candles", "home"},
		{"Phone chargers and earbuds", "electronics"},
		{"We sell premium dog food", "other"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BusinessFromText(tt.text), tt.text)
	}
}

func TestBusinessFromText_FoldsDiacritics(t *testing.T) {
	assert.Equal(t, "fashion", BusinessFromText("BOUTIQUE Mode & Apparél"))
}

func TestApplyBasicTags_SkipsBusinessWhenAIOrManualPresent(t *testing.T) {
	lead := &model.Lead{BusinessDescription: "gadget chargers and earbuds"}
	addTag(t, lead, "business:fashion", model.AppliedByManual)

	ApplyBasicTags(lead, testNow)

	got := tags.ByCategory(lead, tags.CategoryBusiness)
	require.Len(t, got, 1)
	assert.Equal(t, "business:fashion", got[0].FullTag)
	assert.Equal(t, model.AppliedByManual, got[0].AppliedBy)
}

func TestApplyBasicTags_GeoReplacedNotAccumulated(t *testing.T) {
	lead := &model.Lead{Phone: "+1 555 000 1111"}
	ApplyBasicTags(lead, testNow)

	lead.Phone = "+44 20 7946 0000"
	ApplyBasicTags(lead, testNow)

	got := tags.ByCategory(lead, tags.CategoryGeo)
	require.Len(t, got, 1)
	assert.Equal(t, "geo:uk", got[0].FullTag)
}

func TestApplyPlatformTags(t *testing.T) {
	lead := &model.Lead{
		Website:  "https://acme.myshopify.com",
		StoreURL: "https://www.etsy.com/shop/acme",
	}
	ApplyPlatformTags(lead, testNow)

	assert.True(t, tags.Has(lead, "platform:shopify"))
	assert.True(t, tags.Has(lead, "platform:etsy"))
	assert.False(t, tags.Has(lead, "platform:amazon"))

	// Additive and idempotent.
	ApplyPlatformTags(lead, testNow)
	assert.Len(t, tags.ByCategory(lead, tags.CategoryPlatform), 2)
}

func TestApplyAudienceTags(t *testing.T) {
	lead := &model.Lead{Followers: 15000, EngagementRate: 2.5}
	ApplyAudienceTags(lead, testNow)

	assert.True(t, tags.Has(lead, "followers:10k-100k"))
	assert.True(t, tags.Has(lead, "engagement:high"))
}

func TestApplyAudienceTags_EngagementBands(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0.5, "engagement:low"},
		{1.0, "engagement:medium"},
		{2.0, "engagement:medium"},
		{2.01, "engagement:high"},
	}
	for _, tt := range tests {
		lead := &model.Lead{EngagementRate: tt.rate}
		ApplyAudienceTags(lead, testNow)
		assert.True(t, tags.Has(lead, tt.want), "rate %v", tt.rate)
	}
}

func TestApplyAudienceTags_UnknownMetricsAddNothing(t *testing.T) {
	lead := &model.Lead{}
	ApplyAudienceTags(lead, testNow)
	assert.Empty(t, lead.Tags)
}

func TestApplyPostingTags_SkipsWhenAITagExists(t *testing.T) {
	lead := &model.Lead{PostingFreq: model.PostingLow}
	addTag(t, lead, "posting:ideal", model.AppliedByAI)

	ApplyPostingTags(lead, testNow)

	got := tags.ByCategory(lead, tags.CategoryPosting)
	require.Len(t, got, 1)
	assert.Equal(t, "posting:ideal", got[0].FullTag)
}

func TestApplyICPTags_IdealProfile(t *testing.T) {
	lead := &model.Lead{Score: 70}
	for _, ft := range []string{"business:fashion", "followers:10k-100k", "geo:us", "posting:ideal"} {
		addTag(t, lead, ft, model.AppliedByAuto)
	}
	addTag(t, lead, "pain:manual_video", model.AppliedByAI)

	ApplyICPTags(lead, testNow)

	assert.True(t, tags.Has(lead, tags.ICPIdeal))
	assert.Equal(t, 100, lead.Score)
}

func TestApplyICPTags_FirstMatchWins(t *testing.T) {
	// Satisfies both the power-user and the tool-reviewer profiles; only the
	// higher-priority power-user profile may apply.
	lead := &model.Lead{
		Score:               80,
		BusinessDescription: "ai tool unboxing and tech review videos",
	}
	for _, ft := range []string{"posting:power_user", "business:other"} {
		addTag(t, lead, ft, model.AppliedByAuto)
	}
	addTag(t, lead, "content:professional", model.AppliedByManual)

	ApplyICPTags(lead, testNow)

	assert.True(t, tags.Has(lead, tags.ICPAvoidPower))
	assert.False(t, tags.Has(lead, tags.ICPAvoidReviews))
	// Only the -50 applies, never the additional -40.
	assert.Equal(t, 30, lead.Score)
}

func TestApplyICPTags_ToolReviewer(t *testing.T) {
	lead := &model.Lead{Score: 50, BusinessDescription: "honest saas and app review channel"}
	addTag(t, lead, "business:other", model.AppliedByAuto)

	ApplyICPTags(lead, testNow)

	assert.True(t, tags.Has(lead, tags.ICPAvoidReviews))
	assert.Equal(t, 10, lead.Score)
}

func TestApplyICPTags_Neutral(t *testing.T) {
	lead := &model.Lead{Score: 50}
	ApplyICPTags(lead, testNow)

	assert.True(t, tags.Has(lead, tags.ICPNeutral))
	assert.Equal(t, 50, lead.Score)
}

func TestApplyPriorityTag_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		wantTier model.Tier
		wantTag  string
	}{
		{70, model.TierGreen, tags.PriorityHigh},
		{69, model.TierYellow, tags.PriorityMedium},
		{40, model.TierYellow, tags.PriorityMedium},
		{39, model.TierRed, tags.PriorityLow},
	}
	for _, tt := range tests {
		lead := &model.Lead{Score: tt.score}
		ApplyPriorityTag(lead, testNow)
		assert.Equal(t, tt.wantTier, lead.Tier, "score %d", tt.score)
		assert.True(t, tags.Has(lead, tt.wantTag), "score %d", tt.score)
		require.NotNil(t, lead.LastTaggedAt)
		assert.Equal(t, testNow, *lead.LastTaggedAt)
	}
}

func TestApplyPriorityTag_PowerUserForcesRed(t *testing.T) {
	lead := &model.Lead{Score: 85}
	addTag(t, lead, tags.ICPAvoidPower, model.AppliedByAuto)

	ApplyPriorityTag(lead, testNow)

	assert.Equal(t, model.TierRed, lead.Tier)
	assert.True(t, tags.Has(lead, tags.PriorityLow))
}

func TestAutoTag_EndToEnd(t *testing.T) {
	lead := &model.Lead{
		ID:                  "lead-1",
		Name:                "Maison Vert",
		Phone:               "+65 1234 5678",
		Followers:           15000,
		EngagementRate:      2.5,
		PostingFreq:         model.PostingIdeal,
		BusinessDescription: "boutique fashion",
	}

	out := AutoTag(lead, testOpts())

	// Input untouched.
	assert.Empty(t, lead.Tags)
	assert.Equal(t, 0, lead.Score)

	assert.True(t, tags.Has(out, "geo:singapore"))
	assert.True(t, tags.Has(out, "business:fashion"))
	assert.True(t, tags.Has(out, "followers:10k-100k"))
	assert.True(t, tags.Has(out, "engagement:high"))
	assert.True(t, tags.Has(out, "posting:ideal"))
	assert.True(t, tags.Has(out, tags.ICPNeutral))

	// base 50 + followers 15 + singapore 5 = 70 → GREEN.
	assert.Equal(t, 70, out.Score)
	assert.Equal(t, model.TierGreen, out.Tier)
	assert.True(t, tags.Has(out, tags.PriorityHigh))
}

func TestAutoTag_Idempotent(t *testing.T) {
	lead := &model.Lead{
		Phone:               "+1 555 123 4567",
		Followers:           50000,
		EngagementRate:      1.5,
		PostingFreq:         model.PostingIdeal,
		BusinessDescription: "streetwear apparel",
	}

	once := AutoTag(lead, testOpts())
	twice := AutoTag(once, testOpts())

	assert.Equal(t, fullTags(once), fullTags(twice))
	assert.Equal(t, once.Score, twice.Score)
	assert.Equal(t, once.Tier, twice.Tier)
}

func TestAutoTag_ManualBusinessSurvives(t *testing.T) {
	lead := &model.Lead{BusinessDescription: "gadget chargers and smart devices"}
	addTag(t, lead, "business:fashion", model.AppliedByManual)

	out := AutoTag(lead, testOpts())

	got := tags.ByCategory(out, tags.CategoryBusiness)
	require.Len(t, got, 1)
	assert.Equal(t, "business:fashion", got[0].FullTag)
	assert.Equal(t, model.AppliedByManual, got[0].AppliedBy)
}

func TestAutoTag_ScoreAlwaysClamped(t *testing.T) {
	lead := &model.Lead{
		Phone:               "+84 90 123 4567",
		Followers:           500,
		BusinessDescription: "tech review and ai tool unboxing",
	}
	out := AutoTag(lead, testOpts())
	assert.GreaterOrEqual(t, out.Score, 0)
	assert.LessOrEqual(t, out.Score, 100)
}

func TestRetag_PreservesCuratedTags(t *testing.T) {
	lead := &model.Lead{
		Phone:          "+1 555 123 4567",
		Followers:      2000,
		EngagementRate: 0.5,
	}
	tagged := AutoTag(lead, testOpts())
	addTag(t, tagged, "pain:slow_editing", model.AppliedByAI)
	addTag(t, tagged, "special:vip", model.AppliedByManual)

	// Simulate stale data.
	tagged.Followers = 20000

	retagged := Retag(tagged, testOpts())

	assert.True(t, tags.Has(retagged, "followers:10k-100k"))
	assert.False(t, tags.Has(retagged, "followers:1k-5k"))
	assert.True(t, tags.Has(retagged, "pain:slow_editing"))
	assert.True(t, tags.Has(retagged, "special:vip"))
}

func TestBatchAutoTag(t *testing.T) {
	leads := []*model.Lead{
		{Name: "a", Phone: "+1 555 000 1111", Followers: 15000},
		nil,
		{Name: "c"},
	}

	out := BatchAutoTag(leads, testOpts())

	require.Len(t, out, 3)
	assert.True(t, tags.Has(out[0], "geo:us"))
	assert.Nil(t, out[1])
	require.NotNil(t, out[2])
	assert.True(t, tags.Has(out[2], tags.ICPNeutral))
}
