package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func autoMeta() Meta {
	return Meta{AppliedBy: model.AppliedByAuto}
}

func TestAdd_Basic(t *testing.T) {
	lead := &model.Lead{}

	added, err := Add(lead, "pain:manual_video", Meta{AppliedBy: model.AppliedByAI, Confidence: 0.9, Evidence: "films everything herself"})
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, lead.Tags, 1)
	assert.Equal(t, "pain", lead.Tags[0].Category)
	assert.Equal(t, "manual_video", lead.Tags[0].Name)
	assert.Equal(t, "films everything herself", lead.Tags[0].Evidence)
	assert.False(t, lead.Tags[0].AppliedAt.IsZero())
}

func TestAdd_DuplicateIsNoOp(t *testing.T) {
	lead := &model.Lead{}

	added, err := Add(lead, "platform:shopify", autoMeta())
	require.NoError(t, err)
	assert.True(t, added)

	added, err = Add(lead, "platform:shopify", autoMeta())
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, lead.Tags, 1)
}

func TestAdd_UnknownTagRejectedUnlessManual(t *testing.T) {
	lead := &model.Lead{}

	_, err := Add(lead, "business:spaceships", autoMeta())
	assert.Error(t, err)
	assert.Empty(t, lead.Tags)

	added, err := Add(lead, "business:spaceships", Meta{AppliedBy: model.AppliedByManual})
	require.NoError(t, err)
	assert.True(t, added)
}

func TestAdd_MalformedTag(t *testing.T) {
	lead := &model.Lead{}

	for _, bad := range []string{"", "noseparator", ":leading", "trailing:"} {
		_, err := Add(lead, bad, autoMeta())
		assert.Error(t, err, bad)
	}
}

func TestAdd_ExclusiveCategoryReplaces(t *testing.T) {
	lead := &model.Lead{}

	_, err := Add(lead, "followers:1k-5k", autoMeta())
	require.NoError(t, err)
	_, err = Add(lead, "followers:10k-100k", autoMeta())
	require.NoError(t, err)

	got := ByCategory(lead, CategoryFollowers)
	require.Len(t, got, 1)
	assert.Equal(t, "followers:10k-100k", got[0].FullTag)
}

func TestAdd_PrecedenceProtectsHigherRank(t *testing.T) {
	lead := &model.Lead{}

	_, err := Add(lead, "business:fashion", Meta{AppliedBy: model.AppliedByManual})
	require.NoError(t, err)

	// Auto may not displace manual.
	added, err := Add(lead, "business:electronics", autoMeta())
	require.NoError(t, err)
	assert.False(t, added)

	got := ByCategory(lead, CategoryBusiness)
	require.Len(t, got, 1)
	assert.Equal(t, "business:fashion", got[0].FullTag)

	// Force bypasses the check.
	added, err = Add(lead, "business:electronics", Meta{AppliedBy: model.AppliedByAuto, Force: true})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "business:electronics", FirstInCategory(lead, CategoryBusiness).FullTag)
}

func TestSetInCategory(t *testing.T) {
	lead := &model.Lead{}

	_, err := Add(lead, "icp:neutral", autoMeta())
	require.NoError(t, err)

	err = SetInCategory(lead, "icp:user2_profile", autoMeta())
	require.NoError(t, err)

	got := ByCategory(lead, CategoryICP)
	require.Len(t, got, 1)
	assert.Equal(t, "icp:user2_profile", got[0].FullTag)
}

func TestRemove(t *testing.T) {
	lead := &model.Lead{}
	_, _ = Add(lead, "platform:shopify", autoMeta())
	_, _ = Add(lead, "platform:etsy", autoMeta())

	assert.True(t, Remove(lead, "platform:shopify"))
	assert.False(t, Remove(lead, "platform:shopify"))
	assert.Len(t, lead.Tags, 1)
}

func TestRemoveByCategory(t *testing.T) {
	lead := &model.Lead{}
	_, _ = Add(lead, "platform:shopify", autoMeta())
	_, _ = Add(lead, "platform:etsy", autoMeta())
	_, _ = Add(lead, "geo:us", autoMeta())

	assert.Equal(t, 2, RemoveByCategory(lead, CategoryPlatform))
	assert.Equal(t, 0, RemoveByCategory(lead, CategoryPlatform))
	require.Len(t, lead.Tags, 1)
	assert.Equal(t, "geo:us", lead.Tags[0].FullTag)
}

func TestRemoveByAppliedBy(t *testing.T) {
	lead := &model.Lead{}
	_, _ = Add(lead, "geo:us", autoMeta())
	_, _ = Add(lead, "pain:no_models", Meta{AppliedBy: model.AppliedByAI, Confidence: 0.8})
	_, _ = Add(lead, "special:vip", Meta{AppliedBy: model.AppliedByManual})

	assert.Equal(t, 1, RemoveByAppliedBy(lead, model.AppliedByAuto))
	assert.Len(t, lead.Tags, 2)
	assert.True(t, Has(lead, "pain:no_models"))
	assert.True(t, Has(lead, "special:vip"))
}

func TestQueries(t *testing.T) {
	lead := &model.Lead{}
	_, _ = Add(lead, "platform:shopify", autoMeta())
	_, _ = Add(lead, "platform:etsy", autoMeta())

	assert.True(t, Has(lead, "platform:etsy"))
	assert.False(t, Has(lead, "platform:amazon"))
	assert.True(t, HasAnyOf(lead, "platform:amazon", "platform:etsy"))
	assert.False(t, HasAnyOf(lead, "platform:amazon", "geo:us"))

	first := FirstInCategory(lead, CategoryPlatform)
	require.NotNil(t, first)
	assert.Equal(t, "platform:shopify", first.FullTag)
	assert.Nil(t, FirstInCategory(lead, CategoryGeo))
}

func TestFilterByTags(t *testing.T) {
	a := &model.Lead{Name: "a"}
	_, _ = Add(a, "geo:us", autoMeta())
	_, _ = Add(a, "platform:shopify", autoMeta())

	b := &model.Lead{Name: "b"}
	_, _ = Add(b, "geo:us", autoMeta())

	leads := []*model.Lead{a, b}

	both := FilterByTags(leads, []string{"geo:us", "platform:shopify"})
	require.Len(t, both, 1)
	assert.Equal(t, "a", both[0].Name)

	either := FilterByTagsAny(leads, []string{"platform:shopify", "geo:us"})
	assert.Len(t, either, 2)

	assert.Empty(t, FilterByTags(leads, []string{"geo:taiwan"}))
}
