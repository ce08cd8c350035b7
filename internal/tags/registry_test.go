package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("business:fashion"))
	assert.True(t, IsValid("followers:10k-100k"))
	assert.True(t, IsValid("pain:manual_video"))
	assert.False(t, IsValid("business:spaceships"))
	assert.False(t, IsValid("nonsense"))
	assert.False(t, IsValid(""))
}

func TestGet(t *testing.T) {
	d := Get("icp:user2_profile")
	require.NotNil(t, d)
	assert.Equal(t, 30, d.ScoreDelta)
	assert.Equal(t, "icp:user2_profile", d.FullTag())

	assert.Nil(t, Get("icp:unknown"))
}

func TestInCategory(t *testing.T) {
	buckets := InCategory(CategoryFollowers)
	assert.Len(t, buckets, 6)

	assert.Empty(t, InCategory("bogus"))
}

func TestIsExclusive(t *testing.T) {
	for _, cat := range []string{CategoryFollowers, CategoryEngagement, CategoryPosting, CategoryBusiness, CategoryICP, CategoryPriority, CategoryGeo} {
		assert.True(t, IsExclusive(cat), cat)
	}
	for _, cat := range []string{CategoryPain, CategoryContent, CategoryPlatform, CategorySpecial, CategoryOutreach, CategoryStatus, "bogus"} {
		assert.False(t, IsExclusive(cat), cat)
	}
}

func TestFollowerBucket(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "followers:<1k"},
		{999, "followers:<1k"},
		{1000, "followers:1k-5k"},
		{4999, "followers:1k-5k"},
		{5000, "followers:5k-10k"},
		{10000, "followers:10k-100k"},
		{99999, "followers:10k-100k"},
		{100000, "followers:100k-500k"},
		{500000, "followers:500k+"},
		{12_000_000, "followers:500k+"},
	}
	for _, tt := range tests {
		d := FollowerBucket(tt.count)
		require.NotNil(t, d, "count %d", tt.count)
		assert.Equal(t, tt.want, d.FullTag(), "count %d", tt.count)
	}

	assert.Nil(t, FollowerBucket(-1))
}

func TestPriorityTagForTier(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityTagForTier(model.TierGreen))
	assert.Equal(t, PriorityMedium, PriorityTagForTier(model.TierYellow))
	assert.Equal(t, PriorityLow, PriorityTagForTier(model.TierRed))
	assert.Equal(t, PriorityLow, PriorityTagForTier(model.TierGray))
}
