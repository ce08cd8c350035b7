// Package tags holds the static tag catalog and the operations on a lead's
// tag collection.
package tags

import "github.com/sells-group/leadscout/internal/model"

// Tag categories. Exclusive categories hold at most one tag per lead at any
// time; multi categories may accumulate.
const (
	CategoryFollowers  = "followers"
	CategoryEngagement = "engagement"
	CategoryPosting    = "posting"
	CategoryBusiness   = "business"
	CategoryICP        = "icp"
	CategoryPriority   = "priority"
	CategoryGeo        = "geo"
	CategoryPain       = "pain"
	CategoryContent    = "content"
	CategoryPlatform   = "platform"
	CategorySpecial    = "special"
	CategoryOutreach   = "outreach"
	CategoryStatus     = "status"
)

// categoryExclusive declares replace-vs-append semantics per category.
// Exclusivity is a property of the category itself, enforced uniformly by
// Add, never left to caller convention.
var categoryExclusive = map[string]bool{
	CategoryFollowers:  true,
	CategoryEngagement: true,
	CategoryPosting:    true,
	CategoryBusiness:   true,
	CategoryICP:        true,
	CategoryPriority:   true,
	CategoryGeo:        true,
	CategoryPain:       false,
	CategoryContent:    false,
	CategoryPlatform:   false,
	CategorySpecial:    false,
	CategoryOutreach:   false,
	CategoryStatus:     false,
}

// Definition is a static registry entry for one valid tag.
type Definition struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`

	// Follower-range bounds, only meaningful for the followers category.
	// MaxFollowers of 0 means unbounded.
	MinFollowers int `json:"min_followers,omitempty"`
	MaxFollowers int `json:"max_followers,omitempty"`

	// ScoreDelta is the score adjustment applied when an ICP tag is assigned.
	ScoreDelta int `json:"score_delta,omitempty"`
}

// FullTag returns the "category:name" identifier for the definition.
func (d Definition) FullTag() string {
	return d.Category + ":" + d.Name
}

// ICP tag names referenced by the auto-tagger and the tests.
const (
	ICPIdeal        = "icp:user2_profile"
	ICPAvoidPower   = "icp:user3_profile"
	ICPAvoidReviews = "icp:user1_profile"
	ICPNeutral      = "icp:neutral"
)

// Priority tag names, one per tier.
const (
	PriorityHigh   = "priority:🟢_high"
	PriorityMedium = "priority:🟡_medium"
	PriorityLow    = "priority:🔴_low"
)

var definitions = []Definition{
	// geo
	{Category: CategoryGeo, Name: "us", Label: "United States", Color: "#3b82f6"},
	{Category: CategoryGeo, Name: "taiwan", Label: "Taiwan", Color: "#3b82f6"},
	{Category: CategoryGeo, Name: "vietnam", Label: "Vietnam", Color: "#3b82f6"},
	{Category: CategoryGeo, Name: "uk", Label: "United Kingdom", Color: "#3b82f6"},
	{Category: CategoryGeo, Name: "singapore", Label: "Singapore", Color: "#3b82f6"},
	{Category: CategoryGeo, Name: "other", Label: "Other region", Color: "#93c5fd"},

	// business
	{Category: CategoryBusiness, Name: "fashion", Label: "Fashion", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "accessories", Label: "Accessories", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "beauty", Label: "Beauty", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "shoes", Label: "Shoes", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "home", Label: "Home & Living", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "electronics", Label: "Electronics", Color: "#ec4899"},
	{Category: CategoryBusiness, Name: "other", Label: "Other business", Color: "#f9a8d4"},

	// followers buckets
	{Category: CategoryFollowers, Name: "<1k", Label: "Under 1K", Color: "#a855f7", MinFollowers: 0, MaxFollowers: 999},
	{Category: CategoryFollowers, Name: "1k-5k", Label: "1K–5K", Color: "#a855f7", MinFollowers: 1000, MaxFollowers: 4999},
	{Category: CategoryFollowers, Name: "5k-10k", Label: "5K–10K", Color: "#a855f7", MinFollowers: 5000, MaxFollowers: 9999},
	{Category: CategoryFollowers, Name: "10k-100k", Label: "10K–100K", Color: "#a855f7", MinFollowers: 10000, MaxFollowers: 99999},
	{Category: CategoryFollowers, Name: "100k-500k", Label: "100K–500K", Color: "#a855f7", MinFollowers: 100000, MaxFollowers: 499999},
	{Category: CategoryFollowers, Name: "500k+", Label: "500K+", Color: "#a855f7", MinFollowers: 500000},

	// engagement
	{Category: CategoryEngagement, Name: "low", Label: "Low engagement (<1%)", Color: "#f97316"},
	{Category: CategoryEngagement, Name: "medium", Label: "Medium engagement (1–2%)", Color: "#f97316"},
	{Category: CategoryEngagement, Name: "high", Label: "High engagement (>2%)", Color: "#f97316"},

	// posting
	{Category: CategoryPosting, Name: "low", Label: "Posts rarely", Color: "#14b8a6"},
	{Category: CategoryPosting, Name: "ideal", Label: "Posts 1–3×/week", Color: "#14b8a6"},
	{Category: CategoryPosting, Name: "high", Label: "Posts 3–7×/week", Color: "#14b8a6"},
	{Category: CategoryPosting, Name: "power_user", Label: "Posts daily+", Color: "#14b8a6"},

	// platform
	{Category: CategoryPlatform, Name: "tiktok_shop", Label: "TikTok Shop", Color: "#64748b"},
	{Category: CategoryPlatform, Name: "instagram_shop", Label: "Instagram Shop", Color: "#64748b"},
	{Category: CategoryPlatform, Name: "shopify", Label: "Shopify", Color: "#64748b"},
	{Category: CategoryPlatform, Name: "amazon", Label: "Amazon", Color: "#64748b"},
	{Category: CategoryPlatform, Name: "etsy", Label: "Etsy", Color: "#64748b"},

	// pain points (the caption analyzer's fixed vocabulary)
	{Category: CategoryPain, Name: "manual_video", Label: "Shoots video manually", Color: "#ef4444"},
	{Category: CategoryPain, Name: "slow_editing", Label: "Editing is a bottleneck", Color: "#ef4444"},
	{Category: CategoryPain, Name: "low_diversity", Label: "Low content diversity", Color: "#ef4444"},
	{Category: CategoryPain, Name: "uses_freelancers", Label: "Outsources to freelancers", Color: "#ef4444"},
	{Category: CategoryPain, Name: "no_models", Label: "No access to models", Color: "#ef4444"},

	// content style
	{Category: CategoryContent, Name: "professional", Label: "Professional production", Color: "#eab308"},
	{Category: CategoryContent, Name: "casual", Label: "Casual / UGC", Color: "#eab308"},
	{Category: CategoryContent, Name: "mixed", Label: "Mixed styles", Color: "#eab308"},

	// ICP composite profiles
	{Category: CategoryICP, Name: "user2_profile", Label: "Ideal customer", Description: "Fashion/accessories, 10k–100k followers, US/TW, ideal cadence, video pain", Color: "#22c55e", ScoreDelta: 30},
	{Category: CategoryICP, Name: "user3_profile", Label: "Avoid: power user", Description: "Daily professional content, no product need", Color: "#ef4444", ScoreDelta: -50},
	{Category: CategoryICP, Name: "user1_profile", Label: "Avoid: tool reviewer", Description: "Reviews AI/tech tools rather than selling goods", Color: "#ef4444", ScoreDelta: -40},
	{Category: CategoryICP, Name: "neutral", Label: "No profile match", Color: "#9ca3af"},

	// priority
	{Category: CategoryPriority, Name: "🟢_high", Label: "High priority", Color: "#22c55e"},
	{Category: CategoryPriority, Name: "🟡_medium", Label: "Medium priority", Color: "#eab308"},
	{Category: CategoryPriority, Name: "🔴_low", Label: "Low priority", Color: "#ef4444"},

	// special
	{Category: CategorySpecial, Name: "vip", Label: "VIP", Color: "#f59e0b"},
	{Category: CategorySpecial, Name: "referral", Label: "Referral", Color: "#f59e0b"},

	// outreach
	{Category: CategoryOutreach, Name: "contacted", Label: "Contacted", Color: "#6366f1"},
	{Category: CategoryOutreach, Name: "replied", Label: "Replied", Color: "#6366f1"},
	{Category: CategoryOutreach, Name: "bounced", Label: "Bounced", Color: "#6366f1"},

	// status
	{Category: CategoryStatus, Name: "new", Label: "New", Color: "#0ea5e9"},
	{Category: CategoryStatus, Name: "qualified", Label: "Qualified", Color: "#0ea5e9"},
	{Category: CategoryStatus, Name: "disqualified", Label: "Disqualified", Color: "#0ea5e9"},
}

var (
	byFullTag  map[string]*Definition
	byCategory map[string][]*Definition
)

func init() {
	byFullTag = make(map[string]*Definition, len(definitions))
	byCategory = make(map[string][]*Definition)
	for i := range definitions {
		d := &definitions[i]
		byFullTag[d.FullTag()] = d
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}
}

// IsValid reports whether fullTag exists in the registry.
func IsValid(fullTag string) bool {
	_, ok := byFullTag[fullTag]
	return ok
}

// Get returns the definition for fullTag, or nil for unknown tags.
// Unknown is not an error.
func Get(fullTag string) *Definition {
	return byFullTag[fullTag]
}

// InCategory returns all definitions registered under a category.
func InCategory(category string) []*Definition {
	return byCategory[category]
}

// IsExclusive reports whether a category holds at most one tag per lead.
// Unknown categories are treated as multi.
func IsExclusive(category string) bool {
	return categoryExclusive[category]
}

// FollowerBucket returns the followers definition whose range contains count,
// or nil for negative counts.
func FollowerBucket(count int) *Definition {
	if count < 0 {
		return nil
	}
	for _, d := range byCategory[CategoryFollowers] {
		if count < d.MinFollowers {
			continue
		}
		if d.MaxFollowers > 0 && count > d.MaxFollowers {
			continue
		}
		return d
	}
	return nil
}

// PriorityTagForTier maps a tier to its priority tag.
func PriorityTagForTier(tier model.Tier) string {
	switch tier {
	case model.TierGreen:
		return PriorityHigh
	case model.TierYellow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
