package model

import (
	"strings"
	"time"
)

// Tier is the coarse outreach priority bucket derived from a lead's score.
type Tier string

const (
	TierGreen  Tier = "GREEN"
	TierYellow Tier = "YELLOW"
	TierRed    Tier = "RED"
	TierGray   Tier = "GRAY"
)

// PostingFrequency labels how often a lead publishes new posts.
type PostingFrequency string

const (
	PostingLow       PostingFrequency = "low"
	PostingIdeal     PostingFrequency = "ideal"
	PostingHigh      PostingFrequency = "high"
	PostingPowerUser PostingFrequency = "power_user"
)

// AllPostingFrequencies returns the valid posting frequency labels.
func AllPostingFrequencies() []PostingFrequency {
	return []PostingFrequency{PostingLow, PostingIdeal, PostingHigh, PostingPowerUser}
}

// EnrichmentRecord is one entry in a lead's enrichment history.
type EnrichmentRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Details   string    `json:"details,omitempty"`
}

// Lead represents a prospective business being qualified for outreach.
type Lead struct {
	ID                  string `json:"id"`
	Name                string `json:"name" validate:"required"`
	Email               string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               string `json:"phone,omitempty"`
	InstagramHandle     string `json:"instagram_handle,omitempty"`
	Website             string `json:"website,omitempty" validate:"omitempty,url"`
	StoreURL            string `json:"store_url,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`

	Followers      int              `json:"followers" validate:"gte=0"`
	EngagementRate float64          `json:"engagement_rate" validate:"gte=0"`
	PostingFreq    PostingFrequency `json:"posting_frequency,omitempty" validate:"omitempty,oneof=low ideal high power_user"`

	Score int   `json:"score" validate:"gte=0,lte=100"`
	Tier  Tier  `json:"tier,omitempty"`
	Tags  []Tag `json:"tags,omitempty"`

	Enriched           bool               `json:"enriched"`
	LastEnrichedAt     *time.Time         `json:"last_enriched_at,omitempty"`
	LastTaggedAt       *time.Time         `json:"last_tagged_at,omitempty"`
	EnrichmentHistory  []EnrichmentRecord `json:"enrichment_history,omitempty"`
	ResearchSummary    string             `json:"research_summary,omitempty"`
	ResearchConfidence int                `json:"research_confidence,omitempty"`
}

// Clone returns a deep copy of the lead. Pipeline runs operate on a copy so
// no partial mutation is ever visible to the caller's instance.
func (l *Lead) Clone() *Lead {
	out := *l

	if l.Tags != nil {
		out.Tags = make([]Tag, len(l.Tags))
		copy(out.Tags, l.Tags)
	}
	if l.EnrichmentHistory != nil {
		out.EnrichmentHistory = make([]EnrichmentRecord, len(l.EnrichmentHistory))
		copy(out.EnrichmentHistory, l.EnrichmentHistory)
	}
	if l.LastEnrichedAt != nil {
		t := *l.LastEnrichedAt
		out.LastEnrichedAt = &t
	}
	if l.LastTaggedAt != nil {
		t := *l.LastTaggedAt
		out.LastTaggedAt = &t
	}

	return &out
}

// BestURL returns the most authoritative URL known for the lead:
// website, then store URL, then a profile URL constructed from the handle.
func (l *Lead) BestURL() string {
	if l.Website != "" {
		return l.Website
	}
	if l.StoreURL != "" {
		return l.StoreURL
	}
	if l.InstagramHandle != "" {
		return "https://www.instagram.com/" + strings.TrimPrefix(l.InstagramHandle, "@")
	}
	return ""
}

// BatchResult summarizes a batch enrichment run. Leads holds exactly one
// output per input, in input order.
type BatchResult struct {
	Total    int     `json:"total"`
	Enriched int     `json:"enriched"`
	Skipped  int     `json:"skipped"`
	Failed   int     `json:"failed"`
	Leads    []*Lead `json:"leads"`
}
