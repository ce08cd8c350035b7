package model

import (
	"strings"
	"time"
)

// AppliedBy records the provenance of a tag.
type AppliedBy string

const (
	AppliedByAuto   AppliedBy = "auto"
	AppliedByAI     AppliedBy = "ai"
	AppliedByManual AppliedBy = "manual"
)

// Rank orders provenance for precedence checks: manual outranks ai outranks auto.
func (a AppliedBy) Rank() int {
	switch a {
	case AppliedByManual:
		return 2
	case AppliedByAI:
		return 1
	default:
		return 0
	}
}

// Tag is a classification label attached to a lead.
type Tag struct {
	Category   string    `json:"category"`
	Name       string    `json:"name"`
	FullTag    string    `json:"full_tag"`
	AppliedBy  AppliedBy `json:"applied_by"`
	AppliedAt  time.Time `json:"applied_at"`
	Confidence float64   `json:"confidence,omitempty"`
	Evidence   string    `json:"evidence,omitempty"`
}

// SplitTag splits a "category:name" identifier. The name may itself contain
// colons; only the first one separates the category.
func SplitTag(fullTag string) (category, name string, ok bool) {
	idx := strings.Index(fullTag, ":")
	if idx <= 0 || idx == len(fullTag)-1 {
		return "", "", false
	}
	return fullTag[:idx], fullTag[idx+1:], true
}
