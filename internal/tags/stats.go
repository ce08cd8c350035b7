package tags

import (
	"fmt"
	"sort"

	"github.com/sells-group/leadscout/internal/model"
)

// Stat is the usage count for one tag across a lead collection, broken down
// by provenance.
type Stat struct {
	FullTag   string                  `json:"full_tag"`
	Total     int                     `json:"total"`
	ByApplied map[model.AppliedBy]int `json:"by_applied_by"`
}

// Statistics counts tag usage across a lead collection. The result is sorted
// by descending total, then by tag for stable output.
func Statistics(leads []*model.Lead) []Stat {
	byTag := make(map[string]*Stat)
	for _, l := range leads {
		for _, t := range l.Tags {
			s, ok := byTag[t.FullTag]
			if !ok {
				s = &Stat{FullTag: t.FullTag, ByApplied: make(map[model.AppliedBy]int)}
				byTag[t.FullTag] = s
			}
			s.Total++
			s.ByApplied[t.AppliedBy]++
		}
	}

	out := make([]Stat, 0, len(byTag))
	for _, s := range byTag {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].FullTag < out[j].FullTag
	})
	return out
}

// Validate reports warnings for a lead's tag collection: unknown non-manual
// tags, AI tags without confidence, and duplicate full tags. Warnings never
// block execution.
func Validate(lead *model.Lead) []string {
	var warnings []string
	seen := make(map[string]bool)

	for _, t := range lead.Tags {
		if seen[t.FullTag] {
			warnings = append(warnings, fmt.Sprintf("duplicate tag %q", t.FullTag))
		}
		seen[t.FullTag] = true

		if t.AppliedBy != model.AppliedByManual && !IsValid(t.FullTag) {
			warnings = append(warnings, fmt.Sprintf("unknown tag %q applied by %s", t.FullTag, t.AppliedBy))
		}
		if t.AppliedBy == model.AppliedByAI && t.Confidence == 0 {
			warnings = append(warnings, fmt.Sprintf("ai tag %q has no confidence", t.FullTag))
		}
	}

	return warnings
}

// Clean drops duplicate full tags and invalid non-manual tags, preserving
// first-occurrence order. Returns the number of tags dropped.
func Clean(lead *model.Lead) int {
	seen := make(map[string]bool)
	kept := lead.Tags[:0]
	dropped := 0

	for _, t := range lead.Tags {
		if seen[t.FullTag] {
			dropped++
			continue
		}
		if t.AppliedBy != model.AppliedByManual && !IsValid(t.FullTag) {
			dropped++
			continue
		}
		seen[t.FullTag] = true
		kept = append(kept, t)
	}

	lead.Tags = kept
	return dropped
}
