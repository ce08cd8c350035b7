package tags

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// Meta carries the provenance and evidence for a tag being added.
type Meta struct {
	AppliedBy  model.AppliedBy
	Confidence float64
	Evidence   string
	AppliedAt  time.Time

	// Force bypasses the provenance precedence check, allowing a lower-rank
	// source to displace a higher-rank tag in an exclusive category.
	Force bool
}

func (m Meta) appliedAt() time.Time {
	if m.AppliedAt.IsZero() {
		return time.Now().UTC()
	}
	return m.AppliedAt
}

// Add attaches fullTag to the lead. It is a no-op if the identical full tag
// is already present. Non-manual tags must exist in the registry; manual tags
// are accepted as-is. For exclusive categories Add replaces the current tag
// of that category, unless the current tag outranks the new one (manual > ai
// > auto) and Force is unset, in which case the existing tag wins and Add
// reports false.
func Add(lead *model.Lead, fullTag string, meta Meta) (bool, error) {
	category, name, ok := model.SplitTag(fullTag)
	if !ok {
		return false, eris.Errorf("tags: malformed tag %q", fullTag)
	}

	if meta.AppliedBy != model.AppliedByManual && !IsValid(fullTag) {
		return false, eris.Errorf("tags: unknown tag %q", fullTag)
	}

	if Has(lead, fullTag) {
		return false, nil
	}

	if IsExclusive(category) {
		if cur := FirstInCategory(lead, category); cur != nil {
			if !meta.Force && cur.AppliedBy.Rank() > meta.AppliedBy.Rank() {
				zap.L().Debug("tags: keeping higher-precedence tag",
					zap.String("existing", cur.FullTag),
					zap.String("existing_applied_by", string(cur.AppliedBy)),
					zap.String("rejected", fullTag),
					zap.String("rejected_applied_by", string(meta.AppliedBy)),
				)
				return false, nil
			}
			RemoveByCategory(lead, category)
		}
	}

	lead.Tags = append(lead.Tags, model.Tag{
		Category:   category,
		Name:       name,
		FullTag:    fullTag,
		AppliedBy:  meta.AppliedBy,
		AppliedAt:  meta.appliedAt(),
		Confidence: meta.Confidence,
		Evidence:   meta.Evidence,
	})
	return true, nil
}

// SetInCategory removes every tag of fullTag's category and adds fullTag.
// The precedence check does not apply; the replacement is explicit.
func SetInCategory(lead *model.Lead, fullTag string, meta Meta) error {
	category, _, ok := model.SplitTag(fullTag)
	if !ok {
		return eris.Errorf("tags: malformed tag %q", fullTag)
	}
	RemoveByCategory(lead, category)
	meta.Force = true
	_, err := Add(lead, fullTag, meta)
	return err
}

// Remove deletes the tag with the given full identifier. Reports whether a
// tag was removed.
func Remove(lead *model.Lead, fullTag string) bool {
	kept := lead.Tags[:0]
	removed := false
	for _, t := range lead.Tags {
		if t.FullTag == fullTag {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	lead.Tags = kept
	return removed
}

// RemoveByCategory deletes every tag in the category and returns the count
// removed.
func RemoveByCategory(lead *model.Lead, category string) int {
	kept := lead.Tags[:0]
	removed := 0
	for _, t := range lead.Tags {
		if t.Category == category {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	lead.Tags = kept
	return removed
}

// RemoveByAppliedBy deletes every tag with the given provenance and returns
// the count removed.
func RemoveByAppliedBy(lead *model.Lead, appliedBy model.AppliedBy) int {
	kept := lead.Tags[:0]
	removed := 0
	for _, t := range lead.Tags {
		if t.AppliedBy == appliedBy {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	lead.Tags = kept
	return removed
}

// Has reports whether the lead carries the exact full tag.
func Has(lead *model.Lead, fullTag string) bool {
	for _, t := range lead.Tags {
		if t.FullTag == fullTag {
			return true
		}
	}
	return false
}

// ByCategory returns the lead's tags in the given category, in collection order.
func ByCategory(lead *model.Lead, category string) []model.Tag {
	var out []model.Tag
	for _, t := range lead.Tags {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FirstInCategory returns the first tag of the category, or nil.
func FirstInCategory(lead *model.Lead, category string) *model.Tag {
	for i := range lead.Tags {
		if lead.Tags[i].Category == category {
			return &lead.Tags[i]
		}
	}
	return nil
}

// HasAnyOf reports whether the lead carries at least one of the given tags.
func HasAnyOf(lead *model.Lead, fullTags ...string) bool {
	for _, ft := range fullTags {
		if Has(lead, ft) {
			return true
		}
	}
	return false
}

// FilterByTags returns the leads carrying every one of the given tags.
func FilterByTags(leads []*model.Lead, fullTags []string) []*model.Lead {
	var out []*model.Lead
	for _, l := range leads {
		all := true
		for _, ft := range fullTags {
			if !Has(l, ft) {
				all = false
				break
			}
		}
		if all {
			out = append(out, l)
		}
	}
	return out
}

// FilterByTagsAny returns the leads carrying at least one of the given tags.
func FilterByTagsAny(leads []*model.Lead, fullTags []string) []*model.Lead {
	var out []*model.Lead
	for _, l := range leads {
		if HasAnyOf(l, fullTags...) {
			out = append(out, l)
		}
	}
	return out
}
