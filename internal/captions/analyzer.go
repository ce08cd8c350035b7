// Package captions extracts evidenced pain-point tags from a lead's recent
// post captions using a language model.
package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/pkg/anthropic"
)

// maxCaptions caps how many recent captions are sent; older ones are truncated.
const maxCaptions = 10

// minConfidence filters out low-confidence pain points before they become tags.
const minConfidence = 0.7

const systemPrompt = `You analyze social media captions from small e-commerce brands and identify content-production pain points. The only valid pain point identifiers are: manual_video, slow_editing, low_diversity, uses_freelancers, no_models. Respond with a single JSON object: {"pain_points":[{"tag":"pain:<identifier>","confidence":<0.0-1.0>,"evidence":"<short quote or paraphrase from the captions>"}]}. Report only pain points with direct evidence in the captions. If none, respond {"pain_points":[]}.`

const userPromptFormat = `Recent captions (newest first, separated by ---):

%s`

// validPainTags is the closed vocabulary accepted from the model.
var validPainTags = map[string]bool{
	"pain:manual_video":     true,
	"pain:slow_editing":     true,
	"pain:low_diversity":    true,
	"pain:uses_freelancers": true,
	"pain:no_models":        true,
}

// PainPoint is one evidenced pain point with model confidence.
type PainPoint struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// Analyzer runs caption analysis through an Anthropic model.
type Analyzer struct {
	client anthropic.Client
	model  string
}

// NewAnalyzer creates an Analyzer. A nil client means no credential is
// configured; Analyze then returns an empty result.
func NewAnalyzer(client anthropic.Client, model string) *Analyzer {
	return &Analyzer{client: client, model: model}
}

// Analyze sends up to maxCaptions captions and returns the pain points with
// confidence at or above minConfidence. Every failure mode (missing
// credential, call failure, malformed response) yields an empty list, logged
// but never returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, caps []string) []PainPoint {
	if a == nil || a.client == nil {
		zap.L().Debug("captions: no client configured, skipping analysis")
		return nil
	}

	var nonEmpty []string
	for _, c := range caps {
		if strings.TrimSpace(c) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(c))
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	if len(nonEmpty) > maxCaptions {
		nonEmpty = nonEmpty[:maxCaptions]
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: 1024,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, strings.Join(nonEmpty, "\n---\n"))},
		},
	})
	if err != nil {
		zap.L().Warn("captions: analysis call failed", zap.Error(err))
		return nil
	}

	zap.L().Debug("captions: analysis complete",
		zap.Int("captions", len(nonEmpty)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	points := parsePainPoints(resp.Text())

	var out []PainPoint
	for _, p := range points {
		if p.Confidence < minConfidence {
			zap.L().Debug("captions: dropped low-confidence pain point",
				zap.String("tag", p.Tag),
				zap.Float64("confidence", p.Confidence),
			)
			continue
		}
		out = append(out, p)
	}
	return out
}

// parsePainPoints strictly parses the model's single-JSON-object response.
// Unknown tags are dropped; anything unparseable means no pain points found.
func parsePainPoints(text string) []PainPoint {
	var result struct {
		PainPoints []PainPoint `json:"pain_points"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &result); err != nil {
		zap.L().Warn("captions: unparseable analysis response", zap.Error(err))
		return nil
	}

	var out []PainPoint
	for _, p := range result.PainPoints {
		tag := strings.TrimSpace(p.Tag)
		if !strings.HasPrefix(tag, "pain:") {
			tag = "pain:" + tag
		}
		if !validPainTags[tag] {
			zap.L().Debug("captions: dropped unknown pain tag", zap.String("tag", p.Tag))
			continue
		}
		p.Tag = tag
		out = append(out, p)
	}
	return out
}

// cleanJSON strips markdown code fences and surrounding prose so the payload
// is a bare JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
