// Package research builds a structured business dossier from a web research
// service.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/pkg/perplexity"
)

const researchPromptFormat = `Research the e-commerce business "%s" (%s). Do not confuse it with similarly named brands; only report findings you can attribute to the business at that exact URL.

Respond with a single JSON object:
{
  "company_overview": "<2-3 sentences>",
  "target_audience": "<who buys from them>",
  "current_content_strategy": "<how they produce and publish content>",
  "pain_points": ["<observed content/marketing pain point>", ...],
  "strategic_recommendations": ["<concrete recommendation>", ...],
  "contact_info": {"instagram_handle": "<handle or empty>", "email": "<email or empty>"},
  "confidence_score": <1-10>
}`

// ContactInfo holds contact candidates found during research.
type ContactInfo struct {
	InstagramHandle string `json:"instagram_handle,omitempty"`
	Email           string `json:"email,omitempty"`
}

// Dossier is the structured research result. Structured is false when the
// service's output could not be parsed and Raw holds the unstructured text.
type Dossier struct {
	CompanyOverview          string      `json:"company_overview,omitempty"`
	TargetAudience           string      `json:"target_audience,omitempty"`
	CurrentContentStrategy   string      `json:"current_content_strategy,omitempty"`
	PainPoints               []string    `json:"pain_points,omitempty"`
	StrategicRecommendations []string    `json:"strategic_recommendations,omitempty"`
	ContactInfo              ContactInfo `json:"contact_info,omitempty"`
	ConfidenceScore          int         `json:"confidence_score,omitempty"`

	Structured bool   `json:"structured"`
	Raw        string `json:"raw,omitempty"`
	Summary    string `json:"summary"`
}

// Provider runs deep research queries.
type Provider struct {
	client perplexity.Client
	model  string
}

// NewProvider creates a Provider. A nil client disables research.
func NewProvider(client perplexity.Client, model string) *Provider {
	return &Provider{client: client, model: model}
}

// Enabled reports whether a research client is configured.
func (p *Provider) Enabled() bool {
	return p != nil && p.client != nil
}

// Research queries the service for a dossier on name at bestURL. A transport
// failure is returned as an error; a malformed payload from a successful call
// degrades to an unstructured raw-text dossier.
func (p *Provider) Research(ctx context.Context, name, bestURL string) (*Dossier, error) {
	if !p.Enabled() {
		return nil, eris.New("research: no client configured")
	}

	resp, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: p.model,
		Messages: []perplexity.Message{
			{Role: "user", Content: fmt.Sprintf(researchPromptFormat, name, bestURL)},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "research: query %q", name)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, eris.Errorf("research: empty response for %q", name)
	}

	dossier := parseDossier(text)
	dossier.Summary = synthesizeSummary(name, dossier)

	zap.L().Debug("research: dossier built",
		zap.String("name", name),
		zap.Bool("structured", dossier.Structured),
		zap.Int("confidence", dossier.ConfidenceScore),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return dossier, nil
}

// parseDossier attempts the strict structured parse, falling back to a
// raw-text dossier rather than failing.
func parseDossier(text string) *Dossier {
	var d Dossier
	if err := json.Unmarshal([]byte(cleanJSON(text)), &d); err != nil || d.CompanyOverview == "" {
		zap.L().Warn("research: unstructured response, keeping raw text")
		return &Dossier{Structured: false, Raw: strings.TrimSpace(text)}
	}
	d.Structured = true
	return &d
}

// synthesizeSummary renders a human-readable multi-section summary for
// downstream display.
func synthesizeSummary(name string, d *Dossier) string {
	if !d.Structured {
		return fmt.Sprintf("## %s: research notes\n\n%s", name, d.Raw)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", name)
	fmt.Fprintf(&b, "**Overview**: %s\n\n", d.CompanyOverview)
	if d.TargetAudience != "" {
		fmt.Fprintf(&b, "**Audience**: %s\n\n", d.TargetAudience)
	}
	if d.CurrentContentStrategy != "" {
		fmt.Fprintf(&b, "**Content strategy**: %s\n\n", d.CurrentContentStrategy)
	}
	if len(d.PainPoints) > 0 {
		b.WriteString("**Pain points**:\n")
		for _, pp := range d.PainPoints {
			fmt.Fprintf(&b, "- %s\n", pp)
		}
		b.WriteString("\n")
	}
	if len(d.StrategicRecommendations) > 0 {
		b.WriteString("**Recommendations**:\n")
		for _, r := range d.StrategicRecommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
	if d.ContactInfo.InstagramHandle != "" || d.ContactInfo.Email != "" {
		fmt.Fprintf(&b, "**Contact**: %s %s\n\n", d.ContactInfo.InstagramHandle, d.ContactInfo.Email)
	}
	fmt.Fprintf(&b, "Confidence: %d/10\n", d.ConfidenceScore)

	return strings.TrimSpace(b.String())
}

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
