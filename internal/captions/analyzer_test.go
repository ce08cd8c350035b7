package captions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/pkg/anthropic"
)

// fakeClient implements anthropic.Client with a canned handler.
type fakeClient struct {
	fn func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
}

func (f *fakeClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return f.fn(ctx, req)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func TestAnalyze_FiltersByConfidence(t *testing.T) {
	client := &fakeClient{fn: func(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textResponse(`{"pain_points":[
			{"tag":"pain:manual_video","confidence":0.92,"evidence":"spent all weekend filming"},
			{"tag":"pain:slow_editing","confidence":0.69,"evidence":"editing took forever"},
			{"tag":"pain:no_models","confidence":0.7,"evidence":"wish I had someone to model these"}
		]}`), nil
	}}

	a := NewAnalyzer(client, "test-model")
	got := a.Analyze(context.Background(), []string{"spent all weekend filming"})

	require.Len(t, got, 2)
	assert.Equal(t, "pain:manual_video", got[0].Tag)
	assert.Equal(t, "spent all weekend filming", got[0].Evidence)
	assert.Equal(t, "pain:no_models", got[1].Tag)
}

func TestAnalyze_StripsCodeFences(t *testing.T) {
	client := &fakeClient{fn: func(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textResponse("```json\n{\"pain_points\":[{\"tag\":\"manual_video\",\"confidence\":0.8,\"evidence\":\"x\"}]}\n```"), nil
	}}

	got := NewAnalyzer(client, "m").Analyze(context.Background(), []string{"c"})

	// Bare identifiers get the pain: prefix.
	require.Len(t, got, 1)
	assert.Equal(t, "pain:manual_video", got[0].Tag)
}

func TestAnalyze_DropsUnknownTags(t *testing.T) {
	client := &fakeClient{fn: func(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textResponse(`{"pain_points":[{"tag":"pain:made_up","confidence":0.99,"evidence":"x"}]}`), nil
	}}

	assert.Empty(t, NewAnalyzer(client, "m").Analyze(context.Background(), []string{"c"}))
}

func TestAnalyze_MalformedResponseIsEmpty(t *testing.T) {
	client := &fakeClient{fn: func(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textResponse("I could not find any pain points, sorry!"), nil
	}}

	assert.Empty(t, NewAnalyzer(client, "m").Analyze(context.Background(), []string{"c"}))
}

func TestAnalyze_CallFailureIsEmpty(t *testing.T) {
	client := &fakeClient{fn: func(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return nil, assert.AnError
	}}

	assert.Empty(t, NewAnalyzer(client, "m").Analyze(context.Background(), []string{"c"}))
}

func TestAnalyze_SkipsWithoutClientOrCaptions(t *testing.T) {
	assert.Empty(t, NewAnalyzer(nil, "m").Analyze(context.Background(), []string{"c"}))

	called := false
	client := &fakeClient{fn: func(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		called = true
		return textResponse(`{"pain_points":[]}`), nil
	}}
	a := NewAnalyzer(client, "m")

	assert.Empty(t, a.Analyze(context.Background(), nil))
	assert.Empty(t, a.Analyze(context.Background(), []string{"", "   "}))
	assert.False(t, called)
}

func TestAnalyze_TruncatesToTenCaptions(t *testing.T) {
	var gotPrompt string
	client := &fakeClient{fn: func(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		gotPrompt = req.Messages[0].Content
		return textResponse(`{"pain_points":[]}`), nil
	}}

	caps := make([]string, 15)
	for i := range caps {
		caps[i] = "caption"
	}
	NewAnalyzer(client, "m").Analyze(context.Background(), caps)

	assert.Equal(t, 10, countOccurrences(gotPrompt, "caption"))
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
