package assistant

import (
	"context"

	"github.com/hal9000y/gmail-assistant/internal/prompt"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

// AnalyzeTone asks the provider to classify the tone of text.
func (a *Assistant) AnalyzeTone(ctx context.Context, text string) (prompt.ToneAnalysis, error) {
	return generate(ctx, a, prompt.AnalyzeTone{Text: text}, prompt.ParseToneAnalysis)
}

// ExtractActionItems asks the provider for the follow-ups in content.
func (a *Assistant) ExtractActionItems(ctx context.Context, content string) (prompt.ActionItems, error) {
	return generate(ctx, a, prompt.ExtractActionItems{Content: content}, prompt.ParseActionItems)
}

// ScoreTone scores text against a tone without calling the provider.
func (a *Assistant) ScoreTone(text, target string) tone.MatchResult {
	a.resolveTone(target)
	return tone.Score(text, tone.ToneID(target))
}

// ListTones returns every tone id with its description.
func (a *Assistant) ListTones() map[tone.ToneID]string {
	return tone.List()
}

// SuggestAlternatives returns the tones related to current.
func (a *Assistant) SuggestAlternatives(current string) []tone.Alternative {
	return tone.SuggestAlternatives(tone.ToneID(current))
}
