package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/prompt"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

type AnalyzeToneRequest struct {
	Text      string `json:"text,omitempty" jsonschema:"text to analyze"`
	MessageID string `json:"message_id,omitempty" jsonschema:"message to analyze when text is empty"`
}

type ExtractActionItemsRequest struct {
	Content   string `json:"content,omitempty" jsonschema:"email text"`
	MessageID string `json:"message_id,omitempty" jsonschema:"message to read when content is empty"`
}

type ScoreToneRequest struct {
	Text string `json:"text" jsonschema:"text to score"`
	Tone string `json:"tone" jsonschema:"tone to score against, professional when unknown"`
}

type ListTonesRequest struct{}

type ToneInfo struct {
	ID          string `json:"id" jsonschema:"tone identifier"`
	Description string `json:"description" jsonschema:"what the tone sounds like"`
}

type ListTonesResponse struct {
	Tones []ToneInfo `json:"tones" jsonschema:"available tones"`
}

type SuggestTonesRequest struct {
	Tone string `json:"tone" jsonschema:"the current tone"`
}

type SuggestTonesResponse struct {
	Alternatives []tone.Alternative `json:"alternatives" jsonschema:"related tones"`
}

type toneSvc interface {
	AnalyzeTone(ctx context.Context, text string) (prompt.ToneAnalysis, error)
	ExtractActionItems(ctx context.Context, content string) (prompt.ActionItems, error)
	ScoreTone(text, target string) tone.MatchResult
	ListTones() map[tone.ToneID]string
	SuggestAlternatives(current string) []tone.Alternative
}

func NewTones(mail messageGetter, asst toneSvc) *Tones {
	return &Tones{mail: mail, asst: asst}
}

// Tones groups tone analysis and the offline tone registry tools.
type Tones struct {
	mail messageGetter
	asst toneSvc
}

func (t *Tones) AnalyzeTone(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeToneRequest,
) (*mcp.CallToolResult, prompt.ToneAnalysis, error) {
	text, _, err := resolveContent(ctx, t.mail, input.Text, input.MessageID)
	if err != nil {
		return nil, prompt.ToneAnalysis{}, err
	}

	analysis, err := t.asst.AnalyzeTone(ctx, text)
	if err != nil {
		return nil, prompt.ToneAnalysis{}, generationError(err)
	}
	return nil, analysis, nil
}

func (t *Tones) ExtractActionItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractActionItemsRequest,
) (*mcp.CallToolResult, prompt.ActionItems, error) {
	content, _, err := resolveContent(ctx, t.mail, input.Content, input.MessageID)
	if err != nil {
		return nil, prompt.ActionItems{}, err
	}

	items, err := t.asst.ExtractActionItems(ctx, content)
	if err != nil {
		return nil, prompt.ActionItems{}, generationError(err)
	}
	return nil, items, nil
}

func (t *Tones) ScoreTone(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScoreToneRequest,
) (*mcp.CallToolResult, tone.MatchResult, error) {
	return nil, t.asst.ScoreTone(input.Text, input.Tone), nil
}

// ListTones keeps the registry order.
func (t *Tones) ListTones(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListTonesRequest,
) (*mcp.CallToolResult, ListTonesResponse, error) {
	descriptions := t.asst.ListTones()

	out := ListTonesResponse{Tones: make([]ToneInfo, 0, len(descriptions))}
	for _, id := range tone.IDs() {
		desc, ok := descriptions[id]
		if !ok {
			continue
		}
		out.Tones = append(out.Tones, ToneInfo{ID: string(id), Description: desc})
	}
	return nil, out, nil
}

func (t *Tones) SuggestTones(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SuggestTonesRequest,
) (*mcp.CallToolResult, SuggestTonesResponse, error) {
	alts := t.asst.SuggestAlternatives(input.Tone)
	if alts == nil {
		alts = []tone.Alternative{}
	}
	return nil, SuggestTonesResponse{Alternatives: alts}, nil
}
