package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// EmailSummary is the expected reply to SummarizeEmail.
type EmailSummary struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	MainPurpose    string   `json:"main_purpose,omitempty"`
	ActionRequired string   `json:"action_required,omitempty"`
}

// ThreadSummary is the expected reply to SummarizeThread.
type ThreadSummary struct {
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	Participants  []string `json:"participants,omitempty"`
	DecisionsMade []string `json:"decisions_made,omitempty"`
	ActionItems   []string `json:"action_items,omitempty"`
	ThreadOutcome string   `json:"thread_outcome,omitempty"`
}

// ToneAnalysis is the expected reply to AnalyzeTone.
type ToneAnalysis struct {
	PrimaryTone    string             `json:"primary_tone"`
	Confidence     float64            `json:"confidence"`
	SecondaryTones []string           `json:"secondary_tones,omitempty"`
	ToneScores     map[string]float64 `json:"tone_scores"`
	Suggestions    []string           `json:"suggestions"`
}

// ActionItem is one follow-up extracted from a message.
type ActionItem struct {
	Task       string `json:"task"`
	Priority   string `json:"priority,omitempty"`
	Deadline   string `json:"deadline,omitempty"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Type       string `json:"type,omitempty"`
}

// ActionItems is the expected reply to ExtractActionItems.
type ActionItems struct {
	Items            []ActionItem `json:"action_items"`
	FollowUpRequired bool         `json:"follow_up_required"`
	NextSteps        []string     `json:"next_steps,omitempty"`
}

// ParseEmailSummary decodes provider output for SummarizeEmail.
func ParseEmailSummary(raw string) (EmailSummary, error) {
	var out EmailSummary
	if err := decode(KindSummarizeEmail, raw, &out, "summary", "key_points"); err != nil {
		return EmailSummary{}, err
	}
	if blank(out.Summary) {
		return EmailSummary{}, malformed(KindSummarizeEmail, raw, errors.New("missing summary"))
	}
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	return out, nil
}

// ParseThreadSummary decodes provider output for SummarizeThread.
func ParseThreadSummary(raw string) (ThreadSummary, error) {
	var out ThreadSummary
	if err := decode(KindSummarizeThread, raw, &out, "summary", "key_points"); err != nil {
		return ThreadSummary{}, err
	}
	if blank(out.Summary) {
		return ThreadSummary{}, malformed(KindSummarizeThread, raw, errors.New("missing summary"))
	}
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	return out, nil
}

// ParseReply validates free-text output for GenerateReply and RefineReply.
func ParseReply(kind Kind, raw string) (string, error) {
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", malformed(kind, raw, errors.New("empty reply"))
	}
	return reply, nil
}

// ParseToneAnalysis decodes provider output for AnalyzeTone.
func ParseToneAnalysis(raw string) (ToneAnalysis, error) {
	var out ToneAnalysis
	if err := decode(KindAnalyzeTone, raw, &out, "primary_tone", "confidence", "tone_scores", "suggestions"); err != nil {
		return ToneAnalysis{}, err
	}
	if blank(out.PrimaryTone) {
		return ToneAnalysis{}, malformed(KindAnalyzeTone, raw, errors.New("missing primary_tone"))
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return ToneAnalysis{}, malformed(KindAnalyzeTone, raw, fmt.Errorf("confidence %v out of [0,1]", out.Confidence))
	}
	if out.ToneScores == nil {
		out.ToneScores = map[string]float64{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out, nil
}

// ParseActionItems decodes provider output for ExtractActionItems.
func ParseActionItems(raw string) (ActionItems, error) {
	var out ActionItems
	if err := decode(KindExtractActionItems, raw, &out, "action_items"); err != nil {
		return ActionItems{}, err
	}
	for i, item := range out.Items {
		if blank(item.Task) {
			return ActionItems{}, malformed(KindExtractActionItems, raw, fmt.Errorf("action item %d has no task", i))
		}
	}
	if out.Items == nil {
		out.Items = []ActionItem{}
	}
	return out, nil
}

// decode accepts exactly one JSON object carrying every required key.
// Unmarshal rejects anything but whitespace after the value.
func decode(kind Kind, raw string, v any, required ...string) error {
	body := []byte(stripFence(raw))
	if len(body) == 0 {
		return malformed(kind, raw, errors.New("empty output"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return malformed(kind, raw, fmt.Errorf("json.Unmarshal failed: %w", err))
	}
	if fields == nil {
		return malformed(kind, raw, errors.New("output is not a JSON object"))
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return malformed(kind, raw, fmt.Errorf("missing %s", key))
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return malformed(kind, raw, fmt.Errorf("json.Unmarshal failed: %w", err))
	}
	return nil
}

// stripFence removes one surrounding markdown code fence, if present.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

func malformed(kind Kind, raw string, err error) *MalformedOutputError {
	return &MalformedOutputError{Kind: kind, Raw: raw, Err: err}
}
