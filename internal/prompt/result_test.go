package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-assistant/internal/prompt"
)

func TestParseEmailSummary(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		expected  prompt.EmailSummary
		malformed bool
	}{
		{
			name: "plain json",
			raw:  `{"summary":"Budget approved","key_points":["Q3","+10%"],"main_purpose":"update","action_required":"no"}`,
			expected: prompt.EmailSummary{
				Summary:        "Budget approved",
				KeyPoints:      []string{"Q3", "+10%"},
				MainPurpose:    "update",
				ActionRequired: "no",
			},
		},
		{
			name:     "fenced json",
			raw:      "```json\n{\"summary\":\"Hi\",\"key_points\":[]}\n```",
			expected: prompt.EmailSummary{Summary: "Hi", KeyPoints: []string{}},
		},
		{
			name:     "null key points",
			raw:      `{"summary":"Hi","key_points":null}`,
			expected: prompt.EmailSummary{Summary: "Hi", KeyPoints: []string{}},
		},
		{name: "missing key points", raw: `{"summary":"Hi"}`, malformed: true},
		{name: "missing summary", raw: `{"key_points":["a"]}`, malformed: true},
		{name: "prose", raw: "Here is your summary: it's fine", malformed: true},
		{name: "empty", raw: "   ", malformed: true},
		{name: "trailing data", raw: `{"summary":"a","key_points":[]} {"summary":"b"}`, malformed: true},
		{name: "stray closing brace", raw: `{"summary":"x","key_points":[]}}`, malformed: true},
		{name: "trailing prose", raw: `{"summary":"x","key_points":[]} hope this helps`, malformed: true},
		{name: "trailing whitespace", raw: "{\"summary\":\"x\",\"key_points\":[]}\n\t ", expected: prompt.EmailSummary{Summary: "x", KeyPoints: []string{}}},
		{name: "null", raw: `null`, malformed: true},
		{name: "wrong type", raw: `{"summary":["a"]}`, malformed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := prompt.ParseEmailSummary(tc.raw)
			if tc.malformed {
				require.ErrorIs(t, err, prompt.ErrMalformedOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseThreadSummary(t *testing.T) {
	got, err := prompt.ParseThreadSummary(`{
		"summary": "Launch moved",
		"key_points": ["date"],
		"participants": ["ann@example.com", "bob@example.com"],
		"decisions_made": ["ship on 5th"],
		"action_items": ["update plan"],
		"thread_outcome": "agreed"
	}`)
	require.NoError(t, err)
	assert.Equal(t, prompt.ThreadSummary{
		Summary:       "Launch moved",
		KeyPoints:     []string{"date"},
		Participants:  []string{"ann@example.com", "bob@example.com"},
		DecisionsMade: []string{"ship on 5th"},
		ActionItems:   []string{"update plan"},
		ThreadOutcome: "agreed",
	}, got)

	for _, raw := range []string{
		`{"summary":"","key_points":[]}`,
		`{"summary":"x"}`,
		`{"key_points":["date"]}`,
		`{"summary":"x","key_points":[]}}`,
	} {
		_, err := prompt.ParseThreadSummary(raw)
		assert.ErrorIs(t, err, prompt.ErrMalformedOutput, raw)
	}
}

func TestParseReply(t *testing.T) {
	got, err := prompt.ParseReply(prompt.KindGenerateReply, "\n Dear Ann,\n\nThanks.\n ")
	require.NoError(t, err)
	assert.Equal(t, "Dear Ann,\n\nThanks.", got)

	_, err = prompt.ParseReply(prompt.KindRefineReply, " \n")
	require.ErrorIs(t, err, prompt.ErrMalformedOutput)
}

func TestParseToneAnalysis(t *testing.T) {
	got, err := prompt.ParseToneAnalysis(`{"primary_tone":"urgent","confidence":0.9,"tone_scores":{"urgent":0.9,"formal":0.2},"suggestions":[]}`)
	require.NoError(t, err)
	assert.Equal(t, "urgent", got.PrimaryTone)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, map[string]float64{"urgent": 0.9, "formal": 0.2}, got.ToneScores)
	assert.Equal(t, []string{}, got.Suggestions)

	for _, raw := range []string{
		`{"primary_tone":"formal"}`,
		`{"confidence":0.5,"tone_scores":{},"suggestions":[]}`,
		`{"primary_tone":"formal","tone_scores":{},"suggestions":[]}`,
		`{"primary_tone":"formal","confidence":0.5,"suggestions":[]}`,
		`{"primary_tone":"formal","confidence":0.5,"tone_scores":{}}`,
		`{"primary_tone":"formal","confidence":1.5,"tone_scores":{},"suggestions":[]}`,
		`{"primary_tone":"formal","confidence":-0.1,"tone_scores":{},"suggestions":[]}`,
		`{"primary_tone":"formal","confidence":0.5,"tone_scores":{},"suggestions":[]}]`,
		`["formal"]`,
	} {
		_, err := prompt.ParseToneAnalysis(raw)
		assert.ErrorIs(t, err, prompt.ErrMalformedOutput, raw)
	}
}

func TestParseActionItems(t *testing.T) {
	got, err := prompt.ParseActionItems(`{
		"action_items": [{"task":"Send deck","priority":"high","deadline":"Monday","assigned_to":"me","type":"deliverable"}],
		"follow_up_required": true,
		"next_steps": ["book room"]
	}`)
	require.NoError(t, err)
	assert.Equal(t, prompt.ActionItems{
		Items: []prompt.ActionItem{
			{Task: "Send deck", Priority: "high", Deadline: "Monday", AssignedTo: "me", Type: "deliverable"},
		},
		FollowUpRequired: true,
		NextSteps:        []string{"book room"},
	}, got)

	got, err = prompt.ParseActionItems(`{"action_items":[],"follow_up_required":false}`)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)

	for _, raw := range []string{
		`["Send deck"]`,
		`{"next_steps":[]}`,
		`{"action_items":[{"priority":"high"}]}`,
		`{"action_items":"none"}`,
		`{"action_items":[]}}`,
	} {
		_, err := prompt.ParseActionItems(raw)
		assert.ErrorIs(t, err, prompt.ErrMalformedOutput, raw)
	}
}
