package tool_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-assistant/internal/llm"
	"github.com/hal9000y/gmail-assistant/internal/mailbox"
	"github.com/hal9000y/gmail-assistant/internal/tool"
)

func TestGenerateReplyInline(t *testing.T) {
	p := answer("Thanks, Friday works for me.")
	session := connect(t, nil, p)

	got := decode[tool.GenerateReplyResponse](t, call(t, session, "generate_reply", tool.GenerateReplyRequest{
		Content: "Can we meet on Friday?",
		Subject: "Meeting",
		Tone:    "friendly",
		Length:  "short",
	}))

	assert.Equal(t, tool.GenerateReplyResponse{
		Reply:            "Thanks, Friday works for me.",
		Tone:             "friendly",
		Length:           "short",
		WordCount:        5,
		SuggestedSubject: "Re: Meeting",
	}, got)
	require.Len(t, p.Calls(), 1)
	assert.Contains(t, p.Calls()[0].Prompt, "Can we meet on Friday?")
}

func TestGenerateReplyByMessageID(t *testing.T) {
	p := answer("Sure.")
	session := connect(t, &mailSvcMock{
		GetMessageFunc: func(_ context.Context, msgID string) (mailbox.Message, error) {
			return newMessage(msgID, "RE: Budget", "Is the budget final?"), nil
		},
	}, p)

	got := decode[tool.GenerateReplyResponse](t, call(t, session, "generate_reply", tool.GenerateReplyRequest{
		MessageID: "m3",
		Tone:      "sarcastic",
		Length:    "epic",
	}))

	assert.Equal(t, "RE: Budget", got.SuggestedSubject)
	assert.Equal(t, "professional", got.Tone)
	assert.Equal(t, "medium", got.Length)
	assert.Contains(t, p.Calls()[0].Prompt, "Is the budget final?")
}

func TestGenerateReplyAlternatives(t *testing.T) {
	p := &providerMock{CompleteFunc: func(_ context.Context, req *llm.Request) (string, error) {
		switch {
		case strings.Contains(req.System, "friendly tone"):
			return "Hey, sounds great!", nil
		default:
			return "Dear Ann, I confirm.", nil
		}
	}}
	session := connect(t, nil, p)

	got := decode[tool.GenerateReplyResponse](t, call(t, session, "generate_reply", tool.GenerateReplyRequest{
		Content:      "Please confirm.",
		Tone:         "formal",
		Alternatives: true,
	}))

	assert.Equal(t, "formal", got.Tone)
	require.Len(t, got.AlternativeReplies, 1)
	assert.Equal(t, "friendly", got.AlternativeReplies[0].Tone)
	assert.Len(t, p.Calls(), 2)
}

func TestGenerateReplyErrors(t *testing.T) {
	session := connect(t, nil, answer("  "))

	requireToolError(t, call(t, session, "generate_reply", tool.GenerateReplyRequest{}), "either content or message_id is required")
	requireToolError(t, call(t, session, "generate_reply", tool.GenerateReplyRequest{Content: "Hi"}), "malformed generation output")
}

func TestRefineReply(t *testing.T) {
	p := answer("Dear team, the report is attached.")
	session := connect(t, nil, p)

	got := decode[tool.RefineReplyResponse](t, call(t, session, "refine_reply", tool.RefineReplyRequest{
		Reply:        "hey, report attached",
		Tone:         "Formal",
		Instructions: "mention the team",
	}))

	assert.Equal(t, tool.RefineReplyResponse{
		Reply:     "Dear team, the report is attached.",
		Tone:      "formal",
		WordCount: 6,
	}, got)
	prompt := p.Calls()[0].Prompt
	assert.Contains(t, prompt, "hey, report attached")
	assert.Contains(t, prompt, "mention the team")

	requireToolError(t, call(t, session, "refine_reply", tool.RefineReplyRequest{}), "empty input")
}
