package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/assistant"
)

type GenerateReplyRequest struct {
	Content            string `json:"content,omitempty" jsonschema:"the email to reply to"`
	MessageID          string `json:"message_id,omitempty" jsonschema:"message to reply to when content is empty"`
	Subject            string `json:"subject,omitempty" jsonschema:"subject of the original, taken from the message when omitted"`
	Tone               string `json:"tone,omitempty" jsonschema:"reply tone, professional by default"`
	Length             string `json:"length,omitempty" jsonschema:"short, medium or long"`
	Context            string `json:"context,omitempty" jsonschema:"extra context for the reply"`
	CustomInstructions string `json:"custom_instructions,omitempty" jsonschema:"additional instructions"`
	Alternatives       bool   `json:"alternatives,omitempty" jsonschema:"also draft the reply in other tones"`
}

type AlternativeReply struct {
	Tone  string `json:"tone" jsonschema:"tone of the alternative"`
	Reply string `json:"reply" jsonschema:"the alternative reply"`
}

type GenerateReplyResponse struct {
	Reply              string             `json:"reply" jsonschema:"the drafted reply"`
	Tone               string             `json:"tone" jsonschema:"tone actually used"`
	Length             string             `json:"length" jsonschema:"length class actually used"`
	WordCount          int                `json:"word_count" jsonschema:"words in the reply"`
	SuggestedSubject   string             `json:"suggested_subject,omitempty" jsonschema:"subject line for the reply"`
	AlternativeReplies []AlternativeReply `json:"alternative_replies,omitempty" jsonschema:"the reply in other tones"`
}

type RefineReplyRequest struct {
	Reply        string `json:"reply" jsonschema:"the reply to rewrite"`
	Tone         string `json:"tone,omitempty" jsonschema:"target tone"`
	Instructions string `json:"instructions,omitempty" jsonschema:"what to change"`
}

type RefineReplyResponse struct {
	Reply     string `json:"reply" jsonschema:"the rewritten reply"`
	Tone      string `json:"tone" jsonschema:"tone actually used"`
	WordCount int    `json:"word_count" jsonschema:"words in the reply"`
}

type replySvc interface {
	GenerateReply(ctx context.Context, req assistant.ReplyRequest) (assistant.Reply, error)
	RefineReply(ctx context.Context, req assistant.RefineRequest) (assistant.RefinedReply, error)
}

func NewReply(mail messageGetter, asst replySvc) *Reply {
	return &Reply{mail: mail, asst: asst}
}

type Reply struct {
	mail messageGetter
	asst replySvc
}

func (t *Reply) GenerateReply(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateReplyRequest,
) (*mcp.CallToolResult, GenerateReplyResponse, error) {
	original, msg, err := resolveContent(ctx, t.mail, input.Content, input.MessageID)
	if err != nil {
		return nil, GenerateReplyResponse{}, err
	}

	subject := input.Subject
	if subject == "" {
		subject = msg.Summary.Subject
	}

	reply, err := t.asst.GenerateReply(ctx, assistant.ReplyRequest{
		Original:           original,
		Subject:            subject,
		Tone:               input.Tone,
		Length:             input.Length,
		Context:            input.Context,
		CustomInstructions: input.CustomInstructions,
		Alternatives:       input.Alternatives,
	})
	if err != nil {
		return nil, GenerateReplyResponse{}, generationError(err)
	}

	out := GenerateReplyResponse{
		Reply:            reply.Reply,
		Tone:             string(reply.Tone),
		Length:           string(reply.Length),
		WordCount:        reply.WordCount,
		SuggestedSubject: reply.SuggestedSubject,
	}
	for _, alt := range reply.AlternativeReplies {
		out.AlternativeReplies = append(out.AlternativeReplies, AlternativeReply{
			Tone:  string(alt.Tone),
			Reply: alt.Reply,
		})
	}
	return nil, out, nil
}

func (t *Reply) RefineReply(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RefineReplyRequest,
) (*mcp.CallToolResult, RefineReplyResponse, error) {
	refined, err := t.asst.RefineReply(ctx, assistant.RefineRequest{
		Reply:        input.Reply,
		Tone:         input.Tone,
		Instructions: input.Instructions,
	})
	if err != nil {
		return nil, RefineReplyResponse{}, generationError(err)
	}

	return nil, RefineReplyResponse{
		Reply:     refined.Reply,
		Tone:      string(refined.Tone),
		WordCount: refined.WordCount,
	}, nil
}
