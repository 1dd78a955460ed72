package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/assistant"
)

// maxBulkMessages bounds a single summarize_bulk call.
const maxBulkMessages = 20

type SummarizeEmailRequest struct {
	Content   string `json:"content,omitempty" jsonschema:"email text to summarize"`
	MessageID string `json:"message_id,omitempty" jsonschema:"message to summarize when content is empty"`
	MaxWords  int    `json:"max_words,omitempty" jsonschema:"upper bound on summary words"`
}

// SummaryResponse is a single email summary.
type SummaryResponse struct {
	MessageID        string   `json:"message_id,omitempty" jsonschema:"summarized message"`
	Summary          string   `json:"summary" jsonschema:"the summary"`
	KeyPoints        []string `json:"key_points" jsonschema:"key points"`
	MainPurpose      string   `json:"main_purpose,omitempty" jsonschema:"why the email was sent"`
	ActionRequired   string   `json:"action_required,omitempty" jsonschema:"what the reader has to do"`
	OriginalLength   int      `json:"original_length" jsonschema:"characters in the summarized text"`
	SummaryLength    int      `json:"summary_length" jsonschema:"characters in the summary"`
	CompressionRatio float64  `json:"compression_ratio" jsonschema:"percent of text removed"`
}

type SummarizeThreadRequest struct {
	ThreadID string `json:"thread_id" jsonschema:"the thread to summarize"`
	MaxWords int    `json:"max_words,omitempty" jsonschema:"upper bound on summary words"`
}

type ThreadSummaryResponse struct {
	ThreadID         string   `json:"thread_id" jsonschema:"summarized thread"`
	Summary          string   `json:"summary" jsonschema:"the summary"`
	KeyPoints        []string `json:"key_points" jsonschema:"key points"`
	Participants     []string `json:"participants,omitempty" jsonschema:"people taking part"`
	DecisionsMade    []string `json:"decisions_made,omitempty" jsonschema:"decisions reached"`
	ActionItems      []string `json:"action_items,omitempty" jsonschema:"open tasks"`
	ThreadOutcome    string   `json:"thread_outcome,omitempty" jsonschema:"where the conversation ended"`
	MessageCount     int      `json:"message_count" jsonschema:"messages in the thread"`
	OriginalLength   int      `json:"original_length" jsonschema:"characters in the composed thread"`
	SummaryLength    int      `json:"summary_length" jsonschema:"characters in the summary"`
	CompressionRatio float64  `json:"compression_ratio" jsonschema:"percent of text removed"`
}

type SummarizeBulkRequest struct {
	MessageIDs []string `json:"message_ids" jsonschema:"messages to summarize, 20 at most"`
	MaxWords   int      `json:"max_words,omitempty" jsonschema:"upper bound on words per summary"`
}

type BulkItem struct {
	MessageID string           `json:"message_id" jsonschema:"the message"`
	Summary   *SummaryResponse `json:"summary,omitempty" jsonschema:"summary when successful"`
	Error     string           `json:"error,omitempty" jsonschema:"failure reason"`
}

type SummarizeBulkResponse struct {
	Results        []BulkItem `json:"results" jsonschema:"one item per requested message, in order"`
	TotalProcessed int        `json:"total_processed" jsonschema:"messages processed"`
	Successful     int        `json:"successful" jsonschema:"messages summarized"`
	Failed         int        `json:"failed" jsonschema:"messages that failed"`
}

type summarizeSvc interface {
	SummarizeEmail(ctx context.Context, content string, maxWords int) (assistant.EmailSummary, error)
	SummarizeThread(ctx context.Context, messages []assistant.Message, maxWords int) (assistant.ThreadSummary, error)
	SummarizeBulk(ctx context.Context, messages []assistant.Message, maxWords int) assistant.BulkResult
}

func NewSummarize(mail getMessagesSvc, asst summarizeSvc) *Summarize {
	return &Summarize{mail: mail, asst: asst}
}

type Summarize struct {
	mail getMessagesSvc
	asst summarizeSvc
}

func (t *Summarize) SummarizeEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeEmailRequest,
) (*mcp.CallToolResult, SummaryResponse, error) {
	content, msg, err := resolveContent(ctx, t.mail, input.Content, input.MessageID)
	if err != nil {
		return nil, SummaryResponse{}, err
	}

	sum, err := t.asst.SummarizeEmail(ctx, content, input.MaxWords)
	if err != nil {
		return nil, SummaryResponse{}, generationError(err)
	}

	out := toSummaryResponse(sum)
	out.MessageID = msg.Summary.ID
	return nil, out, nil
}

func (t *Summarize) SummarizeThread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeThreadRequest,
) (*mcp.CallToolResult, ThreadSummaryResponse, error) {
	if input.ThreadID == "" {
		return nil, ThreadSummaryResponse{}, errors.New("thread_id is required")
	}

	msgs, err := t.mail.GetThread(ctx, input.ThreadID)
	if err != nil {
		return nil, ThreadSummaryResponse{}, fmt.Errorf("get thread %s failed: %w", input.ThreadID, err)
	}

	messages := make([]assistant.Message, 0, len(msgs))
	for _, m := range msgs {
		messages = append(messages, toAssistantMessage(m))
	}

	sum, err := t.asst.SummarizeThread(ctx, messages, input.MaxWords)
	if err != nil {
		return nil, ThreadSummaryResponse{}, generationError(err)
	}

	return nil, ThreadSummaryResponse{
		ThreadID:         input.ThreadID,
		Summary:          sum.Summary,
		KeyPoints:        sum.KeyPoints,
		Participants:     sum.Participants,
		DecisionsMade:    sum.DecisionsMade,
		ActionItems:      sum.ActionItems,
		ThreadOutcome:    sum.ThreadOutcome,
		MessageCount:     sum.MessageCount,
		OriginalLength:   sum.OriginalLength,
		SummaryLength:    sum.SummaryLength,
		CompressionRatio: sum.CompressionRatio,
	}, nil
}

// SummarizeBulk reports fetch failures the same way as generation failures:
// in the item, without failing the call.
func (t *Summarize) SummarizeBulk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeBulkRequest,
) (*mcp.CallToolResult, SummarizeBulkResponse, error) {
	if len(input.MessageIDs) == 0 {
		return nil, SummarizeBulkResponse{}, errors.New("message_ids is required")
	}
	if len(input.MessageIDs) > maxBulkMessages {
		return nil, SummarizeBulkResponse{}, fmt.Errorf("at most %d message_ids per call, got %d", maxBulkMessages, len(input.MessageIDs))
	}

	items := make([]BulkItem, len(input.MessageIDs))
	fetched := make([]assistant.Message, 0, len(input.MessageIDs))
	slots := make([]int, 0, len(input.MessageIDs))

	for i, id := range input.MessageIDs {
		items[i].MessageID = id
		msg, err := t.mail.GetMessage(ctx, id)
		if err != nil {
			items[i].Error = fmt.Sprintf("get message failed: %v", err)
			continue
		}
		fetched = append(fetched, toAssistantMessage(msg))
		slots = append(slots, i)
	}

	if len(fetched) > 0 {
		res := t.asst.SummarizeBulk(ctx, fetched, input.MaxWords)
		for j, item := range res.Results {
			slot := &items[slots[j]]
			slot.Error = item.Error
			if item.Summary != nil {
				sum := toSummaryResponse(*item.Summary)
				sum.MessageID = item.ID
				slot.Summary = &sum
			}
		}
	}

	out := SummarizeBulkResponse{Results: items, TotalProcessed: len(items)}
	for _, item := range items {
		if item.Summary != nil {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	return nil, out, nil
}

func toSummaryResponse(sum assistant.EmailSummary) SummaryResponse {
	return SummaryResponse{
		Summary:          sum.Summary,
		KeyPoints:        sum.KeyPoints,
		MainPurpose:      sum.MainPurpose,
		ActionRequired:   sum.ActionRequired,
		OriginalLength:   sum.OriginalLength,
		SummaryLength:    sum.SummaryLength,
		CompressionRatio: sum.CompressionRatio,
	}
}
