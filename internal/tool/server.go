package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/assistant"
	"github.com/hal9000y/gmail-assistant/internal/mailbox"
	"github.com/hal9000y/gmail-assistant/internal/prompt"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

type mailSvc interface {
	ListMessages(ctx context.Context, query, pageToken string, maxResults int64) (mailbox.Page, error)
	GetMessage(ctx context.Context, msgID string) (mailbox.Message, error)
	GetThread(ctx context.Context, threadID string) ([]mailbox.Message, error)
	Send(ctx context.Context, out mailbox.Outgoing) (mailbox.Sent, error)
	MarkRead(ctx context.Context, msgID string) error
}

type assistantSvc interface {
	SummarizeEmail(ctx context.Context, content string, maxWords int) (assistant.EmailSummary, error)
	SummarizeThread(ctx context.Context, messages []assistant.Message, maxWords int) (assistant.ThreadSummary, error)
	SummarizeBulk(ctx context.Context, messages []assistant.Message, maxWords int) assistant.BulkResult
	GenerateReply(ctx context.Context, req assistant.ReplyRequest) (assistant.Reply, error)
	RefineReply(ctx context.Context, req assistant.RefineRequest) (assistant.RefinedReply, error)
	AnalyzeTone(ctx context.Context, text string) (prompt.ToneAnalysis, error)
	ExtractActionItems(ctx context.Context, content string) (prompt.ActionItems, error)
	ScoreTone(text, target string) tone.MatchResult
	ListTones() map[tone.ToneID]string
	SuggestAlternatives(current string) []tone.Alternative
}

// NewServer creates an MCP server with mailbox and writing assistant tools.
func NewServer(mail mailSvc, asst assistantSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-assistant", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_messages",
		Description: "Search Gmail messages using Gmail search syntax",
	}, NewSearchMessages(mail).SearchMessages)

	getMessages := NewGetMessages(mail)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_messages",
		Description: "Get full message content for specified message IDs",
	}, getMessages.GetMessages)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_thread",
		Description: "Get every message of a thread, oldest first",
	}, getMessages.GetThread)

	sendMessage := NewSendMessage(mail)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a plain text email, optionally as a reply to an existing message",
	}, sendMessage.SendMessage)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "mark_read",
		Description: "Mark messages as read",
	}, sendMessage.MarkRead)

	summarize := NewSummarize(mail, asst)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_email",
		Description: "Summarize an email given as text or by message ID",
	}, summarize.SummarizeEmail)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_thread",
		Description: "Summarize a whole conversation thread",
	}, summarize.SummarizeThread)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_bulk",
		Description: "Summarize several messages independently",
	}, summarize.SummarizeBulk)

	reply := NewReply(mail, asst)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_reply",
		Description: "Draft a reply to an email in the requested tone and length",
	}, reply.GenerateReply)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "refine_reply",
		Description: "Rewrite a drafted reply following instructions",
	}, reply.RefineReply)

	tones := NewTones(mail, asst)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_tone",
		Description: "Classify the tone of a text or message",
	}, tones.AnalyzeTone)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_action_items",
		Description: "Extract tasks, deadlines and follow-ups from an email",
	}, tones.ExtractActionItems)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_tone",
		Description: "Score how well a text matches a tone, without calling the language model",
	}, tones.ScoreTone)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tones",
		Description: "List the available tones",
	}, tones.ListTones)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_tones",
		Description: "Suggest tones related to the given one",
	}, tones.SuggestTones)

	return server
}
