package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/mailbox"
)

type MarkReadRequest struct {
	MessageIDs []string `json:"message_ids" jsonschema:"IDs of the messages to mark as read"`
}

type MarkReadResponse struct {
	Marked []string `json:"marked" jsonschema:"IDs that were marked as read"`
}

type sendMessageSvc interface {
	Send(ctx context.Context, out mailbox.Outgoing) (mailbox.Sent, error)
	MarkRead(ctx context.Context, msgID string) error
}

func NewSendMessage(svc sendMessageSvc) *SendMessage {
	return &SendMessage{svc: svc}
}

// SendMessage changes the mailbox: sends mail and flips read state.
type SendMessage struct {
	svc sendMessageSvc
}

func (t *SendMessage) SendMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input mailbox.Outgoing,
) (*mcp.CallToolResult, mailbox.Sent, error) {
	sent, err := t.svc.Send(ctx, input)
	if err != nil {
		return nil, mailbox.Sent{}, fmt.Errorf("svc.Send failed: %w", err)
	}
	return nil, sent, nil
}

// MarkRead stops at the first failure. IDs before it stay marked.
func (t *SendMessage) MarkRead(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MarkReadRequest,
) (*mcp.CallToolResult, MarkReadResponse, error) {
	marked := make([]string, 0, len(input.MessageIDs))
	for _, id := range input.MessageIDs {
		if err := t.svc.MarkRead(ctx, id); err != nil {
			return nil, MarkReadResponse{}, fmt.Errorf("mark read %s failed: %w", id, err)
		}
		marked = append(marked, id)
	}
	return nil, MarkReadResponse{Marked: marked}, nil
}
