package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/mailbox"
)

// GetMessagesRequest contains message IDs to retrieve.
type GetMessagesRequest struct {
	MessageIDs []string `json:"message_ids" jsonschema:"array of message IDs to retrieve"`
}

// GetMessagesResponse contains full message contents.
type GetMessagesResponse struct {
	Messages []mailbox.Message `json:"messages" jsonschema:"array of full message contents"`
}

// GetThreadRequest names the thread to retrieve.
type GetThreadRequest struct {
	ThreadID string `json:"thread_id" jsonschema:"the thread ID"`
}

type getMessagesSvc interface {
	GetMessage(ctx context.Context, msgID string) (mailbox.Message, error)
	GetThread(ctx context.Context, threadID string) ([]mailbox.Message, error)
}

// NewGetMessages creates a new GetMessages tool.
func NewGetMessages(svc getMessagesSvc) *GetMessages {
	return &GetMessages{
		svc: svc,
	}
}

// GetMessages retrieves full messages with plain text bodies.
type GetMessages struct {
	svc getMessagesSvc
}

// GetMessages retrieves complete messages by their IDs.
func (t *GetMessages) GetMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetMessagesRequest,
) (*mcp.CallToolResult, GetMessagesResponse, error) {
	messages := make([]mailbox.Message, 0, len(input.MessageIDs))

	for _, msgID := range input.MessageIDs {
		msg, err := t.svc.GetMessage(ctx, msgID)
		if err != nil {
			return nil, GetMessagesResponse{}, fmt.Errorf("get message %s failed: %w", msgID, err)
		}
		messages = append(messages, msg)
	}

	return nil, GetMessagesResponse{
		Messages: messages,
	}, nil
}

// GetThread retrieves all messages of a thread.
func (t *GetMessages) GetThread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetThreadRequest,
) (*mcp.CallToolResult, GetMessagesResponse, error) {
	if input.ThreadID == "" {
		return nil, GetMessagesResponse{}, errors.New("thread_id is required")
	}

	messages, err := t.svc.GetThread(ctx, input.ThreadID)
	if err != nil {
		return nil, GetMessagesResponse{}, fmt.Errorf("get thread %s failed: %w", input.ThreadID, err)
	}
	if messages == nil {
		messages = []mailbox.Message{}
	}

	return nil, GetMessagesResponse{
		Messages: messages,
	}, nil
}
