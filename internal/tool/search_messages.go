package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-assistant/internal/mailbox"
)

type SearchMessagesRequest struct {
	Query      string `json:"query,omitempty" jsonschema:"the Gmail search query, in:inbox when empty"`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"max results per page, 10 by default and 50 at most"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"token for pagination"`
}

type SearchMessagesResponse struct {
	Messages      []mailbox.Summary `json:"messages" jsonschema:"array of message summaries"`
	NextPageToken string            `json:"next_page_token,omitempty" jsonschema:"token for next page"`
	TotalResults  int               `json:"total_results" jsonschema:"number of messages returned"`
}

type searchMessagesSvc interface {
	ListMessages(ctx context.Context, query, pageToken string, maxResults int64) (mailbox.Page, error)
}

func NewSearchMessages(svc searchMessagesSvc) *SearchMessages {
	return &SearchMessages{
		svc: svc,
	}
}

type SearchMessages struct {
	svc searchMessagesSvc
}

func (t *SearchMessages) SearchMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchMessagesRequest,
) (*mcp.CallToolResult, SearchMessagesResponse, error) {
	page, err := t.svc.ListMessages(ctx, input.Query, input.PageToken, input.MaxResults)
	if err != nil {
		return nil, SearchMessagesResponse{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := page.Messages
	if messages == nil {
		messages = []mailbox.Summary{}
	}

	return nil, SearchMessagesResponse{
		Messages:      messages,
		NextPageToken: page.NextPageToken,
		TotalResults:  len(messages),
	}, nil
}
