// Package mailbox turns Gmail API messages into plain records and sends mail.
package mailbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-assistant/internal/gservice"
	"github.com/hal9000y/gmail-assistant/internal/metrics"
)

// DefaultQuery lists the inbox.
const DefaultQuery = "in:inbox"

const (
	defaultMaxResults = 10
	maxMaxResults     = 50
)

// ErrMissingField is returned when an outgoing message lacks a required field.
var ErrMissingField = errors.New("missing required field")

type gmailSvc interface {
	ListMessages(ctx context.Context, Q, pageToken string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error)
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
	GetThread(ctx context.Context, threadID string) (*gmail.Thread, error)
	SendMessage(ctx context.Context, raw []byte, threadID string) (*gmail.Message, error)
	ModifyLabels(ctx context.Context, msgID string, add, remove []string) error
	GetProfile(ctx context.Context) (*gmail.Profile, error)
}

type htmlConverter interface {
	HTML2MD(raw []byte) (string, error)
}

// Mailbox reads and sends mail for the authenticated user.
type Mailbox struct {
	svc     gmailSvc
	conv    htmlConverter
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New creates a Mailbox. m may be nil.
func New(svc gmailSvc, conv htmlConverter, m *metrics.Metrics, log zerolog.Logger) *Mailbox {
	return &Mailbox{
		svc:     svc,
		conv:    conv,
		metrics: m,
		log:     log,
	}
}

// NormalizeMaxResults maps 0 and negatives to the default and caps at 50.
func NormalizeMaxResults(maxResults int64) int64 {
	if maxResults <= 0 {
		return defaultMaxResults
	}
	if maxResults > maxMaxResults {
		return maxMaxResults
	}
	return maxResults
}

// ListMessages returns one page of header summaries matching query.
func (b *Mailbox) ListMessages(ctx context.Context, query, pageToken string, maxResults int64) (Page, error) {
	if query == "" {
		query = DefaultQuery
	}

	result, err := b.svc.ListMessages(ctx, query, pageToken, NormalizeMaxResults(maxResults))
	b.metrics.ObserveMail("list_messages", err)
	if err != nil {
		return Page{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := make([]Summary, 0, len(result.Messages))
	for _, m := range result.Messages {
		msg, err := b.svc.GetMessageMetadata(ctx, m.Id)
		b.metrics.ObserveMail("get_message_metadata", err)
		if err != nil {
			return Page{}, fmt.Errorf("get message %s failed: %w", m.Id, err)
		}
		messages = append(messages, toSummary(msg))
	}

	b.log.Debug().Str("query", query).Int("count", len(messages)).Msg("messages listed")

	return Page{
		Messages:      messages,
		NextPageToken: result.NextPageToken,
	}, nil
}

// GetMessage fetches one message with its body.
func (b *Mailbox) GetMessage(ctx context.Context, msgID string) (Message, error) {
	msg, err := b.svc.GetMessage(ctx, msgID)
	b.metrics.ObserveMail("get_message", err)
	if err != nil {
		return Message{}, fmt.Errorf("svc.GetMessage failed: %w", err)
	}

	return b.toMessage(msg)
}

// GetThread fetches every message of a thread, oldest first.
func (b *Mailbox) GetThread(ctx context.Context, threadID string) ([]Message, error) {
	thread, err := b.svc.GetThread(ctx, threadID)
	b.metrics.ObserveMail("get_thread", err)
	if err != nil {
		return nil, fmt.Errorf("svc.GetThread failed: %w", err)
	}

	out := make([]Message, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		m, err := b.toMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.Id, err)
		}
		out = append(out, m)
	}

	return out, nil
}

// MarkRead removes the UNREAD label from a message.
func (b *Mailbox) MarkRead(ctx context.Context, msgID string) error {
	err := b.svc.ModifyLabels(ctx, msgID, nil, []string{gservice.LabelUnread})
	b.metrics.ObserveMail("mark_read", err)
	if err != nil {
		return fmt.Errorf("svc.ModifyLabels failed: %w", err)
	}

	b.log.Info().Str("msg_id", msgID).Msg("message marked as read")

	return nil
}

func (b *Mailbox) toMessage(msg *gmail.Message) (Message, error) {
	out := Message{Summary: toSummary(msg)}
	out.MessageID, out.References = threadingHeaders(msg)

	if msg.Payload == nil {
		return out, nil
	}

	out.Attachments = attachments(msg.Payload)

	textBody, htmlBody := bodies(msg.Payload)
	body, err := b.previewText(textBody, htmlBody)
	if err != nil {
		return Message{}, fmt.Errorf("previewText failed: %w", err)
	}
	out.Body = cleanBody(body)

	return out, nil
}

func (b *Mailbox) previewText(textBody, htmlBody string) (string, error) {
	if textBody != "" {
		return textBody, nil
	}
	if htmlBody == "" {
		return "", nil
	}

	converted, err := b.conv.HTML2MD([]byte(htmlBody))
	if err != nil {
		return "", fmt.Errorf("conv.HTML2MD failed: %w", err)
	}

	return converted, nil
}
