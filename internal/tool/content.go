package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hal9000y/gmail-assistant/internal/assistant"
	"github.com/hal9000y/gmail-assistant/internal/mailbox"
)

var errNoContent = errors.New("either content or message_id is required")

type messageGetter interface {
	GetMessage(ctx context.Context, msgID string) (mailbox.Message, error)
}

// resolveContent returns inline content when given, otherwise the message
// msgID with its subject and sender ahead of the body. A blank body stays
// blank. The fetched message is zero for inline content.
func resolveContent(ctx context.Context, svc messageGetter, content, msgID string) (string, mailbox.Message, error) {
	if content != "" {
		return content, mailbox.Message{}, nil
	}
	if msgID == "" {
		return "", mailbox.Message{}, errNoContent
	}

	msg, err := svc.GetMessage(ctx, msgID)
	if err != nil {
		return "", mailbox.Message{}, fmt.Errorf("get message %s failed: %w", msgID, err)
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", msg, nil
	}
	return fmt.Sprintf("Subject: %s\n\nFrom: %s\n\n%s", msg.Summary.Subject, msg.Summary.From, msg.Body), msg, nil
}

func toAssistantMessage(m mailbox.Message) assistant.Message {
	return assistant.Message{
		ID:      m.Summary.ID,
		From:    m.Summary.From.String(),
		Date:    m.Summary.Timestamp,
		Subject: m.Summary.Subject,
		Body:    m.Body,
	}
}

// generationError attaches the raw provider text to malformed output errors,
// so the caller can still use it.
func generationError(err error) error {
	if raw, ok := assistant.IsMalformed(err); ok {
		return fmt.Errorf("%w\nraw output:\n%s", err, raw)
	}
	return err
}
