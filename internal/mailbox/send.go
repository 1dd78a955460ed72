package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Send composes a plain text message and sends it. When out.ReplyToID is
// set the message is threaded under the original.
func (b *Mailbox) Send(ctx context.Context, out Outgoing) (Sent, error) {
	if err := out.validate(); err != nil {
		return Sent{}, err
	}

	var (
		h        mail.Header
		threadID string
	)

	profile, err := b.svc.GetProfile(ctx)
	b.metrics.ObserveMail("get_profile", err)
	if err != nil {
		return Sent{}, fmt.Errorf("svc.GetProfile failed: %w", err)
	}
	h.SetAddressList("From", []*mail.Address{{Address: profile.EmailAddress}})

	if out.ReplyToID != "" {
		orig, err := b.svc.GetMessageMetadata(ctx, out.ReplyToID)
		b.metrics.ObserveMail("get_message_metadata", err)
		if err != nil {
			return Sent{}, fmt.Errorf("get message %s failed: %w", out.ReplyToID, err)
		}

		threadID = orig.ThreadId
		messageID, references := threadingHeaders(orig)
		setReplyHeaders(&h, messageID, references)
	}

	to, err := addressList(out.To)
	if err != nil {
		return Sent{}, fmt.Errorf("to: %w", err)
	}
	h.SetAddressList("To", to)

	if len(out.CC) > 0 {
		cc, err := addressList(out.CC)
		if err != nil {
			return Sent{}, fmt.Errorf("cc: %w", err)
		}
		h.SetAddressList("Cc", cc)
	}

	h.SetSubject(out.Subject)
	h.SetDate(time.Now())

	raw, err := compose(h, out.Body)
	if err != nil {
		return Sent{}, fmt.Errorf("compose failed: %w", err)
	}

	sent, err := b.svc.SendMessage(ctx, raw, threadID)
	b.metrics.ObserveMail("send", err)
	if err != nil {
		return Sent{}, fmt.Errorf("svc.SendMessage failed: %w", err)
	}

	b.log.Info().Str("msg_id", sent.Id).Str("thread_id", sent.ThreadId).Bool("reply", out.ReplyToID != "").Msg("message sent")

	return Sent{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

func (o Outgoing) validate() error {
	switch {
	case len(o.To) == 0:
		return fmt.Errorf("to: %w", ErrMissingField)
	case strings.TrimSpace(o.Subject) == "":
		return fmt.Errorf("subject: %w", ErrMissingField)
	case strings.TrimSpace(o.Body) == "":
		return fmt.Errorf("body: %w", ErrMissingField)
	}
	return nil
}

// setReplyHeaders threads a reply under the message with the given
// Message-ID and References headers.
func setReplyHeaders(h *mail.Header, messageID, references string) {
	if messageID == "" {
		return
	}

	h.Set("In-Reply-To", messageID)
	if references != "" {
		h.Set("References", references+" "+messageID)
	} else {
		h.Set("References", messageID)
	}
}

func addressList(values []string) ([]*mail.Address, error) {
	out := make([]*mail.Address, 0, len(values))
	for _, v := range values {
		a, err := mail.ParseAddress(v)
		if err != nil {
			return nil, fmt.Errorf("mail.ParseAddress %q failed: %w", v, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// compose writes h and body as a single text/plain part.
func compose(h mail.Header, body string) ([]byte, error) {
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("mail.CreateSingleInlineWriter failed: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("io.WriteString failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("w.Close failed: %w", err)
	}

	return buf.Bytes(), nil
}
