package mailbox

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-assistant/internal/gservice"
)

func toSummary(msg *gmail.Message) Summary {
	summary := Summary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		IsRead:   true,
	}

	for _, label := range msg.LabelIds {
		if label == gservice.LabelUnread {
			summary.IsRead = false
			break
		}
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch strings.ToLower(header.Name) {
			case "from":
				summary.From = parseAddress(header.Value)
			case "to":
				summary.To = parseAddressList(header.Value)
			case "cc":
				summary.CC = parseAddressList(header.Value)
			case "subject":
				summary.Subject = header.Value
			case "date":
				summary.Timestamp = header.Value
			}
		}
	}

	return summary
}

// threadingHeaders returns the Message-ID and References headers of msg.
func threadingHeaders(msg *gmail.Message) (messageID, references string) {
	if msg.Payload == nil {
		return "", ""
	}
	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "message-id":
			messageID = header.Value
		case "references":
			references = header.Value
		}
	}
	return messageID, references
}

// parseAddress parses one RFC 5322 address. Values that don't parse keep
// whatever sits between the angle brackets.
func parseAddress(value string) Address {
	if a, err := mail.ParseAddress(value); err == nil {
		return Address{Name: a.Name, Email: a.Address}
	}

	addr := Address{}
	if idx := strings.Index(value, "<"); idx != -1 {
		addr.Name = strings.TrimSpace(value[:idx])
		if endIdx := strings.Index(value[idx:], ">"); endIdx != -1 {
			addr.Email = strings.TrimSpace(value[idx+1 : idx+endIdx])
		}
	} else {
		addr.Email = strings.TrimSpace(value)
	}
	addr.Name = strings.Trim(addr.Name, "\"")

	return addr
}

func parseAddressList(value string) []Address {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	if list, err := mail.ParseAddressList(value); err == nil {
		out := make([]Address, 0, len(list))
		for _, a := range list {
			out = append(out, Address{Name: a.Name, Email: a.Address})
		}
		return out
	}

	parts := strings.Split(value, ",")
	out := make([]Address, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, parseAddress(trimmed))
		}
	}
	return out
}

// bodies returns the first text/plain and the first text/html body found
// in a depth-first walk of payload.
func bodies(payload *gmail.MessagePart) (textBody, htmlBody string) {
	textBody, htmlBody = partBody(payload)

	for _, part := range payload.Parts {
		partText, partHTML := bodies(part)
		if textBody == "" {
			textBody = partText
		}
		if htmlBody == "" {
			htmlBody = partHTML
		}
	}

	return textBody, htmlBody
}

func partBody(part *gmail.MessagePart) (textBody, htmlBody string) {
	if part.Body == nil || part.Body.Data == "" || part.Filename != "" {
		return "", ""
	}

	switch strings.ToLower(part.MimeType) {
	case "text/plain":
		return decodeBase64URL(part.Body.Data), ""
	case "text/html":
		return "", decodeBase64URL(part.Body.Data)
	default:
		return "", ""
	}
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}
	return string(decoded)
}

func attachments(payload *gmail.MessagePart) []Attachment {
	var out []Attachment

	if payload.Body != nil && payload.Body.AttachmentId != "" {
		out = append(out, Attachment{
			ID:       payload.Body.AttachmentId,
			Filename: payload.Filename,
			MimeType: payload.MimeType,
			Size:     payload.Body.Size,
		})
	}

	for _, part := range payload.Parts {
		out = append(out, attachments(part)...)
	}

	return out
}

var (
	blankLines   = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	horizontalWS = regexp.MustCompile(`[ \t]+`)
)

// cleanBody normalizes line endings, collapses runs of blank lines and
// horizontal whitespace and drops a trailing "-- " signature block.
func cleanBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	if idx := strings.LastIndex(body, "\n-- \n"); idx != -1 {
		body = body[:idx]
	} else if strings.HasPrefix(body, "-- \n") {
		body = ""
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(horizontalWS.ReplaceAllString(line, " "), " ")
	}
	body = strings.Join(lines, "\n")

	body = blankLines.ReplaceAllString(body, "\n\n")

	return strings.TrimSpace(body)
}
