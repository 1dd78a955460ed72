package mailbox

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string `json:"name,omitempty" jsonschema:"the display name"`
	Email string `json:"email" jsonschema:"the email address"`
}

// String formats a as "Name <email>", or just the email without a name.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Summary holds the header fields of a message.
type Summary struct {
	ID        string    `json:"id" jsonschema:"message ID"`
	ThreadID  string    `json:"thread_id" jsonschema:"thread ID"`
	Timestamp string    `json:"timestamp" jsonschema:"message date header"`
	From      Address   `json:"from" jsonschema:"sender"`
	To        []Address `json:"to,omitempty" jsonschema:"recipients"`
	CC        []Address `json:"cc,omitempty" jsonschema:"CC recipients"`
	Subject   string    `json:"subject" jsonschema:"email subject"`
	Snippet   string    `json:"snippet" jsonschema:"message preview"`
	IsRead    bool      `json:"is_read" jsonschema:"false while the message is unread"`
}

// Message is a full message with a plain text body.
type Message struct {
	Summary     Summary      `json:"summary" jsonschema:"message headers"`
	Body        string       `json:"body,omitempty" jsonschema:"plain text body, HTML converted to Markdown"`
	MessageID   string       `json:"message_id,omitempty" jsonschema:"RFC 5322 Message-ID header"`
	References  string       `json:"references,omitempty" jsonschema:"RFC 5322 References header"`
	Attachments []Attachment `json:"attachments,omitempty" jsonschema:"attachment metadata"`
}

// Attachment describes an attached file. Its content isn't fetched.
type Attachment struct {
	ID       string `json:"id" jsonschema:"attachment ID"`
	Filename string `json:"filename" jsonschema:"original filename"`
	MimeType string `json:"mime_type" jsonschema:"MIME type"`
	Size     int64  `json:"size" jsonschema:"size in bytes"`
}

// Outgoing is a message to send. ReplyToID names the message being answered.
type Outgoing struct {
	To        []string `json:"to" jsonschema:"recipient addresses"`
	CC        []string `json:"cc,omitempty" jsonschema:"CC addresses"`
	Subject   string   `json:"subject" jsonschema:"email subject"`
	Body      string   `json:"body" jsonschema:"plain text body"`
	ReplyToID string   `json:"reply_to_id,omitempty" jsonschema:"ID of the message this replies to"`
}

// Sent identifies a message after sending.
type Sent struct {
	ID       string `json:"id" jsonschema:"message ID"`
	ThreadID string `json:"thread_id" jsonschema:"thread ID"`
}

// Page is one page of a message listing.
type Page struct {
	Messages      []Summary `json:"messages" jsonschema:"message summaries"`
	NextPageToken string    `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}
