package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hal9000y/gmail-assistant/internal/prompt"
)

// EmailSummary is a parsed summary plus size statistics.
type EmailSummary struct {
	prompt.EmailSummary
	Stats
}

// ThreadSummary is a parsed thread summary plus size statistics.
type ThreadSummary struct {
	prompt.ThreadSummary
	MessageCount int `json:"message_count"`
	Stats
}

// Stats compares the summarized content with the summary, in characters.
type Stats struct {
	OriginalLength   int     `json:"original_length"`
	SummaryLength    int     `json:"summary_length"`
	CompressionRatio float64 `json:"compression_ratio"`
}

func newStats(original, summary string) Stats {
	s := Stats{
		OriginalLength: utf8.RuneCountInString(original),
		SummaryLength:  utf8.RuneCountInString(summary),
	}
	if s.OriginalLength > 0 {
		ratio := (1 - float64(s.SummaryLength)/float64(s.OriginalLength)) * 100
		s.CompressionRatio = math.Round(ratio*100) / 100
	}
	return s
}

// SummarizeEmail summarizes one message in about maxWords words (0 = default).
func (a *Assistant) SummarizeEmail(ctx context.Context, content string, maxWords int) (EmailSummary, error) {
	out, err := generate(ctx, a, prompt.SummarizeEmail{Content: content, MaxWords: maxWords}, prompt.ParseEmailSummary)
	if err != nil {
		return EmailSummary{}, err
	}
	return EmailSummary{EmailSummary: out, Stats: newStats(content, out.Summary)}, nil
}

// SummarizeThread summarizes the messages of one conversation, oldest first.
func (a *Assistant) SummarizeThread(ctx context.Context, messages []Message, maxWords int) (ThreadSummary, error) {
	content := ComposeThread(messages)
	task := prompt.SummarizeThread{Content: content, MessageCount: len(messages), MaxWords: maxWords}

	out, err := generate(ctx, a, task, prompt.ParseThreadSummary)
	if err != nil {
		return ThreadSummary{}, err
	}
	return ThreadSummary{
		ThreadSummary: out,
		MessageCount:  len(messages),
		Stats:         newStats(content, out.Summary),
	}, nil
}

// BulkItem is the outcome for one message of SummarizeBulk.
type BulkItem struct {
	ID      string        `json:"id"`
	Summary *EmailSummary `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// BulkResult collects SummarizeBulk outcomes in input order.
type BulkResult struct {
	Results        []BulkItem `json:"results"`
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
}

// SummarizeBulk summarizes every message on its own. A failing message is
// reported in its item and doesn't stop the others.
func (a *Assistant) SummarizeBulk(ctx context.Context, messages []Message, maxWords int) BulkResult {
	res := BulkResult{Results: make([]BulkItem, 0, len(messages))}

	for _, m := range messages {
		item := BulkItem{ID: m.ID}

		sum, err := a.SummarizeEmail(ctx, m.Body, maxWords)
		if err != nil {
			item.Error = err.Error()
			res.Failed++
		} else {
			item.Summary = &sum
			res.Successful++
		}

		res.Results = append(res.Results, item)
		res.TotalProcessed++
	}

	return res
}

// Message is the part of a mail message a thread summary needs.
type Message struct {
	ID      string
	From    string
	Date    string
	Subject string
	Body    string
}

// ComposeThread renders messages as one block of text, numbered from 1.
func ComposeThread(messages []Message) string {
	sep := strings.Repeat("=", 50)

	var b strings.Builder
	for i, m := range messages {
		fmt.Fprintf(&b, "Email %d:\nFrom: %s\nDate: %s\nSubject: %s\n\n%s\n\n%s\n\n",
			i+1, m.From, m.Date, m.Subject, m.Body, sep)
	}
	return b.String()
}
