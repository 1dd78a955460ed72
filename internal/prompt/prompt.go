// Package prompt renders generation instructions for the assistant tasks
// and parses what the generation provider sends back.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a generation task.
type Kind string

// Task kinds.
const (
	KindSummarizeEmail     Kind = "summarize_email"
	KindSummarizeThread    Kind = "summarize_thread"
	KindGenerateReply      Kind = "generate_reply"
	KindRefineReply        Kind = "refine_reply"
	KindAnalyzeTone        Kind = "analyze_tone"
	KindExtractActionItems Kind = "extract_action_items"
)

// ErrEmptyInput is returned when a task has no content to act upon.
var ErrEmptyInput = errors.New("empty input")

// ErrMalformedOutput matches every *MalformedOutputError.
var ErrMalformedOutput = errors.New("malformed generation output")

// MalformedOutputError reports provider output that doesn't fit the shape
// the task expects. Raw holds the provider text as received.
type MalformedOutputError struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMalformedOutput, e.Kind, e.Err)
}

func (e *MalformedOutputError) Unwrap() []error {
	return []error{ErrMalformedOutput, e.Err}
}

// Instruction is everything the generation provider needs for one task.
type Instruction struct {
	Kind        Kind
	System      string
	Prompt      string
	JSON        bool
	MaxTokens   int
	Temperature float64
}

// Task is a single generation request.
type Task interface {
	Kind() Kind
	Render() (Instruction, error)
}

// Length is the size class of a generated reply.
type Length string

// Length classes.
const (
	Short  Length = "short"
	Medium Length = "medium"
	Long   Length = "long"
)

var lengthDirectives = map[Length]string{
	Short:  "Keep the response brief and to the point (50-100 words)",
	Medium: "Provide a balanced response (100-200 words)",
	Long:   "Provide a detailed and comprehensive response (200-300 words)",
}

// ParseLength resolves s to a length class. Unknown or empty input resolves
// to Medium and false.
func ParseLength(s string) (Length, bool) {
	l := Length(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lengthDirectives[l]; !ok {
		return Medium, false
	}
	return l, true
}

// Directive returns the word-count instruction for l.
func (l Length) Directive() string {
	resolved, _ := ParseLength(string(l))
	return lengthDirectives[resolved]
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// optionalBlock renders "\n\n<title>:\n<body>" or nothing when body is blank.
func optionalBlock(title, body string) string {
	if blank(body) {
		return ""
	}
	return fmt.Sprintf("\n\n%s:\n%s", title, body)
}
