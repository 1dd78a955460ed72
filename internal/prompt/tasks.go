package prompt

import (
	"fmt"
	"strings"

	"github.com/hal9000y/gmail-assistant/internal/tone"
)

const (
	defaultEmailSummaryWords  = 150
	defaultThreadSummaryWords = 200
	toneKeywordSamples        = 3
)

// SummarizeEmail asks for a summary of a single message.
type SummarizeEmail struct {
	Content  string
	MaxWords int
}

func (t SummarizeEmail) Kind() Kind { return KindSummarizeEmail }

func (t SummarizeEmail) Render() (Instruction, error) {
	if blank(t.Content) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	words := t.MaxWords
	if words <= 0 {
		words = defaultEmailSummaryWords
	}

	p := fmt.Sprintf(`You are an expert email assistant. Summarize the following email content clearly and professionally.

Requirements:
- Maximum length: %d words
- Extract 3-5 key points
- Focus on actionable items and important information
- Maintain professional tone
- Identify the main purpose of the email

Email Content:
%s

Format your response as JSON:
{
  "summary": "Brief, clear summary of the email",
  "key_points": ["point1", "point2", "point3"],
  "main_purpose": "primary purpose of the email",
  "action_required": "yes/no - whether action is required from recipient"
}`, words, t.Content)

	return Instruction{
		Kind:        t.Kind(),
		System:      "You are a helpful email summarization assistant. Always respond with valid JSON.",
		Prompt:      p,
		JSON:        true,
		MaxTokens:   500,
		Temperature: 0.3,
	}, nil
}

// SummarizeThread asks for a summary of a whole conversation.
type SummarizeThread struct {
	Content      string
	MessageCount int
	MaxWords     int
}

func (t SummarizeThread) Kind() Kind { return KindSummarizeThread }

func (t SummarizeThread) Render() (Instruction, error) {
	if blank(t.Content) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	words := t.MaxWords
	if words <= 0 {
		words = defaultThreadSummaryWords
	}

	p := fmt.Sprintf(`You are an expert email assistant. Summarize this email thread containing %d emails.

Requirements:
- Maximum length: %d words
- Show conversation progression and key decisions
- Extract main topics and action items
- Identify key participants and their roles
- Highlight any conflicts or agreements

Thread Content:
%s

Format your response as JSON:
{
  "summary": "Comprehensive summary of the entire thread",
  "key_points": ["point1", "point2", "point3", "point4"],
  "participants": ["participant1", "participant2"],
  "decisions_made": ["decision1", "decision2"],
  "action_items": ["action1", "action2"],
  "thread_outcome": "current status or outcome"
}`, t.MessageCount, words, t.Content)

	return Instruction{
		Kind:        t.Kind(),
		System:      "You are a helpful email thread summarization assistant. Always respond with valid JSON.",
		Prompt:      p,
		JSON:        true,
		MaxTokens:   600,
		Temperature: 0.3,
	}, nil
}

// GenerateReply asks for a reply to Original in the given tone.
type GenerateReply struct {
	Original           string
	Tone               tone.ToneID
	Length             Length
	Context            string
	CustomInstructions string
}

func (t GenerateReply) Kind() Kind { return KindGenerateReply }

func (t GenerateReply) Render() (Instruction, error) {
	if blank(t.Original) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	cfg := tone.Resolve(string(t.Tone))

	var b strings.Builder
	b.WriteString("You are an intelligent email assistant. Generate a professional email reply to the following email.\n\n")
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- %s\n", toneDirective(cfg))
	fmt.Fprintf(&b, "- %s\n", t.Length.Directive())
	b.WriteString("- Address all main points from the original email\n")
	b.WriteString("- Be helpful and provide clear value\n")
	b.WriteString("- Use appropriate greetings and closings\n")
	b.WriteString("- Sound natural and human-like\n")
	b.WriteString("- Do not include a subject line in your response")
	b.WriteString(styleBlock(cfg))
	b.WriteString(optionalBlock("Additional Context", t.Context))
	b.WriteString(optionalBlock("Custom Instructions", t.CustomInstructions))
	fmt.Fprintf(&b, "\n\nOriginal Email:\n%s\n\n", t.Original)
	fmt.Fprintf(&b, "Generate a thoughtful, well-structured reply that addresses the sender's needs and maintains a %s tone throughout.", cfg.ID)

	return Instruction{
		Kind:        t.Kind(),
		System:      fmt.Sprintf("You are a helpful email writing assistant. Write professional emails in a %s tone.", cfg.ID),
		Prompt:      b.String(),
		MaxTokens:   800,
		Temperature: 0.4,
	}, nil
}

// RefineReply asks for Reply rewritten in the given tone.
type RefineReply struct {
	Reply        string
	Tone         tone.ToneID
	Instructions string
}

func (t RefineReply) Kind() Kind { return KindRefineReply }

func (t RefineReply) Render() (Instruction, error) {
	if blank(t.Reply) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	cfg := tone.Resolve(string(t.Tone))

	var b strings.Builder
	fmt.Fprintf(&b, "You are an email editing specialist. Refine the following email reply to match a %s tone.\n\n", cfg.ID)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- %s\n", toneDirective(cfg))
	b.WriteString("- Maintain the core message and main points\n")
	fmt.Fprintf(&b, "- Adjust language, style, and approach to match %s tone\n", cfg.ID)
	b.WriteString("- Preserve any important details or information\n")
	b.WriteString("- Ensure the response flows naturally")
	b.WriteString(styleBlock(cfg))
	b.WriteString(optionalBlock("Additional Instructions", t.Instructions))
	fmt.Fprintf(&b, "\n\nOriginal Reply:\n%s\n\n", t.Reply)
	fmt.Fprintf(&b, "Provide only the refined version that better matches the %s tone while preserving the essential message.", cfg.ID)

	return Instruction{
		Kind:        t.Kind(),
		System:      "You are a helpful email editing assistant. Refine emails to match specific tones while maintaining the core message.",
		Prompt:      b.String(),
		MaxTokens:   600,
		Temperature: 0.3,
	}, nil
}

// AnalyzeTone asks the model to classify the tone of Text.
type AnalyzeTone struct {
	Text string
}

func (t AnalyzeTone) Kind() Kind { return KindAnalyzeTone }

func (t AnalyzeTone) Render() (Instruction, error) {
	if blank(t.Text) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	ids := tone.IDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}

	p := fmt.Sprintf(`You are a communication expert specializing in tone analysis. Analyze the tone of the following text.

Text to analyze:
%s

Known tones: %s

Provide:
- Primary tone identification
- Confidence level in your assessment (0.0 to 1.0)
- Secondary tones present
- A score from 0.0 to 1.0 for each known tone
- Suggestions for improvement

Format your response as JSON:
{
  "primary_tone": "main tone (e.g., formal, friendly, urgent, professional)",
  "confidence": 0.85,
  "secondary_tones": ["tone1", "tone2"],
  "tone_scores": {"formal": 0.8, "friendly": 0.3, "professional": 0.9},
  "suggestions": ["suggestion1", "suggestion2"]
}`, t.Text, strings.Join(names, ", "))

	return Instruction{
		Kind:        t.Kind(),
		System:      "You are a tone analysis expert. Analyze text tone and provide detailed insights in JSON format.",
		Prompt:      p,
		JSON:        true,
		MaxTokens:   300,
		Temperature: 0.2,
	}, nil
}

// ExtractActionItems asks for the follow-up tasks hidden in Content.
type ExtractActionItems struct {
	Content string
}

func (t ExtractActionItems) Kind() Kind { return KindExtractActionItems }

func (t ExtractActionItems) Render() (Instruction, error) {
	if blank(t.Content) {
		return Instruction{}, fmt.Errorf("%s: %w", t.Kind(), ErrEmptyInput)
	}

	p := fmt.Sprintf(`You are a task management expert. Extract clear, actionable items from the following email content.

Focus on:
- Specific tasks that require follow-up
- Deadlines and time-sensitive items
- Requests for information or action
- Meeting or appointment scheduling
- Document or deliverable requirements

Email Content:
%s

Format your response as JSON:
{
  "action_items": [
    {
      "task": "Clear description of the task",
      "priority": "high/medium/low",
      "deadline": "deadline if mentioned",
      "assigned_to": "person responsible if clear",
      "type": "task/meeting/deliverable/information_request"
    }
  ],
  "follow_up_required": true,
  "next_steps": ["step1", "step2"]
}`, t.Content)

	return Instruction{
		Kind:        t.Kind(),
		System:      "You are an action item extraction specialist. Extract clear, actionable tasks from email content.",
		Prompt:      p,
		JSON:        true,
		MaxTokens:   500,
		Temperature: 0.2,
	}, nil
}

func toneDirective(cfg tone.Config) string {
	d := fmt.Sprintf("Write in a %s tone. %s", cfg.ID, cfg.Description)
	if len(cfg.Keywords) > 0 {
		n := min(len(cfg.Keywords), toneKeywordSamples)
		d += ". Use appropriate language such as: " + strings.Join(cfg.Keywords[:n], ", ")
	}
	return d
}

func styleBlock(cfg tone.Config) string {
	if len(cfg.StyleInstructions) == 0 && len(cfg.Avoid) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nTone Guidelines:")
	for _, s := range cfg.StyleInstructions {
		fmt.Fprintf(&b, "\n- %s", s)
	}
	if len(cfg.Avoid) > 0 {
		fmt.Fprintf(&b, "\n- Avoid: %s", strings.Join(cfg.Avoid, ", "))
	}
	return b.String()
}
