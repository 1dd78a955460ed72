package assistant

import (
	"context"
	"strings"

	"github.com/hal9000y/gmail-assistant/internal/prompt"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

// ReplyRequest describes the reply to generate.
type ReplyRequest struct {
	Original           string
	Subject            string // subject of Original, used for SuggestedSubject
	Tone               string
	Length             string
	Context            string
	CustomInstructions string
	Alternatives       bool // also draft the reply in formal and friendly tones
}

// Reply is a generated reply.
type Reply struct {
	Reply              string             `json:"reply"`
	Tone               tone.ToneID        `json:"tone"`
	Length             prompt.Length      `json:"length"`
	WordCount          int                `json:"word_count"`
	SuggestedSubject   string             `json:"suggested_subject,omitempty"`
	AlternativeReplies []AlternativeReply `json:"alternative_replies,omitempty"`
}

// AlternativeReply is the same reply drafted in another tone.
type AlternativeReply struct {
	Tone  tone.ToneID `json:"tone"`
	Reply string      `json:"reply"`
}

// alternativeTones are tried in order for ReplyRequest.Alternatives.
var alternativeTones = []tone.ToneID{tone.Formal, tone.Friendly}

const maxAlternatives = 2

// GenerateReply drafts a reply to req.Original.
func (a *Assistant) GenerateReply(ctx context.Context, req ReplyRequest) (Reply, error) {
	id := a.resolveTone(req.Tone)
	length, ok := prompt.ParseLength(req.Length)
	if !ok && req.Length != "" {
		a.log.Warn().Str("length", req.Length).Str("fallback", string(length)).Msg("unknown length")
	}

	task := prompt.GenerateReply{
		Original:           req.Original,
		Tone:               id,
		Length:             length,
		Context:            req.Context,
		CustomInstructions: req.CustomInstructions,
	}
	text, err := generate(ctx, a, task, replyParser(task.Kind()))
	if err != nil {
		return Reply{}, err
	}

	out := Reply{
		Reply:            text,
		Tone:             id,
		Length:           length,
		WordCount:        len(strings.Fields(text)),
		SuggestedSubject: SuggestSubject(req.Subject),
	}

	if req.Alternatives {
		out.AlternativeReplies = a.alternatives(ctx, task)
	}

	return out, nil
}

// alternatives drafts base in the alternative tones. Failures are logged and
// skipped.
func (a *Assistant) alternatives(ctx context.Context, base prompt.GenerateReply) []AlternativeReply {
	var out []AlternativeReply
	for _, id := range alternativeTones {
		if id == base.Tone || len(out) == maxAlternatives {
			continue
		}

		task := base
		task.Tone = id
		task.CustomInstructions = ""

		text, err := generate(ctx, a, task, replyParser(task.Kind()))
		if err != nil {
			a.log.Warn().Err(err).Str("tone", string(id)).Msg("alternative reply dropped")
			continue
		}
		out = append(out, AlternativeReply{Tone: id, Reply: text})
	}
	return out
}

// RefineRequest describes a reply to rewrite.
type RefineRequest struct {
	Reply        string
	Tone         string
	Instructions string
}

// RefinedReply is a rewritten reply.
type RefinedReply struct {
	Reply     string      `json:"reply"`
	Tone      tone.ToneID `json:"tone"`
	WordCount int         `json:"word_count"`
}

// RefineReply rewrites req.Reply in the requested tone.
func (a *Assistant) RefineReply(ctx context.Context, req RefineRequest) (RefinedReply, error) {
	id := a.resolveTone(req.Tone)

	task := prompt.RefineReply{Reply: req.Reply, Tone: id, Instructions: req.Instructions}
	text, err := generate(ctx, a, task, replyParser(task.Kind()))
	if err != nil {
		return RefinedReply{}, err
	}

	return RefinedReply{
		Reply:     text,
		Tone:      id,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func replyParser(kind prompt.Kind) func(string) (string, error) {
	return func(raw string) (string, error) {
		return prompt.ParseReply(kind, raw)
	}
}

// SuggestSubject prefixes subject with "Re: " unless it already has one.
// An empty subject has no suggestion.
func SuggestSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
