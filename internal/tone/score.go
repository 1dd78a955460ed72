package tone

import (
	"fmt"
	"math"
	"strings"
)

const (
	neutralKeywordScore = 0.5
	maxAvoidPenalty     = 0.5
)

// MatchResult is the outcome of scoring a text against a tone.
type MatchResult struct {
	Tone            ToneID   `json:"tone"`
	Score           float64  `json:"score"`
	KeywordMatches  int      `json:"keyword_matches"`
	AvoidViolations int      `json:"avoid_violations"`
	Suggestions     []string `json:"suggestions"`
}

// Score measures how well text matches target by phrase containment.
// The score is always in [0, 1] and rounded to two decimals.
func Score(text string, target ToneID) MatchResult {
	cfg := Resolve(string(target))
	return score(text, cfg)
}

func score(text string, cfg Config) MatchResult {
	normalized := strings.ToLower(text)

	keywordMatches := countContained(normalized, cfg.Keywords)
	keywordScore := neutralKeywordScore
	if len(cfg.Keywords) > 0 {
		keywordScore = math.Min(float64(keywordMatches)/float64(len(cfg.Keywords)), 1.0)
	}

	avoidMatches := countContained(normalized, cfg.Avoid)
	avoidPenalty := 0.0
	if len(cfg.Avoid) > 0 {
		avoidPenalty = math.Min(float64(avoidMatches)/float64(len(cfg.Avoid)), maxAvoidPenalty)
	}

	return MatchResult{
		Tone:            cfg.ID,
		Score:           round2(math.Max(0, keywordScore-avoidPenalty)),
		KeywordMatches:  keywordMatches,
		AvoidViolations: avoidMatches,
		Suggestions:     suggestions(cfg, keywordMatches, avoidMatches),
	}
}

func countContained(normalized string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(normalized, strings.ToLower(p)) {
			n++
		}
	}
	return n
}

func suggestions(cfg Config, keywordMatches, avoidViolations int) []string {
	out := []string{}

	if keywordMatches == 0 && len(cfg.Keywords) > 0 {
		out = append(out, fmt.Sprintf("Consider using words like: %s", strings.Join(head(cfg.Keywords, 3), ", ")))
	}

	if avoidViolations > 0 {
		out = append(out, fmt.Sprintf("Avoid using: %s", strings.Join(head(cfg.Avoid, 2), ", ")))
	}

	switch {
	case cfg.ID == Formal && avoidViolations > 0:
		out = append(out, "Use more formal language and complete sentences")
	case cfg.ID == Friendly && keywordMatches < 2:
		out = append(out, "Add warmer, more personal language")
	case cfg.ID == Urgent && keywordMatches == 0:
		out = append(out, "Clearly state the urgency and timeline")
	}

	return out
}

func head(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
