package normalize

// Package normalize parses the model's raw output into the fixed result
// schema. The model's own label is never trusted: the likelihood ranking is
// recomputed from the score here, so the two fields cannot disagree.

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
)

// Likelihood rankings, in ascending score order.
const (
	HighlyUnlikely = "Highly Unlikely"
	Unlikely       = "Unlikely"
	SomewhatLikely = "Somewhat Likely"
	Likely         = "Likely"
	HighlyLikely   = "Highly Likely"
)

// maxExplanationWords is the soft cap on explanation length.
const maxExplanationWords = 40

// jsonBlockRe locates a JSON object inside surrounding prose, for models that
// wrap the structured block in commentary despite instructions.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// rawAssessment is the tolerant decode target for the model's JSON block.
// Score arrives as number or numeric string depending on the model's mood.
type rawAssessment struct {
	PercentageScore   any    `json:"percentage_score"`
	LikelihoodRanking string `json:"likelihood_ranking"`
	Explanation       string `json:"explanation"`
}

// Assessment parses raw model output into a CoverageAssessment. An
// out-of-range score is clamped, never rejected; a missing score or a
// genuinely empty explanation is apperr.MalformedModelOutput.
func Assessment(raw string) (*model.CoverageAssessment, error) {
	block := locateJSON(raw)
	if block == "" {
		return nil, apperr.MalformedModelOutput("no JSON object found in model output")
	}

	var parsed rawAssessment
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, apperr.MalformedModelOutput("model output is not valid JSON")
	}

	score, ok := coerceScore(parsed.PercentageScore)
	if !ok {
		return nil, apperr.MalformedModelOutput("model output has no parseable percentage score")
	}
	score = clamp(score, 0, 100)

	explanation := strings.TrimSpace(parsed.Explanation)
	if explanation == "" {
		return nil, apperr.MalformedModelOutput("model output has no explanation")
	}

	return &model.CoverageAssessment{
		PercentageScore:   score,
		LikelihoodRanking: Rank(score),
		Explanation:       capWords(explanation, maxExplanationWords),
	}, nil
}

// Rank maps a score in [0,100] to its likelihood ranking. The boundaries are
// the authoritative business rule; change them here and nowhere else.
func Rank(score int) string {
	switch {
	case score <= 20:
		return HighlyUnlikely
	case score <= 50:
		return Unlikely
	case score <= 65:
		return SomewhatLikely
	case score <= 80:
		return Likely
	default:
		return HighlyLikely
	}
}

// locateJSON returns the raw text itself if it already is a JSON object, or
// the first JSON-looking block embedded in prose.
func locateJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return jsonBlockRe.FindString(raw)
}

// coerceScore accepts a JSON number or a numeric string; floats are rounded.
func coerceScore(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n)), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(math.Round(f)), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// capWords trims text to at most max words. When the cut would land
// mid-sentence, it backs up to the last sentence end within the window if one
// exists reasonably far in, so truncation stays readable. It never invents or
// pads text.
func capWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return strings.Join(words, " ")
	}

	window := words[:max]
	for i := max - 1; i >= max/2; i-- {
		if endsSentence(window[i]) {
			return strings.Join(window[:i+1], " ")
		}
	}
	return strings.Join(window, " ")
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
