package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Extraction failures are typed so callers can distinguish "the model sent
// no JSON at all" from "the model sent something brace-shaped but broken".
var (
	ErrNoJSON          = errors.New("no JSON payload found in model output")
	ErrBadJSON         = errors.New("model output contains malformed JSON")
	ErrScoreOutOfRange = errors.New("score outside valid range 0-10")
)

// ExtractJSON locates a JSON object or array embedded in free-form model
// output. Code fences are stripped first; otherwise the span from the first
// opening brace or bracket to the last matching closer is tried. JSON mode
// makes this a fallback path, not the primary contract.
func ExtractJSON(raw string) (json.RawMessage, error) {
	s := stripFences(strings.TrimSpace(raw))
	if s == "" {
		return nil, ErrNoJSON
	}

	if s[0] == '{' || s[0] == '[' {
		if json.Valid([]byte(s)) {
			return json.RawMessage(s), nil
		}
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, ErrNoJSON
	}

	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end <= start {
		return nil, ErrNoJSON
	}

	span := s[start : end+1]
	if !json.Valid([]byte(span)) {
		return nil, ErrBadJSON
	}
	return json.RawMessage(span), nil
}

// stripFences removes a leading markdown code fence (``` or ```json) and
// its closing fence if present.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return ""
	}
	s = strings.TrimSpace(s[nl+1:])
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ValidateScore rejects scores the model returned outside the declared 0-10
// range. Out-of-range values are an extraction-class failure, never silently
// persisted or aggregated.
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 10 {
		return fmt.Errorf("%w: got %v", ErrScoreOutOfRange, score)
	}
	return nil
}
