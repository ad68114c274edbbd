package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"score": 8, "feedback": "Good"}`,
			want: `{"score": 8, "feedback": "Good"}`,
		},
		{
			name: "json code fence",
			raw:  "```json\n{\"score\": 8, \"feedback\": \"Good\"}\n```",
			want: `{"score": 8, "feedback": "Good"}`,
		},
		{
			name: "plain code fence",
			raw:  "```\n{\"score\": 5}\n```",
			want: `{"score": 5}`,
		},
		{
			name: "prose preamble and trailing commentary",
			raw:  "Sure! Here is the evaluation:\n{\"score\": 7, \"feedback\": \"Fine\"}\nHope this helps.",
			want: `{"score": 7, "feedback": "Fine"}`,
		},
		{
			name: "array payload",
			raw:  "The results are: [1, 2, 3] as requested.",
			want: `[1, 2, 3]`,
		},
		{
			name: "nested object inside prose",
			raw:  "Result: {\"results\": [{\"score\": 9, \"feedback\": \"ok\"}]} done",
			want: `{"results": [{"score": 9, "feedback": "ok"}]}`,
		},
		{
			name: "whitespace around payload",
			raw:  "  \n\t{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.raw)
			if err != nil {
				t.Fatalf("Expected extraction to succeed, got error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, string(got))
			}
			if !json.Valid(got) {
				t.Errorf("Expected extracted span to be valid JSON, got %s", string(got))
			}
		})
	}
}

func TestExtractJSONNoPayload(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"plain prose", "I cannot answer that question."},
		{"empty input", ""},
		{"only whitespace", "   \n\t "},
		{"opener without closer", "here is {\"score\": 8 and nothing else"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractJSON(tc.raw)
			if err == nil {
				t.Fatal("Expected an error for input with no JSON payload")
			}
			if !errors.Is(err, ErrNoJSON) && !errors.Is(err, ErrBadJSON) {
				t.Errorf("Expected a typed extraction error, got %v", err)
			}
		})
	}
}

func TestExtractJSONMalformedSpan(t *testing.T) {
	_, err := ExtractJSON(`prefix {"score": oops,} suffix`)
	if !errors.Is(err, ErrBadJSON) {
		t.Errorf("Expected ErrBadJSON, got %v", err)
	}
}

func TestValidateScore(t *testing.T) {
	cases := []struct {
		name    string
		score   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"mid", 7.5, false},
		{"max", 10, false},
		{"negative", -1, true},
		{"above range", 11, true},
		{"way above", 100, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateScore(tc.score)
			if tc.wantErr && !errors.Is(err, ErrScoreOutOfRange) {
				t.Errorf("Expected ErrScoreOutOfRange for %v, got %v", tc.score, err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected %v to be valid, got %v", tc.score, err)
			}
		})
	}
}
