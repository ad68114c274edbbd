// Package prompt builds the instruction strings sent to the LLM. Every
// builder ends with an explicit directive describing the exact JSON shape
// the model must return, so the gateway can run in JSON mode and the
// extractor has a fixed contract to parse against.
package prompt

import (
	"fmt"
	"strings"

	"assessment-service/internal/models"
)

type GenerateParams struct {
	Type       string
	Domains    []string
	Difficulty string
	Count      int
	Previous   []models.AnsweredChallenge
	// Seed disambiguates otherwise-identical "general" prompts so the model
	// does not return cached trivia. Callers pass a time-based value.
	Seed int64
}

// IsGeneralDomain reports whether the domain list falls back to general
// knowledge (empty list or an explicit "general" entry).
func IsGeneralDomain(domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	for _, d := range domains {
		if strings.EqualFold(strings.TrimSpace(d), "general") {
			return true
		}
	}
	return false
}

// Generate builds the challenge-generation prompt.
func Generate(p GenerateParams) string {
	difficulty := p.Difficulty
	if difficulty == "" {
		difficulty = models.DefaultDifficulty
	}
	count := p.Count
	if count <= 0 {
		count = 1
	}

	domainLabel := "general knowledge"
	if !IsGeneralDomain(p.Domains) {
		domainLabel = strings.Join(p.Domains, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are an AI assessor generating quiz challenges.\n")
	fmt.Fprintf(&sb, "Generate %d %s question(s) on: %s.\n", count, difficulty, domainLabel)

	switch p.Type {
	case models.TypeMultipleChoice:
		sb.WriteString("Each question must be multiple-choice with exactly 4 options, ")
		sb.WriteString("of which exactly one is correct.\n")
	case models.TypeAdaptive:
		sb.WriteString("Each question is an open-ended scenario the candidate answers in free text.\n")
	default:
		sb.WriteString("Each question is answered in free text.\n")
	}

	if len(p.Previous) > 0 {
		sb.WriteString("\nThe candidate already answered the following. Probe different ground and adjust difficulty to their performance:\n")
		for i, qa := range p.Previous {
			fmt.Fprintf(&sb, "%d. Q: %s\n   A: %s\n", i+1, qa.Challenge, qa.Answer)
		}
	}

	if IsGeneralDomain(p.Domains) {
		fmt.Fprintf(&sb, "\nVariation seed: %d. Produce fresh questions, not common trivia.\n", p.Seed)
	}

	sb.WriteString("\nReturn ONLY a JSON object of this exact shape, no prose:\n")
	if p.Type == models.TypeMultipleChoice {
		sb.WriteString(`{"questions": [{"challenge": "<question text>", "options": ["<a>", "<b>", "<c>", "<d>"]}]}`)
	} else {
		sb.WriteString(`{"questions": [{"challenge": "<question text>"}]}`)
	}
	sb.WriteString("\n")

	return sb.String()
}

// Evaluate builds the single-answer scoring prompt.
func Evaluate(challenge, answer string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assessor.\n")
	sb.WriteString("Challenge: " + challenge + "\n")
	sb.WriteString("Candidate answer: " + answer + "\n\n")
	sb.WriteString("Evaluate the answer. Score it from 0 to 10 and give one sentence of feedback.\n")
	sb.WriteString("Return ONLY a JSON object of this exact shape, no prose:\n")
	sb.WriteString(`{"score": <number 0-10>, "feedback": "<one sentence>"}`)
	sb.WriteString("\n")
	return sb.String()
}

// EvaluateBatch builds one prompt scoring every answered challenge in order.
// The results array must align positionally with the input answers.
func EvaluateBatch(answers []models.AnsweredChallenge) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assessor.\n")
	fmt.Fprintf(&sb, "Evaluate the following %d answered challenges.\n\n", len(answers))
	for i, qa := range answers {
		fmt.Fprintf(&sb, "%d. Challenge: %s\n   Answer: %s\n", i+1, qa.Challenge, qa.Answer)
	}
	sb.WriteString("\nScore each from 0 to 10 with one sentence of feedback each.\n")
	sb.WriteString("The results array must have one entry per challenge, in the same order as above.\n")
	sb.WriteString("Return ONLY a JSON object of this exact shape, no prose:\n")
	sb.WriteString(`{"results": [{"score": <number 0-10>, "feedback": "<one sentence>"}]}`)
	sb.WriteString("\n")
	return sb.String()
}

// EvaluateAndGenerate builds the combined scoring plus next-scenario prompt
// used by the continuous scenario flow. The follow-up difficulty follows the
// score the model itself assigns: strong answers earn a hard scenario.
func EvaluateAndGenerate(scenario, answer string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assessor for behavioral scenarios.\n")
	sb.WriteString("Scenario: " + scenario + "\n")
	sb.WriteString("Candidate answer: " + answer + "\n\n")
	sb.WriteString("Evaluate the answer: an overall score, a tone score and a logic score, each 0 to 10, plus one sentence of feedback.\n")
	sb.WriteString("Then write the next scenario: hard if the overall score is 7 or above, easy otherwise.\n")
	sb.WriteString("Return ONLY a JSON object of this exact shape, no prose:\n")
	sb.WriteString(`{"score": <0-10>, "tone": <0-10>, "logic": <0-10>, "feedback": "<one sentence>", "nextScenario": "<scenario text>"}`)
	sb.WriteString("\n")
	return sb.String()
}
