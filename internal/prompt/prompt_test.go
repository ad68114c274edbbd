package prompt

import (
	"strings"
	"testing"

	"assessment-service/internal/models"
)

func TestGenerateMultipleChoiceRequestsFourOptions(t *testing.T) {
	p := Generate(GenerateParams{
		Type:       models.TypeMultipleChoice,
		Domains:    []string{"math"},
		Difficulty: "Beginner",
		Count:      1,
	})

	if !strings.Contains(p, "exactly 4 options") {
		t.Errorf("Expected prompt to request exactly 4 options, got:\n%s", p)
	}
	if !strings.Contains(p, "exactly one is correct") {
		t.Errorf("Expected prompt to request exactly one correct option, got:\n%s", p)
	}
	if !strings.Contains(p, `"options"`) {
		t.Errorf("Expected JSON directive to include options field, got:\n%s", p)
	}
}

func TestGenerateGeneralDomainEmbedsDisambiguator(t *testing.T) {
	first := Generate(GenerateParams{Type: models.TypeGeneral, Domains: []string{"general"}, Seed: 1111})
	second := Generate(GenerateParams{Type: models.TypeGeneral, Domains: []string{"general"}, Seed: 2222})

	if first == second {
		t.Error("Expected different seeds to produce different general prompts")
	}
	if !strings.Contains(first, "1111") {
		t.Errorf("Expected seed to be embedded in prompt, got:\n%s", first)
	}
}

func TestGenerateSpecificDomainHasNoSeed(t *testing.T) {
	p := Generate(GenerateParams{Type: models.TypeAdaptive, Domains: []string{"networking"}, Seed: 9999})
	if strings.Contains(p, "9999") {
		t.Errorf("Expected no disambiguator for a specific domain, got:\n%s", p)
	}
	if !strings.Contains(p, "networking") {
		t.Errorf("Expected domain label in prompt, got:\n%s", p)
	}
}

func TestGenerateDefaults(t *testing.T) {
	p := Generate(GenerateParams{Type: models.TypeGeneral})
	if !strings.Contains(p, models.DefaultDifficulty) {
		t.Errorf("Expected empty difficulty to default to %s, got:\n%s", models.DefaultDifficulty, p)
	}
	if !strings.Contains(p, "Generate 1 ") {
		t.Errorf("Expected zero count to default to 1, got:\n%s", p)
	}
}

func TestEvaluateBatchAlignmentDirective(t *testing.T) {
	answers := []models.AnsweredChallenge{
		{Challenge: "What is TCP?", Answer: "A transport protocol"},
		{Challenge: "What is UDP?", Answer: "Another one"},
	}
	p := EvaluateBatch(answers)

	if !strings.Contains(p, "2 answered challenges") {
		t.Errorf("Expected batch prompt to state the answer count, got:\n%s", p)
	}
	if !strings.Contains(p, "same order") {
		t.Errorf("Expected batch prompt to demand positional alignment, got:\n%s", p)
	}
	if !strings.Contains(p, "1. Challenge: What is TCP?") || !strings.Contains(p, "2. Challenge: What is UDP?") {
		t.Errorf("Expected challenges numbered in input order, got:\n%s", p)
	}
}

func TestEvaluateAndGenerateMentionsNextLevel(t *testing.T) {
	p := EvaluateAndGenerate("A client is angry.", "I apologize.")
	if !strings.Contains(p, "hard if the overall score is 7 or above") {
		t.Errorf("Expected difficulty rule in prompt, got:\n%s", p)
	}
	if !strings.Contains(p, "nextScenario") {
		t.Errorf("Expected nextScenario field in JSON directive, got:\n%s", p)
	}
}

func TestIsGeneralDomain(t *testing.T) {
	cases := []struct {
		name    string
		domains []string
		want    bool
	}{
		{"empty", nil, true},
		{"explicit general", []string{"General"}, true},
		{"mixed", []string{"math", "general"}, true},
		{"specific", []string{"math", "physics"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsGeneralDomain(tc.domains); got != tc.want {
				t.Errorf("Expected %v for %v, got %v", tc.want, tc.domains, got)
			}
		})
	}
}
