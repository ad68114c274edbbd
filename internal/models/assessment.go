package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeAdaptive       = "adaptive"
	TypeMultipleChoice = "multiple-choice"
	TypeGeneral        = "general"
)

// DefaultDifficulty is used whenever a request omits the difficulty field.
const DefaultDifficulty = "Beginner"

// Challenge is a generated question. It is never persisted on its own; once
// answered it is folded into an AssessmentRecord.
type Challenge struct {
	Challenge string   `json:"challenge"`
	Options   []string `json:"options,omitempty"`
}

// AssessmentRecord is one evaluated answer. Records are append-only and
// belong to exactly one user, keyed by the user's ObjectID hex string.
type AssessmentRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Domain     string             `bson:"domain" json:"domain"`
	Challenge  string             `bson:"challenge" json:"challenge"`
	Answer     string             `bson:"answer" json:"answer"`
	Score      float64            `bson:"score" json:"score"`
	Feedback   string             `bson:"feedback" json:"feedback"`
	Tone       float64            `bson:"tone,omitempty" json:"tone,omitempty"`
	Logic      float64            `bson:"logic,omitempty" json:"logic,omitempty"`
	SessionID  string             `bson:"session_id" json:"session_id"`
	Type       string             `bson:"type" json:"type"`
	Difficulty string             `bson:"difficulty" json:"difficulty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type GenerateRequest struct {
	Type       string   `json:"type"`
	Domains    []string `json:"domains"`
	Limit      int      `json:"limit"`
	Difficulty string   `json:"difficulty"`
}

type AnsweredChallenge struct {
	Challenge string `json:"challenge"`
	Answer    string `json:"answer"`
}

type EvaluateRequest struct {
	UserID     string   `json:"userId"`
	Challenge  string   `json:"challenge"`
	Answer     string   `json:"answer"`
	Domains    []string `json:"domains"`
	SessionID  string   `json:"sessionId"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
}

type EvaluateBatchRequest struct {
	UserID     string              `json:"userId"`
	Username   string              `json:"username"`
	Answers    []AnsweredChallenge `json:"answers"`
	Domains    []string            `json:"domains"`
	SessionID  string              `json:"sessionId"`
	Type       string              `json:"type"`
	Difficulty string              `json:"difficulty"`
}

type EvaluateAndGenerateRequest struct {
	UserID          string `json:"userId"`
	CurrentScenario string `json:"currentScenario"`
	UserAnswer      string `json:"userAnswer"`
	SessionID       string `json:"sessionId"`
	// Difficulty is the level of the scenario being answered, not of the
	// follow-up the response proposes.
	Difficulty string `json:"difficulty"`
}

// EvalResult is one scored answer as returned to the client.
type EvalResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// ScenarioEvaluation is the extended single-answer evaluation used by the
// combined evaluate-and-generate flow.
type ScenarioEvaluation struct {
	Score        float64 `json:"score"`
	Tone         float64 `json:"tone"`
	Logic        float64 `json:"logic"`
	Feedback     string  `json:"feedback"`
	NextScenario string  `json:"nextScenario"`
	NextLevel    string  `json:"nextLevel"`
}
