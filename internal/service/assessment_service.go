package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/llm"
	"assessment-service/internal/models"
	"assessment-service/internal/prompt"
	"assessment-service/internal/utils"
)

// ErrResultMismatch means the model broke positional alignment between the
// submitted answers and the returned results.
var ErrResultMismatch = errors.New("result count does not match answer count")

// Gateway is the single outbound LLM call.
type Gateway interface {
	Complete(ctx context.Context, userPrompt string) (string, error)
}

// AssessmentStore is the append-only record store.
type AssessmentStore interface {
	Insert(ctx context.Context, record *models.AssessmentRecord) error
	InsertBatch(ctx context.Context, records []models.AssessmentRecord) error
	FindByUser(ctx context.Context, userID string, limit int64) ([]models.AssessmentRecord, error)
	AverageScoreForUser(ctx context.Context, userID string) (float64, error)
}

// SkillLevelUpdater persists a recomputed skill level on the user.
type SkillLevelUpdater interface {
	UpdateSkillLevel(ctx context.Context, id string, level string) error
}

type AssessmentService struct {
	Store    AssessmentStore
	Users    SkillLevelUpdater
	LLM      Gateway
	Adaptive *adaptive.Manager
}

func NewAssessmentService(store AssessmentStore, users SkillLevelUpdater, gateway Gateway) *AssessmentService {
	return &AssessmentService{
		Store:    store,
		Users:    users,
		LLM:      gateway,
		Adaptive: adaptive.NewManager(nil),
	}
}

// GenerateChallenges builds the generation prompt, makes one LLM call and
// returns the parsed questions. Nothing is persisted; challenges are
// transient until answered.
func (s *AssessmentService) GenerateChallenges(ctx context.Context, req models.GenerateRequest) ([]models.Challenge, error) {
	raw, err := s.LLM.Complete(ctx, prompt.Generate(prompt.GenerateParams{
		Type:       req.Type,
		Domains:    req.Domains,
		Difficulty: req.Difficulty,
		Count:      req.Limit,
		Seed:       time.Now().UnixNano(),
	}))
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions []models.Challenge `json:"questions"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrBadJSON, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("%w: empty questions array", llm.ErrBadJSON)
	}
	return out.Questions, nil
}

// Evaluate scores one answer, persists the record and returns the result
// together with the next difficulty level from the decision tree.
func (s *AssessmentService) Evaluate(ctx context.Context, req models.EvaluateRequest) (*models.EvalResult, adaptive.Stage, error) {
	raw, err := s.LLM.Complete(ctx, prompt.Evaluate(req.Challenge, req.Answer))
	if err != nil {
		return nil, "", err
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, "", err
	}

	var result models.EvalResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, "", fmt.Errorf("%w: %v", llm.ErrBadJSON, err)
	}
	if err := llm.ValidateScore(result.Score); err != nil {
		return nil, "", err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = utils.GenerateSessionID()
	}
	record := s.buildRecord(req.UserID, req.Domains, sessionID, req.Type, req.Difficulty, req.Challenge, req.Answer, result)
	if err := s.Store.Insert(ctx, &record); err != nil {
		return nil, "", err
	}
	s.refreshSkillLevel(ctx, req.UserID)

	return &result, s.Adaptive.NextLevelForScore(result.Score), nil
}

// EvaluateBatch scores every answered challenge of one session in a single
// LLM call and persists them as one batch write. Results align positionally
// with the input answers. An empty answers slice is answered locally; no
// external call is made for zero work.
func (s *AssessmentService) EvaluateBatch(ctx context.Context, req models.EvaluateBatchRequest) ([]models.EvalResult, error) {
	if len(req.Answers) == 0 {
		return []models.EvalResult{}, nil
	}

	raw, err := s.LLM.Complete(ctx, prompt.EvaluateBatch(req.Answers))
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		Results []models.EvalResult `json:"results"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrBadJSON, err)
	}
	if len(out.Results) != len(req.Answers) {
		return nil, fmt.Errorf("%w: %d answers, %d results", ErrResultMismatch, len(req.Answers), len(out.Results))
	}
	for _, r := range out.Results {
		if err := llm.ValidateScore(r.Score); err != nil {
			return nil, err
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = utils.GenerateSessionID()
	}

	records := make([]models.AssessmentRecord, len(req.Answers))
	for i, qa := range req.Answers {
		records[i] = s.buildRecord(req.UserID, req.Domains, sessionID, req.Type, req.Difficulty, qa.Challenge, qa.Answer, out.Results[i])
	}
	if err := s.Store.InsertBatch(ctx, records); err != nil {
		return nil, err
	}
	s.refreshSkillLevel(ctx, req.UserID)

	return out.Results, nil
}

// EvaluateAndGenerate scores one scenario answer and produces the follow-up
// scenario in the same LLM round trip.
func (s *AssessmentService) EvaluateAndGenerate(ctx context.Context, req models.EvaluateAndGenerateRequest) (*models.ScenarioEvaluation, error) {
	raw, err := s.LLM.Complete(ctx, prompt.EvaluateAndGenerate(req.CurrentScenario, req.UserAnswer))
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var eval models.ScenarioEvaluation
	if err := json.Unmarshal(payload, &eval); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrBadJSON, err)
	}
	for _, score := range []float64{eval.Score, eval.Tone, eval.Logic} {
		if err := llm.ValidateScore(score); err != nil {
			return nil, err
		}
	}
	eval.NextLevel = string(s.Adaptive.NextLevelForScore(eval.Score))

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DefaultDifficulty
	}
	record := models.AssessmentRecord{
		UserID:     req.UserID,
		Domain:     "scenario",
		Challenge:  req.CurrentScenario,
		Answer:     req.UserAnswer,
		Score:      eval.Score,
		Feedback:   eval.Feedback,
		Tone:       eval.Tone,
		Logic:      eval.Logic,
		SessionID:  req.SessionID,
		Type:       models.TypeAdaptive,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}
	if record.SessionID == "" {
		record.SessionID = utils.GenerateSessionID()
	}
	if err := s.Store.Insert(ctx, &record); err != nil {
		return nil, err
	}
	s.refreshSkillLevel(ctx, req.UserID)

	return &eval, nil
}

// History returns the user's records newest first. No data is an empty
// list, not an error.
func (s *AssessmentService) History(ctx context.Context, userID string, limit int64) ([]models.AssessmentRecord, error) {
	return s.Store.FindByUser(ctx, userID, limit)
}

func (s *AssessmentService) buildRecord(userID string, domains []string, sessionID, typ, difficulty, challenge, answer string, result models.EvalResult) models.AssessmentRecord {
	if typ == "" {
		typ = models.TypeGeneral
	}
	if difficulty == "" {
		difficulty = models.DefaultDifficulty
	}
	domain := "general"
	if !prompt.IsGeneralDomain(domains) {
		domain = strings.Join(domains, ", ")
	}
	return models.AssessmentRecord{
		UserID:     userID,
		Domain:     domain,
		Challenge:  challenge,
		Answer:     answer,
		Score:      result.Score,
		Feedback:   result.Feedback,
		SessionID:  sessionID,
		Type:       typ,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}
}

// refreshSkillLevel recomputes the user's level from their full history.
// Best effort: a failure here must not fail the evaluation that triggered it.
func (s *AssessmentService) refreshSkillLevel(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	avg, err := s.Store.AverageScoreForUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to compute average score for %s: %v", userID, err)
		return
	}
	if err := s.Users.UpdateSkillLevel(ctx, userID, models.SkillLevelForAverage(avg)); err != nil {
		log.Printf("Failed to update skill level for %s: %v", userID, err)
	}
}
