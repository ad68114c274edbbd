package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"assessment-service/internal/adaptive"
)

// Phase is the top-level view state of one test run.
type Phase string

const (
	PhaseAuth      Phase = "auth"
	PhaseSelection Phase = "selection"
	PhaseTest      Phase = "test"
	PhaseReport    Phase = "report"
)

// QuestionState is the per-question sub-cycle inside PhaseTest.
// AwaitingEvaluation only exists while an evaluate call is in flight and is
// never persisted; a snapshot carrying it is treated as corrupt.
type QuestionState string

const (
	StateAwaitingAnswer     QuestionState = "awaiting-answer"
	StateAwaitingEvaluation QuestionState = "awaiting-evaluation"
	StateShowingFeedback    QuestionState = "showing-feedback"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// Snapshot is the single persisted view of a session. All continuity lives
// here; the server keeps no session object.
type Snapshot struct {
	Phase          Phase         `json:"phase"`
	Token          string        `json:"token"`
	UserID         string        `json:"userId"`
	UserName       string        `json:"userName"`
	SessionID      string        `json:"sessionId"`
	Type           string        `json:"type"`
	Domains        []string      `json:"domains"`
	Difficulty     string        `json:"difficulty"`
	RequestedCount int           `json:"requestedCount"`
	Questions      []Question    `json:"questions"`
	Answers        []string      `json:"answers"`
	Results        []EvalResult  `json:"results"`
	QuestionIndex  int           `json:"questionIndex"`
	QuestionState  QuestionState `json:"questionState"`

	// Progress carries the difficulty stage and score window across
	// questions; each evaluation is tagged with the stage it was answered at.
	Progress *adaptive.Session `json:"progress,omitempty"`
}

// Validate checks internal consistency. Any violation means the snapshot
// cannot be resumed and the session restarts from PhaseAuth.
func (s *Snapshot) Validate() error {
	switch s.Phase {
	case PhaseAuth:
		return nil
	case PhaseSelection, PhaseTest, PhaseReport:
	default:
		return fmt.Errorf("unknown phase %q", s.Phase)
	}

	if s.Token == "" || s.UserID == "" {
		return errors.New("authenticated phase without credentials")
	}
	if s.Phase == PhaseSelection {
		return nil
	}

	if s.RequestedCount <= 0 {
		return errors.New("test without a requested question count")
	}
	if len(s.Questions) == 0 {
		return errors.New("test without questions")
	}
	if len(s.Results) > len(s.Questions) {
		return errors.New("more results than questions")
	}

	if s.Phase == PhaseReport {
		return nil
	}

	if s.Progress == nil {
		return errors.New("test without difficulty progression")
	}
	switch s.Progress.Stage {
	case adaptive.StageEasy, adaptive.StageMedium, adaptive.StageHard:
	default:
		return fmt.Errorf("unknown difficulty stage %q", s.Progress.Stage)
	}

	if s.QuestionIndex < 0 || s.QuestionIndex >= len(s.Questions) {
		return fmt.Errorf("question index %d out of range", s.QuestionIndex)
	}
	switch s.QuestionState {
	case StateAwaitingAnswer:
		if len(s.Results) != s.QuestionIndex {
			return errors.New("result count does not match question index")
		}
	case StateShowingFeedback:
		if len(s.Results) != s.QuestionIndex+1 {
			return errors.New("feedback shown without a result")
		}
	default:
		return fmt.Errorf("unresumable question state %q", s.QuestionState)
	}
	return nil
}

// Store persists one snapshot blob.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	Path string
}

func (f *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileStore) Save(data []byte) error {
	return os.WriteFile(f.Path, data, 0o600)
}

// Report summarizes a finished run. Accuracy uses the requested question
// count as the denominator, so a dropped evaluation lowers the score instead
// of silently shrinking the base.
type Report struct {
	Scores    []float64 `json:"scores"`
	Accuracy  float64   `json:"accuracy"`
	MeanScore float64   `json:"meanScore"`
}

// Session drives one user through the test flow against a service instance.
type Session struct {
	api    *Client
	store  Store
	stages *adaptive.Manager
	snap   Snapshot
}

// Restore loads the persisted snapshot, falling back to a fresh PhaseAuth
// session when none exists or the stored one fails validation.
func Restore(store Store, api *Client) *Session {
	s := &Session{api: api, store: store, stages: adaptive.NewManager(nil), snap: Snapshot{Phase: PhaseAuth}}
	data, err := store.Load()
	if err != nil || len(data) == 0 {
		return s
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return s
	}
	if err := snap.Validate(); err != nil {
		return s
	}
	s.snap = snap
	api.SetToken(snap.Token)
	return s
}

func (s *Session) Phase() Phase       { return s.snap.Phase }
func (s *Session) Snapshot() Snapshot { return s.snap }

// CurrentQuestion returns the question awaiting an answer, or nil outside
// PhaseTest.
func (s *Session) CurrentQuestion() *Question {
	if s.snap.Phase != PhaseTest {
		return nil
	}
	return &s.snap.Questions[s.snap.QuestionIndex]
}

// CurrentResult returns the evaluation of the current question once
// feedback is available.
func (s *Session) CurrentResult() *EvalResult {
	if s.snap.Phase != PhaseTest || s.snap.QuestionState != StateShowingFeedback {
		return nil
	}
	return &s.snap.Results[s.snap.QuestionIndex]
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	if s.snap.Phase != PhaseAuth {
		return fmt.Errorf("%w: login from %s", ErrInvalidTransition, s.snap.Phase)
	}
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.snap = Snapshot{
		Phase:    PhaseSelection,
		Token:    s.api.Token(),
		UserID:   user.ID,
		UserName: user.Name,
	}
	return s.save()
}

// StartTest fetches the questions and enters PhaseTest on the first one.
func (s *Session) StartTest(ctx context.Context, typ string, domains []string, difficulty string, count int) error {
	if s.snap.Phase != PhaseSelection {
		return fmt.Errorf("%w: start test from %s", ErrInvalidTransition, s.snap.Phase)
	}
	if count <= 0 {
		count = 1
	}
	questions, err := s.api.GenerateAssessment(ctx, typ, domains, count, difficulty)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return errors.New("no questions generated")
	}

	s.snap.Phase = PhaseTest
	s.snap.Type = typ
	s.snap.Domains = domains
	s.snap.Difficulty = difficulty
	s.snap.RequestedCount = count
	s.snap.SessionID = newSessionID()
	s.snap.Progress = adaptive.NewSession(s.snap.SessionID)
	s.snap.Questions = questions
	s.snap.Answers = nil
	s.snap.Results = nil
	s.snap.QuestionIndex = 0
	s.snap.QuestionState = StateAwaitingAnswer
	return s.save()
}

// SubmitAnswer evaluates the current question. On evaluation failure the
// question stays answerable.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) error {
	if s.snap.Phase != PhaseTest || s.snap.QuestionState != StateAwaitingAnswer {
		return fmt.Errorf("%w: submit in phase %s state %s", ErrInvalidTransition, s.snap.Phase, s.snap.QuestionState)
	}

	s.snap.QuestionState = StateAwaitingEvaluation
	result, _, err := s.api.Evaluate(ctx, s.snap.UserID, s.CurrentQuestionText(), answer,
		s.snap.SessionID, s.snap.Domains, s.snap.Type, string(s.snap.Progress.Stage))
	if err != nil {
		s.snap.QuestionState = StateAwaitingAnswer
		return err
	}

	s.snap.Answers = append(s.snap.Answers, answer)
	s.snap.Results = append(s.snap.Results, *result)
	s.stages.RecordScore(s.snap.Progress, result.Score)
	s.snap.QuestionState = StateShowingFeedback
	return s.save()
}

// Stage is the difficulty the next answer will be evaluated at.
func (s *Session) Stage() adaptive.Stage {
	if s.snap.Progress == nil {
		return ""
	}
	return s.snap.Progress.Stage
}

func (s *Session) CurrentQuestionText() string {
	if q := s.CurrentQuestion(); q != nil {
		return q.Challenge
	}
	return ""
}

// ExpireTimer auto-submits a placeholder answer when the countdown runs out.
// A question that already has a result is left alone, so a late timer firing
// after a manual submit is a no-op.
func (s *Session) ExpireTimer(ctx context.Context) error {
	if s.snap.Phase != PhaseTest {
		return nil
	}
	if len(s.snap.Results) > s.snap.QuestionIndex {
		return nil
	}
	if s.snap.QuestionState != StateAwaitingAnswer {
		return nil
	}
	return s.SubmitAnswer(ctx, "No answer provided.")
}

// Advance moves past the feedback view to the next question, or to the
// report once every question has a result.
func (s *Session) Advance() error {
	if s.snap.Phase != PhaseTest || s.snap.QuestionState != StateShowingFeedback {
		return fmt.Errorf("%w: advance in phase %s state %s", ErrInvalidTransition, s.snap.Phase, s.snap.QuestionState)
	}
	if s.snap.QuestionIndex+1 >= len(s.snap.Questions) {
		s.snap.Phase = PhaseReport
		return s.save()
	}
	s.snap.QuestionIndex++
	s.snap.QuestionState = StateAwaitingAnswer
	return s.save()
}

// Report aggregates the collected scores into a session accuracy percentage.
func (s *Session) Report() (*Report, error) {
	if s.snap.Phase != PhaseReport {
		return nil, fmt.Errorf("%w: report from %s", ErrInvalidTransition, s.snap.Phase)
	}
	scores := make([]float64, 0, len(s.snap.Results))
	total := 0.0
	for _, r := range s.snap.Results {
		scores = append(scores, r.Score)
		total += r.Score
	}
	accuracy := total / (10 * float64(s.snap.RequestedCount)) * 100
	report := &Report{Scores: scores, Accuracy: accuracy}
	if s.snap.Progress != nil {
		report.MeanScore = s.snap.Progress.AverageScore()
	}
	return report, nil
}

// Reset returns to PhaseSelection for another run, keeping the login.
func (s *Session) Reset() error {
	if s.snap.Phase == PhaseAuth {
		return nil
	}
	s.snap = Snapshot{
		Phase:    PhaseSelection,
		Token:    s.snap.Token,
		UserID:   s.snap.UserID,
		UserName: s.snap.UserName,
	}
	return s.save()
}

func (s *Session) save() error {
	data, err := json.Marshal(s.snap)
	if err != nil {
		return err
	}
	return s.store.Save(data)
}

func newSessionID() string {
	return fmt.Sprintf("%d_%d", time.Now().UnixNano(), rand.Intn(100000))
}
