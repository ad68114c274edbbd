package adaptive

type Stage string

const (
	StageEasy   Stage = "easy"
	StageMedium Stage = "medium"
	StageHard   Stage = "hard"
)

// Session tracks difficulty progression across one continuous test run.
// Scores come from the LLM evaluator on the 0-10 scale.
type Session struct {
	SessionID     string    `json:"session_id"`
	Stage         Stage     `json:"stage"`
	Window        []float64 `json:"window"`
	TotalAnswered int       `json:"total_answered"`
	TotalScore    float64   `json:"total_score"`
}

// Config drives stage transitions.
type Config struct {
	// WindowSize is how many scored answers a stage decision looks at.
	WindowSize int `json:"window_size"`
	// PromoteThreshold is the window mean needed to advance a stage.
	PromoteThreshold float64 `json:"promote_threshold"`
	// DemoteThreshold is the window mean below which a stage is dropped.
	DemoteThreshold float64 `json:"demote_threshold"`
	// StrongScore is the single-answer score that flips the next scenario
	// to hard in the one-shot decision tree.
	StrongScore float64 `json:"strong_score"`
}

// Decision is the outcome of recording one scored answer.
type Decision struct {
	Stage    Stage `json:"stage"`
	Promoted bool  `json:"promoted"`
	Demoted  bool  `json:"demoted"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowSize:       3,
		PromoteThreshold: 7,
		DemoteThreshold:  4,
		StrongScore:      7,
	}
}

func NewSession(sessionID string) *Session {
	return &Session{
		SessionID: sessionID,
		Stage:     StageEasy,
		Window:    []float64{},
	}
}

// AverageScore is the mean over every recorded answer, 0 when none.
func (s *Session) AverageScore() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return s.TotalScore / float64(s.TotalAnswered)
}
