package adaptive

// Manager decides how challenge difficulty moves as answers are scored.
type Manager struct {
	config *Config
}

func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{config: config}
}

// RecordScore folds one scored answer into the session and decides whether
// the difficulty stage moves. A stage decision is made every WindowSize
// answers; between decisions the stage holds.
func (m *Manager) RecordScore(session *Session, score float64) Decision {
	session.TotalAnswered++
	session.TotalScore += score
	session.Window = append(session.Window, score)

	decision := Decision{Stage: session.Stage}

	if len(session.Window) < m.config.WindowSize {
		return decision
	}

	mean := 0.0
	for _, s := range session.Window {
		mean += s
	}
	mean /= float64(len(session.Window))
	session.Window = session.Window[:0]

	switch {
	case mean >= m.config.PromoteThreshold:
		if next, ok := nextStage(session.Stage); ok {
			session.Stage = next
			decision.Promoted = true
		}
	case mean < m.config.DemoteThreshold:
		if prev, ok := prevStage(session.Stage); ok {
			session.Stage = prev
			decision.Demoted = true
		}
	}

	decision.Stage = session.Stage
	return decision
}

// NextLevelForScore is the one-shot decision tree used by the single
// evaluate flow: a strong answer jumps straight to a hard follow-up,
// anything else stays easy.
func (m *Manager) NextLevelForScore(score float64) Stage {
	if score >= m.config.StrongScore {
		return StageHard
	}
	return StageEasy
}

func nextStage(s Stage) (Stage, bool) {
	switch s {
	case StageEasy:
		return StageMedium, true
	case StageMedium:
		return StageHard, true
	}
	return s, false
}

func prevStage(s Stage) (Stage, bool) {
	switch s {
	case StageHard:
		return StageMedium, true
	case StageMedium:
		return StageEasy, true
	}
	return s, false
}
