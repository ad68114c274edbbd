package adaptive

import "testing"

func TestPromotionAfterStrongWindow(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")

	var d Decision
	for _, score := range []float64{8, 9, 8} {
		d = m.RecordScore(session, score)
	}

	if !d.Promoted {
		t.Error("Expected promotion after a strong window")
	}
	if session.Stage != StageMedium {
		t.Errorf("Expected stage medium, got %s", session.Stage)
	}
	if len(session.Window) != 0 {
		t.Errorf("Expected window reset after decision, got %d entries", len(session.Window))
	}
}

func TestPromotionStopsAtHard(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")
	session.Stage = StageHard

	var d Decision
	for _, score := range []float64{10, 10, 10} {
		d = m.RecordScore(session, score)
	}

	if d.Promoted {
		t.Error("Expected no promotion beyond hard")
	}
	if session.Stage != StageHard {
		t.Errorf("Expected stage hard, got %s", session.Stage)
	}
}

func TestDemotionAfterWeakWindow(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")
	session.Stage = StageMedium

	var d Decision
	for _, score := range []float64{2, 3, 1} {
		d = m.RecordScore(session, score)
	}

	if !d.Demoted {
		t.Error("Expected demotion after a weak window")
	}
	if session.Stage != StageEasy {
		t.Errorf("Expected stage easy, got %s", session.Stage)
	}
}

func TestStageHoldsBetweenDecisions(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")

	d := m.RecordScore(session, 10)
	if d.Promoted || d.Demoted {
		t.Error("Expected no stage decision before the window fills")
	}
	if session.Stage != StageEasy {
		t.Errorf("Expected stage easy, got %s", session.Stage)
	}
}

func TestMiddlingWindowHoldsStage(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")
	session.Stage = StageMedium

	var d Decision
	for _, score := range []float64{5, 6, 5} {
		d = m.RecordScore(session, score)
	}

	if d.Promoted || d.Demoted {
		t.Error("Expected middling scores to hold the stage")
	}
	if session.Stage != StageMedium {
		t.Errorf("Expected stage medium, got %s", session.Stage)
	}
}

func TestNextLevelForScore(t *testing.T) {
	m := NewManager(nil)
	cases := []struct {
		score float64
		want  Stage
	}{
		{0, StageEasy},
		{6.9, StageEasy},
		{7, StageHard},
		{10, StageHard},
	}
	for _, tc := range cases {
		if got := m.NextLevelForScore(tc.score); got != tc.want {
			t.Errorf("Expected %s for score %v, got %s", tc.want, tc.score, got)
		}
	}
}

func TestAverageScore(t *testing.T) {
	m := NewManager(nil)
	session := NewSession("s1")

	if session.AverageScore() != 0 {
		t.Errorf("Expected 0 average for empty session, got %f", session.AverageScore())
	}

	m.RecordScore(session, 4)
	m.RecordScore(session, 8)

	if avg := session.AverageScore(); avg != 6 {
		t.Errorf("Expected average 6, got %f", avg)
	}
}
