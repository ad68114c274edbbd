// Package client is a Go consumer of the assessment service: a typed HTTP
// client for every route plus a session state machine mirroring the test
// flow (auth, domain selection, question loop, report).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Question is one generated challenge. Options is present only for
// multiple-choice assessments.
type Question struct {
	Challenge string   `json:"challenge"`
	Options   []string `json:"options,omitempty"`
}

type EvalResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type ScenarioResult struct {
	Score        float64 `json:"score"`
	Tone         float64 `json:"tone"`
	Logic        float64 `json:"logic"`
	Feedback     string  `json:"feedback"`
	NextScenario string  `json:"nextScenario"`
	NextLevel    string  `json:"nextLevel"`
}

type HistoryRecord struct {
	UserID     string    `json:"user_id"`
	Domain     string    `json:"domain"`
	Challenge  string    `json:"challenge"`
	Answer     string    `json:"answer"`
	Score      float64   `json:"score"`
	Feedback   string    `json:"feedback"`
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type AnsweredChallenge struct {
	Challenge string `json:"challenge"`
	Answer    string `json:"answer"`
}

// Client talks to one assessment service instance. Not safe for concurrent
// use while a login is in flight; the bearer token is plain mutable state.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 150 * time.Second},
	}
}

// SetToken installs a bearer token obtained outside Login, e.g. from a
// restored session snapshot.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.post(ctx, "/register", body, nil)
}

// Login authenticates and remembers the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.post(ctx, "/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

func (c *Client) GenerateAssessment(ctx context.Context, typ string, domains []string, limit int, difficulty string) ([]Question, error) {
	body := map[string]interface{}{
		"type":       typ,
		"domains":    domains,
		"limit":      limit,
		"difficulty": difficulty,
	}
	var resp struct {
		Questions []Question `json:"questions"`
	}
	if err := c.post(ctx, "/generate-assessment", body, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (c *Client) Evaluate(ctx context.Context, userID, challenge, answer, sessionID string, domains []string, typ, difficulty string) (*EvalResult, string, error) {
	body := map[string]interface{}{
		"userId":     userID,
		"challenge":  challenge,
		"answer":     answer,
		"domains":    domains,
		"sessionId":  sessionID,
		"type":       typ,
		"difficulty": difficulty,
	}
	var resp struct {
		Score     float64 `json:"score"`
		Feedback  string  `json:"feedback"`
		NextLevel string  `json:"nextLevel"`
	}
	if err := c.post(ctx, "/evaluate", body, &resp); err != nil {
		return nil, "", err
	}
	return &EvalResult{Score: resp.Score, Feedback: resp.Feedback}, resp.NextLevel, nil
}

func (c *Client) EvaluateBatch(ctx context.Context, userID string, answers []AnsweredChallenge, sessionID string, domains []string, typ, difficulty string) ([]EvalResult, error) {
	body := map[string]interface{}{
		"userId":     userID,
		"answers":    answers,
		"domains":    domains,
		"sessionId":  sessionID,
		"type":       typ,
		"difficulty": difficulty,
	}
	var resp struct {
		Results []EvalResult `json:"results"`
	}
	if err := c.post(ctx, "/evaluate-batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) EvaluateAndGenerate(ctx context.Context, userID, scenario, answer, sessionID, difficulty string) (*ScenarioResult, error) {
	body := map[string]interface{}{
		"userId":          userID,
		"currentScenario": scenario,
		"userAnswer":      answer,
		"sessionId":       sessionID,
		"difficulty":      difficulty,
	}
	var resp ScenarioResult
	if err := c.post(ctx, "/evaluate-and-generate", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) History(ctx context.Context, userID string, limit int) ([]HistoryRecord, error) {
	path := "/history/" + userID
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var records []HistoryRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
