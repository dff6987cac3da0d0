// Package realtime mints ephemeral client secrets for browser voice sessions.
package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CompanionInstructions steer the voice model for a journaling conversation.
const CompanionInstructions = "You are a friendly, curious journaling companion. Ask one question at a time. " +
	"Stay concise and reflective, not clinical, and avoid therapy framing."

type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Minter is the provider seam used by the realtime service.
type Minter interface {
	Mint(ctx context.Context) (*Token, error)
	Model() string
}

type Client struct {
	BaseURL string
	APIKey  string
	model   string
	Voice   string
	HTTP    *http.Client
}

var _ Minter = &Client{}

func NewClient(baseURL, apiKey, model, voice string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		model:   model,
		Voice:   voice,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Model() string {
	return c.model
}

type sessionRequest struct {
	Model        string `json:"model"`
	Voice        string `json:"voice"`
	Instructions string `json:"instructions"`
}

type sessionResponse struct {
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
}

func (c *Client) Mint(ctx context.Context) (*Token, error) {
	payload, err := json.Marshal(sessionRequest{
		Model:        c.model,
		Voice:        c.Voice,
		Instructions: CompanionInstructions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/realtime/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realtime request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("realtime error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out sessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if out.ClientSecret.Value == "" {
		return nil, fmt.Errorf("realtime response has no client secret")
	}

	token := &Token{Value: out.ClientSecret.Value}
	if out.ClientSecret.ExpiresAt > 0 {
		token.ExpiresAt = time.Unix(out.ClientSecret.ExpiresAt, 0)
	}
	return token, nil
}
