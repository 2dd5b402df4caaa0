// Package agent runs the Gemini-backed agents that build and modify
// apps: the architect that plans, the coder that generates files, and
// the chat agent that applies targeted changes. A Service routes each
// user message to the right workflow and drives the function-calling
// loop against the session's toolbox.
package agent

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model replies with no usable
// candidate after all retries.
var ErrEmptyResponse = errors.New("agent: empty response from model")

const (
	// maxAttempts bounds the retry loop around one model call.
	maxAttempts = 3
	// backoffBase is doubled on every failed attempt.
	backoffBase = 300 * time.Millisecond
)

// Client is a thin wrapper around the official genai client.
type Client struct {
	cli   *genai.Client
	model string
}

// NewClient connects to the Gemini API. An empty apiKey falls back to
// the GEMINI_API_KEY environment variable read by the SDK.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// generate performs one model call with retries and exponential
// backoff. Transient API failures and empty candidates both count as
// failed attempts.
func (c *Client) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, config)
		switch {
		case err != nil:
			lastErr = err
		case len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil:
			lastErr = ErrEmptyResponse
		default:
			return resp, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoffBase << attempt):
		}
	}
	return nil, lastErr
}
