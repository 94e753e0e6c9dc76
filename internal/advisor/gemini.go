package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrivision/farm-portal-backend/internal/config"
)

// Generator produces text from a prompt. Satisfied by the Gemini client and
// by test fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the generative-language REST API. A secondary API key,
// when configured, is tried once after a primary-key failure.
type GeminiClient struct {
	endpoint     string
	model        string
	apiKey       string
	secondaryKey string
	client       *http.Client
	logger       *zap.Logger
}

// NewGeminiClient creates a generative-language client.
func NewGeminiClient(cfg config.GeminiConfig, timeout time.Duration, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		secondaryKey: cfg.SecondaryKey,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the first candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.generateWithKey(ctx, prompt, c.apiKey)
	if err == nil {
		return text, nil
	}

	if c.secondaryKey != "" {
		c.logger.Warn("Primary Gemini key failed, retrying with secondary", zap.Error(err))
		return c.generateWithKey(ctx, prompt, c.secondaryKey)
	}

	return "", err
}

func (c *GeminiClient) generateWithKey(ctx context.Context, prompt, key string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response had no candidates")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("generation response was empty")
	}

	return text, nil
}
