package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client forwards uploaded crop images to an external prediction model and
// relays its JSON verdict.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a prediction proxy client for one upstream endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PredictionResult is the upstream model verdict. The payload is decoded and
// re-emitted rather than piped through raw so contract drift fails fast.
type PredictionResult struct {
	Payload json.RawMessage
}

// Predict re-wraps the uploaded image into a fresh multipart body and posts
// it to the model endpoint.
func (c *Client) Predict(ctx context.Context, filename string, file io.Reader) (*PredictionResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy image into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction response: %w", err)
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("prediction service returned malformed JSON")
	}

	return &PredictionResult{Payload: raw}, nil
}
