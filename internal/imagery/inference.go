package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// InferenceClient uploads an imagery tile to the vegetation-index model
// service and decodes its heatmap response.
type InferenceClient struct {
	endpoint string
	client   *http.Client
}

// NewInferenceClient creates a model inference client.
func NewInferenceClient(endpoint string, timeout time.Duration) *InferenceClient {
	return &InferenceClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// InferenceResult is the model service response shape. HeatmapBase64 is a
// PNG the frontend overlays on the field polygon; the field names are a wire
// contract with the map renderer and must not change.
type InferenceResult struct {
	ModelUsed     string          `json:"model_used"`
	HeatmapBase64 string          `json:"heatmap_base64"`
	Statistics    json.RawMessage `json:"statistics"`
}

// Infer posts the TIFF as multipart form data with the lowercased index name
// as the model_type query parameter.
func (c *InferenceClient) Infer(ctx context.Context, tiff []byte, modelType string) (*InferenceResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "region.tiff")
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(tiff); err != nil {
		return nil, fmt.Errorf("failed to write tile into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	target := c.endpoint + "?model_type=" + url.QueryEscape(modelType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed: %s", bestEffortMessage(raw))
	}

	var result InferenceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %s", bestEffortMessage(raw))
	}

	return &result, nil
}
