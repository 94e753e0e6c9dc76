package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ForecastSource produces per-field alert forecasts.
type ForecastSource interface {
	Forecast(ctx context.Context, fieldID string, lat, lng float64) (*ForecastBundle, error)
}

// ForecastClient fetches LSTM-based forecasts from the external forecasting
// service.
type ForecastClient struct {
	endpoint string
	client   *http.Client
}

// NewForecastClient creates a forecasting service client.
func NewForecastClient(endpoint string, timeout time.Duration) *ForecastClient {
	return &ForecastClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type forecastRequest struct {
	FieldID string  `json:"fieldId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type forecastResponse struct {
	Day1            MetricSet `json:"day_1"`
	Day7            MetricSet `json:"day_7"`
	Day14           MetricSet `json:"day_14"`
	AdvisoryActions []string  `json:"advisory_actions"`
}

// Forecast requests all horizons for a field in one call.
func (c *ForecastClient) Forecast(ctx context.Context, fieldID string, lat, lng float64) (*ForecastBundle, error) {
	body, err := json.Marshal(forecastRequest{FieldID: fieldID, Lat: lat, Lng: lng})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service returned status: %d", resp.StatusCode)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	bundle := &ForecastBundle{
		FieldID: fieldID,
		Horizons: map[string]MetricSet{
			HorizonDay1:  decoded.Day1,
			HorizonDay7:  decoded.Day7,
			HorizonDay14: decoded.Day14,
		},
		AdvisoryActions: decoded.AdvisoryActions,
		GeneratedAt:     time.Now(),
	}
	bundle.Priority = PriorityFor(bundle)

	return bundle, nil
}
