package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts high-priority alert bundles to an external webhook.
// It keeps its own explicit timeout, separate from the upstream client
// timeouts, because webhook targets are often slow third-party automations.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier. An empty URL disables it.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a webhook target is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// Notify posts the alert bundle for a user and field.
func (n *WebhookNotifier) Notify(ctx context.Context, userID string, bundle *ForecastBundle) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"userId":   userID,
		"fieldId":  bundle.FieldID,
		"priority": bundle.Priority,
		"alerts":   bundle,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status: %d", resp.StatusCode)
	}

	return nil
}
