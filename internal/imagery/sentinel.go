package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"agrivision/farm-portal-backend/internal/config"
	"agrivision/farm-portal-backend/pkg/geospatial"
)

// evalScript selects the six spectral bands the inference models consume:
// Blue, Green, Red, RedEdge, NIR and SWIR.
const evalScript = `//VERSION=3
function setup() {
  return {
    input: ["B02", "B03", "B04", "B05", "B08", "B11"],
    output: { bands: 6, sampleType: "FLOAT32" }
  };
}
function evaluatePixel(sample) {
  return [sample.B02, sample.B03, sample.B04, sample.B05, sample.B08, sample.B11];
}`

const (
	tileSize       = 256
	lookbackDays   = 60
	dataCollection = "sentinel-2-l2a"
)

// SentinelClient fetches multi-band imagery tiles from the Sentinel Hub
// Process API using an OAuth2 client-credentials grant.
type SentinelClient struct {
	cfg        *clientcredentials.Config
	processURL string
	timeout    time.Duration

	mu sync.Mutex
	// tokens caches the client-credentials token, so the token fetched by
	// Authenticate is reused by FetchTile instead of requested again.
	tokens oauth2.TokenSource
}

// NewSentinelClient creates a Sentinel Hub imagery client.
func NewSentinelClient(cfg config.SentinelConfig, timeout time.Duration) *SentinelClient {
	return &SentinelClient{
		cfg: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		},
		processURL: cfg.ProcessURL,
		timeout:    timeout,
	}
}

// Authenticate fetches a client-credentials token. It is a separate step so
// a token failure aborts the pipeline before any imagery request is made.
func (c *SentinelClient) Authenticate(ctx context.Context) error {
	if _, err := c.tokenSource(ctx).Token(); err != nil {
		return fmt.Errorf("sentinel token fetch failed: %w", err)
	}
	return nil
}

// tokenSource lazily builds the shared token source. Refreshes outlive any
// single request, so the source is detached from the caller's cancellation.
func (c *SentinelClient) tokenSource(ctx context.Context) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens == nil {
		c.tokens = c.cfg.TokenSource(context.WithoutCancel(ctx))
	}
	return c.tokens
}

// FetchTile requests a 256x256 six-band TIFF over the bounding box for the
// last 60 days, mosaicked by least cloud cover.
func (c *SentinelClient) FetchTile(ctx context.Context, box geospatial.Box) ([]byte, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -lookbackDays)

	payload := map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{
				"bbox": []float64{box.MinLng, box.MinLat, box.MaxLng, box.MaxLat},
				"properties": map[string]any{
					"crs": "http://www.opengis.net/def/crs/EPSG/0/4326",
				},
			},
			"data": []map[string]any{
				{
					"type": dataCollection,
					"dataFilter": map[string]any{
						"timeRange": map[string]string{
							"from": from.Format(time.RFC3339),
							"to":   now.Format(time.RFC3339),
						},
						"mosaickingOrder": "leastCC",
					},
				},
			},
		},
		"output": map[string]any{
			"width":  tileSize,
			"height": tileSize,
			"responses": []map[string]any{
				{
					"identifier": "default",
					"format":     map[string]string{"type": "image/tiff"},
				},
			},
		},
		"evalscript": evalScript,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.processURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/tiff")

	httpc := oauth2.NewClient(ctx, c.tokenSource(ctx))
	httpc.Timeout = c.timeout

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read imagery response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagery fetch failed: %s", bestEffortMessage(raw))
	}

	return raw, nil
}

// bestEffortMessage renders an upstream error body for the flat error
// response: compact JSON when it parses, raw text when printable, a fixed
// marker otherwise.
func bestEffortMessage(body []byte) string {
	if len(body) == 0 {
		return "Unknown Binary Error"
	}

	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			return buf.String()
		}
	}

	if utf8.Valid(body) {
		return string(body)
	}

	return "Unknown Binary Error"
}
