package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedGenerator returns a canned reply (or error) per metric, detected by
// sniffing the prompt. It also records call counts.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	delay   time.Duration
	calls   int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.delay > 0 {
		time.Sleep(g.delay)
	}

	for key, err := range g.errs {
		if strings.Contains(prompt, metricTitles[key]) {
			return "", err
		}
	}
	for key, reply := range g.replies {
		if strings.Contains(prompt, metricTitles[key]) {
			return reply, nil
		}
	}
	return "", errors.New("no script for prompt")
}

func ptr(f float64) *float64 { return &f }

func fullMetrics() Metrics {
	return Metrics{
		NDVI:        ptr(0.72),
		Moisture:    ptr(48),
		DiseaseRisk: ptr(65),
		PestRisk:    ptr(20),
		StressIndex: ptr(35),
	}
}

func TestDescribePopulatesAllPresentMetrics(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			MetricNDVI:        "Your crop canopy is dense and healthy, so keep the current schedule.",
			MetricMoisture:    "Soil moisture is slightly below ideal, plan an irrigation round this week.",
			MetricDiseaseRisk: "Disease pressure is elevated, scout the lower leaves for early lesions.",
			MetricPestRisk:    "Pest pressure is low and routine monitoring is enough for now.",
			MetricStressIndex: "The crop is under mild stress, mostly from the current moisture deficit.",
		},
	}
	agg := NewAggregator(gen, zap.NewNop())

	descriptions := agg.Describe(context.Background(), fullMetrics(), []string{"Irrigate within 3 days"})

	require.Len(t, descriptions, 5)
	assert.Equal(t, 5, gen.calls)
	for key, text := range descriptions {
		assert.NotEmpty(t, text, key)
	}
}

func TestDescribeSkipsAbsentMetrics(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			MetricNDVI: "Vegetation vigor looks strong across most of the field today.",
		},
	}
	agg := NewAggregator(gen, zap.NewNop())

	descriptions := agg.Describe(context.Background(), Metrics{NDVI: ptr(0.8)}, nil)

	require.Len(t, descriptions, 1)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, descriptions, MetricNDVI)
}

func TestDescribeFailuresFallBackIndependently(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			MetricPestRisk:    "Pest pressure is low, routine trap checks remain sufficient.",
			MetricStressIndex: "Stress is moderate, driven mainly by the recent dry spell conditions.",
		},
		errs: map[string]error{
			MetricNDVI:        errors.New("quota exceeded"),
			MetricMoisture:    errors.New("timeout"),
			MetricDiseaseRisk: errors.New("503"),
		},
	}
	agg := NewAggregator(gen, zap.NewNop())

	descriptions := agg.Describe(context.Background(), fullMetrics(), nil)

	// All five keys populated: two generated, three rule-based fallbacks.
	require.Len(t, descriptions, 5)
	assert.Contains(t, descriptions[MetricNDVI], "Excellent crop health")
	assert.Contains(t, descriptions[MetricMoisture], "Soil moisture is moderate")
	assert.Contains(t, descriptions[MetricDiseaseRisk], "Disease risk is high")
	assert.Equal(t, "Pest pressure is low, routine trap checks remain sufficient.", descriptions[MetricPestRisk])
}

func TestDescribeRunsConcurrently(t *testing.T) {
	gen := &scriptedGenerator{
		delay: 50 * time.Millisecond,
		replies: map[string]string{
			MetricNDVI:        "Vegetation vigor is excellent across the whole field right now.",
			MetricMoisture:    "Moisture is fine for this growth stage, no irrigation needed yet.",
			MetricDiseaseRisk: "Disease risk is high, start scouting the field edges immediately.",
			MetricPestRisk:    "Pest risk is low and no treatment is warranted at the moment.",
			MetricStressIndex: "Stress is moderate but should ease after the next irrigation.",
		},
	}
	agg := NewAggregator(gen, zap.NewNop())

	start := time.Now()
	descriptions := agg.Describe(context.Background(), fullMetrics(), nil)
	elapsed := time.Since(start)

	require.Len(t, descriptions, 5)
	// Join-all resolves within the slowest call's latency, not the sum.
	assert.Less(t, elapsed, 5*50*time.Millisecond)
}

func TestDescribeRejectsInvalidGenerations(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			MetricNDVI:     "An NDVI of 0.72 means", // cut off mid-sentence
			MetricMoisture: "ठीक है",                // non-English
			MetricPestRisk: "Low risk.",             // too short
		},
	}
	agg := NewAggregator(gen, zap.NewNop())

	m := Metrics{NDVI: ptr(0.72), Moisture: ptr(48), PestRisk: ptr(10)}
	descriptions := agg.Describe(context.Background(), m, nil)

	assert.Contains(t, descriptions[MetricNDVI], "Excellent crop health")
	assert.Contains(t, descriptions[MetricMoisture], "Soil moisture is moderate")
	assert.Contains(t, descriptions[MetricPestRisk], "Pest risk is low")
}

func TestMetricValueUnmarshal(t *testing.T) {
	var payload metricsPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"ndvi": 0.71,
		"moisture": "52.5",
		"diseaseRisk": "-",
		"pestRisk": null,
		"stressIndex": ""
	}`), &payload))

	m := payload.toMetrics()
	require.NotNil(t, m.NDVI)
	assert.InDelta(t, 0.71, *m.NDVI, 1e-9)
	require.NotNil(t, m.Moisture)
	assert.InDelta(t, 52.5, *m.Moisture, 1e-9)
	assert.Nil(t, m.DiseaseRisk)
	assert.Nil(t, m.PestRisk)
	assert.Nil(t, m.StressIndex)
}
