package advisor

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MetricValue is a float that tolerates the loose payloads the frontend
// sends: numbers, numeric strings, the "-" placeholder, and null all decode
// without error. Placeholder and null leave the value absent.
type MetricValue struct {
	Value   float64
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" || str == "-" {
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			// Unparseable placeholder text is treated as absent, not an error.
			return nil
		}
		v.Value, v.Present = f, true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	v.Value, v.Present = f, true
	return nil
}

// Metrics is the per-field metric bundle descriptions are generated for.
type Metrics struct {
	NDVI        *float64
	Moisture    *float64
	DiseaseRisk *float64
	PestRisk    *float64
	StressIndex *float64
}

// metricEntries lists present metrics in a stable order.
func (m Metrics) metricEntries() []struct {
	key   string
	value float64
} {
	var entries []struct {
		key   string
		value float64
	}
	add := func(key string, v *float64) {
		if v != nil {
			entries = append(entries, struct {
				key   string
				value float64
			}{key, *v})
		}
	}
	add(MetricNDVI, m.NDVI)
	add(MetricMoisture, m.Moisture)
	add(MetricDiseaseRisk, m.DiseaseRisk)
	add(MetricPestRisk, m.PestRisk)
	add(MetricStressIndex, m.StressIndex)
	return entries
}

// Aggregator fans one generation call out per present metric and joins the
// results. Failures never cross metric boundaries: each call carries its own
// fallback, and the aggregator itself never returns an error.
type Aggregator struct {
	generator Generator
	logger    *zap.Logger
}

// NewAggregator creates a description aggregator.
func NewAggregator(generator Generator, logger *zap.Logger) *Aggregator {
	return &Aggregator{generator: generator, logger: logger}
}

// Describe produces one description per present metric. Absent metrics are
// skipped entirely; present ones always get either generated text that
// passed validation or the deterministic fallback.
func (a *Aggregator) Describe(ctx context.Context, m Metrics, actions []string) map[string]string {
	entries := m.metricEntries()
	descriptions := make(map[string]string, len(entries))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, entry := range entries {
		wg.Add(1)
		go func(key string, value float64) {
			defer wg.Done()

			text := a.describeMetric(ctx, key, value, m, actions)

			mu.Lock()
			descriptions[key] = text
			mu.Unlock()
		}(entry.key, entry.value)
	}

	wg.Wait()
	return descriptions
}

func (a *Aggregator) describeMetric(ctx context.Context, key string, value float64, m Metrics, actions []string) string {
	generated, err := a.generator.Generate(ctx, buildPrompt(key, value, m, actions))
	if err != nil {
		a.logger.Warn("Description generation failed, using fallback",
			zap.String("metric", key),
			zap.Error(err))
		return fallbackDescription(key, value)
	}

	sanitized := SanitizeDescription(generated)
	if !ValidDescription(sanitized) {
		a.logger.Debug("Generated description rejected by validator",
			zap.String("metric", key))
		return fallbackDescription(key, value)
	}

	return sanitized
}
