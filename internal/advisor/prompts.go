package advisor

import (
	"fmt"
	"strings"
)

// Metric keys. They double as the response map keys, so they match the
// client-side metric names exactly.
const (
	MetricNDVI        = "ndvi"
	MetricMoisture    = "moisture"
	MetricDiseaseRisk = "diseaseRisk"
	MetricPestRisk    = "pestRisk"
	MetricStressIndex = "stressIndex"
)

var metricTitles = map[string]string{
	MetricNDVI:        "NDVI (vegetation health index, 0 to 1)",
	MetricMoisture:    "soil moisture percentage",
	MetricDiseaseRisk: "disease risk percentage",
	MetricPestRisk:    "pest risk percentage",
	MetricStressIndex: "crop stress index percentage",
}

const promptConstraints = "Respond in English only. Write 1 to 3 complete sentences. " +
	"Do not use markdown, bullet points, or formatting of any kind. " +
	"Do not end mid-sentence."

// buildPrompt renders the per-metric prompt, embedding the sibling metrics
// and advisory actions as context.
func buildPrompt(metric string, value float64, m Metrics, actions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an agronomy assistant for a farm monitoring app. ")
	fmt.Fprintf(&b, "Explain to a farmer, in plain language, what a %s of %.2f means for their crop right now and what they should do about it.\n\n",
		metricTitles[metric], value)

	b.WriteString("Other current field metrics for context:\n")
	writeContextLine(&b, MetricNDVI, metric, m.NDVI)
	writeContextLine(&b, MetricMoisture, metric, m.Moisture)
	writeContextLine(&b, MetricDiseaseRisk, metric, m.DiseaseRisk)
	writeContextLine(&b, MetricPestRisk, metric, m.PestRisk)
	writeContextLine(&b, MetricStressIndex, metric, m.StressIndex)

	if len(actions) > 0 {
		b.WriteString("\nAdvisory actions already suggested for this field:\n")
		for _, action := range actions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
	}

	b.WriteString("\n")
	b.WriteString(promptConstraints)

	return b.String()
}

func writeContextLine(b *strings.Builder, metric, current string, value *float64) {
	if metric == current || value == nil {
		return
	}
	fmt.Fprintf(b, "- %s: %.2f\n", metric, *value)
}
