package alerts

import "time"

// Forecast horizons produced by the forecasting service.
const (
	HorizonDay1  = "day_1"
	HorizonDay7  = "day_7"
	HorizonDay14 = "day_14"
)

// MetricSet is one horizon's forecast. Risk and percentage fields are
// clamped to [0,100] by the producing service; they are relayed, not
// re-validated, here.
type MetricSet struct {
	NDVI              float64 `json:"ndvi"`
	Moisture          float64 `json:"moisture"`
	DiseaseRisk       float64 `json:"diseaseRisk"`
	PestRisk          float64 `json:"pestRisk"`
	StressIndex       float64 `json:"stressIndex"`
	NDVIChange        float64 `json:"ndviChange"`
	MoistureChange    float64 `json:"moistureChange"`
	DiseaseRiskChange float64 `json:"diseaseRiskChange"`
	PestRiskChange    float64 `json:"pestRiskChange"`
	StressIndexChange float64 `json:"stressIndexChange"`
}

// ForecastBundle is the full per-field alert set across horizons.
type ForecastBundle struct {
	FieldID         string               `json:"fieldId"`
	Horizons        map[string]MetricSet `json:"horizons"`
	AdvisoryActions []string             `json:"advisoryActions"`
	Priority        string               `json:"priority"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}

// UpdateEvent is broadcast to a user's open views when a field's alerts are
// recomputed, so they refresh their derived state without polling.
type UpdateEvent struct {
	FieldID  string `json:"fieldId"`
	CacheKey string `json:"cacheKey"`
}
