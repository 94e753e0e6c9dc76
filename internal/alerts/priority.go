package alerts

// Risk thresholds for alert priority. These mirror the product's existing
// rules and are kept as-is pending agronomic review.
const (
	highRiskThreshold   = 60.0
	mediumRiskThreshold = 30.0
)

// PriorityFor classifies a forecast bundle: "high" when any risk metric in
// any horizon exceeds 60, "medium" above 30, otherwise "low".
func PriorityFor(bundle *ForecastBundle) string {
	priority := "low"
	for _, set := range bundle.Horizons {
		for _, risk := range []float64{set.DiseaseRisk, set.PestRisk, set.StressIndex} {
			if risk > highRiskThreshold {
				return "high"
			}
			if risk > mediumRiskThreshold {
				priority = "medium"
			}
		}
	}
	return priority
}
