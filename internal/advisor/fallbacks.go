package advisor

import "fmt"

// fallbackDescription returns the deterministic rule-based sentence used when
// a generated description is rejected or the call fails. The thresholds come
// from the product's agronomy rules and are preserved as-is.
func fallbackDescription(metric string, value float64) string {
	switch metric {
	case MetricNDVI:
		switch {
		case value >= 0.7:
			return fmt.Sprintf("Excellent crop health with an NDVI of %.2f. Vegetation is dense and vigorous, so continue the current management practices.", value)
		case value >= 0.5:
			return fmt.Sprintf("Good crop health with an NDVI of %.2f. Growth is on track, though parts of the field may benefit from closer monitoring.", value)
		case value >= 0.3:
			return fmt.Sprintf("Moderate crop health with an NDVI of %.2f. Vegetation vigor is below optimal, so check irrigation and nutrient supply.", value)
		default:
			return fmt.Sprintf("Poor crop health with an NDVI of %.2f. Vegetation cover is sparse or stressed and the field needs prompt attention.", value)
		}

	case MetricMoisture:
		switch {
		case value >= 60:
			return fmt.Sprintf("Soil moisture is adequate at %.0f%%. Water availability supports healthy root activity at this stage.", value)
		case value >= 35:
			return fmt.Sprintf("Soil moisture is moderate at %.0f%%. Plan irrigation within the next few days to avoid water stress.", value)
		default:
			return fmt.Sprintf("Soil moisture is low at %.0f%%. Irrigate soon to prevent yield loss from drought stress.", value)
		}

	case MetricDiseaseRisk:
		switch {
		case value > 60:
			return fmt.Sprintf("Disease risk is high at %.0f%%. Scout the field for early symptoms and consider a preventive treatment.", value)
		case value > 30:
			return fmt.Sprintf("Disease risk is moderate at %.0f%%. Keep monitoring leaves for spots or discoloration over the coming week.", value)
		default:
			return fmt.Sprintf("Disease risk is low at %.0f%%. No immediate action is needed beyond routine scouting.", value)
		}

	case MetricPestRisk:
		switch {
		case value > 60:
			return fmt.Sprintf("Pest risk is high at %.0f%%. Inspect the crop canopy for pest activity and prepare control measures.", value)
		case value > 30:
			return fmt.Sprintf("Pest risk is moderate at %.0f%%. Set up or check pest traps and watch for feeding damage.", value)
		default:
			return fmt.Sprintf("Pest risk is low at %.0f%%. Routine field checks remain sufficient for now.", value)
		}

	case MetricStressIndex:
		switch {
		case value > 60:
			return fmt.Sprintf("Crop stress is high at %.0f%%. Combined water, nutrient or heat pressure is affecting the crop and needs intervention.", value)
		case value > 30:
			return fmt.Sprintf("Crop stress is moderate at %.0f%%. Conditions are manageable but should be watched closely.", value)
		default:
			return fmt.Sprintf("Crop stress is low at %.0f%%. The crop is growing under comfortable conditions.", value)
		}
	}

	return fmt.Sprintf("The %s reading is %.2f. Monitor this metric and compare it with upcoming forecasts.", metric, value)
}
