package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsMarkdown(t *testing.T) {
	in := "**Excellent** crop health. Keep the `current` schedule *as is*."
	assert.Equal(t, "Excellent crop health. Keep the current schedule as is.", SanitizeDescription(in))
}

func TestSanitizeTruncatesAtEllipsis(t *testing.T) {
	in := "Soil moisture is adequate for this stage... and then the model rambled on"
	assert.Equal(t, "Soil moisture is adequate for this stage", SanitizeDescription(in))
}

func TestSanitizeCollapsesWhitespace(t *testing.T) {
	in := "Crop  stress is\nlow today."
	assert.Equal(t, "Crop stress is low today.", SanitizeDescription(in))
}

func TestValidDescriptionRejectsIncompleteEndings(t *testing.T) {
	assert.False(t, ValidDescription("A reading at this level generally means"))
	assert.False(t, ValidDescription("The current moisture value for your field is 48"))
	assert.False(t, ValidDescription("You should check the irrigation system and"))
	assert.False(t, ValidDescription("Key factors to watch include:"))
}

func TestValidDescriptionRejectsShortText(t *testing.T) {
	assert.False(t, ValidDescription("Crop is fine."))
	assert.False(t, ValidDescription(""))
}

func TestValidDescriptionRejectsDevanagari(t *testing.T) {
	// Any Devanagari codepoint fails regardless of length or completeness.
	assert.False(t, ValidDescription("Your crop स्वस्थ looks healthy and no action is needed this week."))
	assert.False(t, ValidDescription("फसल स्वस्थ है और सिंचाई की कोई आवश्यकता नहीं है इस सप्ताह।"))
}

func TestValidDescriptionAcceptsCompleteSentences(t *testing.T) {
	assert.True(t, ValidDescription("Your crop canopy is dense and healthy, so keep the current schedule."))
	assert.True(t, ValidDescription("The NDVI of your field is 0.72, which indicates vigorous growth."))
}
