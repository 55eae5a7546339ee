package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAtmosphere_Tags(t *testing.T) {
	tags := ExtractAtmosphere("Ruhige, saubere WG, wir kochen gerne gemeinsam")

	assert.Contains(t, tags, "relaxed")
	assert.Contains(t, tags, "tidy")
}

func TestExtractAtmosphere_Deduplicated(t *testing.T) {
	tags := ExtractAtmosphere("ruhig und entspannt, sehr entspannt")

	assert.Equal(t, []string{"relaxed"}, tags)
}

func TestExtractAtmosphere_NoTags(t *testing.T) {
	assert.Nil(t, ExtractAtmosphere("Zimmer 20qm"))
}

func TestExtractLanguages_Keywords(t *testing.T) {
	tags := ExtractLanguages("Wir sprechen Deutsch und Englisch, manchmal Spanisch")

	assert.Equal(t, []string{"de", "en", "es"}, tags)
}

func TestExtractLanguages_DetectionFallback(t *testing.T) {
	tags := ExtractLanguages("Gemütliches Zimmer in einer schönen Altbauwohnung mitten in Kreuzberg zu vergeben")

	assert.Equal(t, []string{"de"}, tags)
}

func TestDetectLanguage_TooShort(t *testing.T) {
	_, ok := DetectLanguage("Zimmer frei")
	assert.False(t, ok)
}

func TestExtractAmenities_Flags(t *testing.T) {
	amenities := ExtractAmenities("Altbau mit Balkon, Einbauküche und Aufzug, WLAN vorhanden")

	assert.True(t, amenities["balcony"])
	assert.True(t, amenities["fitted_kitchen"])
	assert.True(t, amenities["elevator"])
	assert.True(t, amenities["internet"])
	assert.True(t, amenities["altbau"])
	assert.NotContains(t, amenities, "garden")
}

func TestExtractAmenities_Empty(t *testing.T) {
	amenities := ExtractAmenities("Schönes Zimmer")

	assert.Empty(t, amenities)
}
