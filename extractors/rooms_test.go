package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRooms_Numeric(t *testing.T) {
	rooms, ok := ExtractRooms("Schöne 2-Zimmer Wohnung in Kreuzberg")
	assert.True(t, ok)
	assert.Equal(t, 2.0, rooms)

	rooms, ok = ExtractRooms("Wohnung mit 3 Zimmern und Balkon")
	assert.True(t, ok)
	assert.Equal(t, 3.0, rooms)
}

func TestExtractRooms_Decimal(t *testing.T) {
	rooms, ok := ExtractRooms("1,5 Zimmer Apartment")
	assert.True(t, ok)
	assert.Equal(t, 1.5, rooms)

	rooms, ok = ExtractRooms("2.5 Zimmer in Neukölln")
	assert.True(t, ok)
	assert.Equal(t, 2.5, rooms)
}

func TestExtractRooms_NumberWord(t *testing.T) {
	rooms, ok := ExtractRooms("zwei Zimmer Altbau")
	assert.True(t, ok)
	assert.Equal(t, 2.0, rooms)

	rooms, ok = ExtractRooms("Helle Wohnung, vier Zimmer, ruhige Lage")
	assert.True(t, ok)
	assert.Equal(t, 4.0, rooms)
}

func TestExtractRooms_NumericBeforeWord(t *testing.T) {
	// Numeric patterns win over number words when both are present.
	rooms, ok := ExtractRooms("zwei Zimmer, eigentlich 3 Zimmer mit Abstellkammer")
	assert.True(t, ok)
	assert.Equal(t, 3.0, rooms)
}

func TestExtractRooms_NoMention(t *testing.T) {
	_, ok := ExtractRooms("Gemütliche Wohnung in bester Lage")
	assert.False(t, ok)
}

func TestExtractRooms_ImplausibleRejected(t *testing.T) {
	_, ok := ExtractRooms("Baujahr 1950, 200 Zimmer Hotel nebenan")
	assert.False(t, ok)

	_, ok = ExtractRooms("0 Zimmer")
	assert.False(t, ok)
}

func TestExtractRooms_Raeume(t *testing.T) {
	rooms, ok := ExtractRooms("4 Räume auf 110 qm")
	assert.True(t, ok)
	assert.Equal(t, 4.0, rooms)
}
