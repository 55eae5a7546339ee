package extractors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestExtractAvailability_FreiAb(t *testing.T) {
	availability := ExtractAvailability("Das Zimmer ist frei ab 01.09.2026")

	assert.NotNil(t, availability.From)
	assert.Equal(t, date(2026, time.September, 1), *availability.From)
	assert.Nil(t, availability.To)
}

func TestExtractAvailability_TwoDigitYear(t *testing.T) {
	availability := ExtractAvailability("verfügbar ab 15.10.26")

	assert.NotNil(t, availability.From)
	assert.Equal(t, date(2026, time.October, 15), *availability.From)
}

func TestExtractAvailability_SlashFormat(t *testing.T) {
	availability := ExtractAvailability("available from 1/9/2026 until 31/3/2027")

	assert.NotNil(t, availability.From)
	assert.Equal(t, date(2026, time.September, 1), *availability.From)
	assert.NotNil(t, availability.To)
	assert.Equal(t, date(2027, time.March, 31), *availability.To)
}

func TestExtractAvailability_Befristet(t *testing.T) {
	availability := ExtractAvailability("ab 01.11.2026, befristet bis zum 30.04.2027")

	assert.Equal(t, date(2026, time.November, 1), *availability.From)
	assert.Equal(t, date(2027, time.April, 30), *availability.To)
}

func TestExtractAvailability_InvalidDateRejected(t *testing.T) {
	availability := ExtractAvailability("frei ab 45.13.2026")

	assert.Nil(t, availability.From)
}

func TestExtractAvailability_NoMention(t *testing.T) {
	availability := ExtractAvailability("Gemütliches Zimmer in netter WG")

	assert.Nil(t, availability.From)
	assert.Nil(t, availability.To)
}
