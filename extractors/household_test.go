package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wohnmatch/wohnmatch.api/enums"
)

func TestExtractHousehold_WgSize(t *testing.T) {
	h := ExtractHousehold("Zimmer in 3er WG zu vergeben")
	assert.NotNil(t, h.TotalFlatmates)
	assert.Equal(t, 3, *h.TotalFlatmates)

	h = ExtractHousehold("4 Personen WG sucht Verstärkung")
	assert.NotNil(t, h.TotalFlatmates)
	assert.Equal(t, 4, *h.TotalFlatmates)
}

func TestExtractHousehold_GenderComposition(t *testing.T) {
	h := ExtractHousehold("Entspannte Männer-WG in Friedrichshain")
	assert.Equal(t, enums.GenderMale, h.FlatmatesGender)

	h = ExtractHousehold("Frauen-WG sucht neue Mitbewohnerin")
	assert.Equal(t, enums.GenderFemale, h.FlatmatesGender)

	h = ExtractHousehold("gemischte WG, 3 Leute")
	assert.Equal(t, enums.GenderAny, h.FlatmatesGender)
}

func TestExtractHousehold_PreferredGender(t *testing.T) {
	h := ExtractHousehold("Wir suchen eine neue Mitbewohnerin ab sofort")
	assert.Equal(t, enums.GenderFemale, h.PreferredGender)

	h = ExtractHousehold("Mitbewohner gesucht für helles Zimmer")
	assert.Equal(t, enums.GenderMale, h.PreferredGender)

	h = ExtractHousehold("Zimmer frei in zentraler Lage")
	assert.Equal(t, enums.GenderUnknown, h.PreferredGender)
}

func TestExtractHousehold_PreferredAge(t *testing.T) {
	h := ExtractHousehold("Du bist zwischen 20 und 30 Jahre alt")

	assert.NotNil(t, h.PreferredAgeMin)
	assert.Equal(t, 20, *h.PreferredAgeMin)
	assert.Equal(t, 30, *h.PreferredAgeMax)
}

func TestExtractHousehold_SmokingPolicies(t *testing.T) {
	h := ExtractHousehold("Nichtraucher-WG")
	assert.Equal(t, enums.SmokingNotAllowed, h.Smoking)

	h = ExtractHousehold("Rauchen ist erlaubt")
	assert.Equal(t, enums.SmokingAllowed, h.Smoking)

	h = ExtractHousehold("Über Rauchen reden wir nicht")
	assert.Equal(t, enums.SmokingUnknown, h.Smoking)
}

func TestExtractHousehold_BalconyExceptionWins(t *testing.T) {
	// A listing that mentions both non-smoking and a balcony exception
	// resolves to balcony-only, regardless of mention order.
	h := ExtractHousehold("Nichtraucher-Wohnung, Rauchen nur auf dem Balkon ok")
	assert.Equal(t, enums.SmokingBalconyOnly, h.Smoking)

	h = ExtractHousehold("Rauchen nur auf dem Balkon, sonst ist die Wohnung rauchfrei")
	assert.Equal(t, enums.SmokingBalconyOnly, h.Smoking)
}

func TestExtractHousehold_Pets(t *testing.T) {
	h := ExtractHousehold("Haustiere sind erlaubt")
	assert.NotNil(t, h.PetsAllowed)
	assert.True(t, *h.PetsAllowed)

	h = ExtractHousehold("Leider keine Haustiere")
	assert.NotNil(t, h.PetsAllowed)
	assert.False(t, *h.PetsAllowed)

	h = ExtractHousehold("Zimmer mit Balkon")
	assert.Nil(t, h.PetsAllowed)
}
