package extractors

import (
	"regexp"
	"strconv"

	"github.com/wohnmatch/wohnmatch.api/enums"
)

// Household holds the shared-living attributes of a WG listing. Zero values
// mean not detected.
type Household struct {
	TotalFlatmates  *int
	FlatmatesGender enums.Gender
	PreferredGender enums.Gender
	PreferredAgeMin *int
	PreferredAgeMax *int
	Smoking         enums.SmokingPolicy
	PetsAllowed     *bool
}

var (
	wgSizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})\s*er[- ]?wg`),
		regexp.MustCompile(`(?i)(\d{1,2})\s*personen[- ]?wg`),
		regexp.MustCompile(`(?i)wg\s+mit\s+(\d{1,2})\s+(?:personen|leuten|bewohnern)`),
	}

	maleWgPattern   = regexp.MustCompile(`(?i)m(?:ä|ae?)nner[- ]?wg|jungs[- ]?wg`)
	femaleWgPattern = regexp.MustCompile(`(?i)frauen[- ]?wg|m(?:ä|ae?)dels[- ]?wg|damen[- ]?wg`)
	mixedWgPattern  = regexp.MustCompile(`(?i)gemischte?\s*wg|gemischt`)

	// The -in (female) forms are checked first because the male forms are
	// prefixes of them.
	preferFemalePattern = regexp.MustCompile(`(?i)mitbewohnerin\s+gesucht|suchen\s+(?:eine\s+)?(?:neue\s+)?mitbewohnerin|frau\s+gesucht|female\s+(?:flatmate|roommate)`)
	preferMalePattern   = regexp.MustCompile(`(?i)mitbewohner\s+gesucht|suchen\s+(?:einen\s+)?(?:neuen\s+)?mitbewohner\b|mann\s+gesucht|male\s+(?:flatmate|roommate)`)

	preferredAgePattern = regexp.MustCompile(`(?i)(?:zwischen|between|alter)\s*(\d{2})\s*(?:und|bis|and|-)\s*(\d{2})`)

	// Smoking rules in precedence order: an explicit balcony or outside
	// exception overrides a general non-smoking mention. The source data
	// frequently carries both.
	smokingBalconyPattern = regexp.MustCompile(`(?i)rauchen\s+(?:nur\s+)?auf\s+dem\s+balkon|rauchen\s+drau(?:ß|ss)en|smoking\s+(?:only\s+)?on\s+the\s+balcony`)
	smokingNoPattern      = regexp.MustCompile(`(?i)nichtraucher|rauchen\s+(?:ist\s+)?(?:nicht|verboten)|rauchfrei|non[- ]?smoking|no\s+smoking`)
	smokingYesPattern     = regexp.MustCompile(`(?i)raucher\s+willkommen|rauchen\s+(?:ist\s+)?erlaubt|smoking\s+(?:is\s+)?(?:ok|allowed)`)

	petsNoPattern  = regexp.MustCompile(`(?i)keine\s+haustiere|haustiere\s+(?:sind\s+)?nicht\s+erlaubt|no\s+pets`)
	petsYesPattern = regexp.MustCompile(`(?i)haustiere\s+(?:sind\s+)?(?:erlaubt|willkommen|ok)|pets\s+(?:are\s+)?(?:allowed|welcome|ok)`)
)

// ExtractHousehold finds WG size, gender composition and preference, age
// preference, and the smoking and pet policies in the text.
func ExtractHousehold(text string) Household {
	var h Household

	for _, re := range wgSizePatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		size, err := strconv.Atoi(match[1])
		if err != nil || size < 1 || size > 20 {
			continue
		}
		h.TotalFlatmates = &size
		break
	}

	switch {
	case maleWgPattern.MatchString(text):
		h.FlatmatesGender = enums.GenderMale
	case femaleWgPattern.MatchString(text):
		h.FlatmatesGender = enums.GenderFemale
	case mixedWgPattern.MatchString(text):
		h.FlatmatesGender = enums.GenderAny
	}

	switch {
	case preferFemalePattern.MatchString(text):
		h.PreferredGender = enums.GenderFemale
	case preferMalePattern.MatchString(text):
		h.PreferredGender = enums.GenderMale
	}

	if match := preferredAgePattern.FindStringSubmatch(text); match != nil {
		ageMin, errMin := strconv.Atoi(match[1])
		ageMax, errMax := strconv.Atoi(match[2])
		if errMin == nil && errMax == nil && ageMin <= ageMax {
			h.PreferredAgeMin = &ageMin
			h.PreferredAgeMax = &ageMax
		}
	}

	switch {
	case smokingBalconyPattern.MatchString(text):
		h.Smoking = enums.SmokingBalconyOnly
	case smokingNoPattern.MatchString(text):
		h.Smoking = enums.SmokingNotAllowed
	case smokingYesPattern.MatchString(text):
		h.Smoking = enums.SmokingAllowed
	}

	switch {
	case petsNoPattern.MatchString(text):
		petsAllowed := false
		h.PetsAllowed = &petsAllowed
	case petsYesPattern.MatchString(text):
		petsAllowed := true
		h.PetsAllowed = &petsAllowed
	}

	return h
}
