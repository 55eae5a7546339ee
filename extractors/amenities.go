package extractors

import "regexp"

var amenityRules = []tagRule{
	{regexp.MustCompile(`(?i)balkon|balcony`), "balcony"},
	{regexp.MustCompile(`(?i)terrasse|terrace`), "terrace"},
	{regexp.MustCompile(`(?i)garten|garden`), "garden"},
	{regexp.MustCompile(`(?i)aufzug|fahrstuhl|elevator|lift\b`), "elevator"},
	{regexp.MustCompile(`(?i)einbauk(?:ü|ue)che|ebk\b|fitted\s+kitchen`), "fitted_kitchen"},
	{regexp.MustCompile(`(?i)m(?:ö|oe)bliert|furnished`), "furnished"},
	{regexp.MustCompile(`(?i)waschmaschine|washing\s+machine`), "washing_machine"},
	{regexp.MustCompile(`(?i)sp(?:ü|ue)lmaschine|geschirrsp(?:ü|ue)ler|dishwasher`), "dishwasher"},
	{regexp.MustCompile(`(?i)keller(?:abteil|raum)?|basement`), "basement"},
	{regexp.MustCompile(`(?i)wlan|wi-?fi|internet`), "internet"},
	{regexp.MustCompile(`(?i)stellplatz|parkplatz|tiefgarage|parking`), "parking"},
	{regexp.MustCompile(`(?i)badewanne|bathtub`), "bathtub"},
	{regexp.MustCompile(`(?i)fu(?:ß|ss)bodenheizung|underfloor\s+heating`), "underfloor_heating"},
	{regexp.MustCompile(`(?i)altbau`), "altbau"},
	{regexp.MustCompile(`(?i)neubau`), "neubau"},
}

// ExtractAmenities returns the amenity flags mentioned in the text. Only
// detected amenities appear as keys; absence of a key means not mentioned,
// not absent from the flat.
func ExtractAmenities(text string) map[string]bool {
	amenities := make(map[string]bool)
	for _, rule := range amenityRules {
		if rule.re.MatchString(text) {
			amenities[rule.tag] = true
		}
	}
	return amenities
}
