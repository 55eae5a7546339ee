package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m²|m2|qm|quadratmeter)`),
		regexp.MustCompile(`(?i)(?:gr(?:ö|oe)(?:ß|ss)e|wohnfl(?:ä|ae)che):?\s*(?:ca\.?\s*)?(\d+(?:[.,]\d+)?)`),
	}

	groundFloorPattern = regexp.MustCompile(`(?i)\berdgeschoss|\beg\b|parterre`)
	floorPatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})\.\s*(?:og|obergeschoss|etage|stock(?:werk)?)`),
		regexp.MustCompile(`(?i)etage:?\s*(\d{1,2})`),
	}
	totalFloorsPattern = regexp.MustCompile(`(?i)von\s+(\d{1,2})\s+(?:etagen|stockwerken|geschossen)`)
)

// ExtractSize returns the living area in square meters, e.g. "24 m²" or
// "Wohnfläche: 75,5".
func ExtractSize(text string) (float64, bool) {
	for _, re := range sizePatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value := strings.ReplaceAll(match[1], ",", ".")
		size, err := strconv.ParseFloat(value, 64)
		if err != nil || size <= 0 || size > 1000 {
			continue
		}
		return size, true
	}
	return 0, false
}

// ExtractFloor returns the floor the flat is on (ground floor is 0) and,
// when mentioned, the building's total floor count.
func ExtractFloor(text string) (floor *int, totalFloors *int) {
	for _, re := range floorPatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil || value > 50 {
			continue
		}
		floor = &value
		break
	}
	if floor == nil && groundFloorPattern.MatchString(text) {
		ground := 0
		floor = &ground
	}

	if match := totalFloorsPattern.FindStringSubmatch(text); match != nil {
		value, err := strconv.Atoi(match[1])
		if err == nil && value > 0 && value <= 50 {
			totalFloors = &value
		}
	}

	return floor, totalFloors
}
