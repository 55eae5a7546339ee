// Package extractors pulls structured fields out of free-form German or
// mixed German/English listing text. Every extractor is a pure function over
// an immutable string; a field that cannot be detected is simply absent,
// never an error. Pattern lists are ordered and the first hit wins.
package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

// Room counts outside this range are rejected as false positives picked up
// from unrelated numbers in the text.
const (
	minPlausibleRooms = 1
	maxPlausibleRooms = 20
)

type roomPattern struct {
	re    *regexp.Regexp
	parse func(match []string) (float64, bool)
}

// Numeric forms are tried before German number words.
var roomPatterns = []roomPattern{
	{regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*-?\s*zimmer`), parseNumericRooms},
	{regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*-?\s*r(?:ä|ae?)ume?\b`), parseNumericRooms},
	{regexp.MustCompile(`(?i)\b(ein|zwei|drei|vier|f(?:ü|ue)nf|sechs|sieben|acht|neun|zehn)\s+zimmer`), parseWordRooms},
}

var roomWords = map[string]float64{
	"ein":    1,
	"zwei":   2,
	"drei":   3,
	"vier":   4,
	"fünf":   5,
	"fuenf":  5,
	"sechs":  6,
	"sieben": 7,
	"acht":   8,
	"neun":   9,
	"zehn":   10,
}

// ExtractRooms returns the room count mentioned in the text, e.g.
// "2 Zimmer", "2-Zimmer", "1,5 Zimmer" or "zwei Zimmer". The second return
// value is false when no plausible room count was found.
func ExtractRooms(text string) (float64, bool) {
	for _, p := range roomPatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		rooms, ok := p.parse(match)
		if !ok {
			continue
		}
		if rooms < minPlausibleRooms || rooms > maxPlausibleRooms {
			continue
		}
		return rooms, true
	}
	return 0, false
}

func parseNumericRooms(match []string) (float64, bool) {
	value := strings.ReplaceAll(match[1], ",", ".")
	rooms, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return rooms, true
}

func parseWordRooms(match []string) (float64, bool) {
	rooms, ok := roomWords[strings.ToLower(match[1])]
	return rooms, ok
}
