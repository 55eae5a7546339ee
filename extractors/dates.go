package extractors

import (
	"regexp"
	"strconv"
	"time"
)

// Availability is the date range a listing is free for. Nil means open-ended
// or not detected.
type Availability struct {
	From *time.Time
	To   *time.Time
}

// DD.MM.YYYY or DD/MM/YYYY, anchored by German and English availability
// phrases. Two-digit years are normalized to 20YY.
var (
	availableFromPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:frei|verf(?:ü|ue)gbar|bezugsfrei|available)\s+(?:from|ab)\s*(?:dem\s+|sofort\s+|the\s+)?(\d{1,2})[./](\d{1,2})[./](\d{2,4})`),
		regexp.MustCompile(`(?i)\bab\s+(?:dem\s+)?(\d{1,2})[./](\d{1,2})[./](\d{2,4})`),
		regexp.MustCompile(`(?i)einzugstermin:?\s*(\d{1,2})[./](\d{1,2})[./](\d{2,4})`),
	}
	availableToPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:befristet\s+)?bis\s+(?:zum\s+)?(\d{1,2})[./](\d{1,2})[./](\d{2,4})`),
		regexp.MustCompile(`(?i)until\s+(?:the\s+)?(\d{1,2})[./](\d{1,2})[./](\d{2,4})`),
	}
)

// ExtractAvailability finds the availability window mentioned in the text,
// e.g. "frei ab 01.09.2026" or "available from 1/9/26 until 31/3/27".
func ExtractAvailability(text string) Availability {
	return Availability{
		From: findDate(text, availableFromPatterns),
		To:   findDate(text, availableToPatterns),
	}
}

func findDate(text string, patterns []*regexp.Regexp) *time.Time {
	for _, re := range patterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		date, ok := parseListingDate(match[1], match[2], match[3])
		if !ok {
			continue
		}
		return &date
	}
	return nil
}

func parseListingDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
