package extractors

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+49|0049|0)\s?[\d\s/\-]{7,15}\d`)
)

// ExtractContactEmail returns the first email address in the text.
func ExtractContactEmail(text string) (string, bool) {
	email := emailPattern.FindString(text)
	return email, email != ""
}

// ExtractContactPhone returns the first German-format phone number in the text.
func ExtractContactPhone(text string) (string, bool) {
	phone := phonePattern.FindString(text)
	return phone, phone != ""
}
