package extractors

import (
	"regexp"
	"sort"

	"github.com/pemistahl/lingua-go"
)

type tagRule struct {
	re  *regexp.Regexp
	tag string
}

var atmosphereRules = []tagRule{
	{regexp.MustCompile(`(?i)ruhig|entspannt|gem(?:ü|ue)tlich|relaxed|chill`), "relaxed"},
	{regexp.MustCompile(`(?i)party|feiern\b`), "party"},
	{regexp.MustCompile(`(?i)ordentlich|sauber|tidy|clean`), "tidy"},
	{regexp.MustCompile(`(?i)zweck[- ]?wg`), "purpose_wg"},
	{regexp.MustCompile(`(?i)famili(?:ä|ae)r|familien|family`), "family"},
	{regexp.MustCompile(`(?i)gemeinsam\s+kochen|zusammen\s+kochen|cooking\s+together`), "cooking"},
	{regexp.MustCompile(`(?i)sportlich|sporty`), "sporty"},
	{regexp.MustCompile(`(?i)international`), "international"},
	{regexp.MustCompile(`(?i)studenten[- ]?wg|studierenden`), "student"},
	{regexp.MustCompile(`(?i)berufst(?:ä|ae)tigen?[- ]?wg|working\s+professionals`), "professional"},
}

var languageRules = []tagRule{
	{regexp.MustCompile(`(?i)\bdeutsch|german\b`), "de"},
	{regexp.MustCompile(`(?i)englisch|english`), "en"},
	{regexp.MustCompile(`(?i)spanisch|spanish`), "es"},
	{regexp.MustCompile(`(?i)franz(?:ö|oe)sisch|french`), "fr"},
	{regexp.MustCompile(`(?i)italienisch|italian`), "it"},
	{regexp.MustCompile(`(?i)t(?:ü|ue)rkisch|turkish`), "tr"},
	{regexp.MustCompile(`(?i)russisch|russian`), "ru"},
	{regexp.MustCompile(`(?i)arabisch|arabic`), "ar"},
}

var languageDetector = lingua.NewLanguageDetectorBuilder().
	FromLanguages(lingua.German, lingua.English).
	Build()

var linguaToTag = map[lingua.Language]string{
	lingua.German:  "de",
	lingua.English: "en",
}

// ExtractAtmosphere returns the deduplicated, sorted atmosphere tags the
// text mentions.
func ExtractAtmosphere(text string) []string {
	return matchTags(text, atmosphereRules)
}

// ExtractLanguages returns the ISO 639-1 codes of languages the text
// explicitly mentions. When no language keyword is present the language of
// the text itself is detected as a fallback, so matching on listing language
// still works for listings that never spell it out.
func ExtractLanguages(text string) []string {
	tags := matchTags(text, languageRules)
	if len(tags) > 0 {
		return tags
	}
	if detected, ok := DetectLanguage(text); ok {
		return []string{detected}
	}
	return nil
}

// DetectLanguage classifies the text as German or English.
func DetectLanguage(text string) (string, bool) {
	if len(text) < 20 {
		return "", false
	}
	language, exists := languageDetector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	tag, ok := linguaToTag[language]
	return tag, ok
}

func matchTags(text string, rules []tagRule) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, 4)
	for _, rule := range rules {
		if !rule.re.MatchString(text) {
			continue
		}
		if _, dup := seen[rule.tag]; dup {
			continue
		}
		seen[rule.tag] = struct{}{}
		tags = append(tags, rule.tag)
	}
	sort.Strings(tags)
	if len(tags) == 0 {
		return nil
	}
	return tags
}
