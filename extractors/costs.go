package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

// Costs holds the monthly cost fields found in listing text, in whole euros.
// Nil means not detected. Derived flags distinguish values computed from the
// other two cost fields from values actually present in the text.
type Costs struct {
	ColdRent  *int
	Utilities *int
	WarmRent  *int
	Deposit   *int

	ColdRentDerived  bool
	UtilitiesDerived bool
	WarmRentDerived  bool
}

// Label-anchored amount patterns per cost field. The label-before-amount
// form is tried before the amount-before-label form.
var (
	coldRentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)kaltmiete:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*kaltmiete`),
		regexp.MustCompile(`(?i)\bkalt:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*kalt\b`),
	}
	utilitiesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)nebenkosten:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*nebenkosten`),
		regexp.MustCompile(`(?i)\bnk:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
	}
	warmRentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)warmmiete:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*warmmiete`),
		regexp.MustCompile(`(?i)gesamtmiete:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*warm\b`),
	}
	depositPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)kaution:?\s*(\d[\d.]*(?:,\d+)?)\s*€?`),
		regexp.MustCompile(`(?i)(\d[\d.]*(?:,\d+)?)\s*€?\s*kaution`),
	}

	// Checked before the numeric deposit patterns; a "no deposit" mention
	// short-circuits to zero even if an unrelated amount follows.
	noDepositPattern = regexp.MustCompile(`(?i)keine\s+kaution|kautionsfrei|ohne\s+kaution|no\s+deposit`)
)

// ExtractCosts finds cold rent, utilities, warm rent and deposit in the text.
// When exactly two of {cold, utilities, warm} are present, the third is
// derived by addition or subtraction and flagged as derived.
func ExtractCosts(text string) Costs {
	costs := Costs{
		ColdRent:  findAmount(text, coldRentPatterns),
		Utilities: findAmount(text, utilitiesPatterns),
		WarmRent:  findAmount(text, warmRentPatterns),
	}

	if noDepositPattern.MatchString(text) {
		zero := 0
		costs.Deposit = &zero
	} else {
		costs.Deposit = findAmount(text, depositPatterns)
	}

	deriveMissingCost(&costs)
	return costs
}

func deriveMissingCost(costs *Costs) {
	switch {
	case costs.WarmRent == nil && costs.ColdRent != nil && costs.Utilities != nil:
		warm := *costs.ColdRent + *costs.Utilities
		costs.WarmRent = &warm
		costs.WarmRentDerived = true
	case costs.ColdRent == nil && costs.WarmRent != nil && costs.Utilities != nil:
		cold := *costs.WarmRent - *costs.Utilities
		if cold > 0 {
			costs.ColdRent = &cold
			costs.ColdRentDerived = true
		}
	case costs.Utilities == nil && costs.WarmRent != nil && costs.ColdRent != nil:
		utilities := *costs.WarmRent - *costs.ColdRent
		if utilities > 0 {
			costs.Utilities = &utilities
			costs.UtilitiesDerived = true
		}
	}
}

func findAmount(text string, patterns []*regexp.Regexp) *int {
	for _, re := range patterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		amount, ok := parseEuroAmount(match[1])
		if !ok {
			continue
		}
		return &amount
	}
	return nil
}

// parseEuroAmount reads German-formatted amounts: "1.200" (thousands dot),
// "1200", "850,50" (decimal comma, truncated to whole euros).
func parseEuroAmount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return 0, false
	}
	amount, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return amount, true
}
