package models

import (
	"time"

	"github.com/wohnmatch/wohnmatch.api/enums"
)

// RawListing is the platform-specific snapshot a scraper hands to the
// pipeline. It only lives for the duration of one batch and is never
// persisted as-is.
type RawListing struct {
	Platform     enums.Platform
	ExternalID   string
	URL          string
	Title        string
	Description  string
	PriceText    string
	SizeText     string
	District     string
	Address      string
	PropertyType enums.PropertyType
	Images       []string
	ContactName  string
	ContactEmail string
	ContactPhone string
	ScrapedAt    time.Time
}
