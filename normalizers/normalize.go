// Package normalizers maps platform-specific raw listings into the canonical
// listing record, validates required fields, and collapses duplicates within
// one scrape batch.
package normalizers

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/enums"
	"github.com/wohnmatch/wohnmatch.api/extractors"
	"github.com/wohnmatch/wohnmatch.api/models"
)

// Normalize maps a raw listing into the canonical record. Missing or
// unparseable fields stay unset; it never fails. Extraction runs over the
// title, price text and description combined.
func Normalize(raw models.RawListing) data.Listing {
	text := strings.Join([]string{raw.Title, raw.PriceText, raw.SizeText, raw.Description}, "\n")

	listing := data.Listing{
		Platform:    raw.Platform,
		ExternalID:  strings.TrimSpace(raw.ExternalID),
		URL:         strings.TrimSpace(raw.URL),
		Title:       cleanText(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		District:    nullString(cleanText(raw.District)),
		Address:     nullString(cleanText(raw.Address)),
		Images:      dedupImages(raw.Images),
		ScrapedAt:   raw.ScrapedAt,
		LastSeenAt:  raw.ScrapedAt,
		IsActive:    true,
	}

	costs := extractors.ExtractCosts(text)
	if costs.ColdRent != nil {
		listing.Price = *costs.ColdRent
	}
	listing.Utilities = nullInt(costs.Utilities)
	listing.WarmRent = nullInt(costs.WarmRent)
	listing.WarmRentDerived = costs.WarmRentDerived
	listing.Deposit = nullInt(costs.Deposit)

	if rooms, ok := extractors.ExtractRooms(text); ok {
		listing.Rooms = sql.NullFloat64{Float64: rooms, Valid: true}
	}
	if size, ok := extractors.ExtractSize(text); ok {
		listing.SizeSqm = sql.NullFloat64{Float64: size, Valid: true}
	}
	floor, totalFloors := extractors.ExtractFloor(text)
	listing.Floor = nullInt(floor)
	listing.TotalFloors = nullInt(totalFloors)

	availability := extractors.ExtractAvailability(text)
	if availability.From != nil {
		listing.AvailableFrom = sql.NullTime{Time: *availability.From, Valid: true}
	}
	if availability.To != nil {
		listing.AvailableTo = sql.NullTime{Time: *availability.To, Valid: true}
	}

	household := extractors.ExtractHousehold(text)
	listing.TotalFlatmates = nullInt(household.TotalFlatmates)
	listing.FlatmatesGender = household.FlatmatesGender
	listing.PreferredGender = household.PreferredGender
	listing.PreferredAgeMin = nullInt(household.PreferredAgeMin)
	listing.PreferredAgeMax = nullInt(household.PreferredAgeMax)
	listing.Smoking = household.Smoking
	if household.PetsAllowed != nil {
		listing.PetsAllowed = sql.NullBool{Bool: *household.PetsAllowed, Valid: true}
	}

	listing.Languages = extractors.ExtractLanguages(text)
	listing.Atmosphere = extractors.ExtractAtmosphere(text)
	listing.AmenitiesRaw, _ = json.Marshal(extractors.ExtractAmenities(text))

	listing.PropertyType = resolvePropertyType(raw, household.TotalFlatmates != nil)

	contactEmail := strings.TrimSpace(raw.ContactEmail)
	if contactEmail == "" {
		contactEmail, _ = extractors.ExtractContactEmail(raw.Description)
	}
	contactPhone := strings.TrimSpace(raw.ContactPhone)
	if contactPhone == "" {
		contactPhone, _ = extractors.ExtractContactPhone(raw.Description)
	}
	listing.ContactName = nullString(cleanText(raw.ContactName))
	listing.ContactEmail = nullString(contactEmail)
	listing.ContactPhone = nullString(contactPhone)

	// Auto-apply needs a usable contact email, nothing else.
	listing.AllowsAutoApply = contactEmail != ""

	return listing
}

// Validate reports whether a normalized listing carries the required identity
// fields. Price 0 is valid (price on request); negative is not.
func Validate(listing data.Listing) bool {
	if !listing.Platform.Valid() {
		return false
	}
	if listing.ExternalID == "" || listing.URL == "" || listing.Title == "" {
		return false
	}
	return listing.Price >= 0
}

// Deduplicate collapses listings sharing (platform, external_id) within one
// batch, keeping the most recently scraped version. Cross-batch duplicates
// are handled by the store's upsert.
func Deduplicate(listings []data.Listing) []data.Listing {
	index := make(map[string]int, len(listings))
	result := make([]data.Listing, 0, len(listings))

	for _, listing := range listings {
		key := string(listing.Platform) + "\x00" + listing.ExternalID
		at, seen := index[key]
		if !seen {
			index[key] = len(result)
			result = append(result, listing)
			continue
		}
		if listing.ScrapedAt.After(result[at].ScrapedAt) {
			result[at] = listing
		}
	}

	return result
}

func resolvePropertyType(raw models.RawListing, isWg bool) enums.PropertyType {
	if raw.PropertyType != enums.PropertyTypeInvalid {
		return raw.PropertyType
	}
	if raw.Platform == enums.PlatformWgGesucht || isWg {
		return enums.PropertyTypeWgRoom
	}
	return enums.PropertyTypeApartment
}

func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func dedupImages(images []string) []string {
	seen := make(map[string]struct{}, len(images))
	result := make([]string, 0, len(images))
	for _, url := range images {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		result = append(result, url)
	}
	return result
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
