package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wohnmatch/wohnmatch.api/enums"
)

type User struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	Avatar      string    `db:"avatar"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Listing is the canonical representation of a scraped listing. A listing is
// uniquely identified by (platform, external_id); re-scraping the same
// external listing updates mutable fields and last_seen_at in place.
type Listing struct {
	ID           int64              `db:"id"`
	Platform     enums.Platform     `db:"platform"`
	ExternalID   string             `db:"external_id"`
	URL          string             `db:"url"`
	Title        string             `db:"title"`
	Description  string             `db:"description"`
	PropertyType enums.PropertyType `db:"property_type"`

	// Price is the cold rent in whole euros. 0 means price on request.
	Price           int           `db:"price"`
	Utilities       sql.NullInt64 `db:"utilities"`
	WarmRent        sql.NullInt64 `db:"warm_rent"`
	WarmRentDerived bool          `db:"warm_rent_derived"`
	Deposit         sql.NullInt64 `db:"deposit"`

	SizeSqm     sql.NullFloat64 `db:"size_sqm"`
	Rooms       sql.NullFloat64 `db:"rooms"`
	Floor       sql.NullInt64   `db:"floor"`
	TotalFloors sql.NullInt64   `db:"total_floors"`

	AvailableFrom sql.NullTime `db:"available_from"`
	AvailableTo   sql.NullTime `db:"available_to"`

	District  sql.NullString  `db:"district"`
	Address   sql.NullString  `db:"address"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`

	Images       pq.StringArray `db:"images"`
	AmenitiesRaw []byte         `db:"amenities"`

	TotalFlatmates  sql.NullInt64       `db:"total_flatmates"`
	FlatmatesGender enums.Gender        `db:"flatmates_gender"`
	PreferredGender enums.Gender        `db:"preferred_gender"`
	PreferredAgeMin sql.NullInt64       `db:"preferred_age_min"`
	PreferredAgeMax sql.NullInt64       `db:"preferred_age_max"`
	Smoking         enums.SmokingPolicy `db:"smoking"`
	PetsAllowed     sql.NullBool        `db:"pets_allowed"`
	Languages       pq.StringArray      `db:"languages"`
	Atmosphere      pq.StringArray      `db:"atmosphere"`

	ContactName     sql.NullString `db:"contact_name"`
	ContactEmail    sql.NullString `db:"contact_email"`
	ContactPhone    sql.NullString `db:"contact_phone"`
	AllowsAutoApply bool           `db:"allows_auto_apply"`

	ScrapedAt  time.Time `db:"scraped_at"`
	LastSeenAt time.Time `db:"last_seen_at"`
	IsActive   bool      `db:"is_active"`
}

// Preferences is a user's stored search profile. One row per user, upserted
// on user_id. Null range bounds mean the criterion is unset.
type Preferences struct {
	ID     int       `db:"id"`
	UserID uuid.UUID `db:"user_id"`

	MinRent  sql.NullInt64   `db:"min_rent"`
	MaxRent  sql.NullInt64   `db:"max_rent"`
	MinRooms sql.NullFloat64 `db:"min_rooms"`
	MaxRooms sql.NullFloat64 `db:"max_rooms"`
	MinSize  sql.NullFloat64 `db:"min_size"`
	MaxSize  sql.NullFloat64 `db:"max_size"`

	Districts     pq.StringArray `db:"districts"`
	PropertyTypes pq.StringArray `db:"property_types"`

	Gender  enums.Gender  `db:"gender"`
	Age     sql.NullInt64 `db:"age"`
	Smoker  sql.NullBool  `db:"smoker"`
	HasPets sql.NullBool  `db:"has_pets"`

	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Match joins a user's preferences to a listing that scored at or above the
// match threshold. Pure derived data, recomputable from listing + preferences.
type Match struct {
	ID          int64        `db:"id"`
	UserID      uuid.UUID    `db:"user_id"`
	ListingID   int64        `db:"listing_id"`
	Score       int          `db:"score"`
	MatchedAt   time.Time    `db:"matched_at"`
	DismissedAt sql.NullTime `db:"dismissed_at"`
	NotifiedAt  sql.NullTime `db:"notified_at"`
}
