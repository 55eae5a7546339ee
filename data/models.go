package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/wohnmatch/wohnmatch.api/enums"
)

// MatchWithListing is a match row joined with the listing fields shown in
// match lists and notification emails.
type MatchWithListing struct {
	ID         int64           `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	ListingID  int64           `db:"listing_id"`
	Score      int             `db:"score"`
	MatchedAt  time.Time       `db:"matched_at"`
	NotifiedAt sql.NullTime    `db:"notified_at"`
	Platform   enums.Platform  `db:"platform"`
	URL        string          `db:"url"`
	Title      string          `db:"title"`
	District   sql.NullString  `db:"district"`
	Price      int             `db:"price"`
	WarmRent   sql.NullInt64   `db:"warm_rent"`
	Rooms      sql.NullFloat64 `db:"rooms"`
	SizeSqm    sql.NullFloat64 `db:"size_sqm"`
}
