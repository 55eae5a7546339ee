package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/enums"
)

type ListingRepo struct {
	db *sqlx.DB
}

func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db}
}

// UpsertListings inserts a batch keyed by (platform, external_id) in one
// round trip. Mutable fields of an existing row are overwritten, id and
// scraped_at are preserved. The returned slice is the input with ids filled.
func (r *ListingRepo) UpsertListings(ctx context.Context, listings []data.Listing) ([]data.Listing, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO listings (
			platform, external_id, url, title, description, property_type,
			price, utilities, warm_rent, warm_rent_derived, deposit,
			size_sqm, rooms, floor, total_floors,
			available_from, available_to,
			district, address, latitude, longitude,
			images, amenities,
			total_flatmates, flatmates_gender, preferred_gender,
			preferred_age_min, preferred_age_max, smoking, pets_allowed,
			languages, atmosphere,
			contact_name, contact_email, contact_phone, allows_auto_apply,
			scraped_at, last_seen_at, is_active
		) VALUES (
			:platform, :external_id, :url, :title, :description, :property_type,
			:price, :utilities, :warm_rent, :warm_rent_derived, :deposit,
			:size_sqm, :rooms, :floor, :total_floors,
			:available_from, :available_to,
			:district, :address, :latitude, :longitude,
			:images, :amenities,
			:total_flatmates, :flatmates_gender, :preferred_gender,
			:preferred_age_min, :preferred_age_max, :smoking, :pets_allowed,
			:languages, :atmosphere,
			:contact_name, :contact_email, :contact_phone, :allows_auto_apply,
			:scraped_at, :last_seen_at, :is_active
		)
		ON CONFLICT (platform, external_id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			property_type = EXCLUDED.property_type,
			price = EXCLUDED.price,
			utilities = EXCLUDED.utilities,
			warm_rent = EXCLUDED.warm_rent,
			warm_rent_derived = EXCLUDED.warm_rent_derived,
			deposit = EXCLUDED.deposit,
			size_sqm = EXCLUDED.size_sqm,
			rooms = EXCLUDED.rooms,
			floor = EXCLUDED.floor,
			total_floors = EXCLUDED.total_floors,
			available_from = EXCLUDED.available_from,
			available_to = EXCLUDED.available_to,
			district = EXCLUDED.district,
			address = EXCLUDED.address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			images = EXCLUDED.images,
			amenities = EXCLUDED.amenities,
			total_flatmates = EXCLUDED.total_flatmates,
			flatmates_gender = EXCLUDED.flatmates_gender,
			preferred_gender = EXCLUDED.preferred_gender,
			preferred_age_min = EXCLUDED.preferred_age_min,
			preferred_age_max = EXCLUDED.preferred_age_max,
			smoking = EXCLUDED.smoking,
			pets_allowed = EXCLUDED.pets_allowed,
			languages = EXCLUDED.languages,
			atmosphere = EXCLUDED.atmosphere,
			contact_name = EXCLUDED.contact_name,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			allows_auto_apply = EXCLUDED.allows_auto_apply,
			last_seen_at = EXCLUDED.last_seen_at,
			is_active = EXCLUDED.is_active`

	if _, err := r.db.NamedExecContext(ctx, query, listings); err != nil {
		return nil, fmt.Errorf("upsert listings: %w", err)
	}

	return r.fillIDs(ctx, listings)
}

// fillIDs resolves row ids for an upserted batch, one query per platform.
func (r *ListingRepo) fillIDs(ctx context.Context, listings []data.Listing) ([]data.Listing, error) {
	byPlatform := make(map[enums.Platform][]string)
	for _, listing := range listings {
		byPlatform[listing.Platform] = append(byPlatform[listing.Platform], listing.ExternalID)
	}

	type idRow struct {
		ID         int64          `db:"id"`
		Platform   enums.Platform `db:"platform"`
		ExternalID string         `db:"external_id"`
	}

	ids := make(map[string]int64, len(listings))
	for platform, externalIDs := range byPlatform {
		var rows []idRow
		err := r.db.SelectContext(ctx, &rows, `
			SELECT id, platform, external_id FROM listings
			WHERE platform = $1 AND external_id = ANY($2)`,
			platform, pq.Array(externalIDs))
		if err != nil {
			return nil, fmt.Errorf("resolve listing ids: %w", err)
		}
		for _, row := range rows {
			ids[string(row.Platform)+"\x00"+row.ExternalID] = row.ID
		}
	}

	result := make([]data.Listing, len(listings))
	copy(result, listings)
	for i := range result {
		result[i].ID = ids[string(result[i].Platform)+"\x00"+result[i].ExternalID]
	}

	return result, nil
}

func (r *ListingRepo) GetByID(ctx context.Context, id int64) (*data.Listing, error) {
	var listing data.Listing
	query := "SELECT * FROM listings WHERE id = $1"

	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		return nil, fmt.Errorf("get listing by id: %w", err)
	}

	return &listing, nil
}

func (r *ListingRepo) GetActiveListings(ctx context.Context) ([]data.Listing, error) {
	var listings []data.Listing
	query := `
		SELECT * FROM listings
		WHERE is_active = true
		ORDER BY last_seen_at DESC`

	err := r.db.SelectContext(ctx, &listings, query)
	if err != nil {
		return nil, fmt.Errorf("get active listings: %w", err)
	}

	return listings, nil
}

func (r *ListingRepo) GetActiveListingsPage(ctx context.Context, limit, offset int) ([]data.Listing, int, error) {
	var listings []data.Listing
	query := `
		SELECT * FROM listings
		WHERE is_active = true
		ORDER BY last_seen_at DESC
		LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &listings, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get active listings page: %w", err)
	}

	var total int
	err = r.db.GetContext(ctx, &total, "SELECT count(*) FROM listings WHERE is_active = true")
	if err != nil {
		return nil, 0, fmt.Errorf("count active listings: %w", err)
	}

	return listings, total, nil
}

// DeactivateNotSeenSince flags listings that no scrape run has seen since the
// cutoff. Scrape-run bookkeeping (choosing the cutoff) belongs to the caller.
func (r *ListingRepo) DeactivateNotSeenSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET is_active = false
		WHERE is_active = true AND last_seen_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deactivate listings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate listings rows affected: %w", err)
	}

	return affected, nil
}
