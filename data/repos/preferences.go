package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wohnmatch/wohnmatch.api/data"
)

type PreferencesRepo struct {
	db *sqlx.DB
}

func NewPreferencesRepo(db *sqlx.DB) *PreferencesRepo {
	return &PreferencesRepo{db}
}

// Upsert stores a user's search profile, one row per user.
func (r *PreferencesRepo) Upsert(ctx context.Context, prefs data.Preferences) (int, error) {
	query := `
		INSERT INTO preferences (
			user_id, min_rent, max_rent, min_rooms, max_rooms, min_size, max_size,
			districts, property_types, gender, age, smoker, has_pets, active
		) VALUES (
			:user_id, :min_rent, :max_rent, :min_rooms, :max_rooms, :min_size, :max_size,
			:districts, :property_types, :gender, :age, :smoker, :has_pets, :active
		)
		ON CONFLICT (user_id) DO UPDATE SET
			min_rent = EXCLUDED.min_rent,
			max_rent = EXCLUDED.max_rent,
			min_rooms = EXCLUDED.min_rooms,
			max_rooms = EXCLUDED.max_rooms,
			min_size = EXCLUDED.min_size,
			max_size = EXCLUDED.max_size,
			districts = EXCLUDED.districts,
			property_types = EXCLUDED.property_types,
			gender = EXCLUDED.gender,
			age = EXCLUDED.age,
			smoker = EXCLUDED.smoker,
			has_pets = EXCLUDED.has_pets,
			active = EXCLUDED.active,
			updated_at = now()
		RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, prefs)
	if err != nil {
		return 0, fmt.Errorf("upsert preferences: %w", err)
	}
	defer rows.Close()

	var id int
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan returned id: %w", err)
		}
	}

	return id, nil
}

func (r *PreferencesRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*data.Preferences, error) {
	var prefs data.Preferences
	query := "SELECT * FROM preferences WHERE user_id = $1"

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preferences by user id: %w", err)
	}

	return &prefs, nil
}

func (r *PreferencesRepo) GetActive(ctx context.Context) ([]data.Preferences, error) {
	var prefs []data.Preferences
	query := `
		SELECT * FROM preferences
		WHERE active = true
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &prefs, query)
	if err != nil {
		return nil, fmt.Errorf("get active preferences: %w", err)
	}

	return prefs, nil
}
