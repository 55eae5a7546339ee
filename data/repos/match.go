package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wohnmatch/wohnmatch.api/data"
)

type MatchRepo struct {
	db *sqlx.DB
}

func NewMatchRepo(db *sqlx.DB) *MatchRepo {
	return &MatchRepo{db}
}

// CreateMatches batch-inserts matches. An existing match for the same
// (user_id, listing_id) is left untouched, not rescored.
func (r *MatchRepo) CreateMatches(ctx context.Context, matches []data.Match) error {
	if len(matches) == 0 {
		return nil
	}

	query := `
		INSERT INTO matches (user_id, listing_id, score, matched_at)
		VALUES (:user_id, :listing_id, :score, now())
		ON CONFLICT (user_id, listing_id) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, matches)
	if err != nil {
		return fmt.Errorf("create matches: %w", err)
	}

	return nil
}

func (r *MatchRepo) GetMatchesByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]data.MatchWithListing, int, error) {
	var matches []data.MatchWithListing
	query := `
		SELECT m.id, m.user_id, m.listing_id, m.score, m.matched_at, m.notified_at,
		       l.platform, l.url, l.title, l.district, l.price, l.warm_rent, l.rooms, l.size_sqm
		FROM matches m
		JOIN listings l ON l.id = m.listing_id
		WHERE m.user_id = $1 AND m.dismissed_at IS NULL AND l.is_active = true
		ORDER BY m.matched_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &matches, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get matches by user id: %w", err)
	}

	var total int
	err = r.db.GetContext(ctx, &total, `
		SELECT count(*)
		FROM matches m
		JOIN listings l ON l.id = m.listing_id
		WHERE m.user_id = $1 AND m.dismissed_at IS NULL AND l.is_active = true`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count matches by user id: %w", err)
	}

	return matches, total, nil
}

// DismissMatch soft-deletes a match for the owning user.
func (r *MatchRepo) DismissMatch(ctx context.Context, userID uuid.UUID, matchID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches SET dismissed_at = now()
		WHERE id = $1 AND user_id = $2 AND dismissed_at IS NULL`, matchID, userID)
	if err != nil {
		return false, fmt.Errorf("dismiss match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("dismiss match rows affected: %w", err)
	}

	return affected > 0, nil
}

// DeleteMatchesForUser clears a user's matches ahead of a full recompute,
// which happens when the user updates their preferences.
func (r *MatchRepo) DeleteMatchesForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM matches WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("delete matches for user: %w", err)
	}

	return nil
}

func (r *MatchRepo) GetUnnotifiedMatches(ctx context.Context) ([]data.MatchWithListing, error) {
	var matches []data.MatchWithListing
	query := `
		SELECT m.id, m.user_id, m.listing_id, m.score, m.matched_at, m.notified_at,
		       l.platform, l.url, l.title, l.district, l.price, l.warm_rent, l.rooms, l.size_sqm
		FROM matches m
		JOIN listings l ON l.id = m.listing_id
		WHERE m.notified_at IS NULL AND m.dismissed_at IS NULL
		ORDER BY m.matched_at ASC`

	err := r.db.SelectContext(ctx, &matches, query)
	if err != nil {
		return nil, fmt.Errorf("get unnotified matches: %w", err)
	}

	return matches, nil
}

func (r *MatchRepo) MarkNotified(ctx context.Context, ids []int64, notifiedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE matches SET notified_at = ? WHERE id IN (?)`, notifiedAt, ids)
	if err != nil {
		return fmt.Errorf("build mark notified: %w", err)
	}
	query = r.db.Rebind(query)

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}

	return nil
}
