// Package pipeline drives a batch of raw scrape results through
// normalization, validation, deduplication, persistence and matching.
// Failures are recovered at the smallest scope possible: a bad listing or a
// failing user never aborts the batch, it only shows up in the counts.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/matchers"
	"github.com/wohnmatch/wohnmatch.api/models"
	"github.com/wohnmatch/wohnmatch.api/normalizers"
)

type ListingStore interface {
	UpsertListings(ctx context.Context, listings []data.Listing) ([]data.Listing, error)
	GetActiveListings(ctx context.Context) ([]data.Listing, error)
}

type MatchStore interface {
	CreateMatches(ctx context.Context, matches []data.Match) error
	DeleteMatchesForUser(ctx context.Context, userID uuid.UUID) error
}

type PreferencesStore interface {
	GetActive(ctx context.Context) ([]data.Preferences, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*data.Preferences, error)
}

// BatchResult reports what happened to one batch. Failures surface here and
// in the logs, never as an error from ProcessBatch.
type BatchResult struct {
	Received       int
	Rejected       int
	Duplicates     int
	Upserted       int
	UpsertFailed   int
	MatchesCreated int
	UsersFailed    int
}

type Pipeline struct {
	logger   *slog.Logger
	listings ListingStore
	matches  MatchStore
	prefs    PreferencesStore
	workers  int
}

func New(logger *slog.Logger, listings ListingStore, matches MatchStore, prefs PreferencesStore, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		logger:   logger,
		listings: listings,
		matches:  matches,
		prefs:    prefs,
		workers:  workers,
	}
}

// ProcessBatch runs one scraper batch end to end: normalize, validate,
// deduplicate, upsert, then score every persisted listing against every
// active user's preferences and persist the matches at or above the
// threshold.
func (p *Pipeline) ProcessBatch(ctx context.Context, raws []models.RawListing) BatchResult {
	started := time.Now()
	result := BatchResult{Received: len(raws)}
	if len(raws) == 0 {
		return result
	}
	platform := string(raws[0].Platform)
	listingsReceived.WithLabelValues(platform).Add(float64(len(raws)))

	normalized := make([]data.Listing, 0, len(raws))
	for _, raw := range raws {
		listing := normalizers.Normalize(raw)
		if !normalizers.Validate(listing) {
			result.Rejected++
			p.logger.Debug("rejected listing", "platform", raw.Platform, "external_id", raw.ExternalID, "url", raw.URL)
			continue
		}
		normalized = append(normalized, listing)
	}
	listingsRejected.WithLabelValues(platform).Add(float64(result.Rejected))

	deduplicated := normalizers.Deduplicate(normalized)
	result.Duplicates = len(normalized) - len(deduplicated)

	persisted := p.upsertListings(ctx, deduplicated, &result)
	listingsUpserted.WithLabelValues(platform).Add(float64(result.Upserted))
	listingsFailed.WithLabelValues(platform).Add(float64(result.UpsertFailed))

	if len(persisted) > 0 {
		p.matchListings(ctx, persisted, &result)
	}
	matchesCreated.WithLabelValues(platform).Add(float64(result.MatchesCreated))
	matchUsersFailed.Add(float64(result.UsersFailed))

	batchDuration.WithLabelValues(platform).Observe(time.Since(started).Seconds())
	p.logger.Info("processed batch",
		"platform", platform,
		"received", result.Received,
		"rejected", result.Rejected,
		"duplicates", result.Duplicates,
		"upserted", result.Upserted,
		"upsert_failed", result.UpsertFailed,
		"matches_created", result.MatchesCreated,
		"users_failed", result.UsersFailed,
		"elapsed_ms", time.Since(started).Milliseconds())

	return result
}

// upsertListings writes the batch in one shot and falls back to per-record
// writes when the batch fails, so one bad record cannot sink the rest.
func (p *Pipeline) upsertListings(ctx context.Context, listings []data.Listing, result *BatchResult) []data.Listing {
	if len(listings) == 0 {
		return nil
	}

	persisted, err := p.listings.UpsertListings(ctx, listings)
	if err == nil {
		result.Upserted = len(persisted)
		return persisted
	}
	p.logger.Error("batch upsert failed, retrying per record", "error", err)

	persisted = make([]data.Listing, 0, len(listings))
	for _, listing := range listings {
		single, err := p.listings.UpsertListings(ctx, []data.Listing{listing})
		if err != nil {
			result.UpsertFailed++
			p.logger.Error("upsert listing failed",
				"platform", listing.Platform, "external_id", listing.ExternalID, "error", err)
			continue
		}
		persisted = append(persisted, single...)
	}
	result.Upserted = len(persisted)

	return persisted
}

// matchListings scores every (listing, user) pair. Scoring is pure, so pairs
// are evaluated concurrently; a failure persisting one user's matches does
// not block the others.
func (p *Pipeline) matchListings(ctx context.Context, listings []data.Listing, result *BatchResult) {
	prefs, err := p.prefs.GetActive(ctx)
	if err != nil {
		p.logger.Error("load active preferences", "error", err)
		return
	}
	if len(prefs) == 0 {
		return
	}

	var mu sync.Mutex
	byUser := make(map[uuid.UUID][]data.Match)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, listing := range listings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, pref := range prefs {
				score := matchers.CalculateMatchScore(listing, pref)
				if score < matchers.MatchThreshold {
					continue
				}
				mu.Lock()
				byUser[pref.UserID] = append(byUser[pref.UserID], data.Match{
					UserID:    pref.UserID,
					ListingID: listing.ID,
					Score:     score,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error("matching interrupted", "error", err)
		return
	}

	all := make([]data.Match, 0, len(listings))
	for _, userMatches := range byUser {
		all = append(all, userMatches...)
	}
	if len(all) == 0 {
		return
	}

	err = p.matches.CreateMatches(ctx, all)
	if err == nil {
		result.MatchesCreated = len(all)
		return
	}
	p.logger.Error("batch match insert failed, retrying per user", "error", err)

	for userID, userMatches := range byUser {
		if err := p.matches.CreateMatches(ctx, userMatches); err != nil {
			result.UsersFailed++
			p.logger.Error("create matches for user", "user_id", userID, "error", err)
			continue
		}
		result.MatchesCreated += len(userMatches)
	}
}

// RecomputeForUser deletes and rebuilds a user's matches against all active
// listings. This is the only path that rescored existing matches; it runs
// when the user saves their preferences.
func (p *Pipeline) RecomputeForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := p.matches.DeleteMatchesForUser(ctx, userID); err != nil {
		return 0, errors.Wrap(err, "recompute: delete matches")
	}

	prefs, err := p.prefs.GetByUserID(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "recompute: load preferences")
	}
	if prefs == nil || !prefs.Active {
		return 0, nil
	}

	listings, err := p.listings.GetActiveListings(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "recompute: load active listings")
	}

	matches := make([]data.Match, 0, 32)
	for _, listing := range listings {
		score := matchers.CalculateMatchScore(listing, *prefs)
		if score < matchers.MatchThreshold {
			continue
		}
		matches = append(matches, data.Match{
			UserID:    userID,
			ListingID: listing.ID,
			Score:     score,
		})
	}

	if err := p.matches.CreateMatches(ctx, matches); err != nil {
		return 0, errors.Wrap(err, "recompute: create matches")
	}

	return len(matches), nil
}
