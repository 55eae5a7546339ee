package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/enums"
	"github.com/wohnmatch/wohnmatch.api/matchers"
	"github.com/wohnmatch/wohnmatch.api/models"
)

type fakeListingStore struct {
	mu        sync.Mutex
	nextID    int64
	byKey     map[string]data.Listing
	failBatch bool
	failKeys  map[string]bool
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{byKey: map[string]data.Listing{}, failKeys: map[string]bool{}}
}

func listingKey(platform enums.Platform, externalID string) string {
	return string(platform) + "\x00" + externalID
}

func (s *fakeListingStore) UpsertListings(ctx context.Context, listings []data.Listing) ([]data.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failBatch && len(listings) > 1 {
		return nil, errors.New("batch write refused")
	}

	result := make([]data.Listing, 0, len(listings))
	for _, listing := range listings {
		key := listingKey(listing.Platform, listing.ExternalID)
		if s.failKeys[key] {
			return nil, errors.New("write refused for " + listing.ExternalID)
		}
		if existing, ok := s.byKey[key]; ok {
			listing.ID = existing.ID
		} else {
			s.nextID++
			listing.ID = s.nextID
		}
		s.byKey[key] = listing
		result = append(result, listing)
	}
	return result, nil
}

func (s *fakeListingStore) GetActiveListings(ctx context.Context) ([]data.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listings []data.Listing
	for _, listing := range s.byKey {
		if listing.IsActive {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}

type fakeMatchStore struct {
	mu        sync.Mutex
	matches   []data.Match
	failUsers map[uuid.UUID]bool
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{failUsers: map[uuid.UUID]bool{}}
}

func (s *fakeMatchStore) CreateMatches(ctx context.Context, matches []data.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, match := range matches {
		if s.failUsers[match.UserID] {
			return errors.New("match write refused")
		}
	}
	s.matches = append(s.matches, matches...)
	return nil
}

func (s *fakeMatchStore) DeleteMatchesForUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.matches[:0]
	for _, match := range s.matches {
		if match.UserID != userID {
			kept = append(kept, match)
		}
	}
	s.matches = kept
	return nil
}

func (s *fakeMatchStore) forUser(userID uuid.UUID) []data.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []data.Match
	for _, match := range s.matches {
		if match.UserID == userID {
			result = append(result, match)
		}
	}
	return result
}

type fakePreferencesStore struct {
	active []data.Preferences
}

func (s *fakePreferencesStore) GetActive(ctx context.Context) ([]data.Preferences, error) {
	return s.active, nil
}

func (s *fakePreferencesStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*data.Preferences, error) {
	for _, prefs := range s.active {
		if prefs.UserID == userID {
			p := prefs
			return &p, nil
		}
	}
	return nil, nil
}

func testPipeline(listings *fakeListingStore, matches *fakeMatchStore, prefs *fakePreferencesStore) *Pipeline {
	return New(slog.New(slog.DiscardHandler), listings, matches, prefs, 4)
}

func rawFixture() models.RawListing {
	return models.RawListing{
		Platform:    enums.PlatformWgGesucht,
		ExternalID:  "wg-1001",
		URL:         "https://www.wg-gesucht.de/1001.html",
		Title:       "Helles WG-Zimmer in Kreuzberg",
		PriceText:   "750€ Kaltmiete + 150€ Nebenkosten",
		Description: "1,5 Zimmer, 24 m², frei ab 01.10.2026. Keine Haustiere.",
		District:    "Kreuzberg",
		ScrapedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func kreuzbergPrefs(userID uuid.UUID) data.Preferences {
	return data.Preferences{
		UserID:    userID,
		MaxRent:   sql.NullInt64{Int64: 1000, Valid: true},
		Districts: pq.StringArray{"Kreuzberg"},
		Active:    true,
	}
}

func TestProcessBatch_EndToEnd(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	userID := uuid.New()
	prefs := &fakePreferencesStore{active: []data.Preferences{kreuzbergPrefs(userID)}}

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(), []models.RawListing{rawFixture()})

	assert.Equal(t, 1, result.Received)
	assert.Equal(t, 0, result.Rejected)
	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 1, result.MatchesCreated)

	stored := listings.byKey[listingKey(enums.PlatformWgGesucht, "wg-1001")]
	assert.Equal(t, 750, stored.Price)
	assert.EqualValues(t, 900, stored.WarmRent.Int64)
	assert.True(t, stored.WarmRentDerived)
	assert.Equal(t, 1.5, stored.Rooms.Float64)

	created := matches.forUser(userID)
	require.Len(t, created, 1)
	assert.Equal(t, stored.ID, created[0].ListingID)
	assert.GreaterOrEqual(t, created[0].Score, matchers.MatchThreshold)
}

func TestProcessBatch_ScoreBelowThresholdCreatesNoMatch(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	userID := uuid.New()
	prefs := &fakePreferencesStore{active: []data.Preferences{{
		UserID:  userID,
		MaxRent: sql.NullInt64{Int64: 1000, Valid: true},
		Active:  true,
	}}}

	raw := rawFixture()
	raw.PriceText = "1041€ Kaltmiete"
	raw.Description = "1,5 Zimmer, 24 m²."

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(), []models.RawListing{raw})

	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 0, result.MatchesCreated)
	assert.Empty(t, matches.forUser(userID))

	// One euro less lands exactly on the threshold.
	raw.ExternalID = "wg-1002"
	raw.PriceText = "1040€ Kaltmiete"
	result = testPipeline(listings, matches, prefs).ProcessBatch(context.Background(), []models.RawListing{raw})

	assert.Equal(t, 1, result.MatchesCreated)
	require.Len(t, matches.forUser(userID), 1)
	assert.Equal(t, matchers.MatchThreshold, matches.forUser(userID)[0].Score)
}

func TestProcessBatch_TotalRentOnlyListingStillMatches(t *testing.T) {
	// Index cards carry only the total rent, so the normalized listing has
	// no cold rent. A fitting budget must still produce a match.
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	userID := uuid.New()
	prefs := &fakePreferencesStore{active: []data.Preferences{{
		UserID:   userID,
		MinRent:  sql.NullInt64{Int64: 600, Valid: true},
		MaxRent:  sql.NullInt64{Int64: 1000, Valid: true},
		MinRooms: sql.NullFloat64{Float64: 1, Valid: true},
		MaxRooms: sql.NullFloat64{Float64: 2, Valid: true},
		Active:   true,
	}}}

	raw := rawFixture()
	raw.PriceText = "Gesamtmiete: 750 €"
	raw.Description = "1,5 Zimmer, 24 m²."

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(), []models.RawListing{raw})

	stored := listings.byKey[listingKey(enums.PlatformWgGesucht, "wg-1001")]
	assert.Equal(t, 0, stored.Price)
	assert.EqualValues(t, 750, stored.WarmRent.Int64)

	assert.Equal(t, 1, result.MatchesCreated)
	created := matches.forUser(userID)
	require.Len(t, created, 1)
	assert.GreaterOrEqual(t, created[0].Score, matchers.MatchThreshold)
}

func TestProcessBatch_RejectedListingDoesNotAbortBatch(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	prefs := &fakePreferencesStore{}

	broken := rawFixture()
	broken.ExternalID = "wg-broken"
	broken.URL = ""

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(),
		[]models.RawListing{broken, rawFixture()})

	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, result.Upserted)
}

func TestProcessBatch_DuplicatesCollapseToLatest(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	prefs := &fakePreferencesStore{}

	first := rawFixture()
	second := rawFixture()
	second.Title = "Helles WG-Zimmer in Kreuzberg (aktualisiert)"
	second.ScrapedAt = first.ScrapedAt.Add(time.Hour)

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(),
		[]models.RawListing{first, second})

	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Upserted)
	stored := listings.byKey[listingKey(enums.PlatformWgGesucht, "wg-1001")]
	assert.Equal(t, second.Title, stored.Title)
}

func TestProcessBatch_BatchUpsertFallsBackPerRecord(t *testing.T) {
	listings := newFakeListingStore()
	listings.failBatch = true
	listings.failKeys[listingKey(enums.PlatformWgGesucht, "wg-bad")] = true
	matches := newFakeMatchStore()
	prefs := &fakePreferencesStore{}

	bad := rawFixture()
	bad.ExternalID = "wg-bad"

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(),
		[]models.RawListing{rawFixture(), bad})

	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 1, result.UpsertFailed)
	assert.Contains(t, listings.byKey, listingKey(enums.PlatformWgGesucht, "wg-1001"))
}

func TestProcessBatch_UserFailureIsIsolated(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()

	goodUser := uuid.New()
	badUser := uuid.New()
	matches.failUsers[badUser] = true
	prefs := &fakePreferencesStore{active: []data.Preferences{
		kreuzbergPrefs(goodUser),
		kreuzbergPrefs(badUser),
	}}

	result := testPipeline(listings, matches, prefs).ProcessBatch(context.Background(), []models.RawListing{rawFixture()})

	assert.Equal(t, 1, result.UsersFailed)
	assert.Equal(t, 1, result.MatchesCreated)
	assert.Len(t, matches.forUser(goodUser), 1)
	assert.Empty(t, matches.forUser(badUser))
}

func TestRecomputeForUser_DeletesAndRebuilds(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	userID := uuid.New()
	prefs := &fakePreferencesStore{active: []data.Preferences{kreuzbergPrefs(userID)}}
	p := testPipeline(listings, matches, prefs)

	// Seed one listing and a stale match pointing at nothing.
	p.ProcessBatch(context.Background(), []models.RawListing{rawFixture()})
	matches.matches = append(matches.matches, data.Match{UserID: userID, ListingID: 9999, Score: 1})

	created, err := p.RecomputeForUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	recomputed := matches.forUser(userID)
	require.Len(t, recomputed, 1)
	assert.NotEqual(t, int64(9999), recomputed[0].ListingID)
}

func TestRecomputeForUser_NoActivePreferences(t *testing.T) {
	listings := newFakeListingStore()
	matches := newFakeMatchStore()
	userID := uuid.New()
	p := testPipeline(listings, matches, &fakePreferencesStore{})

	p.ProcessBatch(context.Background(), []models.RawListing{rawFixture()})
	matches.matches = append(matches.matches, data.Match{UserID: userID, ListingID: 1, Score: 80})

	created, err := p.RecomputeForUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Empty(t, matches.forUser(userID), "stale matches are cleared even without preferences")
}
