package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wohnmatch/wohnmatch.api/models"
)

type captureRecomputer struct {
	ctx    context.Context
	userID uuid.UUID
}

func (c *captureRecomputer) RecomputeForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	c.ctx = ctx
	c.userID = userID
	return 0, nil
}

func TestRecomputeMatches_RunsWithDeadline(t *testing.T) {
	rec := &captureRecomputer{}
	h := NewPreferencesHandler(nil, rec)

	userID := uuid.New()
	h.recomputeMatches(userID)

	assert.Equal(t, userID, rec.userID)
	require.NotNil(t, rec.ctx)
	deadline, ok := rec.ctx.Deadline()
	require.True(t, ok, "recompute must not run with an unbounded context")
	assert.WithinDuration(t, time.Now().Add(recomputeTimeout), deadline, time.Second)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestValidatePreferences(t *testing.T) {
	assert.Empty(t, validatePreferences(models.UpsertPreferencesRequest{
		MinRent:  intPtr(600),
		MaxRent:  intPtr(1000),
		MinRooms: floatPtr(1),
		MaxRooms: floatPtr(3),
		Gender:   "Female",
	}))

	assert.NotEmpty(t, validatePreferences(models.UpsertPreferencesRequest{
		MinRent: intPtr(1200), MaxRent: intPtr(1000),
	}))
	assert.NotEmpty(t, validatePreferences(models.UpsertPreferencesRequest{
		MinRooms: floatPtr(3), MaxRooms: floatPtr(1),
	}))
	assert.NotEmpty(t, validatePreferences(models.UpsertPreferencesRequest{
		Gender: "other",
	}))
	assert.NotEmpty(t, validatePreferences(models.UpsertPreferencesRequest{
		PropertyTypes: []string{"castle"},
	}))
	assert.NotEmpty(t, validatePreferences(models.UpsertPreferencesRequest{
		Age: intPtr(12),
	}))
}
