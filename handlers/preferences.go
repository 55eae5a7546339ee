package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/data/repos"
	"github.com/wohnmatch/wohnmatch.api/enums"
	"github.com/wohnmatch/wohnmatch.api/models"
)

// MatchRecomputer rebuilds a user's matches after their preferences change.
type MatchRecomputer interface {
	RecomputeForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PreferencesHandler struct {
	repo       *repos.PreferencesRepo
	recomputer MatchRecomputer
}

func NewPreferencesHandler(repo *repos.PreferencesRepo, recomputer MatchRecomputer) *PreferencesHandler {
	return &PreferencesHandler{repo: repo, recomputer: recomputer}
}

func (h *PreferencesHandler) UpsertPreferences(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value("user").(data.User)

	var req models.UpsertPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	if message := validatePreferences(req); message != "" {
		return BadRequest(message)
	}

	prefs := data.Preferences{
		UserID:        user.ID,
		MinRent:       toNullInt(req.MinRent),
		MaxRent:       toNullInt(req.MaxRent),
		MinRooms:      toNullFloat(req.MinRooms),
		MaxRooms:      toNullFloat(req.MaxRooms),
		MinSize:       toNullFloat(req.MinSize),
		MaxSize:       toNullFloat(req.MaxSize),
		Districts:     pq.StringArray(req.Districts),
		PropertyTypes: pq.StringArray(req.PropertyTypes),
		Gender:        enums.Gender(strings.ToLower(strings.TrimSpace(req.Gender))),
		Age:           toNullInt(req.Age),
		Smoker:        toNullBool(req.Smoker),
		HasPets:       toNullBool(req.HasPets),
		Active:        req.Active,
	}

	id, err := h.repo.Upsert(r.Context(), prefs)
	if err != nil {
		return InternalError(err, "upsert preferences")
	}

	// Recompute in the background, the saved profile is the response either
	// way. New matches show up on the next poll of GET /matches.
	go h.recomputeMatches(user.ID)

	return Created(id)
}

// recomputeMatches outlives the request, so it gets its own deadline instead
// of the request context.
const recomputeTimeout = 30 * time.Second

func (h *PreferencesHandler) recomputeMatches(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	count, err := h.recomputer.RecomputeForUser(ctx, userID)
	if err != nil {
		slog.Error("recompute matches after preferences update", "user_id", userID, "error", err)
		return
	}
	slog.Info("recomputed matches", "user_id", userID, "matches", count)
}

func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value("user").(data.User)

	prefs, err := h.repo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		return InternalError(err, "get preferences")
	}
	if prefs == nil {
		return NotFound("Preferences not set.")
	}

	return Ok(toPreferencesResponse(*prefs))
}

func validatePreferences(req models.UpsertPreferencesRequest) string {
	if req.MinRent != nil && *req.MinRent < 0 {
		return "Minimum rent must not be negative."
	}
	if req.MinRent != nil && req.MaxRent != nil && *req.MinRent > *req.MaxRent {
		return "Minimum rent must not exceed maximum rent."
	}
	if req.MinRooms != nil && req.MaxRooms != nil && *req.MinRooms > *req.MaxRooms {
		return "Minimum rooms must not exceed maximum rooms."
	}
	if req.MinSize != nil && req.MaxSize != nil && *req.MinSize > *req.MaxSize {
		return "Minimum size must not exceed maximum size."
	}
	if req.Age != nil && (*req.Age < 16 || *req.Age > 120) {
		return "Age must be between 16 and 120."
	}
	if gender := strings.ToLower(strings.TrimSpace(req.Gender)); gender != "" {
		switch enums.Gender(gender) {
		case enums.GenderMale, enums.GenderFemale, enums.GenderAny:
		default:
			return "Invalid gender."
		}
	}
	for _, propertyType := range req.PropertyTypes {
		if !enums.PropertyType(propertyType).Valid() {
			return "Invalid property type: " + propertyType + "."
		}
	}
	return ""
}

func toPreferencesResponse(prefs data.Preferences) models.PreferencesResponse {
	return models.PreferencesResponse{
		ID:            prefs.ID,
		UserID:        prefs.UserID,
		MinRent:       fromNullInt(prefs.MinRent),
		MaxRent:       fromNullInt(prefs.MaxRent),
		MinRooms:      fromNullFloat(prefs.MinRooms),
		MaxRooms:      fromNullFloat(prefs.MaxRooms),
		MinSize:       fromNullFloat(prefs.MinSize),
		MaxSize:       fromNullFloat(prefs.MaxSize),
		Districts:     prefs.Districts,
		PropertyTypes: prefs.PropertyTypes,
		Gender:        string(prefs.Gender),
		Age:           fromNullInt(prefs.Age),
		Smoker:        fromNullBool(prefs.Smoker),
		HasPets:       fromNullBool(prefs.HasPets),
		Active:        prefs.Active,
	}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func fromNullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
