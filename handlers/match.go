package handlers

import (
	"net/http"
	"strconv"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/data/repos"
	"github.com/wohnmatch/wohnmatch.api/models"
)

type MatchHandler struct {
	repo *repos.MatchRepo
}

func NewMatchHandler(repo *repos.MatchRepo) *MatchHandler {
	return &MatchHandler{repo}
}

func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value("user").(data.User)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	matches, total, err := h.repo.GetMatchesByUserID(r.Context(), user.ID, perPage, offset)
	if err != nil {
		return InternalError(err, "get matches")
	}

	res := models.GetMatchesResponse{
		Matches: make([]models.Match, 0, len(matches)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	for _, m := range matches {
		res.Matches = append(res.Matches, toMatchModel(m))
	}

	return Ok(res)
}

func (h *MatchHandler) DismissMatch(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value("user").(data.User)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return BadRequest("Invalid match ID.")
	}

	dismissed, err := h.repo.DismissMatch(r.Context(), user.ID, id)
	if err != nil {
		return InternalError(err, "dismiss match")
	}
	if !dismissed {
		return NotFound("Match not found.")
	}

	return Ok(nil)
}

func toMatchModel(m data.MatchWithListing) models.Match {
	return models.Match{
		ID:        m.ID,
		Score:     m.Score,
		MatchedAt: m.MatchedAt,
		Listing: models.MatchedItem{
			ID:       m.ListingID,
			Platform: string(m.Platform),
			URL:      m.URL,
			Title:    m.Title,
			District: m.District.String,
			Price:    m.Price,
			WarmRent: fromNullInt(m.WarmRent),
			Rooms:    fromNullFloat(m.Rooms),
			SizeSqm:  fromNullFloat(m.SizeSqm),
		},
	}
}
