package handlers

import (
	"net/http"
	"strconv"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/data/repos"
	"github.com/wohnmatch/wohnmatch.api/models"
)

type ListingHandler struct {
	repo *repos.ListingRepo
}

func NewListingHandler(repo *repos.ListingRepo) *ListingHandler {
	return &ListingHandler{repo}
}

func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) Result {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	listings, total, err := h.repo.GetActiveListingsPage(r.Context(), perPage, offset)
	if err != nil {
		return InternalError(err, "get listings")
	}

	res := models.GetListingsResponse{
		Listings: make([]models.ListingSummary, 0, len(listings)),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
	for _, listing := range listings {
		res.Listings = append(res.Listings, toListingSummary(listing))
	}

	return Ok(res)
}

func toListingSummary(listing data.Listing) models.ListingSummary {
	summary := models.ListingSummary{
		ID:           listing.ID,
		Platform:     string(listing.Platform),
		URL:          listing.URL,
		Title:        listing.Title,
		District:     listing.District.String,
		Price:        listing.Price,
		WarmRent:     fromNullInt(listing.WarmRent),
		Rooms:        fromNullFloat(listing.Rooms),
		SizeSqm:      fromNullFloat(listing.SizeSqm),
		PropertyType: string(listing.PropertyType),
		LastSeenAt:   listing.LastSeenAt,
	}
	if listing.AvailableFrom.Valid {
		from := listing.AvailableFrom.Time
		summary.AvailableFrom = &from
	}
	return summary
}
