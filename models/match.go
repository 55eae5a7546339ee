package models

import "time"

type Match struct {
	ID        int64       `json:"id"`
	Score     int         `json:"score"`
	MatchedAt time.Time   `json:"matchedAt"`
	Listing   MatchedItem `json:"listing"`
}

// MatchedItem is the listing summary shown in match lists and emails.
type MatchedItem struct {
	ID       int64    `json:"id"`
	Platform string   `json:"platform"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	District string   `json:"district,omitempty"`
	Price    int      `json:"price"`
	WarmRent *int     `json:"warmRent,omitempty"`
	Rooms    *float64 `json:"rooms,omitempty"`
	SizeSqm  *float64 `json:"sizeSqm,omitempty"`
}

type GetMatchesResponse struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
}
