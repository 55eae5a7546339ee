package models

import "time"

type ListingSummary struct {
	ID            int64      `json:"id"`
	Platform      string     `json:"platform"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	District      string     `json:"district,omitempty"`
	Price         int        `json:"price"`
	WarmRent      *int       `json:"warmRent,omitempty"`
	Rooms         *float64   `json:"rooms,omitempty"`
	SizeSqm       *float64   `json:"sizeSqm,omitempty"`
	PropertyType  string     `json:"propertyType,omitempty"`
	AvailableFrom *time.Time `json:"availableFrom,omitempty"`
	LastSeenAt    time.Time  `json:"lastSeenAt"`
}

type GetListingsResponse struct {
	Listings []ListingSummary `json:"listings"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"perPage"`
}
