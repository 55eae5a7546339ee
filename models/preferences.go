package models

import "github.com/google/uuid"

type UpsertPreferencesRequest struct {
	MinRent       *int     `json:"minRent"`
	MaxRent       *int     `json:"maxRent"`
	MinRooms      *float64 `json:"minRooms"`
	MaxRooms      *float64 `json:"maxRooms"`
	MinSize       *float64 `json:"minSize"`
	MaxSize       *float64 `json:"maxSize"`
	Districts     []string `json:"districts"`
	PropertyTypes []string `json:"propertyTypes"`
	Gender        string   `json:"gender"`
	Age           *int     `json:"age"`
	Smoker        *bool    `json:"smoker"`
	HasPets       *bool    `json:"hasPets"`
	Active        bool     `json:"active"`
}

type PreferencesResponse struct {
	ID            int       `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	MinRent       *int      `json:"minRent"`
	MaxRent       *int      `json:"maxRent"`
	MinRooms      *float64  `json:"minRooms"`
	MaxRooms      *float64  `json:"maxRooms"`
	MinSize       *float64  `json:"minSize"`
	MaxSize       *float64  `json:"maxSize"`
	Districts     []string  `json:"districts"`
	PropertyTypes []string  `json:"propertyTypes"`
	Gender        string    `json:"gender"`
	Age           *int      `json:"age"`
	Smoker        *bool     `json:"smoker"`
	HasPets       *bool     `json:"hasPets"`
	Active        bool      `json:"active"`
}
