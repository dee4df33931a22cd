package request_models

import "github.com/google/uuid"

type CreatePlaceRequest struct {
	Name         string     `json:"name" binding:"required,min=2,max=200"`
	Description  string     `json:"description"`
	Category     string     `json:"category" binding:"required,oneof=restaurant cafe bar street_food dessert other"`
	Address      string     `json:"address" binding:"required"`
	ProvinceID   *uuid.UUID `json:"province_id"`
	Latitude     float64    `json:"latitude" binding:"min=-90,max=90"`
	Longitude    float64    `json:"longitude" binding:"min=-180,max=180"`
	MinPrice     int64      `json:"min_price" binding:"min=0"`
	MaxPrice     int64      `json:"max_price" binding:"min=0"`
	PriceLevel   int        `json:"price_level" binding:"omitempty,min=1,max=4"`
	OpeningHours []string   `json:"opening_hours"`
	Phone        string     `json:"phone"`
	Website      string     `json:"website" binding:"omitempty,url"`
	Images       []string   `json:"images"`
	TagIDs       []string   `json:"tag_ids" binding:"dive,uuid"`
}

// UpdatePlaceRequest applies only the fields that are present.
type UpdatePlaceRequest struct {
	Name         *string    `json:"name" binding:"omitempty,min=2,max=200"`
	Description  *string    `json:"description"`
	Category     *string    `json:"category" binding:"omitempty,oneof=restaurant cafe bar street_food dessert other"`
	Address      *string    `json:"address"`
	ProvinceID   *uuid.UUID `json:"province_id"`
	Latitude     *float64   `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64   `json:"longitude" binding:"omitempty,min=-180,max=180"`
	MinPrice     *int64     `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice     *int64     `json:"max_price" binding:"omitempty,min=0"`
	PriceLevel   *int       `json:"price_level" binding:"omitempty,min=1,max=4"`
	OpeningHours []string   `json:"opening_hours"`
	Phone        *string    `json:"phone"`
	Website      *string    `json:"website" binding:"omitempty,url"`
	Images       []string   `json:"images"`
	TagIDs       []string   `json:"tag_ids" binding:"omitempty,dive,uuid"`
	Status       *string    `json:"status" binding:"omitempty,oneof=active hidden"`
}

// PlaceFilter is bound from the query string of GET /places.
type PlaceFilter struct {
	Q          string   `form:"q"`
	Category   string   `form:"category" binding:"omitempty,oneof=restaurant cafe bar street_food dessert other"`
	ProvinceID string   `form:"province_id" binding:"omitempty,uuid"`
	MinPrice   *int64   `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice   *int64   `form:"max_price" binding:"omitempty,min=0"`
	MinRating  *float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	TagID      string   `form:"tag_id" binding:"omitempty,uuid"`
	Sort       string   `form:"sort" binding:"omitempty,oneof=rating newest price_asc price_desc"`
	Page       int      `form:"page"`
	PageSize   int      `form:"pageSize"`

	IncludeHidden bool `form:"-"`
}

type NearbyQuery struct {
	Latitude  float64 `form:"lat" binding:"min=-90,max=90"`
	Longitude float64 `form:"lng" binding:"min=-180,max=180"`
	RadiusKm  float64 `form:"radius_km" binding:"omitempty,gt=0,max=50"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required,min=2"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}
