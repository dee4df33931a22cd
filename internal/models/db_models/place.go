package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PlaceCategory string

const (
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryCafe       PlaceCategory = "cafe"
	CategoryBar        PlaceCategory = "bar"
	CategoryStreetFood PlaceCategory = "street_food"
	CategoryDessert    PlaceCategory = "dessert"
	CategoryOther      PlaceCategory = "other"
)

func (c PlaceCategory) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryCafe, CategoryBar, CategoryStreetFood, CategoryDessert, CategoryOther:
		return true
	}
	return false
}

type PlaceStatus string

const (
	PlaceActive PlaceStatus = "active"
	PlaceHidden PlaceStatus = "hidden"
)

type Place struct {
	BaseModel
	Name         string        `gorm:"not null;index"`
	Slug         string        `gorm:"uniqueIndex;size:255"`
	Description  string        `gorm:"type:text"`
	Category     PlaceCategory `gorm:"type:varchar(32);index"`
	Address      string
	ProvinceID   *uuid.UUID `gorm:"type:uuid;index"`
	Latitude     float64    `gorm:"index:idx_places_location"`
	Longitude    float64    `gorm:"index:idx_places_location"`
	MinPrice     int64
	MaxPrice     int64
	PriceLevel   int            `gorm:"default:1"`
	OpeningHours pq.StringArray `gorm:"type:text[]"`
	Phone        string
	Website      string
	Images       pq.StringArray `gorm:"type:text[]"`
	AvgRating    float64        `gorm:"default:0;index"`
	ReviewCount  int64          `gorm:"default:0"`
	Status       PlaceStatus    `gorm:"type:varchar(16);default:'active';index"`

	Province *Province `gorm:"foreignKey:ProvinceID"`
	Tags     []Tag     `gorm:"many2many:place_tags"`
	Reviews  []Review
}
