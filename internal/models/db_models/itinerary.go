package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ItinerarySource string

const (
	SourceUser ItinerarySource = "user"
	SourceAI   ItinerarySource = "ai"
)

type Itinerary struct {
	BaseModel
	AccountID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title        string    `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	StartDate    time.Time
	EndDate      time.Time
	Source       ItinerarySource `gorm:"type:varchar(8);default:'user'"`
	SuggestionID *uuid.UUID      `gorm:"type:uuid;index"`
	IsPublic     bool            `gorm:"default:false"`

	Days []ItineraryDay
}

type ItineraryDay struct {
	BaseModel
	ItineraryID uuid.UUID `gorm:"type:uuid;index;not null"`
	DayNumber   int
	Date        time.Time

	Activities []ItineraryActivity `gorm:"foreignKey:DayID"`
}

type ItineraryActivity struct {
	BaseModel
	DayID         uuid.UUID `gorm:"type:uuid;index;not null"`
	PlaceID       uuid.UUID `gorm:"type:uuid;index;not null"`
	StartTime     time.Time
	EndTime       *time.Time
	Note          string
	EstimatedCost int64

	Place Place `gorm:"foreignKey:PlaceID"`
}
