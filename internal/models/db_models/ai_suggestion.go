package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AISuggestion caches one generated itinerary. CacheKey is the MD5 of the
// normalized request, ExpiresAt is unix seconds.
type AISuggestion struct {
	BaseModel
	CacheKey  string         `gorm:"size:32;uniqueIndex;not null"`
	AccountID uuid.UUID      `gorm:"type:uuid;index"`
	Params    datatypes.JSON `gorm:"type:jsonb;not null"`
	Response  datatypes.JSON `gorm:"type:jsonb;not null"`
	Model     string
	HitCount  int64 `gorm:"default:0"`
	ExpiresAt int64 `gorm:"index;not null"`
}

type AIUsage struct {
	BaseModel
	AccountID    uuid.UUID `gorm:"type:uuid;index;not null"`
	SuggestionID uuid.UUID `gorm:"type:uuid;index"`
	CacheHit     bool
}
