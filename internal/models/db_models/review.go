package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Review is unique per (place, account) among rows that are not soft deleted.
type Review struct {
	BaseModel
	PlaceID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_place_account,where:deleted_at IS NULL"`
	AccountID uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_place_account,where:deleted_at IS NULL"`
	Rating    int            `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string         `gorm:"type:text"`
	Images    pq.StringArray `gorm:"type:text[]"`

	Account Account `gorm:"foreignKey:AccountID"`
	Place   Place   `gorm:"foreignKey:PlaceID"`
}
