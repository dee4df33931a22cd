package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PlaceEmbedding struct {
	PlaceID     string `gorm:"primaryKey;column:place_id"`
	Name        string
	Description string
	ProvinceID  string
	Category    string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}
