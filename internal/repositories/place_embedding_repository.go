package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"angido/internal/models/db_models"
)

type PlaceMatch struct {
	PlaceID    string
	Similarity float64
}

type IPlaceEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *db_models.PlaceEmbedding) error
	Delete(ctx context.Context, placeID string) error
	SearchByVector(ctx context.Context, vector pgvector.Vector, minSimilarity float64, limit int) ([]PlaceMatch, error)
}

type PlaceEmbeddingRepository struct {
	db *gorm.DB
}

func NewPlaceEmbeddingRepository(db *gorm.DB) IPlaceEmbeddingRepository {
	return &PlaceEmbeddingRepository{
		db: db,
	}
}

func (p *PlaceEmbeddingRepository) Upsert(ctx context.Context, embedding *db_models.PlaceEmbedding) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "province_id", "category", "tags", "embedding", "updated_at"}),
	}).Create(embedding).Error
}

func (p *PlaceEmbeddingRepository) Delete(ctx context.Context, placeID string) error {
	return p.db.WithContext(ctx).Delete(&db_models.PlaceEmbedding{}, "place_id = ?", placeID).Error
}

// SearchByVector ranks by cosine distance; similarity is 1 - distance.
func (p *PlaceEmbeddingRepository) SearchByVector(ctx context.Context, vector pgvector.Vector, minSimilarity float64, limit int) ([]PlaceMatch, error) {
	var results []PlaceMatch

	query := `
        SELECT pe.place_id, (1 - (pe.embedding <=> ?)) AS similarity
        FROM place_embeddings pe
        JOIN places p ON p.id::text = pe.place_id
        WHERE p.deleted_at IS NULL AND p.status = 'active'
          AND (1 - (pe.embedding <=> ?)) > ?
        ORDER BY pe.embedding <=> ?
        LIMIT ?
    `

	err := p.db.WithContext(ctx).Raw(query, vector, vector, minSimilarity, vector, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
