package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"angido/internal/models/db_models"
)

type ProvinceRepository interface {
	GetByID(ctx context.Context, id string) (*db_models.Province, error)
	SearchByKeyword(ctx context.Context, keyword string, page int, pageSize int) ([]db_models.Province, int64, error)
}

type provinceRepository struct {
	db *gorm.DB
}

func NewProvinceRepository(db *gorm.DB) ProvinceRepository {
	return &provinceRepository{db: db}
}

func (p *provinceRepository) GetByID(ctx context.Context, id string) (*db_models.Province, error) {
	var province db_models.Province
	err := p.db.WithContext(ctx).First(&province, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &province, nil
}

// SearchByKeyword lists provinces by name; an empty keyword lists all.
func (p *provinceRepository) SearchByKeyword(ctx context.Context, keyword string, page int, pageSize int) ([]db_models.Province, int64, error) {
	query := p.db.WithContext(ctx).Model(&db_models.Province{})
	if keyword != "" {
		like := containsPattern(keyword)
		query = query.Where(`name ILIKE ? ESCAPE '\' OR code ILIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var provinces []db_models.Province
	err := query.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&provinces).Error
	if err != nil {
		return nil, 0, err
	}
	return provinces, total, nil
}
