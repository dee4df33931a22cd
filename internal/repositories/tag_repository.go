package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"angido/internal/models/db_models"
)

type TagRepositoryInterface interface {
	CreateTag(tag *db_models.Tag, ctx context.Context) error
	GetTagByID(ctx context.Context, tagID string) (*db_models.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]db_models.Tag, error)
	ExistsByName(ctx context.Context, en, vi string) (bool, error)
	GetAllTags(page int, pageSize int, ctx context.Context) ([]db_models.Tag, int64, error)
}

func NewTagRepository(db *gorm.DB) TagRepositoryInterface {
	return &TagRepository{db: db}
}

type TagRepository struct {
	db *gorm.DB
}

func (t TagRepository) CreateTag(tag *db_models.Tag, ctx context.Context) error {
	return t.db.WithContext(ctx).Create(tag).Error
}

func (t TagRepository) GetTagByID(ctx context.Context, tagID string) (*db_models.Tag, error) {

	var tag db_models.Tag
	err := t.db.WithContext(ctx).Where("id = ?", tagID).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}
	return &tag, nil
}

func (t TagRepository) FindByIDs(ctx context.Context, ids []string) ([]db_models.Tag, error) {
	if len(ids) == 0 {
		return []db_models.Tag{}, nil
	}
	var tags []db_models.Tag
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (t TagRepository) ExistsByName(ctx context.Context, en, vi string) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&db_models.Tag{}).
		Where("LOWER(en_name) = LOWER(?) OR LOWER(vi_name) = LOWER(?)", en, vi).
		Count(&count).Error
	return count > 0, err
}

func (t TagRepository) GetAllTags(page int, pageSize int, ctx context.Context) ([]db_models.Tag, int64, error) {

	var total int64
	if err := t.db.WithContext(ctx).Model(&db_models.Tag{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tags []db_models.Tag
	err := t.db.WithContext(ctx).Scopes(func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}).Order("en_name ASC").Find(&tags).Error
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}
