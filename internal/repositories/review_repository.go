package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"angido/internal/infra"
	"angido/internal/models/db_models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *db_models.Review) error
	Update(ctx context.Context, review *db_models.Review) error
	Delete(ctx context.Context, review *db_models.Review) error

	GetByID(ctx context.Context, id string) (*db_models.Review, error)
	FindByPlaceAndAccount(ctx context.Context, placeID, accountID string) (*db_models.Review, error)
	ListByPlace(ctx context.Context, placeID string, page, pageSize int) ([]db_models.Review, int64, error)
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]db_models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// recomputePlaceRating refreshes the denormalized rating columns of a place
// from its live reviews. Must run inside the writing transaction.
func recomputePlaceRating(tx *gorm.DB, placeID interface{}) error {
	return tx.Exec(`
		UPDATE places SET
			avg_rating = COALESCE((SELECT ROUND(AVG(rating), 1) FROM reviews WHERE place_id = ? AND deleted_at IS NULL), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE place_id = ? AND deleted_at IS NULL)
		WHERE id = ?`, placeID, placeID, placeID).Error
}

func (r *reviewRepository) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return tx.Error
	}
	return infra.ReleaseTransaction(tx, fn(tx))
}

func (r *reviewRepository) Create(ctx context.Context, review *db_models.Review) error {
	return r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Account", "Place").Create(review).Error; err != nil {
			return err
		}
		return recomputePlaceRating(tx, review.PlaceID)
	})
}

func (r *reviewRepository) Update(ctx context.Context, review *db_models.Review) error {
	return r.inTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(review).
			Select("rating", "comment", "images").
			Updates(review)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputePlaceRating(tx, review.PlaceID)
	})
}

func (r *reviewRepository) Delete(ctx context.Context, review *db_models.Review) error {
	return r.inTx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&db_models.Review{}, "id = ?", review.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputePlaceRating(tx, review.PlaceID)
	})
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*db_models.Review, error) {
	var review db_models.Review
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByPlaceAndAccount(ctx context.Context, placeID, accountID string) (*db_models.Review, error) {
	var review db_models.Review
	err := r.db.WithContext(ctx).
		Where("place_id = ? AND account_id = ?", placeID, accountID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) list(ctx context.Context, where string, arg string, preload string, page, pageSize int) ([]db_models.Review, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Review{}).
		Where(where, arg).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var reviews []db_models.Review
	err = r.db.WithContext(ctx).
		Preload(preload).
		Where(where, arg).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) ListByPlace(ctx context.Context, placeID string, page, pageSize int) ([]db_models.Review, int64, error) {
	return r.list(ctx, "place_id = ?", placeID, "Account", page, pageSize)
}

func (r *reviewRepository) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]db_models.Review, int64, error) {
	return r.list(ctx, "account_id = ?", accountID, "Place", page, pageSize)
}
