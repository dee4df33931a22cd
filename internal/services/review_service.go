package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, accountID, placeID string, request request_models.CreateReviewRequest) (*response_models.ReviewResponse, error)
	UpdateReview(ctx context.Context, accountID, reviewID string, request request_models.UpdateReviewRequest) (*response_models.ReviewResponse, error)
	DeleteReview(ctx context.Context, accountID, role, reviewID string) error
	ListPlaceReviews(ctx context.Context, placeID string, page, pageSize int) (*utils.PagedData, error)
	ListMyReviews(ctx context.Context, accountID string, page, pageSize int) (*utils.PagedData, error)
}

type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	placeRepo  repositories.PlaceRepository
	places     PlaceServiceInterface
	log        *zap.Logger
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	placeRepo repositories.PlaceRepository,
	places PlaceServiceInterface,
	log *zap.Logger,
) ReviewServiceInterface {
	return &ReviewService{
		reviewRepo: reviewRepo,
		placeRepo:  placeRepo,
		places:     places,
		log:        log,
	}
}

func (r *ReviewService) CreateReview(ctx context.Context, accountID, placeID string, request request_models.CreateReviewRequest) (*response_models.ReviewResponse, error) {
	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	if _, err := uuid.Parse(placeID); err != nil {
		return nil, utils.ErrPlaceNotFound
	}
	if request.Rating < 1 || request.Rating > 5 {
		return nil, utils.ErrInvalidInput
	}

	place, err := r.placeRepo.GetByID(ctx, placeID, false)
	if err != nil {
		r.log.Error("get place", zap.String("place_id", placeID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}

	existing, err := r.reviewRepo.FindByPlaceAndAccount(ctx, placeID, accountID)
	if err != nil {
		r.log.Error("find review", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrReviewAlreadyExists
	}

	review := &db_models.Review{
		PlaceID:   place.ID,
		AccountID: accountUUID,
		Rating:    request.Rating,
		Comment:   request.Comment,
		Images:    pq.StringArray(request.Images),
	}
	if err := r.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrReviewAlreadyExists
		}
		r.log.Error("create review", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	r.places.InvalidatePlace(placeID)

	return r.reload(ctx, review)
}

func (r *ReviewService) UpdateReview(ctx context.Context, accountID, reviewID string, request request_models.UpdateReviewRequest) (*response_models.ReviewResponse, error) {
	review, err := r.load(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.AccountID.String() != accountID {
		return nil, utils.ErrForbidden
	}

	if request.Rating != nil {
		if *request.Rating < 1 || *request.Rating > 5 {
			return nil, utils.ErrInvalidInput
		}
		review.Rating = *request.Rating
	}
	if request.Comment != nil {
		review.Comment = *request.Comment
	}
	if request.Images != nil {
		review.Images = pq.StringArray(request.Images)
	}

	if err := r.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrReviewNotFound
		}
		r.log.Error("update review", zap.String("review_id", reviewID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	r.places.InvalidatePlace(review.PlaceID.String())

	return r.reload(ctx, review)
}

func (r *ReviewService) DeleteReview(ctx context.Context, accountID, role, reviewID string) error {
	review, err := r.load(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.AccountID.String() != accountID && role != string(db_models.RoleAdmin) {
		return utils.ErrForbidden
	}

	if err := r.reviewRepo.Delete(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrReviewNotFound
		}
		r.log.Error("delete review", zap.String("review_id", reviewID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	r.places.InvalidatePlace(review.PlaceID.String())
	return nil
}

func (r *ReviewService) ListPlaceReviews(ctx context.Context, placeID string, page, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(placeID); err != nil {
		return nil, utils.ErrPlaceNotFound
	}
	place, err := r.placeRepo.GetByID(ctx, placeID, false)
	if err != nil {
		r.log.Error("get place", zap.String("place_id", placeID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}

	reviews, total, err := r.reviewRepo.ListByPlace(ctx, placeID, page, pageSize)
	if err != nil {
		r.log.Error("list place reviews", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return pagedReviews(reviews, page, pageSize, total), nil
}

func (r *ReviewService) ListMyReviews(ctx context.Context, accountID string, page, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	reviews, total, err := r.reviewRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		r.log.Error("list account reviews", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return pagedReviews(reviews, page, pageSize, total), nil
}

func (r *ReviewService) load(ctx context.Context, reviewID string) (*db_models.Review, error) {
	if _, err := uuid.Parse(reviewID); err != nil {
		return nil, utils.ErrReviewNotFound
	}
	review, err := r.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		r.log.Error("get review", zap.String("review_id", reviewID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if review == nil {
		return nil, utils.ErrReviewNotFound
	}
	return review, nil
}

// reload returns the stored row with its author, falling back to the input.
func (r *ReviewService) reload(ctx context.Context, review *db_models.Review) (*response_models.ReviewResponse, error) {
	stored, err := r.reviewRepo.GetByID(ctx, review.ID.String())
	if err != nil || stored == nil {
		out := toReviewResponse(review)
		return &out, nil
	}
	out := toReviewResponse(stored)
	return &out, nil
}

func pagedReviews(reviews []db_models.Review, page, pageSize int, total int64) *utils.PagedData {
	items := make([]response_models.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}
	return &utils.PagedData{Items: items, Page: page, PageSize: pageSize, Total: total}
}
