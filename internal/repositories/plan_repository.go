package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"angido/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanInfoById(ctx context.Context, planID string) (*db_models.Plan, error)
	GetByCode(ctx context.Context, code string) (*db_models.Plan, error)
	GetAllPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error)
	UpsertByCode(ctx context.Context, plan *db_models.Plan) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) GetPlanInfoById(ctx context.Context, planID string) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p PlanRepository) GetByCode(ctx context.Context, code string) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "code = ?", code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p PlanRepository) GetAllPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error) {

	var plans []db_models.Plan
	query := p.db.WithContext(ctx).Order("price_minor ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}

	return plans, nil
}

// UpsertByCode creates the plan or replaces every editable column of the plan
// with the same code. plan is reloaded afterwards.
func (p PlanRepository) UpsertByCode(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "background_image", "period", "price_minor",
				"currency", "trial_days", "ai_daily_quota", "is_active", "features", "updated_at",
			}),
		}).Create(plan).Error
		if err != nil {
			return err
		}
		return tx.First(plan, "code = ?", plan.Code).Error
	})
}
