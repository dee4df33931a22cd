package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "angido/internal/models/db_models"
	resp "angido/internal/models/response_models"
	"angido/pkg/utils"
)

type CreateItineraryInput struct {
	AccountID    uuid.UUID
	Title        string
	Description  string
	StartDate    time.Time // VN midnight of the first day
	SuggestionID *uuid.UUID
	IsPublic     bool
}

type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *dbm.Itinerary) error
	MaterializePlan(ctx context.Context, in *CreateItineraryInput, plan *resp.SuggestionPlan) (uuid.UUID, error)

	GetByID(ctx context.Context, id string) (*dbm.Itinerary, error)
	GetDetails(ctx context.Context, id string) (*dbm.Itinerary, error)
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]dbm.Itinerary, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	AddDay(ctx context.Context, itineraryID string) (*dbm.ItineraryDay, error)
	GetDay(ctx context.Context, itineraryID, dayID string) (*dbm.ItineraryDay, error)

	CreateActivity(ctx context.Context, activity *dbm.ItineraryActivity) error
	GetActivity(ctx context.Context, itineraryID, activityID string) (*dbm.ItineraryActivity, error)
	SaveActivity(ctx context.Context, activity *dbm.ItineraryActivity) error
	DeleteActivity(ctx context.Context, activityID string) error
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

// Create inserts the itinerary and its (empty) days in one statement batch.
func (r *itineraryRepository) Create(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

// MaterializePlan turns a generated plan into an itinerary with one day per
// plan day. Activities whose place id does not parse are skipped.
func (r *itineraryRepository) MaterializePlan(ctx context.Context, in *CreateItineraryInput, plan *resp.SuggestionPlan) (uuid.UUID, error) {
	if in == nil || plan == nil {
		return uuid.Nil, errors.New("itinerary input and plan are required")
	}

	var outID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baseDate := utils.StartOfDayVN(in.StartDate)
		dayCount := len(plan.Days)
		if dayCount == 0 {
			dayCount = 1
		}

		it := dbm.Itinerary{
			AccountID:    in.AccountID,
			Title:        in.Title,
			Description:  in.Description,
			StartDate:    baseDate,
			EndDate:      baseDate.AddDate(0, 0, dayCount-1),
			Source:       dbm.SourceAI,
			SuggestionID: in.SuggestionID,
			IsPublic:     in.IsPublic,
		}
		if err := tx.Create(&it).Error; err != nil {
			return err
		}
		outID = it.ID

		for i, d := range plan.Days {
			dayDate := baseDate.AddDate(0, 0, i)
			day := dbm.ItineraryDay{
				ItineraryID: it.ID,
				DayNumber:   i + 1,
				Date:        dayDate,
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}

			acts := make([]dbm.ItineraryActivity, 0, len(d.Activities))
			for _, a := range d.Activities {
				placeID, err := uuid.Parse(a.PlaceID)
				if err != nil {
					continue
				}

				start := dayDate
				if t, err := utils.ClockOnDay(dayDate, a.StartTime); err == nil {
					start = t
				}

				var endPtr *time.Time
				if a.EndTime != "" {
					if end, err := utils.ClockOnDay(dayDate, a.EndTime); err == nil {
						// An end before start means the activity crosses midnight.
						if end.Before(start) {
							end = end.Add(24 * time.Hour)
						}
						endPtr = &end
					}
				}

				acts = append(acts, dbm.ItineraryActivity{
					DayID:         day.ID,
					PlaceID:       placeID,
					StartTime:     start,
					EndTime:       endPtr,
					Note:          a.Note,
					EstimatedCost: a.EstimatedCost,
				})
			}
			if len(acts) > 0 {
				if err := tx.Omit(clause.Associations).Create(&acts).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})

	return outID, err
}

func (r *itineraryRepository) GetByID(ctx context.Context, id string) (*dbm.Itinerary, error) {
	var it dbm.Itinerary
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *itineraryRepository) GetDetails(ctx context.Context, id string) (*dbm.Itinerary, error) {

	var it dbm.Itinerary
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Preload("Days.Activities.Place").
		First(&it).Error

	if err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &it, nil
}

func (r *itineraryRepository) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]dbm.Itinerary, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("account_id = ?", accountID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []dbm.Itinerary
	err = r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("start_date DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itineraryRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes the itinerary with its days and activities.
func (r *itineraryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subDayIDs := tx.Model(&dbm.ItineraryDay{}).
			Select("id").
			Where("itinerary_id = ?", id)

		if err := tx.Where("day_id IN (?)", subDayIDs).
			Delete(&dbm.ItineraryActivity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("itinerary_id = ?", id).
			Delete(&dbm.ItineraryDay{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&dbm.Itinerary{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddDay appends a day after the current last day and extends EndDate.
func (r *itineraryRepository) AddDay(ctx context.Context, itineraryID string) (*dbm.ItineraryDay, error) {
	var day dbm.ItineraryDay
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it dbm.Itinerary
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", itineraryID).Error; err != nil {
			return err
		}

		var last dbm.ItineraryDay
		err := tx.Where("itinerary_id = ?", it.ID).
			Order("day_number DESC").
			First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			day = dbm.ItineraryDay{ItineraryID: it.ID, DayNumber: 1, Date: utils.StartOfDayVN(it.StartDate)}
		case err != nil:
			return err
		default:
			day = dbm.ItineraryDay{ItineraryID: it.ID, DayNumber: last.DayNumber + 1, Date: last.Date.AddDate(0, 0, 1)}
		}

		if err := tx.Create(&day).Error; err != nil {
			return err
		}
		return tx.Model(&it).Update("end_date", day.Date).Error
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *itineraryRepository) GetDay(ctx context.Context, itineraryID, dayID string) (*dbm.ItineraryDay, error) {
	var day dbm.ItineraryDay
	err := r.db.WithContext(ctx).
		Where("id = ? AND itinerary_id = ?", dayID, itineraryID).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *itineraryRepository) CreateActivity(ctx context.Context, activity *dbm.ItineraryActivity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}

func (r *itineraryRepository) GetActivity(ctx context.Context, itineraryID, activityID string) (*dbm.ItineraryActivity, error) {
	var act dbm.ItineraryActivity
	err := r.db.WithContext(ctx).
		Joins("JOIN itinerary_days ON itinerary_activities.day_id = itinerary_days.id AND itinerary_days.deleted_at IS NULL").
		Where("itinerary_activities.id = ? AND itinerary_days.itinerary_id = ?", activityID, itineraryID).
		First(&act).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &act, nil
}

func (r *itineraryRepository) SaveActivity(ctx context.Context, activity *dbm.ItineraryActivity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(activity).Error
}

func (r *itineraryRepository) DeleteActivity(ctx context.Context, activityID string) error {
	res := r.db.WithContext(ctx).Delete(&dbm.ItineraryActivity{}, "id = ?", activityID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
