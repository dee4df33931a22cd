package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

// MaxItineraryDays bounds both creation and AddDay.
const MaxItineraryDays = 30

type ItineraryServiceInterface interface {
	CreateItinerary(ctx context.Context, accountID string, request request_models.CreateItineraryRequest) (*response_models.ItineraryDetailResponse, error)
	ListMyItineraries(ctx context.Context, accountID string, page, pageSize int) (*utils.PagedData, error)
	GetItinerary(ctx context.Context, viewerID, role, id string) (*response_models.ItineraryDetailResponse, error)
	UpdateItinerary(ctx context.Context, accountID, id string, request request_models.UpdateItineraryRequest) (*response_models.ItineraryDetailResponse, error)
	DeleteItinerary(ctx context.Context, accountID, id string) error

	AddDay(ctx context.Context, accountID, id string) (*response_models.ItineraryDetailResponse, error)
	AddActivity(ctx context.Context, accountID, id string, request request_models.AddActivityRequest) (*response_models.ItineraryDetailResponse, error)
	UpdateActivity(ctx context.Context, accountID, id, activityID string, request request_models.UpdateActivityRequest) (*response_models.ItineraryDetailResponse, error)
	RemoveActivity(ctx context.Context, accountID, id, activityID string) error

	CreateFromSuggestion(ctx context.Context, accountID, suggestionID string, request request_models.SaveSuggestionRequest) (*response_models.ItineraryDetailResponse, error)
}

type ItineraryService struct {
	itineraryRepo  repositories.ItineraryRepository
	placeRepo      repositories.PlaceRepository
	suggestionRepo repositories.SuggestionRepository
	log            *zap.Logger
}

func NewItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	placeRepo repositories.PlaceRepository,
	suggestionRepo repositories.SuggestionRepository,
	log *zap.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		itineraryRepo:  itineraryRepo,
		placeRepo:      placeRepo,
		suggestionRepo: suggestionRepo,
		log:            log,
	}
}

// ParseDateVN parses "YYYY-MM-DD" as local midnight in Vietnam.
func ParseDateVN(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), utils.VNLocation())
	if err != nil {
		return time.Time{}, utils.ErrInvalidInput
	}
	return t, nil
}

func (s *ItineraryService) CreateItinerary(ctx context.Context, accountID string, request request_models.CreateItineraryRequest) (*response_models.ItineraryDetailResponse, error) {
	owner, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	start, err := ParseDateVN(request.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateVN(request.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, utils.ErrInvalidInput
	}
	days := inclusiveDays(start, end)
	if days > MaxItineraryDays {
		return nil, utils.ErrItineraryTooLong
	}

	it := &db_models.Itinerary{
		AccountID:   owner,
		Title:       strings.TrimSpace(request.Title),
		Description: request.Description,
		StartDate:   start,
		EndDate:     end,
		Source:      db_models.SourceUser,
		IsPublic:    request.IsPublic,
		Days:        make([]db_models.ItineraryDay, 0, days),
	}
	for i := 0; i < days; i++ {
		it.Days = append(it.Days, db_models.ItineraryDay{DayNumber: i + 1, Date: start.AddDate(0, 0, i)})
	}

	if err := s.itineraryRepo.Create(ctx, it); err != nil {
		s.log.Error("create itinerary", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return s.details(ctx, it.ID.String())
}

func (s *ItineraryService) ListMyItineraries(ctx context.Context, accountID string, page, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	items, total, err := s.itineraryRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		s.log.Error("list itineraries", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.ItinerarySummary, 0, len(items))
	for i := range items {
		out = append(out, toItinerarySummary(&items[i]))
	}
	return &utils.PagedData{Items: out, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *ItineraryService) GetItinerary(ctx context.Context, viewerID, role, id string) (*response_models.ItineraryDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrItineraryNotFound
	}
	it, err := s.itineraryRepo.GetDetails(ctx, id)
	if err != nil {
		s.log.Error("get itinerary", zap.String("itinerary_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if it == nil {
		return nil, utils.ErrItineraryNotFound
	}
	if !it.IsPublic && it.AccountID.String() != viewerID && role != string(db_models.RoleAdmin) {
		// Private itineraries are indistinguishable from missing ones.
		return nil, utils.ErrItineraryNotFound
	}
	return toItineraryDetail(it), nil
}

func (s *ItineraryService) UpdateItinerary(ctx context.Context, accountID, id string, request request_models.UpdateItineraryRequest) (*response_models.ItineraryDetailResponse, error) {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			return nil, utils.ErrInvalidInput
		}
		fields["title"] = title
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}
	if request.IsPublic != nil {
		fields["is_public"] = *request.IsPublic
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().Unix()
		if err := s.itineraryRepo.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrItineraryNotFound
			}
			s.log.Error("update itinerary", zap.String("itinerary_id", id), zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
	}
	return s.details(ctx, id)
}

func (s *ItineraryService) DeleteItinerary(ctx context.Context, accountID, id string) error {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.itineraryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrItineraryNotFound
		}
		s.log.Error("delete itinerary", zap.String("itinerary_id", id), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *ItineraryService) AddDay(ctx context.Context, accountID, id string) (*response_models.ItineraryDetailResponse, error) {
	it, err := s.owned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if inclusiveDays(it.StartDate, it.EndDate) >= MaxItineraryDays {
		return nil, utils.ErrItineraryTooLong
	}
	if _, err := s.itineraryRepo.AddDay(ctx, id); err != nil {
		s.log.Error("add day", zap.String("itinerary_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return s.details(ctx, id)
}

func (s *ItineraryService) AddActivity(ctx context.Context, accountID, id string, request request_models.AddActivityRequest) (*response_models.ItineraryDetailResponse, error) {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return nil, err
	}

	day, err := s.itineraryRepo.GetDay(ctx, id, request.DayID)
	if err != nil {
		s.log.Error("get day", zap.String("day_id", request.DayID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if day == nil {
		return nil, utils.ErrDayNotFound
	}

	placeID, err := s.checkPlace(ctx, request.PlaceID)
	if err != nil {
		return nil, err
	}

	start, end, err := activityWindow(day.Date, request.StartTime, request.EndTime)
	if err != nil {
		return nil, err
	}
	if request.EstimatedCost < 0 {
		return nil, utils.ErrInvalidInput
	}

	activity := &db_models.ItineraryActivity{
		DayID:         day.ID,
		PlaceID:       placeID,
		StartTime:     start,
		EndTime:       end,
		Note:          request.Note,
		EstimatedCost: request.EstimatedCost,
	}
	if err := s.itineraryRepo.CreateActivity(ctx, activity); err != nil {
		s.log.Error("create activity", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return s.details(ctx, id)
}

func (s *ItineraryService) UpdateActivity(ctx context.Context, accountID, id, activityID string, request request_models.UpdateActivityRequest) (*response_models.ItineraryDetailResponse, error) {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return nil, err
	}
	activity, err := s.activity(ctx, id, activityID)
	if err != nil {
		return nil, err
	}

	if request.PlaceID != nil {
		placeID, err := s.checkPlace(ctx, *request.PlaceID)
		if err != nil {
			return nil, err
		}
		activity.PlaceID = placeID
	}

	if request.StartTime != nil || request.EndTime != nil {
		day := utils.StartOfDayVN(activity.StartTime)
		startClock := activity.StartTime.In(utils.VNLocation()).Format("15:04")
		if request.StartTime != nil {
			startClock = *request.StartTime
		}
		endClock := request.EndTime
		if endClock == nil && activity.EndTime != nil {
			c := activity.EndTime.In(utils.VNLocation()).Format("15:04")
			endClock = &c
		}
		start, end, err := activityWindow(day, startClock, endClock)
		if err != nil {
			return nil, err
		}
		activity.StartTime = start
		activity.EndTime = end
	}
	if request.Note != nil {
		activity.Note = *request.Note
	}
	if request.EstimatedCost != nil {
		if *request.EstimatedCost < 0 {
			return nil, utils.ErrInvalidInput
		}
		activity.EstimatedCost = *request.EstimatedCost
	}

	if err := s.itineraryRepo.SaveActivity(ctx, activity); err != nil {
		s.log.Error("save activity", zap.String("activity_id", activityID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return s.details(ctx, id)
}

func (s *ItineraryService) RemoveActivity(ctx context.Context, accountID, id, activityID string) error {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return err
	}
	if _, err := s.activity(ctx, id, activityID); err != nil {
		return err
	}
	if err := s.itineraryRepo.DeleteActivity(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrActivityNotFound
		}
		s.log.Error("delete activity", zap.String("activity_id", activityID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *ItineraryService) CreateFromSuggestion(ctx context.Context, accountID, suggestionID string, request request_models.SaveSuggestionRequest) (*response_models.ItineraryDetailResponse, error) {
	owner, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	sugUUID, err := uuid.Parse(suggestionID)
	if err != nil {
		return nil, utils.ErrSuggestionNotFound
	}
	start, err := ParseDateVN(request.StartDate)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.suggestionRepo.GetLiveByID(ctx, suggestionID, time.Now().Unix())
	if err != nil {
		s.log.Error("get suggestion", zap.String("suggestion_id", suggestionID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if suggestion == nil {
		return nil, utils.ErrSuggestionNotFound
	}

	var plan response_models.SuggestionPlan
	if err := json.Unmarshal(suggestion.Response, &plan); err != nil {
		s.log.Error("decode cached suggestion", zap.String("suggestion_id", suggestionID), zap.Error(err))
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}
	if len(plan.Days) > MaxItineraryDays {
		return nil, utils.ErrItineraryTooLong
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = plan.Title
	}
	if title == "" {
		title = "Lịch trình gợi ý"
	}

	id, err := s.itineraryRepo.MaterializePlan(ctx, &repositories.CreateItineraryInput{
		AccountID:    owner,
		Title:        title,
		Description:  plan.Summary,
		StartDate:    start,
		SuggestionID: &sugUUID,
	}, &plan)
	if err != nil {
		s.log.Error("materialize suggestion", zap.String("suggestion_id", suggestionID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return s.details(ctx, id.String())
}

func (s *ItineraryService) owned(ctx context.Context, accountID, id string) (*db_models.Itinerary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrItineraryNotFound
	}
	it, err := s.itineraryRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("get itinerary", zap.String("itinerary_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if it == nil {
		return nil, utils.ErrItineraryNotFound
	}
	if it.AccountID.String() != accountID {
		return nil, utils.ErrForbidden
	}
	return it, nil
}

func (s *ItineraryService) activity(ctx context.Context, id, activityID string) (*db_models.ItineraryActivity, error) {
	if _, err := uuid.Parse(activityID); err != nil {
		return nil, utils.ErrActivityNotFound
	}
	activity, err := s.itineraryRepo.GetActivity(ctx, id, activityID)
	if err != nil {
		s.log.Error("get activity", zap.String("activity_id", activityID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if activity == nil {
		return nil, utils.ErrActivityNotFound
	}
	return activity, nil
}

func (s *ItineraryService) checkPlace(ctx context.Context, placeID string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(placeID)
	if err != nil {
		return uuid.Nil, utils.ErrPlaceNotFound
	}
	place, err := s.placeRepo.GetByID(ctx, placeID, false)
	if err != nil {
		s.log.Error("get place", zap.String("place_id", placeID), zap.Error(err))
		return uuid.Nil, utils.ErrDatabaseError
	}
	if place == nil {
		return uuid.Nil, utils.ErrPlaceNotFound
	}
	return parsed, nil
}

func (s *ItineraryService) details(ctx context.Context, id string) (*response_models.ItineraryDetailResponse, error) {
	it, err := s.itineraryRepo.GetDetails(ctx, id)
	if err != nil {
		s.log.Error("load itinerary details", zap.String("itinerary_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if it == nil {
		return nil, utils.ErrItineraryNotFound
	}
	return toItineraryDetail(it), nil
}

// activityWindow places "HH:MM" clocks on day. An end clock earlier than the
// start clock is read as the next day.
func activityWindow(day time.Time, startClock string, endClock *string) (time.Time, *time.Time, error) {
	start, err := utils.ClockOnDay(day, startClock)
	if err != nil {
		return time.Time{}, nil, utils.ErrInvalidInput
	}
	if endClock == nil || strings.TrimSpace(*endClock) == "" {
		return start, nil, nil
	}
	end, err := utils.ClockOnDay(day, *endClock)
	if err != nil {
		return time.Time{}, nil, utils.ErrInvalidInput
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, &end, nil
}
