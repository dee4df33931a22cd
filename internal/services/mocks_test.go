package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/mock"

	dbm "angido/internal/models/db_models"
	resp "angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

type mockSuggestionRepo struct{ mock.Mock }

func (m *mockSuggestionRepo) FindLiveByKey(ctx context.Context, cacheKey string, now int64) (*dbm.AISuggestion, error) {
	args := m.Called(ctx, cacheKey, now)
	row, _ := args.Get(0).(*dbm.AISuggestion)
	return row, args.Error(1)
}

func (m *mockSuggestionRepo) GetLiveByID(ctx context.Context, id string, now int64) (*dbm.AISuggestion, error) {
	args := m.Called(ctx, id, now)
	row, _ := args.Get(0).(*dbm.AISuggestion)
	return row, args.Error(1)
}

func (m *mockSuggestionRepo) Upsert(ctx context.Context, suggestion *dbm.AISuggestion) error {
	args := m.Called(ctx, suggestion)
	if suggestion.ID == uuid.Nil {
		suggestion.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockSuggestionRepo) IncrementHit(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSuggestionRepo) RecordUsage(ctx context.Context, usage *dbm.AIUsage) error {
	args := m.Called(ctx, usage)
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockSuggestionRepo) FinalizeUsage(ctx context.Context, usageID string, suggestionID uuid.UUID, cacheHit bool) error {
	return m.Called(ctx, usageID, suggestionID, cacheHit).Error(0)
}

func (m *mockSuggestionRepo) ReleaseUsage(ctx context.Context, usageID string) error {
	return m.Called(ctx, usageID).Error(0)
}

func (m *mockSuggestionRepo) CountGeneratedSince(ctx context.Context, accountID string, since int64) (int64, error) {
	args := m.Called(ctx, accountID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuggestionRepo) PurgeExpired(ctx context.Context, now int64) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuggestionRepo) PurgeAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuggestionRepo) Stats(ctx context.Context, now int64) (*repositories.SuggestionCacheStats, error) {
	args := m.Called(ctx, now)
	stats, _ := args.Get(0).(*repositories.SuggestionCacheStats)
	return stats, args.Error(1)
}

type mockPlaceRepo struct{ mock.Mock }

func (m *mockPlaceRepo) Create(ctx context.Context, place *dbm.Place) error {
	args := m.Called(ctx, place)
	if place.ID == uuid.Nil {
		place.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPlaceRepo) Update(ctx context.Context, place *dbm.Place, tags []dbm.Tag) error {
	return m.Called(ctx, place, tags).Error(0)
}

func (m *mockPlaceRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPlaceRepo) GetByID(ctx context.Context, id string, includeHidden bool) (*dbm.Place, error) {
	args := m.Called(ctx, id, includeHidden)
	p, _ := args.Get(0).(*dbm.Place)
	return p, args.Error(1)
}

func (m *mockPlaceRepo) FindByIDs(ctx context.Context, ids []string) ([]dbm.Place, error) {
	args := m.Called(ctx, ids)
	places, _ := args.Get(0).([]dbm.Place)
	return places, args.Error(1)
}

func (m *mockPlaceRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockPlaceRepo) List(ctx context.Context, q repositories.PlaceQuery) ([]dbm.Place, int64, error) {
	args := m.Called(ctx, q)
	places, _ := args.Get(0).([]dbm.Place)
	return places, args.Get(1).(int64), args.Error(2)
}

func (m *mockPlaceRepo) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]repositories.PlaceDistance, error) {
	args := m.Called(ctx, lat, lng, radiusKm, limit)
	rows, _ := args.Get(0).([]repositories.PlaceDistance)
	return rows, args.Error(1)
}

func (m *mockPlaceRepo) Candidates(ctx context.Context, q repositories.PlaceQuery, limit int) ([]dbm.Place, error) {
	args := m.Called(ctx, q, limit)
	places, _ := args.Get(0).([]dbm.Place)
	return places, args.Error(1)
}

type mockEmbeddingRepo struct{ mock.Mock }

func (m *mockEmbeddingRepo) Upsert(ctx context.Context, embedding *dbm.PlaceEmbedding) error {
	return m.Called(ctx, embedding).Error(0)
}

func (m *mockEmbeddingRepo) Delete(ctx context.Context, placeID string) error {
	return m.Called(ctx, placeID).Error(0)
}

func (m *mockEmbeddingRepo) SearchByVector(ctx context.Context, vector pgvector.Vector, minSimilarity float64, limit int) ([]repositories.PlaceMatch, error) {
	args := m.Called(ctx, vector, minSimilarity, limit)
	rows, _ := args.Get(0).([]repositories.PlaceMatch)
	return rows, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
	delay time.Duration
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) Model() string { return "test-model" }

type fixedQuota struct {
	limit int
	err   error
}

func (f fixedQuota) EffectiveQuota(context.Context, string) (int, error) {
	return f.limit, f.err
}

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) InsertTx(account *dbm.Account, ctx context.Context) error {
	args := m.Called(account, ctx)
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAccountRepo) FindById(ctx context.Context, id string) (*dbm.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*dbm.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*dbm.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*dbm.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockAccountRepo) List(ctx context.Context, q string, page, pageSize int) ([]dbm.Account, int64, error) {
	args := m.Called(ctx, q, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Account)
	return rows, args.Get(1).(int64), args.Error(2)
}

type mockSubscriptionRepo struct{ mock.Mock }

func (m *mockSubscriptionRepo) FindEntitled(ctx context.Context, accountID string, now int64) (*dbm.Subscription, error) {
	args := m.Called(ctx, accountID, now)
	sub, _ := args.Get(0).(*dbm.Subscription)
	return sub, args.Error(1)
}

func (m *mockSubscriptionRepo) Cancel(ctx context.Context, subscriptionID string, now int64) error {
	return m.Called(ctx, subscriptionID, now).Error(0)
}

func (m *mockSubscriptionRepo) ExpireDue(ctx context.Context, now int64) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSubscriptionRepo) CreateTransaction(ctx context.Context, txn *dbm.Transaction) error {
	args := m.Called(ctx, txn)
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockSubscriptionRepo) GetTransaction(ctx context.Context, id string) (*dbm.Transaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*dbm.Transaction)
	return txn, args.Error(1)
}

func (m *mockSubscriptionRepo) ListTransactions(ctx context.Context, status string, page, pageSize int) ([]dbm.Transaction, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Transaction)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockSubscriptionRepo) ConfirmTransaction(ctx context.Context, id string, now time.Time) (*dbm.Subscription, error) {
	args := m.Called(ctx, id, now)
	sub, _ := args.Get(0).(*dbm.Subscription)
	return sub, args.Error(1)
}

func (m *mockSubscriptionRepo) FailTransaction(ctx context.Context, id string, reason string, now int64) error {
	return m.Called(ctx, id, reason, now).Error(0)
}

type mockPlanRepo struct{ mock.Mock }

func (m *mockPlanRepo) GetPlanInfoById(ctx context.Context, planID string) (*dbm.Plan, error) {
	args := m.Called(ctx, planID)
	p, _ := args.Get(0).(*dbm.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) GetByCode(ctx context.Context, code string) (*dbm.Plan, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*dbm.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) GetAllPlans(ctx context.Context, activeOnly bool) ([]dbm.Plan, error) {
	args := m.Called(ctx, activeOnly)
	plans, _ := args.Get(0).([]dbm.Plan)
	return plans, args.Error(1)
}

func (m *mockPlanRepo) UpsertByCode(ctx context.Context, plan *dbm.Plan) error {
	args := m.Called(ctx, plan)
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	return args.Error(0)
}

type mockItineraryRepo struct{ mock.Mock }

func (m *mockItineraryRepo) Create(ctx context.Context, itinerary *dbm.Itinerary) error {
	args := m.Called(ctx, itinerary)
	if itinerary.ID == uuid.Nil {
		itinerary.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockItineraryRepo) MaterializePlan(ctx context.Context, in *repositories.CreateItineraryInput, plan *resp.SuggestionPlan) (uuid.UUID, error) {
	args := m.Called(ctx, in, plan)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockItineraryRepo) GetByID(ctx context.Context, id string) (*dbm.Itinerary, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*dbm.Itinerary)
	return it, args.Error(1)
}

func (m *mockItineraryRepo) GetDetails(ctx context.Context, id string) (*dbm.Itinerary, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*dbm.Itinerary)
	return it, args.Error(1)
}

func (m *mockItineraryRepo) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]dbm.Itinerary, int64, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Itinerary)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockItineraryRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockItineraryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockItineraryRepo) AddDay(ctx context.Context, itineraryID string) (*dbm.ItineraryDay, error) {
	args := m.Called(ctx, itineraryID)
	d, _ := args.Get(0).(*dbm.ItineraryDay)
	return d, args.Error(1)
}

func (m *mockItineraryRepo) GetDay(ctx context.Context, itineraryID, dayID string) (*dbm.ItineraryDay, error) {
	args := m.Called(ctx, itineraryID, dayID)
	d, _ := args.Get(0).(*dbm.ItineraryDay)
	return d, args.Error(1)
}

func (m *mockItineraryRepo) CreateActivity(ctx context.Context, activity *dbm.ItineraryActivity) error {
	args := m.Called(ctx, activity)
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockItineraryRepo) GetActivity(ctx context.Context, itineraryID, activityID string) (*dbm.ItineraryActivity, error) {
	args := m.Called(ctx, itineraryID, activityID)
	a, _ := args.Get(0).(*dbm.ItineraryActivity)
	return a, args.Error(1)
}

func (m *mockItineraryRepo) SaveActivity(ctx context.Context, activity *dbm.ItineraryActivity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *mockItineraryRepo) DeleteActivity(ctx context.Context, activityID string) error {
	return m.Called(ctx, activityID).Error(0)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Create(ctx context.Context, review *dbm.Review) error {
	args := m.Called(ctx, review)
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *dbm.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, review *dbm.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*dbm.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*dbm.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) FindByPlaceAndAccount(ctx context.Context, placeID, accountID string) (*dbm.Review, error) {
	args := m.Called(ctx, placeID, accountID)
	r, _ := args.Get(0).(*dbm.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) ListByPlace(ctx context.Context, placeID string, page, pageSize int) ([]dbm.Review, int64, error) {
	args := m.Called(ctx, placeID, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Review)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]dbm.Review, int64, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Review)
	return rows, args.Get(1).(int64), args.Error(2)
}

type mockTagRepo struct{ mock.Mock }

func (m *mockTagRepo) CreateTag(tag *dbm.Tag, ctx context.Context) error {
	return m.Called(tag, ctx).Error(0)
}

func (m *mockTagRepo) GetTagByID(ctx context.Context, tagID string) (*dbm.Tag, error) {
	args := m.Called(ctx, tagID)
	t, _ := args.Get(0).(*dbm.Tag)
	return t, args.Error(1)
}

func (m *mockTagRepo) FindByIDs(ctx context.Context, ids []string) ([]dbm.Tag, error) {
	args := m.Called(ctx, ids)
	tags, _ := args.Get(0).([]dbm.Tag)
	return tags, args.Error(1)
}

func (m *mockTagRepo) ExistsByName(ctx context.Context, en, vi string) (bool, error) {
	args := m.Called(ctx, en, vi)
	return args.Bool(0), args.Error(1)
}

func (m *mockTagRepo) GetAllTags(page int, pageSize int, ctx context.Context) ([]dbm.Tag, int64, error) {
	args := m.Called(page, pageSize, ctx)
	tags, _ := args.Get(0).([]dbm.Tag)
	return tags, args.Get(1).(int64), args.Error(2)
}

type mockProvinceRepo struct{ mock.Mock }

func (m *mockProvinceRepo) GetByID(ctx context.Context, id string) (*dbm.Province, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*dbm.Province)
	return p, args.Error(1)
}

func (m *mockProvinceRepo) SearchByKeyword(ctx context.Context, keyword string, page int, pageSize int) ([]dbm.Province, int64, error) {
	args := m.Called(ctx, keyword, page, pageSize)
	rows, _ := args.Get(0).([]dbm.Province)
	return rows, args.Get(1).(int64), args.Error(2)
}

// stubPlaces satisfies PlaceServiceInterface for services that only need
// cache invalidation.
type stubPlaces struct {
	PlaceServiceInterface
	invalidated []string
}

func (s *stubPlaces) InvalidatePlace(id string) {
	s.invalidated = append(s.invalidated, id)
}

var (
	_ repositories.SuggestionRepository      = (*mockSuggestionRepo)(nil)
	_ repositories.PlaceRepository           = (*mockPlaceRepo)(nil)
	_ repositories.IPlaceEmbeddingRepository = (*mockEmbeddingRepo)(nil)
	_ repositories.AccountRepository         = (*mockAccountRepo)(nil)
	_ repositories.SubscriptionRepository    = (*mockSubscriptionRepo)(nil)
	_ repositories.IPlanRepository           = (*mockPlanRepo)(nil)
	_ repositories.ItineraryRepository       = (*mockItineraryRepo)(nil)
	_ repositories.ReviewRepository          = (*mockReviewRepo)(nil)
	_ repositories.TagRepositoryInterface    = (*mockTagRepo)(nil)
	_ repositories.ProvinceRepository        = (*mockProvinceRepo)(nil)
	_ utils.TextGenerator                    = (*mockGenerator)(nil)
	_ QuotaPolicy                            = fixedQuota{}
)
