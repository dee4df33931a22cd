package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbm "angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

var fixedNow = time.Date(2025, 10, 19, 9, 30, 0, 0, utils.VNLocation())

func newSuggestionServiceForTest(
	repo *mockSuggestionRepo,
	places *mockPlaceRepo,
	generator utils.TextGenerator,
	quota QuotaPolicy,
) *SuggestionService {
	svc := NewSuggestionService(repo, places, nil, nil, generator, quota, time.Hour, zap.NewNop()).(*SuggestionService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func testPlace(name string) dbm.Place {
	p := dbm.Place{Name: name, Category: dbm.CategoryRestaurant, Status: dbm.PlaceActive, MinPrice: 30000, MaxPrice: 80000}
	p.ID = uuid.New()
	return p
}

func cachedRow(t *testing.T, key string, place dbm.Place) *dbm.AISuggestion {
	t.Helper()
	row := &dbm.AISuggestion{
		CacheKey:  key,
		Params:    []byte(`{"days":1}`),
		Response:  []byte(fmt.Sprintf(`{"title":"Ăn sáng","days":[{"day":1,"activities":[{"place_id":%q,"place_name":%q,"start_time":"07:00","end_time":"08:00"}]}]}`, place.ID, place.Name)),
		Model:     "test-model",
		HitCount:  2,
		ExpiresAt: fixedNow.Add(time.Hour).Unix(),
	}
	row.ID = uuid.New()
	row.CreatedAt = fixedNow.Add(-time.Hour).Unix()
	return row
}

func TestNormalizeSuggestionParamsDefaults(t *testing.T) {
	params, err := NormalizeSuggestionParams(request_models.SuggestionRequest{
		City:        "  Hồ   Chí Minh ",
		Days:        2,
		People:      3,
		Categories:  []string{"Cafe", "restaurant", "cafe", " "},
		Preferences: []string{"Spicy", "  view  "},
	})
	require.NoError(t, err)

	assert.Equal(t, "hồ chí minh", params.City)
	assert.Equal(t, "medium", params.Budget)
	assert.Equal(t, "vi", params.Lang)
	assert.Equal(t, []string{"cafe", "restaurant"}, params.Categories)
	assert.Equal(t, []string{"spicy", "view"}, params.Preferences)
}

func TestNormalizeSuggestionParamsRejectsInvalid(t *testing.T) {
	negative := int64(-1)
	cases := map[string]request_models.SuggestionRequest{
		"zero days":      {Days: 0, People: 1},
		"too many days":  {Days: 8, People: 1},
		"no people":      {Days: 1, People: 0},
		"bad budget":     {Days: 1, People: 1, Budget: "luxury"},
		"bad lang":       {Days: 1, People: 1, Lang: "fr"},
		"bad category":   {Days: 1, People: 1, Categories: []string{"spa"}},
		"bad province":   {Days: 1, People: 1, ProvinceID: "hanoi"},
		"negative price": {Days: 1, People: 1, MaxPricePerPerson: &negative},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeSuggestionParams(req)
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}

func TestCacheKeyIsOrderAndCaseInsensitive(t *testing.T) {
	a, err := NormalizeSuggestionParams(request_models.SuggestionRequest{
		City: "Đà Nẵng", Days: 2, People: 2,
		Categories:  []string{"cafe", "bar"},
		Preferences: []string{"view", "seafood"},
	})
	require.NoError(t, err)
	b, err := NormalizeSuggestionParams(request_models.SuggestionRequest{
		City: " đà nẵng", Days: 2, People: 2, Budget: "MEDIUM", Lang: "vi",
		Categories:  []string{"BAR", "cafe"},
		Preferences: []string{"Seafood", "view", "view"},
	})
	require.NoError(t, err)

	keyA, err := CacheKey(a)
	require.NoError(t, err)
	keyB, err := CacheKey(b)
	require.NoError(t, err)
	assert.Equal(t, keyA, keyB)
	assert.Len(t, keyA, 32)

	b.Days = 3
	keyC, err := CacheKey(b)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, keyC)
}

func TestSuggestServesCacheHitWithoutQuota(t *testing.T) {
	repo := new(mockSuggestionRepo)
	places := new(mockPlaceRepo)
	gen := new(mockGenerator)
	// A hit must not consult the quota.
	svc := newSuggestionServiceForTest(repo, places, gen, fixedQuota{err: errors.New("quota should not be read")})

	place := testPlace("Phở Thìn")
	row := cachedRow(t, "k", place)
	repo.On("FindLiveByKey", mock.Anything, mock.Anything, fixedNow.Unix()).Return(row, nil)
	repo.On("IncrementHit", mock.Anything, row.ID.String()).Return(nil)
	repo.On("RecordUsage", mock.Anything, mock.MatchedBy(func(u *dbm.AIUsage) bool {
		return u.CacheHit && u.SuggestionID == row.ID
	})).Return(nil)

	out, err := svc.Suggest(context.Background(), uuid.NewString(), request_models.SuggestionRequest{Days: 1, People: 2})
	require.NoError(t, err)

	assert.True(t, out.Cached)
	assert.Equal(t, int64(3), out.HitCount)
	assert.Equal(t, "Ăn sáng", out.Plan.Title)
	gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSuggestRejectsWhenQuotaExhausted(t *testing.T) {
	repo := new(mockSuggestionRepo)
	gen := new(mockGenerator)
	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), gen, fixedQuota{limit: 3})

	accountID := uuid.NewString()
	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, accountID, utils.StartOfDayVN(fixedNow).Unix()).Return(int64(3), nil)

	_, err := svc.Suggest(context.Background(), accountID, request_models.SuggestionRequest{Days: 1, People: 1})
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)
	gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
}

func TestSuggestGeneratesAndStores(t *testing.T) {
	repo := new(mockSuggestionRepo)
	places := new(mockPlaceRepo)
	gen := new(mockGenerator)
	svc := newSuggestionServiceForTest(repo, places, gen, fixedQuota{limit: dbm.UnlimitedQuota})

	pho := testPlace("Phở Thìn")
	cafe := testPlace("Cà phê Giảng")
	accountID := uuid.New()

	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, accountID.String(), mock.Anything).Return(int64(99), nil)
	places.On("Candidates", mock.Anything, mock.Anything, maxCandidatePlaces).Return([]dbm.Place{pho, cafe}, nil)
	gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("```json\n"+fmt.Sprintf(`{
		"title": " Hà Nội một ngày ",
		"days": [
			{"day": 1, "activities": [
				{"place_id": %q, "start_time": "07:00", "end_time": "08:00", "estimated_cost": -5},
				{"place_id": "00000000-0000-0000-0000-000000000000", "start_time": "09:00", "end_time": "10:00"}
			]},
			{"day": 2, "activities": [{"place_id": %q, "start_time": "15:00", "end_time": "16:00"}]}
		]}`, pho.ID, cafe.ID)+"\n```", nil)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(row *dbm.AISuggestion) bool {
		return row.AccountID == accountID && row.Model == "test-model" && row.ExpiresAt == fixedNow.Add(time.Hour).Unix()
	})).Return(nil)
	repo.On("RecordUsage", mock.Anything, mock.MatchedBy(func(u *dbm.AIUsage) bool {
		return !u.CacheHit && u.AccountID == accountID
	})).Return(nil).Once()
	repo.On("FinalizeUsage", mock.Anything, mock.Anything, mock.Anything, false).Return(nil).Once()

	out, err := svc.Suggest(context.Background(), accountID.String(), request_models.SuggestionRequest{Days: 1, People: 2})
	require.NoError(t, err)

	assert.False(t, out.Cached)
	assert.Equal(t, "Hà Nội một ngày", out.Plan.Title)
	require.Len(t, out.Plan.Days, 1)
	require.Len(t, out.Plan.Days[0].Activities, 1)
	assert.Equal(t, "Phở Thìn", out.Plan.Days[0].Activities[0].PlaceName)
	assert.Equal(t, int64(0), out.Plan.Days[0].Activities[0].EstimatedCost)
	repo.AssertExpectations(t)
}

func TestSuggestWithoutGenerator(t *testing.T) {
	repo := new(mockSuggestionRepo)
	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), nil, fixedQuota{limit: 3})

	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("CountGeneratedSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	repo.On("ReleaseUsage", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Suggest(context.Background(), uuid.NewString(), request_models.SuggestionRequest{Days: 1, People: 1})
	assert.ErrorIs(t, err, utils.ErrAIUnavailable)
	repo.AssertExpectations(t)
}

func TestSuggestWithoutCandidates(t *testing.T) {
	repo := new(mockSuggestionRepo)
	places := new(mockPlaceRepo)
	gen := new(mockGenerator)
	svc := newSuggestionServiceForTest(repo, places, gen, fixedQuota{limit: 3})

	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(nil)
	repo.On("ReleaseUsage", mock.Anything, mock.Anything).Return(nil).Once()
	places.On("Candidates", mock.Anything, mock.MatchedBy(func(q repositories.PlaceQuery) bool {
		return q.City == "huế"
	}), maxCandidatePlaces).Return([]dbm.Place{}, nil)

	_, err := svc.Suggest(context.Background(), uuid.NewString(), request_models.SuggestionRequest{City: "Huế", Days: 1, People: 1})
	assert.ErrorIs(t, err, utils.ErrNoCandidatePlaces)
	gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
	repo.AssertCalled(t, "ReleaseUsage", mock.Anything, mock.Anything)
}

func TestSuggestCollapsesConcurrentIdenticalRequests(t *testing.T) {
	repo := new(mockSuggestionRepo)
	places := new(mockPlaceRepo)
	gen := &mockGenerator{delay: 200 * time.Millisecond}
	svc := newSuggestionServiceForTest(repo, places, gen, fixedQuota{limit: dbm.UnlimitedQuota})

	pho := testPlace("Phở Thìn")
	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	places.On("Candidates", mock.Anything, mock.Anything, mock.Anything).Return([]dbm.Place{pho}, nil)
	gen.On("GenerateJSON", mock.Anything, mock.Anything).
		Return(fmt.Sprintf(`{"title":"x","days":[{"day":1,"activities":[{"place_id":%q}]}]}`, pho.ID), nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	repo.On("IncrementHit", mock.Anything, mock.Anything).Return(nil)
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(nil)
	repo.On("FinalizeUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	const callers = 2
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]bool, callers)
		errs    = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			out, err := svc.Suggest(context.Background(), uuid.NewString(), request_models.SuggestionRequest{Days: 1, People: 4})
			errs[i] = err
			if err == nil {
				results[i] = out.Cached
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	gen.AssertNumberOfCalls(t, "GenerateJSON", 1)
	repo.AssertNumberOfCalls(t, "Upsert", 1)
	repo.AssertNumberOfCalls(t, "FinalizeUsage", 2)
	repo.AssertCalled(t, "FinalizeUsage", mock.Anything, mock.Anything, mock.Anything, true)
	repo.AssertCalled(t, "FinalizeUsage", mock.Anything, mock.Anything, mock.Anything, false)
	assert.ElementsMatch(t, []bool{false, true}, results)
}

func TestSuggestRefusesParallelMissPastLimit(t *testing.T) {
	repo := new(mockSuggestionRepo)
	gen := new(mockGenerator)
	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), gen, fixedQuota{limit: 1})

	accountID := uuid.NewString()
	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	// Nothing used yet, but another request reserved the last slot meanwhile.
	repo.On("CountGeneratedSince", mock.Anything, accountID, mock.Anything).Return(int64(0), nil).Once()
	repo.On("RecordUsage", mock.Anything, mock.MatchedBy(func(u *dbm.AIUsage) bool { return !u.CacheHit })).Return(nil).Once()
	repo.On("CountGeneratedSince", mock.Anything, accountID, mock.Anything).Return(int64(2), nil).Once()
	repo.On("ReleaseUsage", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Suggest(context.Background(), accountID, request_models.SuggestionRequest{Days: 1, People: 1})
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)
	gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSuggestGenerationOutlivesCanceledRequest(t *testing.T) {
	repo := new(mockSuggestionRepo)
	places := new(mockPlaceRepo)
	gen := new(mockGenerator)
	svc := newSuggestionServiceForTest(repo, places, gen, fixedQuota{limit: dbm.UnlimitedQuota})

	pho := testPlace("Phở Thìn")
	repo.On("FindLiveByKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("CountGeneratedSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("RecordUsage", mock.Anything, mock.Anything).Return(nil)
	places.On("Candidates", mock.Anything, mock.Anything, mock.Anything).Return([]dbm.Place{pho}, nil)
	gen.On("GenerateJSON", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	}), mock.Anything).Return(fmt.Sprintf(`{"title":"x","days":[{"day":1,"activities":[{"place_id":%q}]}]}`, pho.ID), nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	repo.On("FinalizeUsage", mock.Anything, mock.Anything, mock.Anything, false).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := svc.Suggest(ctx, uuid.NewString(), request_models.SuggestionRequest{Days: 1, People: 1})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	gen.AssertNumberOfCalls(t, "GenerateJSON", 1)
}

func TestParseSuggestionPlanCapsAndRenumbers(t *testing.T) {
	a, b := testPlace("A"), testPlace("B")
	raw := fmt.Sprintf(`{"days":[
		{"day":4,"activities":[{"place_id":"unknown"}]},
		{"day":5,"activities":[{"place_id":%q}]},
		{"day":6,"activities":[{"place_id":%q}]},
		{"day":7,"activities":[{"place_id":%q}]}
	]}`, a.ID, b.ID, a.ID)

	plan, err := parseSuggestionPlan(raw, []dbm.Place{a, b}, 2)
	require.NoError(t, err)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, 1, plan.Days[0].Day)
	assert.Equal(t, 2, plan.Days[1].Day)
	assert.Equal(t, "B", plan.Days[1].Activities[0].PlaceName)

	_, err = parseSuggestionPlan(`{"days":[{"activities":[{"place_id":"nope"}]}]}`, []dbm.Place{a}, 2)
	assert.Error(t, err)

	_, err = parseSuggestionPlan("not json", []dbm.Place{a}, 2)
	assert.Error(t, err)
}

func TestQuotaReportsRemaining(t *testing.T) {
	repo := new(mockSuggestionRepo)
	accountID := uuid.NewString()
	repo.On("CountGeneratedSince", mock.Anything, accountID, mock.Anything).Return(int64(1), nil)

	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), nil, fixedQuota{limit: 3})
	q, err := svc.Quota(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Limit)
	assert.Equal(t, 2, q.Remaining)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, utils.VNLocation()), q.ResetsAt)

	unlimited := newSuggestionServiceForTest(repo, new(mockPlaceRepo), nil, fixedQuota{limit: dbm.UnlimitedQuota})
	q, err = unlimited.Quota(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, dbm.UnlimitedQuota, q.Remaining)
}

func TestCacheStatsHitRatio(t *testing.T) {
	repo := new(mockSuggestionRepo)
	repo.On("Stats", mock.Anything, fixedNow.Unix()).Return(&repositories.SuggestionCacheStats{
		Entries: 10, Live: 7, TotalHits: 40, Requests: 50, CacheHits: 40,
	}, nil)

	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), nil, fixedQuota{})
	stats, err := svc.CacheStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Expired)
	assert.InDelta(t, 0.8, stats.HitRatio, 1e-9)
}

func TestGetSuggestionNotFound(t *testing.T) {
	repo := new(mockSuggestionRepo)
	svc := newSuggestionServiceForTest(repo, new(mockPlaceRepo), nil, fixedQuota{})

	_, err := svc.GetSuggestion(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrSuggestionNotFound)

	id := uuid.NewString()
	repo.On("GetLiveByID", mock.Anything, id, fixedNow.Unix()).Return(nil, nil)
	_, err = svc.GetSuggestion(context.Background(), id)
	assert.ErrorIs(t, err, utils.ErrSuggestionNotFound)
}
