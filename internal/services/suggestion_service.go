package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/metrics"
	"angido/pkg/utils"
)

const (
	maxCandidatePlaces  = 40
	maxSemanticMatches  = 10
	candidateSimilarity = 0.5
	generationTimeout   = 75 * time.Second
)

// SuggestionParams is the normalized form of a suggestion request. Its JSON
// encoding is the input of CacheKey, so field order is part of the key.
type SuggestionParams struct {
	ProvinceID        string   `json:"province_id,omitempty"`
	City              string   `json:"city,omitempty"`
	Days              int      `json:"days"`
	People            int      `json:"people"`
	Budget            string   `json:"budget"`
	MaxPricePerPerson *int64   `json:"max_price_per_person,omitempty"`
	Categories        []string `json:"categories"`
	Preferences       []string `json:"preferences"`
	Lang              string   `json:"lang"`
	Note              string   `json:"note,omitempty"`
}

// QuotaPolicy resolves the daily AI quota of an account.
type QuotaPolicy interface {
	EffectiveQuota(ctx context.Context, accountID string) (int, error)
}

type SuggestionServiceInterface interface {
	Suggest(ctx context.Context, accountID string, request request_models.SuggestionRequest) (*response_models.SuggestionResponse, error)
	GetSuggestion(ctx context.Context, id string) (*response_models.SuggestionResponse, error)
	Quota(ctx context.Context, accountID string) (*response_models.QuotaResponse, error)

	PurgeExpired(ctx context.Context) (int64, error)
	CacheStats(ctx context.Context) (*response_models.CacheStatsResponse, error)
	PurgeAll(ctx context.Context) (int64, error)
}

type SuggestionService struct {
	suggestionRepo repositories.SuggestionRepository
	placeRepo      repositories.PlaceRepository
	embeddingRepo  repositories.IPlaceEmbeddingRepository
	embedder       utils.EmbeddingClientInterface
	generator      utils.TextGenerator
	quota          QuotaPolicy
	ttl            time.Duration
	log            *zap.Logger

	group singleflight.Group
	now   func() time.Time
}

func NewSuggestionService(
	suggestionRepo repositories.SuggestionRepository,
	placeRepo repositories.PlaceRepository,
	embeddingRepo repositories.IPlaceEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	generator utils.TextGenerator,
	quota QuotaPolicy,
	ttl time.Duration,
	log *zap.Logger,
) SuggestionServiceInterface {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SuggestionService{
		suggestionRepo: suggestionRepo,
		placeRepo:      placeRepo,
		embeddingRepo:  embeddingRepo,
		embedder:       embedder,
		generator:      generator,
		quota:          quota,
		ttl:            ttl,
		log:            log,
		now:            time.Now,
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// NormalizeSuggestionParams validates a request and returns its canonical
// form: trimmed, lowercased, sorted deduplicated lists, lang vi and budget
// medium by default.
func NormalizeSuggestionParams(request request_models.SuggestionRequest) (*SuggestionParams, error) {
	if request.Days < 1 || request.Days > 7 || request.People < 1 || request.People > 50 {
		return nil, utils.ErrInvalidInput
	}
	if request.MaxPricePerPerson != nil && *request.MaxPricePerPerson < 0 {
		return nil, utils.ErrInvalidInput
	}

	params := &SuggestionParams{
		ProvinceID:        strings.ToLower(strings.TrimSpace(request.ProvinceID)),
		City:              strings.Join(strings.Fields(strings.ToLower(request.City)), " "),
		Days:              request.Days,
		People:            request.People,
		Budget:            strings.ToLower(strings.TrimSpace(request.Budget)),
		MaxPricePerPerson: request.MaxPricePerPerson,
		Categories:        normalizeList(request.Categories),
		Preferences:       normalizeList(request.Preferences),
		Lang:              strings.ToLower(strings.TrimSpace(request.Lang)),
		Note:              strings.Join(strings.Fields(strings.ToLower(request.Note)), " "),
	}

	if params.ProvinceID != "" {
		if _, err := uuid.Parse(params.ProvinceID); err != nil {
			return nil, utils.ErrInvalidInput
		}
	}
	switch params.Budget {
	case "":
		params.Budget = "medium"
	case "low", "medium", "high":
	default:
		return nil, utils.ErrInvalidInput
	}
	switch params.Lang {
	case "":
		params.Lang = "vi"
	case "vi", "en":
	default:
		return nil, utils.ErrInvalidInput
	}
	for _, c := range params.Categories {
		if !db_models.PlaceCategory(c).Valid() {
			return nil, utils.ErrInvalidInput
		}
	}
	return params, nil
}

// CacheKey is the MD5 hex digest of the canonical JSON of params.
func CacheKey(params *SuggestionParams) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return utils.MD5Hex(raw), nil
}

func (s *SuggestionService) Suggest(ctx context.Context, accountID string, request request_models.SuggestionRequest) (*response_models.SuggestionResponse, error) {
	account, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	params, err := NormalizeSuggestionParams(request)
	if err != nil {
		return nil, err
	}
	key, err := CacheKey(params)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	now := s.now()
	row, err := s.suggestionRepo.FindLiveByKey(ctx, key, now.Unix())
	if err != nil {
		s.log.Error("lookup suggestion cache", zap.String("cache_key", key), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if row != nil {
		metrics.AICacheLookups.WithLabelValues("hit").Inc()
		return s.serveHit(ctx, account, row)
	}
	metrics.AICacheLookups.WithLabelValues("miss").Inc()

	reservation, err := s.reserveQuota(ctx, account, now)
	if err != nil {
		return nil, err
	}

	// The generation is shared by every caller waiting on key, so it must not
	// die with the first caller's request.
	leader := false
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		leader = true
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generationTimeout)
		defer cancel()
		return s.generate(genCtx, account, key, params)
	})
	if err != nil {
		s.releaseUsage(ctx, reservation)
		return nil, err
	}
	row = v.(*db_models.AISuggestion)

	// Callers that joined an in-flight generation are served like a hit.
	if !leader {
		shared := *row
		s.incrementHit(ctx, &shared)
		s.finalizeUsage(ctx, reservation, shared.ID, true)
		return toSuggestionResponse(&shared, true)
	}

	s.finalizeUsage(ctx, reservation, row.ID, false)
	return toSuggestionResponse(row, false)
}

func (s *SuggestionService) serveHit(ctx context.Context, account uuid.UUID, row *db_models.AISuggestion) (*response_models.SuggestionResponse, error) {
	s.incrementHit(ctx, row)
	s.recordUsage(ctx, account, row.ID, true)
	return toSuggestionResponse(row, true)
}

func (s *SuggestionService) incrementHit(ctx context.Context, row *db_models.AISuggestion) {
	if err := s.suggestionRepo.IncrementHit(ctx, row.ID.String()); err != nil {
		s.log.Warn("increment suggestion hit", zap.String("suggestion_id", row.ID.String()), zap.Error(err))
		return
	}
	row.HitCount++
}

func (s *SuggestionService) recordUsage(ctx context.Context, account, suggestionID uuid.UUID, hit bool) {
	err := s.suggestionRepo.RecordUsage(ctx, &db_models.AIUsage{
		AccountID:    account,
		SuggestionID: suggestionID,
		CacheHit:     hit,
	})
	if err != nil {
		s.log.Warn("record ai usage", zap.String("account_id", account.String()), zap.Error(err))
	}
}

// reserveQuota charges one generation to the account before it runs. The
// usage row is written first and the count read again, so parallel misses
// from one account cannot together go past the limit.
func (s *SuggestionService) reserveQuota(ctx context.Context, account uuid.UUID, now time.Time) (*db_models.AIUsage, error) {
	accountID := account.String()
	limit, used, err := s.usage(ctx, accountID, now)
	if err != nil {
		return nil, err
	}
	if limit != db_models.UnlimitedQuota && used >= int64(limit) {
		return nil, utils.ErrQuotaExceeded
	}

	reservation := &db_models.AIUsage{AccountID: account}
	if err := s.suggestionRepo.RecordUsage(ctx, reservation); err != nil {
		s.log.Error("reserve ai usage", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if limit == db_models.UnlimitedQuota {
		return reservation, nil
	}

	used, err = s.suggestionRepo.CountGeneratedSince(ctx, accountID, utils.StartOfDayVN(now).Unix())
	if err != nil {
		s.log.Error("count ai usage", zap.String("account_id", accountID), zap.Error(err))
		s.releaseUsage(ctx, reservation)
		return nil, utils.ErrDatabaseError
	}
	if used > int64(limit) {
		s.releaseUsage(ctx, reservation)
		return nil, utils.ErrQuotaExceeded
	}
	return reservation, nil
}

// releaseUsage refunds a reservation whose generation failed.
func (s *SuggestionService) releaseUsage(ctx context.Context, reservation *db_models.AIUsage) {
	err := s.suggestionRepo.ReleaseUsage(context.WithoutCancel(ctx), reservation.ID.String())
	if err != nil {
		s.log.Warn("release ai usage", zap.String("usage_id", reservation.ID.String()), zap.Error(err))
	}
}

func (s *SuggestionService) finalizeUsage(ctx context.Context, reservation *db_models.AIUsage, suggestionID uuid.UUID, hit bool) {
	err := s.suggestionRepo.FinalizeUsage(context.WithoutCancel(ctx), reservation.ID.String(), suggestionID, hit)
	if err != nil {
		s.log.Warn("finalize ai usage", zap.String("usage_id", reservation.ID.String()), zap.Error(err))
	}
}

func (s *SuggestionService) usage(ctx context.Context, accountID string, now time.Time) (int, int64, error) {
	limit, err := s.quota.EffectiveQuota(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}
	used, err := s.suggestionRepo.CountGeneratedSince(ctx, accountID, utils.StartOfDayVN(now).Unix())
	if err != nil {
		s.log.Error("count ai usage", zap.String("account_id", accountID), zap.Error(err))
		return 0, 0, utils.ErrDatabaseError
	}
	return limit, used, nil
}

func (s *SuggestionService) generate(ctx context.Context, account uuid.UUID, key string, params *SuggestionParams) (*db_models.AISuggestion, error) {
	if s.generator == nil {
		return nil, utils.ErrAIUnavailable
	}

	candidates, err := s.candidates(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, utils.ErrNoCandidatePlaces
	}

	prompt := buildSuggestionPrompt(params, candidates)
	started := time.Now()
	raw, err := s.generator.GenerateJSON(ctx, prompt)
	metrics.AIGenerationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		s.log.Error("generate suggestion", zap.String("cache_key", key), zap.Error(err))
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	plan, err := parseSuggestionPlan(raw, candidates, params.Days)
	if err != nil {
		s.log.Warn("unusable ai response", zap.String("cache_key", key), zap.Error(err))
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	paramsJSON, _ := json.Marshal(params)
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	row := &db_models.AISuggestion{
		CacheKey:  key,
		AccountID: account,
		Params:    paramsJSON,
		Response:  planJSON,
		Model:     s.generator.Model(),
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.suggestionRepo.Upsert(ctx, row); err != nil {
		s.log.Error("store suggestion", zap.String("cache_key", key), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.log.Info("ai suggestion generated",
		zap.String("cache_key", key),
		zap.String("suggestion_id", row.ID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Duration("took", time.Since(started)))
	return row, nil
}

// candidates returns filtered places ordered by rating. Semantic matches for
// the note and preferences come first when embeddings are available.
func (s *SuggestionService) candidates(ctx context.Context, params *SuggestionParams) ([]db_models.Place, error) {
	query := repositories.PlaceQuery{
		ProvinceID: params.ProvinceID,
		City:       params.City,
		Categories: params.Categories,
		MaxPrice:   params.MaxPricePerPerson,
	}
	filtered, err := s.placeRepo.Candidates(ctx, query, maxCandidatePlaces)
	if err != nil {
		s.log.Error("select candidate places", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	semantic := s.semanticCandidates(ctx, params)

	out := make([]db_models.Place, 0, maxCandidatePlaces)
	seen := make(map[uuid.UUID]struct{}, maxCandidatePlaces)
	for _, group := range [][]db_models.Place{semantic, filtered} {
		for _, p := range group {
			if len(out) == maxCandidatePlaces {
				return out, nil
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *SuggestionService) semanticCandidates(ctx context.Context, params *SuggestionParams) []db_models.Place {
	if s.embedder == nil || s.embeddingRepo == nil {
		return nil
	}
	text := strings.TrimSpace(params.Note + " " + strings.Join(params.Preferences, " "))
	if text == "" {
		return nil
	}

	vector, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		s.log.Warn("embed suggestion preferences", zap.Error(err))
		return nil
	}
	matches, err := s.embeddingRepo.SearchByVector(ctx, vector, candidateSimilarity, maxSemanticMatches)
	if err != nil {
		s.log.Warn("semantic candidate search", zap.Error(err))
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.PlaceID)
	}
	places, err := s.placeRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("load semantic candidates", zap.Error(err))
		return nil
	}

	out := places[:0]
	for _, p := range places {
		if p.Status != db_models.PlaceActive {
			continue
		}
		if params.ProvinceID != "" && (p.ProvinceID == nil || p.ProvinceID.String() != params.ProvinceID) {
			continue
		}
		if params.MaxPricePerPerson != nil && p.MinPrice > *params.MaxPricePerPerson {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parseSuggestionPlan keeps only activities that reference candidate places,
// drops empty days, renumbers the rest and caps them at maxDays.
func parseSuggestionPlan(raw string, candidates []db_models.Place, maxDays int) (*response_models.SuggestionPlan, error) {
	var plan response_models.SuggestionPlan
	if err := json.Unmarshal([]byte(utils.CleanJSONResponse(raw)), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	byID := make(map[string]*db_models.Place, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID.String()] = &candidates[i]
	}

	days := make([]response_models.SuggestionDay, 0, len(plan.Days))
	for _, d := range plan.Days {
		activities := make([]response_models.SuggestionActivity, 0, len(d.Activities))
		for _, a := range d.Activities {
			place, ok := byID[strings.ToLower(strings.TrimSpace(a.PlaceID))]
			if !ok {
				continue
			}
			a.PlaceID = place.ID.String()
			a.PlaceName = place.Name
			if a.EstimatedCost < 0 {
				a.EstimatedCost = 0
			}
			activities = append(activities, a)
		}
		if len(activities) == 0 {
			continue
		}
		d.Activities = activities
		days = append(days, d)
		if len(days) == maxDays {
			break
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("plan references no known places")
	}
	for i := range days {
		days[i].Day = i + 1
	}
	plan.Days = days
	plan.Title = strings.TrimSpace(plan.Title)
	return &plan, nil
}

func toSuggestionResponse(row *db_models.AISuggestion, cached bool) (*response_models.SuggestionResponse, error) {
	out := &response_models.SuggestionResponse{
		ID:        row.ID.String(),
		CacheKey:  row.CacheKey,
		Cached:    cached,
		Model:     row.Model,
		HitCount:  row.HitCount,
		ExpiresAt: utils.FromUnixSecondsVN(row.ExpiresAt),
		CreatedAt: utils.FromUnixSecondsVN(row.CreatedAt),
	}
	var params map[string]any
	if err := json.Unmarshal(row.Params, &params); err == nil {
		out.Params = params
	}
	if err := json.Unmarshal(row.Response, &out.Plan); err != nil {
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}
	return out, nil
}

func (s *SuggestionService) GetSuggestion(ctx context.Context, id string) (*response_models.SuggestionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrSuggestionNotFound
	}
	row, err := s.suggestionRepo.GetLiveByID(ctx, id, s.now().Unix())
	if err != nil {
		s.log.Error("get suggestion", zap.String("suggestion_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if row == nil {
		return nil, utils.ErrSuggestionNotFound
	}
	return toSuggestionResponse(row, true)
}

func (s *SuggestionService) Quota(ctx context.Context, accountID string) (*response_models.QuotaResponse, error) {
	now := s.now()
	limit, used, err := s.usage(ctx, accountID, now)
	if err != nil {
		return nil, err
	}
	remaining := db_models.UnlimitedQuota
	if limit != db_models.UnlimitedQuota {
		remaining = limit - int(used)
		if remaining < 0 {
			remaining = 0
		}
	}
	return &response_models.QuotaResponse{
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
		ResetsAt:  utils.StartOfDayVN(now).AddDate(0, 0, 1),
	}, nil
}

func (s *SuggestionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.suggestionRepo.PurgeExpired(ctx, s.now().Unix())
	if err != nil {
		s.log.Error("purge expired suggestions", zap.Error(err))
		return 0, utils.ErrDatabaseError
	}
	metrics.AICachePurged.Add(float64(n))
	return n, nil
}

func (s *SuggestionService) CacheStats(ctx context.Context) (*response_models.CacheStatsResponse, error) {
	stats, err := s.suggestionRepo.Stats(ctx, s.now().Unix())
	if err != nil {
		s.log.Error("suggestion cache stats", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := &response_models.CacheStatsResponse{
		Entries:   stats.Entries,
		Live:      stats.Live,
		Expired:   stats.Entries - stats.Live,
		TotalHits: stats.TotalHits,
	}
	if stats.Requests > 0 {
		out.HitRatio = float64(stats.CacheHits) / float64(stats.Requests)
	}
	return out, nil
}

func (s *SuggestionService) PurgeAll(ctx context.Context) (int64, error) {
	n, err := s.suggestionRepo.PurgeAll(ctx)
	if err != nil {
		s.log.Error("purge suggestion cache", zap.Error(err))
		return 0, utils.ErrDatabaseError
	}
	s.log.Info("suggestion cache purged", zap.Int64("rows", n))
	return n, nil
}
