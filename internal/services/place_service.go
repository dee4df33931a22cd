package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

const (
	placeCachePrefix = "place:"
	placeCacheTTL    = 5 * time.Minute

	defaultNearbyRadiusKm = 2.0
	defaultNearbyLimit    = 20
	defaultSearchLimit    = 10
	minSearchSimilarity   = 0.5
)

type PlaceServiceInterface interface {
	ListPlaces(ctx context.Context, filter request_models.PlaceFilter) (*utils.PagedData, error)
	NearbyPlaces(ctx context.Context, q request_models.NearbyQuery) ([]response_models.NearbyPlace, error)
	SemanticSearch(ctx context.Context, q string, limit int) ([]response_models.SearchPlace, error)
	GetPlace(ctx context.Context, id string) (*response_models.PlaceResponse, error)

	CreatePlace(ctx context.Context, request request_models.CreatePlaceRequest) (*response_models.PlaceResponse, error)
	UpdatePlace(ctx context.Context, id string, request request_models.UpdatePlaceRequest) (*response_models.PlaceResponse, error)
	DeletePlace(ctx context.Context, id string) error

	InvalidatePlace(id string)
}

type PlaceService struct {
	placeRepo     repositories.PlaceRepository
	tagRepo       repositories.TagRepositoryInterface
	provinceRepo  repositories.ProvinceRepository
	embeddingRepo repositories.IPlaceEmbeddingRepository
	embedder      utils.EmbeddingClientInterface
	cache         *mem.Store
	log           *zap.Logger
}

func NewPlaceService(
	placeRepo repositories.PlaceRepository,
	tagRepo repositories.TagRepositoryInterface,
	provinceRepo repositories.ProvinceRepository,
	embeddingRepo repositories.IPlaceEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
	cache *mem.Store,
	log *zap.Logger,
) PlaceServiceInterface {
	return &PlaceService{
		placeRepo:     placeRepo,
		tagRepo:       tagRepo,
		provinceRepo:  provinceRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		cache:         cache,
		log:           log,
	}
}

// PriceLevelFor buckets a per-person max price in VND into 1..4.
func PriceLevelFor(maxPrice int64) int {
	switch {
	case maxPrice <= 50_000:
		return 1
	case maxPrice <= 150_000:
		return 2
	case maxPrice <= 400_000:
		return 3
	default:
		return 4
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func (p *PlaceService) ListPlaces(ctx context.Context, filter request_models.PlaceFilter) (*utils.PagedData, error) {
	if err := utils.ValidatePage(filter.Page, filter.PageSize); err != nil {
		return nil, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, utils.ErrInvalidInput
	}

	places, total, err := p.placeRepo.List(ctx, repositories.PlaceQuery{
		Q:             strings.TrimSpace(filter.Q),
		Category:      filter.Category,
		ProvinceID:    filter.ProvinceID,
		MinPrice:      filter.MinPrice,
		MaxPrice:      filter.MaxPrice,
		MinRating:     filter.MinRating,
		TagID:         filter.TagID,
		Sort:          filter.Sort,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
		IncludeHidden: filter.IncludeHidden,
	})
	if err != nil {
		p.log.Error("list places", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.PlaceSummary, 0, len(places))
	for i := range places {
		items = append(items, toPlaceSummary(&places[i]))
	}
	return &utils.PagedData{Items: items, Page: filter.Page, PageSize: filter.PageSize, Total: total}, nil
}

func (p *PlaceService) NearbyPlaces(ctx context.Context, q request_models.NearbyQuery) ([]response_models.NearbyPlace, error) {
	if !validCoordinates(q.Latitude, q.Longitude) {
		return nil, utils.ErrInvalidInput
	}
	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultNearbyRadiusKm
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	rows, err := p.placeRepo.Nearby(ctx, q.Latitude, q.Longitude, radius, limit)
	if err != nil {
		p.log.Error("nearby places", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.NearbyPlace, 0, len(rows))
	for i := range rows {
		out = append(out, response_models.NearbyPlace{
			PlaceSummary:   toPlaceSummary(&rows[i].Place),
			DistanceMeters: int(rows[i].DistanceMeters + 0.5),
		})
	}
	return out, nil
}

func (p *PlaceService) SemanticSearch(ctx context.Context, q string, limit int) ([]response_models.SearchPlace, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, utils.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vector, err := p.embedder.GetEmbedding(ctx, q)
	if err != nil {
		p.log.Error("embed search query", zap.Error(err))
		return nil, utils.ErrAIUnavailable
	}

	matches, err := p.embeddingRepo.SearchByVector(ctx, vector, minSearchSimilarity, limit)
	if err != nil {
		p.log.Error("vector search", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if len(matches) == 0 {
		return []response_models.SearchPlace{}, nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.PlaceID)
	}
	places, err := p.placeRepo.FindByIDs(ctx, ids)
	if err != nil {
		p.log.Error("load search results", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	byID := make(map[string]*db_models.Place, len(places))
	for i := range places {
		byID[places[i].ID.String()] = &places[i]
	}

	out := make([]response_models.SearchPlace, 0, len(matches))
	for _, m := range matches {
		place, ok := byID[m.PlaceID]
		if !ok || place.Status != db_models.PlaceActive {
			continue
		}
		out = append(out, response_models.SearchPlace{PlaceSummary: toPlaceSummary(place), Score: m.Similarity})
	}
	return out, nil
}

func (p *PlaceService) GetPlace(ctx context.Context, id string) (*response_models.PlaceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrPlaceNotFound
	}
	if cached, ok := p.cache.Get(placeCachePrefix + id); ok {
		if out, ok := cached.(*response_models.PlaceResponse); ok {
			return out, nil
		}
	}

	place, err := p.placeRepo.GetByID(ctx, id, false)
	if err != nil {
		p.log.Error("get place", zap.String("place_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}

	out := toPlaceResponse(place)
	p.cache.Set(placeCachePrefix+id, out, placeCacheTTL)
	return out, nil
}

func (p *PlaceService) InvalidatePlace(id string) {
	p.cache.Delete(placeCachePrefix + id)
}

func (p *PlaceService) resolveTags(ctx context.Context, ids []string) ([]db_models.Tag, error) {
	if len(ids) == 0 {
		return []db_models.Tag{}, nil
	}
	tags, err := p.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		p.log.Error("load tags", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if len(tags) != len(uniqueStrings(ids)) {
		return nil, utils.ErrTagNotFound
	}
	return tags, nil
}

func (p *PlaceService) checkProvince(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	province, err := p.provinceRepo.GetByID(ctx, id.String())
	if err != nil {
		p.log.Error("load province", zap.Error(err))
		return utils.ErrDatabaseError
	}
	if province == nil {
		return fmt.Errorf("%w: unknown province", utils.ErrInvalidInput)
	}
	return nil
}

func (p *PlaceService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "place"
	}
	exists, err := p.placeRepo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func (p *PlaceService) CreatePlace(ctx context.Context, request request_models.CreatePlaceRequest) (*response_models.PlaceResponse, error) {
	if !validCoordinates(request.Latitude, request.Longitude) || request.MinPrice > request.MaxPrice {
		return nil, utils.ErrInvalidInput
	}
	if err := p.checkProvince(ctx, request.ProvinceID); err != nil {
		return nil, err
	}
	tags, err := p.resolveTags(ctx, request.TagIDs)
	if err != nil {
		return nil, err
	}

	slug, err := p.uniqueSlug(ctx, request.Name)
	if err != nil {
		p.log.Error("check slug", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	priceLevel := request.PriceLevel
	if priceLevel == 0 {
		priceLevel = PriceLevelFor(request.MaxPrice)
	}

	place := &db_models.Place{
		Name:         strings.TrimSpace(request.Name),
		Slug:         slug,
		Description:  request.Description,
		Category:     db_models.PlaceCategory(request.Category),
		Address:      strings.TrimSpace(request.Address),
		ProvinceID:   request.ProvinceID,
		Latitude:     request.Latitude,
		Longitude:    request.Longitude,
		MinPrice:     request.MinPrice,
		MaxPrice:     request.MaxPrice,
		PriceLevel:   priceLevel,
		OpeningHours: pq.StringArray(request.OpeningHours),
		Phone:        request.Phone,
		Website:      request.Website,
		Images:       pq.StringArray(request.Images),
		Tags:         tags,
		Status:       db_models.PlaceActive,
	}

	if err := p.placeRepo.Create(ctx, place); err != nil {
		p.log.Error("create place", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	p.syncEmbedding(ctx, place)

	created, err := p.placeRepo.GetByID(ctx, place.ID.String(), true)
	if err != nil || created == nil {
		return toPlaceResponse(place), nil
	}
	return toPlaceResponse(created), nil
}

func (p *PlaceService) UpdatePlace(ctx context.Context, id string, request request_models.UpdatePlaceRequest) (*response_models.PlaceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrPlaceNotFound
	}
	place, err := p.placeRepo.GetByID(ctx, id, true)
	if err != nil {
		p.log.Error("get place", zap.String("place_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}

	if request.Name != nil {
		place.Name = strings.TrimSpace(*request.Name)
	}
	if request.Description != nil {
		place.Description = *request.Description
	}
	if request.Category != nil {
		place.Category = db_models.PlaceCategory(*request.Category)
	}
	if request.Address != nil {
		place.Address = strings.TrimSpace(*request.Address)
	}
	if request.ProvinceID != nil {
		if err := p.checkProvince(ctx, request.ProvinceID); err != nil {
			return nil, err
		}
		place.ProvinceID = request.ProvinceID
		place.Province = nil
	}
	if request.Latitude != nil {
		place.Latitude = *request.Latitude
	}
	if request.Longitude != nil {
		place.Longitude = *request.Longitude
	}
	if request.MinPrice != nil {
		place.MinPrice = *request.MinPrice
	}
	if request.MaxPrice != nil {
		place.MaxPrice = *request.MaxPrice
		if request.PriceLevel == nil {
			place.PriceLevel = PriceLevelFor(place.MaxPrice)
		}
	}
	if request.PriceLevel != nil {
		place.PriceLevel = *request.PriceLevel
	}
	if request.OpeningHours != nil {
		place.OpeningHours = pq.StringArray(request.OpeningHours)
	}
	if request.Phone != nil {
		place.Phone = *request.Phone
	}
	if request.Website != nil {
		place.Website = *request.Website
	}
	if request.Images != nil {
		place.Images = pq.StringArray(request.Images)
	}
	if request.Status != nil {
		place.Status = db_models.PlaceStatus(*request.Status)
	}

	if !validCoordinates(place.Latitude, place.Longitude) || place.MinPrice > place.MaxPrice {
		return nil, utils.ErrInvalidInput
	}

	var tags []db_models.Tag
	if request.TagIDs != nil {
		if tags, err = p.resolveTags(ctx, request.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := p.placeRepo.Update(ctx, place, tags); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPlaceNotFound
		}
		p.log.Error("update place", zap.String("place_id", id), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	p.InvalidatePlace(id)
	p.syncEmbedding(ctx, place)

	return toPlaceResponse(place), nil
}

func (p *PlaceService) DeletePlace(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrPlaceNotFound
	}
	if err := p.placeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrPlaceNotFound
		}
		p.log.Error("delete place", zap.String("place_id", id), zap.Error(err))
		return utils.ErrDatabaseError
	}
	p.InvalidatePlace(id)
	if err := p.embeddingRepo.Delete(ctx, id); err != nil {
		p.log.Warn("delete place embedding", zap.String("place_id", id), zap.Error(err))
	}
	return nil
}

// syncEmbedding is best effort: search quality degrades but writes succeed.
func (p *PlaceService) syncEmbedding(ctx context.Context, place *db_models.Place) {
	tagNames := make([]string, 0, len(place.Tags)*2)
	for _, t := range place.Tags {
		tagNames = append(tagNames, t.EnName, t.ViName)
	}
	text := strings.Join([]string{
		place.Name, place.Description, string(place.Category), place.Address, strings.Join(tagNames, " "),
	}, " ")

	vector, err := p.embedder.GetEmbedding(ctx, text)
	if err != nil {
		p.log.Warn("embed place", zap.String("place_id", place.ID.String()), zap.Error(err))
		return
	}

	provinceID := ""
	if place.ProvinceID != nil {
		provinceID = place.ProvinceID.String()
	}
	err = p.embeddingRepo.Upsert(ctx, &db_models.PlaceEmbedding{
		PlaceID:     place.ID.String(),
		Name:        place.Name,
		Description: place.Description,
		ProvinceID:  provinceID,
		Category:    string(place.Category),
		Tags:        pq.StringArray(tagNames),
		Embedding:   vector,
	})
	if err != nil {
		p.log.Warn("store place embedding", zap.String("place_id", place.ID.String()), zap.Error(err))
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
