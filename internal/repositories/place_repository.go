package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"angido/internal/models/db_models"
)

// PlaceQuery drives both the public listing and AI candidate selection.
type PlaceQuery struct {
	Q          string
	City       string
	Category   string
	Categories []string
	ProvinceID string
	MinPrice   *int64
	MaxPrice   *int64
	MinRating  *float64
	TagID      string
	Sort       string
	Page       int
	PageSize   int

	IncludeHidden bool
}

type PlaceDistance struct {
	Place          db_models.Place
	DistanceMeters float64
}

type PlaceRepository interface {
	Create(ctx context.Context, place *db_models.Place) error
	Update(ctx context.Context, place *db_models.Place, tags []db_models.Tag) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string, includeHidden bool) (*db_models.Place, error)
	FindByIDs(ctx context.Context, ids []string) ([]db_models.Place, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, q PlaceQuery) ([]db_models.Place, int64, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]PlaceDistance, error)
	Candidates(ctx context.Context, q PlaceQuery, limit int) ([]db_models.Place, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

// Create inserts the place together with its place_tags rows.
func (r *placeRepository) Create(ctx context.Context, place *db_models.Place) error {
	return r.db.WithContext(ctx).Omit("Tags.*").Create(place).Error
}

// Update saves scalar columns; tags == nil leaves associations untouched.
func (r *placeRepository) Update(ctx context.Context, place *db_models.Place, tags []db_models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).Save(place)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if tags != nil {
			if err := tx.Model(place).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
				return err
			}
			place.Tags = tags
		}
		return nil
	})
}

func (r *placeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Place{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *placeRepository) GetByID(ctx context.Context, id string, includeHidden bool) (*db_models.Place, error) {
	var place db_models.Place
	query := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Province")
	if !includeHidden {
		query = query.Where("status = ?", db_models.PlaceActive)
	}

	err := query.First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) FindByIDs(ctx context.Context, ids []string) ([]db_models.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var places []db_models.Place
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN ?", ids).
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&db_models.Place{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *placeRepository) filtered(ctx context.Context, q PlaceQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&db_models.Place{})

	if !q.IncludeHidden {
		query = query.Where("places.status = ?", db_models.PlaceActive)
	}
	if q.Q != "" {
		like := containsPattern(q.Q)
		query = query.Where(`places.name ILIKE ? ESCAPE '\' OR places.address ILIKE ? ESCAPE '\'`, like, like)
	}
	if q.City != "" {
		query = query.Where(`places.address ILIKE ? ESCAPE '\'`, containsPattern(q.City))
	}
	if q.Category != "" {
		query = query.Where("places.category = ?", q.Category)
	}
	if len(q.Categories) > 0 {
		query = query.Where("places.category IN ?", q.Categories)
	}
	if q.ProvinceID != "" {
		query = query.Where("places.province_id = ?", q.ProvinceID)
	}
	// Price filters match on overlap with the place's price band.
	if q.MinPrice != nil {
		query = query.Where("places.max_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("places.min_price <= ?", *q.MaxPrice)
	}
	if q.MinRating != nil {
		query = query.Where("places.avg_rating >= ?", *q.MinRating)
	}
	if q.TagID != "" {
		query = query.Where("EXISTS (SELECT 1 FROM place_tags pt WHERE pt.place_id = places.id AND pt.tag_id = ?)", q.TagID)
	}
	return query
}

func placeOrder(sort string) string {
	switch sort {
	case "newest":
		return "places.created_at DESC"
	case "price_asc":
		return "places.min_price ASC, places.avg_rating DESC"
	case "price_desc":
		return "places.max_price DESC, places.avg_rating DESC"
	default:
		return "places.avg_rating DESC, places.review_count DESC, places.created_at DESC"
	}
}

func (r *placeRepository) List(ctx context.Context, q PlaceQuery) ([]db_models.Place, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var places []db_models.Place
	err := r.filtered(ctx, q).
		Preload("Tags").
		Order(placeOrder(q.Sort)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&places).Error
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func (r *placeRepository) Candidates(ctx context.Context, q PlaceQuery, limit int) ([]db_models.Place, error) {
	var places []db_models.Place
	err := r.filtered(ctx, q).
		Preload("Tags").
		Order(placeOrder("rating")).
		Limit(limit).
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

const earthRadiusMeters = earthRadiusKm * 1000

// Nearby orders active places by great-circle distance. A bounding box on
// (latitude, longitude) narrows the scan before the haversine filter.
func (r *placeRepository) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]PlaceDistance, error) {
	box := boundingBox(lat, lng, radiusKm)

	distanceExpr := `? * 2 * ASIN(SQRT(
		POWER(SIN(RADIANS(latitude - ?) / 2), 2) +
		COS(RADIANS(?)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - ?) / 2), 2)
	))`

	var rows []struct {
		ID       uuid.UUID
		Distance float64
	}
	inner := r.db.WithContext(ctx).
		Model(&db_models.Place{}).
		Select("id, "+distanceExpr+" AS distance", earthRadiusMeters, lat, lat, lng).
		Where("status = ?", db_models.PlaceActive).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	switch {
	case box.AnyLng:
	case box.wraps():
		inner = inner.Where("(longitude >= ? OR longitude <= ?)", box.MinLng, box.MaxLng)
	default:
		inner = inner.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	err := r.db.WithContext(ctx).
		Table("(?) AS nearby", inner).
		Where("distance <= ?", radiusKm*1000).
		Order("distance ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.String())
	}
	places, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]db_models.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}

	out := make([]PlaceDistance, 0, len(rows))
	for _, row := range rows {
		if p, ok := byID[row.ID]; ok {
			out = append(out, PlaceDistance{Place: p, DistanceMeters: row.Distance})
		}
	}
	return out, nil
}
