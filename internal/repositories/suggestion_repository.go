package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"angido/internal/models/db_models"
)

type SuggestionCacheStats struct {
	Entries   int64
	Live      int64
	TotalHits int64
	Requests  int64
	CacheHits int64
}

type SuggestionRepository interface {
	FindLiveByKey(ctx context.Context, cacheKey string, now int64) (*db_models.AISuggestion, error)
	GetLiveByID(ctx context.Context, id string, now int64) (*db_models.AISuggestion, error)
	Upsert(ctx context.Context, suggestion *db_models.AISuggestion) error
	IncrementHit(ctx context.Context, id string) error

	RecordUsage(ctx context.Context, usage *db_models.AIUsage) error
	FinalizeUsage(ctx context.Context, usageID string, suggestionID uuid.UUID, cacheHit bool) error
	ReleaseUsage(ctx context.Context, usageID string) error
	CountGeneratedSince(ctx context.Context, accountID string, since int64) (int64, error)

	PurgeExpired(ctx context.Context, now int64) (int64, error)
	PurgeAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context, now int64) (*SuggestionCacheStats, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) first(ctx context.Context, where string, arg interface{}, now int64) (*db_models.AISuggestion, error) {
	var s db_models.AISuggestion
	err := r.db.WithContext(ctx).
		Where(where, arg).
		Where("expires_at > ?", now).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// FindLiveByKey never returns rows past their expiry even if the janitor has
// not deleted them yet.
func (r *suggestionRepository) FindLiveByKey(ctx context.Context, cacheKey string, now int64) (*db_models.AISuggestion, error) {
	return r.first(ctx, "cache_key = ?", cacheKey, now)
}

func (r *suggestionRepository) GetLiveByID(ctx context.Context, id string, now int64) (*db_models.AISuggestion, error) {
	return r.first(ctx, "id = ?", id, now)
}

// Upsert inserts the row or, when the cache key already exists (an expired
// row or a concurrent writer), overwrites its payload and expiry. The stored
// row, which keeps its original id on conflict, is copied into suggestion.
func (r *suggestionRepository) Upsert(ctx context.Context, suggestion *db_models.AISuggestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"account_id": suggestion.AccountID,
				"params":     suggestion.Params,
				"response":   suggestion.Response,
				"model":      suggestion.Model,
				"expires_at": suggestion.ExpiresAt,
				"hit_count":  0,
				"updated_at": time.Now().Unix(),
				"deleted_at": nil,
			}),
		}).Create(suggestion).Error
		if err != nil {
			return err
		}

		var stored db_models.AISuggestion
		if err := tx.Where("cache_key = ?", suggestion.CacheKey).Take(&stored).Error; err != nil {
			return err
		}
		*suggestion = stored
		return nil
	})
}

func (r *suggestionRepository) IncrementHit(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.AISuggestion{}).
		Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (r *suggestionRepository) RecordUsage(ctx context.Context, usage *db_models.AIUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// FinalizeUsage links a reserved usage row to the suggestion it produced.
func (r *suggestionRepository) FinalizeUsage(ctx context.Context, usageID string, suggestionID uuid.UUID, cacheHit bool) error {
	return r.db.WithContext(ctx).
		Model(&db_models.AIUsage{}).
		Where("id = ?", usageID).
		Updates(map[string]interface{}{
			"suggestion_id": suggestionID,
			"cache_hit":     cacheHit,
		}).Error
}

func (r *suggestionRepository) ReleaseUsage(ctx context.Context, usageID string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Delete(&db_models.AIUsage{}, "id = ?", usageID).Error
}

// CountGeneratedSince counts cache misses charged to the account since the
// given unix second.
func (r *suggestionRepository) CountGeneratedSince(ctx context.Context, accountID string, since int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.AIUsage{}).
		Where("account_id = ? AND cache_hit = ? AND created_at >= ?", accountID, false, since).
		Count(&count).Error
	return count, err
}

func (r *suggestionRepository) PurgeExpired(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at <= ?", now).
		Delete(&db_models.AISuggestion{})
	return res.RowsAffected, res.Error
}

func (r *suggestionRepository) PurgeAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&db_models.AISuggestion{})
	return res.RowsAffected, res.Error
}

func (r *suggestionRepository) Stats(ctx context.Context, now int64) (*SuggestionCacheStats, error) {
	var stats SuggestionCacheStats
	err := r.db.WithContext(ctx).
		Model(&db_models.AISuggestion{}).
		Select("COUNT(*) AS entries, "+
			"COUNT(*) FILTER (WHERE expires_at > ?) AS live, "+
			"COALESCE(SUM(hit_count), 0) AS total_hits", now).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	var usage struct {
		Requests  int64
		CacheHits int64
	}
	err = r.db.WithContext(ctx).
		Model(&db_models.AIUsage{}).
		Select("COUNT(*) AS requests, COUNT(*) FILTER (WHERE cache_hit) AS cache_hits").
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	stats.Requests = usage.Requests
	stats.CacheHits = usage.CacheHits
	return &stats, nil
}
