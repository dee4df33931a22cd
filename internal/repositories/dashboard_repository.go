package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "angido/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountTotalPlaces(ctx context.Context) (int64, error)
	CountTotalReviews(ctx context.Context) (int64, error)
	CountNewReviews(ctx context.Context, start, end time.Time) (int64, error)
	CountTotalItineraries(ctx context.Context) (int64, error)
	CountTotalActivities(ctx context.Context) (int64, error)
	CountAICacheEntries(ctx context.Context) (int64, error)
	CountAIRequests(ctx context.Context, start, end time.Time) (total int64, cacheHits int64, err error)

	CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error)
	CountCanceledInPeriod(ctx context.Context, start, end time.Time) (int64, error)
	CountSubscribersAt(ctx context.Context, t time.Time) (int64, error)

	// Time series
	RevenueSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	NewSubsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	AIRequestsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)

	// MRR compute helpers
	ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error)

	// Plan mix (active subs)
	PlanMix(ctx context.Context) ([]PlanMixRow, error)

	// Leaderboards
	TopPlaces(ctx context.Context, start, end time.Time, limit int) ([]TopPlaceRow, error)
	TopProvinces(ctx context.Context, start, end time.Time, limit int) ([]TopProvinceRow, error)

	// Recent payments
	RecentPaidTransactions(ctx context.Context, limit int) ([]RecentPaymentRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type SubWithPlan struct {
	SubID      string `gorm:"column:sub_id"`
	PlanID     string `gorm:"column:plan_id"`
	Period     string `gorm:"column:period"`
	PriceMinor int64  `gorm:"column:price_minor"`
	Status     string `gorm:"column:status"`
}

type PlanMixRow struct {
	PlanID     string `gorm:"column:plan_id"`
	PlanCode   string `gorm:"column:plan_code"`
	PlanName   string `gorm:"column:plan_name"`
	Period     string `gorm:"column:period"`
	PriceMinor int64  `gorm:"column:price_minor"`
	Count      int64  `gorm:"column:count"`
}

type TopPlaceRow struct {
	PlaceID   string  `gorm:"column:place_id"`
	Name      string  `gorm:"column:name"`
	AvgRating float64 `gorm:"column:avg_rating"`
	Count     int64   `gorm:"column:count"`
}

type TopProvinceRow struct {
	ProvinceID string `gorm:"column:province_id"`
	Name       string `gorm:"column:name"`
	Count      int64  `gorm:"column:count"`
}

type RecentPaymentRow struct {
	ID           string     `gorm:"column:id"`
	PaidAt       *time.Time `gorm:"column:paid_at"`
	AmountMinor  int64      `gorm:"column:amount_minor"`
	Currency     string     `gorm:"column:currency"`
	Status       string     `gorm:"column:status"`
	Provider     string     `gorm:"column:provider"`
	Reference    string     `gorm:"column:reference"`
	AccountEmail string     `gorm:"column:email"`
}

// ---------- Helpers ----------

// dateTrunc buckets a column holding UNIX seconds in the given timezone, e.g.
// date_trunc('day', timezone('Asia/Ho_Chi_Minh', to_timestamp(paid_at))).
// Both placeholders (interval, tz) must be bound by the caller.
func dateTrunc(unixColumn string) string {
	return "date_trunc(?, timezone(?, to_timestamp(" + unixColumn + ")))"
}

func (r *dashboardRepository) count(ctx context.Context, model interface{}, where string, args ...interface{}) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *dashboardRepository) series(ctx context.Context, table, column, agg string, start, end time.Time, interval, tz string, scopes ...func(*gorm.DB) *gorm.DB) ([]BucketSum, error) {
	var rows []BucketSum
	tx := r.db.WithContext(ctx).
		Table(table).
		Select(dateTrunc(column)+" AS bucket, "+agg+" AS sum", interval, tz).
		Where(column+" BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Scopes(scopes...).
		Group("bucket").
		Order("bucket ASC")
	err := tx.Find(&rows).Error
	return rows, err
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// ---------- Counts ----------
func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "")
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "created_at BETWEEN ? AND ?", start.Unix(), end.Unix())
}

func (r *dashboardRepository) CountTotalPlaces(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Place{}, "")
}

func (r *dashboardRepository) CountTotalReviews(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Review{}, "")
}

func (r *dashboardRepository) CountNewReviews(ctx context.Context, start, end time.Time) (int64, error) {
	return r.count(ctx, &dbm.Review{}, "created_at BETWEEN ? AND ?", start.Unix(), end.Unix())
}

func (r *dashboardRepository) CountTotalItineraries(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Itinerary{}, "")
}

func (r *dashboardRepository) CountTotalActivities(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.ItineraryActivity{}, "")
}

func (r *dashboardRepository) CountAICacheEntries(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.AISuggestion{}, "expires_at > ?", time.Now().Unix())
}

func (r *dashboardRepository) CountAIRequests(ctx context.Context, start, end time.Time) (int64, int64, error) {
	var row struct {
		Total     int64
		CacheHits int64
	}
	err := r.db.WithContext(ctx).
		Model(&dbm.AIUsage{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE cache_hit) AS cache_hits").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Scan(&row).Error
	return row.Total, row.CacheHits, err
}

func (r *dashboardRepository) CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCanceledInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("status = ?", dbm.SubStatusCanceled).
		Where("canceled_at IS NOT NULL AND canceled_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountSubscribersAt(ctx context.Context, t time.Time) (int64, error) {
	// Subscribers active at time t: StartsAt <= t && EndsAt >= t (or status in active-like)
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("starts_at <= ? AND ends_at >= ?", t.Unix(), t.Unix()).
		Count(&n).Error
	return n, err
}

// ---------- Series ----------
func (r *dashboardRepository) RevenueSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "transactions", "paid_at", "SUM(amount_minor)", start, end, interval, tz,
		func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", dbm.TxnStatusPaid).Where("paid_at IS NOT NULL")
		})
}

func (r *dashboardRepository) NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "accounts", "created_at", "COUNT(*)", start, end, interval, tz, notDeleted)
}

func (r *dashboardRepository) NewSubsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "subscriptions", "starts_at", "COUNT(*)", start, end, interval, tz, notDeleted)
}

func (r *dashboardRepository) AIRequestsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "ai_usages", "created_at", "COUNT(*)", start, end, interval, tz, notDeleted)
}

// ---------- MRR helpers ----------
func (r *dashboardRepository) ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error) {
	var rows []SubWithPlan
	// Active = now within window AND status in ('active','trialing','past_due')
	now := time.Now().Unix()
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select("s.id AS sub_id, s.plan_id, p.period, p.price_minor, s.status").
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.starts_at <= ? AND s.ends_at >= ?", now, now).
		Where("s.status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusTrialing, dbm.SubStatusPastDue}).
		Find(&rows).Error
	return rows, err
}

// ---------- Plan mix ----------
func (r *dashboardRepository) PlanMix(ctx context.Context) ([]PlanMixRow, error) {
	var rows []PlanMixRow
	now := time.Now().Unix()
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select(`
			s.plan_id,
			p.code AS plan_code,
			p.name AS plan_name,
			p.period AS period,
			p.price_minor AS price_minor,
			COUNT(*) AS count`).
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.starts_at <= ? AND s.ends_at >= ?", now, now).
		Where("s.status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusTrialing, dbm.SubStatusPastDue}).
		Group("s.plan_id, p.code, p.name, p.period, p.price_minor").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

// ---------- Leaderboards ----------

// TopPlaces ranks places by reviews written in the range.
func (r *dashboardRepository) TopPlaces(ctx context.Context, start, end time.Time, limit int) ([]TopPlaceRow, error) {
	var rows []TopPlaceRow
	err := r.db.WithContext(ctx).
		Table("reviews rv").
		Select("p.id AS place_id, p.name, p.avg_rating, COUNT(*) AS count").
		Joins("JOIN places p ON p.id = rv.place_id AND p.deleted_at IS NULL").
		Where("rv.deleted_at IS NULL").
		Where("rv.created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("p.id, p.name, p.avg_rating").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// TopProvinces ranks provinces by itinerary activities created in the range.
func (r *dashboardRepository) TopProvinces(ctx context.Context, start, end time.Time, limit int) ([]TopProvinceRow, error) {
	var rows []TopProvinceRow
	err := r.db.WithContext(ctx).
		Table("itinerary_activities ia").
		Select("pr.id AS province_id, pr.name, COUNT(*) AS count").
		Joins("JOIN places p ON p.id = ia.place_id").
		Joins("JOIN provinces pr ON pr.id = p.province_id").
		Where("ia.deleted_at IS NULL").
		Where("ia.created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("pr.id, pr.name").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ---------- Recent payments ----------
func (r *dashboardRepository) RecentPaidTransactions(ctx context.Context, limit int) ([]RecentPaymentRow, error) {
	var rows []RecentPaymentRow
	// Join accounts for email
	err := r.db.WithContext(ctx).
		Table("transactions t").
		Select(`
			t.id,
			to_timestamp(t.paid_at) AT TIME ZONE 'UTC' AS paid_at,
			t.amount_minor,
			t.currency,
			t.status,
			t.provider,
			t.reference,
			a.email`).
		Joins("LEFT JOIN accounts a ON a.id = t.account_id").
		Where("t.status = ?", dbm.TxnStatusPaid).
		Where("t.paid_at IS NOT NULL").
		Order("t.paid_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
