package response_models

import (
	"time"

	"github.com/google/uuid"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
	// IANA timezone used for bucketing (defaults to Asia/Ho_Chi_Minh)
	Timezone string `json:"timezone,omitempty"`
}

type KPIBlock struct {
	TotalAccounts         int64 `json:"total_accounts"`
	NewAccounts           int64 `json:"new_accounts"`
	TotalPlaces           int64 `json:"total_places"`
	TotalReviews          int64 `json:"total_reviews"`
	NewReviews            int64 `json:"new_reviews"`
	TotalItineraries      int64 `json:"total_itineraries"`
	TotalActivities       int64 `json:"total_activities"`
	ActiveSubscriptions   int64 `json:"active_subscriptions"`
	TrialingSubscriptions int64 `json:"trialing_subscriptions"`
	CanceledSubscriptions int64 `json:"canceled_subscriptions"`
	ExpiredSubscriptions  int64 `json:"expired_subscriptions"`

	// Financial KPIs
	MRRMinor  int64   `json:"mrr_minor"`  // monthly recurring revenue (minor units)
	ARRMinor  int64   `json:"arr_minor"`  // ARR = 12 * MRR
	ARPUMinor float64 `json:"arpu_minor"` // avg revenue per active subscriber (minor units)
	ChurnPct  float64 `json:"churn_pct"`  // (canceled during period / subscribers at period start) * 100

	// AI suggestion cache
	AICacheEntries  int64   `json:"ai_cache_entries"`
	AIRequests      int64   `json:"ai_requests"` // in range
	AICacheHitRatio float64 `json:"ai_cache_hit_ratio"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type RevenueSeries struct {
	Currency   string        `json:"currency"`
	Points     []SeriesPoint `json:"points"`
	TotalMinor int64         `json:"total_minor"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
}

type PlanMixItem struct {
	PlanID     uuid.UUID `json:"plan_id"`
	PlanCode   string    `json:"plan_code"`
	PlanName   string    `json:"plan_name"`
	Count      int64     `json:"count"`
	Percent    float64   `json:"percent"`
	Period     string    `json:"period"` // "month" | "year"
	PriceMinor int64     `json:"price_minor"`
}

type PlanMix struct {
	Items []PlanMixItem `json:"items"`
}

type TopPlace struct {
	PlaceID     uuid.UUID `json:"place_id"`
	Name        string    `json:"name"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"` // reviews written in range
}

type TopProvince struct {
	ProvinceID uuid.UUID `json:"province_id"`
	Name       string    `json:"name"`
	Count      int64     `json:"count"` // itinerary activities in range
}

type RecentPayment struct {
	ID           uuid.UUID  `json:"id"`
	PaidAt       *time.Time `json:"paid_at"`
	AmountMinor  int64      `json:"amount_minor"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	Provider     string     `json:"provider"`
	Reference    string     `json:"reference"`
	AccountEmail string     `json:"account_email"`
}

type DashboardReport struct {
	Range          TimeRange       `json:"range"`
	KPIs           KPIBlock        `json:"kpis"`
	Revenue        RevenueSeries   `json:"revenue"`
	NewUsers       CountSeries     `json:"new_users"`
	NewSubs        CountSeries     `json:"new_subscriptions"`
	AIRequests     CountSeries     `json:"ai_requests"`
	PlanMix        PlanMix         `json:"plan_mix"`
	TopPlaces      []TopPlace      `json:"top_places"`
	TopProvinces   []TopProvince   `json:"top_provinces"`
	RecentPayments []RecentPayment `json:"recent_payments"`
}
