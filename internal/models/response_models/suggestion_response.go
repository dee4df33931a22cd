package response_models

import "time"

// SuggestionPlan is both the generated document stored in the cache row and
// the payload returned to clients.
type SuggestionPlan struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Days    []SuggestionDay `json:"days"`
}

type SuggestionDay struct {
	Day        int                  `json:"day"`
	Theme      string               `json:"theme,omitempty"`
	Activities []SuggestionActivity `json:"activities"`
}

type SuggestionActivity struct {
	PlaceID       string `json:"place_id"`
	PlaceName     string `json:"place_name"`
	StartTime     string `json:"start_time"` // "HH:MM"
	EndTime       string `json:"end_time"`
	Note          string `json:"note,omitempty"`
	EstimatedCost int64  `json:"estimated_cost"`
}

type SuggestionResponse struct {
	ID        string         `json:"id"`
	CacheKey  string         `json:"cache_key"`
	Cached    bool           `json:"cached"`
	Model     string         `json:"model"`
	HitCount  int64          `json:"hit_count"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	Params    any            `json:"params"`
	Plan      SuggestionPlan `json:"plan"`
}

type QuotaResponse struct {
	Used      int64     `json:"used"`
	Limit     int       `json:"limit"` // -1 = unlimited
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

type CacheStatsResponse struct {
	Entries   int64   `json:"entries"`
	Live      int64   `json:"live"`
	Expired   int64   `json:"expired"`
	TotalHits int64   `json:"total_hits"`
	HitRatio  float64 `json:"hit_ratio"`
}
