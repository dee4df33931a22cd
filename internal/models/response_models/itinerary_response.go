package response_models

type ItinerarySummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
	Source       string `json:"source"`
	IsPublic     bool   `json:"is_public"`
	CreatedAt    string `json:"created_at"`
}

// Top-level payload returned to FE
type ItineraryDetailResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	StartDate    string  `json:"start_date"` // YYYY-MM-DD
	EndDate      string  `json:"end_date"`
	DurationDays int     `json:"duration_days"` // inclusive
	Source       string  `json:"source"`
	SuggestionID *string `json:"suggestion_id,omitempty"`
	IsPublic     bool    `json:"is_public"`

	// Quick stats
	TotalDays          int   `json:"total_days"`
	TotalActivities    int   `json:"total_activities"`
	TotalEstimatedCost int64 `json:"total_estimated_cost"`

	Days []ItineraryDayResponse `json:"days"`
}

type ItineraryDayResponse struct {
	ID         string                      `json:"id"`
	DayNumber  int                         `json:"day_number"`
	Date       string                      `json:"date"`
	Activities []ItineraryActivityResponse `json:"activities"`
}

type ItineraryActivityResponse struct {
	ID            string        `json:"id"`
	StartTime     string        `json:"start_time"` // RFC3339
	EndTime       string        `json:"end_time,omitempty"`
	Note          string        `json:"note,omitempty"`
	EstimatedCost int64         `json:"estimated_cost"`
	Place         *PlaceSummary `json:"place,omitempty"`
}
