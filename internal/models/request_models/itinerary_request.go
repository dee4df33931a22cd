package request_models

// Dates are "YYYY-MM-DD" and clocks "HH:MM", both in Asia/Ho_Chi_Minh.

type CreateItineraryRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateItineraryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type AddActivityRequest struct {
	DayID         string  `json:"day_id" binding:"required,uuid"`
	PlaceID       string  `json:"place_id" binding:"required,uuid"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       *string `json:"end_time"`
	Note          string  `json:"note"`
	EstimatedCost int64   `json:"estimated_cost" binding:"min=0"`
}

type UpdateActivityRequest struct {
	PlaceID       *string `json:"place_id" binding:"omitempty,uuid"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Note          *string `json:"note"`
	EstimatedCost *int64  `json:"estimated_cost" binding:"omitempty,min=0"`
}

type SaveSuggestionRequest struct {
	Title     string `json:"title" binding:"max=200"`
	StartDate string `json:"start_date" binding:"required"`
}
