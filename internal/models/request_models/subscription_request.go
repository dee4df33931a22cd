package request_models

type CheckoutRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

type UpsertPlanRequest struct {
	Code            string   `json:"code" binding:"required,max=64"`
	Name            string   `json:"name" binding:"required"`
	Description     *string  `json:"description"`
	BackgroundImage string   `json:"background_image"`
	Period          string   `json:"period" binding:"required,oneof=month year"`
	PriceMinor      int64    `json:"price_minor" binding:"min=0"`
	Currency        string   `json:"currency" binding:"omitempty,len=3"`
	TrialDays       int32    `json:"trial_days" binding:"min=0"`
	AIDailyQuota    int      `json:"ai_daily_quota" binding:"min=-1"`
	IsActive        *bool    `json:"is_active"`
	Features        []string `json:"features"`
}

type FailTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
