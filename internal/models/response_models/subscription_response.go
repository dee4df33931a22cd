package response_models

import (
	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	ID              uuid.UUID `json:"id"`                    // Unique identifier
	Code            string    `json:"code"`                  // e.g., "free", "plus_monthly", "pro_yearly"
	Name            string    `json:"name"`                  // Plan name
	Description     *string   `json:"description,omitempty"` // Optional description
	BackgroundImage string    `json:"background_image"`      // Background image URL
	Period          string    `json:"period"`                // "month" | "year"
	Price           int64     `json:"price"`                 // Minor units
	Currency        string    `json:"currency"`              // "USD", "VND"
	TrialDays       int32     `json:"trial_days"`            // Number of trial days
	AIDailyQuota    int       `json:"ai_daily_quota"`        // -1 = unlimited
	IsActive        bool      `json:"is_active"`             // Whether the plan is active
	Features        []string  `json:"features,omitempty"`    // List of features
}

type CheckoutResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reference     string    `json:"reference"`
	PlanCode      string    `json:"plan_code"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	ProviderName  string    `json:"provider"`
}

type SubscriptionStatusResponse struct {
	AccountID    uuid.UUID `json:"account_id"`
	PlanCode     string    `json:"plan_code"`
	PlanName     string    `json:"plan_name"`
	Status       string    `json:"status"`
	StartsAt     int64     `json:"starts_at"`
	EndsAt       int64     `json:"ends_at"`
	AutoRenew    bool      `json:"auto_renew"`
	AIDailyQuota int       `json:"ai_daily_quota"`
}

type TransactionResponse struct {
	ID           uuid.UUID `json:"id"`
	Reference    string    `json:"reference"`
	AccountID    uuid.UUID `json:"account_id"`
	AccountEmail string    `json:"account_email,omitempty"`
	PlanCode     string    `json:"plan_code,omitempty"`
	AmountMinor  int64     `json:"amount_minor"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	Provider     string    `json:"provider"`
	CreatedAt    int64     `json:"created_at"`
	PaidAt       *int64    `json:"paid_at,omitempty"`
}
