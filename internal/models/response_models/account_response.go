package response_models

import "time"

type AccountLoginResponse struct {
	Token             string    `json:"token"`
	ExpiresAt         time.Time `json:"expires_at"`
	Role              string    `json:"role"`
	IsUserHavePremium bool      `json:"is_user_have_premium"`
}

type AccountResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Email        string                      `json:"email"`
	Role         string                      `json:"role"`
	Status       string                      `json:"status"`
	Avatar       string                      `json:"avatar,omitempty"`
	CreatedAt    string                      `json:"created_at"`
	Subscription *SubscriptionStatusResponse `json:"subscription,omitempty"`
}
