package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusTrialing SubscriptionStatus = "trialing"
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusExpired  SubscriptionStatus = "expired"
)

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

type Subscription struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index"`
	PlanID    uuid.UUID `gorm:"type:uuid;index"`

	Status     SubscriptionStatus `gorm:"type:varchar(16);index"`
	StartsAt   int64              `gorm:"not null"`
	EndsAt     int64              `gorm:"not null;index"`
	CanceledAt *int64
	AutoRenew  bool `gorm:"default:true"`

	Provider string `gorm:"index"` // "manual" until a gateway is wired

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:AccountID"`
	Plan    Plan    `gorm:"foreignKey:PlanID"`
}

// Entitled reports whether the subscription still grants plan benefits at now.
// Canceled subscriptions keep access until EndsAt.
func (s *Subscription) Entitled(now int64) bool {
	switch s.Status {
	case SubStatusActive, SubStatusTrialing, SubStatusCanceled:
		return s.EndsAt > now
	}
	return false
}
