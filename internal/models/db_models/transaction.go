package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending  TransactionStatus = "pending"
	TxnStatusPaid     TransactionStatus = "paid"
	TxnStatusFailed   TransactionStatus = "failed"
	TxnStatusRefunded TransactionStatus = "refunded"
)

type Transaction struct {
	BaseModel
	AccountID      uuid.UUID         `gorm:"type:uuid;index"`
	PlanID         uuid.UUID         `gorm:"type:uuid;index"`
	SubscriptionID *uuid.UUID        `gorm:"type:uuid;index"` // set once paid
	Reference      string            `gorm:"uniqueIndex;size:16"`
	AmountMinor    int64             // e.g., 49000 = 49.000 VND
	Currency       string            `gorm:"size:3"` // ISO 4217 (e.g., "USD","VND")
	Status         TransactionStatus `gorm:"type:varchar(16);index"`

	Provider string `gorm:"index"` // "manual"

	PaidAt     *int64
	FailedAt   *int64
	RefundedAt *int64

	// Confirmation notes, failure reasons, etc.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account      Account       `gorm:"foreignKey:AccountID"`
	Plan         Plan          `gorm:"foreignKey:PlanID"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}
