package db_models

import (
	"gorm.io/datatypes"
)

// UnlimitedQuota disables the daily AI suggestion limit of a plan.
const UnlimitedQuota = -1

type Plan struct {
	BaseModel
	Code            string `gorm:"uniqueIndex"` // e.g., "free", "plus_monthly", "pro_yearly"
	Name            string
	Description     *string
	BackgroundImage string
	Period          BillingPeriod `gorm:"type:varchar(8)"` // "month" | "year"
	PriceMinor      int64         // 49000 = 49.000 VND
	Currency        string        `gorm:"size:3"` // "VND", "USD"
	TrialDays       int32         `gorm:"default:0"`
	AIDailyQuota    int           `gorm:"default:3"`
	IsActive        bool          `gorm:"default:true"`
	// Optional: feature flags shown on the pricing page.
	Features datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
