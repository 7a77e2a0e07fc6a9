package models

import "time"

type Coupon struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string    `gorm:"uniqueIndex;not null" json:"code"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"` // "percentage" ou "fixed"
	Value          float64   `gorm:"not null" json:"value"`
	MinAmount      float64   `json:"min_amount"`
	MaxAmount      *float64  `json:"max_amount,omitempty"` // plafond de réduction (percentage)
	MaxUses        int       `json:"max_uses"`             // 0 = illimité
	UsedCount      int       `json:"used_count"`
	MaxUsesPerUser int       `json:"max_uses_per_user"` // 0 = illimité
	StartsAt       time.Time `json:"starts_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CouponUsage : une ligne par rachat. UserID reste nil pour un invité,
// la limite par utilisateur ne s'applique qu'aux comptes.
type CouponUsage struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CouponID string    `gorm:"type:uuid;index;not null" json:"coupon_id"`
	UserID   *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrderID  string    `gorm:"type:uuid;not null" json:"order_id"`
	UsedAt   time.Time `gorm:"autoCreateTime" json:"used_at"`
}

type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Discount     float64 `json:"discount"`
	Type         string  `json:"type"`
	Code         string  `json:"code"`
}
