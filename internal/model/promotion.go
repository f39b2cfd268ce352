package model

import "time"

// DiscountType is the way a promotion reduces an order subtotal.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// Promotion represents a promotion code.
type Promotion struct {
	Code          string       `json:"code" db:"code"`
	Description   string       `json:"description" db:"description"`
	DiscountType  DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue float64      `json:"discountValue" db:"discount_value"`
	MinAmount     *int64       `json:"minAmount,omitempty" db:"min_amount"`
	MaxUses       *int         `json:"maxUses,omitempty" db:"max_uses"`
	UsedCount     int          `json:"usedCount" db:"used_count"`
	Active        bool         `json:"active" db:"active"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// ValidatePromotionRequest is the payload for checking a code against a cart.
type ValidatePromotionRequest struct {
	Code        string `json:"code"`
	OrderAmount int64  `json:"orderAmount"`
}
