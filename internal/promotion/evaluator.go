// Package promotion validates promotion codes against an order and computes
// the resulting discount. It also loads promotion seed files.
package promotion

import (
	"strings"
	"time"

	"bookstore/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// EvaluatorConfig holds configuration for the discount evaluator.
type EvaluatorConfig struct {
	// Locale is the BCP 47 tag used to format amounts in messages.
	// Default: "en"
	Locale string

	// Now returns the evaluation time. Default: time.Now
	Now func() time.Time
}

// DefaultEvaluatorConfig returns the default evaluator configuration.
func DefaultEvaluatorConfig() *EvaluatorConfig {
	return &EvaluatorConfig{
		Locale: "en",
		Now:    time.Now,
	}
}

// Evaluator checks a promotion against an order amount. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewEvaluator creates a new discount evaluator. An unknown locale falls back
// to English.
func NewEvaluator(config *EvaluatorConfig) *Evaluator {
	if config == nil {
		config = DefaultEvaluatorConfig()
	}

	tag, err := language.Parse(config.Locale)
	if err != nil {
		tag = language.English
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Evaluator{
		printer: message.NewPrinter(tag),
		now:     now,
	}
}

// NormalizeCode upper-cases and trims a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate validates code against orderAmount using the stored promotion,
// where a nil promo means no promotion matched the code. Checks run in a
// fixed order and the first failure is reported.
func (e *Evaluator) Evaluate(code string, orderAmount int64, promo *model.Promotion) Result {
	if NormalizeCode(code) == "" {
		return rejected(ReasonMissingCode, "Promotion code is required")
	}

	if promo == nil {
		return rejected(ReasonNotFound, "Invalid promotion code")
	}

	if !promo.Active {
		return rejected(ReasonInactive, "Promotion code is no longer active")
	}

	if promo.ExpiresAt != nil && e.now().After(*promo.ExpiresAt) {
		return rejected(ReasonExpired, "Promotion code has expired")
	}

	if promo.MaxUses != nil && promo.UsedCount >= *promo.MaxUses {
		return rejected(ReasonUsageLimitReached, "Promotion code has reached its usage limit")
	}

	if promo.MinAmount != nil && orderAmount < *promo.MinAmount {
		return rejected(ReasonBelowMinimum,
			e.printer.Sprintf("Minimum order amount of %d is required for this code", *promo.MinAmount))
	}

	return Result{
		Valid:          true,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: DiscountAmount(promo.DiscountType, promo.DiscountValue, orderAmount),
		Description:    promo.Description,
	}
}

// DiscountAmount computes the discount for orderAmount. The amount is clamped
// to [0, orderAmount] and rounded half-up to a whole currency unit; rounding
// only happens on the final value. Unknown discount types yield zero.
func DiscountAmount(discountType model.DiscountType, discountValue float64, orderAmount int64) int64 {
	if orderAmount <= 0 {
		return 0
	}

	total := decimal.NewFromInt(orderAmount)
	value := decimal.NewFromFloat(discountValue)

	var amount decimal.Decimal
	switch discountType {
	case model.DiscountTypePercentage:
		amount = total.Mul(value).Div(hundred)
	case model.DiscountTypeFixed:
		amount = value
	default:
		return 0
	}

	if amount.GreaterThan(total) {
		amount = total
	}
	if amount.IsNegative() {
		return 0
	}

	return amount.Round(0).IntPart()
}
