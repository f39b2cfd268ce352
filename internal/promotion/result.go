package promotion

import "bookstore/internal/model"

// Reason identifies why a promotion code was rejected.
type Reason string

const (
	ReasonMissingCode       Reason = "missing-code"
	ReasonNotFound          Reason = "not-found"
	ReasonInactive          Reason = "inactive"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage-limit-reached"
	ReasonBelowMinimum      Reason = "below-minimum"
)

// Result is the outcome of evaluating a promotion code against an order.
// When Valid is false only Reason and Message are set.
type Result struct {
	Valid          bool               `json:"valid"`
	Code           string             `json:"code,omitempty"`
	DiscountType   model.DiscountType `json:"discountType,omitempty"`
	DiscountValue  float64            `json:"discountValue"`
	DiscountAmount int64              `json:"discountAmount"`
	Description    string             `json:"description,omitempty"`
	Reason         Reason             `json:"reason,omitempty"`
	Message        string             `json:"message,omitempty"`
}

// Err converts a rejected result into a domain error. It returns nil for a
// valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return model.NewDomainError(model.ErrCodePromotionRejected, r.Message)
}

func rejected(reason Reason, message string) Result {
	return Result{Reason: reason, Message: message}
}
