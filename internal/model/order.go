package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethodCOD is pay-on-delivery, the only supported payment method.
const PaymentMethodCOD = "cod"

// Order represents a customer order.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CustomerName    string    `json:"customerName" db:"customer_name"`
	CustomerEmail   string    `json:"customerEmail,omitempty" db:"customer_email"`
	CustomerPhone   string    `json:"customerPhone" db:"customer_phone"`
	ShippingAddress string    `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	PromotionCode   *string   `json:"promotionCode,omitempty" db:"promotion_code"`
	Subtotal        int64     `json:"subtotal" db:"subtotal"`
	DiscountAmount  int64     `json:"discountAmount" db:"discount_amount"`
	Total           int64     `json:"total" db:"total"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	BookID    string    `json:"bookId" db:"book_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail,omitempty"`
	CustomerPhone   string             `json:"customerPhone"`
	ShippingAddress string             `json:"shippingAddress"`
	PromotionCode   *string            `json:"promotionCode,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
	Books []Book      `json:"books"`
}
