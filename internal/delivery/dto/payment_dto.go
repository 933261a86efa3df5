package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateOrderRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
}

type VerifyPaymentRequest struct {
	BookingID         uuid.UUID `json:"booking_id" validate:"required"`
	RazorpayOrderID   string    `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string    `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string    `json:"razorpay_signature" validate:"required"`
}

type RefundRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Amount    *string   `json:"amount" validate:"omitempty"`
	Reason    string    `json:"reason" validate:"max=2000"`
}

// Response DTOs

type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

type TransactionResponse struct {
	ID                uuid.UUID        `json:"id"`
	BookingID         uuid.UUID        `json:"booking_id"`
	Amount            decimal.Decimal  `json:"amount"`
	Currency          string           `json:"currency"`
	Provider          string           `json:"provider"`
	ProviderOrderID   *string          `json:"provider_order_id,omitempty"`
	ProviderPaymentID *string          `json:"provider_payment_id,omitempty"`
	Status            string           `json:"status"`
	TransactionType   string           `json:"transaction_type"`
	FailureReason     *string          `json:"failure_reason,omitempty"`
	RefundAmount      *decimal.Decimal `json:"refund_amount,omitempty"`
	ProcessedAt       *time.Time       `json:"processed_at,omitempty"`
	RefundedAt        *time.Time       `json:"refunded_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type RefundResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	RefundID    string              `json:"refund_id"`
}
