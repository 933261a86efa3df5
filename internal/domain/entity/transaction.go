package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a monetary movement
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

// TransactionType distinguishes charges from refunds
type TransactionType string

const (
	TransactionTypePayment       TransactionType = "payment"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypePartialRefund TransactionType = "partial_refund"
)

// ProviderRazorpay is the default payment provider name
const ProviderRazorpay = "razorpay"

// Transaction represents one monetary movement (a charge attempt or a refund)
// tied to exactly one booking. A refund is a new row referencing the same
// booking; the original payment row is never rewritten into a refund.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`

	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	Provider string          `gorm:"type:varchar(20);not null;default:'razorpay';index" json:"provider"`

	ProviderTransactionID *string `gorm:"type:varchar(100);index" json:"provider_transaction_id,omitempty"`
	ProviderOrderID       *string `gorm:"type:varchar(100);index" json:"provider_order_id,omitempty"`
	ProviderPaymentID     *string `gorm:"type:varchar(100);index" json:"provider_payment_id,omitempty"`

	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionType TransactionType   `gorm:"type:varchar(20);not null;default:'payment';index" json:"transaction_type"`

	GatewayResponse JSON    `gorm:"type:jsonb" json:"gateway_response,omitempty"`
	FailureReason   *string `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`

	ProcessedAt  *time.Time       `json:"processed_at,omitempty"`
	RefundedAt   *time.Time       `json:"refunded_at,omitempty"`
	RefundAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refund_amount,omitempty"`

	PlatformFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"platform_fee"`
	GatewayFee  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"gateway_fee"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"net_amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsCompleted checks if the transaction settled successfully
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}
