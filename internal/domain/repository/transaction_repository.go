package repository

import (
	"divineconnect/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(db *gorm.DB, txn *entity.Transaction) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error)
	// FindPaymentByBookingID returns the charge-side transaction row for a
	// booking (refunds are separate rows).
	FindPaymentByBookingID(db *gorm.DB, bookingID uuid.UUID) (*entity.Transaction, error)
	// FindPaymentByProviderPaymentID matches a charge row by gateway payment id.
	FindPaymentByProviderPaymentID(db *gorm.DB, paymentID string) (*entity.Transaction, error)
	// FindPaymentByProviderOrderID matches a charge row by gateway order id.
	FindPaymentByProviderOrderID(db *gorm.DB, orderID string) (*entity.Transaction, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// MarkCapturedByPaymentID completes the transaction carrying the gateway
	// payment id. The update is a conditional set keyed on the payment id, so
	// webhook redelivery is a no-op. Returns affected rows.
	MarkCapturedByPaymentID(db *gorm.DB, paymentID string, payload entity.JSON) (int64, error)
	// MarkCapturedByOrderID is the fallback match for captures that arrive
	// before VerifyPayment recorded the payment id.
	MarkCapturedByOrderID(db *gorm.DB, orderID, paymentID string, payload entity.JSON) (int64, error)
	MarkFailedByPaymentID(db *gorm.DB, paymentID, reason string, payload entity.JSON) (int64, error)
	MarkFailedByOrderID(db *gorm.DB, orderID, paymentID, reason string, payload entity.JSON) (int64, error)
	// SumCompletedPayments totals settled charge transactions for a booking,
	// the ceiling for any refund.
	SumCompletedPayments(db *gorm.DB, bookingID uuid.UUID) (decimal.Decimal, error)
	// SumNetEarnings totals net_amount over completed payment transactions of
	// completed bookings for a poojari.
	SumNetEarnings(db *gorm.DB, poojariID uuid.UUID) (decimal.Decimal, error)
}
