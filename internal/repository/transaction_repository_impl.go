package repository

import (
	"errors"
	"time"

	"divineconnect/internal/domain/entity"
	domainRepo "divineconnect/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct{}

func NewTransactionRepository() domainRepo.TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(db *gorm.DB, txn *entity.Transaction) error {
	return db.Create(txn).Error
}

func (r *transactionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := db.Where("id = ?", id).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindPaymentByBookingID(db *gorm.DB, bookingID uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := db.Where("booking_id = ? AND transaction_type = ?", bookingID, entity.TransactionTypePayment).
		Order("created_at ASC").
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindPaymentByProviderPaymentID(db *gorm.DB, paymentID string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := db.Where("provider_payment_id = ? AND transaction_type = ?", paymentID, entity.TransactionTypePayment).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindPaymentByProviderOrderID(db *gorm.DB, orderID string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := db.Where("provider_order_id = ? AND transaction_type = ?", orderID, entity.TransactionTypePayment).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *transactionRepository) MarkCapturedByPaymentID(db *gorm.DB, paymentID string, payload entity.JSON) (int64, error) {
	result := db.Model(&entity.Transaction{}).
		Where("provider_payment_id = ? AND transaction_type = ?", paymentID, entity.TransactionTypePayment).
		Where("status IN ?", []entity.TransactionStatus{entity.TransactionStatusPending, entity.TransactionStatusProcessing}).
		Updates(map[string]interface{}{
			"status":           entity.TransactionStatusCompleted,
			"processed_at":     time.Now(),
			"gateway_response": payload,
		})
	return result.RowsAffected, result.Error
}

func (r *transactionRepository) MarkCapturedByOrderID(db *gorm.DB, orderID, paymentID string, payload entity.JSON) (int64, error) {
	result := db.Model(&entity.Transaction{}).
		Where("provider_order_id = ? AND transaction_type = ?", orderID, entity.TransactionTypePayment).
		Where("status IN ?", []entity.TransactionStatus{entity.TransactionStatusPending, entity.TransactionStatusProcessing}).
		Updates(map[string]interface{}{
			"status":              entity.TransactionStatusCompleted,
			"provider_payment_id": paymentID,
			"processed_at":        time.Now(),
			"gateway_response":    payload,
		})
	return result.RowsAffected, result.Error
}

func (r *transactionRepository) MarkFailedByPaymentID(db *gorm.DB, paymentID, reason string, payload entity.JSON) (int64, error) {
	result := db.Model(&entity.Transaction{}).
		Where("provider_payment_id = ? AND transaction_type = ?", paymentID, entity.TransactionTypePayment).
		Where("status IN ?", []entity.TransactionStatus{entity.TransactionStatusPending, entity.TransactionStatusProcessing}).
		Updates(map[string]interface{}{
			"status":           entity.TransactionStatusFailed,
			"failure_reason":   reason,
			"gateway_response": payload,
		})
	return result.RowsAffected, result.Error
}

func (r *transactionRepository) MarkFailedByOrderID(db *gorm.DB, orderID, paymentID, reason string, payload entity.JSON) (int64, error) {
	result := db.Model(&entity.Transaction{}).
		Where("provider_order_id = ? AND transaction_type = ?", orderID, entity.TransactionTypePayment).
		Where("status IN ?", []entity.TransactionStatus{entity.TransactionStatusPending, entity.TransactionStatusProcessing}).
		Updates(map[string]interface{}{
			"status":              entity.TransactionStatusFailed,
			"provider_payment_id": paymentID,
			"failure_reason":      reason,
			"gateway_response":    payload,
		})
	return result.RowsAffected, result.Error
}

func (r *transactionRepository) SumCompletedPayments(db *gorm.DB, bookingID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&entity.Transaction{}).
		Select("SUM(amount)").
		Where("booking_id = ? AND transaction_type = ?", bookingID, entity.TransactionTypePayment).
		Where("status IN ?", []entity.TransactionStatus{entity.TransactionStatusCompleted, entity.TransactionStatusRefunded}).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *transactionRepository) SumNetEarnings(db *gorm.DB, poojariID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&entity.Transaction{}).
		Select("SUM(transactions.net_amount)").
		Joins("JOIN bookings ON bookings.id = transactions.booking_id").
		Where("bookings.poojari_id = ? AND bookings.status = ?", poojariID, entity.BookingStatusCompleted).
		Where("transactions.status = ? AND transactions.transaction_type = ?",
			entity.TransactionStatusCompleted, entity.TransactionTypePayment).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
