package repository

import (
	"divineconnect/internal/domain/entity"

	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	Create(db *gorm.DB, event *entity.WebhookEvent) error
	// FindUnmatchedByPaymentID returns parked events waiting for the payment
	// id to be associated with a transaction.
	FindUnmatchedByPaymentID(db *gorm.DB, paymentID string) ([]entity.WebhookEvent, error)
	MarkProcessed(db *gorm.DB, id int64) error
}
