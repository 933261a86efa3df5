package repository

import (
	"divineconnect/internal/domain/entity"
	domainRepo "divineconnect/internal/domain/repository"

	"gorm.io/gorm"
)

type webhookEventRepository struct{}

func NewWebhookEventRepository() domainRepo.WebhookEventRepository {
	return &webhookEventRepository{}
}

func (r *webhookEventRepository) Create(db *gorm.DB, event *entity.WebhookEvent) error {
	return db.Create(event).Error
}

func (r *webhookEventRepository) FindUnmatchedByPaymentID(db *gorm.DB, paymentID string) ([]entity.WebhookEvent, error) {
	var events []entity.WebhookEvent
	err := db.Where("provider_payment_id = ? AND status = ?", paymentID, entity.WebhookEventUnmatched).
		Order("received_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *webhookEventRepository) MarkProcessed(db *gorm.DB, id int64) error {
	return db.Model(&entity.WebhookEvent{}).
		Where("id = ?", id).
		Update("status", entity.WebhookEventProcessed).Error
}
