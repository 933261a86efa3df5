package entity

import "time"

// WebhookEventStatus tracks how an ingested gateway event was handled
type WebhookEventStatus string

const (
	// WebhookEventProcessed means the event matched a transaction and was applied
	WebhookEventProcessed WebhookEventStatus = "processed"
	// WebhookEventUnmatched means the event matched no transaction; kept for retry
	WebhookEventUnmatched WebhookEventStatus = "unmatched"
	// WebhookEventIgnored means the event type carries no state change
	WebhookEventIgnored WebhookEventStatus = "ignored"
)

// WebhookEvent is the ingestion ledger for asynchronous gateway
// notifications. Events that arrive before their payment id is known are
// parked here as unmatched instead of being dropped.
type WebhookEvent struct {
	ID                int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider          string             `gorm:"type:varchar(20);not null;default:'razorpay'" json:"provider"`
	EventType         string             `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ProviderPaymentID *string            `gorm:"type:varchar(100);index" json:"provider_payment_id,omitempty"`
	ProviderOrderID   *string            `gorm:"type:varchar(100);index" json:"provider_order_id,omitempty"`
	Status            WebhookEventStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Payload           JSON               `gorm:"type:jsonb" json:"payload,omitempty"`
	ReceivedAt        time.Time          `gorm:"autoCreateTime" json:"received_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
