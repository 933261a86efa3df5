package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	// BookingStatusRefunded is set by the refund flow only, never through a
	// status-update request.
	BookingStatusRefunded BookingStatus = "refunded"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CancelledBy identifies which party cancelled a booking
type CancelledBy string

const (
	CancelledByDevotee CancelledBy = "devotee"
	CancelledByPoojari CancelledBy = "poojari"
	CancelledByAdmin   CancelledBy = "admin"
)

// MaterialsProvidedBy values
const (
	MaterialsByDevotee = "devotee"
	MaterialsByPoojari = "poojari"
	MaterialsByBoth    = "both"
)

// bookingTransitions is the status machine for user-driven updates.
// completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// ActiveBookingStatuses are the statuses that occupy a (poojari, date, time)
// slot for conflict detection.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// Booking represents a scheduled service engagement between a devotee and a
// poojari.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PoojariID uuid.UUID `gorm:"type:uuid;not null;index" json:"poojari_id"`

	ServiceType        string          `gorm:"type:varchar(100);not null" json:"service_type"`
	ServiceDescription string          `gorm:"type:text" json:"service_description,omitempty"`
	ScheduledDate      time.Time       `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime      string          `gorm:"type:time;not null" json:"scheduled_time"`
	DurationHours      float64         `gorm:"type:decimal(3,1);not null;default:1.0" json:"duration_hours"`
	Status             BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Amount             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentStatus      PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`

	Address             string     `gorm:"type:text;not null" json:"address"`
	City                string     `gorm:"type:varchar(100);not null;index:idx_bookings_city_state" json:"city"`
	State               string     `gorm:"type:varchar(100);not null;index:idx_bookings_city_state" json:"state"`
	Pincode             string     `gorm:"type:varchar(10);not null" json:"pincode"`
	Latitude            *float64   `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude           *float64   `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	SpecialRequirements string     `gorm:"type:text" json:"special_requirements,omitempty"`
	MaterialsRequired   StringList `gorm:"type:jsonb" json:"materials_required"`
	MaterialsProvidedBy string     `gorm:"type:varchar(10);not null;default:'devotee'" json:"materials_provided_by"`
	ContactPhone        string     `gorm:"type:varchar(20);not null" json:"contact_phone"`
	AlternatePhone      *string    `gorm:"type:varchar(20)" json:"alternate_phone,omitempty"`

	BookingNotes       string       `gorm:"type:text" json:"booking_notes,omitempty"`
	PoojariNotes       string       `gorm:"type:text" json:"poojari_notes,omitempty"`
	CancellationReason string       `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *CancelledBy `gorm:"type:varchar(10)" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time   `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time   `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
	ReminderSent       bool         `gorm:"not null;default:false" json:"reminder_sent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Poojari      *User         `gorm:"foreignKey:PoojariID" json:"poojari,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:BookingID" json:"transactions,omitempty"`
	Review       *Review       `gorm:"foreignKey:BookingID" json:"review,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// CanTransitionTo reports whether a status-update request from the current
// status to next is allowed.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether the booking reached a terminal status.
func (b *Booking) IsFinal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// BelongsTo checks if the given user is a party to this booking
func (b *Booking) BelongsTo(userID uuid.UUID) bool {
	return b.UserID == userID || b.PoojariID == userID
}
