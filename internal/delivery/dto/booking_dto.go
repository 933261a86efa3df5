package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBookingRequest struct {
	PoojariID          uuid.UUID `json:"poojari_id" validate:"required"`
	ServiceType        string    `json:"service_type" validate:"required,max=100"`
	ServiceDescription string    `json:"service_description" validate:"max=2000"`
	ScheduledDate      string    `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime      string    `json:"scheduled_time" validate:"required,datetime=15:04"`
	DurationHours      float64   `json:"duration_hours" validate:"omitempty,gt=0,lte=24"`
	Amount             string    `json:"amount" validate:"required"`

	Address             string   `json:"address" validate:"required"`
	City                string   `json:"city" validate:"required,max=100"`
	State               string   `json:"state" validate:"required,max=100"`
	Pincode             string   `json:"pincode" validate:"required,len=6,numeric"`
	Latitude            *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude           *float64 `json:"longitude" validate:"omitempty,longitude"`
	SpecialRequirements string   `json:"special_requirements" validate:"max=2000"`
	MaterialsRequired   []string `json:"materials_required" validate:"max=50,dive,max=100"`
	MaterialsProvidedBy string   `json:"materials_provided_by" validate:"omitempty,oneof=devotee poojari both"`
	ContactPhone        string   `json:"contact_phone" validate:"required,max=20"`
	AlternatePhone      *string  `json:"alternate_phone" validate:"omitempty,max=20"`
	BookingNotes        string   `json:"booking_notes" validate:"max=2000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type ListBookingsRequest struct {
	Status string `json:"-" validate:"omitempty,oneof=pending confirmed in_progress completed cancelled refunded"`
	Page   int    `json:"-" validate:"omitempty,min=1"`
	Limit  int    `json:"-" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type BookingResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	PoojariID     uuid.UUID       `json:"poojari_id"`
	ServiceType   string          `json:"service_type"`
	ScheduledDate string          `json:"scheduled_date"`
	ScheduledTime string          `json:"scheduled_time"`
	DurationHours float64         `json:"duration_hours"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus string          `json:"payment_status"`

	Address             string   `json:"address"`
	City                string   `json:"city"`
	State               string   `json:"state"`
	Pincode             string   `json:"pincode"`
	MaterialsRequired   []string `json:"materials_required,omitempty"`
	MaterialsProvidedBy string   `json:"materials_provided_by"`
	ContactPhone        string   `json:"contact_phone"`

	BookingNotes       string     `json:"booking_notes,omitempty"`
	PoojariNotes       string     `json:"poojari_notes,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	Poojari      *PartyResponse        `json:"poojari,omitempty"`
	User         *PartyResponse        `json:"user,omitempty"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
	Review       *ReviewResponse       `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyResponse is the trimmed user view embedded in bookings and reviews.
type PartyResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Role    string    `json:"role"`
	Rating  *float64  `json:"rating,omitempty"`
	Reviews *int      `json:"total_reviews,omitempty"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type DashboardStatsResponse struct {
	TotalBookings    int64             `json:"total_bookings"`
	CountsByStatus   map[string]int64  `json:"counts_by_status"`
	UpcomingBookings []BookingResponse `json:"upcoming_bookings"`
	TotalEarnings    decimal.Decimal   `json:"total_earnings"`
}
