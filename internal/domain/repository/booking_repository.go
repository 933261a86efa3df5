package repository

import (
	"time"

	"divineconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingFilter narrows booking listings
type BookingFilter struct {
	Status *entity.BookingStatus
	Limit  int
	Offset int
}

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByIDWithDetails(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	// FindByParty lists bookings where the user is either the devotee or the
	// poojari, newest schedule first.
	FindByParty(db *gorm.DB, userID uuid.UUID, filter BookingFilter) ([]entity.Booking, int64, error)
	// HasSlotConflict reports whether an active booking already occupies the
	// (poojari, date, time) slot. Callers must hold the provider's profile
	// row lock so the check-then-insert cannot race.
	HasSlotConflict(db *gorm.DB, poojariID uuid.UUID, date time.Time, timeOfDay string) (bool, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	CountByStatus(db *gorm.DB, poojariID uuid.UUID) (map[entity.BookingStatus]int64, error)
	FindUpcoming(db *gorm.DB, poojariID uuid.UUID, from time.Time, limit int) ([]entity.Booking, error)
}
