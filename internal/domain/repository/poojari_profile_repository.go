package repository

import (
	"divineconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PoojariProfileRepository interface {
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error)
	// FindByUserIDForUpdate locks the profile row for the duration of the
	// enclosing transaction. Used to serialize slot checks and rating
	// read-modify-write per provider.
	FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error)
	UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64, totalReviews int) error
	IncrementTotalBookings(db *gorm.DB, userID uuid.UUID) error
}
