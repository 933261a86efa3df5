package repository

import (
	"divineconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error)
	FindByUserAndBooking(db *gorm.DB, userID, bookingID uuid.UUID) (*entity.Review, error)
	FindByPoojariID(db *gorm.DB, poojariID uuid.UUID, limit, offset int) ([]entity.Review, int64, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
