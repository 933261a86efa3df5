package repository

import (
	"errors"

	"divineconnect/internal/domain/entity"
	domainRepo "divineconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type poojariProfileRepository struct{}

func NewPoojariProfileRepository() domainRepo.PoojariProfileRepository {
	return &poojariProfileRepository{}
}

func (r *poojariProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error) {
	var profile entity.PoojariProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *poojariProfileRepository) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error) {
	var profile entity.PoojariProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *poojariProfileRepository) UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64, totalReviews int) error {
	return db.Model(&entity.PoojariProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": totalReviews,
		}).Error
}

func (r *poojariProfileRepository) IncrementTotalBookings(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&entity.PoojariProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_bookings", gorm.Expr("total_bookings + 1")).Error
}
