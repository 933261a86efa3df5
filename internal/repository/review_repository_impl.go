package repository

import (
	"errors"

	"divineconnect/internal/domain/entity"
	domainRepo "divineconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Create(review).Error
}

func (r *reviewRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := db.Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndBooking(db *gorm.DB, userID, bookingID uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := db.Where("user_id = ? AND booking_id = ?", userID, bookingID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByPoojariID(db *gorm.DB, poojariID uuid.UUID, limit, offset int) ([]entity.Review, int64, error) {
	query := db.Model(&entity.Review{}).Where("poojari_id = ?", poojariID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.Review{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *reviewRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Review{}).Error
}
