package repository

import (
	"errors"
	"time"

	"divineconnect/internal/domain/entity"
	domainRepo "divineconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithDetails(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Poojari.PoojariProfile").
		Preload("User").
		Preload("Transactions").
		Preload("Review").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByParty(db *gorm.DB, userID uuid.UUID, filter domainRepo.BookingFilter) ([]entity.Booking, int64, error) {
	query := db.Model(&entity.Booking{}).
		Where("user_id = ? OR poojari_id = ?", userID, userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []entity.Booking
	err := query.Preload("Poojari.PoojariProfile").
		Preload("User").
		Order("scheduled_date DESC, scheduled_time DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) HasSlotConflict(db *gorm.DB, poojariID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	var count int64
	err := db.Model(&entity.Booking{}).
		Where("poojari_id = ? AND scheduled_date = ? AND scheduled_time = ?", poojariID, date, timeOfDay).
		Where("status IN ?", entity.ActiveBookingStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.Booking{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *bookingRepository) CountByStatus(db *gorm.DB, poojariID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	type statusCount struct {
		Status entity.BookingStatus
		Count  int64
	}
	var rows []statusCount
	err := db.Model(&entity.Booking{}).
		Select("status, COUNT(*) as count").
		Where("poojari_id = ?", poojariID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *bookingRepository) FindUpcoming(db *gorm.DB, poojariID uuid.UUID, from time.Time, limit int) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("User").
		Where("poojari_id = ?", poojariID).
		Where("status IN ?", []entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusInProgress}).
		Where("scheduled_date >= ?", from).
		Order("scheduled_date ASC, scheduled_time ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
