package service

import (
	"errors"
	"math"

	"divineconnect/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("poojari profile not found")

// RatingService keeps the rating aggregate on poojari profiles in step
// with review mutations. Every method locks the profile row and must be
// called inside the same transaction that writes the review.
type RatingService interface {
	ApplyReviewCreated(tx *gorm.DB, poojariID uuid.UUID, rating int) error
	ApplyReviewUpdated(tx *gorm.DB, poojariID uuid.UUID, oldRating, newRating int) error
	ApplyReviewDeleted(tx *gorm.DB, poojariID uuid.UUID, rating int) error
}

type ratingService struct {
	log         *logrus.Logger
	profileRepo repository.PoojariProfileRepository
}

func NewRatingService(log *logrus.Logger, profileRepo repository.PoojariProfileRepository) RatingService {
	return &ratingService{
		log:         log,
		profileRepo: profileRepo,
	}
}

func (s *ratingService) ApplyReviewCreated(tx *gorm.DB, poojariID uuid.UUID, rating int) error {
	profile, err := s.profileRepo.FindByUserIDForUpdate(tx, poojariID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	newTotal := profile.TotalReviews + 1
	newRating := round2((profile.Rating*float64(profile.TotalReviews) + float64(rating)) / float64(newTotal))

	return s.profileRepo.UpdateRating(tx, poojariID, newRating, newTotal)
}

func (s *ratingService) ApplyReviewUpdated(tx *gorm.DB, poojariID uuid.UUID, oldRating, newRating int) error {
	profile, err := s.profileRepo.FindByUserIDForUpdate(tx, poojariID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	if profile.TotalReviews < 1 {
		s.log.Warnf("Rating update for poojari %s with no recorded reviews", poojariID)
		return nil
	}

	rating := round2((profile.Rating*float64(profile.TotalReviews) - float64(oldRating) + float64(newRating)) / float64(profile.TotalReviews))

	return s.profileRepo.UpdateRating(tx, poojariID, rating, profile.TotalReviews)
}

func (s *ratingService) ApplyReviewDeleted(tx *gorm.DB, poojariID uuid.UUID, rating int) error {
	profile, err := s.profileRepo.FindByUserIDForUpdate(tx, poojariID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	if profile.TotalReviews <= 1 {
		return s.profileRepo.UpdateRating(tx, poojariID, 0, 0)
	}

	newTotal := profile.TotalReviews - 1
	newRating := round2((profile.Rating*float64(profile.TotalReviews) - float64(rating)) / float64(newTotal))

	return s.profileRepo.UpdateRating(tx, poojariID, newRating, newTotal)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
