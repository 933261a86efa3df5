package usecase

import (
	"context"
	"errors"

	"divineconnect/internal/converter"
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/delivery/http/middleware"
	"divineconnect/internal/domain/entity"
	"divineconnect/internal/domain/repository"
	"divineconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewNotOwned      = errors.New("review does not belong to you")
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrDuplicateReview     = errors.New("booking has already been reviewed")
)

type ReviewUsecase interface {
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*dto.ReviewResponse, error)
	ListPoojariReviews(ctx context.Context, poojariID uuid.UUID, page, limit int) (*dto.ReviewListResponse, error)
	UpdateReview(ctx context.Context, reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
}

type reviewUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	bookingRepo   repository.BookingRepository
	reviewRepo    repository.ReviewRepository
	ratingService service.RatingService
	auditService  service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	reviewRepo repository.ReviewRepository,
	ratingService service.RatingService,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:            db,
		log:           log,
		bookingRepo:   bookingRepo,
		reviewRepo:    reviewRepo,
		ratingService: ratingService,
		auditService:  auditService,
	}
}

// CreateReview records a review of a completed booking and folds its rating
// into the poojari's aggregate inside the same transaction.
func (u *reviewUsecase) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	var review *entity.Review
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByID(tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.UserID != userID {
			return ErrBookingNotOwned
		}
		if booking.Status != entity.BookingStatusCompleted {
			return ErrBookingNotCompleted
		}

		existing, err := u.reviewRepo.FindByUserAndBooking(tx, userID, req.BookingID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateReview
		}

		wouldRecommend := true
		if req.WouldRecommend != nil {
			wouldRecommend = *req.WouldRecommend
		}

		review = &entity.Review{
			UserID:         userID,
			PoojariID:      booking.PoojariID,
			BookingID:      booking.ID,
			Rating:         req.Rating,
			Comment:        req.Comment,
			ServiceQuality: req.ServiceQuality,
			Punctuality:    req.Punctuality,
			Communication:  req.Communication,
			WouldRecommend: wouldRecommend,
			IsVerified:     booking.PaymentStatus == entity.PaymentStatusPaid,
		}
		if err := u.reviewRepo.Create(tx, review); err != nil {
			return err
		}

		if err := u.ratingService.ApplyReviewCreated(tx, booking.PoojariID, req.Rating); err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionReviewCreate,
			"review", review.ID.String(), map[string]interface{}{
				"booking_id": booking.ID.String(),
				"poojari_id": booking.PoojariID.String(),
				"rating":     req.Rating,
			})
	})
	if err != nil {
		if !isReviewDomainError(err) && !isDomainError(err) {
			u.log.Warnf("Failed to create review for booking %s: %+v", req.BookingID, err)
		}
		return nil, err
	}

	u.log.Infof("Review created: id=%s, booking=%s, rating=%d", review.ID, req.BookingID, req.Rating)
	return converter.ReviewToResponse(review), nil
}

func (u *reviewUsecase) GetReview(ctx context.Context, reviewID uuid.UUID) (*dto.ReviewResponse, error) {
	review, err := u.reviewRepo.FindByID(u.db.WithContext(ctx), reviewID)
	if err != nil {
		u.log.Warnf("Failed to find review %s: %+v", reviewID, err)
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return converter.ReviewToResponse(review), nil
}

// ListPoojariReviews returns a poojari's reviews, newest first. Public.
func (u *reviewUsecase) ListPoojariReviews(ctx context.Context, poojariID uuid.UUID, page, limit int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	reviews, total, err := u.reviewRepo.FindByPoojariID(u.db.WithContext(ctx), poojariID, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to list reviews for poojari %s: %+v", poojariID, err)
		return nil, err
	}

	return &dto.ReviewListResponse{
		Reviews: converter.ReviewsToResponses(reviews),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// UpdateReview patches the caller's review. A rating change recomputes the
// poojari aggregate in the same transaction.
func (u *reviewUsecase) UpdateReview(ctx context.Context, reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	var updated *entity.Review
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := u.reviewRepo.FindByID(tx, reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}
		if review.UserID != userID {
			return ErrReviewNotOwned
		}

		fields := map[string]interface{}{}
		if req.Comment != nil {
			fields["comment"] = *req.Comment
		}
		if req.ServiceQuality != nil {
			fields["service_quality"] = *req.ServiceQuality
		}
		if req.Punctuality != nil {
			fields["punctuality"] = *req.Punctuality
		}
		if req.Communication != nil {
			fields["communication"] = *req.Communication
		}
		if req.WouldRecommend != nil {
			fields["would_recommend"] = *req.WouldRecommend
		}
		if req.Rating != nil && *req.Rating != review.Rating {
			fields["rating"] = *req.Rating
			if err := u.ratingService.ApplyReviewUpdated(tx, review.PoojariID, review.Rating, *req.Rating); err != nil {
				return err
			}
		}

		if len(fields) > 0 {
			if err := u.reviewRepo.UpdateFields(tx, reviewID, fields); err != nil {
				return err
			}
		}

		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionReviewUpdate,
			"review", reviewID.String(), review.Rating, fields); err != nil {
			return err
		}

		updated, err = u.reviewRepo.FindByID(tx, reviewID)
		return err
	})
	if err != nil {
		if !isReviewDomainError(err) && !isDomainError(err) {
			u.log.Warnf("Failed to update review %s: %+v", reviewID, err)
		}
		return nil, err
	}

	u.log.Infof("Review updated: id=%s", reviewID)
	return converter.ReviewToResponse(updated), nil
}

// DeleteReview removes the caller's review and subtracts it from the poojari
// aggregate. Deleting the last review resets the aggregate to zero.
func (u *reviewUsecase) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUserNotInContext
	}
	role, _ := middleware.GetRoleFromContext(ctx)

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := u.reviewRepo.FindByID(tx, reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}
		if review.UserID != userID && entity.Role(role) != entity.RoleAdmin {
			return ErrReviewNotOwned
		}

		if err := u.reviewRepo.Delete(tx, reviewID); err != nil {
			return err
		}

		if err := u.ratingService.ApplyReviewDeleted(tx, review.PoojariID, review.Rating); err != nil {
			return err
		}

		return u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionReviewDelete,
			"review", reviewID.String(), map[string]interface{}{
				"booking_id": review.BookingID.String(),
				"rating":     review.Rating,
			})
	})
	if err != nil {
		if !isReviewDomainError(err) && !isDomainError(err) {
			u.log.Warnf("Failed to delete review %s: %+v", reviewID, err)
		}
		return err
	}

	u.log.Infof("Review deleted: id=%s", reviewID)
	return nil
}

func isReviewDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrReviewNotFound, ErrReviewNotOwned, ErrBookingNotCompleted, ErrDuplicateReview,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
