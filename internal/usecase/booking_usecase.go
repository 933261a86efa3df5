package usecase

import (
	"context"
	"errors"
	"time"

	"divineconnect/internal/converter"
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/delivery/http/middleware"
	"divineconnect/internal/domain/entity"
	"divineconnect/internal/domain/repository"
	"divineconnect/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrPoojariUnavailable  = errors.New("poojari is not available for bookings")
	ErrSlotConflict        = errors.New("poojari already has a booking for this slot")
	ErrBookingNotOwned     = errors.New("booking does not belong to you")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrBookingAlreadyFinal = errors.New("booking is already completed or cancelled")
	ErrSchedulePast        = errors.New("cannot book a past date")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal")
	ErrSelfBooking         = errors.New("cannot book your own services")
	ErrUserNotInContext    = errors.New("user not found in context")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error)
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	GetPoojariDashboard(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	profileRepo     repository.PoojariProfileRepository
	bookingRepo     repository.BookingRepository
	transactionRepo repository.TransactionRepository
	auditService    service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.PoojariProfileRepository,
	bookingRepo repository.BookingRepository,
	transactionRepo repository.TransactionRepository,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		bookingRepo:     bookingRepo,
		transactionRepo: transactionRepo,
		auditService:    auditService,
	}
}

// CreateBooking creates a booking and its placeholder payment transaction.
//
// The poojari profile row is locked before the slot-conflict check, so two
// concurrent requests for the same poojari serialize and the second one sees
// the first one's insert.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	if req.PoojariID == userID {
		return nil, ErrSelfBooking
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return nil, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if scheduledDate.Before(today) {
		return nil, ErrSchedulePast
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	durationHours := req.DurationHours
	if durationHours == 0 {
		durationHours = 1.0
	}
	materialsBy := req.MaterialsProvidedBy
	if materialsBy == "" {
		materialsBy = entity.MaterialsByDevotee
	}

	var booking *entity.Booking
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poojari, err := u.userRepo.FindActivePoojari(tx, req.PoojariID)
		if err != nil {
			return err
		}
		if poojari == nil {
			return ErrPoojariUnavailable
		}

		// Lock serializes concurrent bookings targeting this poojari.
		profile, err := u.profileRepo.FindByUserIDForUpdate(tx, req.PoojariID)
		if err != nil {
			return err
		}
		if profile == nil || !profile.IsBookable() {
			return ErrPoojariUnavailable
		}

		conflict, err := u.bookingRepo.HasSlotConflict(tx, req.PoojariID, scheduledDate, req.ScheduledTime)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}

		booking = &entity.Booking{
			UserID:              userID,
			PoojariID:           req.PoojariID,
			ServiceType:         req.ServiceType,
			ServiceDescription:  req.ServiceDescription,
			ScheduledDate:       scheduledDate,
			ScheduledTime:       req.ScheduledTime,
			DurationHours:       durationHours,
			Status:              entity.BookingStatusPending,
			Amount:              amount,
			PaymentStatus:       entity.PaymentStatusPending,
			Address:             req.Address,
			City:                req.City,
			State:               req.State,
			Pincode:             req.Pincode,
			Latitude:            req.Latitude,
			Longitude:           req.Longitude,
			SpecialRequirements: req.SpecialRequirements,
			MaterialsRequired:   req.MaterialsRequired,
			MaterialsProvidedBy: materialsBy,
			ContactPhone:        req.ContactPhone,
			AlternatePhone:      req.AlternatePhone,
			BookingNotes:        req.BookingNotes,
		}
		if err := u.bookingRepo.Create(tx, booking); err != nil {
			return err
		}

		placeholder := &entity.Transaction{
			BookingID:       booking.ID,
			Amount:          amount,
			Currency:        "INR",
			Provider:        entity.ProviderRazorpay,
			Status:          entity.TransactionStatusPending,
			TransactionType: entity.TransactionTypePayment,
			NetAmount:       amount,
		}
		if err := u.transactionRepo.Create(tx, placeholder); err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionBookingCreate,
			"booking", booking.ID.String(), map[string]interface{}{
				"poojari_id":     req.PoojariID.String(),
				"scheduled_date": req.ScheduledDate,
				"scheduled_time": req.ScheduledTime,
				"amount":         amount.String(),
			})
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to create booking for user %s: %+v", userID, err)
		}
		return nil, err
	}

	u.log.Infof("Booking created: id=%s, poojari=%s, slot=%s %s",
		booking.ID, req.PoojariID, req.ScheduledDate, req.ScheduledTime)

	full, err := u.bookingRepo.FindByIDWithDetails(u.db.WithContext(ctx), booking.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return converter.BookingToResponse(booking), nil
	}
	return converter.BookingToResponse(full), nil
}

// GetMyBookings returns bookings where the caller is either party, newest
// slot first.
func (u *bookingUsecase) GetMyBookings(ctx context.Context, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repository.BookingFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}

	bookings, total, err := u.bookingRepo.FindByParty(u.db.WithContext(ctx), userID, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// GetBookingByID returns one booking with transactions and review, visible
// only to its parties or an admin.
func (u *bookingUsecase) GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	role, _ := middleware.GetRoleFromContext(ctx)

	booking, err := u.bookingRepo.FindByIDWithDetails(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.BelongsTo(userID) && entity.Role(role) != entity.RoleAdmin {
		return nil, ErrBookingNotOwned
	}

	return converter.BookingToResponse(booking), nil
}

// UpdateStatus advances a booking along the status machine.
func (u *bookingUsecase) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	role, _ := middleware.GetRoleFromContext(ctx)
	newStatus := entity.BookingStatus(req.Status)

	var updated *entity.Booking
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if !booking.BelongsTo(userID) {
			return ErrBookingNotOwned
		}
		if !booking.CanTransitionTo(newStatus) {
			return ErrInvalidTransition
		}

		now := time.Now()
		fields := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case entity.BookingStatusConfirmed:
			fields["confirmed_at"] = now
		case entity.BookingStatusCompleted:
			fields["completed_at"] = now
			if err := u.profileRepo.IncrementTotalBookings(tx, booking.PoojariID); err != nil {
				return err
			}
		case entity.BookingStatusCancelled:
			cancelledBy := cancelPartyForRole(entity.Role(role))
			fields["cancelled_at"] = now
			fields["cancelled_by"] = cancelledBy
		}
		if req.Notes != "" && userID == booking.PoojariID {
			fields["poojari_notes"] = req.Notes
		}

		if err := u.bookingRepo.UpdateFields(tx, bookingID, fields); err != nil {
			return err
		}

		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionBookingStatus,
			"booking", bookingID.String(), string(booking.Status), string(newStatus)); err != nil {
			return err
		}

		updated, err = u.bookingRepo.FindByIDWithDetails(tx, bookingID)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to update status of booking %s: %+v", bookingID, err)
		}
		return nil, err
	}

	u.log.Infof("Booking status updated: id=%s, status=%s", bookingID, newStatus)
	return converter.BookingToResponse(updated), nil
}

// CancelBooking cancels a non-final booking and records who cancelled it.
// Refunds are a separate explicit action.
func (u *bookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	role, _ := middleware.GetRoleFromContext(ctx)

	var updated *entity.Booking
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if !booking.BelongsTo(userID) && entity.Role(role) != entity.RoleAdmin {
			return ErrBookingNotOwned
		}
		if booking.IsFinal() {
			return ErrBookingAlreadyFinal
		}

		cancelledBy := cancelPartyForRole(entity.Role(role))
		fields := map[string]interface{}{
			"status":              entity.BookingStatusCancelled,
			"cancellation_reason": req.Reason,
			"cancelled_by":        cancelledBy,
			"cancelled_at":        time.Now(),
		}
		if err := u.bookingRepo.UpdateFields(tx, bookingID, fields); err != nil {
			return err
		}

		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionBookingCancel,
			"booking", bookingID.String(), string(booking.Status), map[string]interface{}{
				"status":       string(entity.BookingStatusCancelled),
				"cancelled_by": string(cancelledBy),
				"reason":       req.Reason,
			}); err != nil {
			return err
		}

		updated, err = u.bookingRepo.FindByIDWithDetails(tx, bookingID)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to cancel booking %s: %+v", bookingID, err)
		}
		return nil, err
	}

	u.log.Infof("Booking cancelled: id=%s, by=%s", bookingID, role)
	return converter.BookingToResponse(updated), nil
}

// GetPoojariDashboard aggregates status counts, the next five upcoming
// bookings and the running earnings total in one transaction so the numbers
// agree with a single point in time.
func (u *bookingUsecase) GetPoojariDashboard(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	var resp *dto.DashboardStatsResponse
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts, err := u.bookingRepo.CountByStatus(tx, userID)
		if err != nil {
			return err
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		upcoming, err := u.bookingRepo.FindUpcoming(tx, userID, today, 5)
		if err != nil {
			return err
		}

		earnings, err := u.transactionRepo.SumNetEarnings(tx, userID)
		if err != nil {
			return err
		}

		var totalBookings int64
		countsByStatus := make(map[string]int64, len(counts))
		for status, count := range counts {
			countsByStatus[string(status)] = count
			totalBookings += count
		}

		resp = &dto.DashboardStatsResponse{
			TotalBookings:    totalBookings,
			CountsByStatus:   countsByStatus,
			UpcomingBookings: converter.BookingsToResponses(upcoming),
			TotalEarnings:    earnings,
		}
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to build dashboard for poojari %s: %+v", userID, err)
		return nil, err
	}
	return resp, nil
}

func cancelPartyForRole(role entity.Role) entity.CancelledBy {
	switch role {
	case entity.RolePoojari:
		return entity.CancelledByPoojari
	case entity.RoleAdmin:
		return entity.CancelledByAdmin
	default:
		return entity.CancelledByDevotee
	}
}

// isDomainError reports whether err is an expected business rejection rather
// than an infrastructure failure worth a warning log.
func isDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrBookingNotFound, ErrPoojariUnavailable, ErrSlotConflict,
		ErrBookingNotOwned, ErrInvalidTransition, ErrBookingAlreadyFinal,
		ErrSchedulePast, ErrInvalidAmount, ErrSelfBooking,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
