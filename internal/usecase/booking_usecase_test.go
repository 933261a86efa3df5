package usecase

import (
	"testing"
	"time"

	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/domain/entity"
	"divineconnect/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	usecase   BookingUsecase
	users     *fakeUserRepository
	profiles  *fakePoojariProfileRepository
	bookings  *fakeBookingRepository
	txns      *fakeTransactionRepository
	audits    *fakeAuditLogRepository
	devoteeID uuid.UUID
	poojariID uuid.UUID
}

func setupBookingUsecase(t *testing.T) (*bookingFixture, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	log := testLogger()

	users := newFakeUserRepository()
	profiles := newFakePoojariProfileRepository()
	bookings := newFakeBookingRepository()
	txns := newFakeTransactionRepository()
	audits := newFakeAuditLogRepository()
	auditService := service.NewAuditService(log, audits)

	devotee := users.add(&entity.User{Name: "Ramesh", Phone: "+919800000001", Role: entity.RoleDevotee})
	poojari := users.add(&entity.User{Name: "Sharma Ji", Phone: "+919800000002", Role: entity.RolePoojari})
	profiles.profiles[poojari.ID] = &entity.PoojariProfile{
		UserID:      poojari.ID,
		IsVerified:  true,
		IsAvailable: true,
	}

	return &bookingFixture{
		usecase:   NewBookingUsecase(db, log, users, profiles, bookings, txns, auditService),
		users:     users,
		profiles:  profiles,
		bookings:  bookings,
		txns:      txns,
		audits:    audits,
		devoteeID: devotee.ID,
		poojariID: poojari.ID,
	}, mock
}

func validCreateRequest(poojariID uuid.UUID) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		PoojariID:     poojariID,
		ServiceType:   "griha_pravesh",
		ScheduledDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		ScheduledTime: "10:30",
		Amount:        "1500.00",
		Address:       "12 MG Road",
		City:          "Pune",
		State:         "Maharashtra",
		Pincode:       "411001",
		ContactPhone:  "+919800000001",
	}
}

func TestCreateBookingInsertsBookingAndPlaceholderTransaction(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), validCreateRequest(f.poojariID))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, string(entity.BookingStatusPending), resp.Status)
	assert.Equal(t, string(entity.PaymentStatusPending), resp.PaymentStatus)
	assert.True(t, decimal.RequireFromString("1500.00").Equal(resp.Amount))

	placeholder, err := f.txns.FindPaymentByBookingID(nil, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, placeholder)
	assert.Equal(t, entity.TransactionStatusPending, placeholder.Status)
	assert.Equal(t, entity.TransactionTypePayment, placeholder.TransactionType)

	require.Len(t, f.audits.logs, 1)
	assert.Equal(t, entity.AuditActionBookingCreate, f.audits.logs[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsOccupiedSlot(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	req := validCreateRequest(f.poojariID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), req)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	other := f.users.add(&entity.User{Name: "Suresh", Phone: "+919800000003", Role: entity.RoleDevotee})
	_, err = f.usecase.CreateBooking(authContext(other.ID, entity.RoleDevotee), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	assert.Len(t, f.bookings.bookings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingAllowsSlotAfterCancellation(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	req := validCreateRequest(f.poojariID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), req)
	require.NoError(t, err)

	f.bookings.bookings[first.ID].Status = entity.BookingStatusCancelled

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), req)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsUnavailablePoojari(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	f.profiles.profiles[f.poojariID].IsAvailable = false

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), validCreateRequest(f.poojariID))
	assert.ErrorIs(t, err, ErrPoojariUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsPastDate(t *testing.T) {
	f, _ := setupBookingUsecase(t)
	req := validCreateRequest(f.poojariID)
	req.ScheduledDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := f.usecase.CreateBooking(authContext(f.devoteeID, entity.RoleDevotee), req)
	assert.ErrorIs(t, err, ErrSchedulePast)
}

func TestUpdateStatusStampsConfirmedAt(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusPending,
	})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := f.usecase.UpdateStatus(authContext(f.poojariID, entity.RolePoojari), booking.ID,
		&dto.UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusConfirmed), resp.Status)
	assert.NotNil(t, f.bookings.bookings[booking.ID].ConfirmedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusToCompletedIncrementsTotalBookings(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusInProgress,
	})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := f.usecase.UpdateStatus(authContext(f.poojariID, entity.RolePoojari), booking.ID,
		&dto.UpdateBookingStatusRequest{Status: "completed", Notes: "Puja done on time"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusCompleted), resp.Status)
	assert.NotNil(t, f.bookings.bookings[booking.ID].CompletedAt)
	assert.Equal(t, "Puja done on time", f.bookings.bookings[booking.ID].PoojariNotes)
	assert.Equal(t, 1, f.profiles.profiles[f.poojariID].TotalBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsSkippedTransition(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusPending,
	})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := f.usecase.UpdateStatus(authContext(f.devoteeID, entity.RoleDevotee), booking.ID,
		&dto.UpdateBookingStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, entity.BookingStatusPending, f.bookings.bookings[booking.ID].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIgnoresNotesFromDevotee(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusPending,
	})

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := f.usecase.UpdateStatus(authContext(f.devoteeID, entity.RoleDevotee), booking.ID,
		&dto.UpdateBookingStatusRequest{Status: "confirmed", Notes: "please come early"})
	require.NoError(t, err)
	assert.Empty(t, f.bookings.bookings[booking.ID].PoojariNotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsStranger(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusPending,
	})
	stranger := f.users.add(&entity.User{Name: "Mallory", Phone: "+919800000009", Role: entity.RoleDevotee})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := f.usecase.UpdateStatus(authContext(stranger.ID, entity.RoleDevotee), booking.ID,
		&dto.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingNotOwned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRecordsActorRole(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusConfirmed,
	})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := f.usecase.CancelBooking(authContext(f.poojariID, entity.RolePoojari), booking.ID,
		&dto.CancelBookingRequest{Reason: "travelling that day"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusCancelled), resp.Status)
	assert.Equal(t, string(entity.CancelledByPoojari), resp.CancelledBy)
	assert.Equal(t, "travelling that day", resp.CancellationReason)
	assert.NotNil(t, f.bookings.bookings[booking.ID].CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRejectsFinalStatuses(t *testing.T) {
	for _, status := range []entity.BookingStatus{entity.BookingStatusCompleted, entity.BookingStatusCancelled} {
		f, mock := setupBookingUsecase(t)
		booking := f.bookings.add(&entity.Booking{
			UserID:    f.devoteeID,
			PoojariID: f.poojariID,
			Status:    status,
		})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := f.usecase.CancelBooking(authContext(f.devoteeID, entity.RoleDevotee), booking.ID,
			&dto.CancelBookingRequest{Reason: "changed plans"})
		assert.ErrorIs(t, err, ErrBookingAlreadyFinal, "status %s", status)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestGetMyBookingsFiltersByStatus(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	f.bookings.add(&entity.Booking{UserID: f.devoteeID, PoojariID: f.poojariID, Status: entity.BookingStatusPending})
	f.bookings.add(&entity.Booking{UserID: f.devoteeID, PoojariID: f.poojariID, Status: entity.BookingStatusCompleted})

	list, err := f.usecase.GetMyBookings(authContext(f.devoteeID, entity.RoleDevotee),
		&dto.ListBookingsRequest{Status: "completed"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, string(entity.BookingStatusCompleted), list.Bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByIDHidesFromStrangers(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	booking := f.bookings.add(&entity.Booking{
		UserID:    f.devoteeID,
		PoojariID: f.poojariID,
		Status:    entity.BookingStatusPending,
	})

	_, err := f.usecase.GetBookingByID(authContext(uuid.New(), entity.RoleDevotee), booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	resp, err := f.usecase.GetBookingByID(authContext(uuid.New(), entity.RoleAdmin), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, resp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPoojariDashboardCountsByStatus(t *testing.T) {
	f, mock := setupBookingUsecase(t)
	future := time.Now().AddDate(0, 0, 3)
	f.bookings.add(&entity.Booking{UserID: f.devoteeID, PoojariID: f.poojariID, Status: entity.BookingStatusConfirmed, ScheduledDate: future})
	f.bookings.add(&entity.Booking{UserID: f.devoteeID, PoojariID: f.poojariID, Status: entity.BookingStatusCompleted, ScheduledDate: future})
	f.bookings.add(&entity.Booking{UserID: f.devoteeID, PoojariID: f.poojariID, Status: entity.BookingStatusCompleted, ScheduledDate: future})

	mock.ExpectBegin()
	mock.ExpectCommit()
	stats, err := f.usecase.GetPoojariDashboard(authContext(f.poojariID, entity.RolePoojari))
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.CountsByStatus["confirmed"])
	assert.Equal(t, int64(2), stats.CountsByStatus["completed"])
	assert.Len(t, stats.UpcomingBookings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
