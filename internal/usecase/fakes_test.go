package usecase

import (
	"context"
	"testing"
	"time"

	"divineconnect/internal/delivery/http/middleware"
	"divineconnect/internal/domain/entity"
	"divineconnect/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens gorm over sqlmock. The fake repositories keep state in
// memory, so the mock only has to satisfy transaction begin/commit/rollback.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func authContext(userID uuid.UUID, role entity.Role) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.RoleKey, string(role))
}

// fakeUserRepository

type fakeUserRepository struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepository) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepository) FindActivePoojari(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user := f.users[id]
	if user == nil || user.Role != entity.RolePoojari {
		return nil, nil
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, nil
	}
	return user, nil
}

// fakePoojariProfileRepository

type fakePoojariProfileRepository struct {
	profiles map[uuid.UUID]*entity.PoojariProfile
}

func newFakePoojariProfileRepository() *fakePoojariProfileRepository {
	return &fakePoojariProfileRepository{profiles: map[uuid.UUID]*entity.PoojariProfile{}}
}

func (f *fakePoojariProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakePoojariProfileRepository) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.PoojariProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakePoojariProfileRepository) UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64, totalReviews int) error {
	if profile := f.profiles[userID]; profile != nil {
		profile.Rating = rating
		profile.TotalReviews = totalReviews
	}
	return nil
}

func (f *fakePoojariProfileRepository) IncrementTotalBookings(db *gorm.DB, userID uuid.UUID) error {
	if profile := f.profiles[userID]; profile != nil {
		profile.TotalBookings++
	}
	return nil
}

// fakeBookingRepository

type fakeBookingRepository struct {
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (f *fakeBookingRepository) add(booking *entity.Booking) *entity.Booking {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	f.bookings[booking.ID] = booking
	return booking
}

func (f *fakeBookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	f.add(booking)
	return nil
}

func (f *fakeBookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepository) FindByIDWithDetails(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepository) FindByParty(db *gorm.DB, userID uuid.UUID, filter repository.BookingFilter) ([]entity.Booking, int64, error) {
	var result []entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID != userID && booking.PoojariID != userID {
			continue
		}
		if filter.Status != nil && booking.Status != *filter.Status {
			continue
		}
		result = append(result, *booking)
	}
	return result, int64(len(result)), nil
}

func (f *fakeBookingRepository) HasSlotConflict(db *gorm.DB, poojariID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	for _, booking := range f.bookings {
		if booking.PoojariID != poojariID || !booking.ScheduledDate.Equal(date) || booking.ScheduledTime != timeOfDay {
			continue
		}
		for _, status := range entity.ActiveBookingStatuses {
			if booking.Status == status {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeBookingRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	booking := f.bookings[id]
	if booking == nil {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "status":
			booking.Status = value.(entity.BookingStatus)
		case "payment_status":
			booking.PaymentStatus = value.(entity.PaymentStatus)
		case "confirmed_at":
			at := value.(time.Time)
			booking.ConfirmedAt = &at
		case "completed_at":
			at := value.(time.Time)
			booking.CompletedAt = &at
		case "cancelled_at":
			at := value.(time.Time)
			booking.CancelledAt = &at
		case "cancelled_by":
			by := value.(entity.CancelledBy)
			booking.CancelledBy = &by
		case "cancellation_reason":
			booking.CancellationReason = value.(string)
		case "poojari_notes":
			booking.PoojariNotes = value.(string)
		}
	}
	return nil
}

func (f *fakeBookingRepository) CountByStatus(db *gorm.DB, poojariID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	counts := map[entity.BookingStatus]int64{}
	for _, booking := range f.bookings {
		if booking.PoojariID == poojariID {
			counts[booking.Status]++
		}
	}
	return counts, nil
}

func (f *fakeBookingRepository) FindUpcoming(db *gorm.DB, poojariID uuid.UUID, from time.Time, limit int) ([]entity.Booking, error) {
	var result []entity.Booking
	for _, booking := range f.bookings {
		if booking.PoojariID != poojariID || booking.ScheduledDate.Before(from) {
			continue
		}
		if booking.Status != entity.BookingStatusConfirmed && booking.Status != entity.BookingStatusInProgress {
			continue
		}
		result = append(result, *booking)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// fakeTransactionRepository

type fakeTransactionRepository struct {
	transactions map[uuid.UUID]*entity.Transaction
}

func newFakeTransactionRepository() *fakeTransactionRepository {
	return &fakeTransactionRepository{transactions: map[uuid.UUID]*entity.Transaction{}}
}

func (f *fakeTransactionRepository) add(txn *entity.Transaction) *entity.Transaction {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	f.transactions[txn.ID] = txn
	return txn
}

func (f *fakeTransactionRepository) Create(db *gorm.DB, txn *entity.Transaction) error {
	f.add(txn)
	return nil
}

func (f *fakeTransactionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	return f.transactions[id], nil
}

func (f *fakeTransactionRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	return f.transactions[id], nil
}

func (f *fakeTransactionRepository) FindPaymentByBookingID(db *gorm.DB, bookingID uuid.UUID) (*entity.Transaction, error) {
	for _, txn := range f.transactions {
		if txn.BookingID == bookingID && txn.TransactionType == entity.TransactionTypePayment {
			return txn, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepository) FindPaymentByProviderPaymentID(db *gorm.DB, paymentID string) (*entity.Transaction, error) {
	for _, txn := range f.transactions {
		if txn.TransactionType == entity.TransactionTypePayment &&
			txn.ProviderPaymentID != nil && *txn.ProviderPaymentID == paymentID {
			return txn, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepository) FindPaymentByProviderOrderID(db *gorm.DB, orderID string) (*entity.Transaction, error) {
	for _, txn := range f.transactions {
		if txn.TransactionType == entity.TransactionTypePayment &&
			txn.ProviderOrderID != nil && *txn.ProviderOrderID == orderID {
			return txn, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	txn := f.transactions[id]
	if txn == nil {
		return nil
	}
	applyTransactionFields(txn, fields)
	return nil
}

func applyTransactionFields(txn *entity.Transaction, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			txn.Status = value.(entity.TransactionStatus)
		case "provider_order_id":
			id := value.(string)
			txn.ProviderOrderID = &id
		case "provider_payment_id":
			id := value.(string)
			txn.ProviderPaymentID = &id
		case "processed_at":
			at := value.(time.Time)
			txn.ProcessedAt = &at
		case "refunded_at":
			at := value.(time.Time)
			txn.RefundedAt = &at
		case "refund_amount":
			amount := value.(decimal.Decimal)
			txn.RefundAmount = &amount
		case "gateway_response":
			txn.GatewayResponse = value.(entity.JSON)
		case "failure_reason":
			reason := value.(string)
			txn.FailureReason = &reason
		}
	}
}

func (f *fakeTransactionRepository) settable(txn *entity.Transaction) bool {
	return txn.Status == entity.TransactionStatusPending || txn.Status == entity.TransactionStatusProcessing
}

func (f *fakeTransactionRepository) MarkCapturedByPaymentID(db *gorm.DB, paymentID string, payload entity.JSON) (int64, error) {
	var rows int64
	now := time.Now()
	for _, txn := range f.transactions {
		if txn.TransactionType != entity.TransactionTypePayment || !f.settable(txn) {
			continue
		}
		if txn.ProviderPaymentID == nil || *txn.ProviderPaymentID != paymentID {
			continue
		}
		txn.Status = entity.TransactionStatusCompleted
		txn.ProcessedAt = &now
		txn.GatewayResponse = payload
		rows++
	}
	return rows, nil
}

func (f *fakeTransactionRepository) MarkCapturedByOrderID(db *gorm.DB, orderID, paymentID string, payload entity.JSON) (int64, error) {
	var rows int64
	now := time.Now()
	for _, txn := range f.transactions {
		if txn.TransactionType != entity.TransactionTypePayment || !f.settable(txn) {
			continue
		}
		if txn.ProviderOrderID == nil || *txn.ProviderOrderID != orderID {
			continue
		}
		pid := paymentID
		txn.Status = entity.TransactionStatusCompleted
		txn.ProviderPaymentID = &pid
		txn.ProcessedAt = &now
		txn.GatewayResponse = payload
		rows++
	}
	return rows, nil
}

func (f *fakeTransactionRepository) MarkFailedByPaymentID(db *gorm.DB, paymentID, reason string, payload entity.JSON) (int64, error) {
	var rows int64
	for _, txn := range f.transactions {
		if txn.TransactionType != entity.TransactionTypePayment || !f.settable(txn) {
			continue
		}
		if txn.ProviderPaymentID == nil || *txn.ProviderPaymentID != paymentID {
			continue
		}
		failure := reason
		txn.Status = entity.TransactionStatusFailed
		txn.FailureReason = &failure
		txn.GatewayResponse = payload
		rows++
	}
	return rows, nil
}

func (f *fakeTransactionRepository) MarkFailedByOrderID(db *gorm.DB, orderID, paymentID, reason string, payload entity.JSON) (int64, error) {
	var rows int64
	for _, txn := range f.transactions {
		if txn.TransactionType != entity.TransactionTypePayment || !f.settable(txn) {
			continue
		}
		if txn.ProviderOrderID == nil || *txn.ProviderOrderID != orderID {
			continue
		}
		pid := paymentID
		failure := reason
		txn.Status = entity.TransactionStatusFailed
		txn.ProviderPaymentID = &pid
		txn.FailureReason = &failure
		txn.GatewayResponse = payload
		rows++
	}
	return rows, nil
}

func (f *fakeTransactionRepository) SumCompletedPayments(db *gorm.DB, bookingID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, txn := range f.transactions {
		if txn.BookingID != bookingID || txn.TransactionType != entity.TransactionTypePayment {
			continue
		}
		if txn.Status == entity.TransactionStatusCompleted || txn.Status == entity.TransactionStatusRefunded {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum, nil
}

func (f *fakeTransactionRepository) SumNetEarnings(db *gorm.DB, poojariID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// fakeReviewRepository

type fakeReviewRepository struct {
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{reviews: map[uuid.UUID]*entity.Review{}}
}

func (f *fakeReviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error) {
	return f.reviews[id], nil
}

func (f *fakeReviewRepository) FindByUserAndBooking(db *gorm.DB, userID, bookingID uuid.UUID) (*entity.Review, error) {
	for _, review := range f.reviews {
		if review.UserID == userID && review.BookingID == bookingID {
			return review, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepository) FindByPoojariID(db *gorm.DB, poojariID uuid.UUID, limit, offset int) ([]entity.Review, int64, error) {
	var result []entity.Review
	for _, review := range f.reviews {
		if review.PoojariID == poojariID {
			result = append(result, *review)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeReviewRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	review := f.reviews[id]
	if review == nil {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "rating":
			review.Rating = value.(int)
		case "comment":
			review.Comment = value.(string)
		case "service_quality":
			rating := value.(int)
			review.ServiceQuality = &rating
		case "punctuality":
			rating := value.(int)
			review.Punctuality = &rating
		case "communication":
			rating := value.(int)
			review.Communication = &rating
		case "would_recommend":
			review.WouldRecommend = value.(bool)
		}
	}
	return nil
}

func (f *fakeReviewRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(f.reviews, id)
	return nil
}

// fakeWebhookEventRepository

type fakeWebhookEventRepository struct {
	events []*entity.WebhookEvent
	nextID int64
}

func newFakeWebhookEventRepository() *fakeWebhookEventRepository {
	return &fakeWebhookEventRepository{}
}

func (f *fakeWebhookEventRepository) Create(db *gorm.DB, event *entity.WebhookEvent) error {
	f.nextID++
	event.ID = f.nextID
	f.events = append(f.events, event)
	return nil
}

func (f *fakeWebhookEventRepository) FindUnmatchedByPaymentID(db *gorm.DB, paymentID string) ([]entity.WebhookEvent, error) {
	var result []entity.WebhookEvent
	for _, event := range f.events {
		if event.Status == entity.WebhookEventUnmatched &&
			event.ProviderPaymentID != nil && *event.ProviderPaymentID == paymentID {
			result = append(result, *event)
		}
	}
	return result, nil
}

func (f *fakeWebhookEventRepository) MarkProcessed(db *gorm.DB, id int64) error {
	for _, event := range f.events {
		if event.ID == id {
			event.Status = entity.WebhookEventProcessed
		}
	}
	return nil
}

func (f *fakeWebhookEventRepository) withStatus(status entity.WebhookEventStatus) []*entity.WebhookEvent {
	var result []*entity.WebhookEvent
	for _, event := range f.events {
		if event.Status == status {
			result = append(result, event)
		}
	}
	return result
}

// fakeAuditLogRepository

type fakeAuditLogRepository struct {
	logs []*entity.AuditLog
}

func newFakeAuditLogRepository() *fakeAuditLogRepository {
	return &fakeAuditLogRepository{}
}

func (f *fakeAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}
