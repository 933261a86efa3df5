package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"divineconnect/internal/converter"
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/delivery/http/middleware"
	"divineconnect/internal/domain/entity"
	"divineconnect/internal/domain/repository"
	"divineconnect/internal/gateway"
	"divineconnect/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrBookingNotPayable   = errors.New("booking is not awaiting payment")
	ErrInvalidSignature    = errors.New("payment signature verification failed")
	ErrPaymentNotCompleted = errors.New("booking has no completed payment")
	ErrRefundExceedsPaid   = errors.New("refund amount exceeds the amount paid")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
)

type PaymentUsecase interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.BookingResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ProcessRefund(ctx context.Context, req *dto.RefundRequest) (*dto.RefundResponse, error)
}

type paymentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	bookingRepo      repository.BookingRepository
	transactionRepo  repository.TransactionRepository
	webhookEventRepo repository.WebhookEventRepository
	gateway          gateway.PaymentGateway
	auditService     service.AuditService
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	transactionRepo repository.TransactionRepository,
	webhookEventRepo repository.WebhookEventRepository,
	paymentGateway gateway.PaymentGateway,
	auditService service.AuditService,
) PaymentUsecase {
	return &paymentUsecase{
		db:               db,
		log:              log,
		bookingRepo:      bookingRepo,
		transactionRepo:  transactionRepo,
		webhookEventRepo: webhookEventRepo,
		gateway:          paymentGateway,
		auditService:     auditService,
	}
}

// CreateOrder registers a gateway order for a pending booking and moves its
// transaction to processing. The gateway call happens before the transaction
// update, so a gateway failure leaves the database untouched.
func (u *paymentUsecase) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, ErrBookingNotPayable
	}

	txn, err := u.transactionRepo.FindPaymentByBookingID(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}

	order, err := u.gateway.CreateOrder(toMinorUnits(booking.Amount), txn.Currency, booking.ID.String(),
		map[string]interface{}{
			"booking_id": booking.ID.String(),
			"user_id":    userID.String(),
		})
	if err != nil {
		u.log.Warnf("Gateway order creation failed for booking %s: %+v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.transactionRepo.UpdateFields(tx, txn.ID, map[string]interface{}{
			"provider_order_id": order.ID,
			"status":            entity.TransactionStatusProcessing,
		}); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionPaymentOrder,
			"transaction", txn.ID.String(), string(txn.Status), map[string]interface{}{
				"status":   string(entity.TransactionStatusProcessing),
				"order_id": order.ID,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to record gateway order %s: %+v", order.ID, err)
		return nil, err
	}

	u.log.Infof("Payment order created: booking=%s, order=%s, amount=%d", booking.ID, order.ID, order.Amount)
	return &dto.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      u.gateway.Key(),
	}, nil
}

// VerifyPayment checks the checkout signature and settles the booking. A
// bad signature mutates nothing. Replayed verifications are a no-op once the
// booking is paid.
func (u *paymentUsecase) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	if !u.gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		u.log.Warnf("Signature mismatch for booking %s, order %s", req.BookingID, req.RazorpayOrderID)
		return nil, ErrInvalidSignature
	}

	var updated *entity.Booking
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByIDForUpdate(tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.UserID != userID {
			return ErrBookingNotOwned
		}

		txn, err := u.transactionRepo.FindPaymentByBookingID(tx, req.BookingID)
		if err != nil {
			return err
		}
		if txn == nil {
			return ErrTransactionNotFound
		}

		if !txn.IsCompleted() {
			if err := u.transactionRepo.UpdateFields(tx, txn.ID, map[string]interface{}{
				"status":              entity.TransactionStatusCompleted,
				"provider_payment_id": req.RazorpayPaymentID,
				"processed_at":        time.Now(),
				"gateway_response": entity.JSON{
					"order_id":   req.RazorpayOrderID,
					"payment_id": req.RazorpayPaymentID,
					"source":     "checkout_verification",
				},
			}); err != nil {
				return err
			}
		}

		if booking.PaymentStatus != entity.PaymentStatusPaid {
			fields := map[string]interface{}{"payment_status": entity.PaymentStatusPaid}
			if booking.Status == entity.BookingStatusPending {
				fields["status"] = entity.BookingStatusConfirmed
				fields["confirmed_at"] = time.Now()
			}
			if err := u.bookingRepo.UpdateFields(tx, booking.ID, fields); err != nil {
				return err
			}
		}

		// Webhooks that raced ahead of verification were parked unmatched;
		// the settlement above covers them.
		parked, err := u.webhookEventRepo.FindUnmatchedByPaymentID(tx, req.RazorpayPaymentID)
		if err != nil {
			return err
		}
		for _, event := range parked {
			if err := u.webhookEventRepo.MarkProcessed(tx, event.ID); err != nil {
				return err
			}
		}

		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionPaymentVerified,
			"booking", booking.ID.String(), string(booking.PaymentStatus), map[string]interface{}{
				"payment_status": string(entity.PaymentStatusPaid),
				"payment_id":     req.RazorpayPaymentID,
			}); err != nil {
			return err
		}

		updated, err = u.bookingRepo.FindByIDWithDetails(tx, booking.ID)
		return err
	})
	if err != nil {
		if !isPaymentDomainError(err) && !isDomainError(err) {
			u.log.Warnf("Failed to verify payment for booking %s: %+v", req.BookingID, err)
		}
		return nil, err
	}

	u.log.Infof("Payment verified: booking=%s, payment=%s", req.BookingID, req.RazorpayPaymentID)
	return converter.BookingToResponse(updated), nil
}

// webhookPayload is the subset of the gateway's webhook body this service
// reads.
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook ingests a gateway event. Unknown event types and redeliveries
// are acknowledged without mutation; events that match no transaction are
// parked in the webhook_events ledger for later reconciliation.
func (u *paymentUsecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !u.gateway.VerifyWebhookSignature(body, signature) {
		u.log.Warn("Webhook signature verification failed")
		return ErrInvalidSignature
	}

	var event webhookPayload
	if err := json.Unmarshal(body, &event); err != nil {
		u.log.Warnf("Failed to decode webhook body: %+v", err)
		return err
	}

	var rawPayload entity.JSON
	if err := json.Unmarshal(body, &rawPayload); err != nil {
		rawPayload = entity.JSON{"raw": string(body)}
	}

	switch event.Event {
	case "payment.captured":
		return u.applyCapture(ctx, event, rawPayload)
	case "payment.failed":
		return u.applyFailure(ctx, event, rawPayload)
	default:
		u.log.Infof("Ignoring webhook event type %q", event.Event)
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventIgnored))
		})
	}
}

func (u *paymentUsecase) applyCapture(ctx context.Context, event webhookPayload, rawPayload entity.JSON) error {
	paymentID := event.Payload.Payment.Entity.ID
	orderID := event.Payload.Payment.Entity.OrderID

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := u.findMatchingPayment(tx, paymentID, orderID)
		if err != nil {
			return err
		}
		if txn == nil {
			u.log.Warnf("Webhook capture matched no transaction: payment=%s, order=%s", paymentID, orderID)
			return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventUnmatched))
		}

		var rows int64
		if txn.ProviderPaymentID != nil && *txn.ProviderPaymentID == paymentID {
			rows, err = u.transactionRepo.MarkCapturedByPaymentID(tx, paymentID, rawPayload)
		} else {
			rows, err = u.transactionRepo.MarkCapturedByOrderID(tx, orderID, paymentID, rawPayload)
		}
		if err != nil {
			return err
		}
		if rows == 0 {
			// Redelivery of an already settled payment.
			u.log.Infof("Webhook capture already applied: payment=%s", paymentID)
			return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventIgnored))
		}

		booking, err := u.bookingRepo.FindByIDForUpdate(tx, txn.BookingID)
		if err != nil {
			return err
		}
		if booking != nil && booking.PaymentStatus != entity.PaymentStatusPaid {
			fields := map[string]interface{}{"payment_status": entity.PaymentStatusPaid}
			if booking.Status == entity.BookingStatusPending {
				fields["status"] = entity.BookingStatusConfirmed
				fields["confirmed_at"] = time.Now()
			}
			if err := u.bookingRepo.UpdateFields(tx, booking.ID, fields); err != nil {
				return err
			}
		}

		u.log.Infof("Webhook capture applied: payment=%s, booking=%s", paymentID, txn.BookingID)
		return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventProcessed))
	})
}

func (u *paymentUsecase) applyFailure(ctx context.Context, event webhookPayload, rawPayload entity.JSON) error {
	paymentID := event.Payload.Payment.Entity.ID
	orderID := event.Payload.Payment.Entity.OrderID
	reason := event.Payload.Payment.Entity.ErrorDescription
	if reason == "" {
		reason = "payment failed"
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := u.findMatchingPayment(tx, paymentID, orderID)
		if err != nil {
			return err
		}
		if txn == nil {
			u.log.Warnf("Webhook failure matched no transaction: payment=%s, order=%s", paymentID, orderID)
			return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventUnmatched))
		}

		var rows int64
		if txn.ProviderPaymentID != nil && *txn.ProviderPaymentID == paymentID {
			rows, err = u.transactionRepo.MarkFailedByPaymentID(tx, paymentID, reason, rawPayload)
		} else {
			rows, err = u.transactionRepo.MarkFailedByOrderID(tx, orderID, paymentID, reason, rawPayload)
		}
		if err != nil {
			return err
		}
		if rows == 0 {
			u.log.Infof("Webhook failure already applied or superseded: payment=%s", paymentID)
			return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventIgnored))
		}

		if err := u.bookingRepo.UpdateFields(tx, txn.BookingID, map[string]interface{}{
			"payment_status": entity.PaymentStatusFailed,
		}); err != nil {
			return err
		}

		u.log.Infof("Webhook failure applied: payment=%s, booking=%s", paymentID, txn.BookingID)
		return u.webhookEventRepo.Create(tx, u.newWebhookEvent(event, rawPayload, entity.WebhookEventProcessed))
	})
}

func (u *paymentUsecase) findMatchingPayment(tx *gorm.DB, paymentID, orderID string) (*entity.Transaction, error) {
	if paymentID != "" {
		txn, err := u.transactionRepo.FindPaymentByProviderPaymentID(tx, paymentID)
		if err != nil || txn != nil {
			return txn, err
		}
	}
	if orderID != "" {
		return u.transactionRepo.FindPaymentByProviderOrderID(tx, orderID)
	}
	return nil, nil
}

func (u *paymentUsecase) newWebhookEvent(event webhookPayload, rawPayload entity.JSON, status entity.WebhookEventStatus) *entity.WebhookEvent {
	record := &entity.WebhookEvent{
		Provider:  entity.ProviderRazorpay,
		EventType: event.Event,
		Status:    status,
		Payload:   rawPayload,
	}
	if id := event.Payload.Payment.Entity.ID; id != "" {
		record.ProviderPaymentID = &id
	}
	if orderID := event.Payload.Payment.Entity.OrderID; orderID != "" {
		record.ProviderOrderID = &orderID
	}
	return record
}

// ProcessRefund issues a gateway refund and records it as a new transaction
// row. The gateway call comes first; nothing is written when it fails. The
// refund total is capped by what was actually paid.
func (u *paymentUsecase) ProcessRefund(ctx context.Context, req *dto.RefundRequest) (*dto.RefundResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	role, _ := middleware.GetRoleFromContext(ctx)

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID && entity.Role(role) != entity.RoleAdmin {
		return nil, ErrBookingNotOwned
	}
	if booking.PaymentStatus != entity.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	original, err := u.transactionRepo.FindPaymentByBookingID(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		return nil, err
	}
	if original == nil || !original.IsCompleted() || original.ProviderPaymentID == nil {
		return nil, ErrPaymentNotCompleted
	}

	paidTotal, err := u.transactionRepo.SumCompletedPayments(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		return nil, err
	}

	refundAmount := paidTotal
	if req.Amount != nil {
		refundAmount, err = decimal.NewFromString(*req.Amount)
		if err != nil || !refundAmount.IsPositive() {
			return nil, ErrInvalidAmount
		}
	}
	if refundAmount.GreaterThan(paidTotal) {
		return nil, ErrRefundExceedsPaid
	}

	gatewayRefund, err := u.gateway.Refund(*original.ProviderPaymentID, toMinorUnits(refundAmount),
		map[string]interface{}{
			"booking_id": booking.ID.String(),
			"reason":     req.Reason,
		})
	if err != nil {
		u.log.Warnf("Gateway refund failed for booking %s: %+v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	refundType := entity.TransactionTypeRefund
	if refundAmount.LessThan(paidTotal) {
		refundType = entity.TransactionTypePartialRefund
	}

	var refundTxn *entity.Transaction
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		refundTxn = &entity.Transaction{
			BookingID:             booking.ID,
			Amount:                refundAmount,
			Currency:              original.Currency,
			Provider:              original.Provider,
			ProviderTransactionID: &gatewayRefund.ID,
			ProviderPaymentID:     original.ProviderPaymentID,
			ProviderOrderID:       original.ProviderOrderID,
			Status:                entity.TransactionStatusCompleted,
			TransactionType:       refundType,
			ProcessedAt:           &now,
			RefundedAt:            &now,
			RefundAmount:          &refundAmount,
			GatewayResponse: entity.JSON{
				"refund_id": gatewayRefund.ID,
				"status":    gatewayRefund.Status,
			},
		}
		if err := u.transactionRepo.Create(tx, refundTxn); err != nil {
			return err
		}

		if err := u.transactionRepo.UpdateFields(tx, original.ID, map[string]interface{}{
			"status":        entity.TransactionStatusRefunded,
			"refunded_at":   now,
			"refund_amount": refundAmount,
		}); err != nil {
			return err
		}

		if err := u.bookingRepo.UpdateFields(tx, booking.ID, map[string]interface{}{
			"payment_status": entity.PaymentStatusRefunded,
			"status":         entity.BookingStatusRefunded,
		}); err != nil {
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionPaymentRefund,
			"booking", booking.ID.String(), string(booking.PaymentStatus), map[string]interface{}{
				"payment_status": string(entity.PaymentStatusRefunded),
				"refund_id":      gatewayRefund.ID,
				"amount":         refundAmount.String(),
			})
	})
	if err != nil {
		u.log.Errorf("Refund %s issued at gateway but recording failed: %+v", gatewayRefund.ID, err)
		return nil, err
	}

	u.log.Infof("Refund processed: booking=%s, refund=%s, amount=%s", booking.ID, gatewayRefund.ID, refundAmount)
	return &dto.RefundResponse{
		Transaction: *converter.TransactionToResponse(refundTxn),
		RefundID:    gatewayRefund.ID,
	}, nil
}

// toMinorUnits converts a decimal rupee amount to integer paise, rounding to
// the nearest paisa.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func isPaymentDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrTransactionNotFound, ErrBookingNotPayable, ErrInvalidSignature,
		ErrPaymentNotCompleted, ErrRefundExceedsPaid,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
