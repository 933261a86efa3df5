package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/usecase"
	"divineconnect/pkg/response"
	"divineconnect/pkg/validator"
)

// maxWebhookBody bounds how much of a webhook request is read.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.paymentUsecase.CreateOrder(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrBookingNotOwned):
			response.Forbidden(w, "Booking does not belong to you")
		case errors.Is(err, usecase.ErrBookingNotPayable):
			response.Conflict(w, "Booking is not awaiting payment")
		case errors.Is(err, usecase.ErrTransactionNotFound):
			response.NotFound(w, "Payment transaction not found")
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.Error(w, http.StatusBadGateway, "Payment gateway request failed", nil)
		default:
			response.InternalServerError(w, "Failed to create payment order")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Payment order created successfully", order)
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.paymentUsecase.VerifyPayment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrBookingNotOwned):
			response.Forbidden(w, "Booking does not belong to you")
		case errors.Is(err, usecase.ErrTransactionNotFound):
			response.NotFound(w, "Payment transaction not found")
		case errors.Is(err, usecase.ErrInvalidSignature):
			response.BadRequest(w, "Payment signature verification failed")
		default:
			response.InternalServerError(w, "Failed to verify payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment verified successfully", booking)
}

// HandleWebhook receives gateway notifications. The signature covers the raw
// body, so the body is read before any decoding.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "Failed to read request body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" {
		response.BadRequest(w, "Missing webhook signature")
		return
	}

	if err := h.paymentUsecase.HandleWebhook(r.Context(), body, signature); err != nil {
		if errors.Is(err, usecase.ErrInvalidSignature) {
			response.BadRequest(w, "Webhook signature verification failed")
			return
		}
		response.InternalServerError(w, "Failed to process webhook")
		return
	}

	response.Success(w, http.StatusOK, "Webhook processed", nil)
}

func (h *PaymentHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	var req dto.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	refund, err := h.paymentUsecase.ProcessRefund(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrBookingNotOwned):
			response.Forbidden(w, "Booking does not belong to you")
		case errors.Is(err, usecase.ErrPaymentNotCompleted):
			response.Conflict(w, "Booking has no completed payment")
		case errors.Is(err, usecase.ErrRefundExceedsPaid):
			response.BadRequest(w, "Refund amount exceeds the amount paid")
		case errors.Is(err, usecase.ErrInvalidAmount):
			response.BadRequest(w, "Amount must be a positive decimal")
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.Error(w, http.StatusBadGateway, "Payment gateway request failed", nil)
		default:
			response.InternalServerError(w, "Failed to process refund")
		}
		return
	}

	response.Success(w, http.StatusOK, "Refund processed successfully", refund)
}
