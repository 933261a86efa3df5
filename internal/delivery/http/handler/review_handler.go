package handler

import (
	"encoding/json"
	"net/http"

	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/usecase"
	"divineconnect/pkg/response"
	"divineconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.CreateReview(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrBookingNotOwned:
			response.Forbidden(w, "Booking does not belong to you")
		case usecase.ErrBookingNotCompleted:
			response.BadRequest(w, "Only completed bookings can be reviewed")
		case usecase.ErrDuplicateReview:
			response.Conflict(w, "Booking has already been reviewed")
		default:
			response.InternalServerError(w, "Failed to create review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	review, err := h.reviewUsecase.GetReview(r.Context(), reviewID)
	if err != nil {
		if err == usecase.ErrReviewNotFound {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalServerError(w, "Failed to get review")
		return
	}

	response.Success(w, http.StatusOK, "Review retrieved successfully", review)
}

func (h *ReviewHandler) ListPoojariReviews(w http.ResponseWriter, r *http.Request) {
	poojariID, err := uuid.Parse(mux.Vars(r)["poojariId"])
	if err != nil {
		response.BadRequest(w, "Invalid poojari ID")
		return
	}

	reviews, err := h.reviewUsecase.ListPoojariReviews(r.Context(), poojariID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		response.InternalServerError(w, "Failed to list reviews")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Reviews retrieved successfully", reviews.Reviews,
		response.NewMeta(reviews.Page, reviews.Limit, reviews.Total))
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	var req dto.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.UpdateReview(r.Context(), reviewID, &req)
	if err != nil {
		switch err {
		case usecase.ErrReviewNotFound:
			response.NotFound(w, "Review not found")
		case usecase.ErrReviewNotOwned:
			response.Forbidden(w, "Review does not belong to you")
		default:
			response.InternalServerError(w, "Failed to update review")
		}
		return
	}

	response.Success(w, http.StatusOK, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	if err := h.reviewUsecase.DeleteReview(r.Context(), reviewID); err != nil {
		switch err {
		case usecase.ErrReviewNotFound:
			response.NotFound(w, "Review not found")
		case usecase.ErrReviewNotOwned:
			response.Forbidden(w, "Review does not belong to you")
		default:
			response.InternalServerError(w, "Failed to delete review")
		}
		return
	}

	response.Success(w, http.StatusOK, "Review deleted successfully", nil)
}
