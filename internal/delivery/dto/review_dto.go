package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReviewRequest struct {
	BookingID      uuid.UUID `json:"booking_id" validate:"required"`
	Rating         int       `json:"rating" validate:"required,min=1,max=5"`
	Comment        string    `json:"comment" validate:"max=2000"`
	ServiceQuality *int      `json:"service_quality" validate:"omitempty,min=1,max=5"`
	Punctuality    *int      `json:"punctuality" validate:"omitempty,min=1,max=5"`
	Communication  *int      `json:"communication" validate:"omitempty,min=1,max=5"`
	WouldRecommend *bool     `json:"would_recommend"`
}

type UpdateReviewRequest struct {
	Rating         *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment        *string `json:"comment" validate:"omitempty,max=2000"`
	ServiceQuality *int    `json:"service_quality" validate:"omitempty,min=1,max=5"`
	Punctuality    *int    `json:"punctuality" validate:"omitempty,min=1,max=5"`
	Communication  *int    `json:"communication" validate:"omitempty,min=1,max=5"`
	WouldRecommend *bool   `json:"would_recommend"`
}

// Response DTOs

type ReviewResponse struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	PoojariID      uuid.UUID      `json:"poojari_id"`
	BookingID      uuid.UUID      `json:"booking_id"`
	Rating         int            `json:"rating"`
	Comment        string         `json:"comment,omitempty"`
	ServiceQuality *int           `json:"service_quality,omitempty"`
	Punctuality    *int           `json:"punctuality,omitempty"`
	Communication  *int           `json:"communication,omitempty"`
	WouldRecommend bool           `json:"would_recommend"`
	IsVerified     bool           `json:"is_verified"`
	HelpfulCount   int            `json:"helpful_count"`
	User           *PartyResponse `json:"user,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}
