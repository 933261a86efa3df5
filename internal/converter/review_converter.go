package converter

import (
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/domain/entity"
)

// ReviewToResponse converts a Review entity to ReviewResponse DTO
func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	if review == nil {
		return nil
	}
	return &dto.ReviewResponse{
		ID:             review.ID,
		UserID:         review.UserID,
		PoojariID:      review.PoojariID,
		BookingID:      review.BookingID,
		Rating:         review.Rating,
		Comment:        review.Comment,
		ServiceQuality: review.ServiceQuality,
		Punctuality:    review.Punctuality,
		Communication:  review.Communication,
		WouldRecommend: review.WouldRecommend,
		IsVerified:     review.IsVerified,
		HelpfulCount:   review.HelpfulCount,
		User:           PartyToResponse(review.User),
		CreatedAt:      review.CreatedAt,
		UpdatedAt:      review.UpdatedAt,
	}
}

// ReviewsToResponses converts a slice of Review entities
func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *ReviewToResponse(&reviews[i]))
	}
	return responses
}
