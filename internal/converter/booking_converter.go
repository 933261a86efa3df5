package converter

import (
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	resp := &dto.BookingResponse{
		ID:                  booking.ID,
		UserID:              booking.UserID,
		PoojariID:           booking.PoojariID,
		ServiceType:         booking.ServiceType,
		ScheduledDate:       booking.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:       booking.ScheduledTime,
		DurationHours:       booking.DurationHours,
		Status:              string(booking.Status),
		Amount:              booking.Amount,
		PaymentStatus:       string(booking.PaymentStatus),
		Address:             booking.Address,
		City:                booking.City,
		State:               booking.State,
		Pincode:             booking.Pincode,
		MaterialsRequired:   booking.MaterialsRequired,
		MaterialsProvidedBy: booking.MaterialsProvidedBy,
		ContactPhone:        booking.ContactPhone,
		BookingNotes:        booking.BookingNotes,
		PoojariNotes:        booking.PoojariNotes,
		CancellationReason:  booking.CancellationReason,
		CancelledAt:         booking.CancelledAt,
		ConfirmedAt:         booking.ConfirmedAt,
		CompletedAt:         booking.CompletedAt,
		CreatedAt:           booking.CreatedAt,
		UpdatedAt:           booking.UpdatedAt,
	}

	if booking.CancelledBy != nil {
		resp.CancelledBy = string(*booking.CancelledBy)
	}
	resp.Poojari = PartyToResponse(booking.Poojari)
	resp.User = PartyToResponse(booking.User)
	if len(booking.Transactions) > 0 {
		resp.Transactions = TransactionsToResponses(booking.Transactions)
	}
	resp.Review = ReviewToResponse(booking.Review)

	return resp
}

// BookingsToResponses converts a slice of Booking entities
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *BookingsResponseItem(&bookings[i]))
	}
	return responses
}

// BookingsResponseItem builds a list-item view without nested transactions
// and review.
func BookingsResponseItem(booking *entity.Booking) *dto.BookingResponse {
	resp := BookingToResponse(booking)
	resp.Transactions = nil
	resp.Review = nil
	return resp
}

// PartyToResponse converts a User entity to the trimmed PartyResponse DTO
func PartyToResponse(user *entity.User) *dto.PartyResponse {
	if user == nil {
		return nil
	}

	resp := &dto.PartyResponse{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  string(user.Role),
	}
	if user.PoojariProfile != nil {
		rating := user.PoojariProfile.Rating
		reviews := user.PoojariProfile.TotalReviews
		resp.Rating = &rating
		resp.Reviews = &reviews
	}
	return resp
}
