package converter

import (
	"divineconnect/internal/delivery/dto"
	"divineconnect/internal/domain/entity"
)

// TransactionToResponse converts a Transaction entity to TransactionResponse DTO
func TransactionToResponse(txn *entity.Transaction) *dto.TransactionResponse {
	if txn == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:                txn.ID,
		BookingID:         txn.BookingID,
		Amount:            txn.Amount,
		Currency:          txn.Currency,
		Provider:          txn.Provider,
		ProviderOrderID:   txn.ProviderOrderID,
		ProviderPaymentID: txn.ProviderPaymentID,
		Status:            string(txn.Status),
		TransactionType:   string(txn.TransactionType),
		FailureReason:     txn.FailureReason,
		RefundAmount:      txn.RefundAmount,
		ProcessedAt:       txn.ProcessedAt,
		RefundedAt:        txn.RefundedAt,
		CreatedAt:         txn.CreatedAt,
	}
}

// TransactionsToResponses converts a slice of Transaction entities
func TransactionsToResponses(txns []entity.Transaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		responses = append(responses, *TransactionToResponse(&txns[i]))
	}
	return responses
}
