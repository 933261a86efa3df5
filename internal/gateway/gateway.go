package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is a payment order registered with the gateway before checkout.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Refund is the gateway's record of a refund against a captured payment.
type Refund struct {
	ID     string
	Amount int64
	Status string
}

// PaymentGateway abstracts the payment provider. Amounts cross this
// boundary in minor currency units (paise for INR).
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
	Refund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	Key() string
}

// SignHMAC returns the hex encoded HMAC-SHA256 of payload under secret.
func SignHMAC(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC compares an expected hex HMAC-SHA256 against the provided
// signature in constant time.
func VerifyHMAC(secret string, payload []byte, signature string) bool {
	expected := SignHMAC(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
