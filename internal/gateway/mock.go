package gateway

import (
	"fmt"
	"sync"
)

// MockGateway is an in-process stand-in for Razorpay used in local
// development and tests. Signatures are computed with the same HMAC
// scheme as the real gateway, so verification paths stay identical.
type MockGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string

	mu      sync.Mutex
	orders  map[string]*Order
	refunds map[string]*Refund
	seq     int
}

func NewMockGateway(keyID, keySecret, webhookSecret string) *MockGateway {
	return &MockGateway{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		orders:        make(map[string]*Order),
		refunds:       make(map[string]*Refund),
	}
}

func (g *MockGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	order := &Order{
		ID:       fmt.Sprintf("order_mock%06d", g.seq),
		Amount:   amount,
		Currency: currency,
	}
	g.orders[order.ID] = order
	return order, nil
}

func (g *MockGateway) Refund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	refund := &Refund{
		ID:     fmt.Sprintf("rfnd_mock%06d", g.seq),
		Amount: amount,
		Status: "processed",
	}
	g.refunds[refund.ID] = refund
	return refund, nil
}

func (g *MockGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	payload := orderID + "|" + paymentID
	return VerifyHMAC(g.keySecret, []byte(payload), signature)
}

func (g *MockGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyHMAC(g.webhookSecret, body, signature)
}

func (g *MockGateway) Key() string {
	return g.keyID
}

// SignPayment produces the checkout signature the gateway would return
// for an order/payment pair. Test helper.
func (g *MockGateway) SignPayment(orderID, paymentID string) string {
	return SignHMAC(g.keySecret, []byte(orderID+"|"+paymentID))
}

// SignWebhook produces the webhook signature header for a raw body.
// Test helper.
func (g *MockGateway) SignWebhook(body []byte) string {
	return SignHMAC(g.webhookSecret, body)
}
