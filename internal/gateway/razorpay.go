package gateway

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type razorpayGateway struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewRazorpayGateway builds a gateway backed by the Razorpay REST API.
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) PaymentGateway {
	return &razorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (g *razorpayGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok {
		return nil, fmt.Errorf("razorpay order create: missing order id in response")
	}
	return &Order{ID: id, Amount: amount, Currency: currency}, nil
}

func (g *razorpayGateway) Refund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error) {
	data := map[string]interface{}{}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Payment.Refund(paymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay refund: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok {
		return nil, fmt.Errorf("razorpay refund: missing refund id in response")
	}
	status, _ := body["status"].(string)
	return &Refund{ID: id, Amount: amount, Status: status}, nil
}

func (g *razorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	payload := orderID + "|" + paymentID
	return VerifyHMAC(g.keySecret, []byte(payload), signature)
}

func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyHMAC(g.webhookSecret, body, signature)
}

func (g *razorpayGateway) Key() string {
	return g.keyID
}
