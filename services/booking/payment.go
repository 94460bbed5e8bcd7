package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solace/models"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// PaymentBridge opens external payment orders and verifies payment signatures.
// Verification is purely local: HMAC-SHA256 over "orderId|paymentId" with the
// gateway key secret, hex encoded.
type PaymentBridge interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*models.PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayBridge is the production PaymentBridge.
type RazorpayBridge struct {
	client    *razorpay.Client
	keySecret string
	logger    *zap.Logger
}

// NewRazorpayBridge constructs a bridge from gateway credentials.
func NewRazorpayBridge(keyID, keySecret string, logger *zap.Logger) *RazorpayBridge {
	return &RazorpayBridge{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
		logger:    logger,
	}
}

func (b *RazorpayBridge) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*models.PaymentOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := b.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("payment gateway returned no order id")
	}

	b.logger.Info("Opened payment order",
		zap.String("orderId", orderID),
		zap.Int64("amount", amountMinor),
		zap.String("receipt", receipt),
	)

	return &models.PaymentOrder{
		OrderID:  orderID,
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

// VerifySignature recomputes the expected signature and compares it in
// constant time.
func (b *RazorpayBridge) VerifySignature(orderID, paymentID, signature string) bool {
	expected := ExpectedSignature(b.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ExpectedSignature computes HMAC-SHA256(secret, "{orderId}|{paymentId}")
// hex encoded — the gateway's payment-completion signature scheme.
func ExpectedSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
