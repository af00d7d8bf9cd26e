package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	razorpaygo "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
)

var paiseFactor = decimal.NewFromInt(100)

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK with the two operations checkout needs:
// creating a gateway order and verifying the callback signature.
type Client struct {
	orders    orderAPI
	keyID     string
	keySecret string
	currency  string
}

// GatewayOrder is the subset of the created order the API returns to clients.
type GatewayOrder struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

func NewClient(cfg config.RazorpayConfig) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	sdk := razorpaygo.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Client{
		orders:    sdk.Order,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  currency,
	}, nil
}

// KeyID returns the public key checkout widgets need.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order with the gateway. Amount is in major
// units and converted to paise here, the only place that conversion lives.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*GatewayOrder, error) {
	if c == nil || c.orders == nil {
		return nil, errors.New("razorpay client not initialized")
	}
	if amount.Sign() <= 0 {
		return nil, errors.New("amount must be positive")
	}

	paise := amount.Mul(paiseFactor).Round(0).IntPart()
	data := map[string]interface{}{
		"amount":   paise,
		"currency": c.currency,
		"receipt":  receipt,
	}

	body, err := c.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: missing id in response")
	}

	return &GatewayOrder{
		ID:          id,
		AmountPaise: paise,
		Currency:    c.currency,
		Receipt:     receipt,
	}, nil
}

// VerifySignature checks the checkout callback: the signature must be the
// hex HMAC-SHA256 of "<orderID>|<paymentID>" under the key secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// VerifySignature is the standalone form used by tests and webhook handlers.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
