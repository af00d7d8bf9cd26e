package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
)

type stubOrderAPI struct {
	lastData map[string]interface{}
	response map[string]interface{}
	err      error
}

func (s *stubOrderAPI) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.lastData = data
	return s.response, s.err
}

func TestCreateOrderConvertsToPaise(t *testing.T) {
	stub := &stubOrderAPI{response: map[string]interface{}{"id": "order_abc"}}
	client := &Client{orders: stub, keySecret: "secret", currency: "INR"}

	order, err := client.CreateOrder(context.Background(), decimal.NewFromFloat(1499.50), "0001")
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.ID != "order_abc" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	if order.AmountPaise != 149950 {
		t.Fatalf("expected 149950 paise, got %d", order.AmountPaise)
	}
	if stub.lastData["amount"] != int64(149950) {
		t.Fatalf("expected paise amount sent to gateway, got %v", stub.lastData["amount"])
	}
	if stub.lastData["currency"] != "INR" {
		t.Fatalf("expected INR currency, got %v", stub.lastData["currency"])
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := &Client{orders: &stubOrderAPI{}, currency: "INR"}
	if _, err := client.CreateOrder(context.Background(), decimal.Zero, "r"); err == nil {
		t.Fatal("expected zero amount to fail")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "test-secret"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("order_1|pay_1"))
	good := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature("order_1", "pay_1", good, secret) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifySignature("order_1", "pay_1", good, "other-secret") {
		t.Fatal("expected wrong secret to fail")
	}
	if VerifySignature("order_1", "pay_2", good, secret) {
		t.Fatal("expected wrong payment id to fail")
	}
	if VerifySignature("order_1", "pay_1", "", secret) {
		t.Fatal("expected empty signature to fail")
	}
}
