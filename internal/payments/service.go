package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/razorpay"
)

// Service drives the Razorpay checkout handoff for placed orders.
type Service interface {
	CreateGatewayOrder(ctx context.Context, orderNumber string) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, input VerifyInput) error
}

// CheckoutSession is everything the frontend widget needs to open checkout.
type CheckoutSession struct {
	OrderNumber     string          `json:"order_number"`
	RazorpayOrderID string          `json:"razorpay_order_id"`
	AmountPaise     int64           `json:"amount"`
	Currency        string          `json:"currency"`
	KeyID           string          `json:"key_id"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// VerifyInput carries the checkout callback fields.
type VerifyInput struct {
	OrderNumber       string `json:"order_number" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*razorpay.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type orderManager interface {
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderNumber string, razorpayID string) error
}

type service struct {
	gateway gateway
	orders  orderManager
	logg    *logger.Logger
}

// NewService constructs a payments service instance.
func NewService(gw *razorpay.Client, orders orderManager, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("razorpay client required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gw, orders: orders, logg: logg}, nil
}

func (s *service) CreateGatewayOrder(ctx context.Context, orderNumber string) (*CheckoutSession, error) {
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order is already paid")
	}
	if order.TotalPrice.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order total must be positive")
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, order.TotalPrice, order.OrderNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "razorpay: create order")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number":      order.OrderNumber,
		"razorpay_order_id": gatewayOrder.ID,
	}), "payments.gateway_order.created")

	return &CheckoutSession{
		OrderNumber:     order.OrderNumber,
		RazorpayOrderID: gatewayOrder.ID,
		AmountPaise:     gatewayOrder.AmountPaise,
		Currency:        gatewayOrder.Currency,
		KeyID:           s.gateway.KeyID(),
		TotalPrice:      order.TotalPrice,
	}, nil
}

// VerifyPayment validates the callback signature and marks the order paid.
// An invalid signature never touches the order.
func (s *service) VerifyPayment(ctx context.Context, input VerifyInput) error {
	if !s.gateway.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		s.logg.Warn(s.logg.WithField(ctx, "order_number", input.OrderNumber), "payments.verify.bad_signature")
		return pkgerrors.New(pkgerrors.CodeValidation, "Payment signature verification failed")
	}

	if err := s.orders.MarkPaid(ctx, input.OrderNumber, input.RazorpayPaymentID); err != nil {
		return err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number":        input.OrderNumber,
		"razorpay_payment_id": input.RazorpayPaymentID,
	}), "payments.verify.paid")
	return nil
}
