package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/razorpay"
)

type stubGateway struct {
	created   []string
	validSig  bool
	gatewayID string
}

func (g *stubGateway) CreateOrder(_ context.Context, amount decimal.Decimal, receipt string) (*razorpay.GatewayOrder, error) {
	g.created = append(g.created, receipt)
	return &razorpay.GatewayOrder{
		ID:          g.gatewayID,
		AmountPaise: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    "INR",
		Receipt:     receipt,
	}, nil
}

func (g *stubGateway) VerifySignature(_, _, _ string) bool { return g.validSig }

func (g *stubGateway) KeyID() string { return "rzp_test_key" }

type stubOrderManager struct {
	orders map[string]*models.Order
	paid   map[string]string
}

func (m *stubOrderManager) GetOrder(_ context.Context, orderNumber string) (*models.Order, error) {
	order, ok := m.orders[orderNumber]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	return order, nil
}

func (m *stubOrderManager) MarkPaid(_ context.Context, orderNumber string, razorpayID string) error {
	if _, ok := m.orders[orderNumber]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	m.paid[orderNumber] = razorpayID
	return nil
}

func newPaymentsTestService(gw *stubGateway, orders *stubOrderManager) *service {
	return &service{
		gateway: gw,
		orders:  orders,
		logg:    logger.New(logger.Options{Level: logger.ParseLevel("error")}),
	}
}

func TestCreateGatewayOrder(t *testing.T) {
	gw := &stubGateway{gatewayID: "order_NXy123"}
	orders := &stubOrderManager{
		orders: map[string]*models.Order{
			"0042": {
				OrderNumber:   "0042",
				TotalPrice:    decimal.NewFromFloat(1299.50),
				PaymentStatus: enums.PaymentStatusUnpaid,
			},
		},
		paid: map[string]string{},
	}

	session, err := newPaymentsTestService(gw, orders).CreateGatewayOrder(context.Background(), "0042")
	require.NoError(t, err)
	assert.Equal(t, "order_NXy123", session.RazorpayOrderID)
	assert.Equal(t, int64(129950), session.AmountPaise)
	assert.Equal(t, "rzp_test_key", session.KeyID)
	assert.Equal(t, []string{"0042"}, gw.created)
}

func TestCreateGatewayOrderRejectsPaidOrder(t *testing.T) {
	gw := &stubGateway{gatewayID: "order_dup"}
	orders := &stubOrderManager{
		orders: map[string]*models.Order{
			"0042": {
				OrderNumber:   "0042",
				TotalPrice:    decimal.NewFromInt(500),
				PaymentStatus: enums.PaymentStatusPaid,
			},
		},
		paid: map[string]string{},
	}

	_, err := newPaymentsTestService(gw, orders).CreateGatewayOrder(context.Background(), "0042")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Empty(t, gw.created)
}

func TestVerifyPaymentMarksOrderPaid(t *testing.T) {
	gw := &stubGateway{validSig: true}
	orders := &stubOrderManager{
		orders: map[string]*models.Order{"0042": {OrderNumber: "0042"}},
		paid:   map[string]string{},
	}

	err := newPaymentsTestService(gw, orders).VerifyPayment(context.Background(), VerifyInput{
		OrderNumber:       "0042",
		RazorpayOrderID:   "order_NXy123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_abc", orders.paid["0042"])
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	gw := &stubGateway{validSig: false}
	orders := &stubOrderManager{
		orders: map[string]*models.Order{"0042": {OrderNumber: "0042"}},
		paid:   map[string]string{},
	}

	err := newPaymentsTestService(gw, orders).VerifyPayment(context.Background(), VerifyInput{
		OrderNumber:       "0042",
		RazorpayOrderID:   "order_NXy123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "forged",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Empty(t, orders.paid)
}
