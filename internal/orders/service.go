package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/pdf"
)

// Service drives the pending-line checkout workflow and order reads.
type Service interface {
	CreateDetail(ctx context.Context, accountID uuid.UUID, input DetailInput) (*models.OrderDetail, error)
	UpdateDetail(ctx context.Context, accountID, productID uuid.UUID, input DetailInput) (*models.OrderDetail, error)
	ListPendingDetails(ctx context.Context, accountID uuid.UUID) ([]models.OrderDetail, error)
	ListAllDetails(ctx context.Context) ([]models.OrderDetail, error)
	DeleteDetail(ctx context.Context, id uuid.UUID) error

	PlaceOrder(ctx context.Context, accountID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	ListAccountOrders(ctx context.Context, accountID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderNumber string, razorpayID string) error
	GetSavedAddress(ctx context.Context, accountID uuid.UUID) (*models.SavedAddress, error)
	OrderSummaryPDF(ctx context.Context, orderNumber string) ([]byte, error)
}

// DetailInput is the payload for a pending order line.
type DetailInput struct {
	ProductID    uuid.UUID
	VariationIDs []uuid.UUID
	Metal        *string
	DiamondShape *string
	ShankType    *string
	Size         *string
	Price        decimal.Decimal
	Discount     *decimal.Decimal
	Quantity     int
}

// AddressInput is the shipping payload validated when saveInfo is set.
type AddressInput struct {
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Email      string `validate:"required,email"`
	Phone      string `validate:"required"`
	Address    string `validate:"required"`
	Apartment  *string
	City       string `validate:"required"`
	State      string `validate:"required"`
	PostalCode string `validate:"required"`
	Country    string `validate:"required"`
}

// PlaceOrderInput drives order creation from the account's pending lines.
type PlaceOrderInput struct {
	CouponCode *string
	SaveInfo   bool
	Address    *AddressInput
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productReader
	accounts accountReader
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, products productReader, accounts accountReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, products: products, accounts: accounts, logg: logg}, nil
}

func (s *service) CreateDetail(ctx context.Context, accountID uuid.UUID, input DetailInput) (*models.OrderDetail, error) {
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	detail := &models.OrderDetail{
		OrderNumber:  models.PendingOrderNumber,
		AccountID:    accountID,
		ProductID:    input.ProductID,
		VariationIDs: input.VariationIDs,
		Metal:        input.Metal,
		DiamondShape: input.DiamondShape,
		ShankType:    input.ShankType,
		Size:         input.Size,
		Price:        input.Price,
		Discount:     input.Discount,
		Quantity:     input.Quantity,
	}
	created, err := s.repo.CreateDetail(ctx, detail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order detail")
	}
	return created, nil
}

func (s *service) UpdateDetail(ctx context.Context, accountID, productID uuid.UUID, input DetailInput) (*models.OrderDetail, error) {
	detail, err := s.repo.FindPendingDetail(ctx, accountID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pending order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order detail")
	}

	if input.Quantity > 0 {
		detail.Quantity = input.Quantity
	}
	if len(input.VariationIDs) > 0 {
		detail.VariationIDs = input.VariationIDs
	}
	if input.Metal != nil {
		detail.Metal = input.Metal
	}
	if input.DiamondShape != nil {
		detail.DiamondShape = input.DiamondShape
	}
	if input.ShankType != nil {
		detail.ShankType = input.ShankType
	}
	if input.Size != nil {
		detail.Size = input.Size
	}
	if !input.Price.IsZero() {
		detail.Price = input.Price
	}
	if input.Discount != nil {
		detail.Discount = input.Discount
	}

	updated, err := s.repo.UpdateDetail(ctx, detail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order detail")
	}
	return updated, nil
}

func (s *service) ListPendingDetails(ctx context.Context, accountID uuid.UUID) ([]models.OrderDetail, error) {
	details, err := s.repo.ListPendingDetails(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pending order details")
	}
	return details, nil
}

func (s *service) ListAllDetails(ctx context.Context) ([]models.OrderDetail, error) {
	details, err := s.repo.ListAllDetails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list order details")
	}
	return details, nil
}

func (s *service) DeleteDetail(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeleteDetail(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order detail")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Order item not found")
	}
	return nil
}

// PlaceOrder turns the account's pending lines into a numbered order.
// Counter bump, order insert, line stamping, address upsert and stock
// decrement all commit or roll back together.
func (s *service) PlaceOrder(ctx context.Context, accountID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	pending, err := s.repo.ListPendingDetails(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pending order details")
	}
	if len(pending) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No pending order items found")
	}
	if input.SaveInfo && input.Address == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required when saveInfo is set")
	}

	discountTotal, totalPrice := computeTotals(pending)

	var order *models.Order
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		seq, err := txRepo.NextOrderSeq(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bump order counter")
		}
		orderNumber := FormatOrderNumber(seq)

		order = &models.Order{
			OrderNumber:   orderNumber,
			AccountID:     accountID,
			DiscountTotal: discountTotal,
			TotalPrice:    totalPrice,
			CouponCode:    input.CouponCode,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusUnpaid,
		}
		if _, err := txRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}

		stamped, err := txRepo.StampPendingDetails(ctx, accountID, orderNumber)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stamp order details")
		}
		if stamped == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "No pending order items found")
		}

		if input.SaveInfo {
			address := &models.SavedAddress{
				AccountID:  accountID,
				FirstName:  strings.TrimSpace(input.Address.FirstName),
				LastName:   strings.TrimSpace(input.Address.LastName),
				Email:      strings.TrimSpace(input.Address.Email),
				Phone:      strings.TrimSpace(input.Address.Phone),
				Address:    strings.TrimSpace(input.Address.Address),
				Apartment:  input.Address.Apartment,
				City:       strings.TrimSpace(input.Address.City),
				State:      strings.TrimSpace(input.Address.State),
				PostalCode: strings.TrimSpace(input.Address.PostalCode),
				Country:    strings.TrimSpace(input.Address.Country),
			}
			if err := txRepo.UpsertSavedAddress(ctx, address); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save address")
			}
		}

		for _, line := range pending {
			affected, err := txRepo.DecrementProductQuantity(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement product stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock for one or more items")
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_number": order.OrderNumber,
		"account_id":   accountID.String(),
	})
	s.logg.Info(ctx, "orders.placed")
	return s.GetOrder(ctx, order.OrderNumber)
}

func (s *service) ListOrders(ctx context.Context) ([]models.Order, error) {
	out, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.repo.FindOrderByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) ListAccountOrders(ctx context.Context, accountID uuid.UUID) ([]models.Order, error) {
	out, err := s.repo.ListOrdersByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list account orders")
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	affected, err := s.repo.UpdateOrderStatus(ctx, orderNumber, string(parsed))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_number": orderNumber, "status": string(parsed)})
	s.logg.Info(ctx, "orders.status.updated")
	return s.GetOrder(ctx, orderNumber)
}

// MarkPaid stamps the razorpay id and flips the payment status after a
// verified payment.
func (s *service) MarkPaid(ctx context.Context, orderNumber string, razorpayID string) error {
	affected, err := s.repo.UpdatePaymentStatus(ctx, orderNumber, string(enums.PaymentStatusPaid), &razorpayID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update payment status")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_number", orderNumber), "orders.payment.confirmed")
	return nil
}

func (s *service) GetSavedAddress(ctx context.Context, accountID uuid.UUID) (*models.SavedAddress, error) {
	address, err := s.repo.FindSavedAddress(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Saved address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load saved address")
	}
	return address, nil
}

// OrderSummaryPDF renders the order as a downloadable summary document.
func (s *service) OrderSummaryPDF(ctx context.Context, orderNumber string) ([]byte, error) {
	order, err := s.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	summary := pdf.OrderSummary{
		OrderNumber:   order.OrderNumber,
		PlacedAt:      order.CreatedAt.Format("Jan 2, 2006"),
		DiscountTotal: order.DiscountTotal,
		TotalPrice:    order.TotalPrice,
	}
	if account, err := s.accounts.FindByID(ctx, order.AccountID); err == nil {
		summary.CustomerName = account.Name
		summary.CustomerEmail = account.Email
	}

	for _, line := range order.Details {
		name := "Item"
		if product, err := s.products.FindByID(ctx, line.ProductID); err == nil {
			name = product.Name
		}
		summary.Lines = append(summary.Lines, pdf.OrderLine{
			ProductName: name,
			Metal:       stringValue(line.Metal),
			Size:        stringValue(line.Size),
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}

	buf, err := pdf.RenderOrderSummary(summary)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render order pdf")
	}
	return buf, nil
}

// FormatOrderNumber zero-pads to four digits; the width grows naturally
// past 9999.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%04d", seq)
}

func computeTotals(lines []models.OrderDetail) (discountTotal, totalPrice decimal.Decimal) {
	discountTotal = decimal.Zero
	totalPrice = decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		totalPrice = totalPrice.Add(line.Price.Mul(qty))
		if line.Discount != nil {
			discountTotal = discountTotal.Add(line.Discount.Mul(qty))
		}
	}
	totalPrice = totalPrice.Sub(discountTotal)
	if totalPrice.Sign() < 0 {
		totalPrice = decimal.Zero
	}
	return discountTotal, totalPrice
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
