package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

// orderCounterKey names the sequence row minting order numbers.
const orderCounterKey = "order"

// Repository persists orders, order detail lines and saved addresses.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// NextOrderSeq atomically bumps the order counter and returns the new
// sequence value. Safe under concurrent checkouts: the upsert serializes
// on the counter row.
func (r *Repository) NextOrderSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (key, seq) VALUES (?, 1)
		 ON CONFLICT (key) DO UPDATE SET seq = order_counters.seq + 1
		 RETURNING seq`,
		orderCounterKey,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Details").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListOrdersByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Details").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderNumber string, status string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, orderNumber string, status string, razorpayID *string) (int64, error) {
	updates := map[string]any{"payment_status": status}
	if razorpayID != nil {
		updates["razorpay_id"] = *razorpayID
	}
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *Repository) CreateDetail(ctx context.Context, detail *models.OrderDetail) (*models.OrderDetail, error) {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return nil, err
	}
	return detail, nil
}

// FindPendingDetail locates the account's pending line for a product.
func (r *Repository) FindPendingDetail(ctx context.Context, accountID, productID uuid.UUID) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ? AND order_number = ?", accountID, productID, models.PendingOrderNumber).
		First(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) ListPendingDetails(ctx context.Context, accountID uuid.UUID) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND order_number = ?", accountID, models.PendingOrderNumber).
		Order("created_at ASC").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *Repository) ListAllDetails(ctx context.Context) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *Repository) UpdateDetail(ctx context.Context, detail *models.OrderDetail) (*models.OrderDetail, error) {
	if err := r.db.WithContext(ctx).Save(detail).Error; err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *Repository) DeleteDetail(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.OrderDetail{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// StampPendingDetails attaches every pending line of the account to the
// freshly minted order number.
func (r *Repository) StampPendingDetails(ctx context.Context, accountID uuid.UUID, orderNumber string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.OrderDetail{}).
		Where("account_id = ? AND order_number = ?", accountID, models.PendingOrderNumber).
		Update("order_number", orderNumber)
	return result.RowsAffected, result.Error
}

// DecrementProductQuantity refuses to drive stock negative; zero rows
// affected means insufficient stock.
func (r *Repository) DecrementProductQuantity(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		qty, productID, qty,
	)
	return result.RowsAffected, result.Error
}

// UpsertSavedAddress keeps the single shipping snapshot per account.
func (r *Repository) UpsertSavedAddress(ctx context.Context, address *models.SavedAddress) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO saved_addresses
		   (account_id, first_name, last_name, email, phone, address, apartment, city, state, postal_code, country)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (account_id) DO UPDATE SET
		   first_name = excluded.first_name,
		   last_name = excluded.last_name,
		   email = excluded.email,
		   phone = excluded.phone,
		   address = excluded.address,
		   apartment = excluded.apartment,
		   city = excluded.city,
		   state = excluded.state,
		   postal_code = excluded.postal_code,
		   country = excluded.country`,
		address.AccountID, address.FirstName, address.LastName, address.Email, address.Phone,
		address.Address, address.Apartment, address.City, address.State, address.PostalCode, address.Country,
	).Error
}

func (r *Repository) FindSavedAddress(ctx context.Context, accountID uuid.UUID) (*models.SavedAddress, error) {
	var address models.SavedAddress
	if err := r.db.WithContext(ctx).First(&address, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
