package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS order_counters (
  key TEXT PRIMARY KEY,
  seq INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  account_id TEXT NOT NULL,
  razorpay_id TEXT,
  discount_total NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  coupon_code TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'Unpaid',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_details (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL DEFAULT '0',
  account_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variation_ids TEXT NOT NULL DEFAULT '{}',
  metal TEXT,
  diamond_shape TEXT,
  shank_type TEXT,
  size TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  quantity INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS saved_addresses (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  account_id TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  apartment TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestNextOrderSeqStartsAtOneAndIncrements(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.NextOrderSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, "0001", FormatOrderNumber(first))

	second, err := repo.NextOrderSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}

func TestStampPendingDetails(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	otherAccount := uuid.New()
	for _, owner := range []uuid.UUID{accountID, accountID, otherAccount} {
		detail := &models.OrderDetail{
			ID:          uuid.New(),
			OrderNumber: models.PendingOrderNumber,
			AccountID:   owner,
			ProductID:   uuid.New(),
			Price:       decimal.NewFromInt(100),
			Quantity:    1,
		}
		_, err := repo.CreateDetail(ctx, detail)
		require.NoError(t, err)
	}

	stamped, err := repo.StampPendingDetails(ctx, accountID, "0007")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stamped)

	remaining, err := repo.ListPendingDetails(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	untouched, err := repo.ListPendingDetails(ctx, otherAccount)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}

func TestDecrementProductQuantityRefusesNegative(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO products (id, quantity) VALUES (?, 3)`, productID).Error)

	affected, err := repo.DecrementProductQuantity(ctx, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// only 1 left, asking for 2 must refuse
	affected, err = repo.DecrementProductQuantity(ctx, productID, 2)
	require.NoError(t, err)
	assert.Zero(t, affected)

	var qty int
	require.NoError(t, db.Raw(`SELECT quantity FROM products WHERE id = ?`, productID).Scan(&qty).Error)
	assert.Equal(t, 1, qty)
}

func TestUpsertSavedAddressReplaces(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	address := &models.SavedAddress{
		AccountID:  accountID,
		FirstName:  "Ava",
		LastName:   "Sharma",
		Email:      "ava@example.com",
		Phone:      "9999999999",
		Address:    "12 Marine Drive",
		City:       "Mumbai",
		State:      "MH",
		PostalCode: "400001",
		Country:    "IN",
	}
	require.NoError(t, repo.UpsertSavedAddress(ctx, address))

	address.City = "Pune"
	address.PostalCode = "411001"
	require.NoError(t, repo.UpsertSavedAddress(ctx, address))

	stored, err := repo.FindSavedAddress(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", stored.City)
	assert.Equal(t, "411001", stored.PostalCode)

	var count int64
	require.NoError(t, db.Raw(`SELECT count(*) FROM saved_addresses WHERE account_id = ?`, accountID).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrderByNumberWithDetails(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "0042",
		AccountID:   accountID,
		TotalPrice:  decimal.NewFromInt(2500),
	}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	detail := &models.OrderDetail{
		ID:          uuid.New(),
		OrderNumber: "0042",
		AccountID:   accountID,
		ProductID:   uuid.New(),
		Price:       decimal.NewFromInt(2500),
		Quantity:    1,
	}
	_, err = repo.CreateDetail(ctx, detail)
	require.NoError(t, err)

	loaded, err := repo.FindOrderByNumber(ctx, "0042")
	require.NoError(t, err)
	assert.Len(t, loaded.Details, 1)
	assert.Equal(t, detail.ID, loaded.Details[0].ID)
}
