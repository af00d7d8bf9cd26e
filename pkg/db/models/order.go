package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/aurelia-jewels/aurelia-backend/pkg/db/types"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
)

// PendingOrderNumber marks order detail lines not yet attached to an order.
const PendingOrderNumber = "0"

// Order is a placed purchase. OrderNumber is the customer-facing
// sequential identifier ("0001", "0002", ...).
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;not null;uniqueIndex"`
	AccountID     uuid.UUID           `gorm:"column:account_id;type:uuid;not null;index:orders_account_id_idx"`
	RazorpayID    *string             `gorm:"column:razorpay_id"`
	DiscountTotal decimal.Decimal     `gorm:"column:discount_total;type:numeric(12,2);not null;default:0"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	CouponCode    *string             `gorm:"column:coupon_code"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:pending"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:Unpaid"`
	Details       []OrderDetail       `gorm:"foreignKey:OrderNumber;references:OrderNumber"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderCounter is a named sequence; the order workflow bumps the "order"
// row atomically to mint order numbers.
type OrderCounter struct {
	Key string `gorm:"column:key;primaryKey"`
	Seq int64  `gorm:"column:seq;not null;default:0"`
}

func (OrderCounter) TableName() string { return "order_counters" }

// OrderDetail is a single line: a product selection plus quantity.
// Lines are created before checkout with OrderNumber set to the pending
// sentinel and stamped when the order is placed.
type OrderDetail struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber  string            `gorm:"column:order_number;not null;default:'0';index:order_details_order_number_idx"`
	AccountID    uuid.UUID         `gorm:"column:account_id;type:uuid;not null;index:order_details_account_id_idx"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	VariationIDs dbtypes.UUIDArray `gorm:"column:variation_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	Metal        *string           `gorm:"column:metal"`
	DiamondShape *string           `gorm:"column:diamond_shape"`
	ShankType    *string           `gorm:"column:shank_type"`
	Size         *string           `gorm:"column:size"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Discount     *decimal.Decimal  `gorm:"column:discount;type:numeric(10,2)"`
	Quantity     int               `gorm:"column:quantity;not null;default:1"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// SavedAddress is the single shipping snapshot kept per account.
type SavedAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID  uuid.UUID `gorm:"column:account_id;type:uuid;not null;uniqueIndex"`
	FirstName  string    `gorm:"column:first_name;not null"`
	LastName   string    `gorm:"column:last_name;not null"`
	Email      string    `gorm:"column:email;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	Address    string    `gorm:"column:address;not null"`
	Apartment  *string   `gorm:"column:apartment"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	Country    string    `gorm:"column:country;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
