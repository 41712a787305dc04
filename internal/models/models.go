package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description,omitempty"`
	Price         decimal.Decimal `db:"price" json:"price"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	SoldQuantity  int             `db:"sold_quantity" json:"sold_quantity"`
	CategoryID    int64           `db:"category_id" json:"category_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// ProductDetail holds the free-text specification for a product
type ProductDetail struct {
	ID            int64  `db:"id" json:"id"`
	ProductID     int64  `db:"product_id" json:"product_id"`
	Specification string `db:"specification" json:"specification,omitempty"`
}

// Category groups products
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// Promotion is a time-bounded percentage discount
type Promotion struct {
	ID                 int64     `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description,omitempty"`
	DiscountPercentage int       `db:"discount_percentage" json:"discount_percentage"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
}

// ProductPromotion links a promotion to exactly one of a product or a category
type ProductPromotion struct {
	ID          int64  `db:"id" json:"id"`
	ProductID   *int64 `db:"product_id" json:"product_id,omitempty"`
	CategoryID  *int64 `db:"category_id" json:"category_id,omitempty"`
	PromotionID int64  `db:"promotion_id" json:"promotion_id"`
}

// Validate enforces the exactly-one-of {product, category} invariant.
func (pp *ProductPromotion) Validate() error {
	if pp.ProductID == nil && pp.CategoryID == nil {
		return Validation("promotion link must reference a product or a category")
	}
	if pp.ProductID != nil && pp.CategoryID != nil {
		return Validation("promotion link cannot reference both a product and a category")
	}
	return nil
}

// CartLine is a per-user line item. OrderID stays null while the line is
// editable; once set the line is immutable history.
type CartLine struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	OrderID   *int64    `db:"order_id" json:"order_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order represents a customer order. Guest orders carry the denormalized
// customer fields with no user reference.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	UserID          *int64          `db:"user_id" json:"user_id,omitempty"`
	CustomerName    string          `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone,omitempty"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address,omitempty"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status          string          `db:"status" json:"status"`
	StockApplied    bool            `db:"stock_applied" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// OrderDetail captures a product, quantity and unit price at order time
type OrderDetail struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// Payment is the at-most-one payment record of an order
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	OrderID       int64     `db:"order_id" json:"order_id"`
	Method        string    `db:"method" json:"method"`
	Status        string    `db:"status" json:"status"`
	TransactionID string    `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Review is a rating plus comment, at most one per (user, product)
type Review struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User is a customer account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin is a back-office account
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Email        string    `db:"email" json:"email"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AuditLog records a mutating action after the fact
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	Actor     string    `db:"actor" json:"actor"`
	Action    string    `db:"action" json:"action"`
	Entity    string    `db:"entity" json:"entity"`
	EntityID  int64     `db:"entity_id" json:"entity_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order statuses
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusInTransit  = "In transit"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// Payment statuses
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusPaid      = "Paid"
	PaymentStatusCancelled = "Cancelled"
)
