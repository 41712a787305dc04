package service

import (
	"context"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

// Narrow store interfaces consumed by the services. *store.Store satisfies
// all of them; tests substitute fakes.

// CatalogStore reads products and categories
type CatalogStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	ListProducts(ctx context.Context, categoryID *int64) ([]models.Product, error)
	GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error)
	GetSpecifications(ctx context.Context, productIDs []int64) (map[int64]string, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
}

// PromotionStore reads and writes promotions and their links
type PromotionStore interface {
	GetPromotionByID(ctx context.Context, id int64) (*models.Promotion, error)
	PromotionsForProduct(ctx context.Context, productID, categoryID int64) ([]models.Promotion, error)
	ListActivePromotions(ctx context.Context, now time.Time) ([]models.Promotion, error)
	CreatePromotion(ctx context.Context, promo *models.Promotion) error
	DeletePromotion(ctx context.Context, id int64) error
	CreatePromotionLink(ctx context.Context, link *models.ProductPromotion) error
	PromotionProducts(ctx context.Context, promotionID int64) ([]models.ProductPromotion, error)
	PromotionCategories(ctx context.Context, promotionID int64) ([]models.ProductPromotion, error)
}

// InventoryStore mutates product stock
type InventoryStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	AdjustStock(ctx context.Context, productID int64, delta int) (*models.Product, error)
}

// CartStore reads and writes cart lines and performs the checkout write
type CartStore interface {
	GetCartLine(ctx context.Context, id int64) (*models.CartLine, error)
	ListUnattachedLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	AddCartLine(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error)
	UpdateCartLineQuantity(ctx context.Context, lineID int64, quantity int) error
	DeleteCartLine(ctx context.Context, lineID int64) error
	CreateOrderFromCart(ctx context.Context, order *models.Order, details []models.OrderDetail,
		payment *models.Payment, cartLineIDs []int64) error
}

// OrderStore reads and writes orders
type OrderStore interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrderDetails(ctx context.Context, orderID int64) ([]models.OrderDetail, error)
	GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
	CreateOrder(ctx context.Context, order *models.Order, details []models.OrderDetail,
		payment *models.Payment) error
	TransitionOrder(ctx context.Context, orderID int64, to string) (*models.Order, error)
}

// UserStore reads customer accounts
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// AdminStore reads back-office accounts
type AdminStore interface {
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// ReviewStore reads and writes product reviews
type ReviewStore interface {
	UpsertReview(ctx context.Context, review *models.Review) error
	ListProductReviews(ctx context.Context, productID int64) ([]models.Review, error)
}

// StatsStore serves dashboard aggregates
type StatsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CompletedRevenue(ctx context.Context) (decimal.Decimal, error)
	TopProducts(ctx context.Context, limit int) ([]models.Product, error)
	OrderStatusCounts(ctx context.Context) ([]store.StatusCount, error)
	MonthlyRevenue(ctx context.Context, year int) ([]store.MonthRevenue, error)
}

// AuditStore reads persisted audit entries
type AuditStore interface {
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// SessionStore is a shared key-value store with TTL. Get returns nil with
// no error when the key is absent or expired.
type SessionStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
