package service

import (
	"context"
	"fmt"
	"time"

	"shop-backoffice/internal/models"
)

// In-memory fakes for the store interfaces.

type fakeCatalogStore struct {
	products   map[int64]*models.Product
	specs      map[int64]string
	categories map[int64]*models.Category
}

func newFakeCatalog(products ...*models.Product) *fakeCatalogStore {
	f := &fakeCatalogStore{
		products:   make(map[int64]*models.Product),
		specs:      make(map[int64]string),
		categories: make(map[int64]*models.Category),
	}
	for _, p := range products {
		f.products[p.ID] = p
		if p.CategoryID != 0 {
			f.categories[p.CategoryID] = &models.Category{ID: p.CategoryID}
		}
	}
	return f
}

func (f *fakeCatalogStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, models.NotFoundf("product %d", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalogStore) GetProductsByIDs(_ context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListProducts(_ context.Context, categoryID *int64) ([]models.Product, error) {
	var out []models.Product
	for id := int64(1); id <= int64(len(f.products))+100; id++ {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeCatalogStore) GetProductDetail(_ context.Context, productID int64) (*models.ProductDetail, error) {
	spec, ok := f.specs[productID]
	if !ok {
		return nil, nil
	}
	return &models.ProductDetail{ProductID: productID, Specification: spec}, nil
}

func (f *fakeCatalogStore) GetSpecifications(_ context.Context, productIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range productIDs {
		if spec, ok := f.specs[id]; ok {
			out[id] = spec
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, models.NotFoundf("category %d", id)
	}
	return c, nil
}

type fakePromotionStore struct {
	byProduct  map[int64][]models.Promotion
	byCategory map[int64][]models.Promotion
	byID       map[int64]*models.Promotion
	links      []models.ProductPromotion
	nextLinkID int64
}

func newFakePromotions() *fakePromotionStore {
	return &fakePromotionStore{
		byProduct:  make(map[int64][]models.Promotion),
		byCategory: make(map[int64][]models.Promotion),
		byID:       make(map[int64]*models.Promotion),
	}
}

func (f *fakePromotionStore) GetPromotionByID(_ context.Context, id int64) (*models.Promotion, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, models.NotFoundf("promotion %d", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePromotionStore) PromotionsForProduct(_ context.Context, productID, categoryID int64) ([]models.Promotion, error) {
	out := append([]models.Promotion{}, f.byProduct[productID]...)
	out = append(out, f.byCategory[categoryID]...)
	return out, nil
}

func (f *fakePromotionStore) ListActivePromotions(_ context.Context, now time.Time) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range f.byID {
		if !now.Before(p.StartDate) && !now.After(p.EndDate) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) CreatePromotion(_ context.Context, promo *models.Promotion) error {
	promo.ID = int64(len(f.byID) + 1)
	copied := *promo
	f.byID[promo.ID] = &copied
	return nil
}

func (f *fakePromotionStore) DeletePromotion(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return models.NotFoundf("promotion %d", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePromotionStore) CreatePromotionLink(_ context.Context, link *models.ProductPromotion) error {
	f.nextLinkID++
	link.ID = f.nextLinkID
	f.links = append(f.links, *link)
	return nil
}

func (f *fakePromotionStore) PromotionProducts(_ context.Context, promotionID int64) ([]models.ProductPromotion, error) {
	var out []models.ProductPromotion
	for _, l := range f.links {
		if l.PromotionID == promotionID && l.ProductID != nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) PromotionCategories(_ context.Context, promotionID int64) ([]models.ProductPromotion, error) {
	var out []models.ProductPromotion
	for _, l := range f.links {
		if l.PromotionID == promotionID && l.CategoryID != nil {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.NotFoundf("user %d", id)
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, models.NotFoundf("user %s", username)
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

type fakeAdminStore struct {
	admins map[int64]*models.Admin
}

func newFakeAdmins(admins ...*models.Admin) *fakeAdminStore {
	f := &fakeAdminStore{admins: make(map[int64]*models.Admin)}
	for _, a := range admins {
		f.admins[a.ID] = a
	}
	return f
}

func (f *fakeAdminStore) GetAdminByID(_ context.Context, id int64) (*models.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, models.NotFoundf("admin %d", id)
	}
	return a, nil
}

func (f *fakeAdminStore) GetAdminByUsername(_ context.Context, username string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, models.NotFoundf("admin %s", username)
}

type fakeCartStore struct {
	lines       map[int64]*models.CartLine
	catalog     *fakeCatalogStore
	nextID      int64
	lastOrder   *models.Order
	lastDetails []models.OrderDetail
	lastPayment *models.Payment
}

func newFakeCarts() *fakeCartStore {
	return &fakeCartStore{lines: make(map[int64]*models.CartLine)}
}

func (f *fakeCartStore) GetCartLine(_ context.Context, id int64) (*models.CartLine, error) {
	l, ok := f.lines[id]
	if !ok {
		return nil, models.NotFoundf("cart line %d", id)
	}
	copied := *l
	return &copied, nil
}

// AddCartLine mirrors the store's transactional merge: one open line per
// (user, product), merged quantity checked against stock, failure leaves the
// cart untouched.
func (f *fakeCartStore) AddCartLine(_ context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	product, ok := f.catalog.products[productID]
	if !ok {
		return nil, models.NotFoundf("product %d", productID)
	}

	var existing *models.CartLine
	for _, l := range f.lines {
		if l.UserID == userID && l.ProductID == productID && l.OrderID == nil {
			existing = l
			break
		}
	}

	merged := quantity
	if existing != nil {
		merged += existing.Quantity
	}
	if merged > product.StockQuantity {
		return nil, fmt.Errorf("%w: only %d in stock",
			models.ErrInsufficientStock, product.StockQuantity)
	}

	if existing == nil {
		f.nextID++
		existing = &models.CartLine{ID: f.nextID, UserID: userID, ProductID: productID}
		f.lines[existing.ID] = existing
	}
	existing.Quantity = merged
	copied := *existing
	return &copied, nil
}

func (f *fakeCartStore) ListUnattachedLines(_ context.Context, userID int64) ([]models.CartLine, error) {
	var out []models.CartLine
	for id := int64(1); id <= f.nextID; id++ {
		l, ok := f.lines[id]
		if ok && l.UserID == userID && l.OrderID == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeCartStore) UpdateCartLineQuantity(_ context.Context, lineID int64, quantity int) error {
	l, ok := f.lines[lineID]
	if !ok || l.OrderID != nil {
		return models.NotFoundf("cart line %d", lineID)
	}
	l.Quantity = quantity
	return nil
}

func (f *fakeCartStore) DeleteCartLine(_ context.Context, lineID int64) error {
	l, ok := f.lines[lineID]
	if !ok || l.OrderID != nil {
		return models.NotFoundf("cart line %d", lineID)
	}
	delete(f.lines, lineID)
	return nil
}

func (f *fakeCartStore) CreateOrderFromCart(_ context.Context, order *models.Order,
	details []models.OrderDetail, payment *models.Payment, cartLineIDs []int64) error {
	order.ID = 1
	for i := range details {
		details[i].OrderID = order.ID
	}
	if payment != nil {
		payment.OrderID = order.ID
	}
	for _, id := range cartLineIDs {
		if l, ok := f.lines[id]; ok {
			orderID := order.ID
			l.OrderID = &orderID
		}
	}
	f.lastOrder = order
	f.lastDetails = details
	f.lastPayment = payment
	return nil
}

type fakeOrderStore struct {
	orders   map[int64]*models.Order
	details  map[int64][]models.OrderDetail
	payments map[int64]*models.Payment
	nextID   int64
}

func newFakeOrders() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   make(map[int64]*models.Order),
		details:  make(map[int64][]models.OrderDetail),
		payments: make(map[int64]*models.Payment),
	}
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.NotFoundf("order %d", id)
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) GetOrdersByUserID(_ context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrderDetails(_ context.Context, orderID int64) ([]models.OrderDetail, error) {
	return f.details[orderID], nil
}

func (f *fakeOrderStore) GetPaymentByOrderID(_ context.Context, orderID int64) (*models.Payment, error) {
	return f.payments[orderID], nil
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order,
	details []models.OrderDetail, payment *models.Payment) error {
	f.nextID++
	order.ID = f.nextID
	copied := *order
	f.orders[order.ID] = &copied
	f.details[order.ID] = details
	if payment != nil {
		payment.OrderID = order.ID
		f.payments[order.ID] = payment
	}
	return nil
}

func (f *fakeOrderStore) TransitionOrder(_ context.Context, orderID int64, to string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, models.NotFoundf("order %d", orderID)
	}
	if !models.ValidOrderStatus(to) {
		return nil, models.Validationf("unknown status %q", to)
	}
	if !models.CanTransition(o.Status, to) {
		return nil, models.ErrInvalidTransition
	}
	if o.Status != to {
		_, applied, _ := models.TransitionEffect(to, o.StockApplied)
		o.StockApplied = applied
		o.Status = to
	}
	copied := *o
	return &copied, nil
}

type fakeSink struct {
	events []interface{}
	keys   []string
}

func (f *fakeSink) PublishEvent(_ context.Context, key string, event interface{}) error {
	f.keys = append(f.keys, key)
	f.events = append(f.events, event)
	return nil
}
