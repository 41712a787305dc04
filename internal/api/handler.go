package api

import (
	"net/http"
	"strconv"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth       *service.Authenticator
	sessions   *service.SessionGuard
	catalog    *service.CatalogService
	promotions *service.PromotionService
	reviews    *service.ReviewService
	inventory  *service.InventoryLedger
	carts      *service.CartService
	orders     *service.OrderService
	stats      *service.StatsService
	audit      service.AuditStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.Authenticator,
	sessions *service.SessionGuard,
	catalog *service.CatalogService,
	promotions *service.PromotionService,
	reviews *service.ReviewService,
	inventory *service.InventoryLedger,
	carts *service.CartService,
	orders *service.OrderService,
	stats *service.StatsService,
	audit service.AuditStore,
) *Handler {
	return &Handler{
		auth:       auth,
		sessions:   sessions,
		catalog:    catalog,
		promotions: promotions,
		reviews:    reviews,
		inventory:  inventory,
		carts:      carts,
		orders:     orders,
		stats:      stats,
		audit:      audit,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.loginCustomer)
		v1.POST("/auth/admin/login", h.loginAdmin)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/price", h.getProductPrice)
		v1.GET("/products/:id/promotions", h.getProductPromotions)
		v1.GET("/products/:id/reviews", h.listProductReviews)
		v1.GET("/promotions", h.listActivePromotions)

		authed := v1.Group("")
		authed.Use(h.authRequired())
		{
			authed.POST("/auth/logout", h.logout)
			authed.GET("/session/status", h.sessionStatus)
			authed.POST("/session/activity", h.sessionActivity)

			authed.GET("/orders/:id", h.getOrder)

			customer := authed.Group("")
			customer.Use(customerRequired())
			{
				customer.POST("/products/:id/reviews", h.submitReview)

				customer.GET("/cart", h.getCart)
				customer.POST("/cart/items", h.addCartItem)
				customer.PUT("/cart/items/:id", h.updateCartItem)
				customer.DELETE("/cart/items/:id", h.removeCartItem)
				customer.POST("/cart/checkout", h.checkout)

				customer.GET("/orders", h.listMyOrders)
				customer.POST("/orders/:id/cancel", h.cancelOrder)
			}

			admin := authed.Group("")
			admin.Use(adminRequired())
			{
				admin.POST("/orders", h.createOrder)
				admin.PUT("/orders/:id/status", h.updateOrderStatus)

				admin.POST("/inventory/:id/adjust", h.adjustStock)

				admin.POST("/admin/promotions", h.createPromotion)
				admin.GET("/admin/promotions/:id", h.getPromotionTargets)
				admin.DELETE("/admin/promotions/:id", h.deletePromotion)
				admin.POST("/admin/promotions/:id/links", h.linkPromotion)

				admin.GET("/admin/dashboard", h.dashboard)
				admin.GET("/admin/audit-logs", h.listAuditLogs)
			}
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.auth.RegisterCustomer(c.Request.Context(),
		req.Username, req.Password, req.Email, req.Phone, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) loginCustomer(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token, user, err := h.auth.LoginCustomer(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) loginAdmin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token, admin, err := h.auth.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "admin": admin})
}

func (h *Handler) logout(c *gin.Context) {
	principal := currentPrincipal(c)
	if err := h.sessions.Revoke(c.Request.Context(), principal.SessionKey()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// sessionStatus reports the sliding window state. The authRequired
// middleware already touched the session, so a fresh touch here reads the
// just-refreshed record.
func (h *Handler) sessionStatus(c *gin.Context) {
	principal := currentPrincipal(c)
	state, err := h.sessions.Touch(c.Request.Context(), principal.SessionKey())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) sessionActivity(c *gin.Context) {
	h.sessionStatus(c)
}

func (h *Handler) listProducts(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = &id
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("search"), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, detail, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"product": product}
	if detail != nil {
		resp["specification"] = detail.Specification
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProductPrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := h.catalog.PriceReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getProductPromotions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, _, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	promos, err := h.promotions.ForProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promos})
}

func (h *Handler) listActivePromotions(c *gin.Context) {
	promos, err := h.promotions.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promos})
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

func (h *Handler) submitReview(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    currentPrincipal(c).UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.reviews.Submit(c.Request.Context(), review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listProductReviews(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) getCart(c *gin.Context) {
	view, err := h.carts.GetCart(c.Request.Context(), currentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type cartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	line, err := h.carts.AddItem(c.Request.Context(),
		currentPrincipal(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	lineID, ok := pathID(c)
	if !ok {
		return
	}

	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	line, err := h.carts.UpdateItem(c.Request.Context(), lineID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	lineID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	PaymentMethod   string `json:"payment_method,omitempty"`
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, details, err := h.carts.Checkout(c.Request.Context(),
		currentPrincipal(c).UserID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "details": details})
}

// createOrder handles direct back-office order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, details, err := h.orders.CreateOrder(c.Request.Context(), &req, currentPrincipal(c).Actor())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "details": details})
}

// getOrder returns an order with details and payment. Customers can only
// read their own orders; admins can read any.
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, details, payment, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	principal := currentPrincipal(c)
	if principal.Kind == service.PrincipalCustomer {
		if order.UserID == nil || *order.UserID != principal.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
			return
		}
	}

	resp := gin.H{"order": order, "details": details}
	if payment != nil {
		resp["payment"] = payment
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListUserOrders(c.Request.Context(), currentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status, currentPrincipal(c).Actor())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), orderID, currentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type adjustStockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) adjustStock(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.inventory.ManualAdjust(c.Request.Context(),
		productID, req.Quantity, currentPrincipal(c).Actor())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) createPromotion(c *gin.Context) {
	var promo models.Promotion
	if err := c.ShouldBindJSON(&promo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.promotions.Create(c.Request.Context(), &promo, currentPrincipal(c).Actor()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *Handler) getPromotionTargets(c *gin.Context) {
	promoID, ok := pathID(c)
	if !ok {
		return
	}

	targets, err := h.promotions.Targets(c.Request.Context(), promoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (h *Handler) deletePromotion(c *gin.Context) {
	promoID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.promotions.Delete(c.Request.Context(), promoID, currentPrincipal(c).Actor()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type promotionLinkRequest struct {
	ProductID  *int64 `json:"product_id,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
}

func (h *Handler) linkPromotion(c *gin.Context) {
	promoID, ok := pathID(c)
	if !ok {
		return
	}

	var req promotionLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	link := &models.ProductPromotion{
		ProductID:   req.ProductID,
		CategoryID:  req.CategoryID,
		PromotionID: promoID,
	}
	if err := h.promotions.Link(c.Request.Context(), link, currentPrincipal(c).Actor()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) listAuditLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.audit.ListAuditLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}
