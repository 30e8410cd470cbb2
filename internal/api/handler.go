package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService   *service.CatalogService
	orderService     *service.OrderService
	analyticsService *service.AnalyticsService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	analyticsService *service.AnalyticsService,
) *Handler {
	return &Handler{
		catalogService:   catalogService,
		orderService:     orderService,
		analyticsService: analyticsService,
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
		v1.GET("/catalog", h.listCatalog)
		v1.GET("/catalog/:id/variants", h.listVariants)
		v1.PATCH("/catalog/:id/stock", h.updateStock)

		v1.POST("/checkout", h.checkout)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/orders/:id/message", h.orderMessage)
		v1.PATCH("/orders/:id/status", h.updateStatus)
		v1.PATCH("/orders/:id/payment", h.updatePayment)
		v1.GET("/export/orders", h.exportOrders)

		v1.GET("/analytics/:window", h.dashboard)
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

// listCatalog returns the catalog with resolved prices
func (h *Handler) listCatalog(c *gin.Context) {
	entries, err := h.catalogService.ListCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load catalog",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// listVariants returns the active variants of a catalog item
func (h *Handler) listVariants(c *gin.Context) {
	itemID, ok := parseID(c)
	if !ok {
		return
	}

	variants, err := h.catalogService.ItemVariants(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load variants",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

type stockUpdateRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// updateStock sets the stock count on a catalog item
func (h *Handler) updateStock(c *gin.Context) {
	itemID, ok := parseID(c)
	if !ok {
		return
	}

	var req stockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalogService.UpdateStock(c.Request.Context(), itemID, *req.Stock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update stock",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "stock": *req.Stock})
}

// checkout handles cart submission
func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orderService.Checkout(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to submit order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listOrders returns orders, optionally filtered by status
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, lines, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": lines,
	})
}

// orderMessage renders the handoff message for an existing order
func (h *Handler) orderMessage(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	text, handoffURL, err := h.orderService.OrderMessage(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":    orderID,
		"message":     text,
		"handoff_url": handoffURL,
	})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateStatus moves an order through its lifecycle
func (h *Handler) updateStatus(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if errors.Is(err, service.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Invalid status transition",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update order status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
}

type paymentUpdateRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// updatePayment updates an order's payment field
func (h *Handler) updatePayment(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req paymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	err := h.orderService.UpdatePaymentStatus(c.Request.Context(), orderID, req.PaymentStatus)
	if errors.Is(err, service.ErrInvalidPaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid payment status",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update payment status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "payment_status": req.PaymentStatus})
}

// exportOrders streams the ledger export as a downloadable file
func (h *Handler) exportOrders(c *gin.Context) {
	blob, err := h.orderService.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate export",
			"details": err.Error(),
		})
		return
	}

	filename := "orders-" + uuid.New().String()[:8] + ".csv"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(blob))
}

// dashboard returns aggregated metrics for a window key
func (h *Handler) dashboard(c *gin.Context) {
	summary, err := h.analyticsService.Dashboard(c.Request.Context(), c.Param("window"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build dashboard",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID",
		})
		return 0, false
	}
	return id, true
}
