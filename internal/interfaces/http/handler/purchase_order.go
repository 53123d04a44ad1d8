package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/ims/backend/internal/application/identity"
	purchasingapp "github.com/ims/backend/internal/application/purchasing"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService  *purchasingapp.PurchaseOrderService
	accessService *identityapp.AccessService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService, accessService *identityapp.AccessService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService:  orderService,
		accessService: accessService,
	}
}

// RegisterRoutes registers purchase order routes on the given group
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.PUT("/:id", h.Update)
	orders.PATCH("/:id/status", h.UpdateStatus)
	orders.POST("/:id/approve", h.Approve)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/receive", h.Receive)
	orders.POST("/:id/pay", h.MarkPaid)
	orders.DELETE("/:id", h.Delete)
}

// MarkPaidRequest toggles an order's paid flag
type MarkPaidRequest struct {
	IsPaid bool `json:"is_paid"`
}

// Create opens a new purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchasingapp.CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UserID = currentUserID(c)

	if !h.checkLocationAccess(c, req.DestinationLocationID) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List returns a page of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if isPaid := c.Query("is_paid"); isPaid != "" {
		filter.Filters["is_paid"] = isPaid == "true"
	}
	if locationID := c.Query("destination_location_id"); locationID != "" {
		filter.Filters["destination_location_id"] = locationID
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single purchase order with its items
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Update edits a pending order's items, terms, and notes
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req purchasingapp.UpdateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus applies a requested status transition. A transition to
// received runs the full receiving flow, stock postings included.
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req purchasingapp.UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.Status == "received" && !h.checkOrderDestinationAccess(c, id) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Approve moves a pending order to approved
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels a pending or approved order
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive books the order's items into stock and closes the order
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if !h.checkOrderDestinationAccess(c, id) {
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPaid toggles the order's paid flag
func (h *PurchaseOrderHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req MarkPaidRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.MarkPaid(c.Request.Context(), id, req.IsPaid)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order that has not been received
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// checkOrderDestinationAccess verifies the user may receive into the
// order's destination location
func (h *PurchaseOrderHandler) checkOrderDestinationAccess(c *gin.Context, orderID uuid.UUID) bool {
	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return h.checkLocationAccess(c, order.DestinationLocationID)
}

func (h *PurchaseOrderHandler) checkLocationAccess(c *gin.Context, locationID uuid.UUID) bool {
	userID := middleware.GetUserID(c)
	allowed, err := h.accessService.CanAccessLocation(c.Request.Context(), userID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if !allowed {
		h.Forbidden(c, "No access to the requested location")
		return false
	}
	return true
}
