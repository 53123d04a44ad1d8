package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/ims/backend/internal/application/partner"
	purchasingapp "github.com/ims/backend/internal/application/purchasing"
)

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
	orderService    *purchasingapp.PurchaseOrderService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, orderService *purchasingapp.PurchaseOrderService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		orderService:    orderService,
	}
}

// RegisterRoutes registers supplier routes on the given group
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.POST("", h.Create)
	suppliers.GET("", h.List)
	suppliers.GET("/:id", h.GetByID)
	suppliers.GET("/:id/orders", h.ListOrders)
	suppliers.PUT("/:id", h.Update)
	suppliers.DELETE("/:id", h.Delete)
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// List returns a page of suppliers with derived payment status
func (h *SupplierHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	page, err := h.supplierService.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single supplier
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// ListOrders returns the supplier's purchase orders
func (h *SupplierHandler) ListOrders(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.ListOrdersBySupplier(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a supplier's contact details and payment terms
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partnerapp.UpdateSupplierRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Delete removes a supplier that has no purchase orders
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
