package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/ims/backend/internal/application/identity"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles stock and movement endpoints. Every route
// is scoped to the locations the authenticated user may access.
type InventoryHandler struct {
	BaseHandler
	ledgerService *inventoryapp.LedgerService
	accessService *identityapp.AccessService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.LedgerService, accessService *identityapp.AccessService) *InventoryHandler {
	return &InventoryHandler{
		ledgerService: ledgerService,
		accessService: accessService,
	}
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	inv.POST("/movements", h.RecordMovement)
	inv.GET("/movements", h.ListMovements)
	inv.POST("/transfers", h.Transfer)
	inv.GET("/stock", h.ListStock)
	inv.GET("/products/:id/stock", h.GetProductStock)
}

// RecordMovement appends one movement to the stock ledger
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req inventoryapp.RecordMovementRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UserID = currentUserID(c)

	if !h.checkLocationAccess(c, req.LocationID) {
		return
	}
	if req.DestinationLocationID != nil && !h.checkLocationAccess(c, *req.DestinationLocationID) {
		return
	}

	movement, err := h.ledgerService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// Transfer moves stock between two locations
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req inventoryapp.TransferRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UserID = currentUserID(c)

	if !h.checkLocationAccess(c, req.FromLocationID) {
		return
	}
	if !h.checkLocationAccess(c, req.ToLocationID) {
		return
	}

	movement, err := h.ledgerService.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// ListStock returns stock balances within the user's location scope
func (h *InventoryHandler) ListStock(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}
	if c.Query("has_stock") == "true" {
		filter.Filters["has_stock"] = true
	}

	locationIDs, ok := h.scopedLocationIDs(c)
	if !ok {
		return
	}

	page, err := h.ledgerService.ListStockByLocations(c.Request.Context(), locationIDs, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovements returns ledger rows within the user's location scope
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}
	if movementType := c.Query("type"); movementType != "" {
		filter.Filters["type"] = movementType
	}
	if reference := c.Query("reference"); reference != "" {
		filter.Filters["reference"] = reference
	}
	for _, key := range []string{"date_from", "date_to"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid "+key+", expected RFC 3339")
			return
		}
		filter.Filters[key] = parsed
	}

	locationIDs, ok := h.scopedLocationIDs(c)
	if !ok {
		return
	}

	page, err := h.ledgerService.ListMovements(c.Request.Context(), locationIDs, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetProductStock returns one product's balance per accessible location
func (h *InventoryHandler) GetProductStock(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	stock, err := h.ledgerService.GetProductStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	locationIDs, ok := h.scopedLocationIDs(c)
	if !ok {
		return
	}
	if locationIDs != nil {
		allowed := make(map[uuid.UUID]struct{}, len(locationIDs))
		for _, id := range locationIDs {
			allowed[id] = struct{}{}
		}
		scoped := make([]*inventoryapp.StockResponse, 0, len(stock))
		for _, s := range stock {
			if _, ok := allowed[s.LocationID]; ok {
				scoped = append(scoped, s)
			}
		}
		stock = scoped
	}

	h.Success(c, stock)
}

// scopedLocationIDs resolves the location scope for list queries.
// A nil slice means unrestricted access. When a location_id query
// parameter is present the scope narrows to that single location.
func (h *InventoryHandler) scopedLocationIDs(c *gin.Context) ([]uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	ids, all, err := h.accessService.AccessibleLocationIDs(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}

	if locationParam := c.Query("location_id"); locationParam != "" {
		locationID, err := uuid.Parse(locationParam)
		if err != nil {
			h.BadRequest(c, "Invalid location ID")
			return nil, false
		}
		if !all && !containsID(ids, locationID) {
			h.Forbidden(c, "No access to the requested location")
			return nil, false
		}
		return []uuid.UUID{locationID}, true
	}

	if all {
		return nil, true
	}
	if ids == nil {
		// No grants and no default location: an empty scope, never
		// unrestricted access.
		ids = []uuid.UUID{}
	}
	return ids, true
}

// checkLocationAccess rejects the request when the user cannot act on
// the given location
func (h *InventoryHandler) checkLocationAccess(c *gin.Context, locationID uuid.UUID) bool {
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

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
