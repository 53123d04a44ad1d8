package handler

import (
	"github.com/gin-gonic/gin"

	locationapp "github.com/ims/backend/internal/application/location"
)

// LocationHandler handles stock location endpoints
type LocationHandler struct {
	BaseHandler
	locationService *locationapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *locationapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// RegisterRoutes registers location routes on the given group.
// Mutations are admin only, wired by the caller.
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	locations := rg.Group("/locations")
	locations.GET("", h.List)
	locations.GET("/:id", h.GetByID)
	locations.POST("", adminOnly, h.Create)
	locations.PUT("/:id", adminOnly, h.Update)
	locations.POST("/:id/deactivate", adminOnly, h.Deactivate)
}

// Create registers a new location
func (h *LocationHandler) Create(c *gin.Context) {
	var req locationapp.CreateLocationRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loc, err := h.locationService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, loc)
}

// List returns a page of locations
func (h *LocationHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	page, err := h.locationService.ListLocations(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single location
func (h *LocationHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	loc, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// Update changes a location's name and address
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	var req locationapp.UpdateLocationRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loc, err := h.locationService.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// Deactivate retires a location
func (h *LocationHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	if err := h.locationService.DeactivateLocation(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
