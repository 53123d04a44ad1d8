package location

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/location"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateLocationRequest carries the input for registering a location
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address,omitempty"`
}

// UpdateLocationRequest carries the editable location fields
type UpdateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address,omitempty"`
}

// LocationResponse is the outward representation of a location
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocationResponse maps a location to its response representation
func NewLocationResponse(loc *location.Location) *LocationResponse {
	return &LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		Address:   loc.Address,
		IsActive:  loc.IsActive,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

// LocationService manages stock locations
type LocationService struct {
	locationRepo location.LocationRepository
	logger       *zap.Logger
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo location.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{locationRepo: locationRepo, logger: logger}
}

// CreateLocation registers a new location
func (s *LocationService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	loc, err := location.NewLocation(req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("location created",
		zap.String("location_id", loc.ID.String()),
		zap.String("name", loc.Name))

	return NewLocationResponse(loc), nil
}

// UpdateLocation edits a location
func (s *LocationService) UpdateLocation(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	loc, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loc.Update(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, loc); err != nil {
		return nil, err
	}
	return NewLocationResponse(loc), nil
}

// GetLocation loads a single location
func (s *LocationService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	loc, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewLocationResponse(loc), nil
}

// ListLocations returns paginated locations
func (s *LocationService) ListLocations(ctx context.Context, filter shared.Filter) (*shared.Paginated[LocationResponse], error) {
	page, err := s.locationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LocationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewLocationResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// DeactivateLocation soft-disables a location
func (s *LocationService) DeactivateLocation(ctx context.Context, id uuid.UUID) error {
	loc, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	loc.Deactivate()
	return s.locationRepo.Save(ctx, loc)
}
