package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/location"
	"github.com/ims/backend/internal/domain/shared"
)

// AccessService resolves which locations a user may see. Admins reach
// every active location; staff are limited by their grants. Core
// services never enforce this themselves, the HTTP layer applies it
// before invoking them.
type AccessService struct {
	userRepo     identity.UserRepository
	locationRepo location.LocationRepository
}

// NewAccessService creates a new access service
func NewAccessService(userRepo identity.UserRepository, locationRepo location.LocationRepository) *AccessService {
	return &AccessService{userRepo: userRepo, locationRepo: locationRepo}
}

// AccessibleLocationIDs resolves the location IDs a user may query.
// The second return value is true for admins, meaning no restriction;
// a nil slice with false means no access at all.
func (s *AccessService) AccessibleLocationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	ids, all := user.ScopedLocationIDs()
	return ids, all, nil
}

// AccessibleLocations resolves the full location records for a user
func (s *AccessService) AccessibleLocations(ctx context.Context, userID uuid.UUID) ([]location.Location, error) {
	ids, all, err := s.AccessibleLocationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if all {
		filter := shared.DefaultFilter()
		filter.PageSize = 1000
		filter.Filters["is_active"] = true
		page, err := s.locationRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.locationRepo.FindByIDs(ctx, ids)
}

// CanAccessLocation checks one location against the user's scope
func (s *AccessService) CanAccessLocation(ctx context.Context, userID, locationID uuid.UUID) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.CanAccessLocation(locationID), nil
}
