package location

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// Location represents a physical stock location (warehouse, shop, van).
// Every stock record and movement is anchored to exactly one location.
type Location struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address  string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location
func NewLocation(name, address string) (*Location, error) {
	if err := validateLocationName(name); err != nil {
		return nil, err
	}

	return &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Address:           address,
		IsActive:          true,
	}, nil
}

// Update updates the location's information
func (l *Location) Update(name, address string) error {
	if err := validateLocationName(name); err != nil {
		return err
	}

	l.Name = strings.TrimSpace(name)
	l.Address = address
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Activate marks the location as active
func (l *Location) Activate() {
	l.IsActive = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Deactivate marks the location as inactive
func (l *Location) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

func validateLocationName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters long")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
