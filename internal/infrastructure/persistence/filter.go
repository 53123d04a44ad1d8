package persistence

import (
	"strings"

	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies ordering and pagination from a shared.Filter.
// Column filters are applied by each repository before calling this,
// since valid filter keys differ per table.
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}
