package persistence

import (
	"slices"
	"strings"

	"github.com/bizcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns is the ORDER BY whitelist of one listing. Client supplied
// column names never reach SQL unless they appear in columns.
type sortColumns struct {
	fallback string
	columns  []string
}

var (
	productSort        = sortColumns{fallback: "stock_quantity", columns: []string{"id", "name", "sku", "stock_quantity", "created_at", "updated_at"}}
	movementSort       = sortColumns{fallback: "created_at", columns: []string{"created_at", "quantity", "reason"}}
	commissionRuleSort = sortColumns{fallback: "created_at", columns: []string{"priority", "percentage", "created_at", "updated_at"}}
	commissionSort     = sortColumns{fallback: "earned_date", columns: []string{"earned_date", "amount", "status", "created_at"}}
	transactionSort    = sortColumns{fallback: "date", columns: []string{"date", "amount", "category", "created_at"}}
)

// column returns requested when whitelisted, else the fallback. Matching is
// case sensitive after trimming.
func (s sortColumns) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if slices.Contains(s.columns, requested) {
		return requested
	}
	return s.fallback
}

// direction is ASC only when asked for; everything else sorts newest/largest first.
func direction(requested string) string {
	if strings.EqualFold(strings.TrimSpace(requested), "asc") {
		return "ASC"
	}
	return "DESC"
}

// paginate orders by the whitelisted column, breaks ties on id and applies
// the page window. A zero PageSize returns every row.
func (s sortColumns) paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	col := s.column(filter.OrderBy)
	query = query.Order(col + " " + direction(filter.OrderDir))
	if col != "id" {
		query = query.Order("id")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
