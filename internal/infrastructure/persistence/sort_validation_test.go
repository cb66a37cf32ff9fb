package persistence

import (
	"testing"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
)

func TestSortColumns_Column(t *testing.T) {
	cases := map[string]string{
		"":                         "stock_quantity",
		"name":                     "name",
		"  sku ":                   "sku",
		"id":                       "id",
		"NAME":                     "stock_quantity",
		"cost_price":               "stock_quantity",
		"name; DROP TABLE products": "stock_quantity",
		"name'--":                  "stock_quantity",
	}
	for requested, want := range cases {
		assert.Equal(t, want, productSort.column(requested), "requested %q", requested)
	}

	assert.Equal(t, "earned_date", commissionSort.column("percentage"))
	assert.Equal(t, "percentage", commissionRuleSort.column("percentage"))
}

func TestDirection(t *testing.T) {
	for _, in := range []string{"asc", "ASC", " Asc "} {
		assert.Equal(t, "ASC", direction(in), in)
	}
	for _, in := range []string{"", "desc", "DESC", "ASC; --", "up"} {
		assert.Equal(t, "DESC", direction(in), in)
	}
}

func TestSortColumns_Paginate(t *testing.T) {
	db, lastSQL := newDryRunPostgres(t)

	var rows []models.ProductModel
	productSort.paginate(db.Model(&models.ProductModel{}), shared.Filter{
		Page: 3, PageSize: 10, OrderBy: "name", OrderDir: "asc",
	}).Find(&rows)

	sql := lastSQL()
	assert.Contains(t, sql, "ORDER BY name ASC,id")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")

	transactionSort.paginate(db.Model(&models.TransactionModel{}), shared.Filter{OrderBy: "id"}).
		Find(&[]models.TransactionModel{})

	sql = lastSQL()
	assert.Contains(t, sql, "ORDER BY date DESC,id")
	assert.NotContains(t, sql, "LIMIT")
}
