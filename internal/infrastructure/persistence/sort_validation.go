package persistence

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps an API sort column to its SQL expression.
// Unknown or empty columns resolve to defaultField.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	if expr, ok := allowedFields[strings.TrimSpace(sortField)]; ok {
		return expr
	}
	return allowedFields[defaultField]
}

// orderClause renders an ORDER BY expression for sort. A column outside
// allowedFields falls back to the listing default, direction included.
// Tiebreakers keep page boundaries stable between requests.
func orderClause(sort shared.SortParam, allowedFields map[string]string, fallback shared.SortParam, tiebreakers ...string) string {
	expr := ValidateSortField(sort.Column, allowedFields, "")
	dir := ValidateSortOrder(sort.Direction)
	if expr == "" {
		expr = ValidateSortField(fallback.Column, allowedFields, "")
		dir = ValidateSortOrder(fallback.Direction)
	}
	clause := expr + " " + dir
	for _, tb := range tiebreakers {
		if tb != "" && tb != expr {
			clause += ", " + tb + " " + dir
		}
	}
	return clause
}

// Listing defaults used when the requested column is not sortable
var (
	defaultProductSort  = shared.SortParam{Column: "createdAt", Direction: shared.SortDesc}
	defaultStoreSort    = shared.SortParam{Column: "createdAt", Direction: shared.SortDesc}
	defaultOrderSort    = shared.SortParam{Column: "createdAt", Direction: shared.SortDesc}
	defaultCustomerSort = shared.SortParam{Column: "createdAt", Direction: shared.SortAsc}
)

// ProductSortFields maps product sort columns to SQL
var ProductSortFields = map[string]string{
	"createdAt":   "products.created_at",
	"name":        "products.name",
	"price":       "products.price",
	"rating":      "products.rating",
	"inventory":   "products.inventory",
	"category":    "products.category",
	"subcategory": "products.subcategory",
	"id":          "products.id",
}

// StoreSortFields maps store sort columns to SQL
var StoreSortFields = map[string]string{
	"createdAt":       "stores.created_at",
	"name":            "stores.name",
	"id":              "stores.id",
	"stripeAccountId": "stores.stripe_account_id",
	"productCount":    "COUNT(products.id)",
}

// OrderSortFields maps order sort columns to SQL
var OrderSortFields = map[string]string{
	"createdAt": "orders.created_at",
	"amount":    "orders.amount",
	"status":    "orders.stripe_payment_intent_status",
	"email":     "orders.email",
	"id":        "orders.id",
	"storeId":   "orders.store_id",
}

// CustomerSortFields maps customer sort columns to SQL aggregates
var CustomerSortFields = map[string]string{
	"name":        "orders.name",
	"email":       "orders.email",
	"totalSpent":  "SUM(orders.amount)",
	"orderPlaced": "COUNT(*)",
	"createdAt":   "MIN(orders.created_at)",
}
