package inventory

import (
	"strings"

	"github.com/avmartell/stockroom-backend/pkg/enums"
	"github.com/avmartell/stockroom-backend/pkg/models"
)

// Filter narrows an item listing. Zero-valued fields match everything.
type Filter struct {
	// Query is a case-insensitive substring matched across name, sku,
	// location, category and supplier.
	Query string
	// Category and Supplier match exactly after normalization.
	Category string
	Supplier string
	// Stock keeps only items in the given stock bucket.
	Stock enums.StockLevel
}

// Match reports whether the item passes every set criterion.
func (f Filter) Match(item models.Item) bool {
	if q := models.Fold(f.Query); q != "" {
		hay := []string{item.Name, item.SKU, item.Location, item.Category, item.Supplier}
		found := false
		for _, field := range hay {
			if strings.Contains(models.Fold(field), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c := models.Fold(f.Category); c != "" && models.Fold(item.Category) != c {
		return false
	}
	if s := models.Fold(f.Supplier); s != "" && models.Fold(item.Supplier) != s {
		return false
	}
	if f.Stock != "" && enums.ClassifyStock(item.Qty, item.MinQty) != f.Stock {
		return false
	}
	return true
}

// Apply returns the items passing the filter, preserving order.
func Apply(items []models.Item, f Filter) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}
