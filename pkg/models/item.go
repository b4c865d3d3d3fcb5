package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one stock-keeping unit. Qty is free (unreserved) stock only;
// quantity held by groups lives on their lines, never here.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	Description string          `json:"description,omitempty"`
	Qty         int             `json:"qty"`
	MinQty      int             `json:"minQty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Cost        decimal.Decimal `json:"cost"`
}

// ItemKey is the duplicate-detection identity of an item. SKU is
// informational and deliberately not part of it.
type ItemKey struct {
	Name     string
	Category string
}

// LineKey is the three-field identity snapshot used to re-link group
// lines after a remote reload.
type LineKey struct {
	Name     string
	Category string
	SKU      string
}

// Fold normalizes a free-text identity field for matching.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KeyOf builds a normalized identity key from raw field values.
func KeyOf(name, category string) ItemKey {
	return ItemKey{Name: Fold(name), Category: Fold(category)}
}

// Key returns the item's normalized identity key.
func (i Item) Key() ItemKey {
	return KeyOf(i.Name, i.Category)
}

// LineKeyOf builds a normalized snapshot key from raw field values.
func LineKeyOf(name, category, sku string) LineKey {
	return LineKey{Name: Fold(name), Category: Fold(category), SKU: Fold(sku)}
}

// LineKey returns the item's normalized snapshot key.
func (i Item) LineKey() LineKey {
	return LineKeyOf(i.Name, i.Category, i.SKU)
}

// EnsureID assigns a fresh id when the item arrived without one.
func (i *Item) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
}

// RecomputeCost restores the cost invariant: qty never negative and
// cost == round(unitPrice * qty, 2), floored at zero.
func (i *Item) RecomputeCost() {
	if i.Qty < 0 {
		i.Qty = 0
	}
	cost := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty))).Round(2)
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	i.Cost = cost
}
