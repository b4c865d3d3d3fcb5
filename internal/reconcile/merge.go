// Package reconcile decides how incoming item records interact with the
// existing catalog, and how group references survive a full reload from a
// store that does not preserve local identifiers. Everything here is pure:
// inputs are copied, never mutated.
package reconcile

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avmartell/stockroom-backend/pkg/models"
)

// ItemPatch is a fully resolved incoming record. A zero ID means the
// create path; otherwise it is an edit of the record with that ID. The
// caller resolves any omitted fields against the current record before
// handing the patch over.
type ItemPatch struct {
	ID          uuid.UUID
	Name        string
	SKU         string
	Category    string
	Supplier    string
	Location    string
	Description string
	Qty         int
	MinQty      int
	UnitPrice   decimal.Decimal
}

// MergeOnSave applies the save rules to a copy of the catalog and returns
// it. Create path: an existing item with the same (name, category) key
// absorbs the incoming quantity and keeps its own descriptive fields;
// otherwise a fresh record is prepended. Edit path: a plain field-wise
// overwrite, except that changing the category onto another record's key
// merges the edited record's quantity into that record and deletes the
// edited record entirely.
func MergeOnSave(existing []models.Item, incoming ItemPatch) []models.Item {
	items := make([]models.Item, len(existing))
	copy(items, existing)

	if incoming.ID == uuid.Nil {
		return mergeCreate(items, incoming)
	}
	return mergeEdit(items, incoming)
}

func mergeCreate(items []models.Item, incoming ItemPatch) []models.Item {
	key := models.KeyOf(incoming.Name, incoming.Category)
	for i := range items {
		if items[i].Key() == key {
			items[i].Qty += incoming.Qty
			items[i].RecomputeCost()
			return items
		}
	}

	fresh := newItem(incoming)
	return append([]models.Item{fresh}, items...)
}

func mergeEdit(items []models.Item, incoming ItemPatch) []models.Item {
	idx := indexByID(items, incoming.ID)
	if idx < 0 {
		return items
	}
	original := items[idx]

	if models.Fold(original.Category) == models.Fold(incoming.Category) {
		items[idx] = overwrite(original, incoming)
		return items
	}

	key := models.KeyOf(incoming.Name, incoming.Category)
	for i := range items {
		if i == idx || items[i].Key() != key {
			continue
		}
		// Another record already owns the new identity: its quantity
		// absorbs the edited record's, and the edit itself is discarded.
		items[i].Qty += original.Qty
		items[i].RecomputeCost()
		return append(items[:idx], items[idx+1:]...)
	}

	items[idx] = overwrite(original, incoming)
	return items
}

func newItem(incoming ItemPatch) models.Item {
	item := models.Item{
		ID:          uuid.New(),
		Name:        incoming.Name,
		SKU:         incoming.SKU,
		Category:    incoming.Category,
		Supplier:    incoming.Supplier,
		Location:    incoming.Location,
		Description: incoming.Description,
		Qty:         incoming.Qty,
		MinQty:      incoming.MinQty,
		UnitPrice:   incoming.UnitPrice,
	}
	item.RecomputeCost()
	return item
}

func overwrite(original models.Item, incoming ItemPatch) models.Item {
	item := original
	item.Name = incoming.Name
	item.SKU = incoming.SKU
	item.Category = incoming.Category
	item.Supplier = incoming.Supplier
	item.Location = incoming.Location
	item.Description = incoming.Description
	item.Qty = incoming.Qty
	item.MinQty = incoming.MinQty
	item.UnitPrice = incoming.UnitPrice
	item.RecomputeCost()
	return item
}

func indexByID(items []models.Item, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
