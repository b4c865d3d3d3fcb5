// Package allocate moves quantity between an item's free stock and a
// group's reservation lines. Two invariants hold across every operation:
// stock never goes negative, and quantity is only redistributed, never
// created or destroyed (except the documented orphan case, where the
// referenced item no longer exists). All operations are total: bad
// requested quantities are clamped, never rejected.
package allocate

import (
	"github.com/google/uuid"

	"github.com/avmartell/stockroom-backend/pkg/models"
)

// AdjustItemQty shifts free stock by delta, clamping at zero, and
// restores the cost invariant. It is the primitive under every group
// allocation as well as direct stock adjustments.
func AdjustItemQty(item *models.Item, delta int) {
	item.Qty += delta
	item.RecomputeCost()
}

// AddToGroup withdraws up to requested units from the item into the
// group and reports how many were actually taken. Nothing happens when
// the item has no free stock. The withdrawal is clamped to [1, item.Qty];
// an existing line for the item grows, otherwise a new line carrying the
// item's identity snapshot is prepended.
func AddToGroup(group *models.Group, item *models.Item, requested int) int {
	if item == nil || item.Qty <= 0 {
		return 0
	}

	taken := requested
	if taken < 1 {
		taken = 1
	}
	if taken > item.Qty {
		taken = item.Qty
	}

	AdjustItemQty(item, -taken)

	if line := lineFor(group, item.ID); line != nil {
		line.Qty += taken
		return taken
	}

	group.Items = append([]models.GroupLine{{
		ItemID:   item.ID,
		Qty:      taken,
		Name:     item.Name,
		Category: item.Category,
		SKU:      item.SKU,
	}}, group.Items...)
	return taken
}

// SetLineQty moves the line holding itemID toward desired (floored at 1).
// Increases are capped by the item's free stock and granted partially
// when short; a cap to zero is a silent no-op. Decreases always return
// the full difference. item may be nil when the referenced record has
// been deleted; a decrease then still shrinks the line and the returned
// stock is lost.
func SetLineQty(group *models.Group, itemID uuid.UUID, item *models.Item, desired int) {
	line := lineFor(group, itemID)
	if line == nil {
		return
	}

	if desired < 1 {
		desired = 1
	}
	delta := desired - line.Qty
	if delta == 0 {
		return
	}

	if delta > 0 {
		available := 0
		if item != nil {
			available = item.Qty
		}
		take := delta
		if take > available {
			take = available
		}
		if take <= 0 {
			return
		}
		AdjustItemQty(item, -take)
		line.Qty += take
		return
	}

	if item != nil {
		AdjustItemQty(item, -delta)
	}
	line.Qty = desired
}

// RemoveFromGroup returns the line's entire quantity to the item and
// deletes the line. item may be nil when the record has been deleted;
// the held stock is then lost with the line.
func RemoveFromGroup(group *models.Group, itemID uuid.UUID, item *models.Item) {
	idx := lineIndex(group, itemID)
	if idx < 0 {
		return
	}
	if item != nil {
		AdjustItemQty(item, group.Items[idx].Qty)
	}
	group.Items = append(group.Items[:idx], group.Items[idx+1:]...)
}

// Restock returns every line's held quantity to its item in place,
// ahead of the group record being deleted. Lines referencing items that
// no longer exist are skipped; their stock is lost.
func Restock(group models.Group, items []models.Item) {
	for _, line := range group.Items {
		if !line.Resolved() {
			continue
		}
		for i := range items {
			if items[i].ID == line.ItemID {
				AdjustItemQty(&items[i], line.Qty)
				break
			}
		}
	}
}

func lineFor(group *models.Group, itemID uuid.UUID) *models.GroupLine {
	idx := lineIndex(group, itemID)
	if idx < 0 {
		return nil
	}
	return &group.Items[idx]
}

func lineIndex(group *models.Group, itemID uuid.UUID) int {
	for i := range group.Items {
		if group.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
