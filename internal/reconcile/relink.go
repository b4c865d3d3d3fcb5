package reconcile

import "github.com/avmartell/stockroom-backend/pkg/models"

// Relink re-associates group lines with local item identities after a
// remote reload. Only lines without a usable reference are touched: their
// (name, category, sku) snapshot is matched against the catalog, first
// match wins. Lines that match nothing stay unresolved; consumers skip
// them. Running Relink twice over the same inputs is a no-op.
func Relink(groups []models.Group, items []models.Item) []models.Group {
	out := models.CloneGroups(groups)

	index := make(map[models.LineKey]int, len(items))
	for i := range items {
		key := items[i].LineKey()
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	for g := range out {
		for l := range out[g].Items {
			line := &out[g].Items[l]
			if line.Resolved() {
				continue
			}
			if i, found := index[line.Key()]; found {
				line.ItemID = items[i].ID
			}
		}
	}
	return out
}
