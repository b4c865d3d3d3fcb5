package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avmartell/stockroom-backend/pkg/models"
)

func item(name, category string, qty int, unitPrice float64) models.Item {
	it := models.Item{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Qty:       qty,
		UnitPrice: decimal.NewFromFloat(unitPrice),
	}
	it.RecomputeCost()
	return it
}

func TestMergeOnSaveCreateMergesByIdentityKey(t *testing.T) {
	existing := []models.Item{item("Wire", "Misc", 10, 2)}
	existing[0].Supplier = "Hakko"

	result := MergeOnSave(existing, ItemPatch{
		Name:      "  wire ",
		Category:  "MISC",
		Supplier:  "SomeoneElse",
		Qty:       5,
		UnitPrice: decimal.NewFromInt(99),
	})

	if len(result) != 1 {
		t.Fatalf("expected no duplicate record, got %d items", len(result))
	}
	got := result[0]
	if got.Qty != 15 {
		t.Fatalf("expected merged qty 15, got %d", got.Qty)
	}
	if want := decimal.NewFromInt(30); !got.Cost.Equal(want) {
		t.Fatalf("expected cost from target's own unit price (30), got %s", got.Cost)
	}
	if got.Supplier != "Hakko" {
		t.Fatalf("merge must not overwrite descriptive fields, supplier became %q", got.Supplier)
	}
}

func TestMergeOnSaveCreateInsertsAtFront(t *testing.T) {
	existing := []models.Item{item("Wire", "Misc", 10, 2)}

	result := MergeOnSave(existing, ItemPatch{
		Name:      "Solder",
		Category:  "Consumables",
		Qty:       3,
		UnitPrice: decimal.NewFromFloat(1.5),
	})

	if len(result) != 2 {
		t.Fatalf("expected insert, got %d items", len(result))
	}
	fresh := result[0]
	if fresh.Name != "Solder" {
		t.Fatalf("expected new record first, got %q", fresh.Name)
	}
	if fresh.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if want := decimal.NewFromFloat(4.5); !fresh.Cost.Equal(want) {
		t.Fatalf("expected cost 4.5, got %s", fresh.Cost)
	}
}

func TestMergeOnSaveEditUnknownIDIsNoop(t *testing.T) {
	existing := []models.Item{item("Wire", "Misc", 10, 2)}

	result := MergeOnSave(existing, ItemPatch{
		ID:       uuid.New(),
		Name:     "Ghost",
		Category: "Misc",
		Qty:      1,
	})

	if len(result) != 1 || result[0].Name != "Wire" || result[0].Qty != 10 {
		t.Fatalf("expected untouched catalog, got %+v", result)
	}
}

func TestMergeOnSaveEditSameCategoryOverwrites(t *testing.T) {
	existing := []models.Item{item("Wire", "Misc", 10, 2)}
	id := existing[0].ID

	result := MergeOnSave(existing, ItemPatch{
		ID:        id,
		Name:      "Wire AWG24",
		SKU:       "W-24",
		Category:  "misc",
		Supplier:  "Yageo",
		Qty:       4,
		MinQty:    2,
		UnitPrice: decimal.NewFromInt(3),
	})

	if len(result) != 1 {
		t.Fatalf("expected one record, got %d", len(result))
	}
	got := result[0]
	if got.ID != id {
		t.Fatal("edit must keep the record's id")
	}
	if got.Name != "Wire AWG24" || got.SKU != "W-24" || got.Supplier != "Yageo" {
		t.Fatalf("expected field-wise overwrite, got %+v", got)
	}
	if want := decimal.NewFromInt(12); !got.Cost.Equal(want) {
		t.Fatalf("expected recomputed cost 12, got %s", got.Cost)
	}
}

func TestMergeOnSaveCategoryChangeMergesIntoExisting(t *testing.T) {
	a := item("X", "C1", 7, 5)
	b := item("X", "C2", 3, 2)
	existing := []models.Item{a, b}

	result := MergeOnSave(existing, ItemPatch{
		ID:        a.ID,
		Name:      "X",
		Category:  "C2",
		Supplier:  "EditedSupplier",
		Qty:       7,
		UnitPrice: decimal.NewFromInt(100),
	})

	if len(result) != 1 {
		t.Fatalf("expected edited record deleted, got %d items", len(result))
	}
	got := result[0]
	if got.ID != b.ID {
		t.Fatal("expected the surviving record to be the pre-existing one")
	}
	if got.Qty != 10 {
		t.Fatalf("expected merged qty 10, got %d", got.Qty)
	}
	if want := decimal.NewFromInt(20); !got.Cost.Equal(want) {
		t.Fatalf("expected cost from survivor's own unit price (20), got %s", got.Cost)
	}
	if got.Supplier == "EditedSupplier" {
		t.Fatal("category-change merge must discard the edit's field changes")
	}
}

func TestMergeOnSaveCategoryChangeWithoutTargetIsRename(t *testing.T) {
	a := item("X", "C1", 7, 5)
	existing := []models.Item{a}

	result := MergeOnSave(existing, ItemPatch{
		ID:        a.ID,
		Name:      "X",
		Category:  "C3",
		Qty:       7,
		UnitPrice: decimal.NewFromInt(5),
	})

	if len(result) != 1 {
		t.Fatalf("expected one record, got %d", len(result))
	}
	if result[0].Category != "C3" || result[0].ID != a.ID {
		t.Fatalf("expected plain rename, got %+v", result[0])
	}
}

func TestMergeOnSaveDoesNotMutateInput(t *testing.T) {
	existing := []models.Item{item("Wire", "Misc", 10, 2)}

	_ = MergeOnSave(existing, ItemPatch{Name: "Wire", Category: "Misc", Qty: 5})

	if existing[0].Qty != 10 {
		t.Fatalf("input slice mutated: qty %d", existing[0].Qty)
	}
}
