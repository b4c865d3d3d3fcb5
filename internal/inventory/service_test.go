package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avmartell/stockroom-backend/internal/state"
	"github.com/avmartell/stockroom-backend/pkg/cache"
	"github.com/avmartell/stockroom-backend/pkg/enums"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/logger"
	"github.com/avmartell/stockroom-backend/pkg/models"
	"github.com/avmartell/stockroom-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *state.Store) {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	store := state.New(cache.NewMemory(), "items", "groups", log)
	svc, err := NewService(store)
	if err != nil {
		t.Fatal(err)
	}
	return svc, store
}

func seedItem(t *testing.T, svc Service, input ItemInput) models.Item {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), input)
	if err != nil {
		t.Fatalf("create %q: %v", input.Name, err)
	}
	return item
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

func TestCreateItemAssignsIDAndCost(t *testing.T) {
	svc, _ := newTestService(t)

	item := seedItem(t, svc, ItemInput{Name: "10k resistor", Category: "passives", Qty: 4, UnitPrice: price("0.02")})

	if item.ID == uuid.Nil {
		t.Fatal("expected an id")
	}
	if got := item.Cost.String(); got != "0.08" {
		t.Fatalf("cost = %s, want 0.08", got)
	}
}

func TestCreateItemMergesDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := seedItem(t, svc, ItemInput{Name: "10k Resistor", Category: "Passives", Qty: 10, UnitPrice: price("2.00"), Supplier: "mouser"})
	merged := seedItem(t, svc, ItemInput{Name: "  10K RESISTOR ", Category: "passives", Qty: 5, UnitPrice: price("9.99"), Supplier: "digikey"})

	if merged.ID != first.ID {
		t.Fatal("duplicate should merge into the existing record")
	}
	if merged.Qty != 15 {
		t.Fatalf("qty = %d, want 15", merged.Qty)
	}
	if got := merged.Cost.String(); got != "30" {
		t.Fatalf("cost = %s, want 30 (existing unit price)", got)
	}
	if merged.Supplier != "mouser" {
		t.Fatalf("supplier = %q, descriptive fields must not change", merged.Supplier)
	}

	page, err := svc.ListItems(ctx, Filter{}, pagination.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Fatalf("catalog holds %d items, want 1", page.Total)
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateItem(context.Background(), ItemInput{Name: "   ", Category: "", Qty: -1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("details = %#v", appErr.Details())
	}
	for _, field := range []string{"name", "category", "qty"} {
		if _, present := details[field]; !present {
			t.Fatalf("missing detail for %q in %v", field, details)
		}
	}
}

func TestUpdateItemOverwritesFields(t *testing.T) {
	svc, _ := newTestService(t)
	item := seedItem(t, svc, ItemInput{Name: "opamp", Category: "ics", Qty: 6, UnitPrice: price("1.00")})

	updated, err := svc.UpdateItem(context.Background(), item.ID, ItemUpdate{
		Qty: intPtr(3), UnitPrice: pricePtr("1.50"), Location: strPtr("bin 7"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Qty != 3 || updated.Location != "bin 7" {
		t.Fatalf("updated = %+v", updated)
	}
	if got := updated.Cost.String(); got != "4.5" {
		t.Fatalf("cost = %s, want 4.5", got)
	}
}

func TestUpdateItemOmittedFieldsKeepCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	item := seedItem(t, svc, ItemInput{Name: "hookup wire", Category: "misc", Supplier: "mouser", Qty: 60, UnitPrice: price("2.50")})

	updated, err := svc.UpdateItem(context.Background(), item.ID, ItemUpdate{Supplier: strPtr("acme")})
	if err != nil {
		t.Fatal(err)
	}

	if updated.Supplier != "acme" {
		t.Fatalf("supplier = %q, want acme", updated.Supplier)
	}
	if updated.Qty != 60 {
		t.Fatalf("qty = %d, an omitted qty must not be zeroed", updated.Qty)
	}
	if got := updated.UnitPrice.String(); got != "2.5" {
		t.Fatalf("unitPrice = %s, an omitted price must not be zeroed", got)
	}
	if got := updated.Cost.String(); got != "150" {
		t.Fatalf("cost = %s, want 150", got)
	}
}

func TestUpdateItemPicksEditedRecordAmongDuplicateKeys(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Duplicate identity keys can enter through a lenient remote pull.
	first := models.Item{ID: uuid.New(), Name: "clone", Category: "misc", Qty: 1, UnitPrice: price("1")}
	second := models.Item{ID: uuid.New(), Name: "clone", Category: "misc", Qty: 2, UnitPrice: price("1")}
	store.ReplaceAll(ctx, []models.Item{first, second}, nil)

	updated, err := svc.UpdateItem(ctx, second.ID, ItemUpdate{Location: strPtr("bin 3")})
	if err != nil {
		t.Fatal(err)
	}

	if updated.ID != second.ID {
		t.Fatalf("returned item %s, want the edited record %s", updated.ID, second.ID)
	}
	if updated.Location != "bin 3" || updated.Qty != 2 {
		t.Fatalf("updated = %+v", updated)
	}
	untouched, err := svc.GetItemByID(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if untouched.Location != "" || untouched.Qty != 1 {
		t.Fatalf("duplicate was modified: %+v", untouched)
	}
}

func TestUpdateItemCategoryChangeMergesAndDeletes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := seedItem(t, svc, ItemInput{Name: "lm358", Category: "ics", Qty: 4, UnitPrice: price("1.00")})
	b := seedItem(t, svc, ItemInput{Name: "lm358", Category: "analog", Qty: 6, UnitPrice: price("2.00")})

	survivor, err := svc.UpdateItem(ctx, a.ID, ItemUpdate{Name: strPtr("lm358"), Category: strPtr("analog"), Qty: intPtr(99), UnitPrice: pricePtr("50")})
	if err != nil {
		t.Fatal(err)
	}

	if survivor.ID != b.ID {
		t.Fatal("the key holder should survive the merge")
	}
	if survivor.Qty != 10 {
		t.Fatalf("qty = %d, want 10 (original qty folded in, edits discarded)", survivor.Qty)
	}
	if _, err := svc.GetItemByID(ctx, a.ID); pkgerrors.As(err) == nil {
		t.Fatal("edited record should be gone")
	}
}

func TestUpdateItemUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), ItemUpdate{Name: strPtr("x"), Category: strPtr("y")})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteItemLeavesGroupLinesOrphaned(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := seedItem(t, svc, ItemInput{Name: "relay", Category: "electromech", Qty: 9, UnitPrice: price("0.80")})

	_ = store.Update(ctx, func(snap *state.Snapshot) error {
		snap.Groups = append(snap.Groups, models.Group{
			ID:    uuid.New(),
			Name:  "door controller",
			Items: []models.GroupLine{{ItemID: item.ID, Qty: 2, Name: "relay", Category: "electromech"}},
		})
		return nil
	})

	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatal(err)
	}

	groups := store.Groups()
	if len(groups) != 1 || len(groups[0].Items) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Items[0].Qty != 2 {
		t.Fatal("orphaned line must keep its quantity")
	}
}

func TestDeleteItemUnknownIDIsSilent(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.DeleteItem(context.Background(), uuid.New()); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestAdjustItemQtyClampsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	item := seedItem(t, svc, ItemInput{Name: "led", Category: "opto", Qty: 3, UnitPrice: price("0.10")})

	adjusted, err := svc.AdjustItemQty(context.Background(), item.ID, -50)
	if err != nil {
		t.Fatal(err)
	}
	if adjusted.Qty != 0 || !adjusted.Cost.IsZero() {
		t.Fatalf("adjusted = %+v", adjusted)
	}
}

func TestAdjustItemQtyUnknownIDIsSilent(t *testing.T) {
	svc, _ := newTestService(t)

	adjusted, err := svc.AdjustItemQty(context.Background(), uuid.New(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if adjusted.ID != uuid.Nil {
		t.Fatalf("adjusted = %+v", adjusted)
	}
}

func TestListItemsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedItem(t, svc, ItemInput{Name: "10k resistor", SKU: "R-10K", Category: "passives", Supplier: "mouser", Location: "bin 1", Qty: 2, MinQty: 10, UnitPrice: price("0.02")})
	seedItem(t, svc, ItemInput{Name: "film capacitor", SKU: "C-100N", Category: "passives", Supplier: "digikey", Location: "bin 2", Qty: 50, MinQty: 10, UnitPrice: price("0.30")})
	seedItem(t, svc, ItemInput{Name: "atmega328", SKU: "IC-328", Category: "ics", Supplier: "mouser", Location: "drawer", Qty: 15, MinQty: 5, UnitPrice: price("2.40")})

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"query over sku", Filter{Query: "r-10k"}, 1},
		{"query over location", Filter{Query: "DRAWER"}, 1},
		{"category exact", Filter{Category: "Passives"}, 2},
		{"supplier exact", Filter{Supplier: "mouser"}, 2},
		{"low stock", Filter{Stock: enums.StockLevelLow}, 1},
		{"high stock", Filter{Stock: enums.StockLevelHigh}, 1},
		{"combined", Filter{Category: "passives", Supplier: "digikey"}, 1},
		{"no match", Filter{Query: "transformer"}, 0},
	}
	for _, tc := range cases {
		page, err := svc.ListItems(ctx, tc.filter, pagination.Params{})
		if err != nil {
			t.Fatal(err)
		}
		if page.Total != tc.want {
			t.Fatalf("%s: total = %d, want %d", tc.name, page.Total, tc.want)
		}
	}
}

func TestListItemsPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	seedItem(t, svc, ItemInput{Name: "a", Category: "c", Qty: 1, UnitPrice: price("1")})
	seedItem(t, svc, ItemInput{Name: "b", Category: "c", Qty: 1, UnitPrice: price("1")})
	seedItem(t, svc, ItemInput{Name: "d", Category: "c", Qty: 1, UnitPrice: price("1")})

	page, err := svc.ListItems(context.Background(), Filter{}, pagination.Params{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestNewItemsListFirst(t *testing.T) {
	svc, _ := newTestService(t)
	seedItem(t, svc, ItemInput{Name: "older", Category: "c", Qty: 1, UnitPrice: price("1")})
	newest := seedItem(t, svc, ItemInput{Name: "newer", Category: "c", Qty: 1, UnitPrice: price("1")})

	page, err := svc.ListItems(context.Background(), Filter{}, pagination.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Items[0].ID != newest.ID {
		t.Fatalf("first listed = %q", page.Items[0].Name)
	}
}

func TestListCategoriesMergesDefaultsAndCatalog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedItem(t, svc, ItemInput{Name: "widget", Category: "Custom Widgets", Qty: 1, UnitPrice: price("1")})
	seedItem(t, svc, ItemInput{Name: "other", Category: models.DefaultCategories[0], Qty: 1, UnitPrice: price("1")})

	got := svc.ListCategories(ctx)

	found := false
	for _, c := range got {
		if c == "Custom Widgets" {
			found = true
		}
	}
	if !found {
		t.Fatalf("categories = %v, missing catalog value", got)
	}
	counts := map[string]int{}
	for _, c := range got {
		counts[models.Fold(c)]++
	}
	for k, n := range counts {
		if n > 1 {
			t.Fatalf("category %q listed %d times", k, n)
		}
	}
}

func TestListSuppliersIncludesDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	got := svc.ListSuppliers(context.Background())
	if len(got) < len(models.DefaultSuppliers) {
		t.Fatalf("suppliers = %v", got)
	}
}
