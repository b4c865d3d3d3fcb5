package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avmartell/stockroom-backend/internal/allocate"
	"github.com/avmartell/stockroom-backend/internal/reconcile"
	"github.com/avmartell/stockroom-backend/internal/state"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/models"
	"github.com/avmartell/stockroom-backend/pkg/pagination"
)

// ItemInput captures the writable item fields. Saves always carry the
// whole record; the identity fields are trimmed before reconciliation.
type ItemInput struct {
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

// ItemUpdate carries an edit of an existing record. Nil fields were not
// sent and keep the record's current value, so a partial body can never
// zero out stock or price.
type ItemUpdate struct {
	Name        *string
	SKU         *string
	Category    *string
	Supplier    *string
	Location    *string
	Description *string
	Qty         *int
	MinQty      *int
	UnitPrice   *decimal.Decimal
}

func (u ItemUpdate) resolve(current models.Item) ItemInput {
	input := ItemInput{
		Name:        current.Name,
		SKU:         current.SKU,
		Category:    current.Category,
		Supplier:    current.Supplier,
		Location:    current.Location,
		Description: current.Description,
		Qty:         current.Qty,
		MinQty:      current.MinQty,
		UnitPrice:   current.UnitPrice,
	}
	if u.Name != nil {
		input.Name = *u.Name
	}
	if u.SKU != nil {
		input.SKU = *u.SKU
	}
	if u.Category != nil {
		input.Category = *u.Category
	}
	if u.Supplier != nil {
		input.Supplier = *u.Supplier
	}
	if u.Location != nil {
		input.Location = *u.Location
	}
	if u.Description != nil {
		input.Description = *u.Description
	}
	if u.Qty != nil {
		input.Qty = *u.Qty
	}
	if u.MinQty != nil {
		input.MinQty = *u.MinQty
	}
	if u.UnitPrice != nil {
		input.UnitPrice = *u.UnitPrice
	}
	return input
}

// ItemPage is one window of a filtered listing plus its full size.
type ItemPage struct {
	Items  []models.Item
	Total  int
	Limit  int
	Offset int
}

// Service exposes item catalog operations.
type Service interface {
	ListItems(ctx context.Context, filter Filter, page pagination.Params) (ItemPage, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (models.Item, error)
	CreateItem(ctx context.Context, input ItemInput) (models.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, update ItemUpdate) (models.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	AdjustItemQty(ctx context.Context, id uuid.UUID, delta int) (models.Item, error)
	ListCategories(ctx context.Context) []string
	ListSuppliers(ctx context.Context) []string
}

type service struct {
	store *state.Store
}

// NewService builds an item service on top of the shared state store.
func NewService(store *state.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	return &service{store: store}, nil
}

func (s *service) ListItems(_ context.Context, filter Filter, page pagination.Params) (ItemPage, error) {
	page = pagination.Normalize(page)
	filtered := Apply(s.store.Items(), filter)
	return ItemPage{
		Items:  pagination.Page(filtered, page),
		Total:  len(filtered),
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

func (s *service) GetItemByID(_ context.Context, id uuid.UUID) (models.Item, error) {
	for _, item := range s.store.Items() {
		if item.ID == id {
			return item, nil
		}
	}
	return models.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (models.Item, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return models.Item{}, err
	}

	var saved models.Item
	err := s.store.Update(ctx, func(snap *state.Snapshot) error {
		snap.Items = reconcile.MergeOnSave(snap.Items, patchFrom(uuid.Nil, input))
		// The create path lands on the first record holding the key:
		// either the absorbing duplicate or the freshly prepended one.
		key := models.KeyOf(input.Name, input.Category)
		for _, item := range snap.Items {
			if item.Key() == key {
				saved = item
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeInternal, "saved item missing after reconciliation")
	})
	if err != nil {
		return models.Item{}, err
	}
	return saved, nil
}

// UpdateItem overwrites the record's sent fields; omitted fields keep
// their current values. Changing the category onto another record's
// identity key folds this record into that one; the surviving record is
// returned either way.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, update ItemUpdate) (models.Item, error) {
	if id == uuid.Nil {
		return models.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	var saved models.Item
	err := s.store.Update(ctx, func(snap *state.Snapshot) error {
		idx := indexByID(snap.Items, id)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		input := update.resolve(snap.Items[idx]).normalized()
		if err := input.validate(); err != nil {
			return err
		}

		snap.Items = reconcile.MergeOnSave(snap.Items, patchFrom(id, input))
		// A plain overwrite keeps the edited id; a category change onto
		// another record's key leaves that record as the survivor. The
		// id lookup comes first so a stray duplicate key can never make
		// the handler return somebody else's record.
		if i := indexByID(snap.Items, id); i >= 0 {
			saved = snap.Items[i]
			return nil
		}
		key := models.KeyOf(input.Name, input.Category)
		for _, item := range snap.Items {
			if item.Key() == key {
				saved = item
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeInternal, "saved item missing after reconciliation")
	})
	if err != nil {
		return models.Item{}, err
	}
	return saved, nil
}

func patchFrom(id uuid.UUID, input ItemInput) reconcile.ItemPatch {
	return reconcile.ItemPatch{
		ID:          id,
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Supplier:    input.Supplier,
		Location:    input.Location,
		Description: input.Description,
		Qty:         input.Qty,
		MinQty:      input.MinQty,
		UnitPrice:   input.UnitPrice,
	}
}

func indexByID(items []models.Item, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// DeleteItem removes the record. Group lines referencing it are kept
// as-is and simply stop resolving; their held stock is not returned.
// An unknown id is a silent no-op.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.store.Update(ctx, func(snap *state.Snapshot) error {
		kept := snap.Items[:0]
		for _, item := range snap.Items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		snap.Items = kept
		return nil
	})
}

// AdjustItemQty shifts free stock by delta, clamped at zero. An unknown
// id is a silent no-op and returns the zero Item.
func (s *service) AdjustItemQty(ctx context.Context, id uuid.UUID, delta int) (models.Item, error) {
	var adjusted models.Item
	err := s.store.Update(ctx, func(snap *state.Snapshot) error {
		for i := range snap.Items {
			if snap.Items[i].ID == id {
				allocate.AdjustItemQty(&snap.Items[i], delta)
				adjusted = snap.Items[i]
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return adjusted, nil
}

func (s *service) ListCategories(_ context.Context) []string {
	return distinct(models.DefaultCategories, s.store.Items(), func(i models.Item) string { return i.Category })
}

func (s *service) ListSuppliers(_ context.Context) []string {
	return distinct(models.DefaultSuppliers, s.store.Items(), func(i models.Item) string { return i.Supplier })
}

// distinct merges the workshop defaults with the values present in the
// catalog, case-insensitively deduplicated, first spelling kept.
func distinct(defaults []string, items []models.Item, field func(models.Item) string) []string {
	seen := make(map[string]struct{}, len(defaults))
	out := make([]string, 0, len(defaults))
	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		key := models.Fold(value)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	for _, v := range defaults {
		add(v)
	}
	for _, item := range items {
		add(field(item))
	}
	sort.Slice(out, func(i, j int) bool {
		return models.Fold(out[i]) < models.Fold(out[j])
	})
	return out
}

func (in ItemInput) normalized() ItemInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in ItemInput) validate() error {
	details := map[string]string{}
	if in.Name == "" {
		details["name"] = "name is required"
	}
	if in.Category == "" {
		details["category"] = "category is required"
	}
	if in.Qty < 0 {
		details["qty"] = "qty must not be negative"
	}
	if in.MinQty < 0 {
		details["minQty"] = "minQty must not be negative"
	}
	if in.UnitPrice.IsNegative() {
		details["unitPrice"] = "unitPrice must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item").WithDetails(details)
	}
	return nil
}
