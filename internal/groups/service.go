// Package groups manages kits: named collections of reserved stock.
// Reservations move quantity out of the item catalog and back; the
// arithmetic lives in internal/allocate, this service supplies the
// records and the commit.
package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avmartell/stockroom-backend/internal/allocate"
	"github.com/avmartell/stockroom-backend/internal/state"
	pkgerrors "github.com/avmartell/stockroom-backend/pkg/errors"
	"github.com/avmartell/stockroom-backend/pkg/models"
)

// Service exposes group operations.
type Service interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (models.Group, error)
	CreateGroup(ctx context.Context, name string) (models.Group, error)
	RenameGroup(ctx context.Context, id uuid.UUID, name string) (models.Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	AddItemToGroup(ctx context.Context, groupID, itemID uuid.UUID, requested int) (models.Group, error)
	SetGroupItemQty(ctx context.Context, groupID, itemID uuid.UUID, desired int) (models.Group, error)
	RemoveItemFromGroup(ctx context.Context, groupID, itemID uuid.UUID) (models.Group, error)
}

type service struct {
	store *state.Store
}

// NewService builds a group service on top of the shared state store.
func NewService(store *state.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	return &service{store: store}, nil
}

func (s *service) ListGroups(_ context.Context) ([]models.Group, error) {
	return s.store.Groups(), nil
}

func (s *service) GetGroupByID(_ context.Context, id uuid.UUID) (models.Group, error) {
	for _, group := range s.store.Groups() {
		if group.ID == id {
			return group, nil
		}
	}
	return models.Group{}, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
}

func (s *service) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Group{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid group").
			WithDetails(map[string]string{"name": "name is required"})
	}

	created := models.Group{ID: uuid.New(), Name: name, Items: []models.GroupLine{}}
	err := s.store.Update(ctx, func(snap *state.Snapshot) error {
		snap.Groups = append([]models.Group{created}, snap.Groups...)
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return created, nil
}

func (s *service) RenameGroup(ctx context.Context, id uuid.UUID, name string) (models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Group{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid group").
			WithDetails(map[string]string{"name": "name is required"})
	}

	return s.mutate(ctx, id, func(group *models.Group, _ *state.Snapshot) {
		group.Name = name
	})
}

// DeleteGroup returns every reserved quantity to its item, then removes
// the group. Lines referencing deleted items forfeit their stock. An
// unknown id is a silent no-op.
func (s *service) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.store.Update(ctx, func(snap *state.Snapshot) error {
		kept := snap.Groups[:0]
		for _, group := range snap.Groups {
			if group.ID != id {
				kept = append(kept, group)
				continue
			}
			allocate.Restock(group, snap.Items)
		}
		snap.Groups = kept
		return nil
	})
}

// AddItemToGroup reserves up to requested units of the item into the
// group. With no free stock the group is returned unchanged.
func (s *service) AddItemToGroup(ctx context.Context, groupID, itemID uuid.UUID, requested int) (models.Group, error) {
	return s.mutate(ctx, groupID, func(group *models.Group, snap *state.Snapshot) {
		if item := itemByID(snap.Items, itemID); item != nil {
			allocate.AddToGroup(group, item, requested)
		}
	})
}

// SetGroupItemQty moves the group's line for the item toward desired.
// Increases are capped by free stock, decreases return stock in full.
// A line the group does not hold is a silent no-op.
func (s *service) SetGroupItemQty(ctx context.Context, groupID, itemID uuid.UUID, desired int) (models.Group, error) {
	return s.mutate(ctx, groupID, func(group *models.Group, snap *state.Snapshot) {
		allocate.SetLineQty(group, itemID, itemByID(snap.Items, itemID), desired)
	})
}

// RemoveItemFromGroup deletes the line and returns its quantity to the
// item. When the item no longer exists the quantity is forfeited.
func (s *service) RemoveItemFromGroup(ctx context.Context, groupID, itemID uuid.UUID) (models.Group, error) {
	return s.mutate(ctx, groupID, func(group *models.Group, snap *state.Snapshot) {
		allocate.RemoveFromGroup(group, itemID, itemByID(snap.Items, itemID))
	})
}

// mutate locates the group inside an update, applies fn to it in place
// alongside the rest of the snapshot, and returns the committed group.
func (s *service) mutate(ctx context.Context, groupID uuid.UUID, fn func(group *models.Group, snap *state.Snapshot)) (models.Group, error) {
	var result models.Group
	err := s.store.Update(ctx, func(snap *state.Snapshot) error {
		for i := range snap.Groups {
			if snap.Groups[i].ID != groupID {
				continue
			}
			fn(&snap.Groups[i], snap)
			result = snap.Groups[i].Clone()
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
	})
	if err != nil {
		return models.Group{}, err
	}
	return result, nil
}

func itemByID(items []models.Item, id uuid.UUID) *models.Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
