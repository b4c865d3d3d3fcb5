// Package state holds the authoritative in-memory inventory and writes
// every committed change through to the local cache. The cache is the
// durable copy; remote sync hangs off the change notifications and is
// never allowed to block or fail a mutation.
package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/avmartell/stockroom-backend/internal/reconcile"
	"github.com/avmartell/stockroom-backend/pkg/cache"
	"github.com/avmartell/stockroom-backend/pkg/logger"
	"github.com/avmartell/stockroom-backend/pkg/models"
)

// Snapshot is a deep copy of both collections at a single point in time.
type Snapshot struct {
	Items  []models.Item
	Groups []models.Group
}

// Store serializes all reads and writes of the inventory state.
type Store struct {
	mu     sync.Mutex
	items  []models.Item
	groups []models.Group

	cache     cache.Cache
	itemsKey  string
	groupsKey string
	log       *logger.Logger

	onChange func(Snapshot)
}

func New(c cache.Cache, itemsKey, groupsKey string, log *logger.Logger) *Store {
	return &Store{
		cache:     c,
		itemsKey:  itemsKey,
		groupsKey: groupsKey,
		log:       log,
		items:     []models.Item{},
		groups:    []models.Group{},
	}
}

// OnChange registers the listener invoked after every committed change.
// The listener runs with the store lock held so listeners observe
// commits in order; it receives its own copy, must not block, and must
// not call back into the store. Must be set before the store is shared.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.onChange = fn
}

// Load populates the store from the local cache. A missing or
// unreadable item blob falls back to the starter catalog, a missing or
// unreadable group blob to no groups; either way Load succeeds. Only a
// failing cache backend is an error.
func (s *Store) Load(ctx context.Context) error {
	itemBlob, err := s.cache.Load(ctx, s.itemsKey)
	if err != nil {
		return err
	}
	groupBlob, err := s.cache.Load(ctx, s.groupsKey)
	if err != nil {
		return err
	}

	items, ok := models.DecodeItems(itemBlob)
	if !ok {
		if itemBlob != nil {
			s.log.Warn(ctx, "cached items unreadable, falling back to starter catalog")
		}
		items = models.SeedItems()
	}
	groups, ok := models.DecodeGroups(groupBlob)
	if !ok {
		if groupBlob != nil {
			s.log.Warn(ctx, "cached groups unreadable, starting empty")
		}
		groups = []models.Group{}
	}

	s.mu.Lock()
	s.items = items
	s.groups = groups
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Items returns a deep copy of the item collection.
func (s *Store) Items() []models.Item {
	return s.Snapshot().Items
}

// Groups returns a deep copy of the group collection.
func (s *Store) Groups() []models.Group {
	return s.Snapshot().Groups
}

// Update runs fn against a private copy of the state and commits the
// result if fn succeeds. The commit persists both collections to the
// cache and fires the change listener, still inside the critical
// section: the cache is the durable copy, so its writes must land in
// commit order and never hold a snapshot older than memory.
// Persistence failures are logged and swallowed so a flaky cache never
// loses an in-memory change.
func (s *Store) Update(ctx context.Context, fn func(snap *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.copyLocked()
	if err := fn(&work); err != nil {
		return err
	}
	if work.Items == nil {
		work.Items = []models.Item{}
	}
	if work.Groups == nil {
		work.Groups = []models.Group{}
	}
	s.items = work.Items
	s.groups = work.Groups
	committed := s.copyLocked()

	s.persist(ctx, committed)
	s.notify(committed)
	return nil
}

// ReplaceAll swaps in both collections wholesale, as after a remote
// pull. The new state is persisted and announced like any other change.
func (s *Store) ReplaceAll(ctx context.Context, items []models.Item, groups []models.Group) {
	_ = s.Update(ctx, func(snap *Snapshot) error {
		snap.Items = items
		snap.Groups = groups
		return nil
	})
}

// ReplaceGroups swaps in the group collection only, for the pull path
// where the remote had groups but no item payload to reconcile against.
func (s *Store) ReplaceGroups(ctx context.Context, groups []models.Group) {
	_ = s.Update(ctx, func(snap *Snapshot) error {
		snap.Groups = groups
		return nil
	})
}

// ReplaceFromRemote folds a startup pull into the store. With both
// collections present the pulled groups are re-linked against the
// pulled items before the swap; with items alone the local groups are
// kept; with groups alone they are applied verbatim, dangling
// references and all. Nothing happens when the pull brought nothing.
func (s *Store) ReplaceFromRemote(ctx context.Context, items []models.Item, groups []models.Group, itemsOK, groupsOK bool) {
	switch {
	case itemsOK && groupsOK:
		s.ReplaceAll(ctx, items, reconcile.Relink(groups, items))
	case itemsOK:
		_ = s.Update(ctx, func(snap *Snapshot) error {
			snap.Items = items
			return nil
		})
	case groupsOK:
		s.ReplaceGroups(ctx, groups)
	}
}

func (s *Store) copyLocked() Snapshot {
	items := make([]models.Item, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:  items,
		Groups: models.CloneGroups(s.groups),
	}
}

func (s *Store) persist(ctx context.Context, snap Snapshot) {
	if blob, err := json.Marshal(snap.Items); err == nil {
		if err := s.cache.Save(ctx, s.itemsKey, blob); err != nil {
			s.log.Error(ctx, "persisting items to cache failed", err)
		}
	}
	if blob, err := json.Marshal(snap.Groups); err == nil {
		if err := s.cache.Save(ctx, s.groupsKey, blob); err != nil {
			s.log.Error(ctx, "persisting groups to cache failed", err)
		}
	}
}

func (s *Store) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
