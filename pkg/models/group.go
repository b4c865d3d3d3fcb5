package models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Group is a named kit reserving quantities of items out of free stock.
type Group struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Items []GroupLine `json:"items"`
}

// GroupLine is one item's reservation within a group. ItemID is a weak
// reference (a lookup key, not ownership); the name/category/sku snapshot
// lets a line be re-linked when the reference goes stale after a reload.
type GroupLine struct {
	ItemID   uuid.UUID `json:"itemId"`
	Qty      int       `json:"qty"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	SKU      string    `json:"sku"`
}

// EnsureID assigns a fresh id when the group arrived without one.
func (g *Group) EnsureID() {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
}

// Resolved reports whether the line currently points at an item id.
func (l GroupLine) Resolved() bool {
	return l.ItemID != uuid.Nil
}

// Key returns the line's normalized snapshot key.
func (l GroupLine) Key() LineKey {
	return LineKeyOf(l.Name, l.Category, l.SKU)
}

// groupLineWire is the bridge payload shape: unresolved references travel
// as null, and anything unparseable coming back is treated as unresolved.
type groupLineWire struct {
	ItemID   json.RawMessage `json:"itemId,omitempty"`
	Qty      int             `json:"qty"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	SKU      string          `json:"sku"`
}

// MarshalJSON implements json.Marshaler.
func (l GroupLine) MarshalJSON() ([]byte, error) {
	wire := groupLineWire{
		ItemID:   json.RawMessage("null"),
		Qty:      l.Qty,
		Name:     l.Name,
		Category: l.Category,
		SKU:      l.SKU,
	}
	if l.Resolved() {
		raw, err := json.Marshal(l.ItemID)
		if err != nil {
			return nil, err
		}
		wire.ItemID = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *GroupLine) UnmarshalJSON(data []byte) error {
	var wire groupLineWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	l.Qty = wire.Qty
	l.Name = wire.Name
	l.Category = wire.Category
	l.SKU = wire.SKU
	l.ItemID = lenientUUID(wire.ItemID)
	return nil
}

func lenientUUID(raw json.RawMessage) uuid.UUID {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return uuid.Nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Clone returns a deep copy so callers can hand groups out of a store
// without sharing the line slice.
func (g Group) Clone() Group {
	out := g
	out.Items = make([]GroupLine, len(g.Items))
	copy(out.Items, g.Items)
	return out
}

// CloneGroups deep-copies a whole group collection.
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}
