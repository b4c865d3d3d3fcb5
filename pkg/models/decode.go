package models

import "encoding/json"

// DecodeItems decodes a persisted or remote item collection. The blob
// must be a JSON array; anything else reports ok=false so callers can
// fall back to their defaults. Individual records that fail to decode
// are skipped rather than poisoning the whole collection, records with
// no id are given one, and the cost invariant is restored on the way in.
func DecodeItems(blob []byte) ([]Item, bool) {
	raws, ok := decodeArray(blob)
	if !ok {
		return nil, false
	}
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		item.EnsureID()
		item.RecomputeCost()
		items = append(items, item)
	}
	return items, true
}

// DecodeGroups decodes a persisted or remote group collection with the
// same leniency as DecodeItems. Lines with unparseable item references
// come back unresolved, ready for re-linking.
func DecodeGroups(blob []byte) ([]Group, bool) {
	raws, ok := decodeArray(blob)
	if !ok {
		return nil, false
	}
	groups := make([]Group, 0, len(raws))
	for _, raw := range raws {
		var group Group
		if err := json.Unmarshal(raw, &group); err != nil {
			continue
		}
		group.EnsureID()
		if group.Items == nil {
			group.Items = []GroupLine{}
		}
		groups = append(groups, group)
	}
	return groups, true
}

func decodeArray(blob []byte) ([]json.RawMessage, bool) {
	if len(blob) == 0 {
		return nil, false
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(blob, &raws); err != nil {
		return nil, false
	}
	return raws, true
}
