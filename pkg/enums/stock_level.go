package enums

import "fmt"

// StockLevel buckets an item's free stock against its reorder threshold.
// Display classification only, nothing enforces the threshold.
type StockLevel string

const (
	StockLevelLow  StockLevel = "low"
	StockLevelOK   StockLevel = "ok"
	StockLevelHigh StockLevel = "high"
)

var validStockLevels = []StockLevel{
	StockLevelLow,
	StockLevelOK,
	StockLevelHigh,
}

// String implements fmt.Stringer.
func (s StockLevel) String() string {
	return string(s)
}

// IsValid reports whether the level is a known value.
func (s StockLevel) IsValid() bool {
	for _, candidate := range validStockLevels {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockLevel converts raw input into a StockLevel.
func ParseStockLevel(value string) (StockLevel, error) {
	for _, candidate := range validStockLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock level %q", value)
}

// ClassifyStock maps free stock and the reorder threshold to a bucket:
// low when qty < minQty, high when qty > 3*minQty, ok in between.
func ClassifyStock(qty, minQty int) StockLevel {
	switch {
	case qty < minQty:
		return StockLevelLow
	case qty > minQty*3:
		return StockLevelHigh
	default:
		return StockLevelOK
	}
}
