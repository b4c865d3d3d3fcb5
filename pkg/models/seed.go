package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSuppliers seeds the supplier dropdown alongside whatever the
// catalog currently references.
var DefaultSuppliers = []string{"Hakko", "Yageo", "Nichicon", "Espressif", "Omron", "STMicro", "Murata"}

// DefaultCategories seeds the category dropdown.
var DefaultCategories = []string{"Tools", "Resistor", "Capacitor", "Microcontroller", "Switch", "Connector", "IC", "Misc"}

// SeedItems returns the starter workshop catalog used when the local
// cache is empty. IDs are generated per call.
func SeedItems() []Item {
	items := []Item{
		{Name: "Soldering Iron Tip T12-K", SKU: "TIP-T12-K", Category: "Tools", Supplier: "Hakko", Qty: 18, MinQty: 10, Location: "Aisle 1", UnitPrice: decimal.NewFromFloat(5.9)},
		{Name: "1kΩ Resistor 1/4W (100pcs)", SKU: "RES-1K-0.25W", Category: "Resistor", Supplier: "Yageo", Qty: 250, MinQty: 100, Location: "Aisle 3", UnitPrice: decimal.NewFromFloat(1.2)},
		{Name: "Electrolytic Capacitor 100µF 25V (20pcs)", SKU: "CAP-100UF-25V", Category: "Capacitor", Supplier: "Nichicon", Qty: 40, MinQty: 30, Location: "Aisle 4", UnitPrice: decimal.NewFromFloat(3.8)},
		{Name: "ESP32-WROOM-32 Module", SKU: "MCU-ESP32-WROOM", Category: "Microcontroller", Supplier: "Espressif", Qty: 6, MinQty: 8, Location: "Aisle 6", UnitPrice: decimal.NewFromFloat(3.2)},
		{Name: "Tactile Switch 6x6x5mm (50pcs)", SKU: "SW-6X6-5", Category: "Switch", Supplier: "Omron", Qty: 120, MinQty: 50, Location: "Aisle 5", UnitPrice: decimal.NewFromFloat(2.7)},
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].RecomputeCost()
	}
	return items
}
