package domain

import "strings"

// WarehouseStock is one inventory lot: a warehouse's remaining salmon from
// one supplier at a base unit price.
type WarehouseStock struct {
	SupplierID       string  `json:"supplierId"`
	WarehouseID      string  `json:"warehouseId"`
	QuantityLeft     int     `json:"quantityLeft"`
	BasePricePerUnit float64 `json:"basePricePerUnit"`
}

// Supplier is reference data: the supplier's warehouses plus the price
// multiplier applied per order type.
type Supplier struct {
	SupplierID            string                `json:"supplierId"`
	PriceMultiplierByType map[OrderType]float64 `json:"priceMultiplierByType"`
	Warehouses            []WarehouseStock      `json:"warehouses"`
}

// UnitPriceFor prices one unit from the given lot for the given order type.
func (s Supplier) UnitPriceFor(w WarehouseStock, t OrderType) float64 {
	return w.BasePricePerUnit * s.PriceMultiplierByType[t]
}

// Catalog is the static supplier reference table. It is passed explicitly
// into the settlement pass so tests can substitute fixtures.
type Catalog []Supplier

// NormalizeID canonicalizes supplier/warehouse identifiers for lookups.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func (c Catalog) FindSupplier(supplierID string) (Supplier, bool) {
	id := NormalizeID(supplierID)
	for _, s := range c {
		if s.SupplierID == id {
			return s, true
		}
	}
	return Supplier{}, false
}

func (c Catalog) FindWarehouse(supplierID, warehouseID string) (WarehouseStock, bool) {
	s, ok := c.FindSupplier(supplierID)
	if !ok {
		return WarehouseStock{}, false
	}
	wid := NormalizeID(warehouseID)
	for _, w := range s.Warehouses {
		if w.WarehouseID == wid {
			return w, true
		}
	}
	return WarehouseStock{}, false
}

// InitialInventory flattens the catalog's warehouses into a fresh inventory
// snapshot. The caller owns the returned slice.
func (c Catalog) InitialInventory() []WarehouseStock {
	var inventory []WarehouseStock
	for _, s := range c {
		inventory = append(inventory, s.Warehouses...)
	}
	return inventory
}

// SupplierWithTotals is a supplier view over a live inventory snapshot,
// with its warehouses replaced by current lots.
type SupplierWithTotals struct {
	Supplier
	TotalLeft int `json:"totalLeft"`
}

// SuppliersWithTotals summarizes every catalog supplier against the given
// inventory snapshot.
func (c Catalog) SuppliersWithTotals(inventory []WarehouseStock) []SupplierWithTotals {
	out := make([]SupplierWithTotals, 0, len(c))
	for _, s := range c {
		warehouses := []WarehouseStock{}
		total := 0
		for _, w := range inventory {
			if w.SupplierID == s.SupplierID {
				warehouses = append(warehouses, w)
				total += w.QuantityLeft
			}
		}
		sw := SupplierWithTotals{Supplier: s, TotalLeft: total}
		sw.Warehouses = warehouses
		out = append(out, sw)
	}
	return out
}

// AvailableForScope sums the remaining quantity over the lots the scope
// matches.
func AvailableForScope(inventory []WarehouseStock, scope OrderScope) int {
	total := 0
	for _, w := range inventory {
		if scope.Matches(w) {
			total += w.QuantityLeft
		}
	}
	return total
}

// DefaultCatalog returns the supplier/warehouse table the service ships
// with.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			SupplierID: "SP-0001",
			PriceMultiplierByType: map[OrderType]float64{
				OrderTypeEmergency: 1.25, OrderTypeDaily: 1.0, OrderTypeOverdue: 0.9,
			},
			Warehouses: []WarehouseStock{
				{SupplierID: "SP-0001", WarehouseID: "WH-0001", QuantityLeft: 5000, BasePricePerUnit: 12.5},
				{SupplierID: "SP-0001", WarehouseID: "WH-0002", QuantityLeft: 1200, BasePricePerUnit: 12.2},
			},
		},
		{
			SupplierID: "SP-0002",
			PriceMultiplierByType: map[OrderType]float64{
				OrderTypeEmergency: 1.3, OrderTypeDaily: 1.0, OrderTypeOverdue: 0.92,
			},
			Warehouses: []WarehouseStock{
				{SupplierID: "SP-0002", WarehouseID: "WH-0001", QuantityLeft: 9000, BasePricePerUnit: 12.8},
				{SupplierID: "SP-0002", WarehouseID: "WH-0003", QuantityLeft: 400, BasePricePerUnit: 12.0},
			},
		},
		{
			SupplierID: "SP-0003",
			PriceMultiplierByType: map[OrderType]float64{
				OrderTypeEmergency: 1.2, OrderTypeDaily: 1.0, OrderTypeOverdue: 0.88,
			},
			Warehouses: []WarehouseStock{
				{SupplierID: "SP-0003", WarehouseID: "WH-0002", QuantityLeft: 3000, BasePricePerUnit: 11.9},
			},
		},
	}
}
