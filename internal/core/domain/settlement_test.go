package domain

import (
	"reflect"
	"testing"
	"time"
)

var flatMultipliers = map[OrderType]float64{
	OrderTypeEmergency: 1.0,
	OrderTypeOverdue:   1.0,
	OrderTypeDaily:     1.0,
}

// catalogFor builds a catalog covering the given lots, one supplier per
// distinct supplier id, all sharing the same multipliers.
func catalogFor(multipliers map[OrderType]float64, lots ...WarehouseStock) Catalog {
	var c Catalog
	seen := map[string]int{}
	for _, w := range lots {
		if i, ok := seen[w.SupplierID]; ok {
			c[i].Warehouses = append(c[i].Warehouses, w)
			continue
		}
		seen[w.SupplierID] = len(c)
		c = append(c, Supplier{
			SupplierID:            w.SupplierID,
			PriceMultiplierByType: multipliers,
			Warehouses:            []WarehouseStock{w},
		})
	}
	return c
}

func lot(supplierID, warehouseID string, quantity int, basePrice float64) WarehouseStock {
	return WarehouseStock{
		SupplierID:       supplierID,
		WarehouseID:      warehouseID,
		QuantityLeft:     quantity,
		BasePricePerUnit: basePrice,
	}
}

func pendingOrder(id string, quantity int, orderType OrderType, createdAtMilli int64) Order {
	return Order{
		ID:          id,
		CreatedAt:   time.UnixMilli(createdAtMilli),
		CustomerID:  "CT-0001",
		Quantity:    quantity,
		OrderType:   orderType,
		Status:      OrderStatusInProgress,
		Allocations: []OrderAllocation{},
	}
}

func findOrder(t *testing.T, orders []Order, id string) Order {
	t.Helper()
	for _, o := range orders {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("order %s not found", id)
	return Order{}
}

func TestAssignOrders_InsufficientQuantity(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 9, 1)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{pendingOrder("B", 10, OrderTypeEmergency, 0)}

	out := AssignOrders(catalog, orders, inventory, 999)

	o := out.Orders[0]
	if o.Status != OrderStatusFailed {
		t.Errorf("expected Failed, got %s", o.Status)
	}
	if o.FailReason != FailReasonInsufficientQuantity {
		t.Errorf("expected InsufficientQuantity, got %s", o.FailReason)
	}
	if len(o.Allocations) != 0 {
		t.Errorf("expected no allocations, got %d", len(o.Allocations))
	}
	if o.TotalPrice != 0 {
		t.Errorf("expected zero total price, got %v", o.TotalPrice)
	}
	if out.Inventory[0].QuantityLeft != 9 {
		t.Errorf("expected inventory untouched at 9, got %d", out.Inventory[0].QuantityLeft)
	}
	if out.Credit != 999 {
		t.Errorf("expected credit untouched at 999, got %v", out.Credit)
	}
}

func TestAssignOrders_UnpricedLotCausesUnderfill(t *testing.T) {
	inventory := []WarehouseStock{
		lot("S1", "W1", 6, 1),
		lot("S2", "W2", 5, 1),
	}
	// S2 exists in inventory but not in the catalog: it counts toward
	// availability yet can never be priced or allocated.
	catalog := catalogFor(flatMultipliers, inventory[0])
	orders := []Order{pendingOrder("B", 10, OrderTypeEmergency, 0)}

	out := AssignOrders(catalog, orders, inventory, 999)

	o := out.Orders[0]
	if o.Status != OrderStatusFailed || o.FailReason != FailReasonInsufficientQuantity {
		t.Errorf("expected Failed/InsufficientQuantity, got %s/%s", o.Status, o.FailReason)
	}
	if out.Inventory[0].QuantityLeft != 6 || out.Inventory[1].QuantityLeft != 5 {
		t.Error("expected inventory untouched")
	}
	if out.Credit != 999 {
		t.Errorf("expected credit untouched, got %v", out.Credit)
	}
}

func TestAssignOrders_InsufficientCredit(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 100, 10)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{pendingOrder("B", 5, OrderTypeEmergency, 0)}

	out := AssignOrders(catalog, orders, inventory, 49)

	o := out.Orders[0]
	if o.Status != OrderStatusFailed || o.FailReason != FailReasonInsufficientCredit {
		t.Errorf("expected Failed/InsufficientCredit, got %s/%s", o.Status, o.FailReason)
	}
	if len(o.Allocations) != 0 || o.TotalPrice != 0 {
		t.Error("expected allocations and total price cleared")
	}
	if out.Inventory[0].QuantityLeft != 100 {
		t.Errorf("expected inventory untouched at 100, got %d", out.Inventory[0].QuantityLeft)
	}
	if out.Credit != 49 {
		t.Errorf("expected credit untouched at 49, got %v", out.Credit)
	}
}

func TestAssignOrders_CommitsAcrossLots(t *testing.T) {
	inventory := []WarehouseStock{
		lot("S1", "W1", 7, 2),
		lot("S2", "W2", 9, 3),
	}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{pendingOrder("B", 10, OrderTypeEmergency, 0)}

	out := AssignOrders(catalog, orders, inventory, 100)

	o := out.Orders[0]
	if o.Status != OrderStatusSuccess {
		t.Fatalf("expected Success, got %s (%s)", o.Status, o.FailReason)
	}
	if o.FailReason != "" {
		t.Errorf("expected fail reason cleared, got %s", o.FailReason)
	}

	// largest lot first: 9 units from S2/W2, then 1 unit from S1/W1
	want := []OrderAllocation{
		{SupplierID: "S2", WarehouseID: "W2", Quantity: 9, UnitPrice: 3, TotalPrice: 27},
		{SupplierID: "S1", WarehouseID: "W1", Quantity: 1, UnitPrice: 2, TotalPrice: 2},
	}
	if !reflect.DeepEqual(o.Allocations, want) {
		t.Errorf("allocations = %+v, want %+v", o.Allocations, want)
	}
	if o.TotalPrice != 29 {
		t.Errorf("expected total price 29, got %v", o.TotalPrice)
	}

	if out.Credit != 71 {
		t.Errorf("expected credit 71, got %v", out.Credit)
	}
	if got := out.Inventory[0].QuantityLeft; got != 6 {
		t.Errorf("expected S1/W1 left 6, got %d", got)
	}
	if got := out.Inventory[1].QuantityLeft; got != 0 {
		t.Errorf("expected S2/W2 left 0, got %d", got)
	}
}

func TestAssignOrders_DoesNotMutateInputs(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 2, 5)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{pendingOrder("B", 2, OrderTypeEmergency, 0)}

	ordersSnapshot := make([]Order, len(orders))
	for i, o := range orders {
		ordersSnapshot[i] = o.Clone()
	}
	inventorySnapshot := make([]WarehouseStock, len(inventory))
	copy(inventorySnapshot, inventory)

	out := AssignOrders(catalog, orders, inventory, 10)

	if out.Orders[0].Status != OrderStatusSuccess {
		t.Fatalf("expected Success, got %s", out.Orders[0].Status)
	}
	if out.Inventory[0].QuantityLeft != 0 {
		t.Errorf("expected output inventory drained, got %d", out.Inventory[0].QuantityLeft)
	}

	if !reflect.DeepEqual(orders, ordersSnapshot) {
		t.Error("input orders were mutated")
	}
	if !reflect.DeepEqual(inventory, inventorySnapshot) {
		t.Error("input inventory was mutated")
	}
}

func TestAssignOrders_PassThroughWhenNoPending(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 5, 1)}
	catalog := catalogFor(flatMultipliers, inventory...)

	done := pendingOrder("A", 1, OrderTypeDaily, 0)
	done.Status = OrderStatusSuccess
	done.TotalPrice = 1
	done.Allocations = []OrderAllocation{{SupplierID: "S1", WarehouseID: "W1", Quantity: 1, UnitPrice: 1, TotalPrice: 1}}

	failed := pendingOrder("B", 3, OrderTypeEmergency, 0)
	failed.Status = OrderStatusFailed
	failed.FailReason = FailReasonInsufficientQuantity

	orders := []Order{done, failed}
	out := AssignOrders(catalog, orders, inventory, 50)

	if !reflect.DeepEqual(out.Orders, orders) {
		t.Error("expected settled orders to pass through unchanged")
	}
	if !reflect.DeepEqual(out.Inventory, inventory) {
		t.Error("expected inventory unchanged")
	}
	if out.Credit != 50 {
		t.Errorf("expected credit unchanged, got %v", out.Credit)
	}
}

func TestAssignOrders_CreditDrainAffectsLaterOrders(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 2, 10)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{
		pendingOrder("O1", 1, OrderTypeEmergency, 100),
		pendingOrder("O2", 1, OrderTypeEmergency, 200),
	}

	out := AssignOrders(catalog, orders, inventory, 15)

	o1 := findOrder(t, out.Orders, "O1")
	o2 := findOrder(t, out.Orders, "O2")

	if o1.Status != OrderStatusSuccess {
		t.Errorf("expected O1 Success, got %s", o1.Status)
	}
	if o2.Status != OrderStatusFailed || o2.FailReason != FailReasonInsufficientCredit {
		t.Errorf("expected O2 Failed/InsufficientCredit, got %s/%s", o2.Status, o2.FailReason)
	}
	if out.Inventory[0].QuantityLeft != 1 {
		t.Errorf("expected 1 unit left, got %d", out.Inventory[0].QuantityLeft)
	}
	if out.Credit != 5 {
		t.Errorf("expected credit 5, got %v", out.Credit)
	}
}

func TestAssignOrders_PriorityBeforeArrival(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 10, 10)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{
		pendingOrder("D1", 1, OrderTypeDaily, 100),
		pendingOrder("E1", 1, OrderTypeEmergency, 200),
	}

	out := AssignOrders(catalog, orders, inventory, 10)

	if got := findOrder(t, out.Orders, "E1"); got.Status != OrderStatusSuccess {
		t.Errorf("expected E1 Success, got %s", got.Status)
	}
	d1 := findOrder(t, out.Orders, "D1")
	if d1.Status != OrderStatusFailed || d1.FailReason != FailReasonInsufficientCredit {
		t.Errorf("expected D1 Failed/InsufficientCredit, got %s/%s", d1.Status, d1.FailReason)
	}
}

func TestAssignOrders_PriorityOrdering(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 10, 10)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{
		pendingOrder("D1", 1, OrderTypeDaily, 300),
		pendingOrder("E1", 1, OrderTypeEmergency, 200),
		pendingOrder("O1", 1, OrderTypeOverdue, 100),
	}

	// credit covers exactly two orders, so the settled statuses reveal the
	// processing sequence
	out := AssignOrders(catalog, orders, inventory, 20)

	if got := findOrder(t, out.Orders, "E1"); got.Status != OrderStatusSuccess {
		t.Errorf("expected E1 Success, got %s", got.Status)
	}
	if got := findOrder(t, out.Orders, "O1"); got.Status != OrderStatusSuccess {
		t.Errorf("expected O1 Success, got %s", got.Status)
	}
	d1 := findOrder(t, out.Orders, "D1")
	if d1.Status != OrderStatusFailed || d1.FailReason != FailReasonInsufficientCredit {
		t.Errorf("expected D1 Failed/InsufficientCredit, got %s/%s", d1.Status, d1.FailReason)
	}
}

func TestAssignOrders_FIFOWithinType(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 2, 1)}
	catalog := catalogFor(flatMultipliers, inventory...)
	orders := []Order{
		pendingOrder("E3", 1, OrderTypeEmergency, 300),
		pendingOrder("E1", 1, OrderTypeEmergency, 100),
		pendingOrder("E2", 1, OrderTypeEmergency, 200),
	}

	// stock covers exactly two orders: the two earliest must win
	out := AssignOrders(catalog, orders, inventory, 999)

	if got := findOrder(t, out.Orders, "E1"); got.Status != OrderStatusSuccess {
		t.Errorf("expected E1 Success, got %s", got.Status)
	}
	if got := findOrder(t, out.Orders, "E2"); got.Status != OrderStatusSuccess {
		t.Errorf("expected E2 Success, got %s", got.Status)
	}
	e3 := findOrder(t, out.Orders, "E3")
	if e3.Status != OrderStatusFailed || e3.FailReason != FailReasonInsufficientQuantity {
		t.Errorf("expected E3 Failed/InsufficientQuantity, got %s/%s", e3.Status, e3.FailReason)
	}
}

func TestAssignOrders_ScopeFiltering(t *testing.T) {
	inventory := []WarehouseStock{
		lot("S1", "W1", 5, 1),
		lot("S2", "W1", 5, 2),
		lot("S2", "W3", 4, 3),
	}
	catalog := catalogFor(flatMultipliers, inventory...)

	t.Run("supplier scope draws only from that supplier", func(t *testing.T) {
		o := pendingOrder("A", 6, OrderTypeDaily, 0)
		o.Scope = ScopedToSupplier("S2")

		out := AssignOrders(catalog, []Order{o}, inventory, 999)
		got := out.Orders[0]
		if got.Status != OrderStatusSuccess {
			t.Fatalf("expected Success, got %s (%s)", got.Status, got.FailReason)
		}
		for _, a := range got.Allocations {
			if a.SupplierID != "S2" {
				t.Errorf("allocation from %s, want S2 only", a.SupplierID)
			}
		}
		if out.Inventory[0].QuantityLeft != 5 {
			t.Error("expected out-of-scope lot untouched")
		}
	})

	t.Run("warehouse scope fails when the lot is short", func(t *testing.T) {
		o := pendingOrder("B", 5, OrderTypeDaily, 0)
		o.Scope = ScopedToWarehouse("S2", "W3")

		out := AssignOrders(catalog, []Order{o}, inventory, 999)
		got := out.Orders[0]
		if got.Status != OrderStatusFailed || got.FailReason != FailReasonInsufficientQuantity {
			t.Errorf("expected Failed/InsufficientQuantity, got %s/%s", got.Status, got.FailReason)
		}
	})

	t.Run("scope with no matching lots reports zero availability", func(t *testing.T) {
		o := pendingOrder("C", 1, OrderTypeDaily, 0)
		o.Scope = ScopedToSupplier("S9")

		out := AssignOrders(catalog, []Order{o}, inventory, 999)
		got := out.Orders[0]
		if got.Status != OrderStatusFailed || got.FailReason != FailReasonInsufficientQuantity {
			t.Errorf("expected Failed/InsufficientQuantity, got %s/%s", got.Status, got.FailReason)
		}
	})
}

func TestAssignOrders_Stress(t *testing.T) {
	inventory := []WarehouseStock{lot("S1", "W1", 100000, 1)}
	catalog := catalogFor(flatMultipliers, inventory...)

	types := []OrderType{OrderTypeEmergency, OrderTypeOverdue, OrderTypeDaily}
	orders := make([]Order, 0, 6000)
	for i := 0; i < 6000; i++ {
		orders = append(orders, pendingOrder("O", 1, types[i%3], int64(i)))
	}

	start := time.Now()
	out := AssignOrders(catalog, orders, inventory, 100000)
	elapsed := time.Since(start)

	if len(out.Orders) != 6000 {
		t.Fatalf("expected 6000 orders, got %d", len(out.Orders))
	}
	for i, o := range out.Orders {
		if o.Status != OrderStatusSuccess {
			t.Fatalf("order %d: expected Success, got %s (%s)", i, o.Status, o.FailReason)
		}
	}
	if out.Inventory[0].QuantityLeft != 94000 {
		t.Errorf("expected 94000 units left, got %d", out.Inventory[0].QuantityLeft)
	}
	if out.Credit != 94000 {
		t.Errorf("expected credit 94000, got %v", out.Credit)
	}
	if elapsed > time.Second {
		t.Errorf("settlement took %v, expected well under a second", elapsed)
	}
}

func TestPickAllocations_LargestLotFirst(t *testing.T) {
	inventory := []WarehouseStock{
		lot("S1", "W1", 3, 1),
		lot("S1", "W2", 9, 1),
		lot("S1", "W3", 5, 1),
	}
	catalog := catalogFor(flatMultipliers, inventory...)
	order := pendingOrder("A", 12, OrderTypeDaily, 0)

	allocations, totalAvailable := PickAllocations(catalog, order, inventory)

	if totalAvailable != 17 {
		t.Errorf("expected totalAvailable 17, got %d", totalAvailable)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocation lines, got %d", len(allocations))
	}
	if allocations[0].WarehouseID != "W2" || allocations[0].Quantity != 9 {
		t.Errorf("first line = %+v, want 9 units from W2", allocations[0])
	}
	if allocations[1].WarehouseID != "W3" || allocations[1].Quantity != 3 {
		t.Errorf("second line = %+v, want 3 units from W3", allocations[1])
	}

	// the snapshot is read-only to the picker
	if inventory[1].QuantityLeft != 9 {
		t.Error("picker mutated the inventory snapshot")
	}
}

func TestPickAllocations_SkipsSupplierMissingFromCatalog(t *testing.T) {
	inventory := []WarehouseStock{
		lot("S1", "W1", 5, 1),
		lot("SX", "W2", 9, 1),
	}
	catalog := catalogFor(flatMultipliers, inventory[0])
	order := pendingOrder("A", 6, OrderTypeDaily, 0)

	allocations, totalAvailable := PickAllocations(catalog, order, inventory)

	if totalAvailable != 14 {
		t.Errorf("expected totalAvailable 14 (unpriceable lots still count), got %d", totalAvailable)
	}
	if len(allocations) != 1 {
		t.Fatalf("expected 1 allocation line, got %d", len(allocations))
	}
	if allocations[0].SupplierID != "S1" || allocations[0].Quantity != 5 {
		t.Errorf("line = %+v, want 5 units from S1", allocations[0])
	}
}

func TestPickAllocations_PricesByOrderType(t *testing.T) {
	multipliers := map[OrderType]float64{
		OrderTypeEmergency: 1.25,
		OrderTypeOverdue:   0.9,
		OrderTypeDaily:     1.0,
	}
	inventory := []WarehouseStock{lot("S1", "W1", 10, 12.5)}
	catalog := catalogFor(multipliers, inventory...)
	order := pendingOrder("A", 2, OrderTypeEmergency, 0)

	allocations, _ := PickAllocations(catalog, order, inventory)

	if len(allocations) != 1 {
		t.Fatalf("expected 1 allocation line, got %d", len(allocations))
	}
	if allocations[0].UnitPrice != 15.625 {
		t.Errorf("expected unit price 15.625, got %v", allocations[0].UnitPrice)
	}
	if allocations[0].TotalPrice != 31.25 {
		t.Errorf("expected line total 31.25, got %v", allocations[0].TotalPrice)
	}
}
