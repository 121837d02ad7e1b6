package domain

import "sort"

// OrderState is the per-customer document the service persists between
// settlement passes.
type OrderState struct {
	Orders    []Order          `json:"orders"`
	Inventory []WarehouseStock `json:"inventory"`
}

// SettleResult is the post-batch view handed back to the caller: new order
// list, new inventory snapshot, remaining credit.
type SettleResult struct {
	Orders    []Order
	Inventory []WarehouseStock
	Credit    float64
}

// PickAllocations greedily selects lots to cover order.Quantity and prices
// them against the catalog. It returns the picked allocation lines and the
// total quantity available across every lot in the order's scope, computed
// before any consumption. Lots whose supplier is missing from the catalog
// count toward the total but are never allocated against. The inventory
// snapshot is never mutated.
func PickAllocations(catalog Catalog, order Order, inventory []WarehouseStock) ([]OrderAllocation, int) {
	var candidates []WarehouseStock
	for _, w := range inventory {
		if order.Scope.Matches(w) {
			candidates = append(candidates, w)
		}
	}

	// highest stock first, to minimize split lines; ties keep input order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].QuantityLeft > candidates[j].QuantityLeft
	})

	totalAvailable := AvailableForScope(inventory, order.Scope)

	remaining := order.Quantity
	var allocations []OrderAllocation

	for _, w := range candidates {
		if remaining <= 0 {
			break
		}
		if w.QuantityLeft <= 0 {
			continue
		}

		take := remaining
		if w.QuantityLeft < take {
			take = w.QuantityLeft
		}

		supplier, ok := catalog.FindSupplier(w.SupplierID)
		if !ok {
			continue
		}

		unitPrice := supplier.UnitPriceFor(w, order.OrderType)
		allocations = append(allocations, OrderAllocation{
			SupplierID:  w.SupplierID,
			WarehouseID: w.WarehouseID,
			Quantity:    take,
			UnitPrice:   unitPrice,
			TotalPrice:  unitPrice * float64(take),
		})
		remaining -= take
	}

	return allocations, totalAvailable
}

func sumAllocTotal(allocations []OrderAllocation) float64 {
	total := 0.0
	for _, a := range allocations {
		total += a.TotalPrice
	}
	return total
}

func sumAllocQuantity(allocations []OrderAllocation) int {
	total := 0
	for _, a := range allocations {
		total += a.Quantity
	}
	return total
}

// AssignOrders settles a batch of orders against an inventory snapshot and
// a credit balance. Inputs are copied, never mutated; the result carries the
// updated copies. InProgress orders are processed strictly sequentially in
// priority order (Emergency, Overdue, Daily; FIFO by creation time within a
// type), so an earlier order's commit reduces the stock and credit every
// later order sees. Orders already settled pass through unchanged.
func AssignOrders(catalog Catalog, orders []Order, inventory []WarehouseStock, credit float64) SettleResult {
	workInventory := make([]WarehouseStock, len(inventory))
	copy(workInventory, inventory)

	workOrders := make([]Order, len(orders))
	inProgress := make([]*Order, 0, len(orders))
	for i, o := range orders {
		workOrders[i] = o.Clone()
		if o.Status == OrderStatusInProgress {
			inProgress = append(inProgress, &workOrders[i])
		}
	}

	sort.SliceStable(inProgress, func(i, j int) bool {
		pi, pj := inProgress[i].OrderType.Priority(), inProgress[j].OrderType.Priority()
		if pi != pj {
			return pi < pj
		}
		return inProgress[i].CreatedAt.Before(inProgress[j].CreatedAt)
	})

	for _, o := range inProgress {
		allocations, totalAvailable := PickAllocations(catalog, *o, workInventory)

		if totalAvailable < o.Quantity {
			failOrder(o, FailReasonInsufficientQuantity)
			continue
		}

		// sufficient aggregate stock but the pick under-filled, e.g. a lot
		// whose supplier is not in the catalog
		if sumAllocQuantity(allocations) != o.Quantity {
			failOrder(o, FailReasonInsufficientQuantity)
			continue
		}

		totalPrice := sumAllocTotal(allocations)

		if credit < totalPrice {
			failOrder(o, FailReasonInsufficientCredit)
			continue
		}

		for _, a := range allocations {
			for i := range workInventory {
				if workInventory[i].SupplierID == a.SupplierID && workInventory[i].WarehouseID == a.WarehouseID {
					workInventory[i].QuantityLeft -= a.Quantity
					break
				}
			}
		}
		credit -= totalPrice

		o.Status = OrderStatusSuccess
		o.FailReason = ""
		o.Allocations = allocations
		o.TotalPrice = totalPrice
	}

	return SettleResult{Orders: workOrders, Inventory: workInventory, Credit: credit}
}

func failOrder(o *Order, reason OrderFailReason) {
	o.Status = OrderStatusFailed
	o.FailReason = reason
	o.Allocations = []OrderAllocation{}
	o.TotalPrice = 0
}
