package domain

import "time"

type OrderType string

const (
	OrderTypeEmergency OrderType = "Emergency"
	OrderTypeOverdue   OrderType = "Overdue"
	OrderTypeDaily     OrderType = "Daily"
)

// Priority returns the scheduling rank of the order type. Lower ranks are
// served first.
func (t OrderType) Priority() int {
	switch t {
	case OrderTypeEmergency:
		return 0
	case OrderTypeOverdue:
		return 1
	case OrderTypeDaily:
		return 2
	default:
		return 3
	}
}

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	return t.Priority() < 3
}

type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "InProgress"
	OrderStatusSuccess    OrderStatus = "Success"
	OrderStatusFailed     OrderStatus = "Failed"
)

type OrderFailReason string

const (
	FailReasonInsufficientCredit   OrderFailReason = "InsufficientCredit"
	FailReasonInsufficientQuantity OrderFailReason = "InsufficientQuantity"
)

// OrderScope restricts which inventory lots an order may draw from.
// The zero value matches every lot.
type OrderScope struct {
	SupplierID  string `json:"supplierId,omitempty"`
	WarehouseID string `json:"warehouseId,omitempty"`
}

func Unscoped() OrderScope {
	return OrderScope{}
}

func ScopedToSupplier(supplierID string) OrderScope {
	return OrderScope{SupplierID: supplierID}
}

func ScopedToWarehouse(supplierID, warehouseID string) OrderScope {
	return OrderScope{SupplierID: supplierID, WarehouseID: warehouseID}
}

// Matches reports whether the lot falls inside the scope. Unset fields
// match everything.
func (s OrderScope) Matches(w WarehouseStock) bool {
	if s.SupplierID != "" && w.SupplierID != s.SupplierID {
		return false
	}
	if s.WarehouseID != "" && w.WarehouseID != s.WarehouseID {
		return false
	}
	return true
}

// OrderAllocation is one committed slice of an order, drawn from a single
// lot at a computed unit price.
type OrderAllocation struct {
	SupplierID  string  `json:"supplierId"`
	WarehouseID string  `json:"warehouseId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Order is a request to purchase a quantity of salmon. Orders are created
// InProgress; only the settlement pass moves them to Success or Failed.
type Order struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	CustomerID string    `json:"customerId"`

	Quantity  int        `json:"quantity"`
	Scope     OrderScope `json:"scope"`
	OrderType OrderType  `json:"orderType"`

	Status     OrderStatus     `json:"status"`
	FailReason OrderFailReason `json:"failReason,omitempty"`

	Allocations []OrderAllocation `json:"allocations"`
	TotalPrice  float64           `json:"totalPrice,omitempty"`
}

// Clone returns a copy sharing no mutable state with o.
func (o Order) Clone() Order {
	c := o
	c.Allocations = make([]OrderAllocation, len(o.Allocations))
	copy(c.Allocations, o.Allocations)
	return c
}
