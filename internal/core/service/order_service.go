package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/salmon-market/internal/core/domain"
	"github.com/rl1809/salmon-market/internal/port"
)

var (
	ErrInvalidCustomerID = errors.New("customer id must match CT-XXXX (4 digits)")
	ErrNoSession         = errors.New("no session credit for customer")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidOrderType  = errors.New("unknown order type")
	ErrUnknownSupplier   = errors.New("unknown supplier")
	ErrUnknownWarehouse  = errors.New("unknown warehouse")
	ErrOrderNotFound     = errors.New("order not found")
)

var customerIDPattern = regexp.MustCompile(`^CT-\d{4}$`)

// OrderService orchestrates order intake and settlement around the pure
// engine: it owns loading and persisting per-customer state and session
// credit, while the settlement pass itself performs no I/O.
type OrderService struct {
	catalog domain.Catalog
	state   port.StateRepository
	session port.SessionRepository
}

func NewOrderService(catalog domain.Catalog, state port.StateRepository, session port.SessionRepository) *OrderService {
	return &OrderService{
		catalog: catalog,
		state:   state,
		session: session,
	}
}

// Login validates the customer id and seeds the session balance when the
// customer has none yet. It returns the canonical id and current balance.
func (s *OrderService) Login(ctx context.Context, customerID string, startingCredit float64) (string, float64, error) {
	id := domain.NormalizeID(customerID)
	if !customerIDPattern.MatchString(id) {
		return "", 0, ErrInvalidCustomerID
	}

	if _, err := s.session.InitCredit(ctx, id, startingCredit); err != nil {
		return "", 0, fmt.Errorf("seed credit: %w", err)
	}

	credit, ok, err := s.session.GetCredit(ctx, id)
	if err != nil {
		return "", 0, fmt.Errorf("load credit: %w", err)
	}
	if !ok {
		return "", 0, ErrNoSession
	}
	return id, credit, nil
}

// State returns the customer's order document, initializing the inventory
// from the catalog when nothing is stored yet.
func (s *OrderService) State(ctx context.Context, customerID string) (domain.OrderState, error) {
	st, err := s.state.LoadState(ctx, customerID)
	if err != nil {
		return domain.OrderState{}, fmt.Errorf("load state: %w", err)
	}
	if st == nil {
		return domain.OrderState{Inventory: s.catalog.InitialInventory()}, nil
	}
	return *st, nil
}

type CreateOrderParams struct {
	CustomerID string
	Quantity   int
	Scope      domain.OrderScope
	OrderType  domain.OrderType
}

// CreateOrder validates the request against the catalog, mints an
// InProgress order and persists it at the head of the customer's list.
func (s *OrderService) CreateOrder(ctx context.Context, p CreateOrderParams) (domain.Order, error) {
	if p.Quantity <= 0 {
		return domain.Order{}, ErrInvalidQuantity
	}
	if !p.OrderType.Valid() {
		return domain.Order{}, ErrInvalidOrderType
	}

	scope := domain.OrderScope{
		SupplierID:  domain.NormalizeID(p.Scope.SupplierID),
		WarehouseID: domain.NormalizeID(p.Scope.WarehouseID),
	}
	if scope.SupplierID != "" {
		if _, ok := s.catalog.FindSupplier(scope.SupplierID); !ok {
			return domain.Order{}, ErrUnknownSupplier
		}
		if scope.WarehouseID != "" {
			if _, ok := s.catalog.FindWarehouse(scope.SupplierID, scope.WarehouseID); !ok {
				return domain.Order{}, ErrUnknownWarehouse
			}
		}
	}

	st, err := s.State(ctx, p.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		CustomerID:  p.CustomerID,
		Quantity:    p.Quantity,
		Scope:       scope,
		OrderType:   p.OrderType,
		Status:      domain.OrderStatusInProgress,
		Allocations: []domain.OrderAllocation{},
	}

	st.Orders = append([]domain.Order{order}, st.Orders...)
	if err := s.state.SaveState(ctx, p.CustomerID, st); err != nil {
		return domain.Order{}, fmt.Errorf("save state: %w", err)
	}
	return order, nil
}

// GenerateOrders appends n InProgress demo orders of rotating type, one
// unit each, with ascending creation times.
func (s *OrderService) GenerateOrders(ctx context.Context, customerID string, n int) ([]domain.Order, error) {
	st, err := s.State(ctx, customerID)
	if err != nil {
		return nil, err
	}

	types := []domain.OrderType{domain.OrderTypeEmergency, domain.OrderTypeOverdue, domain.OrderTypeDaily}
	now := time.Now()

	generated := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		generated = append(generated, domain.Order{
			ID:          uuid.New().String(),
			CreatedAt:   now.Add(time.Duration(i) * time.Millisecond),
			CustomerID:  customerID,
			Quantity:    1,
			OrderType:   types[i%len(types)],
			Status:      domain.OrderStatusInProgress,
			Allocations: []domain.OrderAllocation{},
		})
	}

	st.Orders = append(st.Orders, generated...)
	if err := s.state.SaveState(ctx, customerID, st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return generated, nil
}

// DeleteOrder removes one order from the customer's list.
func (s *OrderService) DeleteOrder(ctx context.Context, customerID, orderID string) error {
	st, err := s.State(ctx, customerID)
	if err != nil {
		return err
	}

	kept := make([]domain.Order, 0, len(st.Orders))
	for _, o := range st.Orders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(st.Orders) {
		return ErrOrderNotFound
	}

	st.Orders = kept
	if err := s.state.SaveState(ctx, customerID, st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// AssignOrders runs one settlement pass over the customer's pending orders
// and persists the resulting orders, inventory and credit.
func (s *OrderService) AssignOrders(ctx context.Context, customerID string) (domain.SettleResult, error) {
	st, err := s.State(ctx, customerID)
	if err != nil {
		return domain.SettleResult{}, err
	}

	credit, ok, err := s.session.GetCredit(ctx, customerID)
	if err != nil {
		return domain.SettleResult{}, fmt.Errorf("load credit: %w", err)
	}
	if !ok {
		return domain.SettleResult{}, ErrNoSession
	}

	result := domain.AssignOrders(s.catalog, st.Orders, st.Inventory, credit)

	if err := s.state.SaveState(ctx, customerID, domain.OrderState{
		Orders:    result.Orders,
		Inventory: result.Inventory,
	}); err != nil {
		return domain.SettleResult{}, fmt.Errorf("save state: %w", err)
	}
	if err := s.session.SetCredit(ctx, customerID, result.Credit); err != nil {
		return domain.SettleResult{}, fmt.Errorf("save credit: %w", err)
	}
	return result, nil
}

// Suppliers summarizes the catalog against the customer's current
// inventory snapshot.
func (s *OrderService) Suppliers(ctx context.Context, customerID string) ([]domain.SupplierWithTotals, error) {
	st, err := s.State(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.catalog.SuppliersWithTotals(st.Inventory), nil
}
