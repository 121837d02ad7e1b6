package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rl1809/salmon-market/internal/core/domain"
	"github.com/rl1809/salmon-market/internal/core/service"
)

type HTTPHandler struct {
	orders         *service.OrderService
	startingCredit float64
}

func NewHTTPHandler(orders *service.OrderService, startingCredit float64) *HTTPHandler {
	return &HTTPHandler{orders: orders, startingCredit: startingCredit}
}

// Router mounts the API surface.
func (h *HTTPHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Get("/state", h.GetState)
		r.Get("/suppliers", h.ListSuppliers)
		r.Post("/orders", h.CreateOrder)
		r.Delete("/orders/{orderID}", h.DeleteOrder)
		r.Post("/orders/assign", h.AssignOrders)
	})
	return r
}

type LoginRequest struct {
	CustomerID string `json:"customer_id"`
}

type LoginResponse struct {
	CustomerID string `json:"customer_id"`
	Credit     string `json:"credit"`
}

type CreateOrderRequest struct {
	CustomerID  string `json:"customer_id"`
	Quantity    int    `json:"quantity"`
	SupplierID  string `json:"supplier_id,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	OrderType   string `json:"order_type"`
}

type StateResponse struct {
	Orders    []domain.Order          `json:"orders"`
	Inventory []domain.WarehouseStock `json:"inventory"`
}

type AssignResponse struct {
	Orders    []domain.Order          `json:"orders"`
	Inventory []domain.WarehouseStock `json:"inventory"`
	Credit    string                  `json:"credit"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	customerID, credit, err := h.orders.Login(r.Context(), req.CustomerID, h.startingCredit)
	if err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		CustomerID: customerID,
		Credit:     domain.FormatCredit(credit),
	})
}

func (h *HTTPHandler) GetState(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "customer_id is required"})
		return
	}

	state, err := h.orders.State(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, r, "get state", err)
		return
	}

	writeJSON(w, http.StatusOK, StateResponse{Orders: state.Orders, Inventory: state.Inventory})
}

func (h *HTTPHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "customer_id is required"})
		return
	}

	suppliers, err := h.orders.Suppliers(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, r, "list suppliers", err)
		return
	}

	writeJSON(w, http.StatusOK, suppliers)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "customer_id is required"})
		return
	}

	scope := domain.Unscoped()
	if req.SupplierID != "" && req.WarehouseID != "" {
		scope = domain.ScopedToWarehouse(req.SupplierID, req.WarehouseID)
	} else if req.SupplierID != "" {
		scope = domain.ScopedToSupplier(req.SupplierID)
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderParams{
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		Scope:      scope,
		OrderType:  domain.OrderType(req.OrderType),
	})
	if err != nil {
		h.writeServiceError(w, r, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	orderID := chi.URLParam(r, "orderID")
	if customerID == "" || orderID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "customer_id and order id are required"})
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), customerID, orderID); err != nil {
		h.writeServiceError(w, r, "delete order", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": orderID})
}

func (h *HTTPHandler) AssignOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "customer_id is required"})
		return
	}

	result, err := h.orders.AssignOrders(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, r, "assign orders", err)
		return
	}

	writeJSON(w, http.StatusOK, AssignResponse{
		Orders:    result.Orders,
		Inventory: result.Inventory,
		Credit:    domain.FormatCredit(result.Credit),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidOrderType):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrUnknownSupplier),
		errors.Is(err, service.ErrUnknownWarehouse),
		errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrNoSession):
		status = http.StatusUnauthorized
		message = err.Error()
	default:
		slog.Error(op+" failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}

	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
