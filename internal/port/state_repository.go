package port

import (
	"context"

	"github.com/rl1809/salmon-market/internal/core/domain"
)

type StateRepository interface {
	// LoadState returns the customer's order document, or nil when none is stored
	LoadState(ctx context.Context, customerID string) (*domain.OrderState, error)

	// SaveState overwrites the customer's order document
	SaveState(ctx context.Context, customerID string, state domain.OrderState) error

	// ClearState removes the customer's order document
	ClearState(ctx context.Context, customerID string) error
}
