package port

import "context"

type SessionRepository interface {
	// GetCredit returns the customer's balance; ok is false when no session exists
	GetCredit(ctx context.Context, customerID string) (credit float64, ok bool, err error)

	// SetCredit stores the customer's balance
	SetCredit(ctx context.Context, customerID string, credit float64) error

	// InitCredit seeds the balance only when absent, returns false if it already existed
	InitCredit(ctx context.Context, customerID string, credit float64) (bool, error)

	// ClearCredit drops the customer's balance
	ClearCredit(ctx context.Context, customerID string) error
}
