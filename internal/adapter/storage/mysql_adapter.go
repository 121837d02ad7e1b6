package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/salmon-market/internal/core/domain"
)

// MySQLAdapter persists each customer's order state as one opaque JSON
// document, keyed by customer id.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the state table if it does not exist yet.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS order_state (
			customer_id VARCHAR(16) PRIMARY KEY,
			doc JSON NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("create order_state: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) LoadState(ctx context.Context, customerID string) (*domain.OrderState, error) {
	var raw []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT doc FROM order_state WHERE customer_id = ?`, customerID,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}

	var state domain.OrderState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

func (m *MySQLAdapter) SaveState(ctx context.Context, customerID string, state domain.OrderState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO order_state (customer_id, doc) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE doc = VALUES(doc)`,
		customerID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ClearState(ctx context.Context, customerID string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM order_state WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
