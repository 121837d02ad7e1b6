package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const creditKeyPrefix = "credit:"

// RedisAdapter is the session/account store: one credit balance per
// customer.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetCredit(ctx context.Context, customerID string) (float64, bool, error) {
	val, err := r.client.Get(ctx, creditKeyPrefix+customerID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	credit, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return credit, true, nil
}

func (r *RedisAdapter) SetCredit(ctx context.Context, customerID string, credit float64) error {
	return r.client.Set(ctx, creditKeyPrefix+customerID, formatCreditValue(credit), 0).Err()
}

func (r *RedisAdapter) InitCredit(ctx context.Context, customerID string, credit float64) (bool, error) {
	return r.client.SetNX(ctx, creditKeyPrefix+customerID, formatCreditValue(credit), 0).Result()
}

func (r *RedisAdapter) ClearCredit(ctx context.Context, customerID string) error {
	return r.client.Del(ctx, creditKeyPrefix+customerID).Err()
}

// formatCreditValue keeps the full float64 precision on the wire; display
// rounding happens at the presentation layer only.
func formatCreditValue(credit float64) string {
	return strconv.FormatFloat(credit, 'g', -1, 64)
}
