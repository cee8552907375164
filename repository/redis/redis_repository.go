package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	redisclient "github.com/threeofkind/storefront/cmd/redis"
	"github.com/threeofkind/storefront/model"
)

const (
	keySession     = "session:%s"
	keyOrderStatus = "order_status:%s"

	TTLStatusCache = 5 * time.Minute
)

// Repository covers the two things this service keeps in Redis: sessions issued by the account
// service and the order status read cache.
type Repository interface {
	GetSession(ctx context.Context, sessionID string) (uint64, error)
	GetOrderStatus(ctx context.Context, orderNumber string) (*model.OrderStatusResponse, error)
	SetOrderStatus(ctx context.Context, orderNumber string, status *model.OrderStatusResponse) error
	DeleteOrderStatus(ctx context.Context, orderNumber string) error
}

type redis struct{}

func NewRepository() Repository {
	return &redis{}
}

// GetSession retrieves the user id stored for a token id
func (r *redis) GetSession(ctx context.Context, sessionID string) (uint64, error) {
	client := redisclient.Get()
	if client == nil {
		return 0, fmt.Errorf("redis not initialized")
	}
	return client.Get(ctx, fmt.Sprintf(keySession, sessionID)).Uint64()
}

// GetOrderStatus returns nil, nil on a cache miss.
func (r *redis) GetOrderStatus(ctx context.Context, orderNumber string) (*model.OrderStatusResponse, error) {
	client := redisclient.Get()
	if client == nil {
		return nil, nil
	}
	raw, err := client.Get(ctx, fmt.Sprintf(keyOrderStatus, orderNumber)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var status model.OrderStatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *redis) SetOrderStatus(ctx context.Context, orderNumber string, status *model.OrderStatusResponse) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return client.Set(ctx, fmt.Sprintf(keyOrderStatus, orderNumber), raw, TTLStatusCache).Err()
}

func (r *redis) DeleteOrderStatus(ctx context.Context, orderNumber string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, fmt.Sprintf(keyOrderStatus, orderNumber)).Err()
}
