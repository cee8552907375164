package context

import (
	"context"

	"github.com/threeofkind/storefront/constant"
)

func GetUserID(ctx context.Context) (uint64, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// GetOptionalUserID returns nil for guest requests.
func GetOptionalUserID(ctx context.Context) *uint64 {
	id, ok := GetUserID(ctx)
	if !ok {
		return nil
	}
	return &id
}

func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, constant.UserIDKey, userID)
}
