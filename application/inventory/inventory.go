package inventory

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
	productrepo "github.com/threeofkind/storefront/repository/product"
	"github.com/threeofkind/storefront/utils/errors"
	"github.com/threeofkind/storefront/utils/logger"
	"github.com/threeofkind/storefront/utils/metrics"
	"go.uber.org/zap"
)

// InventoryApp is the inventory ledger. Reservations are independent atomic decrements; the
// ledger does not remember them, callers track what they reserved through order items.
type InventoryApp interface {
	Reserve(ctx context.Context, productID uint64, quantity int64) error
	Release(ctx context.Context, productID uint64, quantity int64) error
	RestoreTx(ctx context.Context, tx *sqlx.Tx, items []model.OrderItem) error
}

type inventoryAppImpl struct {
	productRepo productrepo.ProductRepository
}

func NewInventoryApp(productRepo productrepo.ProductRepository) InventoryApp {
	return &inventoryAppImpl{productRepo: productRepo}
}

func (s *inventoryAppImpl) Reserve(ctx context.Context, productID uint64, quantity int64) error {
	if quantity <= 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	start := time.Now()
	ok, err := s.productRepo.ReserveStock(ctx, productID, quantity)
	metrics.InventoryReserveLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InventoryReservationsFailed.WithLabelValues("error").Inc()
		logger.Error("[Reserve] productRepo.ReserveStock", zap.Uint64("product_id", productID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if !ok {
		metrics.InventoryReservationsFailed.WithLabelValues("insufficient_stock").Inc()
		logger.Info("[Reserve] insufficient stock", zap.Uint64("product_id", productID), zap.Int64("need", quantity))
		return errors.SetCustomError(constant.ErrInsufficientStock)
	}
	return nil
}

func (s *inventoryAppImpl) Release(ctx context.Context, productID uint64, quantity int64) error {
	if quantity <= 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if err := s.productRepo.ReleaseStock(ctx, productID, quantity); err != nil {
		logger.Error("[Release] productRepo.ReleaseStock", zap.Uint64("product_id", productID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// RestoreTx puts back exactly the quantities recorded on the order items, inside the caller's
// transaction so restoration commits or rolls back together with the status change.
func (s *inventoryAppImpl) RestoreTx(ctx context.Context, tx *sqlx.Tx, items []model.OrderItem) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if err := s.productRepo.ReleaseStockTx(ctx, tx, it.ProductID, it.Quantity); err != nil {
			logger.Error("[RestoreTx] productRepo.ReleaseStockTx", zap.Uint64("product_id", it.ProductID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}
	return nil
}
