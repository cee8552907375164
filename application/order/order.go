package order

import (
	"context"

	"github.com/jmoiron/sqlx"
	inventoryapp "github.com/threeofkind/storefront/application/inventory"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
	orderrepo "github.com/threeofkind/storefront/repository/order"
	paymentrepo "github.com/threeofkind/storefront/repository/payment"
	redisrepo "github.com/threeofkind/storefront/repository/redis"
	txrepo "github.com/threeofkind/storefront/repository/tx"
	"github.com/threeofkind/storefront/thirdparty/kafka"
	"github.com/threeofkind/storefront/utils/errors"
	"github.com/threeofkind/storefront/utils/logger"
	"github.com/threeofkind/storefront/utils/metrics"
	"go.uber.org/zap"
)

// OrderApp owns every order status change after checkout. The user cancel path, the expiry
// path and the gateway reconciler all end up in apply, so they share one guarded transition.
type OrderApp interface {
	GetStatus(ctx context.Context, orderNumber string) (*model.OrderStatusResponse, error)
	CancelOrder(ctx context.Context, orderNumber string, userID uint64) (*model.CancelOrderResponse, error)
	ExpireOrder(ctx context.Context, orderNumber string) error
	MarkPaid(ctx context.Context, orderID uint64) (bool, error)
	MarkFailed(ctx context.Context, orderID uint64) (bool, error)
}

type orderAppImpl struct {
	txRepo       txrepo.TxRepository
	orderRepo    orderrepo.OrderRepository
	paymentRepo  paymentrepo.PaymentRepository
	redisRepo    redisrepo.Repository
	inventoryApp inventoryapp.InventoryApp
	events       *kafka.Producer
}

func NewOrderApp(txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, paymentRepo paymentrepo.PaymentRepository,
	redisRepo redisrepo.Repository, inventoryApp inventoryapp.InventoryApp, events *kafka.Producer) OrderApp {
	return &orderAppImpl{
		txRepo:       txRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		redisRepo:    redisRepo,
		inventoryApp: inventoryApp,
		events:       events,
	}
}

// transition describes one status change of an order and the payment attached to it.
type transition struct {
	name         string
	orderTo      constant.OrderStatus
	paymentTo    constant.PaymentStatus
	restoreStock bool
	eventType    string
	authorize    func(o *model.Order) error
}

var (
	paidTransition = transition{
		name:      "paid",
		orderTo:   constant.OrderStatusPaid,
		paymentTo: constant.PaymentStatusSuccess,
		eventType: kafka.EventOrderPaid,
	}
	failedTransition = transition{
		name:         "payment_failed",
		orderTo:      constant.OrderStatusCancelled,
		paymentTo:    constant.PaymentStatusFailed,
		restoreStock: true,
		eventType:    kafka.EventOrderCancelled,
	}
	expiredTransition = transition{
		name:         "payment_expired",
		orderTo:      constant.OrderStatusCancelled,
		paymentTo:    constant.PaymentStatusExpired,
		restoreStock: true,
		eventType:    kafka.EventOrderCancelled,
	}
)

func cancelTransition(userID uint64) transition {
	return transition{
		name:         "user_cancel",
		orderTo:      constant.OrderStatusCancelled,
		paymentTo:    constant.PaymentStatusCancelled,
		restoreStock: true,
		eventType:    kafka.EventOrderCancelled,
		authorize: func(o *model.Order) error {
			if o.UserID == nil || *o.UserID != userID {
				return errors.SetCustomError(constant.ErrForbidden)
			}
			return nil
		},
	}
}

func (s *orderAppImpl) GetStatus(ctx context.Context, orderNumber string) (*model.OrderStatusResponse, error) {
	cached, err := s.redisRepo.GetOrderStatus(ctx, orderNumber)
	if err != nil {
		logger.Warn("[GetStatus] redisRepo.GetOrderStatus", zap.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	row, err := s.orderRepo.GetStatusByOrderNumber(ctx, orderNumber)
	if err != nil {
		logger.Error("[GetStatus] orderRepo.GetStatusByOrderNumber", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	// An order without a payment row is a checkout still in flight or being rolled back.
	if row == nil || row.PaymentStatus == nil {
		return nil, errors.SetCustomError(constant.ErrOrderNotFound)
	}

	res := &model.OrderStatusResponse{
		Status:      *row.PaymentStatus,
		OrderStatus: row.OrderStatus,
		PaidAt:      row.PaidAt,
	}
	// A pending order can still transition, and that transition may clear the key before the
	// write below lands. Only settled states go to the cache.
	if res.OrderStatus == constant.OrderStatusPending || res.Status == constant.PaymentStatusPending {
		return res, nil
	}
	if err := s.redisRepo.SetOrderStatus(ctx, orderNumber, res); err != nil {
		logger.Warn("[GetStatus] redisRepo.SetOrderStatus", zap.String("error", err.Error()))
	}
	return res, nil
}

func (s *orderAppImpl) CancelOrder(ctx context.Context, orderNumber string, userID uint64) (*model.CancelOrderResponse, error) {
	lookup := func(tx *sqlx.Tx) (*model.Order, error) {
		return s.orderRepo.GetByOrderNumberTx(ctx, tx, orderNumber)
	}
	order, applied, err := s.apply(ctx, lookup, cancelTransition(userID))
	if err != nil {
		return nil, err
	}
	if !applied {
		// Still pending here means the guarded swap lost to a concurrent transition.
		if order.Status == constant.OrderStatusPending {
			return nil, errors.SetCustomError(constant.ErrInvalidTransition)
		}
		return nil, errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}
	return &model.CancelOrderResponse{
		Success: true,
		Message: "order cancelled",
	}, nil
}

// ExpireOrder cancels an order whose payment window passed. Orders that already left pending
// are left alone.
func (s *orderAppImpl) ExpireOrder(ctx context.Context, orderNumber string) error {
	lookup := func(tx *sqlx.Tx) (*model.Order, error) {
		return s.orderRepo.GetByOrderNumberTx(ctx, tx, orderNumber)
	}
	order, applied, err := s.apply(ctx, lookup, expiredTransition)
	if err != nil {
		return err
	}
	if !applied {
		logger.Info("[ExpireOrder] order no longer pending, nothing to expire",
			zap.String("order_id", orderNumber), zap.String("status", string(order.Status)))
	}
	return nil
}

func (s *orderAppImpl) MarkPaid(ctx context.Context, orderID uint64) (bool, error) {
	order, applied, err := s.apply(ctx, s.lookupByID(ctx, orderID), paidTransition)
	if err != nil {
		return false, err
	}
	if !applied {
		if order.Status == constant.OrderStatusCancelled {
			metrics.Inconsistencies.WithLabelValues("paid_after_cancel").Inc()
			logger.Warn("[MarkPaid] payment settled for a cancelled order, manual refund required",
				zap.String("order_id", order.OrderNumber))
		} else {
			logger.Info("[MarkPaid] duplicate notification ignored",
				zap.String("order_id", order.OrderNumber), zap.String("status", string(order.Status)))
		}
	}
	return applied, nil
}

func (s *orderAppImpl) MarkFailed(ctx context.Context, orderID uint64) (bool, error) {
	order, applied, err := s.apply(ctx, s.lookupByID(ctx, orderID), failedTransition)
	if err != nil {
		return false, err
	}
	if !applied {
		logger.Info("[MarkFailed] duplicate notification ignored",
			zap.String("order_id", order.OrderNumber), zap.String("status", string(order.Status)))
	}
	return applied, nil
}

func (s *orderAppImpl) lookupByID(ctx context.Context, orderID uint64) func(tx *sqlx.Tx) (*model.Order, error) {
	return func(tx *sqlx.Tx) (*model.Order, error) {
		return s.orderRepo.GetByIDTx(ctx, tx, orderID)
	}
}

// apply runs one transition in a single database transaction: guarded status swap on the
// order, the matching payment status, and stock restoration when the transition cancels.
// applied is false when the order is not in a state the transition may start from; the
// returned order then carries the status that blocked it.
func (s *orderAppImpl) apply(ctx context.Context, lookup func(tx *sqlx.Tx) (*model.Order, error), t transition) (*model.Order, bool, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[apply] begin tx", zap.String("transition", t.name), zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := lookup(tx)
	if err != nil {
		logger.Error("[apply] get order", zap.String("transition", t.name), zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, false, errors.SetCustomError(constant.ErrOrderNotFound)
	}

	if t.authorize != nil {
		if err := t.authorize(order); err != nil {
			return order, false, err
		}
	}

	from := order.Status
	if !from.CanTransitionTo(t.orderTo) {
		return order, false, nil
	}

	swapped, err := s.orderRepo.TransitionStatusTx(ctx, tx, order.ID, from, t.orderTo)
	if err != nil {
		logger.Error("[apply] orderRepo.TransitionStatusTx", zap.String("transition", t.name), zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	if !swapped {
		return order, false, nil
	}

	payment, err := s.paymentRepo.GetByOrderIDTx(ctx, tx, order.ID)
	if err != nil {
		logger.Error("[apply] paymentRepo.GetByOrderIDTx", zap.String("transition", t.name), zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	if payment != nil && payment.Status.CanTransitionTo(t.paymentTo) {
		if _, err := s.paymentRepo.TransitionStatusTx(ctx, tx, payment.ID, payment.Status, t.paymentTo); err != nil {
			logger.Error("[apply] paymentRepo.TransitionStatusTx", zap.String("transition", t.name), zap.String("error", err.Error()))
			return nil, false, errors.SetCustomError(constant.ErrInternal)
		}
	}

	if t.restoreStock {
		items, err := s.orderRepo.GetItemsTx(ctx, tx, order.ID)
		if err != nil {
			logger.Error("[apply] orderRepo.GetItemsTx", zap.String("transition", t.name), zap.String("error", err.Error()))
			return nil, false, errors.SetCustomError(constant.ErrInternal)
		}
		if err := s.inventoryApp.RestoreTx(ctx, tx, items); err != nil {
			return nil, false, err
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[apply] commit tx", zap.String("transition", t.name), zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	order.Status = t.orderTo
	metrics.OrderTransitionsTotal.WithLabelValues(string(from), string(t.orderTo)).Inc()
	logger.Info("[apply] order transitioned",
		zap.String("order_id", order.OrderNumber),
		zap.String("transition", t.name),
		zap.String("from", string(from)),
		zap.String("to", string(t.orderTo)))

	s.afterCommit(ctx, order, t)
	return order, true, nil
}

func (s *orderAppImpl) afterCommit(ctx context.Context, order *model.Order, t transition) {
	if err := s.redisRepo.DeleteOrderStatus(ctx, order.OrderNumber); err != nil {
		logger.Warn("[apply] redisRepo.DeleteOrderStatus", zap.String("order_id", order.OrderNumber), zap.String("error", err.Error()))
	}
	if s.events != nil {
		s.events.PublishOrderEvent(kafka.NewOrderEvent(t.eventType, order.OrderNumber, string(t.orderTo), order.TotalAmount, t.name))
	}
}
