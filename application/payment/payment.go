package payment

import (
	"context"

	orderapp "github.com/threeofkind/storefront/application/order"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
	paymentrepo "github.com/threeofkind/storefront/repository/payment"
	"github.com/threeofkind/storefront/thirdparty/midtrans"
	"github.com/threeofkind/storefront/utils/errors"
	"github.com/threeofkind/storefront/utils/logger"
	"github.com/threeofkind/storefront/utils/metrics"
	"go.uber.org/zap"
)

const (
	ActionPaid    = "paid"
	ActionFailed  = "failed"
	ActionHold    = "hold"
	ActionPending = "pending"
	ActionIgnored = "ignored"

	// actionUnverified labels notifications that failed the signature check, whose fields
	// cannot be trusted.
	actionUnverified = "unverified"
)

// PaymentApp reconciles gateway notifications with order, payment and stock state. Applying the
// same notification twice is safe: the second delivery loses the status swap and is
// acknowledged without effect.
type PaymentApp interface {
	HandleNotification(ctx context.Context, n *model.PaymentNotification) (*model.ReconcileResult, error)
}

type paymentAppImpl struct {
	gateway     midtrans.Gateway
	paymentRepo paymentrepo.PaymentRepository
	orderApp    orderapp.OrderApp
}

func NewPaymentApp(gateway midtrans.Gateway, paymentRepo paymentrepo.PaymentRepository, orderApp orderapp.OrderApp) PaymentApp {
	return &paymentAppImpl{
		gateway:     gateway,
		paymentRepo: paymentRepo,
		orderApp:    orderApp,
	}
}

func (s *paymentAppImpl) HandleNotification(ctx context.Context, n *model.PaymentNotification) (*model.ReconcileResult, error) {
	if err := s.gateway.VerifyNotification(n); err != nil {
		metrics.NotificationsTotal.WithLabelValues(actionUnverified, "rejected").Inc()
		logger.Warn("[HandleNotification] signature verification failed", zap.String("order_id", n.OrderID))
		return nil, errors.SetCustomError(constant.ErrInvalidSignature)
	}

	res := &model.ReconcileResult{OrderNumber: n.OrderID, Action: action(n)}

	payment, err := s.paymentRepo.GetByTransactionID(ctx, n.OrderID)
	if err != nil {
		logger.Error("[HandleNotification] paymentRepo.GetByTransactionID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if payment == nil {
		metrics.NotificationsTotal.WithLabelValues(res.Action, "not_found").Inc()
		logger.Warn("[HandleNotification] payment not found", zap.String("order_id", n.OrderID))
		return nil, errors.SetCustomError(constant.ErrPaymentNotFound)
	}

	switch res.Action {
	case ActionPaid:
		res.Applied, err = s.orderApp.MarkPaid(ctx, payment.OrderID)
	case ActionFailed:
		res.Applied, err = s.orderApp.MarkFailed(ctx, payment.OrderID)
	case ActionHold:
		logger.Warn("[HandleNotification] capture held by fraud status",
			zap.String("order_id", n.OrderID), zap.String("fraud_status", n.FraudStatus))
	case ActionIgnored:
		logger.Info("[HandleNotification] unhandled transaction status",
			zap.String("order_id", n.OrderID), zap.String("transaction_status", n.TransactionStatus))
	}
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(res.Action, "error").Inc()
		return nil, err
	}

	result := "noop"
	if res.Applied {
		result = "applied"
	}
	metrics.NotificationsTotal.WithLabelValues(res.Action, result).Inc()
	logger.Info("[HandleNotification] reconciled",
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("action", res.Action),
		zap.Bool("applied", res.Applied))

	return res, nil
}

// action maps a notification onto the reconciliation table.
func action(n *model.PaymentNotification) string {
	switch n.TransactionStatus {
	case constant.TransactionStatusCapture:
		if n.FraudStatus == constant.FraudStatusAccept {
			return ActionPaid
		}
		return ActionHold
	case constant.TransactionStatusSettlement:
		return ActionPaid
	case constant.TransactionStatusCancel, constant.TransactionStatusDeny, constant.TransactionStatusExpire:
		return ActionFailed
	case constant.TransactionStatusPending:
		return ActionPending
	default:
		return ActionIgnored
	}
}
