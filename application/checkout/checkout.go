package checkout

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/threeofkind/storefront/application/inventory"
	"github.com/threeofkind/storefront/cmd/config"
	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/model"
	orderrepo "github.com/threeofkind/storefront/repository/order"
	paymentrepo "github.com/threeofkind/storefront/repository/payment"
	productrepo "github.com/threeofkind/storefront/repository/product"
	txrepo "github.com/threeofkind/storefront/repository/tx"
	"github.com/threeofkind/storefront/thirdparty/kafka"
	"github.com/threeofkind/storefront/thirdparty/midtrans"
	"github.com/threeofkind/storefront/thirdparty/rabbitmq"
	"github.com/threeofkind/storefront/utils/errors"
	"github.com/threeofkind/storefront/utils/logger"
	"github.com/threeofkind/storefront/utils/metrics"
	"github.com/threeofkind/storefront/utils/saga"
	validatorx "github.com/threeofkind/storefront/utils/validator"
	"go.uber.org/zap"
)

type attemptState string

const (
	stateValidating       attemptState = "validating"
	stateReserving        attemptState = "reserving"
	stateOrderCreated     attemptState = "order_created"
	stateGatewayRequested attemptState = "gateway_requested"
	stateCompleted        attemptState = "completed"
	stateRolledBack       attemptState = "rolled_back"
)

type CheckoutApp interface {
	Checkout(ctx context.Context, userID *uint64, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type checkoutAppImpl struct {
	config       *config.Config
	txRepo       txrepo.TxRepository
	productRepo  productrepo.ProductRepository
	orderRepo    orderrepo.OrderRepository
	paymentRepo  paymentrepo.PaymentRepository
	inventoryApp inventoryapp.InventoryApp
	gateway      midtrans.Gateway
	publisher    *rabbitmq.Publisher
	events       *kafka.Producer
}

func NewCheckoutApp(config *config.Config, txRepo txrepo.TxRepository, productRepo productrepo.ProductRepository,
	orderRepo orderrepo.OrderRepository, paymentRepo paymentrepo.PaymentRepository, inventoryApp inventoryapp.InventoryApp,
	gateway midtrans.Gateway, publisher *rabbitmq.Publisher, events *kafka.Producer) CheckoutApp {
	return &checkoutAppImpl{
		config:       config,
		txRepo:       txRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		inventoryApp: inventoryApp,
		gateway:      gateway,
		publisher:    publisher,
		events:       events,
	}
}

// line is one validated cart entry, priced from the catalog.
type line struct {
	product  model.Product
	quantity int64
	price    decimal.Decimal
}

// attempt carries the state of one checkout through the saga steps.
type attempt struct {
	state   attemptState
	order   *model.Order
	items   []model.OrderItem
	method  model.PaymentMethod
	gateway *model.GatewayTransactionResponse
	payment *model.Payment
}

func (a *attempt) moveTo(next attemptState) {
	logger.Debug("[Checkout] state", zap.String("order_id", a.order.OrderNumber), zap.String("from", string(a.state)), zap.String("to", string(next)))
	a.state = next
}

var newOrderNumber = func() string {
	return constant.OrderNumberPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func (s *checkoutAppImpl) Checkout(ctx context.Context, userID *uint64, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	lines, method, err := s.validate(ctx, req)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	a := s.newAttempt(userID, req, lines, method)

	sg := saga.New("checkout")
	for _, l := range lines {
		l := l
		sg.Add(saga.Step{
			Name: fmt.Sprintf("reserve:%d", l.product.ID),
			Action: func(ctx context.Context) error {
				return s.inventoryApp.Reserve(ctx, l.product.ID, l.quantity)
			},
			Compensate: func(ctx context.Context) error {
				return s.inventoryApp.Release(ctx, l.product.ID, l.quantity)
			},
		})
	}
	sg.Add(saga.Step{
		Name:       "create_order",
		Action:     func(ctx context.Context) error { return s.createOrder(ctx, a) },
		Compensate: func(ctx context.Context) error { return s.deleteOrder(ctx, a) },
	})
	sg.Add(saga.Step{
		Name:   "gateway_transaction",
		Action: func(ctx context.Context) error { return s.requestTransaction(ctx, a) },
	})
	sg.Add(saga.Step{
		Name:   "persist_payment",
		Action: func(ctx context.Context) error { return s.persistPayment(ctx, a) },
	})

	a.moveTo(stateReserving)
	if err := sg.Run(ctx); err != nil {
		return nil, s.rollback(a, err)
	}
	a.moveTo(stateCompleted)
	metrics.CheckoutsTotal.WithLabelValues("completed").Inc()

	s.announce(a)

	return &model.CheckoutResponse{
		OrderID:     a.order.OrderNumber,
		TotalAmount: a.order.TotalAmount,
		SnapToken:   a.gateway.Token,
		RedirectURL: a.gateway.RedirectURL,
		ExpiresAt:   a.payment.ExpiresAt,
	}, nil
}

// validate has no side effects. Lines come back sorted by product id, which is also the
// reservation order.
func (s *checkoutAppImpl) validate(ctx context.Context, req *model.CheckoutRequest) ([]line, model.PaymentMethod, error) {
	if req == nil {
		return nil, model.PaymentMethod{}, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if err := validatorx.ValidateStruct(req); err != nil {
		return nil, model.PaymentMethod{}, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(err.Error())
	}

	method, err := model.NewPaymentMethod(req.PaymentMethod, req.BankChoice, req.EWalletChoice)
	if err != nil {
		return nil, model.PaymentMethod{}, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(err.Error())
	}

	ids := make([]uint64, 0, len(req.Cart))
	quantities := make(map[uint64]model.CartItem, len(req.Cart))
	for key, item := range req.Cart {
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil || id == 0 {
			return nil, method, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(fmt.Sprintf("invalid product id %q", key))
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		// The gateway carries item quantities as int32.
		if item.Quantity < 0 || item.Quantity > math.MaxInt32 {
			return nil, method, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(fmt.Sprintf("invalid quantity for product %d", id))
		}
		if _, dup := quantities[id]; dup {
			return nil, method, errors.SetCustomError(constant.ErrInvalidRequest).WithDetail(fmt.Sprintf("duplicate product %d", id))
		}
		quantities[id] = item
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		logger.Error("[Checkout] productRepo.GetByIDs", zap.String("error", err.Error()))
		return nil, method, errors.SetCustomError(constant.ErrInternal)
	}
	byID := make(map[uint64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]line, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, method, errors.SetCustomError(constant.ErrProductNotFound).WithDetail(fmt.Sprintf("product %d", id))
		}
		item := quantities[id]
		if p.Stock < item.Quantity {
			return nil, method, errors.SetCustomError(constant.ErrInsufficientStock).WithDetail(p.Name)
		}
		// The gateway only takes whole rupiah, so charge the catalog price rounded to it.
		price := p.Price.Round(0)
		if item.Price != nil && item.Price.Sub(price).Abs().GreaterThan(s.config.Order.PriceTolerance) {
			logger.Info("[Checkout] client price differs from catalog",
				zap.Uint64("product_id", id), zap.String("client", item.Price.String()), zap.String("catalog", price.String()))
			return nil, method, errors.SetCustomError(constant.ErrPriceMismatch).WithDetail(p.Name)
		}
		lines = append(lines, line{product: p, quantity: item.Quantity, price: price})
	}

	return lines, method, nil
}

func (s *checkoutAppImpl) newAttempt(userID *uint64, req *model.CheckoutRequest, lines []line, method model.PaymentMethod) *attempt {
	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		it := model.OrderItem{
			ProductID:   l.product.ID,
			ProductName: l.product.Name,
			Quantity:    l.quantity,
			Price:       l.price,
		}
		subtotal = subtotal.Add(it.Subtotal())
		items = append(items, it)
	}

	email := req.Email
	if email == "" {
		email = s.config.Order.FallbackEmail
	}
	shipping := s.config.Order.ShippingFee.Round(0)

	return &attempt{
		state: stateValidating,
		order: &model.Order{
			OrderNumber:   newOrderNumber(),
			UserID:        userID,
			FullName:      req.FullName,
			Email:         email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			PaymentMethod: string(method.Kind),
			ShippingFee:   shipping,
			TotalAmount:   subtotal.Add(shipping),
			Status:        constant.OrderStatusPending,
		},
		items:  items,
		method: method,
	}
}

func (s *checkoutAppImpl) createOrder(ctx context.Context, a *attempt) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Checkout] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, a.order)
	if err != nil {
		logger.Error("[Checkout] insert order", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.orderRepo.InsertOrderItemsTx(ctx, tx, orderID, a.items); err != nil {
		logger.Error("[Checkout] insert items", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Checkout] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	a.order.ID = orderID
	for i := range a.items {
		a.items[i].OrderID = orderID
	}
	a.moveTo(stateOrderCreated)
	return nil
}

// deleteOrder is the only place an order is ever deleted.
func (s *checkoutAppImpl) deleteOrder(ctx context.Context, a *attempt) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.orderRepo.DeleteOrderTx(ctx, tx, a.order.ID); err != nil {
		return err
	}
	if err := s.txRepo.CommitTx(tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *checkoutAppImpl) requestTransaction(ctx context.Context, a *attempt) error {
	req := &model.GatewayTransactionRequest{
		OrderID:     a.order.OrderNumber,
		GrossAmount: a.order.TotalAmount.IntPart(),
		Items:       make([]model.GatewayItem, 0, len(a.items)+1),
		Customer: model.GatewayCustomer{
			FullName:   a.order.FullName,
			Email:      a.order.Email,
			Phone:      a.order.Phone,
			Address:    a.order.Address,
			City:       a.order.City,
			PostalCode: a.order.PostalCode,
		},
		EnabledPayments: a.method.EnabledPayments(),
	}
	for _, it := range a.items {
		req.Items = append(req.Items, model.GatewayItem{
			ID:       strconv.FormatUint(it.ProductID, 10),
			Name:     it.ProductName,
			Price:    it.Price.IntPart(),
			Quantity: int32(it.Quantity),
		})
	}
	req.Items = append(req.Items, model.GatewayItem{
		ID:       constant.ShippingItemID,
		Name:     constant.ShippingItemName,
		Price:    a.order.ShippingFee.IntPart(),
		Quantity: 1,
	})

	a.moveTo(stateGatewayRequested)
	start := time.Now()
	resp, err := s.gateway.CreateTransaction(ctx, req)
	metrics.GatewayRequestLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("[Checkout] gateway.CreateTransaction", zap.String("order_id", a.order.OrderNumber), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrGateway)
	}
	a.gateway = resp
	return nil
}

func (s *checkoutAppImpl) persistPayment(ctx context.Context, a *attempt) error {
	p := &model.Payment{
		OrderID:       a.order.ID,
		PaymentMethod: string(a.method.Kind),
		BankChoice:    a.method.BankChoice(),
		EWalletChoice: a.method.EWalletChoice(),
		TransactionID: a.order.OrderNumber,
		SnapToken:     a.gateway.Token,
		RedirectURL:   a.gateway.RedirectURL,
		Amount:        a.order.TotalAmount,
		Status:        constant.PaymentStatusPending,
		ExpiresAt:     time.Now().Add(s.config.Order.PaymentExpiration).UTC(),
	}
	id, err := s.paymentRepo.Insert(ctx, p)
	if err != nil {
		logger.Error("[Checkout] paymentRepo.Insert", zap.String("order_id", a.order.OrderNumber), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	p.ID = id
	a.payment = p
	return nil
}

func (s *checkoutAppImpl) rollback(a *attempt, err error) error {
	reached := a.state
	a.moveTo(stateRolledBack)
	metrics.CheckoutsTotal.WithLabelValues("rolled_back").Inc()

	fields := []zap.Field{
		zap.String("order_id", a.order.OrderNumber),
		zap.String("reached", string(reached)),
		zap.String("error", err.Error()),
	}
	var stepErr *saga.StepError
	if stderrors.As(err, &stepErr) && len(stepErr.Inconsistent) > 0 {
		metrics.Inconsistencies.WithLabelValues("checkout_compensation").Inc()
		fields = append(fields, zap.Strings("failed_compensations", stepErr.Inconsistent))
	}
	logger.Warn("[Checkout] rolled back", fields...)

	var ce errors.CustomError
	if stderrors.As(err, &ce) {
		return ce
	}
	return errors.SetCustomError(constant.ErrInternal)
}

// announce runs after the order is durable; failures here are logged only.
func (s *checkoutAppImpl) announce(a *attempt) {
	if s.publisher != nil {
		msg := rabbitmq.PaymentExpirationMessage{
			OrderNumber: a.order.OrderNumber,
			ExpiresAt:   a.payment.ExpiresAt,
		}
		if err := s.publisher.PublishPaymentExpiration(msg); err != nil {
			logger.Error("[Checkout] publish payment expiration", zap.String("order_id", a.order.OrderNumber), zap.String("error", err.Error()))
		}
	}
	if s.events != nil {
		s.events.PublishOrderEvent(kafka.NewOrderEvent(kafka.EventOrderCreated, a.order.OrderNumber,
			string(a.order.Status), a.order.TotalAmount, ""))
	}
	logger.Info("[Checkout] completed",
		zap.String("order_id", a.order.OrderNumber),
		zap.String("total", a.order.TotalAmount.String()),
		zap.Strings("enabled_payments", a.method.EnabledPayments()))
}
