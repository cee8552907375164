package checkout

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/threeofkind/storefront/cmd/config"
	"github.com/threeofkind/storefront/constant"
	inventorymocks "github.com/threeofkind/storefront/mocks/application/inventory"
	ordermocks "github.com/threeofkind/storefront/mocks/repository/order"
	paymentmocks "github.com/threeofkind/storefront/mocks/repository/payment"
	productmocks "github.com/threeofkind/storefront/mocks/repository/product"
	txmocks "github.com/threeofkind/storefront/mocks/repository/tx"
	gatewaymocks "github.com/threeofkind/storefront/mocks/thirdparty/midtrans"
	"github.com/threeofkind/storefront/model"
	"github.com/threeofkind/storefront/thirdparty/midtrans"
	cerr "github.com/threeofkind/storefront/utils/errors"
)

type fields struct {
	txRepo       *txmocks.TxRepository
	productRepo  *productmocks.ProductRepository
	orderRepo    *ordermocks.OrderRepository
	paymentRepo  *paymentmocks.PaymentRepository
	inventoryApp *inventorymocks.InventoryApp
	gateway      *gatewaymocks.Gateway
}

func testConfig() *config.Config {
	return &config.Config{
		Order: config.OrderConfig{
			ShippingFee:       decimal.NewFromInt(10000),
			PriceTolerance:    decimal.Zero,
			PaymentExpiration: 24 * time.Hour,
			FallbackEmail:     "customer@threeofkind.supply",
		},
	}
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validRequest() *model.CheckoutRequest {
	return &model.CheckoutRequest{
		FullName:      "Budi Santoso",
		Address:       "Jl. Merdeka 1",
		City:          "Bandung",
		PostalCode:    "40111",
		Phone:         "08123456789",
		PaymentMethod: "bank_transfer",
		Cart: map[string]model.CartItem{
			"2": {Quantity: 1, Price: price(30000)},
			"1": {Quantity: 2, Price: price(50000)},
		},
	}
}

var catalog = []model.Product{
	{ID: 1, Name: "Kaos Hitam", Price: decimal.NewFromInt(50000), Stock: 10},
	{ID: 2, Name: "Topi", Price: decimal.NewFromInt(30000), Stock: 5},
}

func TestCheckoutApp_Checkout(t *testing.T) {
	orig := newOrderNumber
	newOrderNumber = func() string { return "ORD-TEST00000001" }
	t.Cleanup(func() { newOrderNumber = orig })

	tests := []struct {
		name     string
		userID   *uint64
		req      func() *model.CheckoutRequest
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: two products plus shipping",
			req:  validRequest,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(1), int64(2)).Return(nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(2), int64(1)).Return(nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("InsertOrderTx", mock.Anything, tx, mock.MatchedBy(func(o *model.Order) bool {
					return o.OrderNumber == "ORD-TEST00000001" &&
						o.UserID == nil &&
						o.Status == constant.OrderStatusPending &&
						o.Email == "customer@threeofkind.supply" &&
						o.ShippingFee.Equal(decimal.NewFromInt(10000)) &&
						o.TotalAmount.Equal(decimal.NewFromInt(140000))
				})).Return(uint64(11), nil).Once()
				f.orderRepo.On("InsertOrderItemsTx", mock.Anything, tx, uint64(11), mock.MatchedBy(func(items []model.OrderItem) bool {
					return len(items) == 2 && items[0].ProductID == 1 && items[0].Quantity == 2 && items[1].ProductID == 2
				})).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.gateway.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(r *model.GatewayTransactionRequest) bool {
					last := r.Items[len(r.Items)-1]
					return r.OrderID == "ORD-TEST00000001" &&
						r.GrossAmount == 140000 &&
						len(r.Items) == 3 &&
						last.ID == constant.ShippingItemID && last.Price == 10000 && last.Quantity == 1 &&
						assert.ObjectsAreEqual([]string{"bca_va"}, r.EnabledPayments)
				})).Return(&model.GatewayTransactionResponse{Token: "snap-token", RedirectURL: "https://pay/redirect"}, nil).Once()
				f.paymentRepo.On("Insert", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
					return p.OrderID == 11 &&
						p.TransactionID == "ORD-TEST00000001" &&
						p.Status == constant.PaymentStatusPending &&
						p.BankChoice != nil && *p.BankChoice == "bca" &&
						p.Amount.Equal(decimal.NewFromInt(140000))
				})).Return(uint64(5), nil).Once()
			},
		},
		{
			name: "error: gateway failure rolls back order and stock",
			req:  validRequest,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				deleteTx := &sqlx.Tx{}
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(1), int64(2)).Return(nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(2), int64(1)).Return(nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("InsertOrderTx", mock.Anything, tx, mock.Anything).Return(uint64(11), nil).Once()
				f.orderRepo.On("InsertOrderItemsTx", mock.Anything, tx, uint64(11), mock.Anything).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.gateway.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, midtrans.ErrTimeout).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(deleteTx, nil).Once()
				f.orderRepo.On("DeleteOrderTx", mock.Anything, deleteTx, uint64(11)).Return(nil).Once()
				f.txRepo.On("CommitTx", deleteTx).Return(nil).Once()
				f.inventoryApp.On("Release", mock.Anything, uint64(2), int64(1)).Return(nil).Once()
				f.inventoryApp.On("Release", mock.Anything, uint64(1), int64(2)).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrGateway,
		},
		{
			name: "error: stock taken between validation and reservation",
			req:  validRequest,
			mockCall: func(f fields) {
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(1), int64(2)).Return(nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, uint64(2), int64(1)).Return(cerr.SetCustomError(constant.ErrInsufficientStock)).Once()
				f.inventoryApp.On("Release", mock.Anything, uint64(1), int64(2)).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInsufficientStock,
		},
		{
			name: "error: payment insert fails after gateway success",
			req:  validRequest,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				deleteTx := &sqlx.Tx{}
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
				f.inventoryApp.On("Reserve", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("InsertOrderTx", mock.Anything, tx, mock.Anything).Return(uint64(11), nil).Once()
				f.orderRepo.On("InsertOrderItemsTx", mock.Anything, tx, uint64(11), mock.Anything).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.gateway.On("CreateTransaction", mock.Anything, mock.Anything).Return(&model.GatewayTransactionResponse{Token: "t"}, nil).Once()
				f.paymentRepo.On("Insert", mock.Anything, mock.Anything).Return(uint64(0), errors.New("duplicate key")).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(deleteTx, nil).Once()
				f.orderRepo.On("DeleteOrderTx", mock.Anything, deleteTx, uint64(11)).Return(nil).Once()
				f.txRepo.On("CommitTx", deleteTx).Return(nil).Once()
				f.inventoryApp.On("Release", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name: "error: catalog stock too low",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["2"] = model.CartItem{Quantity: 6}
				return r
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInsufficientStock,
		},
		{
			name: "error: client price differs from catalog",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["1"] = model.CartItem{Quantity: 2, Price: price(1)}
				return r
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2}).Return(catalog, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrPriceMismatch,
		},
		{
			name: "error: unknown product",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["99"] = model.CartItem{Quantity: 1}
				return r
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByIDs", mock.Anything, []uint64{1, 2, 99}).Return(catalog, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrProductNotFound,
		},
		{
			name: "error: empty cart",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart = map[string]model.CartItem{}
				return r
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: unknown payment method",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.PaymentMethod = "cash"
				return r
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: malformed product id",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["abc"] = model.CartItem{Quantity: 1}
				return r
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: negative quantity",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["1"] = model.CartItem{Quantity: -1}
				return r
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: quantity beyond gateway range",
			req: func() *model.CheckoutRequest {
				r := validRequest()
				r.Cart["1"] = model.CartItem{Quantity: math.MaxInt32 + 1}
				return r
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				txRepo:       txmocks.NewTxRepository(t),
				productRepo:  productmocks.NewProductRepository(t),
				orderRepo:    ordermocks.NewOrderRepository(t),
				paymentRepo:  paymentmocks.NewPaymentRepository(t),
				inventoryApp: inventorymocks.NewInventoryApp(t),
				gateway:      gatewaymocks.NewGateway(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			app := NewCheckoutApp(testConfig(), f.txRepo, f.productRepo, f.orderRepo, f.paymentRepo, f.inventoryApp, f.gateway, nil, nil)
			got, err := app.Checkout(context.Background(), tt.userID, tt.req())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Checkout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assert.True(t, cerr.IsType(err, tt.errCode), "error = %v", err)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "ORD-TEST00000001", got.OrderID)
			assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(140000)))
			assert.Equal(t, "snap-token", got.SnapToken)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), got.ExpiresAt, time.Minute)
		})
	}
}

func TestCheckoutApp_ZeroQuantityDefaultsToOne(t *testing.T) {
	productRepo := productmocks.NewProductRepository(t)
	productRepo.On("GetByIDs", mock.Anything, []uint64{1}).Return(catalog[:1], nil).Once()

	app := &checkoutAppImpl{config: testConfig(), productRepo: productRepo}
	req := validRequest()
	req.Cart = map[string]model.CartItem{"1": {}}

	lines, method, err := app.validate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].quantity)
	assert.Equal(t, "bca", method.Bank)
}

func TestNewOrderNumber(t *testing.T) {
	a, b := newOrderNumber(), newOrderNumber()
	assert.Regexp(t, `^ORD-[0-9A-F]{12}$`, a)
	assert.NotEqual(t, a, b)
}
