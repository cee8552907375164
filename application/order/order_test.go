package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apporder "github.com/threeofkind/storefront/application/order"
	"github.com/threeofkind/storefront/constant"
	inventorymocks "github.com/threeofkind/storefront/mocks/application/inventory"
	ordermocks "github.com/threeofkind/storefront/mocks/repository/order"
	paymentmocks "github.com/threeofkind/storefront/mocks/repository/payment"
	redismocks "github.com/threeofkind/storefront/mocks/repository/redis"
	txmocks "github.com/threeofkind/storefront/mocks/repository/tx"
	"github.com/threeofkind/storefront/model"
	cerr "github.com/threeofkind/storefront/utils/errors"
)

type fields struct {
	txRepo       *txmocks.TxRepository
	orderRepo    *ordermocks.OrderRepository
	paymentRepo  *paymentmocks.PaymentRepository
	redisRepo    *redismocks.Repository
	inventoryApp *inventorymocks.InventoryApp
}

func newFields(t *testing.T) fields {
	return fields{
		txRepo:       txmocks.NewTxRepository(t),
		orderRepo:    ordermocks.NewOrderRepository(t),
		paymentRepo:  paymentmocks.NewPaymentRepository(t),
		redisRepo:    redismocks.NewRepository(t),
		inventoryApp: inventorymocks.NewInventoryApp(t),
	}
}

func (f fields) app() apporder.OrderApp {
	// Kafka producer is optional; nil keeps these tests off the network.
	return apporder.NewOrderApp(f.txRepo, f.orderRepo, f.paymentRepo, f.redisRepo, f.inventoryApp, nil)
}

func uid(v uint64) *uint64 { return &v }

func pendingOrder(userID *uint64) *model.Order {
	return &model.Order{
		ID:          1,
		OrderNumber: "ORD-1",
		UserID:      userID,
		TotalAmount: decimal.NewFromInt(140000),
		Status:      constant.OrderStatusPending,
	}
}

var orderItems = []model.OrderItem{
	{OrderID: 1, ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(50000)},
	{OrderID: 1, ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(30000)},
}

func assertErrType(t *testing.T, err error, want constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[want] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[want])
	}
}

func TestOrderApp_CancelOrder(t *testing.T) {
	type args struct {
		orderNumber string
		userID      uint64
	}
	tests := []struct {
		name     string
		args     args
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: pending order cancelled and stock restored",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(uid(7)), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(true, nil).Once()
				f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(&model.Payment{ID: 3, OrderID: 1, Status: constant.PaymentStatusPending}, nil).Once()
				f.paymentRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(3), constant.PaymentStatusPending, constant.PaymentStatusCancelled).Return(true, nil).Once()
				f.orderRepo.On("GetItemsTx", mock.Anything, tx, uint64(1)).Return(orderItems, nil).Once()
				f.inventoryApp.On("RestoreTx", mock.Anything, tx, orderItems).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.redisRepo.On("DeleteOrderStatus", mock.Anything, "ORD-1").Return(nil).Once()
			},
		},
		{
			name: "success: pending order without payment row",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(uid(7)), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(true, nil).Once()
				f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(nil, nil).Once()
				f.orderRepo.On("GetItemsTx", mock.Anything, tx, uint64(1)).Return(orderItems, nil).Once()
				f.inventoryApp.On("RestoreTx", mock.Anything, tx, orderItems).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.redisRepo.On("DeleteOrderStatus", mock.Anything, "ORD-1").Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "error: order not found",
			args: args{orderNumber: "ORD-404", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-404").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrOrderNotFound,
		},
		{
			name: "error: order belongs to another user",
			args: args{orderNumber: "ORD-1", userID: 8},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(uid(7)), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name: "error: guest order",
			args: args{orderNumber: "ORD-1", userID: 8},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(nil), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name: "error: paid order cannot be cancelled",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				o := pendingOrder(uid(7))
				o.Status = constant.OrderStatusPaid
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(o, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidOrderStatus,
		},
		{
			name: "error: status changed concurrently",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(uid(7)), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(false, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidTransition,
		},
		{
			name: "error: stock restoration fails, nothing committed",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(uid(7)), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(true, nil).Once()
				f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(&model.Payment{ID: 3, Status: constant.PaymentStatusPending}, nil).Once()
				f.paymentRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(3), constant.PaymentStatusPending, constant.PaymentStatusCancelled).Return(true, nil).Once()
				f.orderRepo.On("GetItemsTx", mock.Anything, tx, uint64(1)).Return(orderItems, nil).Once()
				f.inventoryApp.On("RestoreTx", mock.Anything, tx, orderItems).Return(cerr.SetCustomError(constant.ErrInternal)).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name: "error: begin tx fails",
			args: args{orderNumber: "ORD-1", userID: 7},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			got, err := f.app().CancelOrder(context.Background(), tt.args.orderNumber, tt.args.userID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CancelOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrType(t, err, tt.errCode)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Success)
		})
	}
}

func TestOrderApp_ExpireOrder(t *testing.T) {
	tests := []struct {
		name     string
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: pending order expired",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(pendingOrder(nil), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(true, nil).Once()
				f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(&model.Payment{ID: 3, Status: constant.PaymentStatusPending}, nil).Once()
				f.paymentRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(3), constant.PaymentStatusPending, constant.PaymentStatusExpired).Return(true, nil).Once()
				f.orderRepo.On("GetItemsTx", mock.Anything, tx, uint64(1)).Return(orderItems, nil).Once()
				f.inventoryApp.On("RestoreTx", mock.Anything, tx, orderItems).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.redisRepo.On("DeleteOrderStatus", mock.Anything, "ORD-1").Return(nil).Once()
			},
		},
		{
			name: "success: paid order left alone",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				o := pendingOrder(nil)
				o.Status = constant.OrderStatusPaid
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(o, nil).Once()
			},
		},
		{
			name: "error: order not found",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByOrderNumberTx", mock.Anything, tx, "ORD-1").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrOrderNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			tt.mockCall(f)
			err := f.app().ExpireOrder(context.Background(), "ORD-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpireOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrType(t, err, tt.errCode)
			}
		})
	}
}

func TestOrderApp_MarkPaid(t *testing.T) {
	tests := []struct {
		name     string
		mockCall func(f fields)
		want     bool
	}{
		{
			name: "success: pending order paid",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.orderRepo.On("GetByIDTx", mock.Anything, tx, uint64(1)).Return(pendingOrder(uid(7)), nil).Once()
				f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusPaid).Return(true, nil).Once()
				f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(&model.Payment{ID: 3, Status: constant.PaymentStatusPending}, nil).Once()
				f.paymentRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(3), constant.PaymentStatusPending, constant.PaymentStatusSuccess).Return(true, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()
				f.redisRepo.On("DeleteOrderStatus", mock.Anything, "ORD-1").Return(nil).Once()
			},
			want: true,
		},
		{
			name: "noop: duplicate settlement for paid order",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				o := pendingOrder(uid(7))
				o.Status = constant.OrderStatusPaid
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByIDTx", mock.Anything, tx, uint64(1)).Return(o, nil).Once()
			},
			want: false,
		},
		{
			name: "noop: settlement after local cancel",
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				o := pendingOrder(uid(7))
				o.Status = constant.OrderStatusCancelled
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.orderRepo.On("GetByIDTx", mock.Anything, tx, uint64(1)).Return(o, nil).Once()
			},
			want: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			tt.mockCall(f)
			got, err := f.app().MarkPaid(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderApp_MarkFailed(t *testing.T) {
	f := newFields(t)
	tx := &sqlx.Tx{}
	f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
	f.orderRepo.On("GetByIDTx", mock.Anything, tx, uint64(1)).Return(pendingOrder(nil), nil).Once()
	f.orderRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(1), constant.OrderStatusPending, constant.OrderStatusCancelled).Return(true, nil).Once()
	f.paymentRepo.On("GetByOrderIDTx", mock.Anything, tx, uint64(1)).Return(&model.Payment{ID: 3, Status: constant.PaymentStatusPending}, nil).Once()
	f.paymentRepo.On("TransitionStatusTx", mock.Anything, tx, uint64(3), constant.PaymentStatusPending, constant.PaymentStatusFailed).Return(true, nil).Once()
	f.orderRepo.On("GetItemsTx", mock.Anything, tx, uint64(1)).Return(orderItems, nil).Once()
	f.inventoryApp.On("RestoreTx", mock.Anything, tx, orderItems).Return(nil).Once()
	f.txRepo.On("CommitTx", tx).Return(nil).Once()
	f.redisRepo.On("DeleteOrderStatus", mock.Anything, "ORD-1").Return(nil).Once()

	applied, err := f.app().MarkFailed(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestOrderApp_GetStatus(t *testing.T) {
	paidAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	paymentStatus := func(st constant.PaymentStatus) *constant.PaymentStatus { return &st }
	paidRow := &model.OrderStatusRow{
		OrderID:       1,
		OrderStatus:   constant.OrderStatusPaid,
		PaidAt:        &paidAt,
		PaymentStatus: paymentStatus(constant.PaymentStatusSuccess),
	}
	paid := &model.OrderStatusResponse{Status: constant.PaymentStatusSuccess, OrderStatus: constant.OrderStatusPaid, PaidAt: &paidAt}

	tests := []struct {
		name     string
		mockCall func(f fields)
		want     *model.OrderStatusResponse
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: served from cache",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(paid, nil).Once()
			},
			want: paid,
		},
		{
			name: "success: cache miss reads database and fills cache",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, nil).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(paidRow, nil).Once()
				f.redisRepo.On("SetOrderStatus", mock.Anything, "ORD-1", paid).Return(nil).Once()
			},
			want: paid,
		},
		{
			name: "success: pending state is returned but not cached",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, nil).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(&model.OrderStatusRow{
					OrderID:       1,
					OrderStatus:   constant.OrderStatusPending,
					PaymentStatus: paymentStatus(constant.PaymentStatusPending),
				}, nil).Once()
			},
			want: &model.OrderStatusResponse{Status: constant.PaymentStatusPending, OrderStatus: constant.OrderStatusPending},
		},
		{
			name: "success: cache errors fall back to database",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, errors.New("timeout")).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(paidRow, nil).Once()
				f.redisRepo.On("SetOrderStatus", mock.Anything, "ORD-1", mock.Anything).Return(errors.New("timeout")).Once()
			},
			want: paid,
		},
		{
			name: "error: unknown order",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, nil).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrOrderNotFound,
		},
		{
			name: "error: order without payment record",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, nil).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(&model.OrderStatusRow{
					OrderID:     1,
					OrderStatus: constant.OrderStatusPending,
				}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrOrderNotFound,
		},
		{
			name: "error: database failure",
			mockCall: func(f fields) {
				f.redisRepo.On("GetOrderStatus", mock.Anything, "ORD-1").Return(nil, nil).Once()
				f.orderRepo.On("GetStatusByOrderNumber", mock.Anything, "ORD-1").Return(nil, errors.New("conn reset")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			tt.mockCall(f)
			got, err := f.app().GetStatus(context.Background(), "ORD-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrType(t, err, tt.errCode)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
