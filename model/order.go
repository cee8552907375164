package model

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/threeofkind/storefront/constant"
)

// Order is the order table entity. OrderNumber is the public identifier and doubles as the
// gateway order id.
type Order struct {
	ID            uint64               `db:"id"`
	OrderNumber   string               `db:"order_number"`
	UserID        *uint64              `db:"user_id"`
	FullName      string               `db:"full_name"`
	Email         string               `db:"email"`
	Phone         string               `db:"phone"`
	Address       string               `db:"address"`
	City          string               `db:"city"`
	PostalCode    string               `db:"postal_code"`
	PaymentMethod string               `db:"payment_method"`
	ShippingFee   decimal.Decimal      `db:"shipping_fee"`
	TotalAmount   decimal.Decimal      `db:"total_amount"`
	Status        constant.OrderStatus `db:"status"`
	CreatedAt     time.Time            `db:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at"`
	PaidAt        *time.Time           `db:"paid_at"`
}

// OrderItem keeps the purchase-time price and the reserved quantity, so restoring stock never
// depends on the current product row.
type OrderItem struct {
	ID          uint64          `db:"id"`
	OrderID     uint64          `db:"order_id"`
	ProductID   uint64          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int64           `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// OrderStatusRow is an order's status and its payment's status read by one statement.
// PaymentStatus is nil while the order has no payment row.
type OrderStatusRow struct {
	OrderID       uint64                  `db:"order_id"`
	OrderStatus   constant.OrderStatus    `db:"order_status"`
	PaidAt        *time.Time              `db:"paid_at"`
	PaymentStatus *constant.PaymentStatus `db:"payment_status"`
}

type OrderStatusResponse struct {
	Status      constant.PaymentStatus `json:"status"`
	OrderStatus constant.OrderStatus   `json:"order_status"`
	PaidAt      *time.Time             `json:"paid_at"`
}

type CancelOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
