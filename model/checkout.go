package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one entry of the serialized cart, keyed by product id. Price is what the client
// saw and is only compared against the catalog.
type CartItem struct {
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type CheckoutRequest struct {
	FullName      string              `json:"full_name" validate:"required"`
	Email         string              `json:"email" validate:"omitempty,email"`
	Address       string              `json:"address" validate:"required"`
	City          string              `json:"city" validate:"required"`
	PostalCode    string              `json:"postal_code" validate:"required"`
	Phone         string              `json:"phone" validate:"required"`
	PaymentMethod string              `json:"payment_method" validate:"required,payment_method"`
	BankChoice    string              `json:"bank_choice"`
	EWalletChoice string              `json:"ewallet_choice"`
	Cart          map[string]CartItem `json:"cart_data" validate:"required,min=1"`
}

type CheckoutResponse struct {
	OrderID     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SnapToken   string          `json:"snap_token"`
	RedirectURL string          `json:"redirect_url"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

type GatewayItem struct {
	ID       string
	Name     string
	Price    int64
	Quantity int32
}

type GatewayCustomer struct {
	FullName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

type GatewayTransactionRequest struct {
	OrderID         string
	GrossAmount     int64
	Items           []GatewayItem
	Customer        GatewayCustomer
	EnabledPayments []string
}

type GatewayTransactionResponse struct {
	Token       string
	RedirectURL string
}
