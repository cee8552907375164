package constant

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the only place that defines which order status changes are legal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusExpired   PaymentStatus = "expired"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusExpired},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethodKind string

const (
	PaymentMethodCreditCard   PaymentMethodKind = "credit_card"
	PaymentMethodQRIS         PaymentMethodKind = "qris"
	PaymentMethodBankTransfer PaymentMethodKind = "bank_transfer"
	PaymentMethodEWallet      PaymentMethodKind = "e_wallet"
)

const (
	DefaultBankChoice    = "bca"
	DefaultEWalletChoice = "gopay"
)

// Gateway transaction_status values.
const (
	TransactionStatusCapture    = "capture"
	TransactionStatusSettlement = "settlement"
	TransactionStatusCancel     = "cancel"
	TransactionStatusDeny       = "deny"
	TransactionStatusExpire     = "expire"
	TransactionStatusPending    = "pending"

	FraudStatusAccept = "accept"
)

const (
	OrderNumberPrefix  = "ORD-"
	ShippingItemID     = "SHIPPING"
	ShippingItemName   = "Biaya Pengiriman"
	GatewayCountryCode = "IDN"
	GatewayItemNameMax = 50
)
