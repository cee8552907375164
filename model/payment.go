package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/threeofkind/storefront/constant"
)

type Payment struct {
	ID            uint64                 `db:"id"`
	OrderID       uint64                 `db:"order_id"`
	PaymentMethod string                 `db:"payment_method"`
	BankChoice    *string                `db:"bank_choice"`
	EWalletChoice *string                `db:"ewallet_choice"`
	TransactionID string                 `db:"transaction_id"`
	SnapToken     string                 `db:"snap_token"`
	RedirectURL   string                 `db:"redirect_url"`
	Amount        decimal.Decimal        `db:"amount"`
	Status        constant.PaymentStatus `db:"status"`
	ExpiresAt     time.Time              `db:"expires_at"`
	CreatedAt     time.Time              `db:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at"`
}

// PaymentMethod is the payment method selected at checkout, with its sub-selection resolved.
type PaymentMethod struct {
	Kind    constant.PaymentMethodKind
	Bank    string
	EWallet string
}

func NewPaymentMethod(kind, bank, ewallet string) (PaymentMethod, error) {
	m := PaymentMethod{Kind: constant.PaymentMethodKind(kind)}
	switch m.Kind {
	case constant.PaymentMethodCreditCard, constant.PaymentMethodQRIS:
	case constant.PaymentMethodBankTransfer:
		m.Bank = bank
		if m.Bank == "" {
			m.Bank = constant.DefaultBankChoice
		}
	case constant.PaymentMethodEWallet:
		m.EWallet = ewallet
		if m.EWallet == "" {
			m.EWallet = constant.DefaultEWalletChoice
		}
	default:
		return PaymentMethod{}, fmt.Errorf("unknown payment method %q", kind)
	}
	return m, nil
}

// EnabledPayments maps the method to the gateway's enabled_payments values.
func (m PaymentMethod) EnabledPayments() []string {
	switch m.Kind {
	case constant.PaymentMethodBankTransfer:
		return []string{m.Bank + "_va"}
	case constant.PaymentMethodEWallet:
		return []string{m.EWallet}
	default:
		return []string{string(m.Kind)}
	}
}

func (m PaymentMethod) BankChoice() *string {
	if m.Bank == "" {
		return nil
	}
	b := m.Bank
	return &b
}

func (m PaymentMethod) EWalletChoice() *string {
	if m.EWallet == "" {
		return nil
	}
	e := m.EWallet
	return &e
}

// PaymentNotification is the gateway's asynchronous status push.
type PaymentNotification struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}

// ReconcileResult describes what a notification did; Applied is false for duplicates and holds.
type ReconcileResult struct {
	OrderNumber string
	Action      string
	Applied     bool
}
