package validatorx

import (
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/threeofkind/storefront/constant"
)

var (
	v   *gpvalidator.Validate
	mut sync.Mutex
)

// Init initializes the validator singleton (idempotent)
func Init() {
	mut.Lock()
	defer mut.Unlock()
	if v != nil {
		return
	}
	v = gpvalidator.New()
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	if v == nil {
		Init()
	}
	return v.Struct(s)
}

func validatePaymentMethod(fl gpvalidator.FieldLevel) bool {
	switch constant.PaymentMethodKind(fl.Field().String()) {
	case constant.PaymentMethodCreditCard, constant.PaymentMethodQRIS,
		constant.PaymentMethodBankTransfer, constant.PaymentMethodEWallet:
		return true
	}
	return false
}
