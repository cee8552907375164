package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentMethod(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		bank        string
		ewallet     string
		wantEnabled []string
		wantBank    *string
		wantEWallet *string
		wantErr     bool
	}{
		{name: "credit card", kind: "credit_card", wantEnabled: []string{"credit_card"}},
		{name: "qris", kind: "qris", wantEnabled: []string{"qris"}},
		{name: "bank transfer defaults to bca", kind: "bank_transfer", wantEnabled: []string{"bca_va"}, wantBank: strPtr("bca")},
		{name: "bank transfer with bni", kind: "bank_transfer", bank: "bni", wantEnabled: []string{"bni_va"}, wantBank: strPtr("bni")},
		{name: "e-wallet defaults to gopay", kind: "e_wallet", wantEnabled: []string{"gopay"}, wantEWallet: strPtr("gopay")},
		{name: "e-wallet shopeepay", kind: "e_wallet", ewallet: "shopeepay", wantEnabled: []string{"shopeepay"}, wantEWallet: strPtr("shopeepay")},
		{name: "bank choice ignored for qris", kind: "qris", bank: "bni", wantEnabled: []string{"qris"}},
		{name: "unknown", kind: "cash", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewPaymentMethod(tt.kind, tt.bank, tt.ewallet)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, m.EnabledPayments())
			assert.Equal(t, tt.wantBank, m.BankChoice())
			assert.Equal(t, tt.wantEWallet, m.EWalletChoice())
		})
	}
}

func strPtr(s string) *string { return &s }
