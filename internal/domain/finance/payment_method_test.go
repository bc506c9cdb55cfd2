package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodIsValid(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.True(t, m.IsValid(), m.String())
	}
	assert.False(t, PaymentMethod("Boleto").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentMethod
	}{
		{"PIX", MethodPix},
		{"pix", MethodPix},
		{"Pagamento via Pix", MethodPix},
		{"Cartão Crédito", MethodCreditCard},
		{"cartao credito", MethodCreditCard},
		{"CRÉDITO 3x", MethodCreditCard},
		{"Cartão Débito", MethodDebitCard},
		{"debito", MethodDebitCard},
		{"Cheque", MethodCheque},
		{"CHEQUE pré-datado", MethodCheque},
		{"Dinheiro", MethodCash},
		{"dinheiro vivo", MethodCash},
		{"Transferência", MethodOther},
		{"", MethodOther},
		{"boleto", MethodOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePaymentMethod(tt.raw))
		})
	}
}
