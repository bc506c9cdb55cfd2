package finance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PaymentMethod is the closed set of payment methods. New
// transactions pick one of these at creation time; free text only
// exists at the persistence boundary for legacy rows.
type PaymentMethod string

const (
	MethodPix        PaymentMethod = "PIX"
	MethodCreditCard PaymentMethod = "Cartão Crédito"
	MethodDebitCard  PaymentMethod = "Cartão Débito"
	MethodCash       PaymentMethod = "Dinheiro"
	MethodCheque     PaymentMethod = "Cheque"
	MethodOther      PaymentMethod = "Outros"
)

// AllPaymentMethods lists the known methods in display order
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodPix, MethodCreditCard, MethodDebitCard, MethodCash, MethodCheque, MethodOther}
}

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodPix, MethodCreditCard, MethodDebitCard, MethodCash, MethodCheque, MethodOther:
		return true
	}
	return false
}

// String returns the display label of the method
func (m PaymentMethod) String() string {
	return string(m)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldMethod upper-cases and strips diacritics for matching legacy labels
func foldMethod(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// NormalizePaymentMethod classifies a legacy free-text method label
// into the closed enum. Matching is case and diacritic insensitive
// substring matching; anything unrecognized falls into Outros. Use
// only at the persistence boundary.
func NormalizePaymentMethod(raw string) PaymentMethod {
	label := foldMethod(raw)
	switch {
	case strings.Contains(label, "PIX"):
		return MethodPix
	case strings.Contains(label, "CREDITO"):
		return MethodCreditCard
	case strings.Contains(label, "DEBITO"):
		return MethodDebitCard
	case strings.Contains(label, "CHEQUE"):
		return MethodCheque
	case strings.Contains(label, "DINHEIRO"):
		return MethodCash
	default:
		return MethodOther
	}
}
