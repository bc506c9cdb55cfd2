package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// TransactionType distinguishes money coming in from money going out
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TransactionCategory classifies what the money was for
type TransactionCategory string

const (
	CategoryService TransactionCategory = "SERVICE"
	CategoryParts   TransactionCategory = "PARTS"
	CategoryRent    TransactionCategory = "RENT"
	CategoryOther   TransactionCategory = "OTHER"
)

// IsValid checks if the category is a valid TransactionCategory
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategoryService, CategoryParts, CategoryRent, CategoryOther:
		return true
	}
	return false
}

// ChequeStatus is the clearance lifecycle of a cheque transaction.
// It is meaningful only when the payment method is Cheque.
type ChequeStatus string

const (
	ChequePending ChequeStatus = "PENDING"
	ChequeCleared ChequeStatus = "CLEARED"
	ChequeBounced ChequeStatus = "BOUNCED"
)

// IsValid checks if the status is a valid ChequeStatus
func (s ChequeStatus) IsValid() bool {
	switch s {
	case ChequePending, ChequeCleared, ChequeBounced:
		return true
	}
	return false
}

// Transaction is a single cash-flow entry. Incomes carry a
// positive amount, expenses a negative one.
type Transaction struct {
	shared.BaseAggregateRoot
	Title      string
	Subtitle   string
	Amount     valueobject.Money
	Type       TransactionType
	Category   TransactionCategory
	Method     PaymentMethod
	Status     ChequeStatus // empty for non-cheque methods
	OccurredOn time.Time    // due date for pending cheques
	DateLabel  string       // display label, e.g. "Hoje" or "15 Mar"
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "financial_transactions"
}

// NewIncome creates an income transaction. Non-cheque incomes are
// settled immediately; cheques start pending with the given due date.
func NewIncome(title, subtitle string, amount valueobject.Money, category TransactionCategory, method PaymentMethod, occurredOn time.Time) (*Transaction, error) {
	if err := validateTransaction(title, category, method); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Income amount cannot be negative")
	}

	status := ChequeStatus("")
	if method == MethodCheque {
		status = ChequePending
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             strings.TrimSpace(title),
		Subtitle:          subtitle,
		Amount:            amount,
		Type:              TypeIncome,
		Category:          category,
		Method:            method,
		Status:            status,
		OccurredOn:        occurredOn,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// NewSettlementIncome creates the income emitted when a service order
// is settled. Unlike NewIncome it admits a negative amount: a discount
// larger than the subtotal settles as a single refund-style entry.
func NewSettlementIncome(title, subtitle string, amount valueobject.Money, method PaymentMethod, occurredOn time.Time) (*Transaction, error) {
	if err := validateTransaction(title, CategoryService, method); err != nil {
		return nil, err
	}

	status := ChequeStatus("")
	if method == MethodCheque {
		status = ChequePending
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             strings.TrimSpace(title),
		Subtitle:          subtitle,
		Amount:            amount,
		Type:              TypeIncome,
		Category:          CategoryService,
		Method:            method,
		Status:            status,
		OccurredOn:        occurredOn,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// NewClearedChequeIncome creates a cheque income already cleared.
// Used when importing legacy data that recorded settled cheques.
func NewClearedChequeIncome(title, subtitle string, amount valueobject.Money, category TransactionCategory, occurredOn time.Time) (*Transaction, error) {
	tx, err := NewIncome(title, subtitle, amount, category, MethodCheque, occurredOn)
	if err != nil {
		return nil, err
	}
	tx.Status = ChequeCleared
	return tx, nil
}

// NewExpense creates an expense transaction. The amount is stored
// negative regardless of the sign supplied.
func NewExpense(title, subtitle string, amount valueobject.Money, category TransactionCategory, method PaymentMethod, occurredOn time.Time) (*Transaction, error) {
	if err := validateTransaction(title, category, method); err != nil {
		return nil, err
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             strings.TrimSpace(title),
		Subtitle:          subtitle,
		Amount:            amount.Abs().Negate(),
		Type:              TypeExpense,
		Category:          category,
		Method:            method,
		OccurredOn:        occurredOn,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

func validateTransaction(title string, category TransactionCategory, method PaymentMethod) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Transaction title cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category: %s", category))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method: %s", method))
	}
	return nil
}

// IsCheque returns true when the transaction was paid by cheque
func (t *Transaction) IsCheque() bool {
	return t.Method == MethodCheque
}

// IsPendingCheque returns true for a cheque not yet cleared or bounced
func (t *Transaction) IsPendingCheque() bool {
	return t.IsCheque() && t.Status == ChequePending
}

// MarkCleared settles a pending cheque
func (t *Transaction) MarkCleared() error {
	if !t.IsCheque() {
		return shared.NewDomainError("NOT_A_CHEQUE", "Only cheque transactions have a clearance lifecycle")
	}
	if t.Status != ChequePending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only pending cheques can be cleared, current status: %s", t.Status))
	}

	t.Status = ChequeCleared
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewChequeClearedEvent(t))

	return nil
}

// MarkBounced records a bounced cheque
func (t *Transaction) MarkBounced() error {
	if !t.IsCheque() {
		return shared.NewDomainError("NOT_A_CHEQUE", "Only cheque transactions have a clearance lifecycle")
	}
	if t.Status != ChequePending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only pending cheques can bounce, current status: %s", t.Status))
	}

	t.Status = ChequeBounced
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewChequeBouncedEvent(t))

	return nil
}
