package finance

import (
	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants
const (
	EventTypeTransactionRecorded = "TransactionRecorded"
	EventTypeChequeCleared       = "ChequeCleared"
	EventTypeChequeBounced       = "ChequeBounced"
)

// TransactionRecordedEvent is published when a transaction is created
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Title         string          `json:"title"`
	Amount        string          `json:"amount"`
	TxType        TransactionType `json:"tx_type"`
	Method        PaymentMethod   `json:"method"`
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		Title:           tx.Title,
		Amount:          tx.Amount.StringFixed(2),
		TxType:          tx.Type,
		Method:          tx.Method,
	}
}

// ChequeClearedEvent is published when a pending cheque clears
type ChequeClearedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        string    `json:"amount"`
}

// NewChequeClearedEvent creates a new ChequeClearedEvent
func NewChequeClearedEvent(tx *Transaction) *ChequeClearedEvent {
	return &ChequeClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChequeCleared, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		Amount:          tx.Amount.StringFixed(2),
	}
}

// ChequeBouncedEvent is published when a pending cheque bounces
type ChequeBouncedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        string    `json:"amount"`
}

// NewChequeBouncedEvent creates a new ChequeBouncedEvent
func NewChequeBouncedEvent(tx *Transaction) *ChequeBouncedEvent {
	return &ChequeBouncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChequeBounced, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		Amount:          tx.Amount.StringFixed(2),
	}
}
