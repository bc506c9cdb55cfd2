package models

import (
	"time"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// TransactionModel is the GORM model for cash-flow transactions
type TransactionModel struct {
	AggregateModel
	Title      string            `gorm:"type:varchar(200);not null"`
	Subtitle   string            `gorm:"type:varchar(200)"`
	Amount     valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Type       string            `gorm:"type:varchar(10);not null;index"`
	Category   string            `gorm:"type:varchar(20);not null;index"`
	Method     string            `gorm:"type:varchar(30);not null;index"`
	Status     string            `gorm:"type:varchar(10);index"`
	OccurredOn time.Time         `gorm:"not null;index;column:occurred_on"`
}

// TableName returns the table name
func (TransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the model to a domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	tx := &finance.Transaction{
		Title:      m.Title,
		Subtitle:   m.Subtitle,
		Amount:     m.Amount,
		Type:       finance.TransactionType(m.Type),
		Category:   finance.TransactionCategory(m.Category),
		Method:     finance.PaymentMethod(m.Method),
		Status:     finance.ChequeStatus(m.Status),
		OccurredOn: m.OccurredOn,
	}
	m.PopulateAggregateRoot(&tx.BaseAggregateRoot)
	return tx
}

// FromDomain populates the model from a domain Transaction
func (m *TransactionModel) FromDomain(tx *finance.Transaction) {
	m.FromDomainAggregateRoot(tx.BaseAggregateRoot)
	m.Title = tx.Title
	m.Subtitle = tx.Subtitle
	m.Amount = tx.Amount
	m.Type = string(tx.Type)
	m.Category = string(tx.Category)
	m.Method = string(tx.Method)
	m.Status = string(tx.Status)
	m.OccurredOn = tx.OccurredOn
}

// TransactionModelFromDomain creates a model from a domain Transaction
func TransactionModelFromDomain(tx *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(tx)
	return m
}
