package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeInterest    TransactionType = "INTEREST"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrBalanceMismatch        = errors.New("balance calculation mismatch")
	ErrMissingCounterparty    = errors.New("transfer transactions require a counterparty")
)

// Transaction is an immutable ledger entry. Sequence is the owning account's
// version after the posting and orders an account's history.
type Transaction struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_account_sequence,priority:1" json:"account_id"`
	TransactionType      TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Amount               Money           `gorm:"type:bigint;not null" json:"amount"`
	Sequence             int64           `gorm:"not null;uniqueIndex:idx_transactions_account_sequence,priority:2" json:"sequence"`
	BalanceBefore        Money           `gorm:"type:bigint;not null" json:"balance_before"`
	BalanceAfter         Money           `gorm:"type:bigint;not null" json:"balance_after"`
	Description          string          `gorm:"type:text" json:"description"`
	Reference            string          `gorm:"type:varchar(100);index" json:"reference"`
	RelatedAccountID     *uuid.UUID      `gorm:"type:uuid" json:"related_account_id,omitempty"`
	RelatedTransactionID *uuid.UUID      `gorm:"type:uuid" json:"related_transaction_id,omitempty"`
	TransferID           *uuid.UUID      `gorm:"type:uuid;index" json:"transfer_id,omitempty"`
	CreatedAt            time.Time       `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.Reference == "" {
		t.Reference = GenerateTransactionReference()
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	return t.Validate()
}

// BeforeUpdate rejects every update; ledger entries are append-only
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("transactions are immutable")
}

// BeforeDelete rejects every delete
func (t *Transaction) BeforeDelete(tx *gorm.DB) error {
	return errors.New("transactions are immutable")
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if !t.TransactionType.IsValid() {
		return ErrInvalidTransactionType
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if t.Sequence <= 0 {
		return errors.New("sequence must be positive")
	}

	if t.TransactionType.IsTransfer() && (t.RelatedAccountID == nil || t.RelatedTransactionID == nil) {
		return ErrMissingCounterparty
	}

	return t.ensureBalanceIsCorrect()
}

// IsCredit returns true when the entry increased the balance
func (t *Transaction) IsCredit() bool {
	return t.TransactionType.IsCredit()
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// Helper functions

// IsValid checks if the transaction type is valid
func (tt TransactionType) IsValid() bool {
	switch tt {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransferIn,
		TransactionTypeTransferOut, TransactionTypeInterest:
		return true
	default:
		return false
	}
}

// IsCredit reports whether entries of this type add to the balance
func (tt TransactionType) IsCredit() bool {
	switch tt {
	case TransactionTypeDeposit, TransactionTypeTransferIn, TransactionTypeInterest:
		return true
	default:
		return false
	}
}

// IsTransfer reports whether the type is one leg of a transfer
func (tt TransactionType) IsTransfer() bool {
	return tt == TransactionTypeTransferIn || tt == TransactionTypeTransferOut
}

// GenerateTransactionReference generates a unique transaction reference
func GenerateTransactionReference() string {
	return "TXN-" + uuid.New().String()[:8] + "-" + time.Now().Format("20060102150405")
}

func (t *Transaction) ensureBalanceIsCorrect() error {
	var (
		expected Money
		err      error
	)
	if t.TransactionType.IsCredit() {
		expected, err = t.BalanceBefore.Add(t.Amount)
	} else {
		expected, err = t.BalanceBefore.Sub(t.Amount)
	}
	if err != nil || !expected.Equal(t.BalanceAfter) {
		return ErrBalanceMismatch
	}
	return nil
}
