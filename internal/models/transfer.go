package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSameAccountTransfer = errors.New("from and to accounts cannot be the same")

// Transfer links the two legs of an account-to-account transfer.
// It is written in the same database transaction as both legs.
type Transfer struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FromAccountID       uuid.UUID `gorm:"type:uuid;not null;index:idx_transfer_from_account" json:"from_account_id"`
	ToAccountID         uuid.UUID `gorm:"type:uuid;not null;index:idx_transfer_to_account" json:"to_account_id"`
	Amount              Money     `gorm:"type:bigint;not null" json:"amount"`
	Description         string    `gorm:"type:text" json:"description,omitempty"`
	IdempotencyKey      *string   `gorm:"type:varchar(255);uniqueIndex" json:"idempotency_key,omitempty"`
	DebitTransactionID  uuid.UUID `gorm:"type:uuid;not null" json:"debit_transaction_id"`
	CreditTransactionID uuid.UUID `gorm:"type:uuid;not null" json:"credit_transaction_id"`
	CreatedAt           time.Time `gorm:"not null;index:idx_transfer_created_at" json:"created_at"`
}

// BeforeCreate hook for Transfer
func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	return t.Validate()
}

// Validate validates the transfer fields
func (t *Transfer) Validate() error {
	if t.FromAccountID == uuid.Nil {
		return errors.New("from account ID is required")
	}

	if t.ToAccountID == uuid.Nil {
		return errors.New("to account ID is required")
	}

	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccountTransfer
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if t.DebitTransactionID == uuid.Nil || t.CreditTransactionID == uuid.Nil {
		return errors.New("transfer legs are required")
	}

	if t.IdempotencyKey != nil && *t.IdempotencyKey == "" {
		return errors.New("idempotency key cannot be empty")
	}

	return nil
}

// Matches reports whether a replayed request carries the same parameters as this transfer
func (t *Transfer) Matches(from, to uuid.UUID, amount Money) bool {
	return t.FromAccountID == from && t.ToAccountID == to && t.Amount.Equal(amount)
}

// TableName returns the table name for Transfer
func (t *Transfer) TableName() string {
	return "transfers"
}
