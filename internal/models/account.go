package models

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType is the product an account belongs to
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"

	// Account number prefixes by type
	CheckingPrefix = "10"
	SavingsPrefix  = "20"

	AccountNumberLength = 10
)

var (
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidBalance       = errors.New("balance cannot be negative")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrStrategyNotAllowed   = errors.New("interest strategy is only allowed for savings accounts")
	ErrStrategyRequired     = errors.New("savings accounts require an interest strategy")
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

// Account represents a bank account
type Account struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	AccountNumber    string            `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_number"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountType      AccountType       `gorm:"type:varchar(20);not null" json:"account_type"`
	InterestStrategy *InterestStrategy `gorm:"type:varchar(20)" json:"interest_strategy,omitempty"`
	Balance          Money             `gorm:"type:bigint;not null;default:0" json:"balance"`
	Version          int64             `gorm:"not null;default:0" json:"version"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if a.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if len(a.AccountNumber) != AccountNumberLength {
		return errors.New("account number must be 10 digits")
	}

	if !a.AccountType.IsValid() {
		return ErrInvalidAccountType
	}

	if err := ValidateInterestStrategy(a.AccountType, a.InterestStrategy); err != nil {
		return err
	}

	if a.Balance.IsNegative() {
		return ErrInvalidBalance
	}

	// Business rule: Account number prefix must match account type
	if a.AccountNumber[:2] != GetAccountPrefix(a.AccountType) {
		return fmt.Errorf("account number prefix does not match account type")
	}

	if !ValidateAccountNumber(a.AccountNumber) {
		return ErrInvalidAccountNumber
	}

	return nil
}

// IsSavings returns true for interest-bearing accounts
func (a *Account) IsSavings() bool {
	return a.AccountType == AccountTypeSavings
}

// Strategy returns the interest strategy, or "" for checking accounts
func (a *Account) Strategy() InterestStrategy {
	if a.InterestStrategy == nil {
		return ""
	}
	return *a.InterestStrategy
}

// Credit credits the account
func (a *Account) Credit(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	balance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// Debit debits the account
func (a *Account) Debit(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	balance, err := a.Balance.Sub(amount)
	if err != nil {
		return ErrInsufficientFunds
	}
	a.Balance = balance
	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// Helper functions

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings:
		return true
	default:
		return false
	}
}

// ParseAccountType normalizes user input such as "savings"
func ParseAccountType(value string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", ErrInvalidAccountType
	}
	return t, nil
}

// ValidateInterestStrategy enforces that only savings accounts carry a strategy
func ValidateInterestStrategy(accountType AccountType, strategy *InterestStrategy) error {
	if accountType != AccountTypeSavings {
		if strategy != nil {
			return ErrStrategyNotAllowed
		}
		return nil
	}

	if strategy == nil {
		return ErrStrategyRequired
	}
	if !strategy.IsValid() {
		return ErrUnknownInterestStrategy
	}
	return nil
}

// GetAccountPrefix returns the prefix for an account type
func GetAccountPrefix(accountType AccountType) string {
	switch accountType {
	case AccountTypeChecking:
		return CheckingPrefix
	case AccountTypeSavings:
		return SavingsPrefix
	default:
		return ""
	}
}

// GenerateAccountNumber generates a 10-digit account number: type prefix, 7 random digits and a check digit.
// Uniqueness is enforced by the store.
func GenerateAccountNumber(accountType AccountType) string {
	prefix := GetAccountPrefix(accountType)
	if prefix == "" {
		return ""
	}

	body := prefix + fmt.Sprintf("%07d", rand.Intn(10_000_000))
	return body + fmt.Sprintf("%d", CalculateChecksum(body))
}

// CalculateChecksum returns the Luhn check digit for the given digits
func CalculateChecksum(digits string) int {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return (10 - (sum % 10)) % 10
}

// ValidateAccountNumber validates an account number format and check digit
func ValidateAccountNumber(accountNumber string) bool {
	if len(accountNumber) != AccountNumberLength {
		return false
	}

	for _, char := range accountNumber {
		if char < '0' || char > '9' {
			return false
		}
	}

	prefix := accountNumber[:2]
	if prefix != CheckingPrefix && prefix != SavingsPrefix {
		return false
	}

	return CalculateChecksum(accountNumber[:9]) == int(accountNumber[9]-'0')
}
