package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberExists = errors.New("account number already exists")
)

// maxAccountNumberAttempts bounds the retries on account number collisions
const maxAccountNumberAttempts = 10

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
			return ErrAccountNumberExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// CreateWithGeneratedNumber assigns a fresh account number and inserts the account.
// The unique index decides collisions; a collision is retried with a new number.
func (r *accountRepository) CreateWithGeneratedNumber(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}

	for i := 0; i < maxAccountNumberAttempts; i++ {
		accountNumber := models.GenerateAccountNumber(account.AccountType)
		if accountNumber == "" {
			return models.ErrInvalidAccountType
		}
		account.AccountNumber = accountNumber

		err := r.Create(ctx, account)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrAccountNumberExists) {
			return err
		}
	}

	return fmt.Errorf("failed to generate unique account number after %d attempts", maxAccountNumberAttempts)
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByAccountNumber retrieves an account by account number
func (r *accountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}
	return &account, nil
}

// GetByUserID retrieves all accounts for a user, oldest first
func (r *accountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at ASC").Order("account_number ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Postgres and sqlite unique violations
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}
