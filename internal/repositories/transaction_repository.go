package repositories

import (
	"context"
	"errors"
	"fmt"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetByAccountID retrieves the account history ordered by sequence
func (r *transactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)

	if filters.Type != "" {
		query = query.Where("transaction_type = ?", filters.Type)
	}

	if filters.Order == models.SortDescending {
		query = query.Order("sequence DESC")
	} else {
		query = query.Order("sequence ASC")
	}

	transactions := []models.Transaction{}
	if err := query.Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GetByReference retrieves a transaction by reference
func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return &transaction, nil
}
