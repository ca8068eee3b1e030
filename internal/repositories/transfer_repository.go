package repositories

import (
	"context"
	"errors"
	"fmt"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransferNotFound             = errors.New("transfer not found")
	ErrTransferIdempotencyKeyExists = errors.New("transfer with idempotency key already exists")
)

// transferRepository implements TransferRepository interface.
// Transfers are created by the ledger repository together with their legs.
type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *gorm.DB) TransferRepositoryInterface {
	return &transferRepository{
		db: db,
	}
}

// FindByID retrieves a transfer by ID
func (r *transferRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by ID: %w", err)
	}

	return &transfer, nil
}

// FindByIdempotencyKey retrieves a transfer by idempotency key
func (r *transferRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Transfer, error) {
	var transfer models.Transfer

	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by idempotency key: %w", err)
	}

	return &transfer, nil
}

// FindByAccountID retrieves transfers where the account is either side, newest first
func (r *transferRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error) {
	transfers := []models.Transfer{}
	if err := r.db.WithContext(ctx).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, fmt.Errorf("failed to find transfers for account: %w", err)
	}

	return transfers, nil
}
