package repositories

import (
	"context"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
)

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *models.Account) error
	CreateWithGeneratedNumber(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations.
// There is no update or delete path; ledger entries are append-only and written by LedgerRepositoryInterface.
type TransactionRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
}

// TransferRepositoryInterface defines the contract for transfer repository operations
type TransferRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Transfer, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error)
}

// LedgerRepositoryInterface commits balance changes and their ledger entries atomically
type LedgerRepositoryInterface interface {
	Commit(ctx context.Context, postings []Posting, transfer *models.Transfer) error
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error)
}
