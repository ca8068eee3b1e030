package services

import (
	"context"
	"time"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
)

// AccountRegistryInterface owns accounts and the per-account locks guarding them
type AccountRegistryInterface interface {
	Open(ctx context.Context, userID uuid.UUID, accountType models.AccountType, strategy *models.InterestStrategy) (*models.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Account, error)

	// Lock acquires the locks of every given account in a fixed global order.
	// The returned func releases them and is safe to call more than once.
	Lock(ctx context.Context, ids ...uuid.UUID) (func(), error)
}

// LedgerServiceInterface applies balance-changing operations atomically and exposes the ledger
type LedgerServiceInterface interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount models.Money) (*models.Account, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount models.Money) (*models.Account, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	AccrueInterest(ctx context.Context, accountID uuid.UUID) (*InterestResult, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
	GetTransfer(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	ListTransfers(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error)
	ListAuditLogs(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error)
}

// AuditServiceInterface writes and reads the per-account audit trail
type AuditServiceInterface interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	// Record writes an entry and logs, rather than returns, any failure
	Record(ctx context.Context, accountID uuid.UUID, eventType models.AuditEventType, eventData string, metadata map[string]interface{})
	GetAccountActivity(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
