package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"retail-ledger/internal/models"
	"retail-ledger/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidStrategy     = errors.New("invalid interest strategy for account type")
	ErrOwnerRequired       = errors.New("account owner is required")
	ErrConcurrencyConflict = errors.New("account was modified concurrently")
)

type accountRegistry struct {
	accountRepo repositories.AccountRepositoryInterface
	audit       AuditServiceInterface
	metrics     MetricsRecorderInterface
	locker      *accountLocker
	logger      *slog.Logger
}

// NewAccountRegistry creates the registry that owns accounts and their locks
func NewAccountRegistry(
	accountRepo repositories.AccountRepositoryInterface,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AccountRegistryInterface {
	return &accountRegistry{
		accountRepo: accountRepo,
		audit:       audit,
		metrics:     metrics,
		locker:      newAccountLocker(),
		logger:      logger,
	}
}

// Open creates an account with a zero balance and a freshly generated number
func (r *accountRegistry) Open(ctx context.Context, userID uuid.UUID, accountType models.AccountType, strategy *models.InterestStrategy) (*models.Account, error) {
	if userID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if !accountType.IsValid() {
		return nil, ErrInvalidAccountType
	}
	if err := models.ValidateInterestStrategy(accountType, strategy); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStrategy, err.Error())
	}

	account := &models.Account{
		UserID:           userID,
		AccountType:      accountType,
		InterestStrategy: strategy,
		Balance:          models.Money{},
	}

	if err := r.accountRepo.CreateWithGeneratedNumber(ctx, account); err != nil {
		r.logger.Error("failed to open account",
			"user_id", userID,
			"account_type", accountType,
			"error", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Info("account opened",
		"account_id", account.ID,
		"account_number", account.AccountNumber,
		"account_type", accountType)

	r.metrics.IncrementCounter("accounts_opened_total", map[string]string{
		"account_type": string(accountType),
	})

	eventData := fmt.Sprintf("Account opened: %s %s", accountType, account.AccountNumber)
	if strategy != nil {
		eventData = fmt.Sprintf("%s with %s interest", eventData, *strategy)
	}
	r.audit.Record(ctx, account.ID, models.AuditEventAccountOpened, eventData, map[string]interface{}{
		"user_id":        userID.String(),
		"account_number": account.AccountNumber,
	})

	return account, nil
}

func (r *accountRegistry) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := r.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapAccountLookupError(err)
	}
	return account, nil
}

func (r *accountRegistry) GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	if !models.ValidateAccountNumber(accountNumber) {
		return nil, ErrAccountNotFound
	}

	account, err := r.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, mapAccountLookupError(err)
	}
	return account, nil
}

// ListByOwner returns the owner's accounts oldest first; an owner without accounts gets an empty list
func (r *accountRegistry) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	if userID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	accounts, err := r.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRegistry) Lock(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	return r.locker.Lock(ctx, ids...)
}

func mapAccountLookupError(err error) error {
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return ErrAccountNotFound
	}
	return fmt.Errorf("failed to get account: %w", err)
}
