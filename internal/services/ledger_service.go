package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"retail-ledger/internal/models"
	"retail-ledger/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransferNotFound     = errors.New("transfer not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccount          = errors.New("source and target accounts must differ")
	ErrNotSavingsAccount    = errors.New("interest can only be accrued on savings accounts")
	ErrIdempotencyKeyReused = errors.New("idempotency key already used for a different transfer")
)

// TransferRequest moves Amount from the source to the target account.
// A non-empty IdempotencyKey makes retries of the same request safe.
type TransferRequest struct {
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          models.Money
	Description     string
	IdempotencyKey  string
}

// TransferResult carries the source account after the transfer.
// Replayed is set when an earlier transfer with the same key was returned instead.
type TransferResult struct {
	Account  *models.Account
	Transfer *models.Transfer
	Replayed bool
}

type InterestResult struct {
	Interest models.Money
	Account  *models.Account
}

type ledgerService struct {
	registry        AccountRegistryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	transferRepo    repositories.TransferRepositoryInterface
	ledgerRepo      repositories.LedgerRepositoryInterface
	audit           AuditServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewLedgerService creates the service that applies every balance change
func NewLedgerService(
	registry AccountRegistryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	transferRepo repositories.TransferRepositoryInterface,
	ledgerRepo repositories.LedgerRepositoryInterface,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) LedgerServiceInterface {
	return &ledgerService{
		registry:        registry,
		transactionRepo: transactionRepo,
		transferRepo:    transferRepo,
		ledgerRepo:      ledgerRepo,
		audit:           audit,
		metrics:         metrics,
		logger:          logger,
	}
}

// Deposit credits amount to the account and returns its new state
func (s *ledgerService) Deposit(ctx context.Context, accountID uuid.UUID, amount models.Money) (*models.Account, error) {
	start := time.Now()
	account, txn, err := s.postSingle(ctx, accountID, models.TransactionTypeDeposit, amount, "Deposit")
	s.recordOutcome(OperationDeposit, accountID, start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, account.ID, models.AuditEventDeposit,
		fmt.Sprintf("Deposited $%s. New balance: $%s", amount, account.Balance),
		transactionMetadata(txn))

	return account, nil
}

// Withdraw debits amount from the account; the balance never goes below zero
func (s *ledgerService) Withdraw(ctx context.Context, accountID uuid.UUID, amount models.Money) (*models.Account, error) {
	start := time.Now()
	account, txn, err := s.postSingle(ctx, accountID, models.TransactionTypeWithdrawal, amount, "Withdrawal")
	s.recordOutcome(OperationWithdraw, accountID, start, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, account.ID, models.AuditEventWithdrawal,
		fmt.Sprintf("Withdrew $%s. New balance: $%s", amount, account.Balance),
		transactionMetadata(txn))

	return account, nil
}

func (s *ledgerService) postSingle(ctx context.Context, accountID uuid.UUID, txType models.TransactionType, amount models.Money, description string) (*models.Account, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	unlock, err := s.registry.Lock(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	account, err := s.registry.Get(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	posting, updated, err := newPosting(account, txType, amount, description)
	if err != nil {
		return nil, nil, err
	}

	if err := s.commit(ctx, []repositories.Posting{posting}, nil); err != nil {
		return nil, nil, err
	}

	return updated, posting.Transaction, nil
}

// Transfer debits the source and credits the target in one commit.
// Both accounts are locked for the duration, in id order.
func (s *ledgerService) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	start := time.Now()
	result, err := s.transfer(ctx, req)
	s.recordOutcome(OperationTransfer, req.SourceAccountID, start, err)

	status := "success"
	switch {
	case err != nil:
		status = "failed"
	case result.Replayed:
		status = "replayed"
	}
	s.metrics.IncrementCounter("transfers_total", map[string]string{"status": status})

	if err != nil {
		return nil, err
	}
	if !result.Replayed {
		s.metrics.RecordGauge("transfer_amount", req.Amount.Decimal().InexactFloat64(), nil)
	}

	return result, nil
}

func (s *ledgerService) transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.SourceAccountID == req.TargetAccountID {
		return nil, ErrSameAccount
	}

	if req.IdempotencyKey != "" {
		if result, found, err := s.replay(ctx, req); found || err != nil {
			return result, err
		}
	}

	unlock, err := s.registry.Lock(ctx, req.SourceAccountID, req.TargetAccountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// a concurrent request with the same key may have committed while we waited
	if req.IdempotencyKey != "" {
		if result, found, err := s.replay(ctx, req); found || err != nil {
			return result, err
		}
	}

	source, err := s.registry.Get(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	target, err := s.registry.Get(ctx, req.TargetAccountID)
	if err != nil {
		return nil, err
	}

	debitDescription := fmt.Sprintf("Transfer to account %s", target.AccountNumber)
	creditDescription := fmt.Sprintf("Transfer from account %s", source.AccountNumber)
	if req.Description != "" {
		debitDescription += ": " + req.Description
		creditDescription += ": " + req.Description
	}

	debit, updatedSource, err := newPosting(source, models.TransactionTypeTransferOut, req.Amount, debitDescription)
	if err != nil {
		return nil, err
	}
	credit, updatedTarget, err := newPosting(target, models.TransactionTypeTransferIn, req.Amount, creditDescription)
	if err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		ID:                  uuid.New(),
		FromAccountID:       source.ID,
		ToAccountID:         target.ID,
		Amount:              req.Amount,
		Description:         req.Description,
		DebitTransactionID:  debit.Transaction.ID,
		CreditTransactionID: credit.Transaction.ID,
		CreatedAt:           time.Now(),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		transfer.IdempotencyKey = &key
	}
	linkTransferLegs(transfer, debit.Transaction, credit.Transaction)

	err = s.commit(ctx, []repositories.Posting{debit, credit}, transfer)
	if errors.Is(err, repositories.ErrTransferIdempotencyKeyExists) {
		// the key was committed by another process
		if result, found, replayErr := s.replay(ctx, req); found || replayErr != nil {
			return result, replayErr
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer completed",
		"transfer_id", transfer.ID,
		"from_account_id", source.ID,
		"to_account_id", target.ID,
		"amount", req.Amount.String())

	s.audit.Record(ctx, source.ID, models.AuditEventTransferOut,
		fmt.Sprintf("Transferred $%s to %s. New balance: $%s", req.Amount, target.AccountNumber, updatedSource.Balance),
		transferMetadata(transfer, debit.Transaction))
	s.audit.Record(ctx, target.ID, models.AuditEventTransferIn,
		fmt.Sprintf("Received $%s from %s. New balance: $%s", req.Amount, source.AccountNumber, updatedTarget.Balance),
		transferMetadata(transfer, credit.Transaction))

	return &TransferResult{
		Account:  updatedSource,
		Transfer: transfer,
	}, nil
}

// replay looks up an earlier transfer by idempotency key. found is false when the key is unused.
func (s *ledgerService) replay(ctx context.Context, req TransferRequest) (*TransferResult, bool, error) {
	existing, err := s.transferRepo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
	if errors.Is(err, repositories.ErrTransferNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !existing.Matches(req.SourceAccountID, req.TargetAccountID, req.Amount) {
		return nil, true, ErrIdempotencyKeyReused
	}

	source, err := s.registry.Get(ctx, existing.FromAccountID)
	if err != nil {
		return nil, true, err
	}

	s.logger.Info("transfer replayed from idempotency key",
		"transfer_id", existing.ID,
		"idempotency_key", req.IdempotencyKey)

	return &TransferResult{
		Account:  source,
		Transfer: existing,
		Replayed: true,
	}, true, nil
}

// AccrueInterest applies one period of the account's interest strategy.
// Interest that rounds to zero leaves the account and its history untouched.
func (s *ledgerService) AccrueInterest(ctx context.Context, accountID uuid.UUID) (*InterestResult, error) {
	start := time.Now()
	result, err := s.accrueInterest(ctx, accountID)
	s.recordOutcome(OperationInterest, accountID, start, err)
	return result, err
}

func (s *ledgerService) accrueInterest(ctx context.Context, accountID uuid.UUID) (*InterestResult, error) {
	unlock, err := s.registry.Lock(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	account, err := s.registry.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.IsSavings() {
		return nil, ErrNotSavingsAccount
	}

	strategy := account.Strategy()
	interest, err := strategy.Compute(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStrategy, err.Error())
	}

	if interest.IsZero() {
		return &InterestResult{Interest: interest, Account: account}, nil
	}

	description := fmt.Sprintf("Interest calculated (%s): $%s", strategy, interest)
	posting, updated, err := newPosting(account, models.TransactionTypeInterest, interest, description)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, []repositories.Posting{posting}, nil); err != nil {
		return nil, err
	}

	s.metrics.RecordGauge("interest_accrued", interest.Decimal().InexactFloat64(), map[string]string{
		"strategy": string(strategy),
	})
	s.audit.Record(ctx, account.ID, models.AuditEventInterestCalculated,
		fmt.Sprintf("%s. New balance: $%s", description, updated.Balance),
		transactionMetadata(posting.Transaction))

	return &InterestResult{Interest: interest, Account: updated}, nil
}

// ListTransactions returns the account's history ordered by sequence
func (s *ledgerService) ListTransactions(ctx context.Context, accountID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error) {
	if filters.Order == "" {
		filters.Order = models.SortAscending
	}
	if filters.Order != models.SortAscending && filters.Order != models.SortDescending {
		return nil, models.ErrInvalidSortOrder
	}

	if _, err := s.registry.Get(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByAccountID(ctx, accountID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactionByReference looks up an entry by its TXN-... reference
func (s *ledgerService) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	txn, err := s.transactionRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return txn, nil
}

func (s *ledgerService) GetTransfer(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransferNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return transfer, nil
}

// ListTransfers returns transfers the account sent or received, newest first
func (s *ledgerService) ListTransfers(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error) {
	if _, err := s.registry.Get(ctx, accountID); err != nil {
		return nil, err
	}

	transfers, err := s.transferRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

func (s *ledgerService) ListAuditLogs(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error) {
	if _, err := s.registry.Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.audit.GetAccountActivity(ctx, accountID)
}

// commit runs the postings unless ctx already ended; after a successful commit the result stands
func (s *ledgerService) commit(ctx context.Context, postings []repositories.Posting, transfer *models.Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.ledgerRepo.Commit(ctx, postings, transfer)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrConcurrencyConflict
	case errors.Is(err, repositories.ErrTransferIdempotencyKeyExists),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("failed to commit ledger postings: %w", err)
	}
}

func (s *ledgerService) recordOutcome(operation string, accountID uuid.UUID, start time.Time, err error) {
	s.metrics.RecordProcessingTime(operation, time.Since(start))

	if err == nil {
		s.metrics.IncrementCounter("ledger.operation.success", map[string]string{
			"operation": operation,
		})
		return
	}

	reason := failureReason(err)
	s.metrics.IncrementCounter("ledger.operation.failed", map[string]string{
		"operation": operation,
		"reason":    reason,
	})

	if reason == "internal" {
		s.logger.Error("ledger operation failed",
			"operation", operation,
			"account_id", accountID,
			"error", err)
		return
	}
	s.logger.Warn("ledger operation rejected",
		"operation", operation,
		"account_id", accountID,
		"reason", reason)
}

// newPosting builds the balance change and ledger entry for one account.
// The returned account is the state the commit will produce.
func newPosting(account *models.Account, txType models.TransactionType, amount models.Money, description string) (repositories.Posting, *models.Account, error) {
	updated := *account

	var err error
	if txType.IsCredit() {
		err = updated.Credit(amount)
	} else {
		err = updated.Debit(amount)
	}
	if err != nil {
		return repositories.Posting{}, nil, mapBalanceError(err)
	}

	now := time.Now()
	updated.Version = account.Version + 1
	updated.UpdatedAt = now

	txn := &models.Transaction{
		ID:              uuid.New(),
		AccountID:       account.ID,
		TransactionType: txType,
		Amount:          amount,
		Sequence:        updated.Version,
		BalanceBefore:   account.Balance,
		BalanceAfter:    updated.Balance,
		Description:     description,
		Reference:       models.GenerateTransactionReference(),
		CreatedAt:       now,
	}

	return repositories.Posting{
		AccountID:       account.ID,
		ExpectedVersion: account.Version,
		NewBalance:      updated.Balance,
		Transaction:     txn,
	}, &updated, nil
}

func linkTransferLegs(transfer *models.Transfer, debit, credit *models.Transaction) {
	debit.RelatedAccountID = &transfer.ToAccountID
	debit.RelatedTransactionID = &credit.ID
	debit.TransferID = &transfer.ID

	credit.RelatedAccountID = &transfer.FromAccountID
	credit.RelatedTransactionID = &debit.ID
	credit.TransferID = &transfer.ID
}

func mapBalanceError(err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, models.ErrInvalidAmount):
		return ErrInvalidAmount
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrSameAccount):
		return "same_account"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrNotSavingsAccount):
		return "not_savings_account"
	case errors.Is(err, ErrInvalidStrategy):
		return "invalid_strategy"
	case errors.Is(err, ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, ErrIdempotencyKeyReused):
		return "idempotency_key_reused"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

func transactionMetadata(txn *models.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"transaction_id": txn.ID.String(),
		"reference":      txn.Reference,
		"sequence":       txn.Sequence,
	}
}

func transferMetadata(transfer *models.Transfer, txn *models.Transaction) map[string]interface{} {
	metadata := transactionMetadata(txn)
	metadata["transfer_id"] = transfer.ID.String()
	if transfer.IdempotencyKey != nil {
		metadata["idempotency_key"] = *transfer.IdempotencyKey
	}
	return metadata
}
