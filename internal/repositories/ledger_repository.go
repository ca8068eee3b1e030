package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrVersionConflict = errors.New("account version conflict")
	ErrEmptyCommit     = errors.New("commit requires at least one posting")
	ErrInvalidPosting  = errors.New("posting does not match its transaction")
)

// Posting is one account's balance change plus the ledger entry recording it
type Posting struct {
	AccountID       uuid.UUID
	ExpectedVersion int64
	NewBalance      models.Money
	Transaction     *models.Transaction
}

// NextVersion is the account version once the posting is committed
func (p Posting) NextVersion() int64 {
	return p.ExpectedVersion + 1
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepositoryInterface {
	return &ledgerRepository{
		db: db,
	}
}

// Commit applies every posting and writes the optional transfer header in one database transaction.
// Each balance update is guarded by the version the caller read; a stale version aborts the whole commit.
func (r *ledgerRepository) Commit(ctx context.Context, postings []Posting, transfer *models.Transfer) error {
	if len(postings) == 0 {
		return ErrEmptyCommit
	}

	for _, p := range postings {
		if p.Transaction == nil ||
			p.Transaction.AccountID != p.AccountID ||
			p.Transaction.Sequence != p.NextVersion() ||
			!p.Transaction.BalanceAfter.Equal(p.NewBalance) {
			return ErrInvalidPosting
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for _, p := range postings {
			result := tx.Model(&models.Account{}).
				Where("id = ? AND version = ?", p.AccountID, p.ExpectedVersion).
				UpdateColumns(map[string]interface{}{
					"balance":    p.NewBalance,
					"version":    p.NextVersion(),
					"updated_at": now,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to update account balance: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrVersionConflict
			}

			if err := tx.Create(p.Transaction).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
		}

		if transfer != nil {
			if err := tx.Create(transfer).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
					return ErrTransferIdempotencyKeyExists
				}
				return fmt.Errorf("failed to create transfer: %w", err)
			}
		}

		return nil
	})
}
