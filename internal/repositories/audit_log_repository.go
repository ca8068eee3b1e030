package repositories

import (
	"context"
	"errors"
	"fmt"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository handles database operations for audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &AuditLogRepository{
		db: db,
	}
}

// Create creates a new audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log == nil {
		return errors.New("audit log cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetByAccountID retrieves the audit trail of an account, oldest first
func (r *AuditLogRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error) {
	logs := []*models.AuditLog{}

	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs for account: %w", err)
	}

	return logs, nil
}
