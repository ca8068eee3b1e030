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

// AuditService handles audit logging operations
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

var (
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

// ValidateEventType validates that the event type is one of the allowed types
func ValidateEventType(eventType models.AuditEventType) error {
	switch eventType {
	case models.AuditEventAccountOpened,
		models.AuditEventDeposit,
		models.AuditEventWithdrawal,
		models.AuditEventTransferOut,
		models.AuditEventTransferIn,
		models.AuditEventInterestCalculated:
		return nil
	default:
		return fmt.Errorf("invalid audit event type: %s", eventType)
	}
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log == nil || log.AccountID == uuid.Nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateEventType(log.EventType); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// Record is called after a ledger commit has succeeded, so it detaches from
// the caller's cancellation and never fails the operation it describes.
func (s *AuditService) Record(ctx context.Context, accountID uuid.UUID, eventType models.AuditEventType, eventData string, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		AccountID: accountID,
		EventType: eventType,
		EventData: eventData,
	}
	for k, v := range metadata {
		entry.SetMetadata(k, v)
	}

	if err := s.CreateAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("failed to write audit log",
			"account_id", accountID,
			"event_type", eventType,
			"error", err)
	}
}

// GetAccountActivity returns an account's audit trail oldest first
func (s *AuditService) GetAccountActivity(ctx context.Context, accountID uuid.UUID) ([]*models.AuditLog, error) {
	if accountID == uuid.Nil {
		return nil, ErrInvalidAuditLog
	}

	logs, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}
