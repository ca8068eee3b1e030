package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEventType names an entry in an account's audit trail
type AuditEventType string

const (
	AuditEventAccountOpened      AuditEventType = "ACCOUNT_OPENED"
	AuditEventDeposit            AuditEventType = "DEPOSIT"
	AuditEventWithdrawal         AuditEventType = "WITHDRAWAL"
	AuditEventTransferOut        AuditEventType = "TRANSFER_OUT"
	AuditEventTransferIn         AuditEventType = "TRANSFER_IN"
	AuditEventInterestCalculated AuditEventType = "INTEREST_CALCULATED"
)

type AuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID      `gorm:"type:uuid;not null;index" json:"account_id"`
	EventType AuditEventType `gorm:"type:varchar(50);not null;index" json:"event_type"`
	EventData string         `gorm:"type:text;not null" json:"event_data"`
	Metadata  JSONBMap       `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (al *AuditLog) SetMetadata(key string, value interface{}) {
	if al.Metadata == nil {
		al.Metadata = make(JSONBMap)
	}
	al.Metadata[key] = value
}

func (al *AuditLog) GetMetadata(key string, defaultValue interface{}) interface{} {
	if al.Metadata == nil {
		return defaultValue
	}

	if value, exists := al.Metadata[key]; exists {
		return value
	}

	return defaultValue
}

func (al *AuditLog) String() string {
	return fmt.Sprintf("AuditLog[Account: %s, Event: %s, Data: %s, Time: %s]",
		al.AccountID, al.EventType, al.EventData, al.CreatedAt.Format(time.RFC3339))
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}

	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now()
	}
	return nil
}

// JSONBMap is a JSON object column; stored as text so sqlite and postgres both accept it
type JSONBMap map[string]interface{}

// Value implements driver.Valuer interface
func (m JSONBMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func (m *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBMap", value)
	}

	if len(bytes) == 0 {
		*m = nil
		return nil
	}

	return json.Unmarshal(bytes, m)
}
