package dto

import (
	"strings"

	"retail-ledger/internal/models"
)

// TransactionListParams contains the query parameters of a history listing
type TransactionListParams struct {
	Order string `query:"order" validate:"omitempty,sort_order"`
	Type  string `query:"type" validate:"omitempty,transaction_type"`
}

// Filters converts the query parameters into repository filters.
// Params are expected to have been validated.
func (p TransactionListParams) Filters() models.TransactionFilters {
	order, _ := models.ParseSortOrder(p.Order)
	return models.TransactionFilters{
		Order: order,
		Type:  models.TransactionType(strings.ToUpper(p.Type)),
	}
}

// TransactionList never returns nil so an empty history encodes as []
func TransactionList(txns []models.Transaction) []models.Transaction {
	if txns == nil {
		return []models.Transaction{}
	}
	return txns
}

// AuditLogList never returns nil so an empty trail encodes as []
func AuditLogList(logs []*models.AuditLog) []*models.AuditLog {
	if logs == nil {
		return []*models.AuditLog{}
	}
	return logs
}

// TransferList never returns nil so an account without transfers encodes as []
func TransferList(transfers []models.Transfer) []models.Transfer {
	if transfers == nil {
		return []models.Transfer{}
	}
	return transfers
}
