package dto

import (
	"retail-ledger/internal/models"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for opening a new account
type CreateAccountRequest struct {
	UserID           string `json:"user_id" validate:"required,uuid"`
	AccountType      string `json:"account_type" validate:"required,account_type"`
	InterestStrategy string `json:"interest_strategy,omitempty" validate:"omitempty,interest_strategy"`
}

// AmountRequest is the payload of deposit and withdraw
type AmountRequest struct {
	Amount string `json:"amount" validate:"required,money_amount"`
}

// TransferRequest represents the request payload for transferring funds between accounts
type TransferRequest struct {
	TargetAccountID string `json:"target_account_id" validate:"required,uuid"`
	Amount          string `json:"amount" validate:"required,money_amount"`
	Description     string `json:"description,omitempty" validate:"max=255"`
}

// Account Response DTOs

// AccountList never returns nil so an owner without accounts encodes as []
func AccountList(accounts []models.Account) []models.Account {
	if accounts == nil {
		return []models.Account{}
	}
	return accounts
}

// TransferResponse represents the response after a transfer, including replays
type TransferResponse struct {
	Account  *models.Account  `json:"account"`
	Transfer *models.Transfer `json:"transfer"`
	Replayed bool             `json:"replayed,omitempty"`
}

// InterestResponse is returned by interest accrual
type InterestResponse struct {
	InterestAmount models.Money    `json:"interest_amount"`
	Account        *models.Account `json:"account"`
}

// AccountNumberParams holds the path parameter of a lookup by account number
type AccountNumberParams struct {
	AccountNumber string `param:"accountNumber" validate:"required,account_number"`
}
