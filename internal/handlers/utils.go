package handlers

import (
	"context"
	stderrors "errors"

	"retail-ledger/internal/errors"
	"retail-ledger/internal/models"
	"retail-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// ledgerErrorCodes maps service sentinels to API codes; order matters only for
// errors that wrap more than one sentinel
var ledgerErrorCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrAccountNotFound, errors.AccountNotFound},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrTransferNotFound, errors.TransferNotFound},
	{services.ErrInvalidAmount, errors.TransactionInvalidAmount},
	{services.ErrInsufficientFunds, errors.TransactionInsufficientFunds},
	{services.ErrSameAccount, errors.TransferSameAccount},
	{services.ErrInvalidStrategy, errors.AccountInvalidStrategy},
	{services.ErrNotSavingsAccount, errors.AccountNotSavings},
	{services.ErrInvalidAccountType, errors.AccountInvalidType},
	{services.ErrOwnerRequired, errors.ValidationRequiredField},
	{services.ErrConcurrencyConflict, errors.TransactionConcurrencyConflict},
	{services.ErrIdempotencyKeyReused, errors.TransferIdempotencyKeyReuse},
	{models.ErrInvalidSortOrder, errors.ValidationInvalidFormat},
	{context.DeadlineExceeded, errors.SystemRequestTimeout},
	{context.Canceled, errors.SystemRequestTimeout},
}

// mapLedgerErr writes the response for an error returned by the registry or ledger.
// Anything unrecognised is a system error and its detail stays in the logs.
func mapLedgerErr(c echo.Context, err error) error {
	for _, m := range ledgerErrorCodes {
		if stderrors.Is(err, m.err) {
			return SendError(c, m.code)
		}
	}
	return SendSystemError(c, err)
}
