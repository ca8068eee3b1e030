package handlers

import (
	"net/http"

	"retail-ledger/internal/errors"
	"retail-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler serves single ledger entries
type TransactionHandler struct {
	ledger services.LedgerServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledger services.LedgerServiceInterface) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// GetTransaction retrieves a single transaction by ID
// @Summary Get transaction by ID
// @Tags Transactions
// @Produce json
// @Param transactionId path string true "Transaction ID (UUID)"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/{transactionId} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	txn, err := h.ledger.GetTransaction(c.Request().Context(), transactionID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, txn)
}

// GetTransactionByReference retrieves a ledger entry by its reference
// @Summary Get transaction by reference
// @Tags Transactions
// @Produce json
// @Param reference path string true "Transaction reference"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/by-reference/{reference} [get]
func (h *TransactionHandler) GetTransactionByReference(c echo.Context) error {
	txn, err := h.ledger.GetTransactionByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, txn)
}

// GetTransfer retrieves a transfer header by ID
// @Summary Get transfer by ID
// @Tags Transactions
// @Produce json
// @Param transferId path string true "Transfer ID (UUID)"
// @Success 200 {object} models.Transfer
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "TRANSFER_002"
// @Router /transfers/{transferId} [get]
func (h *TransactionHandler) GetTransfer(c echo.Context) error {
	transferID, err := uuid.Parse(c.Param("transferId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transfer ID"))
	}

	transfer, err := h.ledger.GetTransfer(c.Request().Context(), transferID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, transfer)
}
