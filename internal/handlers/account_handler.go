package handlers

import (
	"context"
	"net/http"

	"retail-ledger/internal/dto"
	"retail-ledger/internal/errors"
	"retail-ledger/internal/models"
	"retail-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader carries the optional client key that makes transfer retries safe
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	registry services.AccountRegistryInterface
	ledger   services.LedgerServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(registry services.AccountRegistryInterface, ledger services.LedgerServiceInterface) *AccountHandler {
	return &AccountHandler{
		registry: registry,
		ledger:   ledger,
	}
}

// CreateAccount opens a checking or savings account for a user
// @Summary Open an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, ACCOUNT_004, ACCOUNT_006"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("user_id must be a valid UUID"))
	}

	accountType, err := models.ParseAccountType(req.AccountType)
	if err != nil {
		return SendError(c, errors.AccountInvalidType)
	}

	var strategy *models.InterestStrategy
	if req.InterestStrategy != "" {
		s, err := models.ParseInterestStrategy(req.InterestStrategy)
		if err != nil {
			return SendError(c, errors.AccountInvalidStrategy)
		}
		strategy = &s
	}

	account, err := h.registry.Open(c.Request().Context(), userID, accountType, strategy)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// ListAccounts returns every account owned by the user_id query parameter
// @Summary List accounts by owner
// @Tags Accounts
// @Produce json
// @Param user_id query string true "Owner ID (UUID)"
// @Success 200 {array} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_002, VALIDATION_003"
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	raw := c.QueryParam("user_id")
	if raw == "" {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("user_id query parameter is required"))
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("user_id must be a valid UUID"))
	}

	accounts, err := h.registry.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountList(accounts))
}

// GetAccount retrieves a specific account by ID
// @Summary Get account by ID
// @Tags Accounts
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Router /accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.registry.Get(c.Request().Context(), accountID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// GetAccountByNumber retrieves an account by its 10-digit account number
// @Summary Get account by number
// @Tags Accounts
// @Produce json
// @Param accountNumber path string true "Account number"
// @Success 200 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Router /accounts/by-number/{accountNumber} [get]
func (h *AccountHandler) GetAccountByNumber(c echo.Context) error {
	params := dto.AccountNumberParams{AccountNumber: c.Param("accountNumber")}
	if err := c.Validate(params); err != nil {
		return sendValidationError(c, err)
	}

	account, err := h.registry.GetByNumber(c.Request().Context(), params.AccountNumber)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// Deposit credits the account
// @Summary Deposit funds
// @Tags Ledger
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param request body dto.AmountRequest true "Amount"
// @Success 200 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, TRANSACTION_002"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_007"
// @Router /accounts/{accountId}/deposit [post]
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.postAmount(c, h.ledger.Deposit)
}

// Withdraw debits the account; it never overdraws
// @Summary Withdraw funds
// @Tags Ledger
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param request body dto.AmountRequest true "Amount"
// @Success 200 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, TRANSACTION_002"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003"
// @Router /accounts/{accountId}/withdraw [post]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.postAmount(c, h.ledger.Withdraw)
}

type amountOperation func(ctx context.Context, accountID uuid.UUID, amount models.Money) (*models.Account, error)

func (h *AccountHandler) postAmount(c echo.Context, op amountOperation) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.AmountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	account, err := op(c.Request().Context(), accountID, amount)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// Transfer moves funds to another account atomically
// @Summary Transfer between accounts
// @Description Both legs commit together or not at all. Repeating a request with the same Idempotency-Key returns the original transfer.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param accountId path string true "Source Account ID (UUID)"
// @Param Idempotency-Key header string false "Client key for safe retries"
// @Param request body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, TRANSACTION_002, TRANSFER_001"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_007, TRANSFER_007"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003"
// @Router /accounts/{accountId}/transfer [post]
func (h *AccountHandler) Transfer(c echo.Context) error {
	sourceID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	idempotencyKey := c.Request().Header.Get(IdempotencyKeyHeader)
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("Idempotency-Key must be at most 255 characters"))
	}

	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	targetID, err := uuid.Parse(req.TargetAccountID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid target account ID"))
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	result, err := h.ledger.Transfer(c.Request().Context(), services.TransferRequest{
		SourceAccountID: sourceID,
		TargetAccountID: targetID,
		Amount:          amount,
		Description:     req.Description,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransferResponse{
		Account:  result.Account,
		Transfer: result.Transfer,
		Replayed: result.Replayed,
	})
}

// AccrueInterest credits one period of interest to a savings account
// @Summary Accrue interest
// @Tags Ledger
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} dto.InterestResponse
// @Failure 400 {object} errors.ErrorResponse "ACCOUNT_006"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Failure 422 {object} errors.ErrorResponse "ACCOUNT_007"
// @Router /accounts/{accountId}/interest [post]
func (h *AccountHandler) AccrueInterest(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	result, err := h.ledger.AccrueInterest(c.Request().Context(), accountID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.InterestResponse{
		InterestAmount: result.Interest,
		Account:        result.Account,
	})
}

// ListTransactions returns the account's history in chronological order
// @Summary List account transactions
// @Tags Ledger
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param order query string false "asc (default) or desc"
// @Param type query string false "Transaction type filter"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Router /accounts/{accountId}/transactions [get]
func (h *AccountHandler) ListTransactions(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	params := dto.TransactionListParams{
		Order: c.QueryParam("order"),
		Type:  c.QueryParam("type"),
	}
	if err := c.Validate(params); err != nil {
		return sendValidationError(c, err)
	}

	txns, err := h.ledger.ListTransactions(c.Request().Context(), accountID, params.Filters())
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionList(txns))
}

// ListAuditLogs returns the account's audit trail
// @Summary List account audit trail
// @Tags Ledger
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {array} models.AuditLog
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Router /accounts/{accountId}/audit-logs [get]
func (h *AccountHandler) ListAuditLogs(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	logs, err := h.ledger.ListAuditLogs(c.Request().Context(), accountID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.AuditLogList(logs))
}

// ListTransfers returns the transfers the account sent or received
// @Summary List account transfers
// @Tags Ledger
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {array} models.Transfer
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001"
// @Router /accounts/{accountId}/transfers [get]
func (h *AccountHandler) ListTransfers(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	transfers, err := h.ledger.ListTransfers(c.Request().Context(), accountID)
	if err != nil {
		return mapLedgerErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransferList(transfers))
}
