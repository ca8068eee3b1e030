package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"retail-ledger/internal/dto"
	"retail-ledger/internal/errors"
	"retail-ledger/internal/models"
	"retail-ledger/internal/services"
	"retail-ledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// AccountHandlerSuite defines the test suite for AccountHandler
type AccountHandlerSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRegistry *service_mocks.MockAccountRegistryInterface
	mockLedger   *service_mocks.MockLedgerServiceInterface
	handler      *AccountHandler
	echo         *echo.Echo
	testUserID   uuid.UUID
	accountID    uuid.UUID
}

// SetupTest runs before each test in the suite
func (s *AccountHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRegistry = service_mocks.NewMockAccountRegistryInterface(s.ctrl)
	s.mockLedger = service_mocks.NewMockLedgerServiceInterface(s.ctrl)
	s.handler = NewAccountHandler(s.mockRegistry, s.mockLedger)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()

	s.testUserID = uuid.New()
	s.accountID = uuid.New()
}

// TearDownTest runs after each test in the suite
func (s *AccountHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// TestAccountHandlerSuite runs the test suite
func TestAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerSuite))
}

func (s *AccountHandlerSuite) newContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-123")
	return c, rec
}

func (s *AccountHandlerSuite) accountContext(method, suffix string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := s.newContext(method, "/api/v1/accounts/"+s.accountID.String()+suffix, body)
	c.SetParamNames("accountId")
	c.SetParamValues(s.accountID.String())
	return c, rec
}

func (s *AccountHandlerSuite) decodeError(rec *httptest.ResponseRecorder) errors.ErrorResponse {
	var resp errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *AccountHandlerSuite) account(balance string) *models.Account {
	return &models.Account{
		ID:            s.accountID,
		UserID:        s.testUserID,
		AccountNumber: "1012345672",
		AccountType:   models.AccountTypeChecking,
		Balance:       models.MustParseMoney(balance),
		Version:       1,
	}
}

// Test CreateAccount functionality
func (s *AccountHandlerSuite) TestCreateAccount_Checking() {
	expected := s.account("0")
	s.mockRegistry.EXPECT().
		Open(gomock.Any(), s.testUserID, models.AccountTypeChecking, nil).
		Return(expected, nil)

	c, rec := s.newContext(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		UserID:      s.testUserID.String(),
		AccountType: "CHECKING",
	})

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusCreated, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &account))
	s.Equal(expected.ID, account.ID)
	s.Equal("1012345672", account.AccountNumber)
	s.True(account.Balance.IsZero())
}

func (s *AccountHandlerSuite) TestCreateAccount_SavingsNormalizesInput() {
	highYield := models.InterestStrategyHighYield
	s.mockRegistry.EXPECT().
		Open(gomock.Any(), s.testUserID, models.AccountTypeSavings, &highYield).
		Return(&models.Account{ID: s.accountID, AccountType: models.AccountTypeSavings, InterestStrategy: &highYield}, nil)

	c, rec := s.newContext(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		UserID:           s.testUserID.String(),
		AccountType:      "savings",
		InterestStrategy: "high_yield",
	})

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *AccountHandlerSuite) TestCreateAccount_ValidationErrors() {
	testCases := []struct {
		name string
		body interface{}
	}{
		{"missing user", dto.CreateAccountRequest{AccountType: "CHECKING"}},
		{"bad user id", dto.CreateAccountRequest{UserID: "nope", AccountType: "CHECKING"}},
		{"unknown type", dto.CreateAccountRequest{UserID: uuid.NewString(), AccountType: "CREDIT"}},
		{"unknown strategy", dto.CreateAccountRequest{UserID: uuid.NewString(), AccountType: "SAVINGS", InterestStrategy: "COMPOUND"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c, rec := s.newContext(http.MethodPost, "/api/v1/accounts", tc.body)

			s.NoError(s.handler.CreateAccount(c))
			s.Equal(http.StatusBadRequest, rec.Code)

			resp := s.decodeError(rec)
			s.Equal(string(errors.ValidationGeneral), resp.Error.Code)
			s.NotEmpty(resp.Error.Details)
			s.Equal("trace-123", resp.Error.TraceID)
		})
	}
}

func (s *AccountHandlerSuite) TestCreateAccount_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AccountHandlerSuite) TestCreateAccount_StrategyRejectedByRegistry() {
	s.mockRegistry.EXPECT().
		Open(gomock.Any(), s.testUserID, models.AccountTypeChecking, gomock.Not(gomock.Nil())).
		Return(nil, fmt.Errorf("%w: %s", services.ErrInvalidStrategy, models.ErrStrategyNotAllowed))

	c, rec := s.newContext(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		UserID:           s.testUserID.String(),
		AccountType:      "CHECKING",
		InterestStrategy: "SIMPLE",
	})

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.AccountInvalidStrategy), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) TestCreateAccount_DeadlineMapsToTimeout() {
	s.mockRegistry.EXPECT().
		Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("failed to create account: %w", context.DeadlineExceeded))

	c, rec := s.newContext(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		UserID:      s.testUserID.String(),
		AccountType: "CHECKING",
	})

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusGatewayTimeout, rec.Code)
	s.Equal(string(errors.SystemRequestTimeout), s.decodeError(rec).Error.Code)
}

// Test ListAccounts functionality
func (s *AccountHandlerSuite) TestListAccounts() {
	s.mockRegistry.EXPECT().
		ListByOwner(gomock.Any(), s.testUserID).
		Return([]models.Account{*s.account("10.00")}, nil)

	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts?user_id="+s.testUserID.String(), nil)

	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusOK, rec.Code)

	var accounts []models.Account
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &accounts))
	s.Len(accounts, 1)
	s.Equal("10.00", accounts[0].Balance.String())
}

func (s *AccountHandlerSuite) TestListAccounts_EmptyIsArray() {
	s.mockRegistry.EXPECT().ListByOwner(gomock.Any(), s.testUserID).Return(nil, nil)

	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts?user_id="+s.testUserID.String(), nil)

	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())
}

func (s *AccountHandlerSuite) TestListAccounts_BadOwner() {
	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts", nil)
	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationRequiredField), s.decodeError(rec).Error.Code)

	c, rec = s.newContext(http.MethodGet, "/api/v1/accounts?user_id=abc", nil)
	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationInvalidFormat), s.decodeError(rec).Error.Code)
}

// Test GetAccount functionality
func (s *AccountHandlerSuite) TestGetAccount_Success() {
	s.mockRegistry.EXPECT().Get(gomock.Any(), s.accountID).Return(s.account("25.50"), nil)

	c, rec := s.accountContext(http.MethodGet, "", nil)

	s.NoError(s.handler.GetAccount(c))
	s.Equal(http.StatusOK, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &account))
	s.Equal(s.accountID, account.ID)
	s.Equal("25.50", account.Balance.String())
}

func (s *AccountHandlerSuite) TestGetAccount_NotFound() {
	s.mockRegistry.EXPECT().Get(gomock.Any(), s.accountID).Return(nil, services.ErrAccountNotFound)

	c, rec := s.accountContext(http.MethodGet, "", nil)

	s.NoError(s.handler.GetAccount(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(errors.AccountNotFound), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) TestGetAccount_InvalidID() {
	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts/xyz", nil)
	c.SetParamNames("accountId")
	c.SetParamValues("xyz")

	s.NoError(s.handler.GetAccount(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationInvalidFormat), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) byNumberContext(number string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts/by-number/"+number, nil)
	c.SetParamNames("accountNumber")
	c.SetParamValues(number)
	return c, rec
}

func (s *AccountHandlerSuite) TestGetAccountByNumber_Success() {
	s.mockRegistry.EXPECT().GetByNumber(gomock.Any(), "1012345672").Return(s.account("5"), nil)

	c, rec := s.byNumberContext("1012345672")

	s.NoError(s.handler.GetAccountByNumber(c))
	s.Equal(http.StatusOK, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &account))
	s.Equal(s.accountID, account.ID)
	s.Equal("1012345672", account.AccountNumber)
}

func (s *AccountHandlerSuite) TestGetAccountByNumber_RejectsMalformedNumbers() {
	for _, number := range []string{"1012345678", "3012345672", "10123456a2", "101234567"} {
		s.Run(number, func() {
			c, rec := s.byNumberContext(number)

			s.NoError(s.handler.GetAccountByNumber(c))
			s.Equal(http.StatusBadRequest, rec.Code)

			resp := s.decodeError(rec)
			s.Equal(string(errors.ValidationGeneral), resp.Error.Code)
			s.NotEmpty(resp.Error.Details)
		})
	}
}

func (s *AccountHandlerSuite) TestGetAccountByNumber_NotFound() {
	s.mockRegistry.EXPECT().GetByNumber(gomock.Any(), "2012345670").Return(nil, services.ErrAccountNotFound)

	c, rec := s.byNumberContext("2012345670")

	s.NoError(s.handler.GetAccountByNumber(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(errors.AccountNotFound), s.decodeError(rec).Error.Code)
}

// Test Deposit and Withdraw functionality
func (s *AccountHandlerSuite) TestDeposit_Success() {
	s.mockLedger.EXPECT().
		Deposit(gomock.Any(), s.accountID, models.MustParseMoney("100.25")).
		Return(s.account("100.25"), nil)

	c, rec := s.accountContext(http.MethodPost, "/deposit", dto.AmountRequest{Amount: "100.25"})

	s.NoError(s.handler.Deposit(c))
	s.Equal(http.StatusOK, rec.Code)

	var account models.Account
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &account))
	s.Equal("100.25", account.Balance.String())
}

func (s *AccountHandlerSuite) TestDeposit_RejectsBadAmounts() {
	for _, amount := range []string{"", "ten", "1.005", "1e3", "1e-60000000"} {
		s.Run(amount, func() {
			c, rec := s.accountContext(http.MethodPost, "/deposit", dto.AmountRequest{Amount: amount})

			s.NoError(s.handler.Deposit(c))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(string(errors.ValidationGeneral), s.decodeError(rec).Error.Code)
		})
	}
}

func (s *AccountHandlerSuite) TestDeposit_NonPositiveIsInvalidAmount() {
	s.mockLedger.EXPECT().
		Deposit(gomock.Any(), s.accountID, models.Zero).
		Return(nil, services.ErrInvalidAmount)

	c, rec := s.accountContext(http.MethodPost, "/deposit", dto.AmountRequest{Amount: "0"})

	s.NoError(s.handler.Deposit(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.TransactionInvalidAmount), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) TestDeposit_RejectsNumericJSON() {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"amount": 12.5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetParamNames("accountId")
	c.SetParamValues(s.accountID.String())

	s.NoError(s.handler.Deposit(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AccountHandlerSuite) TestWithdraw_InsufficientFunds() {
	s.mockLedger.EXPECT().
		Withdraw(gomock.Any(), s.accountID, models.MustParseMoney("50")).
		Return(nil, services.ErrInsufficientFunds)

	c, rec := s.accountContext(http.MethodPost, "/withdraw", dto.AmountRequest{Amount: "50"})

	s.NoError(s.handler.Withdraw(c))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal(string(errors.TransactionInsufficientFunds), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) TestWithdraw_ConcurrencyConflict() {
	s.mockLedger.EXPECT().
		Withdraw(gomock.Any(), s.accountID, gomock.Any()).
		Return(nil, services.ErrConcurrencyConflict)

	c, rec := s.accountContext(http.MethodPost, "/withdraw", dto.AmountRequest{Amount: "5"})

	s.NoError(s.handler.Withdraw(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(errors.TransactionConcurrencyConflict), s.decodeError(rec).Error.Code)
}

func (s *AccountHandlerSuite) TestWithdraw_SystemErrorHidesDetail() {
	s.mockLedger.EXPECT().
		Withdraw(gomock.Any(), s.accountID, gomock.Any()).
		Return(nil, fmt.Errorf("failed to commit ledger postings: %w", fmt.Errorf("disk I/O error")))

	c, rec := s.accountContext(http.MethodPost, "/withdraw", dto.AmountRequest{Amount: "5"})

	s.NoError(s.handler.Withdraw(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	resp := s.decodeError(rec)
	s.Equal(string(errors.SystemInternalError), resp.Error.Code)
	s.NotContains(rec.Body.String(), "disk I/O")
	s.Equal("trace-123", resp.Error.TraceID)
}

// Test Transfer functionality
func (s *AccountHandlerSuite) TestTransfer_Success() {
	targetID := uuid.New()
	transfer := &models.Transfer{
		ID:            uuid.New(),
		FromAccountID: s.accountID,
		ToAccountID:   targetID,
		Amount:        models.MustParseMoney("30"),
	}

	s.mockLedger.EXPECT().
		Transfer(gomock.Any(), services.TransferRequest{
			SourceAccountID: s.accountID,
			TargetAccountID: targetID,
			Amount:          models.MustParseMoney("30"),
			Description:     "rent",
			IdempotencyKey:  "key-1",
		}).
		Return(&services.TransferResult{Account: s.account("70"), Transfer: transfer}, nil)

	c, rec := s.accountContext(http.MethodPost, "/transfer", dto.TransferRequest{
		TargetAccountID: targetID.String(),
		Amount:          "30",
		Description:     "rent",
	})
	c.Request().Header.Set(IdempotencyKeyHeader, "key-1")

	s.NoError(s.handler.Transfer(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.TransferResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("70.00", resp.Account.Balance.String())
	s.Equal(transfer.ID, resp.Transfer.ID)
	s.False(resp.Replayed)
}

func (s *AccountHandlerSuite) TestTransfer_WithoutIdempotencyKey() {
	targetID := uuid.New()
	s.mockLedger.EXPECT().
		Transfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req services.TransferRequest) (*services.TransferResult, error) {
			s.Empty(req.IdempotencyKey)
			s.Empty(req.Description)
			return &services.TransferResult{Account: s.account("0"), Transfer: &models.Transfer{ID: uuid.New()}}, nil
		})

	c, rec := s.accountContext(http.MethodPost, "/transfer", dto.TransferRequest{
		TargetAccountID: targetID.String(),
		Amount:          "1",
	})

	s.NoError(s.handler.Transfer(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AccountHandlerSuite) TestTransfer_ErrorMapping() {
	testCases := []struct {
		name   string
		err    error
		status int
		code   errors.ErrorCode
	}{
		{"same account", services.ErrSameAccount, http.StatusBadRequest, errors.TransferSameAccount},
		{"insufficient", services.ErrInsufficientFunds, http.StatusUnprocessableEntity, errors.TransactionInsufficientFunds},
		{"missing target", services.ErrAccountNotFound, http.StatusNotFound, errors.AccountNotFound},
		{"key reused", services.ErrIdempotencyKeyReused, http.StatusConflict, errors.TransferIdempotencyKeyReuse},
		{"conflict", services.ErrConcurrencyConflict, http.StatusConflict, errors.TransactionConcurrencyConflict},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, errors.SystemRequestTimeout},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockLedger.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			c, rec := s.accountContext(http.MethodPost, "/transfer", dto.TransferRequest{
				TargetAccountID: uuid.NewString(),
				Amount:          "10",
			})

			s.NoError(s.handler.Transfer(c))
			s.Equal(tc.status, rec.Code)
			s.Equal(string(tc.code), s.decodeError(rec).Error.Code)
		})
	}
}

func (s *AccountHandlerSuite) TestTransfer_ValidationErrors() {
	c, rec := s.accountContext(http.MethodPost, "/transfer", dto.TransferRequest{
		TargetAccountID: "not-a-uuid",
		Amount:          "10",
	})
	s.NoError(s.handler.Transfer(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(s.decodeError(rec).Error.Details, "target_account_id: must be a valid UUID")

	c, rec = s.accountContext(http.MethodPost, "/transfer", dto.TransferRequest{
		TargetAccountID: uuid.NewString(),
		Amount:          "10",
	})
	c.Request().Header.Set(IdempotencyKeyHeader, string(bytes.Repeat([]byte("k"), 256)))
	s.NoError(s.handler.Transfer(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationOutOfRange), s.decodeError(rec).Error.Code)
}

// Test AccrueInterest functionality
func (s *AccountHandlerSuite) TestAccrueInterest_Success() {
	s.mockLedger.EXPECT().
		AccrueInterest(gomock.Any(), s.accountID).
		Return(&services.InterestResult{Interest: models.MustParseMoney("20"), Account: s.account("1020")}, nil)

	c, rec := s.accountContext(http.MethodPost, "/interest", nil)

	s.NoError(s.handler.AccrueInterest(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.InterestResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("20.00", resp.InterestAmount.String())
	s.Equal("1020.00", resp.Account.Balance.String())
}

func (s *AccountHandlerSuite) TestAccrueInterest_CheckingRejected() {
	s.mockLedger.EXPECT().AccrueInterest(gomock.Any(), s.accountID).Return(nil, services.ErrNotSavingsAccount)

	c, rec := s.accountContext(http.MethodPost, "/interest", nil)

	s.NoError(s.handler.AccrueInterest(c))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal(string(errors.AccountNotSavings), s.decodeError(rec).Error.Code)
}

// Test ListTransactions functionality
func (s *AccountHandlerSuite) TestListTransactions_Descending() {
	txns := []models.Transaction{
		{ID: uuid.New(), AccountID: s.accountID, TransactionType: models.TransactionTypeWithdrawal, Amount: models.MustParseMoney("5"), Sequence: 2},
		{ID: uuid.New(), AccountID: s.accountID, TransactionType: models.TransactionTypeDeposit, Amount: models.MustParseMoney("10"), Sequence: 1},
	}
	s.mockLedger.EXPECT().
		ListTransactions(gomock.Any(), s.accountID, models.TransactionFilters{Order: models.SortDescending}).
		Return(txns, nil)

	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts/"+s.accountID.String()+"/transactions?order=DESC", nil)
	c.SetParamNames("accountId")
	c.SetParamValues(s.accountID.String())

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)

	var got []models.Transaction
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Len(got, 2)
	s.Equal(int64(2), got[0].Sequence)
}

func (s *AccountHandlerSuite) TestListTransactions_DefaultsAndTypeFilter() {
	s.mockLedger.EXPECT().
		ListTransactions(gomock.Any(), s.accountID, models.TransactionFilters{Order: models.SortAscending, Type: models.TransactionTypeDeposit}).
		Return(nil, nil)

	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts/"+s.accountID.String()+"/transactions?type=deposit", nil)
	c.SetParamNames("accountId")
	c.SetParamValues(s.accountID.String())

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())
}

func (s *AccountHandlerSuite) TestListTransactions_InvalidOrder() {
	c, rec := s.newContext(http.MethodGet, "/api/v1/accounts/"+s.accountID.String()+"/transactions?order=newest", nil)
	c.SetParamNames("accountId")
	c.SetParamValues(s.accountID.String())

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal([]string{"order: must be asc or desc"}, s.decodeError(rec).Error.Details)
}

func (s *AccountHandlerSuite) TestListTransactions_UnknownAccount() {
	s.mockLedger.EXPECT().
		ListTransactions(gomock.Any(), s.accountID, gomock.Any()).
		Return(nil, services.ErrAccountNotFound)

	c, rec := s.accountContext(http.MethodGet, "/transactions", nil)

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

// Test ListAuditLogs functionality
func (s *AccountHandlerSuite) TestListAuditLogs() {
	logs := []*models.AuditLog{{
		ID:        uuid.New(),
		AccountID: s.accountID,
		EventType: models.AuditEventDeposit,
		EventData: "Deposited $10.00. New balance: $10.00",
	}}
	s.mockLedger.EXPECT().ListAuditLogs(gomock.Any(), s.accountID).Return(logs, nil)

	c, rec := s.accountContext(http.MethodGet, "/audit-logs", nil)

	s.NoError(s.handler.ListAuditLogs(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Deposited $10.00. New balance: $10.00")
}

func (s *AccountHandlerSuite) TestListAuditLogs_NotFound() {
	s.mockLedger.EXPECT().ListAuditLogs(gomock.Any(), s.accountID).Return(nil, services.ErrAccountNotFound)

	c, rec := s.accountContext(http.MethodGet, "/audit-logs", nil)

	s.NoError(s.handler.ListAuditLogs(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

// Test ListTransfers functionality
func (s *AccountHandlerSuite) TestListTransfers() {
	transfers := []models.Transfer{{
		ID:            uuid.New(),
		FromAccountID: s.accountID,
		ToAccountID:   uuid.New(),
		Amount:        models.MustParseMoney("40"),
		Description:   "rent share",
	}}
	s.mockLedger.EXPECT().ListTransfers(gomock.Any(), s.accountID).Return(transfers, nil)

	c, rec := s.accountContext(http.MethodGet, "/transfers", nil)

	s.NoError(s.handler.ListTransfers(c))
	s.Equal(http.StatusOK, rec.Code)

	var body []map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.Equal("40.00", body[0]["amount"])
	s.Equal(s.accountID.String(), body[0]["from_account_id"])
}

func (s *AccountHandlerSuite) TestListTransfers_EmptyIsArray() {
	s.mockLedger.EXPECT().ListTransfers(gomock.Any(), s.accountID).Return(nil, nil)

	c, rec := s.accountContext(http.MethodGet, "/transfers", nil)

	s.NoError(s.handler.ListTransfers(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())
}

func (s *AccountHandlerSuite) TestListTransfers_NotFound() {
	s.mockLedger.EXPECT().ListTransfers(gomock.Any(), s.accountID).Return(nil, services.ErrAccountNotFound)

	c, rec := s.accountContext(http.MethodGet, "/transfers", nil)

	s.NoError(s.handler.ListTransfers(c))
	s.Equal(http.StatusNotFound, rec.Code)
}
