package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_DefaultMessage() {
	response := NewErrorResponse(AccountNotFound, s.traceID)

	s.Equal("ACCOUNT_001", response.Error.Code)
	s.Equal("Account not found", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	response := NewErrorResponse(TransactionInsufficientFunds, s.traceID,
		WithMessage("Balance too low"),
		WithDetails("first"),
		WithDetails("requested 50.00", "available 20.00"),
	)

	s.Equal("TRANSACTION_003", response.Error.Code)
	s.Equal("Balance too low", response.Error.Message)
	s.Equal([]string{"requested 50.00", "available 20.00"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedDetails() {
	response := NewValidationError(map[string]string{
		"target_account_id": "must be a valid UUID",
		"amount":            "is required",
	}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{
		"amount: is required",
		"target_account_id: must be a valid UUID",
	}, response.Error.Details)
	s.Equal(http.StatusBadRequest, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestNewValidationError_Empty() {
	response := NewValidationError(map[string]string{}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternalError() {
	internal := errors.New("pq: relation \"accounts\" does not exist")

	response, returned := WrapSystemError(internal, s.traceID)

	s.Same(internal, returned)
	s.Equal(string(SystemInternalError), response.Error.Code)
	body, err := json.Marshal(response)
	s.Require().NoError(err)
	s.NotContains(string(body), "relation")
	s.True(response.IsServerError())
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	cases := map[ErrorCode]int{
		ValidationGeneral:              http.StatusBadRequest,
		ValidationRequiredField:        http.StatusBadRequest,
		AccountNotFound:                http.StatusNotFound,
		AccountInvalidStrategy:         http.StatusBadRequest,
		AccountNotSavings:              http.StatusUnprocessableEntity,
		TransactionNotFound:            http.StatusNotFound,
		TransactionInvalidAmount:       http.StatusBadRequest,
		TransactionInsufficientFunds:   http.StatusUnprocessableEntity,
		TransactionConcurrencyConflict: http.StatusConflict,
		TransferSameAccount:            http.StatusBadRequest,
		TransferNotFound:               http.StatusNotFound,
		TransferIdempotencyKeyReuse:    http.StatusConflict,
		SystemInternalError:            http.StatusInternalServerError,
		SystemDatabaseError:            http.StatusInternalServerError,
		SystemServiceUnavailable:       http.StatusServiceUnavailable,
		SystemRequestTimeout:           http.StatusGatewayTimeout,
		SystemRateLimitExceeded:        http.StatusTooManyRequests,
		SystemRouteNotFound:            http.StatusNotFound,
		"UNKNOWN_999":                  http.StatusInternalServerError,
	}

	for code, expected := range cases {
		s.Equal(expected, GetHTTPStatus(code), string(code))
	}
}

func (s *ResponseTestSuite) TestEveryCodeHasStatus() {
	for _, code := range allCodes {
		_, ok := httpStatuses[code]
		s.True(ok, "no status for %s", code)
	}
}

func (s *ResponseTestSuite) TestIsServerError() {
	s.False(NewErrorResponse(TransactionInsufficientFunds, s.traceID).IsServerError())
	s.False(NewErrorResponse(SystemRateLimitExceeded, s.traceID).IsServerError())
	s.True(NewErrorResponse(SystemServiceUnavailable, s.traceID).IsServerError())
	s.True(NewErrorResponse(SystemRequestTimeout, s.traceID).IsServerError())
}

func (s *ResponseTestSuite) TestString() {
	response := NewErrorResponse(TransferSameAccount, "trace-1")

	s.Equal("[TRANSFER_001] Cannot transfer to the same account (trace: trace-1)", response.String())
}

func (s *ResponseTestSuite) TestJSONShape() {
	response := NewErrorResponse(ValidationGeneral, s.traceID, WithDetails("amount: is required"))

	body, err := json.Marshal(response)
	s.Require().NoError(err)

	var decoded map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(body, &decoded))
	s.Equal("VALIDATION_001", decoded["error"]["code"])
	s.Equal(s.traceID, decoded["error"]["trace_id"])
	s.Equal([]interface{}{"amount: is required"}, decoded["error"]["details"])

	body, err = json.Marshal(NewErrorResponse(AccountNotFound, s.traceID))
	s.Require().NoError(err)
	s.NotContains(string(body), "details")
}
