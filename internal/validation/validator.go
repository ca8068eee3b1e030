package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"retail-ledger/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with ledger rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("money_amount", validateMoneyAmount)
	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("interest_strategy", validateInterestStrategy)
	_ = v.RegisterValidation("sort_order", validateSortOrder)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("account_number", validateAccountNumber)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("query")
		}
		if tag == "" {
			tag = fld.Tag.Get("param")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateMoneyAmount accepts a decimal string with at most two fractional digits.
// Sign is left to the ledger, which reports non-positive amounts as ErrInvalidAmount.
func validateMoneyAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := models.ParseMoney(fl.Field().String())
	return err == nil
}

func validateAccountType(fl validator.FieldLevel) bool {
	_, err := models.ParseAccountType(fl.Field().String())
	return err == nil
}

func validateInterestStrategy(fl validator.FieldLevel) bool {
	_, err := models.ParseInterestStrategy(fl.Field().String())
	return err == nil
}

func validateSortOrder(fl validator.FieldLevel) bool {
	_, err := models.ParseSortOrder(fl.Field().String())
	return err == nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(strings.ToUpper(fl.Field().String())).IsValid()
}

func validateAccountNumber(fl validator.FieldLevel) bool {
	return models.ValidateAccountNumber(fl.Field().String())
}

// FieldErrors flattens validator errors into field -> message.
// ok is false when err is not a validation error.
func FieldErrors(err error) (map[string]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}
	out := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		out[fe.Field()] = FormatFieldError(fe)
	}
	return out, true
}

// Details renders validation errors as sorted "field: message" lines
func Details(err error) []string {
	fields, ok := FieldErrors(err)
	if !ok {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fields))
	for field, msg := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(details)
	return details
}

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "money_amount":
		return "must be a decimal amount with at most 2 decimal places"
	case "account_type":
		return "must be a valid account type (CHECKING, SAVINGS)"
	case "interest_strategy":
		return "must be a valid interest strategy (SIMPLE, HIGH_YIELD)"
	case "sort_order":
		return "must be asc or desc"
	case "transaction_type":
		return "must be a valid transaction type (DEPOSIT, WITHDRAWAL, TRANSFER_IN, TRANSFER_OUT, INTEREST)"
	case "account_number":
		return "must be a valid account number"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
