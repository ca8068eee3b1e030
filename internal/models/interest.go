package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// InterestStrategy selects how a savings account accrues interest.
// The set is closed; adding a strategy means adding a case to Rate.
type InterestStrategy string

const (
	InterestStrategySimple    InterestStrategy = "SIMPLE"
	InterestStrategyHighYield InterestStrategy = "HIGH_YIELD"
)

var ErrUnknownInterestStrategy = errors.New("unknown interest strategy")

var (
	simpleRate    = decimal.RequireFromString("0.02")
	highYieldRate = decimal.RequireFromString("0.05")
)

// Rate returns the single-period rate of the strategy
func (s InterestStrategy) Rate() (decimal.Decimal, error) {
	switch s {
	case InterestStrategySimple:
		return simpleRate, nil
	case InterestStrategyHighYield:
		return highYieldRate, nil
	default:
		return decimal.Zero, ErrUnknownInterestStrategy
	}
}

// Compute returns the interest accrued on balance for one period.
// It depends only on the balance and the strategy.
func (s InterestStrategy) Compute(balance Money) (Money, error) {
	rate, err := s.Rate()
	if err != nil {
		return Money{}, err
	}
	return balance.MulRate(rate), nil
}

// IsValid reports whether s is one of the known strategies
func (s InterestStrategy) IsValid() bool {
	_, err := s.Rate()
	return err == nil
}

// ParseInterestStrategy normalizes user input such as "high_yield"
func ParseInterestStrategy(value string) (InterestStrategy, error) {
	s := InterestStrategy(strings.ToUpper(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", ErrUnknownInterestStrategy
	}
	return s, nil
}
