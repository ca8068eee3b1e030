package repositories

import (
	"context"
	"testing"

	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, repo AccountRepositoryInterface, userID uuid.UUID, accountType models.AccountType) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:      userID,
		AccountType: accountType,
	}
	if accountType == models.AccountTypeSavings {
		strategy := models.InterestStrategySimple
		account.InterestStrategy = &strategy
	}

	require.NoError(t, repo.CreateWithGeneratedNumber(context.Background(), account))
	return account
}

func depositPosting(account *models.Account, amount models.Money) Posting {
	newBalance, err := account.Balance.Add(amount)
	if err != nil {
		panic(err)
	}

	return Posting{
		AccountID:       account.ID,
		ExpectedVersion: account.Version,
		NewBalance:      newBalance,
		Transaction: &models.Transaction{
			ID:              uuid.New(),
			AccountID:       account.ID,
			TransactionType: models.TransactionTypeDeposit,
			Amount:          amount,
			Sequence:        account.Version + 1,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			Description:     "Deposit",
		},
	}
}

// applyPosting mirrors a committed posting onto the in-memory account
func applyPosting(account *models.Account, p Posting) {
	account.Balance = p.NewBalance
	account.Version = p.NextVersion()
}
