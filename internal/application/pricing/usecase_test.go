package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBalance struct {
	lamports uint64
	err      error
}

func (s stubBalance) GetBalance(context.Context, string) (uint64, error) {
	return s.lamports, s.err
}

type stubRate struct {
	price float64
	err   error
}

func (s stubRate) SolPriceUSD(context.Context) (float64, error) {
	return s.price, s.err
}

func TestQuoteMint(t *testing.T) {
	uc := NewUsecase(stubBalance{lamports: 50_000_000}, stubRate{price: 150})

	q, err := uc.QuoteMint(context.Background(), "ownerWallet11111111111111111111111111111111", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, q.ItemCount)
	assert.InDelta(t, 0.03, q.CostSOL, 1e-12)
	assert.InDelta(t, 4.5, q.CostUSD, 1e-9)
	assert.InDelta(t, 0.05, q.BalanceSOL, 1e-12)
	assert.True(t, q.Sufficient)
	assert.False(t, q.RateUnavailable)
}

func TestQuoteMintInsufficientBalance(t *testing.T) {
	// 0.02 SOL on hand, 3 items cost 0.03 SOL.
	uc := NewUsecase(stubBalance{lamports: 20_000_000}, stubRate{price: 150})
	q, err := uc.QuoteMint(context.Background(), "wallet", 3)
	require.NoError(t, err)
	assert.False(t, q.Sufficient)
}

func TestQuoteMintRateFailureIsNonFatal(t *testing.T) {
	uc := NewUsecase(stubBalance{lamports: 100_000_000}, stubRate{err: errors.New("rate limited")})
	q, err := uc.QuoteMint(context.Background(), "wallet", 1)
	require.NoError(t, err)
	assert.True(t, q.RateUnavailable)
	assert.Zero(t, q.CostUSD)
}

func TestQuoteMintValidation(t *testing.T) {
	uc := NewUsecase(stubBalance{}, stubRate{})

	_, err := uc.QuoteMint(context.Background(), "  ", 1)
	assert.ErrorIs(t, err, ErrInvalidWallet)

	_, err = uc.QuoteMint(context.Background(), "wallet", 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestQuoteMintBalanceErrorIsFatal(t *testing.T) {
	uc := NewUsecase(stubBalance{err: errors.New("rpc down")}, stubRate{price: 150})
	_, err := uc.QuoteMint(context.Background(), "wallet", 1)
	assert.Error(t, err)
}
