package charity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	charitydom "bulkminter/internal/domain/charity"
)

type stubSearcher struct {
	mu    sync.Mutex
	terms []string
	out   []charitydom.Nonprofit
	err   error
}

func (s *stubSearcher) SearchNonprofits(_ context.Context, term string) ([]charitydom.Nonprofit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = append(s.terms, term)
	return s.out, s.err
}

func (s *stubSearcher) seenTerms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.terms...)
}

func TestSearchFiltersNonPayable(t *testing.T) {
	searcher := &stubSearcher{out: []charitydom.Nonprofit{
		{Name: "Water Fund", SolanaAddress: "solAddr1111111111111111111111111111111111"},
		{Name: "No Wallet Org"},
		{Name: "Eth Only", EthereumAddress: "0xabc"},
	}}
	uc := NewUsecase(searcher)

	got, err := uc.Search(context.Background(), "water")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Water Fund", got[0].Name)
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	uc := NewUsecase(&stubSearcher{})
	_, err := uc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, charitydom.ErrEmptySearchTerm)
}

func TestSearchDebouncedKeepsOnlyLastTerm(t *testing.T) {
	searcher := &stubSearcher{out: []charitydom.Nonprofit{}}
	uc := NewUsecase(searcher)

	done := make(chan struct{}, 3)
	deliver := func([]charitydom.Nonprofit, error) { done <- struct{}{} }

	// Rapid-fire input; only the last term may reach the API.
	uc.SearchDebounced(context.Background(), "w", deliver)
	uc.SearchDebounced(context.Background(), "wa", deliver)
	uc.SearchDebounced(context.Background(), "water", deliver)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never fired")
	}

	assert.Equal(t, []string{"water"}, searcher.seenTerms())
}

func TestCancelPendingDropsScheduledSearch(t *testing.T) {
	searcher := &stubSearcher{}
	uc := NewUsecase(searcher)

	uc.SearchDebounced(context.Background(), "water", func([]charitydom.Nonprofit, error) {
		t.Error("delivered after cancel")
	})
	uc.CancelPending()

	time.Sleep(DefaultSearchDebounce + 100*time.Millisecond)
	assert.Empty(t, searcher.seenTerms())
}
