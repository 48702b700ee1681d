// internal/application/charity/usecase.go
package charity

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	charitydom "bulkminter/internal/domain/charity"
	"bulkminter/internal/platform/debounce"
)

// ============================================================
// 寄付先（nonprofit）検索
// ============================================================
//
// 外部 API の検索結果から crypto payout アドレスを持つ団体だけを残して
// 返します。キー入力連動の呼び出し向けに、間引き付きの非同期版も
// 提供します（最後の検索語だけが生き残る）。

// DefaultSearchDebounce はキー入力からリクエスト発火までの待ち時間です。
const DefaultSearchDebounce = 300 * time.Millisecond

// Searcher は nonprofit 検索 API のポートです。
type Searcher interface {
	SearchNonprofits(ctx context.Context, term string) ([]charitydom.Nonprofit, error)
}

type Usecase struct {
	searcher  Searcher
	debouncer *debounce.Debouncer
}

func NewUsecase(searcher Searcher) *Usecase {
	return &Usecase{
		searcher:  searcher,
		debouncer: debounce.New(DefaultSearchDebounce),
	}
}

// Search は検索語で nonprofit を引き、Solana payout アドレスを持つ団体
// だけを返します。空の検索語はエラーです。
func (u *Usecase) Search(ctx context.Context, term string) ([]charitydom.Nonprofit, error) {
	if u == nil || u.searcher == nil {
		return nil, errors.New("charity usecase is nil")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, charitydom.ErrEmptySearchTerm
	}

	start := time.Now()
	all, err := u.searcher.SearchNonprofits(ctx, term)
	if err != nil {
		log.Printf("[charity_usecase] Search error term=%q err=%v elapsed=%s", term, err, time.Since(start))
		return nil, err
	}

	payable := charitydom.FilterPayable(all)
	log.Printf("[charity_usecase] Search ok term=%q total=%d payable=%d elapsed=%s",
		term, len(all), len(payable), time.Since(start))
	return payable, nil
}

// SearchDebounced は検索を間引き付きで予約します。待機中に次の呼び出しが
// 来ると前の予約は破棄され、最後の検索語だけが実行されます。
// 結果（またはエラー）は deliver コールバックへ渡します。
func (u *Usecase) SearchDebounced(ctx context.Context, term string, deliver func([]charitydom.Nonprofit, error)) {
	if u == nil || deliver == nil {
		return
	}
	u.debouncer.Do(func() {
		deliver(u.Search(ctx, term))
	})
}

// CancelPending は未実行の検索予約を破棄します（入力クリア時など）。
func (u *Usecase) CancelPending() {
	if u == nil {
		return
	}
	u.debouncer.Cancel()
}
