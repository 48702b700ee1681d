// internal/application/pricing/usecase.go
package pricing

import (
	"context"
	"errors"
	"log"
	"strings"
)

// ============================================================
// ミント費用見積り
// ============================================================
//
// 1 点あたりの概算コスト（rent + 手数料込みの固定値）と枚数から
// 合計 SOL を出し、ウォレット残高と USD 換算を添えて返します。
// 見積りは表示用で、実費はチェーン側で確定します。

// SolCostPerNFT は NFT 1 点あたりの概算ミントコスト（SOL）です。
const SolCostPerNFT = 0.01

const lamportsPerSol = 1_000_000_000

var (
	ErrInvalidWallet = errors.New("pricing: invalid wallet address")
	ErrInvalidCount  = errors.New("pricing: item count out of range")
)

// BalanceReader は RPC からウォレット残高（lamports）を読むポートです。
type BalanceReader interface {
	GetBalance(ctx context.Context, wallet string) (uint64, error)
}

// RateSource は SOL の対 USD レートを返すポートです。
type RateSource interface {
	SolPriceUSD(ctx context.Context) (float64, error)
}

// Quote は off-ramp 前の確認画面に出す見積りです。
type Quote struct {
	ItemCount  int     `json:"itemCount"`
	CostSOL    float64 `json:"costSol"`
	CostUSD    float64 `json:"costUsd"`
	BalanceSOL float64 `json:"balanceSol"`
	Sufficient bool    `json:"sufficient"`

	// レート取得に失敗したとき true。CostUSD は 0 のまま返します。
	RateUnavailable bool `json:"rateUnavailable"`
}

type Usecase struct {
	balances BalanceReader
	rates    RateSource
}

func NewUsecase(balances BalanceReader, rates RateSource) *Usecase {
	return &Usecase{balances: balances, rates: rates}
}

// QuoteMint は itemCount 点のミント見積りを返します。
// 残高取得の失敗はエラー、レート取得の失敗は RateUnavailable=true で
// 見積り自体は返します（USD 表示は任意情報のため）。
func (u *Usecase) QuoteMint(ctx context.Context, wallet string, itemCount int) (Quote, error) {
	if u == nil || u.balances == nil {
		return Quote{}, errors.New("pricing usecase is nil")
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return Quote{}, ErrInvalidWallet
	}
	if itemCount <= 0 {
		return Quote{}, ErrInvalidCount
	}

	lamports, err := u.balances.GetBalance(ctx, wallet)
	if err != nil {
		log.Printf("[pricing_usecase] QuoteMint balance error wallet=%q err=%v", wallet, err)
		return Quote{}, err
	}

	q := Quote{
		ItemCount:  itemCount,
		CostSOL:    SolCostPerNFT * float64(itemCount),
		BalanceSOL: float64(lamports) / lamportsPerSol,
	}
	q.Sufficient = q.BalanceSOL >= q.CostSOL

	if u.rates != nil {
		rate, rerr := u.rates.SolPriceUSD(ctx)
		if rerr != nil {
			log.Printf("[pricing_usecase] QuoteMint rate error err=%v", rerr)
			q.RateUnavailable = true
		} else {
			q.CostUSD = q.CostSOL * rate
		}
	} else {
		q.RateUnavailable = true
	}

	return q, nil
}
