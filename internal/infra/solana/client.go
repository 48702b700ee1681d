// internal/infra/solana/client.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// DevnetEndpoint は SOLANA_RPC_ENDPOINT 未設定時のフォールバックです。
const DevnetEndpoint = rpc.DevnetRPCEndpoint

// Client は Solana RPC の薄いラッパです。
// 残高照会とトランザクション確定待ちを提供します。
type Client struct {
	rpc *client.Client

	// ConfirmTransaction のポーリング設定
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewClient(endpoint string) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DevnetEndpoint
	}
	return &Client{
		rpc:          client.NewClient(endpoint),
		pollInterval: 2 * time.Second,
		pollTimeout:  90 * time.Second,
	}
}

// RPC は SDK クライアントをそのまま返します（ミント組み立て用）。
func (c *Client) RPC() *client.Client {
	return c.rpc
}

// GetBalance はウォレット残高を lamports で返します。
func (c *Client) GetBalance(ctx context.Context, wallet string) (uint64, error) {
	if c == nil || c.rpc == nil {
		return 0, fmt.Errorf("solana client is nil")
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return 0, fmt.Errorf("wallet is empty")
	}
	bal, err := c.rpc.GetBalance(ctx, wallet)
	if err != nil {
		return 0, fmt.Errorf("GetBalance: %w", err)
	}
	return bal, nil
}

// ConfirmTransaction はシグネチャが confirmed/finalized になるまで
// ポーリングします。チェーン側でトランザクションが失敗していた場合も
// エラーを返します。
func (c *Client) ConfirmTransaction(ctx context.Context, txID string) error {
	if c == nil || c.rpc == nil {
		return fmt.Errorf("solana client is nil")
	}
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return fmt.Errorf("txID is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		st, err := c.rpc.GetSignatureStatus(ctx, txID)
		if err != nil {
			log.Printf("[solana] ConfirmTransaction status error txId=%q err=%v", txID, err)
		} else if st != nil {
			if st.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", st.Err)
			}
			if st.ConfirmationStatus != nil &&
				(*st.ConfirmationStatus == rpc.CommitmentConfirmed || *st.ConfirmationStatus == rpc.CommitmentFinalized) {
				log.Printf("[solana] ConfirmTransaction ok txId=%q status=%s elapsed=%s",
					txID, *st.ConfirmationStatus, time.Since(start))
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm transaction %s: %w", txID, ctx.Err())
		case <-ticker.C:
		}
	}
}
