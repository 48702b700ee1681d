// internal/adapters/out/httpout/wallet_bridge_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"bulkminter/internal/application/minting"
	sessdom "bulkminter/internal/domain/session"
)

// walletApprovalRejectedCode はウォレット標準のユーザー拒否コードです。
const walletApprovalRejectedCode = 4001

// WalletBridgeClient はユーザーウォレットの承認を仲介するリレーサービス
// 経由でミントする WalletMinter 実装です。リレーはウォレットに承認を
// 求め、署名済みトランザクションを送信して receipt を返します。
//
// ユーザーが承認を拒否するとリレーは code=4001 を返し、ここで
// minting.ErrApprovalRejected に写像します。
type WalletBridgeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWalletBridgeClient(baseURL, apiKey string) *WalletBridgeClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &WalletBridgeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type walletBridgeMintRequest struct {
	OwnerWallet          string  `json:"ownerWallet"`
	URI                  string  `json:"uri"`
	Name                 string  `json:"name"`
	Symbol               string  `json:"symbol"`
	SellerFeeBasisPoints uint16  `json:"sellerFeeBasisPoints"`
	MaxSupply            *uint64 `json:"maxSupply"`
}

type walletBridgeMintResponse struct {
	TxID     string `json:"txId"`
	Mint     string `json:"mint"`
	Metadata string `json:"metadata"`
	Edition  string `json:"edition"`

	// エラー時
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *WalletBridgeClient) MintNFT(ctx context.Context, p minting.MintParams) (sessdom.MintReceipt, error) {
	var zero sessdom.MintReceipt
	if c == nil || c.client == nil {
		return zero, fmt.Errorf("wallet bridge client is nil")
	}
	if c.baseURL == "" {
		return zero, fmt.Errorf("wallet bridge baseURL is empty")
	}

	payload := walletBridgeMintRequest{
		OwnerWallet:          strings.TrimSpace(p.OwnerWallet),
		URI:                  strings.TrimSpace(p.MetadataURI),
		Name:                 p.Name,
		Symbol:               p.Symbol,
		SellerFeeBasisPoints: p.SellerFeeBasisPoints,
		MaxSupply:            p.MaxSupply,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mint", bytes.NewReader(b))
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("wallet bridge mint: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var out walletBridgeMintResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode mint response: status=%d body=%s: %w", resp.StatusCode, string(body), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Code == walletApprovalRejectedCode {
			log.Printf("[wallet_bridge] mint rejected by user owner=%q", payload.OwnerWallet)
			return zero, fmt.Errorf("wallet bridge: %s: %w", out.Message, minting.ErrApprovalRejected)
		}
		return zero, fmt.Errorf("wallet bridge mint failed: status=%d code=%d message=%s",
			resp.StatusCode, out.Code, out.Message)
	}

	if strings.TrimSpace(out.TxID) == "" || strings.TrimSpace(out.Mint) == "" {
		return zero, fmt.Errorf("wallet bridge mint response incomplete: body=%s", string(body))
	}

	return sessdom.MintReceipt{
		TxID:            out.TxID,
		MintAddress:     out.Mint,
		MetadataAddress: out.Metadata,
		EditionAddress:  out.Edition,
	}, nil
}
