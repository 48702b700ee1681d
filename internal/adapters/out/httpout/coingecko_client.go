// internal/adapters/out/httpout/coingecko_client.go
package httpout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CoinGeckoClient は SOL/USD レートの取得クライアントです。
// pricing.RateSource を満たします。
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com"
	}
	return &CoinGeckoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *CoinGeckoClient) SolPriceUSD(ctx context.Context) (float64, error) {
	if c == nil || c.client == nil {
		return 0, fmt.Errorf("coingecko client is nil")
	}

	endpoint := c.baseURL + "/api/v3/simple/price?ids=solana&vs_currencies=usd"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch sol price: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("fetch sol price failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out map[string]map[string]float64
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode price response: %w", err)
	}

	price := out["solana"]["usd"]
	if price <= 0 {
		return 0, fmt.Errorf("sol price missing in response: body=%s", string(body))
	}
	return price, nil
}
