// internal/adapters/out/httpout/change_client.go
package httpout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	charitydom "bulkminter/internal/domain/charity"
)

// ChangeClient は getchange.io の nonprofit 検索 API クライアントです。
// charity.Searcher を満たします。payout アドレスの有無による絞り込みは
// usecase 側で行い、ここは API のレスポンスをそのまま返します。
type ChangeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewChangeClient(baseURL, apiKey string) *ChangeClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.getchange.io"
	}
	return &ChangeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type changeNonprofit struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	EIN             string `json:"ein"`
	IconURL         string `json:"icon_url"`
	Website         string `json:"website"`
	SolanaAddress   string `json:"solana_address"`
	EthereumAddress string `json:"ethereum_address"`
}

type changeSearchResponse struct {
	Nonprofits []changeNonprofit `json:"nonprofits"`
}

func (c *ChangeClient) SearchNonprofits(ctx context.Context, term string) ([]charitydom.Nonprofit, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("change client is nil")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, charitydom.ErrEmptySearchTerm
	}

	endpoint := fmt.Sprintf("%s/api/v1/nonprofit_basics?search_term=%s",
		c.baseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search nonprofits: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search nonprofits failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	// レスポンスは {"nonprofits":[...]} と素の配列の両方がありうる
	var wrapped changeSearchResponse
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Nonprofits == nil {
		var bare []changeNonprofit
		if err2 := json.Unmarshal(body, &bare); err2 != nil {
			return nil, fmt.Errorf("decode search response: %w", err2)
		}
		wrapped.Nonprofits = bare
	}

	out := make([]charitydom.Nonprofit, 0, len(wrapped.Nonprofits))
	for _, n := range wrapped.Nonprofits {
		out = append(out, charitydom.Nonprofit{
			Name:            n.Name,
			Description:     n.Description,
			EIN:             n.EIN,
			IconURL:         n.IconURL,
			Website:         n.Website,
			SolanaAddress:   n.SolanaAddress,
			EthereumAddress: n.EthereumAddress,
		})
	}
	return out, nil
}
