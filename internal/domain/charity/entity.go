// internal/domain/charity/entity.go
package charity

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// Entity: Nonprofit (寄付先検索 API の 1 件)
// ------------------------------------------------------
type Nonprofit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	EIN         string `json:"ein"`
	IconURL     string `json:"icon_url"`
	Website     string `json:"website"`

	// crypto payout アドレス。Solana 側が空の団体は
	// ロイヤリティ受取人にできないため検索結果から除外します。
	SolanaAddress   string `json:"solana_address"`
	EthereumAddress string `json:"ethereum_address"`
}

var ErrEmptySearchTerm = errors.New("charity: empty search term")

// HasCryptoPayout は Solana の payout アドレスを持つかどうかを返します。
func (n Nonprofit) HasCryptoPayout() bool {
	return strings.TrimSpace(n.SolanaAddress) != ""
}

// FilterPayable は payout アドレスを持つ団体だけを残します。
func FilterPayable(in []Nonprofit) []Nonprofit {
	out := make([]Nonprofit, 0, len(in))
	for _, n := range in {
		if n.HasCryptoPayout() {
			out = append(out, n)
		}
	}
	return out
}
