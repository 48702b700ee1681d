// internal/domain/royalty/entity.go
package royalty

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// Entity: Creator (ロイヤリティ受取人 1 行)
// ------------------------------------------------------
//
// - Address : Solana ウォレットアドレス（台帳内で一意）
// - Share   : 将来の二次販売ロイヤリティに対する取り分（% / 小数可）
// - Charity : 寄付先（nonprofit）の場合のみ付与される表示用メタデータ
type Creator struct {
	Address string         `json:"address"`
	Share   float64        `json:"share"`
	Charity *CharityProps  `json:"charityProps,omitempty"`
}

// CharityProps は寄付先エントリの表示用メタデータです。
// ウォレットを自分で管理するコラボレータと区別するために使います。
type CharityProps struct {
	IsCharity   bool   `json:"isCharity"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"imageUrl"`
}

// PlatformRecipient はプラットフォーム運営側の固定受取人です。
// 台帳の構築時に一度だけ設定され、ユーザー操作では変更されません。
type PlatformRecipient struct {
	Address string  `json:"address"`
	Share   float64 `json:"share"`
}

// RoyaltyConfig は 1 アイテム分の確定済みロイヤリティ設定です。
// TotalBasisPoints: 10000 = 100%
// MaxSupply: nil = 無制限 / 0 = 1点もの / n = 限定 n 枚
type RoyaltyConfig struct {
	TotalBasisPoints uint16    `json:"sellerFeeBasisPoints"`
	Creators         []Creator `json:"creators"`
	MaxSupply        *uint64   `json:"maxSupply,omitempty"`
}

const (
	// MaxCreators は台帳が受け付ける受取人（プラットフォームを除く）の上限です。
	MaxCreators = 4

	// DefaultRoyaltyBasisPoints はロイヤリティ入力の初期値（10% = 1000bp）です。
	DefaultRoyaltyBasisPoints uint16 = 1000

	// MaxAddressLength は base58 の Solana アドレス長の上限です。
	MaxAddressLength = 44
)

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidAddress    = errors.New("royalty: invalid address")
	ErrDuplicateAddress  = errors.New("royalty: duplicate address")
	ErrMaxCreators       = errors.New("royalty: max creators exceeded")
	ErrNotFound          = errors.New("royalty: creator not found")
	ErrLastCreator       = errors.New("royalty: cannot remove the last creator")
	ErrInvalidShare      = errors.New("royalty: share out of range")
	ErrInvalidBasisPoints = errors.New("royalty: basis points out of range")
)

// ------------------------------------------------------
// Helpers
// ------------------------------------------------------

// normalizeAddress はアドレスの前後空白を落とし、形式を検査します。
// 内部に空白を含むアドレスは不正として扱います。
func normalizeAddress(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return "", ErrInvalidAddress
	}
	if strings.ContainsAny(addr, " \t\n") {
		return "", ErrInvalidAddress
	}
	if len(addr) > MaxAddressLength {
		return "", ErrInvalidAddress
	}
	return addr, nil
}

// NewRoyaltyConfig は確定済み設定のコンストラクタです。
// creators はコピーして保持します（台帳の後続変更と切り離すため）。
func NewRoyaltyConfig(basisPoints uint16, creators []Creator, maxSupply *uint64) (RoyaltyConfig, error) {
	if basisPoints > 10000 {
		return RoyaltyConfig{}, ErrInvalidBasisPoints
	}
	if len(creators) == 0 {
		return RoyaltyConfig{}, ErrNotFound
	}
	cp := make([]Creator, len(creators))
	copy(cp, creators)
	return RoyaltyConfig{
		TotalBasisPoints: basisPoints,
		Creators:         cp,
		MaxSupply:        maxSupply,
	}, nil
}
