// internal/domain/nft/entity.go
package nft

import (
	"errors"
	"strings"
	"time"

	royaltydom "bulkminter/internal/domain/royalty"
)

// ------------------------------------------------------
// Entity: MintItem (アップロード 1 ファイル分の作業中データ)
// ------------------------------------------------------
//
// ファイルのアップロードで生成され、info / royalty の各ステップで
// 埋められていき、ミント開始前に MintRecord へ確定されます。
// 確定後は二度と変更されません（ステータス以外）。
type MintItem struct {
	FileName      string                  `json:"fileName"`
	CoverImage    *AssetRef               `json:"coverImage,omitempty"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Collection    Collection              `json:"collection"`
	Attributes    []Attribute             `json:"attributes"`
	Royalty       *royaltydom.RoyaltyConfig `json:"royalty,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// Collection はコレクション名とファミリー名の組です。
type Collection struct {
	Name   string `json:"name"`
	Family string `json:"family"`
}

// Attribute はメタデータ上の trait 1 件です。
// trait_type が無いものは確定時に落とされます。
// trait_type があるのに value が空のものは入力段階で弾きます。
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// AssetRef はアップロード済みアセットへの参照です
// （アップロードエンドポイントのレスポンス 1 件に対応）。
type AssetRef struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ------------------------------------------------------
// MintStatus
// ------------------------------------------------------

type MintStatus string

const (
	StatusPending MintStatus = "pending"
	StatusSuccess MintStatus = "success"
	StatusFailed  MintStatus = "failed"
)

// ------------------------------------------------------
// Entity: MintRecord (確定済み・送信可能なメタデータ一式)
// ------------------------------------------------------
//
// MintItem の確定結果。Status 以外は不変として扱います。
// Creators にはまだプラットフォーム受取人を含みません
// （メタデータ文書化の直前に末尾へ追加される）。
type MintRecord struct {
	Name                 string              `json:"name"`
	Symbol               string              `json:"symbol"`
	Description          string              `json:"description"`
	SellerFeeBasisPoints uint16              `json:"seller_fee_basis_points"`
	Image                string              `json:"image"`
	AnimationURL         string              `json:"animation_url,omitempty"`
	Collection           Collection          `json:"collection"`
	Attributes           []Attribute         `json:"attributes"`
	Files                []AssetRef          `json:"files"`
	Category             Category            `json:"category"`
	Creators             []royaltydom.Creator `json:"creators"`
	MaxSupply            *uint64             `json:"maxSupply,omitempty"`
	Status               MintStatus          `json:"status"`
}

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidName      = errors.New("nft: invalid name")
	ErrMissingUpload    = errors.New("nft: missing upload reference")
	ErrMissingCover     = errors.New("nft: cover image required for non-image media")
	ErrInvalidAttribute = errors.New("nft: attribute has trait_type but empty value")
	ErrMissingRoyalty   = errors.New("nft: royalty config not applied")
)

// ------------------------------------------------------
// Constructors / validation
// ------------------------------------------------------

// NewMintItem はアップロード直後の空アイテムを作ります。
func NewMintItem(fileName string, now time.Time) (MintItem, error) {
	fn := strings.TrimSpace(fileName)
	if fn == "" {
		return MintItem{}, ErrInvalidName
	}
	return MintItem{
		FileName:  fn,
		CreatedAt: now.UTC(),
	}, nil
}

// ValidateAttributes は入力段階の検査です。
// trait_type があるのに value が空の attribute は確定前に失敗させます。
// （trait_type が無いものは確定時に黙って落とすので、ここでは許容。）
func ValidateAttributes(attrs []Attribute) error {
	for i := range attrs {
		if strings.TrimSpace(attrs[i].TraitType) == "" {
			continue
		}
		if strings.TrimSpace(attrs[i].Value) == "" {
			return ErrInvalidAttribute
		}
	}
	return nil
}

// FilterAttributes は trait_type の無い attribute を落とします（確定時）。
func FilterAttributes(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for i := range attrs {
		if strings.TrimSpace(attrs[i].TraitType) == "" {
			continue
		}
		out = append(out, attrs[i])
	}
	return out
}
