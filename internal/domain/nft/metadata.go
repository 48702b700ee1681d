// internal/domain/nft/metadata.go
package nft

import (
	"encoding/json"

	royaltydom "bulkminter/internal/domain/royalty"
)

// metadataDocument はストレージへ上げる metadata.json の形です。
// Metaplex のオフチェーン標準に合わせています。
type metadataDocument struct {
	Name                 string             `json:"name"`
	Symbol               string             `json:"symbol"`
	Description          string             `json:"description"`
	SellerFeeBasisPoints uint16             `json:"seller_fee_basis_points"`
	Image                string             `json:"image"`
	AnimationURL         string             `json:"animation_url,omitempty"`
	Collection           *Collection        `json:"collection,omitempty"`
	Attributes           []Attribute        `json:"attributes"`
	Properties           metadataProperties `json:"properties"`
}

type metadataProperties struct {
	Files     []AssetRef            `json:"files"`
	Category  Category              `json:"category"`
	Creators  []royaltydom.Creator  `json:"creators"`
	MaxSupply *uint64               `json:"maxSupply,omitempty"`
}

// MetadataJSON は MintRecord をメタデータ文書にシリアライズします。
// プラットフォーム受取人はここで creators の末尾に追加されます。
// ロイヤリティ設定が変わると文書は無効とみなすため、この関数は
// ミント試行の直前に毎回呼ばれ、結果はキャッシュされません。
func (r MintRecord) MetadataJSON(platform royaltydom.PlatformRecipient, enforced bool) ([]byte, error) {
	creators := make([]royaltydom.Creator, 0, len(r.Creators)+1)
	creators = append(creators, r.Creators...)
	if enforced {
		creators = append(creators, royaltydom.Creator{
			Address: platform.Address,
			Share:   platform.Share,
		})
	}

	doc := metadataDocument{
		Name:                 r.Name,
		Symbol:               r.Symbol,
		Description:          r.Description,
		SellerFeeBasisPoints: r.SellerFeeBasisPoints,
		Image:                r.Image,
		AnimationURL:         r.AnimationURL,
		Attributes:           r.Attributes,
		Properties: metadataProperties{
			Files:     r.Files,
			Category:  r.Category,
			Creators:  creators,
			MaxSupply: r.MaxSupply,
		},
	}
	if r.Collection.Name != "" || r.Collection.Family != "" {
		c := r.Collection
		doc.Collection = &c
	}
	if doc.Attributes == nil {
		doc.Attributes = []Attribute{}
	}

	return json.Marshal(doc)
}
