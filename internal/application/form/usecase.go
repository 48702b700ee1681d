// internal/application/form/usecase.go
package form

import (
	"strings"

	nftdom "bulkminter/internal/domain/nft"
	sessdom "bulkminter/internal/domain/session"
)

// ============================================================
// FormAggregator
// ============================================================
//
// アイテムごとのフォーム入力を index で受け取ってセッションへ畳み込み、
// ShareLedger の出力（RoyaltyConfig）と合わせて送信可能な MintRecord に
// 確定します。確定後のレコードは status 以外不変です。

// ItemInput は info ステップのフォーム値です。
// 空文字のフィールドは「変更なし」として扱います（pure merge）。
type ItemInput struct {
	Name             string
	Description      string
	CollectionName   string
	CollectionFamily string
	Attributes       []nftdom.Attribute
	CoverImage       *nftdom.AssetRef
}

type Usecase struct{}

func NewUsecase() *Usecase {
	return &Usecase{}
}

// SetItemMetadata はフォーム値をアイテムへマージします。
// attribute の入力検査（trait_type あり value 空 → エラー）はここで行います。
// Finalize まで到達させないのが責務です。
func (u *Usecase) SetItemMetadata(s *sessdom.MintSession, index int, in ItemInput) error {
	item, err := s.ItemAt(index)
	if err != nil {
		return err
	}

	if in.Attributes != nil {
		if err := nftdom.ValidateAttributes(in.Attributes); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		item.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		item.Description = v
	}
	if v := strings.TrimSpace(in.CollectionName); v != "" {
		item.Collection.Name = v
	}
	if v := strings.TrimSpace(in.CollectionFamily); v != "" {
		item.Collection.Family = v
	}
	if in.Attributes != nil {
		item.Attributes = in.Attributes
	}
	if in.CoverImage != nil {
		cover := *in.CoverImage
		item.CoverImage = &cover
	}

	return nil
}

// Finalize は 1 アイテムを MintRecord に確定します。
//
// 前提条件（満たさなければエラー、黙ってデフォルトにはしない）:
//   - index に対応するアップロード済みアセットが存在する
//   - RoyaltyConfig が適用済み
//   - image 以外のメディア区分ではカバー画像参照がある
func (u *Usecase) Finalize(s *sessdom.MintSession, index int) (nftdom.MintRecord, error) {
	item, err := s.ItemAt(index)
	if err != nil {
		return nftdom.MintRecord{}, err
	}
	if index >= len(s.Assets) {
		return nftdom.MintRecord{}, nftdom.ErrMissingUpload
	}
	asset := s.Assets[index]
	if strings.TrimSpace(asset.URI) == "" {
		return nftdom.MintRecord{}, nftdom.ErrMissingUpload
	}

	if strings.TrimSpace(item.Name) == "" {
		return nftdom.MintRecord{}, nftdom.ErrInvalidName
	}
	if item.Royalty == nil {
		return nftdom.MintRecord{}, nftdom.ErrMissingRoyalty
	}

	category := nftdom.DetectCategory(item.FileName)
	if category.RequiresCoverImage() && item.CoverImage == nil {
		return nftdom.MintRecord{}, nftdom.ErrMissingCover
	}

	files := []nftdom.AssetRef{{URI: asset.URI, Type: asset.Type}}
	image := asset.URI
	animationURL := ""

	if item.CoverImage != nil {
		files = append(files, nftdom.AssetRef{URI: item.CoverImage.URI, Type: item.CoverImage.Type})
		image = item.CoverImage.URI
	}
	if category != nftdom.CategoryImage {
		animationURL = asset.URI
	}

	rec := nftdom.MintRecord{
		Name:                 item.Name,
		Symbol:               "",
		Description:          item.Description,
		SellerFeeBasisPoints: item.Royalty.TotalBasisPoints,
		Image:                image,
		AnimationURL:         animationURL,
		Collection:           item.Collection,
		Attributes:           nftdom.FilterAttributes(item.Attributes),
		Files:                files,
		Category:             category,
		Creators:             item.Royalty.Creators,
		MaxSupply:            item.Royalty.MaxSupply,
		Status:               nftdom.StatusPending,
	}
	return rec, nil
}

// FinalizeAll は全アイテムを順に確定します。
// 1 件でも前提条件を満たさなければ全体を失敗させます。
func (u *Usecase) FinalizeAll(s *sessdom.MintSession) ([]nftdom.MintRecord, error) {
	records := make([]nftdom.MintRecord, 0, len(s.Items))
	for i := range s.Items {
		rec, err := u.Finalize(s, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
