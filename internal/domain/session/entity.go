// internal/domain/session/entity.go
package session

import (
	"errors"
	"strings"
	"time"

	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
)

// ------------------------------------------------------
// Entity: MintSession (bulk mint 1 回分)
// ------------------------------------------------------
//
// アップロードされたファイル群・フォーム入力・ロイヤリティ台帳・
// 確定済みレコード列を 1 セッションとして束ねます。
// レコードは必ずインデックス順に処理され、non-terminal なアイテムは
// 常に 1 件だけです。
type MintSession struct {
	ID          string    `json:"id"`
	OwnerWallet string    `json:"ownerWallet"`
	CreatedAt   time.Time `json:"createdAt"`

	// アップロード済みアセット（アイテムと同じ並び）
	Assets []nftdom.AssetRef `json:"assets"`

	// 作業中アイテム（info / royalty ステップで埋まる）
	Items []nftdom.MintItem `json:"items"`

	// ロイヤリティ設定モード。最初の royalty ステップで一度だけ確定する。
	RoyaltyMode RoyaltyMode `json:"royaltyMode"`

	// 編集中の台帳（スコープキー: "all" または item index の文字列）。
	// Apply で RoyaltyConfig に確定するまでの下書きです。
	RoyaltyDrafts map[string][]royaltydom.Creator `json:"royaltyDrafts,omitempty"`

	// 確定済みレコード（Finalize 後に埋まる）
	Records []nftdom.MintRecord `json:"records"`

	// ミント進行状態
	Phase       Phase `json:"phase"`
	ActiveIndex int   `json:"activeIndex"`
	ActiveStep  Step  `json:"activeStep"`

	// アクティブアイテムの途中成果物。Retry が再利用します
	// （SendingFailed からの Retry は metadata URI を、
	//   SigningFailed からの Retry は receipt を使い回す）。
	// Advance でクリアされます。
	ActiveMetadataURI string       `json:"activeMetadataUri,omitempty"`
	ActiveReceipt     *MintReceipt `json:"activeReceipt,omitempty"`

	// terminal 確定したアイテムの receipt（index キー）。
	// サマリーメールとアーカイブが参照します。
	Receipts map[int]*MintReceipt `json:"receipts,omitempty"`
}

// MintReceipt はミントコラボレータの戻り値です。
type MintReceipt struct {
	TxID            string `json:"txId"`
	MintAddress     string `json:"mint"`
	MetadataAddress string `json:"metadata"`
	EditionAddress  string `json:"edition"`
}

// RoyaltyMode は「全アイテム共通」か「アイテムごとに個別」かの選択です。
// セッション中に一度だけ選ばれ、以後変更されません。
type RoyaltyMode string

const (
	RoyaltyModeUnset      RoyaltyMode = ""
	RoyaltyModeAll        RoyaltyMode = "all"
	RoyaltyModeIndividual RoyaltyMode = "individual"
)

// Phase はセッション全体のライフサイクルです。
type Phase string

const (
	PhaseDraft    Phase = "draft"    // フォーム入力中
	PhaseMinting  Phase = "minting"  // シーケンサ進行中
	PhaseComplete Phase = "complete" // 全アイテム terminal
)

// MaxFiles は 1 セッションあたりのアップロード上限です。
const MaxFiles = 10

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidOwner      = errors.New("session: invalid owner wallet")
	ErrNoFiles           = errors.New("session: no files")
	ErrTooManyFiles      = errors.New("session: too many files")
	ErrIndexOutOfRange   = errors.New("session: item index out of range")
	ErrModeAlreadyChosen = errors.New("session: royalty mode already chosen")
	ErrNotFound          = errors.New("session: not found")
	ErrWrongPhase        = errors.New("session: operation not allowed in this phase")
)

// ------------------------------------------------------
// Constructor
// ------------------------------------------------------

// NewMintSession はアップロード済みアセット一覧からセッションを作ります。
// 同名ファイルには " (n)" サフィックスを付けて区別します。
func NewMintSession(id, ownerWallet string, assets []nftdom.AssetRef, now time.Time) (*MintSession, error) {
	owner := strings.TrimSpace(ownerWallet)
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	if len(assets) == 0 {
		return nil, ErrNoFiles
	}
	if len(assets) > MaxFiles {
		return nil, ErrTooManyFiles
	}

	seen := map[string]int{}
	items := make([]nftdom.MintItem, 0, len(assets))
	normalized := make([]nftdom.AssetRef, 0, len(assets))
	for _, a := range assets {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, nftdom.ErrInvalidName
		}
		if n := seen[name]; n > 0 {
			a.Name = nftdom.DedupedFileName(name, n)
		}
		seen[name]++

		item, err := nftdom.NewMintItem(a.Name, now)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		normalized = append(normalized, a)
	}

	return &MintSession{
		ID:          strings.TrimSpace(id),
		OwnerWallet: owner,
		CreatedAt:   now.UTC(),
		Assets:      normalized,
		Items:       items,
		RoyaltyMode: RoyaltyModeUnset,
		Phase:       PhaseDraft,
		ActiveIndex: 0,
	}, nil
}

// ------------------------------------------------------
// Draft-phase operations
// ------------------------------------------------------

// ChooseRoyaltyMode はロイヤリティ設定モードを一度だけ確定します。
func (s *MintSession) ChooseRoyaltyMode(mode RoyaltyMode) error {
	if s.Phase != PhaseDraft {
		return ErrWrongPhase
	}
	if mode != RoyaltyModeAll && mode != RoyaltyModeIndividual {
		return ErrModeAlreadyChosen
	}
	if s.RoyaltyMode != RoyaltyModeUnset && s.RoyaltyMode != mode {
		return ErrModeAlreadyChosen
	}
	s.RoyaltyMode = mode
	return nil
}

// ItemAt は index の範囲検査付きでアイテムへのポインタを返します。
func (s *MintSession) ItemAt(index int) (*nftdom.MintItem, error) {
	if index < 0 || index >= len(s.Items) {
		return nil, ErrIndexOutOfRange
	}
	return &s.Items[index], nil
}

// ApplyRoyaltyToAll は確定済み設定を全アイテムにコピーします。
func (s *MintSession) ApplyRoyaltyToAll(cfg royaltydom.RoyaltyConfig) error {
	if s.Phase != PhaseDraft {
		return ErrWrongPhase
	}
	for i := range s.Items {
		c := cfg
		s.Items[i].Royalty = &c
	}
	return nil
}

// ApplyRoyaltyToOne は確定済み設定を 1 アイテムにだけ適用します。
func (s *MintSession) ApplyRoyaltyToOne(index int, cfg royaltydom.RoyaltyConfig) error {
	if s.Phase != PhaseDraft {
		return ErrWrongPhase
	}
	item, err := s.ItemAt(index)
	if err != nil {
		return err
	}
	c := cfg
	item.Royalty = &c
	return nil
}

// ------------------------------------------------------
// Minting-phase accessors
// ------------------------------------------------------

// BeginMinting は確定済みレコード列を受け取り minting フェーズへ遷移します。
func (s *MintSession) BeginMinting(records []nftdom.MintRecord) error {
	if s.Phase != PhaseDraft {
		return ErrWrongPhase
	}
	if len(records) != len(s.Items) {
		return ErrIndexOutOfRange
	}
	s.Records = records
	s.Phase = PhaseMinting
	s.ActiveIndex = 0
	s.ActiveStep = StepMetadataUploading
	return nil
}

// ActiveRecord は処理中レコードへのポインタを返します。
// 全件 terminal のときは nil を返します。
func (s *MintSession) ActiveRecord() *nftdom.MintRecord {
	if s.Phase != PhaseMinting {
		return nil
	}
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Records) {
		return nil
	}
	return &s.Records[s.ActiveIndex]
}

// Advance はアクティブアイテムを terminal 状態で確定し、次へ進めます。
// 最後のアイテムだった場合は complete フェーズへ遷移します。
func (s *MintSession) Advance(status nftdom.MintStatus) {
	if rec := s.ActiveRecord(); rec != nil {
		rec.Status = status
	}
	if s.ActiveReceipt != nil {
		if s.Receipts == nil {
			s.Receipts = map[int]*MintReceipt{}
		}
		s.Receipts[s.ActiveIndex] = s.ActiveReceipt
	}
	s.ActiveIndex++
	s.ActiveStep = StepMetadataUploading
	s.ActiveMetadataURI = ""
	s.ActiveReceipt = nil
	if s.ActiveIndex >= len(s.Records) {
		s.Phase = PhaseComplete
	}
}

// Summary は off-ramp 画面向けの成否集計を返します。
func (s *MintSession) Summary() (succeeded, failed int) {
	for i := range s.Records {
		switch s.Records[i].Status {
		case nftdom.StatusSuccess:
			succeeded++
		case nftdom.StatusFailed:
			failed++
		}
	}
	return succeeded, failed
}
