// internal/application/minting/ports.go
package minting

import (
	"context"
	"errors"

	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// ============================================================
// MintSequencer から見た外部コラボレータのポート
// ============================================================

// ErrApprovalRejected はウォレットがユーザー操作で承認を拒否したことを表します。
// ミントコラボレータがこのエラー（を wrap したもの）を返したときだけ
// approval_failed へ遷移し、それ以外の失敗は sending_failed へ落とします。
var ErrApprovalRejected = errors.New("minting: wallet approval rejected")

var (
	ErrNotRetryable = errors.New("minting: active step is not retryable")
	ErrNotSkippable = errors.New("minting: active step is not skippable")
	ErrNoActiveItem = errors.New("minting: no active item")
)

// MetadataUploader はメタデータ JSON を永続ストレージへ置き、公開 URI を返します。
// リトライ制御はシーケンサ側の責務なので実装は 1 回だけ試行します。
type MetadataUploader interface {
	UploadMetadata(ctx context.Context, fileName string, doc []byte) (string, error)
}

// MintParams はミントコラボレータへの入力です。
type MintParams struct {
	OwnerWallet          string
	MetadataURI          string
	Name                 string
	Symbol               string
	SellerFeeBasisPoints uint16
	Creators             []royaltydom.Creator
	MaxSupply            *uint64
}

// WalletMinter はウォレット承認とトランザクション送信を 1 呼び出しで行います。
// 承認拒否は ErrApprovalRejected（wrap 可）で区別して返すこと。
type WalletMinter interface {
	MintNFT(ctx context.Context, p MintParams) (sessdom.MintReceipt, error)
}

// TxConfirmer は送信済みトランザクションの確定を待ちます。
type TxConfirmer interface {
	ConfirmTransaction(ctx context.Context, txID string) error
}

// MetadataCoSigner はプラットフォーム権限でメタデータへ共同署名し、
// creator の verified フラグを立てます。
type MetadataCoSigner interface {
	SignMetadata(ctx context.Context, metadataAddress string) error
}

// SessionRepository はセッションの永続化ポートです。
// シーケンサは状態遷移のたびに Save を呼びますが、保存失敗で
// ミント進行を止めることはしません（ログのみ）。
type SessionRepository interface {
	Get(ctx context.Context, id string) (*sessdom.MintSession, error)
	Save(ctx context.Context, s *sessdom.MintSession) error
}

// CompletionNotifier は全アイテム terminal 到達時のフック
// （サマリーメール送信・結果のアーカイブ保存）です。失敗はログのみ。
type CompletionNotifier interface {
	NotifyCompleted(ctx context.Context, s *sessdom.MintSession) error
}
