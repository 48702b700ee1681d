// internal/application/minting/sequencer.go
package minting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// ============================================================
// MintSequencer
// ============================================================
//
// 確定済みレコード列をインデックス順に 1 件ずつ処理するステートマシンです。
//
//	metadata_uploading → approving → sending → finalizing → signing → success
//
// 失敗すると対応する failed ステップで停止し、ユーザーの Retry / Skip を
// 待ちます。再入時に status=success のアイテムは一切の外部呼び出しなしで
// 読み飛ばします。

type Deps struct {
	Uploader  MetadataUploader
	Minter    WalletMinter
	Confirmer TxConfirmer
	CoSigner  MetadataCoSigner
	Sessions  SessionRepository
	Notifier  CompletionNotifier

	// metadata JSON とオンチェーン creator 配列の末尾に付与する
	// プラットフォーム受取人。Enforced=false のときは付与しません。
	Platform royaltydom.PlatformRecipient
	Enforced bool
}

type Sequencer struct {
	deps Deps
}

func NewSequencer(deps Deps) *Sequencer {
	return &Sequencer{deps: deps}
}

// ------------------------------------------------------
// 起動・進行
// ------------------------------------------------------

// Start はセッションを minting フェーズへ遷移させてから先頭アイテムの
// 処理を開始します。
func (q *Sequencer) Start(ctx context.Context, s *sessdom.MintSession, records []nftdom.MintRecord) error {
	if q == nil || s == nil {
		return errors.New("mint sequencer is nil")
	}
	if err := s.BeginMinting(records); err != nil {
		return err
	}
	log.Printf("[mint_sequencer] Start sessionId=%q items=%d", s.ID, len(records))
	return q.Run(ctx, s)
}

// Run は失敗ステップで停止するか全アイテムが terminal になるまで
// アイテムを順に処理します。失敗停止は呼び出し元へのエラーではなく、
// セッションの ActiveStep として観測されます。
func (q *Sequencer) Run(ctx context.Context, s *sessdom.MintSession) error {
	if q == nil || s == nil {
		return errors.New("mint sequencer is nil")
	}
	if s.Phase != sessdom.PhaseMinting {
		return sessdom.ErrWrongPhase
	}

	for s.Phase == sessdom.PhaseMinting {
		rec := s.ActiveRecord()
		if rec == nil {
			return ErrNoActiveItem
		}

		// 再入ガード: 既に成功済みのアイテムは外部呼び出しゼロで通過する。
		if rec.Status == nftdom.StatusSuccess {
			log.Printf("[mint_sequencer] Run skip reason=already_succeeded sessionId=%q index=%d name=%q",
				s.ID, s.ActiveIndex, rec.Name)
			s.Advance(nftdom.StatusSuccess)
			q.persist(ctx, s)
			continue
		}

		parked, err := q.processActive(ctx, s)
		if err != nil {
			return err
		}
		if parked {
			// failed ステップで停止。Retry / Skip 待ち。
			return nil
		}
	}

	q.completed(ctx, s)
	return nil
}

// Retry は failed ステップから巻き戻して再開します。
//
//   - signing_failed     → signing（オンチェーンミントは再実行しない）
//   - approval_failed    → approving（保存済み metadata URI を使い回す）
//   - sending_failed     → approving（同上）
//   - metadata_upload_failed → metadata_uploading（JSON を組み直す）
func (q *Sequencer) Retry(ctx context.Context, s *sessdom.MintSession) error {
	if q == nil || s == nil {
		return errors.New("mint sequencer is nil")
	}
	if s.Phase != sessdom.PhaseMinting {
		return sessdom.ErrWrongPhase
	}
	target, ok := s.ActiveStep.RetryTarget()
	if !ok {
		return fmt.Errorf("%w: step=%s", ErrNotRetryable, s.ActiveStep)
	}
	// approving へ戻るには metadata URI が、signing へ戻るには receipt が
	// 残っている必要がある。欠けていたら先頭からやり直す。
	if target == sessdom.StepApproving && strings.TrimSpace(s.ActiveMetadataURI) == "" {
		target = sessdom.StepMetadataUploading
	}
	if target == sessdom.StepSigning && s.ActiveReceipt == nil {
		target = sessdom.StepMetadataUploading
	}

	log.Printf("[mint_sequencer] Retry sessionId=%q index=%d from=%s to=%s",
		s.ID, s.ActiveIndex, s.ActiveStep, target)
	s.ActiveStep = target
	q.persist(ctx, s)
	return q.Run(ctx, s)
}

// Skip はアクティブアイテムを failed で確定して次へ進みます。
// signing_failed はオンチェーンミントが既に成立しているため拒否します。
func (q *Sequencer) Skip(ctx context.Context, s *sessdom.MintSession) error {
	if q == nil || s == nil {
		return errors.New("mint sequencer is nil")
	}
	if s.Phase != sessdom.PhaseMinting {
		return sessdom.ErrWrongPhase
	}
	if !s.ActiveStep.Skippable() {
		return fmt.Errorf("%w: step=%s", ErrNotSkippable, s.ActiveStep)
	}

	log.Printf("[mint_sequencer] Skip sessionId=%q index=%d step=%s", s.ID, s.ActiveIndex, s.ActiveStep)
	s.Advance(nftdom.StatusFailed)
	q.persist(ctx, s)

	if s.Phase == sessdom.PhaseComplete {
		q.completed(ctx, s)
		return nil
	}
	return q.Run(ctx, s)
}

// ------------------------------------------------------
// 1 アイテムのステップ駆動
// ------------------------------------------------------

// processActive はアクティブアイテムを現在の ActiveStep から success か
// failed ステップまで進めます。parked=true は failed 停止を意味します。
func (q *Sequencer) processActive(ctx context.Context, s *sessdom.MintSession) (parked bool, err error) {
	rec := s.ActiveRecord()
	if rec == nil {
		return false, ErrNoActiveItem
	}

	for {
		switch s.ActiveStep {
		case sessdom.StepMetadataUploading:
			if q.deps.Uploader == nil {
				return false, errors.New("metadata uploader is nil")
			}
			// metadata JSON は毎回組み直す（キャッシュしない）。
			doc, derr := rec.MetadataJSON(q.deps.Platform, q.deps.Enforced)
			if derr != nil {
				return false, derr
			}

			upStart := time.Now()
			uri, uerr := q.deps.Uploader.UploadMetadata(ctx, rec.Name, doc)
			if uerr != nil {
				log.Printf("[mint_sequencer] metadata upload error sessionId=%q index=%d err=%v elapsed=%s",
					s.ID, s.ActiveIndex, uerr, time.Since(upStart))
				s.ActiveStep = sessdom.StepMetadataUploadFailed
				q.persist(ctx, s)
				return true, nil
			}
			uri = strings.TrimSpace(uri)
			if uri == "" {
				log.Printf("[mint_sequencer] metadata upload empty_uri sessionId=%q index=%d elapsed=%s",
					s.ID, s.ActiveIndex, time.Since(upStart))
				s.ActiveStep = sessdom.StepMetadataUploadFailed
				q.persist(ctx, s)
				return true, nil
			}
			log.Printf("[mint_sequencer] metadata upload ok sessionId=%q index=%d uri=%q elapsed=%s",
				s.ID, s.ActiveIndex, uri, time.Since(upStart))
			s.ActiveMetadataURI = uri
			s.ActiveStep = sessdom.StepApproving
			q.persist(ctx, s)

		case sessdom.StepApproving:
			if q.deps.Minter == nil {
				return false, errors.New("wallet minter is nil")
			}
			params := MintParams{
				OwnerWallet:          s.OwnerWallet,
				MetadataURI:          s.ActiveMetadataURI,
				Name:                 rec.Name,
				Symbol:               rec.Symbol,
				SellerFeeBasisPoints: rec.SellerFeeBasisPoints,
				Creators:             q.onchainCreators(rec),
				MaxSupply:            rec.MaxSupply,
			}

			mintStart := time.Now()
			receipt, merr := q.deps.Minter.MintNFT(ctx, params)
			if merr != nil {
				if errors.Is(merr, ErrApprovalRejected) {
					log.Printf("[mint_sequencer] mint rejected_by_user sessionId=%q index=%d elapsed=%s",
						s.ID, s.ActiveIndex, time.Since(mintStart))
					s.ActiveStep = sessdom.StepApprovalFailed
				} else {
					log.Printf("[mint_sequencer] mint error sessionId=%q index=%d err=%v elapsed=%s",
						s.ID, s.ActiveIndex, merr, time.Since(mintStart))
					s.ActiveStep = sessdom.StepSendingFailed
				}
				q.persist(ctx, s)
				return true, nil
			}
			log.Printf("[mint_sequencer] mint ok sessionId=%q index=%d txId=%q mint=%q elapsed=%s",
				s.ID, s.ActiveIndex, receipt.TxID, receipt.MintAddress, time.Since(mintStart))
			r := receipt
			s.ActiveReceipt = &r
			s.ActiveStep = sessdom.StepSending
			q.persist(ctx, s)

		case sessdom.StepSending:
			// 送信はミントコラボレータ内で完了済み。確定待ちへ。
			s.ActiveStep = sessdom.StepFinalizing
			q.persist(ctx, s)

		case sessdom.StepFinalizing:
			if q.deps.Confirmer == nil {
				return false, errors.New("tx confirmer is nil")
			}
			if s.ActiveReceipt == nil {
				return false, errors.New("active receipt is nil at finalizing")
			}
			confStart := time.Now()
			if cerr := q.deps.Confirmer.ConfirmTransaction(ctx, s.ActiveReceipt.TxID); cerr != nil {
				log.Printf("[mint_sequencer] confirm error sessionId=%q index=%d txId=%q err=%v elapsed=%s",
					s.ID, s.ActiveIndex, s.ActiveReceipt.TxID, cerr, time.Since(confStart))
				s.ActiveStep = sessdom.StepSendingFailed
				q.persist(ctx, s)
				return true, nil
			}
			log.Printf("[mint_sequencer] confirm ok sessionId=%q index=%d txId=%q elapsed=%s",
				s.ID, s.ActiveIndex, s.ActiveReceipt.TxID, time.Since(confStart))
			s.ActiveStep = sessdom.StepSigning
			q.persist(ctx, s)

		case sessdom.StepSigning:
			if q.deps.CoSigner == nil {
				return false, errors.New("metadata co-signer is nil")
			}
			if s.ActiveReceipt == nil {
				return false, errors.New("active receipt is nil at signing")
			}
			signStart := time.Now()
			if serr := q.deps.CoSigner.SignMetadata(ctx, s.ActiveReceipt.MetadataAddress); serr != nil {
				log.Printf("[mint_sequencer] sign error sessionId=%q index=%d metadata=%q err=%v elapsed=%s",
					s.ID, s.ActiveIndex, s.ActiveReceipt.MetadataAddress, serr, time.Since(signStart))
				s.ActiveStep = sessdom.StepSigningFailed
				q.persist(ctx, s)
				return true, nil
			}
			log.Printf("[mint_sequencer] sign ok sessionId=%q index=%d metadata=%q elapsed=%s",
				s.ID, s.ActiveIndex, s.ActiveReceipt.MetadataAddress, time.Since(signStart))
			s.ActiveStep = sessdom.StepSuccess
			s.Advance(nftdom.StatusSuccess)
			q.persist(ctx, s)
			return false, nil

		default:
			return false, fmt.Errorf("unexpected active step %q", s.ActiveStep)
		}
	}
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

// onchainCreators はレコードの creator 配列の末尾にプラットフォーム
// 受取人を付与して返します（Enforced=false なら付与しない）。
func (q *Sequencer) onchainCreators(rec *nftdom.MintRecord) []royaltydom.Creator {
	out := make([]royaltydom.Creator, 0, len(rec.Creators)+1)
	out = append(out, rec.Creators...)
	if q.deps.Enforced {
		out = append(out, royaltydom.Creator{
			Address: q.deps.Platform.Address,
			Share:   q.deps.Platform.Share,
		})
	}
	return out
}

// persist は進行状態の保存を試みます。保存失敗でミントは止めません。
func (q *Sequencer) persist(ctx context.Context, s *sessdom.MintSession) {
	if q.deps.Sessions == nil {
		return
	}
	if err := q.deps.Sessions.Save(ctx, s); err != nil {
		log.Printf("[mint_sequencer] session save error sessionId=%q index=%d step=%s err=%v",
			s.ID, s.ActiveIndex, s.ActiveStep, err)
	}
}

// completed は完了フック（サマリーメール・アーカイブ）を起動します。
func (q *Sequencer) completed(ctx context.Context, s *sessdom.MintSession) {
	ok, failed := s.Summary()
	log.Printf("[mint_sequencer] complete sessionId=%q succeeded=%d failed=%d", s.ID, ok, failed)
	if q.deps.Notifier == nil {
		return
	}
	if err := q.deps.Notifier.NotifyCompleted(ctx, s); err != nil {
		log.Printf("[mint_sequencer] completion notify error sessionId=%q err=%v", s.ID, err)
	}
}
