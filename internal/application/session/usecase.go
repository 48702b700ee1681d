// internal/application/session/usecase.go
package session

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"bulkminter/internal/application/minting"
	nftdom "bulkminter/internal/domain/nft"
	sessdom "bulkminter/internal/domain/session"
)

// ============================================================
// セッション CRUD
// ============================================================
//
// アップロード済みアセット一覧からのセッション作成と取得・保存の
// 薄いオーケストレーションです。ドメイン検証は entity 側に任せます。

type Usecase struct {
	sessions minting.SessionRepository
}

func NewUsecase(sessions minting.SessionRepository) *Usecase {
	return &Usecase{sessions: sessions}
}

// Create はアップロード済みアセットからセッションを作って永続化します。
func (u *Usecase) Create(ctx context.Context, ownerWallet string, assets []nftdom.AssetRef) (*sessdom.MintSession, error) {
	start := time.Now()

	s, err := sessdom.NewMintSession(uuid.NewString(), ownerWallet, assets, time.Now())
	if err != nil {
		log.Printf("[session_usecase] Create invalid owner=%q files=%d err=%v", ownerWallet, len(assets), err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, s); err != nil {
		log.Printf("[session_usecase] Create save error sessionId=%q err=%v", s.ID, err)
		return nil, err
	}

	log.Printf("[session_usecase] Create ok sessionId=%q files=%d elapsed=%s", s.ID, len(assets), time.Since(start))
	return s, nil
}

// Get はセッションを取得します。存在しなければ sessdom.ErrNotFound。
func (u *Usecase) Get(ctx context.Context, id string) (*sessdom.MintSession, error) {
	return u.sessions.Get(ctx, id)
}

// Save は編集後のセッションを保存します。
func (u *Usecase) Save(ctx context.Context, s *sessdom.MintSession) error {
	return u.sessions.Save(ctx, s)
}
