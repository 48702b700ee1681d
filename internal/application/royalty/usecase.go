// internal/application/royalty/usecase.go
package royalty

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	charitydom "bulkminter/internal/domain/charity"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// ============================================================
// ShareLedger 編集
// ============================================================
//
// セッションに紐づく台帳下書きへの操作（追加・削除・取り分編集）と、
// 検証済み下書きの RoyaltyConfig への確定を担当します。
// スコープは "all"（全アイテム共通）か item index の文字列です。

// ScopeAll は全アイテム共通の台帳スコープです。
const ScopeAll = "all"

var ErrInvalidScope = errors.New("royalty: invalid scope")

// ApplyInput は確定時の入力です。
type ApplyInput struct {
	// 10000 = 100%。未指定(0)なら DefaultRoyaltyBasisPoints。
	BasisPoints uint16
	// nil = 無制限 / 0 = 1点もの / n = 限定 n 枚
	MaxSupply *uint64
}

type Usecase struct {
	platform royaltydom.PlatformRecipient
	enforced bool
}

func NewUsecase(platform royaltydom.PlatformRecipient, enforced bool) *Usecase {
	return &Usecase{platform: platform, enforced: enforced}
}

// Platform は台帳に表示するプラットフォーム受取人を返します。
func (u *Usecase) Platform() (royaltydom.PlatformRecipient, bool) {
	return u.platform, u.enforced
}

// normalizeScope は "all" か 0..len(items)-1 の index だけを受け付けます。
func normalizeScope(s *sessdom.MintSession, scope string) (string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" || scope == ScopeAll {
		return ScopeAll, nil
	}
	i, err := strconv.Atoi(scope)
	if err != nil || i < 0 || i >= len(s.Items) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return scope, nil
}

// ledgerFor は下書きから台帳を復元します。下書きが無ければ
// 所有者 1 人の初期台帳を作ります。
func (u *Usecase) ledgerFor(s *sessdom.MintSession, scope string) (*royaltydom.Ledger, error) {
	if draft := s.RoyaltyDrafts[scope]; len(draft) > 0 {
		return royaltydom.RestoreLedger(draft, u.platform, u.enforced)
	}
	return royaltydom.NewLedger(s.OwnerWallet, u.platform, u.enforced)
}

func (u *Usecase) storeDraft(s *sessdom.MintSession, scope string, l *royaltydom.Ledger) {
	if s.RoyaltyDrafts == nil {
		s.RoyaltyDrafts = map[string][]royaltydom.Creator{}
	}
	s.RoyaltyDrafts[scope] = l.Creators()
}

// mutate は「復元 → 操作 → 保存」の定型です。
func (u *Usecase) mutate(
	s *sessdom.MintSession,
	scope string,
	op func(l *royaltydom.Ledger) error,
) ([]royaltydom.Creator, error) {
	if s == nil {
		return nil, sessdom.ErrNotFound
	}
	sc, err := normalizeScope(s, scope)
	if err != nil {
		return nil, err
	}

	l, err := u.ledgerFor(s, sc)
	if err != nil {
		return nil, err
	}
	if err := op(l); err != nil {
		return nil, err
	}

	u.storeDraft(s, sc, l)
	return l.Creators(), nil
}

// AddCreator はコラボレータを追加し、取り分を均等に再配分します。
func (u *Usecase) AddCreator(s *sessdom.MintSession, scope, address string) ([]royaltydom.Creator, error) {
	return u.mutate(s, scope, func(l *royaltydom.Ledger) error {
		return l.AddCreator(address)
	})
}

// AddDonation は寄付先を追加します。Solana payout アドレスを持たない
// 団体は追加できません。
func (u *Usecase) AddDonation(s *sessdom.MintSession, scope string, n charitydom.Nonprofit) ([]royaltydom.Creator, error) {
	if !n.HasCryptoPayout() {
		return nil, royaltydom.ErrInvalidAddress
	}
	return u.mutate(s, scope, func(l *royaltydom.Ledger) error {
		return l.AddDonation(n.SolanaAddress, n.Name, n.IconURL)
	})
}

// RemoveCreator は受取人を外します。最後の 1 人は外せません。
func (u *Usecase) RemoveCreator(s *sessdom.MintSession, scope, address string) ([]royaltydom.Creator, error) {
	return u.mutate(s, scope, func(l *royaltydom.Ledger) error {
		return l.RemoveCreator(address)
	})
}

// UpdateShare は 1 人の取り分を直接設定します（再配分しない）。
func (u *Usecase) UpdateShare(s *sessdom.MintSession, scope, address string, share float64) ([]royaltydom.Creator, error) {
	return u.mutate(s, scope, func(l *royaltydom.Ledger) error {
		return l.UpdateShare(address, share)
	})
}

// Validate は下書きの現在の検証結果を返します。
func (u *Usecase) Validate(s *sessdom.MintSession, scope string) (royaltydom.Validation, error) {
	sc, err := normalizeScope(s, scope)
	if err != nil {
		return royaltydom.Validation{}, err
	}
	l, err := u.ledgerFor(s, sc)
	if err != nil {
		return royaltydom.Validation{}, err
	}
	return l.Validate(), nil
}

// Apply は検証済みの下書きを確定し、アイテムに適用します。
// scope=all なら全アイテム共通モード、index なら個別モードとして
// セッションのモードを確定します（一度決めたモードは変更不可）。
func (u *Usecase) Apply(s *sessdom.MintSession, scope string, in ApplyInput) error {
	if s == nil {
		return sessdom.ErrNotFound
	}
	sc, err := normalizeScope(s, scope)
	if err != nil {
		return err
	}

	l, err := u.ledgerFor(s, sc)
	if err != nil {
		return err
	}
	if v := l.Validate(); !v.Valid {
		return fmt.Errorf("%w: total=%v", royaltydom.ErrInvalidShare, v.Total)
	}

	bp := in.BasisPoints
	if bp == 0 {
		bp = royaltydom.DefaultRoyaltyBasisPoints
	}

	cfg, err := l.Snapshot(bp, in.MaxSupply)
	if err != nil {
		return err
	}

	if sc == ScopeAll {
		if err := s.ChooseRoyaltyMode(sessdom.RoyaltyModeAll); err != nil {
			return err
		}
		return s.ApplyRoyaltyToAll(cfg)
	}

	if err := s.ChooseRoyaltyMode(sessdom.RoyaltyModeIndividual); err != nil {
		return err
	}
	index, _ := strconv.Atoi(sc)
	return s.ApplyRoyaltyToOne(index, cfg)
}
