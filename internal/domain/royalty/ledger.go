// internal/domain/royalty/ledger.go
package royalty

import "math"

// ------------------------------------------------------
// ShareLedger: 受取人と取り分の台帳
// ------------------------------------------------------
//
// クリエイター（＋任意の寄付先）と、強制参加のプラットフォーム受取人を
// 1 つの台帳として管理します。追加・削除のたびに全員の取り分を
// 均等割りに再配分する方針です（個別の手動編集は Validate が検出する
// までドリフトを許容する）。
type Ledger struct {
	platform PlatformRecipient
	enforced bool
	creators []Creator
}

// Validation は Validate の結果です。
type Validation struct {
	Valid bool
	Total float64
}

// shareEpsilon は均等割り後の浮動小数誤差の許容幅です。
// 98/3 を 3 人分合計すると IEEE754 では 98 に戻らないため、
// 完全一致ではなく誤差比較で判定します。
const shareEpsilon = 1e-9

// NewLedger は所有者 1 人を初期クリエイターとして台帳を作ります。
// enforced の場合、所有者の初期取り分は 100 − プラットフォーム分です。
func NewLedger(ownerAddress string, platform PlatformRecipient, enforced bool) (*Ledger, error) {
	addr, err := normalizeAddress(ownerAddress)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		platform: platform,
		enforced: enforced,
	}
	l.creators = []Creator{{Address: addr, Share: l.TargetTotal()}}
	return l, nil
}

// RestoreLedger は保存済みの creator 配列から台帳を復元します。
// 取り分はそのまま引き継ぎます（再配分しない）。
func RestoreLedger(creators []Creator, platform PlatformRecipient, enforced bool) (*Ledger, error) {
	if len(creators) == 0 {
		return nil, ErrNotFound
	}
	cp := make([]Creator, len(creators))
	copy(cp, creators)
	return &Ledger{
		platform: platform,
		enforced: enforced,
		creators: cp,
	}, nil
}

// TargetTotal はクリエイター取り分の合計がそろうべき値を返します。
// enforced: 100 − platform.Share（例: 98）/ それ以外: 100
func (l *Ledger) TargetTotal() float64 {
	if l.enforced {
		return 100 - l.platform.Share
	}
	return 100
}

// Platform はプラットフォーム受取人を返します（enforced でない場合 ok=false）。
func (l *Ledger) Platform() (PlatformRecipient, bool) {
	return l.platform, l.enforced
}

// Creators は現在のクリエイター一覧のコピーを返します。
func (l *Ledger) Creators() []Creator {
	out := make([]Creator, len(l.creators))
	copy(out, l.creators)
	return out
}

func (l *Ledger) indexOf(address string) int {
	for i := range l.creators {
		if l.creators[i].Address == address {
			return i
		}
	}
	return -1
}

// redistribute は全クリエイターの取り分を均等割りで上書きします。
// 以前の個別配分は破棄します（意図した単純化であり最適化ではない）。
func (l *Ledger) redistribute() {
	n := len(l.creators)
	if n == 0 {
		return
	}
	split := l.TargetTotal() / float64(n)
	for i := range l.creators {
		l.creators[i].Share = split
	}
}

// AddCreator はクリエイターを追加し、全員の取り分を均等に再配分します。
func (l *Ledger) AddCreator(address string) error {
	addr, err := normalizeAddress(address)
	if err != nil {
		return err
	}
	if len(l.creators) >= MaxCreators {
		return ErrMaxCreators
	}
	if l.indexOf(addr) >= 0 {
		return ErrDuplicateAddress
	}

	l.creators = append(l.creators, Creator{Address: addr})
	l.redistribute()
	return nil
}

// AddDonation は寄付先（nonprofit）を追加します。
// 取り分の扱いは AddCreator と同一で、表示用の charity メタデータだけが付きます。
// 既存クリエイターと同じ payout アドレスは重複として拒否します。
func (l *Ledger) AddDonation(payoutAddress, displayName, imageURL string) error {
	addr, err := normalizeAddress(payoutAddress)
	if err != nil {
		return err
	}
	if len(l.creators) >= MaxCreators {
		return ErrMaxCreators
	}
	if l.indexOf(addr) >= 0 {
		return ErrDuplicateAddress
	}

	l.creators = append(l.creators, Creator{
		Address: addr,
		Charity: &CharityProps{
			IsCharity:   true,
			DisplayName: displayName,
			ImageURL:    imageURL,
		},
	})
	l.redistribute()
	return nil
}

// RemoveCreator はクリエイターを外し、残りの取り分を均等に再配分します。
// 最後の 1 人は外せません（受取人ゼロの台帳を作らせない）。
func (l *Ledger) RemoveCreator(address string) error {
	addr, err := normalizeAddress(address)
	if err != nil {
		return err
	}
	i := l.indexOf(addr)
	if i < 0 {
		return ErrNotFound
	}
	if len(l.creators) == 1 {
		return ErrLastCreator
	}

	l.creators = append(l.creators[:i], l.creators[i+1:]...)
	l.redistribute()
	return nil
}

// UpdateShare は 1 人の取り分だけを直接設定します。他は再配分しません。
// 合計のずれは Validate が検出するまで許容します（dirty until validated）。
// charity メタデータは維持されます。
func (l *Ledger) UpdateShare(address string, share float64) error {
	addr, err := normalizeAddress(address)
	if err != nil {
		return err
	}
	if share < 0 || share > 100 {
		return ErrInvalidShare
	}
	i := l.indexOf(addr)
	if i < 0 {
		return ErrNotFound
	}
	l.creators[i].Share = share
	return nil
}

// Validate はプラットフォーム分を除く取り分の合計を再計算します。
// 合計が TargetTotal に一致し、かつ取り分 0 のクリエイターがいないときのみ valid です。
func (l *Ledger) Validate() Validation {
	total := 0.0
	zeroed := false
	for i := range l.creators {
		total += l.creators[i].Share
		if l.creators[i].Share == 0 {
			zeroed = true
		}
	}
	valid := math.Abs(total-l.TargetTotal()) < shareEpsilon && !zeroed
	return Validation{Valid: valid, Total: total}
}

// Snapshot は検証済みの台帳から確定済み RoyaltyConfig を作ります。
// プラットフォーム受取人はここには含めません（メタデータ文書化の直前に
// 末尾へ追加されます。FormAggregator / UploadPipeline 側の責務）。
func (l *Ledger) Snapshot(basisPoints uint16, maxSupply *uint64) (RoyaltyConfig, error) {
	return NewRoyaltyConfig(basisPoints, l.creators, maxSupply)
}
