// internal/application/minting/notify.go
package minting

import (
	"context"
	"errors"
	"log"

	sessdom "bulkminter/internal/domain/session"
)

// MultiNotifier は複数の完了フック（メール・アーカイブ）への fan-out です。
// 1 つの失敗で他を止めず、全部へ通知してからエラーをまとめて返します。
type MultiNotifier []CompletionNotifier

func (m MultiNotifier) NotifyCompleted(ctx context.Context, s *sessdom.MintSession) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyCompleted(ctx, s); err != nil {
			log.Printf("[mint_sequencer] completion hook error sessionId=%q err=%v", s.ID, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
