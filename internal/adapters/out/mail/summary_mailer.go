// internal/adapters/out/mail/summary_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sessdom "bulkminter/internal/domain/session"
)

// EmailClient は実際のメール送信クライアント（SMTP / SendGrid / SES など）を
// 抽象化した下位レベルのインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SummaryMailer はセッション完了時に成否サマリーを送る
// minting.CompletionNotifier 実装です。
//
//   - client      : SendGrid などの具体的な EmailClient 実装
//   - fromAddress : 送信元メールアドレス
//   - resolveTo   : ownerWallet から通知先アドレスを引く（空なら送信スキップ）
type SummaryMailer struct {
	client      EmailClient
	fromAddress string
	resolveTo   func(ctx context.Context, ownerWallet string) string
}

func NewSummaryMailer(
	client EmailClient,
	fromAddress string,
	resolveTo func(ctx context.Context, ownerWallet string) string,
) *SummaryMailer {
	return &SummaryMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		resolveTo:   resolveTo,
	}
}

// NotifyCompleted は成否集計と mint アドレス一覧をまとめて送信します。
// 通知先が引けないウォレットは送信せず nil を返します（任意機能のため）。
func (m *SummaryMailer) NotifyCompleted(ctx context.Context, s *sessdom.MintSession) error {
	if m == nil || m.client == nil {
		return errors.New("summary mailer is nil")
	}
	if s == nil {
		return errors.New("session is nil")
	}

	to := ""
	if m.resolveTo != nil {
		to = strings.TrimSpace(m.resolveTo(ctx, s.OwnerWallet))
	}
	if to == "" {
		return nil
	}

	succeeded, failed := s.Summary()
	subject := fmt.Sprintf("【Bulk Minter】ミント完了のお知らせ（成功 %d / 失敗 %d）", succeeded, failed)

	var b strings.Builder
	fmt.Fprintf(&b, `バルクミントが完了しました。

  セッション ID : %s
  成功          : %d 件
  失敗          : %d 件

【アイテム一覧】
`, s.ID, succeeded, failed)

	for i := range s.Records {
		rec := &s.Records[i]
		line := fmt.Sprintf("  %2d. %-30s %s", i+1, rec.Name, rec.Status)
		if rcpt := s.Receipts[i]; rcpt != nil && rcpt.MintAddress != "" {
			line += "  mint=" + rcpt.MintAddress
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(`
※本メールに心当たりがない場合は、このメッセージは破棄してください。

--
Bulk Minter`)

	return m.client.Send(ctx, m.fromAddress, to, subject, b.String())
}
