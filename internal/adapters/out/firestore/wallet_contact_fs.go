// internal/adapters/out/firestore/wallet_contact_fs.go
package firestore

import (
	"context"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// WalletContactFS は walletAddress -> 通知先メールアドレスの逆引きです。
//
// Collection design:
// - collection: wallet_contacts
// - docId: walletAddress ✅ (docId is the source of truth)
// - fields: email
type WalletContactFS struct {
	Client *firestore.Client
}

func NewWalletContactFS(client *firestore.Client) *WalletContactFS {
	return &WalletContactFS{Client: client}
}

// ResolveEmail はウォレットに紐づくメールアドレスを返します。
// 未登録・取得失敗は空文字を返します（サマリーメールは任意機能のため）。
func (r *WalletContactFS) ResolveEmail(ctx context.Context, wallet string) string {
	if r == nil || r.Client == nil {
		return ""
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return ""
	}

	snap, err := r.Client.Collection("wallet_contacts").Doc(wallet).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			log.Printf("[wallet_contact_fs] ResolveEmail error wallet=%q err=%v", wallet, err)
		}
		return ""
	}

	var doc struct {
		Email string `firestore:"email"`
	}
	if err := snap.DataTo(&doc); err != nil {
		log.Printf("[wallet_contact_fs] ResolveEmail decode error wallet=%q err=%v", wallet, err)
		return ""
	}
	return strings.TrimSpace(doc.Email)
}
