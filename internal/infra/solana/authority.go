// internal/infra/solana/authority.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
)

// MintAuthority はプラットフォーム側の共同署名ウォレットです。
// metadata への SignMetadata と、サーバーサイドミント時の
// fee payer / mint authority に使います。
type MintAuthority struct {
	Account types.Account
}

func (a *MintAuthority) Address() string {
	if a == nil {
		return ""
	}
	return a.Account.PublicKey.ToBase58()
}

// LoadMintAuthority は GCP Secret Manager から鍵ペア（[int,int,...] の
// JSON 配列）を読み込み、署名可能なアカウントとして復元します。
//
// secret の version は常に latest を参照します。
func LoadMintAuthority(ctx context.Context, projectID, secretID string) (*MintAuthority, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)

	res, err := client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("access secret version %s: %w", name, err)
	}

	var ints []int
	if err := json.Unmarshal(res.Payload.Data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal secret json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	b := make([]byte, len(ints))
	for i, v := range ints {
		b[i] = byte(v)
	}

	acc, err := types.AccountFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("account from secret bytes: %w", err)
	}

	return &MintAuthority{Account: acc}, nil
}
