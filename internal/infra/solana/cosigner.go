// internal/infra/solana/cosigner.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
)

// CoSigner はプラットフォーム権限で metadata へ SignMetadata を打ち、
// creator 行の verified フラグを立てます。
type CoSigner struct {
	client    *Client
	authority *MintAuthority
}

func NewCoSigner(client *Client, authority *MintAuthority) *CoSigner {
	return &CoSigner{client: client, authority: authority}
}

func (s *CoSigner) SignMetadata(ctx context.Context, metadataAddress string) error {
	if s == nil || s.client == nil || s.client.RPC() == nil {
		return fmt.Errorf("solana cosigner is nil")
	}
	if s.authority == nil {
		return fmt.Errorf("mint authority is nil")
	}
	metadataAddress = strings.TrimSpace(metadataAddress)
	if metadataAddress == "" {
		return fmt.Errorf("metadata address is empty")
	}

	c := s.client.RPC()
	signer := s.authority.Account

	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return fmt.Errorf("GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{signer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signer.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				token_metadata.SignMetadata(token_metadata.SignMetadataParam{
					Metadata: common.PublicKeyFromString(metadataAddress),
					Creator:  signer.PublicKey,
				}),
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("NewTransaction: %w", err)
	}

	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("SendTransaction: %w", err)
	}

	log.Printf("[solana] SignMetadata sent metadata=%q sig=%q signer=%q",
		metadataAddress, sig, s.authority.Address())

	return s.client.ConfirmTransaction(ctx, sig)
}
