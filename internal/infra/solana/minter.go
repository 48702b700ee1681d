// internal/infra/solana/minter.go
package solana

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"bulkminter/internal/application/minting"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// Minter はサーバーサイド権限でミントする WalletMinter 実装です。
// fee payer / mint authority はプラットフォームの共同署名ウォレットで、
// ミントされたトークンは owner の ATA に渡します。
type Minter struct {
	client    *Client
	authority *MintAuthority
}

func NewMinter(client *Client, authority *MintAuthority) *Minter {
	return &Minter{client: client, authority: authority}
}

// MintNFT は mint アカウント作成から MasterEditionV3 までを 1 トランザクション
// で実行し、receipt を返します。
//
//   - MaxSupply nil = 無制限プリント / 0 = 1点もの / n = 限定 n 枚
//   - creators のうち authority と一致するものだけ作成時点で verified になる
//     （他の creator の verified は SignMetadata で立てる）
func (m *Minter) MintNFT(ctx context.Context, p minting.MintParams) (sessdom.MintReceipt, error) {
	var zero sessdom.MintReceipt
	if m == nil || m.client == nil || m.client.RPC() == nil {
		return zero, fmt.Errorf("solana minter is nil")
	}
	if m.authority == nil {
		return zero, fmt.Errorf("mint authority is nil")
	}
	owner := strings.TrimSpace(p.OwnerWallet)
	if owner == "" {
		return zero, fmt.Errorf("owner wallet is empty")
	}
	if strings.TrimSpace(p.MetadataURI) == "" {
		return zero, fmt.Errorf("metadata uri is empty")
	}

	c := m.client.RPC()
	feePayer := m.authority.Account

	ownerPub := common.PublicKeyFromString(owner)
	mint := types.NewAccount()

	ata, _, err := common.FindAssociatedTokenAddress(ownerPub, mint.PublicKey)
	if err != nil {
		return zero, fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return zero, fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}
	masterEditionPubkey, err := token_metadata.GetMasterEdition(mint.PublicKey)
	if err != nil {
		return zero, fmt.Errorf("GetMasterEdition: %w", err)
	}

	mintRent, err := c.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return zero, fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}

	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return zero, fmt.Errorf("GetLatestBlockhash: %w", err)
	}

	creators := m.onchainCreators(p.Creators)

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{mint, feePayer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				// 1) Mint アカウント作成
				system.CreateAccount(system.CreateAccountParam{
					From:     feePayer.PublicKey,
					New:      mint.PublicKey,
					Owner:    common.TokenProgramID,
					Lamports: mintRent,
					Space:    token.MintAccountSize,
				}),
				// 2) Mint 初期化 (decimals = 0)
				token.InitializeMint(token.InitializeMintParam{
					Decimals:   0,
					Mint:       mint.PublicKey,
					MintAuth:   feePayer.PublicKey,
					FreezeAuth: &feePayer.PublicKey,
				}),
				// 3) Metaplex Metadata アカウント作成
				token_metadata.CreateMetadataAccountV3(
					token_metadata.CreateMetadataAccountV3Param{
						Metadata:                metadataPubkey,
						Mint:                    mint.PublicKey,
						MintAuthority:           feePayer.PublicKey,
						UpdateAuthority:         feePayer.PublicKey,
						Payer:                   feePayer.PublicKey,
						UpdateAuthorityIsSigner: true,
						IsMutable:               true,
						Data: token_metadata.DataV2{
							Name:                 p.Name,
							Symbol:               p.Symbol,
							Uri:                  p.MetadataURI,
							SellerFeeBasisPoints: p.SellerFeeBasisPoints,
							Creators:             &creators,
						},
						CollectionDetails: nil,
					},
				),
				// 4) Owner の ATA 作成
				associated_token_account.CreateAssociatedTokenAccount(
					associated_token_account.CreateAssociatedTokenAccountParam{
						Funder:                 feePayer.PublicKey,
						Owner:                  ownerPub,
						Mint:                   mint.PublicKey,
						AssociatedTokenAccount: ata,
					},
				),
				// 5) トークンを 1 枚ミント
				token.MintTo(token.MintToParam{
					Mint:   mint.PublicKey,
					To:     ata,
					Auth:   feePayer.PublicKey,
					Amount: 1,
				}),
				// 6) MasterEdition v3 作成
				token_metadata.CreateMasterEditionV3(
					token_metadata.CreateMasterEditionParam{
						Edition:         masterEditionPubkey,
						Mint:            mint.PublicKey,
						UpdateAuthority: feePayer.PublicKey,
						MintAuthority:   feePayer.PublicKey,
						Metadata:        metadataPubkey,
						Payer:           feePayer.PublicKey,
						MaxSupply:       p.MaxSupply,
					},
				),
			},
		}),
	})
	if err != nil {
		return zero, fmt.Errorf("NewTransaction: %w", err)
	}

	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return zero, fmt.Errorf("SendTransaction: %w", err)
	}

	log.Printf("[solana] MintNFT sent owner=%q mint=%q sig=%q creators=%d",
		owner, mint.PublicKey.ToBase58(), sig, len(creators))

	return sessdom.MintReceipt{
		TxID:            sig,
		MintAddress:     mint.PublicKey.ToBase58(),
		MetadataAddress: metadataPubkey.ToBase58(),
		EditionAddress:  masterEditionPubkey.ToBase58(),
	}, nil
}

// onchainCreators は % 小数の share をオンチェーンの uint8 に変換します。
// 合計がちょうど 100 になるよう、端数は余りの大きい順に配ります。
func (m *Minter) onchainCreators(in []royaltydom.Creator) []token_metadata.Creator {
	shares := allocateShares(in)

	authorityAddr := m.authority.Address()
	out := make([]token_metadata.Creator, 0, len(in))
	for i, cr := range in {
		out = append(out, token_metadata.Creator{
			Address:  common.PublicKeyFromString(cr.Address),
			Verified: cr.Address == authorityAddr,
			Share:    shares[i],
		})
	}
	return out
}

// allocateShares は float の share 配列を合計 100 の uint8 配列にします
// （largest remainder 法）。
func allocateShares(in []royaltydom.Creator) []uint8 {
	n := len(in)
	out := make([]uint8, n)
	if n == 0 {
		return out
	}

	type rem struct {
		index int
		frac  float64
	}

	total := 0
	rems := make([]rem, 0, n)
	for i, cr := range in {
		f := math.Floor(cr.Share)
		out[i] = uint8(f)
		total += int(f)
		rems = append(rems, rem{index: i, frac: cr.Share - f})
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; total < 100 && i < len(rems); i++ {
		out[rems[i].index]++
		total++
	}
	return out
}
