// internal/application/royalty/usecase_test.go
package royalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	charitydom "bulkminter/internal/domain/charity"
	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

const (
	testOwner    = "ownerWa11et1111111111111111111111111111111"
	testFriend   = "friendWa11et111111111111111111111111111111"
	testCharity  = "charityWa11et11111111111111111111111111111"
	testPlatform = "platformHolderPubkey11111111111111111111111"
)

func testUsecase() *Usecase {
	return NewUsecase(royaltydom.PlatformRecipient{
		Address: testPlatform,
		Share:   2,
	}, true)
}

func testSession(t *testing.T, n int) *sessdom.MintSession {
	t.Helper()
	assets := make([]nftdom.AssetRef, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, nftdom.AssetRef{
			URI:  "https://storage.googleapis.com/bucket/file" + string(rune('a'+i)) + ".png",
			Type: "image/png",
			Name: "file" + string(rune('a'+i)) + ".png",
		})
	}
	s, err := sessdom.NewMintSession("sess-1", testOwner, assets, time.Now())
	require.NoError(t, err)
	return s
}

func TestUsecase_AddCreator_SeedsOwnerLedger(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 2)

	creators, err := u.AddCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)
	require.Len(t, creators, 2)

	// enforced: 98 を 2 人で均等割り
	assert.Equal(t, testOwner, creators[0].Address)
	assert.InDelta(t, 49, creators[0].Share, 1e-9)
	assert.InDelta(t, 49, creators[1].Share, 1e-9)

	// 下書きがセッションに残る
	assert.Len(t, s.RoyaltyDrafts[ScopeAll], 2)
}

func TestUsecase_DraftSurvivesAcrossCalls(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 1)

	_, err := u.AddCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)

	// 別インスタンスでも（= 別リクエストでも）下書きから復元される
	creators, err := testUsecase().UpdateShare(s, ScopeAll, testOwner, 60)
	require.NoError(t, err)
	assert.InDelta(t, 60, creators[0].Share, 1e-9)
	assert.InDelta(t, 49, creators[1].Share, 1e-9)
}

func TestUsecase_ScopeIsolation(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 3)

	_, err := u.AddCreator(s, "0", testFriend)
	require.NoError(t, err)

	v, err := u.Validate(s, "1")
	require.NoError(t, err)
	// scope "1" は所有者 1 人の初期台帳のまま
	assert.True(t, v.Valid)
	assert.InDelta(t, 98, v.Total, 1e-9)
	assert.Len(t, s.RoyaltyDrafts["0"], 2)
	assert.Empty(t, s.RoyaltyDrafts["1"])
}

func TestUsecase_InvalidScope(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 2)

	_, err := u.AddCreator(s, "2", testFriend)
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = u.AddCreator(s, "-1", testFriend)
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = u.AddCreator(s, "abc", testFriend)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestUsecase_AddDonation(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 1)

	creators, err := u.AddDonation(s, ScopeAll, charitydom.Nonprofit{
		Name:          "Ocean Cleanup",
		IconURL:       "https://example.com/icon.png",
		SolanaAddress: testCharity,
	})
	require.NoError(t, err)
	require.Len(t, creators, 2)
	require.NotNil(t, creators[1].Charity)
	assert.Equal(t, "Ocean Cleanup", creators[1].Charity.DisplayName)
}

func TestUsecase_AddDonation_RequiresPayoutAddress(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 1)

	_, err := u.AddDonation(s, ScopeAll, charitydom.Nonprofit{Name: "No Wallet"})
	assert.ErrorIs(t, err, royaltydom.ErrInvalidAddress)
	assert.Empty(t, s.RoyaltyDrafts)
}

func TestUsecase_RemoveCreator_KeepsLastRecipient(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 1)

	_, err := u.AddCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)

	creators, err := u.RemoveCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.InDelta(t, 98, creators[0].Share, 1e-9)

	_, err = u.RemoveCreator(s, ScopeAll, testOwner)
	assert.ErrorIs(t, err, royaltydom.ErrLastCreator)
}

func TestUsecase_Apply_All(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 3)

	_, err := u.AddCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)

	err = u.Apply(s, ScopeAll, ApplyInput{})
	require.NoError(t, err)

	assert.Equal(t, sessdom.RoyaltyModeAll, s.RoyaltyMode)
	for i := range s.Items {
		require.NotNil(t, s.Items[i].Royalty, "item %d", i)
		assert.Equal(t, royaltydom.DefaultRoyaltyBasisPoints, s.Items[i].Royalty.TotalBasisPoints)
		assert.Len(t, s.Items[i].Royalty.Creators, 2)
	}
}

func TestUsecase_Apply_One(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 2)

	maxSupply := uint64(5)
	err := u.Apply(s, "1", ApplyInput{BasisPoints: 500, MaxSupply: &maxSupply})
	require.NoError(t, err)

	assert.Equal(t, sessdom.RoyaltyModeIndividual, s.RoyaltyMode)
	assert.Nil(t, s.Items[0].Royalty)
	require.NotNil(t, s.Items[1].Royalty)
	assert.Equal(t, uint16(500), s.Items[1].Royalty.TotalBasisPoints)
	require.NotNil(t, s.Items[1].Royalty.MaxSupply)
	assert.Equal(t, uint64(5), *s.Items[1].Royalty.MaxSupply)
}

func TestUsecase_Apply_RejectsInvalidTotal(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 1)

	_, err := u.AddCreator(s, ScopeAll, testFriend)
	require.NoError(t, err)
	_, err = u.UpdateShare(s, ScopeAll, testOwner, 10)
	require.NoError(t, err)

	err = u.Apply(s, ScopeAll, ApplyInput{})
	assert.ErrorIs(t, err, royaltydom.ErrInvalidShare)
	assert.Equal(t, sessdom.RoyaltyModeUnset, s.RoyaltyMode)
}

func TestUsecase_Apply_ModeIsLockedOnce(t *testing.T) {
	u := testUsecase()
	s := testSession(t, 2)

	require.NoError(t, u.Apply(s, ScopeAll, ApplyInput{}))

	err := u.Apply(s, "0", ApplyInput{})
	assert.ErrorIs(t, err, sessdom.ErrModeAlreadyChosen)

	// 同じモードでの適用し直しは許される
	assert.NoError(t, u.Apply(s, ScopeAll, ApplyInput{BasisPoints: 700}))
	assert.Equal(t, uint16(700), s.Items[0].Royalty.TotalBasisPoints)
}
