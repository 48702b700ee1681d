package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
)

func assets(names ...string) []nftdom.AssetRef {
	out := make([]nftdom.AssetRef, 0, len(names))
	for _, n := range names {
		out = append(out, nftdom.AssetRef{URI: "https://gw.example/" + n, Type: "image/png", Name: n})
	}
	return out
}

func newSession(t *testing.T, names ...string) *MintSession {
	t.Helper()
	s, err := NewMintSession("sess-1", "ownerWallet11111111111111111111111111111111", assets(names...), time.Now())
	require.NoError(t, err)
	return s
}

func TestNewMintSessionValidation(t *testing.T) {
	_, err := NewMintSession("s", "", assets("a.png"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidOwner)

	_, err = NewMintSession("s", "owner", nil, time.Now())
	assert.ErrorIs(t, err, ErrNoFiles)

	names := make([]string, MaxFiles+1)
	for i := range names {
		names[i] = "x.png"
	}
	_, err = NewMintSession("s", "owner", assets(names...), time.Now())
	assert.ErrorIs(t, err, ErrTooManyFiles)
}

func TestDuplicateFileNamesGetSuffix(t *testing.T) {
	s := newSession(t, "art.png", "art.png", "art.png")
	assert.Equal(t, "art.png", s.Items[0].FileName)
	assert.Equal(t, "art (1).png", s.Items[1].FileName)
	assert.Equal(t, "art (2).png", s.Items[2].FileName)
}

func TestChooseRoyaltyModeOnce(t *testing.T) {
	s := newSession(t, "a.png", "b.png")

	require.NoError(t, s.ChooseRoyaltyMode(RoyaltyModeAll))
	// Re-choosing the same mode is a no-op.
	require.NoError(t, s.ChooseRoyaltyMode(RoyaltyModeAll))
	// Switching modes mid-session is refused.
	assert.ErrorIs(t, s.ChooseRoyaltyMode(RoyaltyModeIndividual), ErrModeAlreadyChosen)
}

func TestApplyRoyaltyToAllCopiesConfig(t *testing.T) {
	s := newSession(t, "a.png", "b.png")
	cfg, err := royaltydom.NewRoyaltyConfig(1000, []royaltydom.Creator{
		{Address: "ownerWallet11111111111111111111111111111111", Share: 98},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.ApplyRoyaltyToAll(cfg))
	require.NotNil(t, s.Items[0].Royalty)
	require.NotNil(t, s.Items[1].Royalty)

	// Items must hold independent copies.
	s.Items[0].Royalty.TotalBasisPoints = 500
	assert.Equal(t, uint16(1000), s.Items[1].Royalty.TotalBasisPoints)
}

func TestApplyRoyaltyToOneIndexChecked(t *testing.T) {
	s := newSession(t, "a.png")
	cfg, _ := royaltydom.NewRoyaltyConfig(1000, []royaltydom.Creator{{Address: "a", Share: 98}}, nil)
	assert.ErrorIs(t, s.ApplyRoyaltyToOne(5, cfg), ErrIndexOutOfRange)
}

func TestBeginMintingAndAdvance(t *testing.T) {
	s := newSession(t, "a.png", "b.png")

	records := []nftdom.MintRecord{
		{Name: "a", Status: nftdom.StatusPending},
		{Name: "b", Status: nftdom.StatusPending},
	}
	require.NoError(t, s.BeginMinting(records))
	assert.Equal(t, PhaseMinting, s.Phase)
	assert.Equal(t, StepMetadataUploading, s.ActiveStep)

	require.NotNil(t, s.ActiveRecord())
	assert.Equal(t, "a", s.ActiveRecord().Name)

	s.Advance(nftdom.StatusSuccess)
	assert.Equal(t, 1, s.ActiveIndex)
	assert.Equal(t, "b", s.ActiveRecord().Name)

	s.Advance(nftdom.StatusFailed)
	assert.Equal(t, PhaseComplete, s.Phase)
	assert.Nil(t, s.ActiveRecord())

	ok, failed := s.Summary()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

func TestBeginMintingRecordCountMismatch(t *testing.T) {
	s := newSession(t, "a.png", "b.png")
	err := s.BeginMinting([]nftdom.MintRecord{{Name: "a"}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStepRetryTargets(t *testing.T) {
	cases := []struct {
		from   Step
		want   Step
		canTry bool
	}{
		{StepSigningFailed, StepSigning, true},
		{StepApprovalFailed, StepApproving, true},
		{StepSendingFailed, StepApproving, true},
		{StepMetadataUploadFailed, StepMetadataUploading, true},
		{StepApproving, StepApproving, false},
		{StepSuccess, StepSuccess, false},
	}
	for _, c := range cases {
		got, ok := c.from.RetryTarget()
		assert.Equal(t, c.canTry, ok, string(c.from))
		if ok {
			assert.Equal(t, c.want, got, string(c.from))
		}
	}
}

func TestStepSkippable(t *testing.T) {
	assert.True(t, StepApprovalFailed.Skippable())
	assert.True(t, StepSendingFailed.Skippable())
	assert.True(t, StepMetadataUploadFailed.Skippable())
	// On-chain mint already went through; only re-signing makes sense.
	assert.False(t, StepSigningFailed.Skippable())
	assert.False(t, StepApproving.Skippable())
}
