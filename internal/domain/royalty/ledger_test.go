package royalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlatform = PlatformRecipient{
	Address: "platformHolderPubkey11111111111111111111111",
	Share:   2,
}

func newEnforcedLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger("ownerWallet11111111111111111111111111111111", testPlatform, true)
	require.NoError(t, err)
	return l
}

func TestNewLedgerOwnerGetsTargetTotal(t *testing.T) {
	l := newEnforcedLedger(t)

	creators := l.Creators()
	require.Len(t, creators, 1)
	assert.Equal(t, 98.0, creators[0].Share)
	assert.Equal(t, 98.0, l.TargetTotal())

	v := l.Validate()
	assert.True(t, v.Valid)
	assert.Equal(t, 98.0, v.Total)
}

func TestAddCreatorRedistributesEqually(t *testing.T) {
	l := newEnforcedLedger(t)

	// [{A,98}] + B -> [{A,49},{B,49}], platform untouched at 2
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))

	creators := l.Creators()
	require.Len(t, creators, 2)
	assert.Equal(t, 49.0, creators[0].Share)
	assert.Equal(t, 49.0, creators[1].Share)

	p, enforced := l.Platform()
	assert.True(t, enforced)
	assert.Equal(t, 2.0, p.Share)

	assert.True(t, l.Validate().Valid)
}

func TestRemoveCreatorRedistributes(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))

	// [{A,49},{B,49}] - A -> [{B,98}]
	require.NoError(t, l.RemoveCreator("ownerWallet11111111111111111111111111111111"))

	creators := l.Creators()
	require.Len(t, creators, 1)
	assert.Equal(t, "creatorB2222222222222222222222222222222222", creators[0].Address)
	assert.Equal(t, 98.0, creators[0].Share)
}

func TestRemoveLastCreatorRefused(t *testing.T) {
	l := newEnforcedLedger(t)
	err := l.RemoveCreator("ownerWallet11111111111111111111111111111111")
	assert.ErrorIs(t, err, ErrLastCreator)
}

func TestRemoveUnknownCreator(t *testing.T) {
	l := newEnforcedLedger(t)
	assert.ErrorIs(t, l.RemoveCreator("nobody"), ErrNotFound)
}

func TestAddCreatorDuplicate(t *testing.T) {
	l := newEnforcedLedger(t)
	err := l.AddCreator("ownerWallet11111111111111111111111111111111")
	assert.ErrorIs(t, err, ErrDuplicateAddress)
}

func TestAddCreatorMaxLimit(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))
	require.NoError(t, l.AddCreator("creatorC3333333333333333333333333333333333"))
	require.NoError(t, l.AddCreator("creatorD4444444444444444444444444444444444"))

	err := l.AddCreator("creatorE5555555555555555555555555555555555")
	assert.ErrorIs(t, err, ErrMaxCreators)
}

func TestAddCreatorRejectsWhitespaceAddress(t *testing.T) {
	l := newEnforcedLedger(t)
	assert.ErrorIs(t, l.AddCreator("bad address with spaces"), ErrInvalidAddress)
	assert.ErrorIs(t, l.AddCreator("   "), ErrInvalidAddress)
}

func TestAddDonation(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddDonation(
		"charitySolanaAddr3333333333333333333333333",
		"Sea Turtle Rescue",
		"https://example.org/icon.png",
	))

	creators := l.Creators()
	require.Len(t, creators, 2)
	assert.Equal(t, 49.0, creators[0].Share)
	assert.Equal(t, 49.0, creators[1].Share)

	require.NotNil(t, creators[1].Charity)
	assert.True(t, creators[1].Charity.IsCharity)
	assert.Equal(t, "Sea Turtle Rescue", creators[1].Charity.DisplayName)
}

func TestAddDonationDuplicatePayoutAddress(t *testing.T) {
	l := newEnforcedLedger(t)
	err := l.AddDonation("ownerWallet11111111111111111111111111111111", "Dup", "")
	assert.ErrorIs(t, err, ErrDuplicateAddress)
}

func TestUpdateShareDriftsUntilValidated(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))

	// Manual edit drifts away from the target total; Validate reports it.
	require.NoError(t, l.UpdateShare("creatorB2222222222222222222222222222222222", 10))

	v := l.Validate()
	assert.False(t, v.Valid)
	assert.Equal(t, 59.0, v.Total)

	// Fixing the counterpart share restores validity.
	require.NoError(t, l.UpdateShare("ownerWallet11111111111111111111111111111111", 88))
	assert.True(t, l.Validate().Valid)
}

func TestUpdateShareKeepsCharityProps(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddDonation("charitySolanaAddr3333333333333333333333333", "Charity", ""))
	require.NoError(t, l.UpdateShare("charitySolanaAddr3333333333333333333333333", 8))

	creators := l.Creators()
	require.NotNil(t, creators[1].Charity)
	assert.Equal(t, 8.0, creators[1].Share)
}

func TestValidateRejectsZeroShare(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))
	require.NoError(t, l.UpdateShare("creatorB2222222222222222222222222222222222", 0))
	require.NoError(t, l.UpdateShare("ownerWallet11111111111111111111111111111111", 98))

	v := l.Validate()
	assert.False(t, v.Valid)
	assert.Equal(t, 98.0, v.Total)
}

func TestThreeWaySplitSurvivesFloatError(t *testing.T) {
	l := newEnforcedLedger(t)
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))
	require.NoError(t, l.AddCreator("creatorC3333333333333333333333333333333333"))

	// 98/3 * 3 does not round-trip exactly in IEEE754; the ledger must
	// still consider the equal split valid.
	assert.True(t, l.Validate().Valid)
}

func TestUnenforcedLedgerTargetsHundred(t *testing.T) {
	l, err := NewLedger("ownerWallet11111111111111111111111111111111", PlatformRecipient{}, false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, l.TargetTotal())

	creators := l.Creators()
	assert.Equal(t, 100.0, creators[0].Share)

	_, enforced := l.Platform()
	assert.False(t, enforced)
}

func TestSnapshotCopiesCreators(t *testing.T) {
	l := newEnforcedLedger(t)
	cfg, err := l.Snapshot(DefaultRoyaltyBasisPoints, nil)
	require.NoError(t, err)
	require.Len(t, cfg.Creators, 1)

	// Mutating the ledger afterwards must not leak into the snapshot.
	require.NoError(t, l.AddCreator("creatorB2222222222222222222222222222222222"))
	assert.Equal(t, 98.0, cfg.Creators[0].Share)
	assert.Equal(t, DefaultRoyaltyBasisPoints, cfg.TotalBasisPoints)
}

func TestSnapshotRejectsBadBasisPoints(t *testing.T) {
	l := newEnforcedLedger(t)
	_, err := l.Snapshot(10001, nil)
	assert.ErrorIs(t, err, ErrInvalidBasisPoints)
}
