package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

func newSession(t *testing.T, names ...string) *sessdom.MintSession {
	t.Helper()
	assets := make([]nftdom.AssetRef, 0, len(names))
	for _, n := range names {
		assets = append(assets, nftdom.AssetRef{URI: "https://gw.example/" + n, Type: "application/octet-stream", Name: n})
	}
	s, err := sessdom.NewMintSession("sess-1", "ownerWallet11111111111111111111111111111111", assets, time.Now())
	require.NoError(t, err)
	return s
}

func royaltyConfig(t *testing.T) royaltydom.RoyaltyConfig {
	t.Helper()
	cfg, err := royaltydom.NewRoyaltyConfig(1000, []royaltydom.Creator{
		{Address: "ownerWallet11111111111111111111111111111111", Share: 98},
	}, nil)
	require.NoError(t, err)
	return cfg
}

func TestSetItemMetadataMerges(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png")

	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{Name: "Piece", Description: "first"}))
	// Second call with only a description must keep the name.
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{Description: "updated"}))

	assert.Equal(t, "Piece", s.Items[0].Name)
	assert.Equal(t, "updated", s.Items[0].Description)
}

func TestSetItemMetadataIndexOutOfRange(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png")
	err := uc.SetItemMetadata(s, 3, ItemInput{Name: "x"})
	assert.ErrorIs(t, err, sessdom.ErrIndexOutOfRange)
}

func TestSetItemMetadataRejectsEmptyAttributeValue(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png")
	err := uc.SetItemMetadata(s, 0, ItemInput{
		Name:       "x",
		Attributes: []nftdom.Attribute{{TraitType: "background", Value: ""}},
	})
	assert.ErrorIs(t, err, nftdom.ErrInvalidAttribute)
}

func TestFinalizeImageItem(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png")
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{
		Name: "Piece #0",
		Attributes: []nftdom.Attribute{
			{TraitType: "background", Value: "blue"},
			{TraitType: "", Value: "dropped"},
		},
	}))
	require.NoError(t, s.ApplyRoyaltyToOne(0, royaltyConfig(t)))

	rec, err := uc.Finalize(s, 0)
	require.NoError(t, err)

	assert.Equal(t, nftdom.CategoryImage, rec.Category)
	assert.Equal(t, "https://gw.example/a.png", rec.Image)
	assert.Empty(t, rec.AnimationURL)
	assert.Len(t, rec.Attributes, 1)
	assert.Equal(t, uint16(1000), rec.SellerFeeBasisPoints)
	assert.Equal(t, nftdom.StatusPending, rec.Status)
	assert.Len(t, rec.Files, 1)
}

func TestFinalizeVideoRequiresCover(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "clip.mp4")
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{Name: "Clip"}))
	require.NoError(t, s.ApplyRoyaltyToOne(0, royaltyConfig(t)))

	_, err := uc.Finalize(s, 0)
	assert.ErrorIs(t, err, nftdom.ErrMissingCover)

	cover := nftdom.AssetRef{URI: "https://gw.example/cover.png", Type: "image/png", Name: "cover.png"}
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{CoverImage: &cover}))

	rec, err := uc.Finalize(s, 0)
	require.NoError(t, err)
	assert.Equal(t, nftdom.CategoryVideo, rec.Category)
	// Cover becomes the image, the primary asset moves to animation_url.
	assert.Equal(t, cover.URI, rec.Image)
	assert.Equal(t, "https://gw.example/clip.mp4", rec.AnimationURL)
	assert.Len(t, rec.Files, 2)
}

func TestFinalizeWithoutRoyalty(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png")
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{Name: "x"}))

	_, err := uc.Finalize(s, 0)
	assert.ErrorIs(t, err, nftdom.ErrMissingRoyalty)
}

func TestFinalizeAllStopsOnFirstError(t *testing.T) {
	uc := NewUsecase()
	s := newSession(t, "a.png", "b.png")
	require.NoError(t, uc.SetItemMetadata(s, 0, ItemInput{Name: "a"}))
	// Item 1 has no name and no royalty; FinalizeAll must fail.
	require.NoError(t, s.ApplyRoyaltyToAll(royaltyConfig(t)))

	_, err := uc.FinalizeAll(s)
	assert.Error(t, err)

	require.NoError(t, uc.SetItemMetadata(s, 1, ItemInput{Name: "b"}))
	records, err := uc.FinalizeAll(s)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
