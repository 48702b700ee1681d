package nft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	royaltydom "bulkminter/internal/domain/royalty"
)

func TestMetadataJSONAppendsPlatformLast(t *testing.T) {
	rec := MintRecord{
		Name:                 "Piece #1",
		Description:          "first",
		SellerFeeBasisPoints: 1000,
		Image:                "https://gw.example/asset",
		Category:             CategoryImage,
		Files:                []AssetRef{{URI: "https://gw.example/asset", Type: "image/png"}},
		Creators: []royaltydom.Creator{
			{Address: "userWallet111111111111111111111111111111111", Share: 49},
			{Address: "creatorC3333333333333333333333333333333333", Share: 49},
		},
		Status: StatusPending,
	}

	platform := royaltydom.PlatformRecipient{Address: "platformHolderPubkey11111111111111111111111", Share: 2}

	data, err := rec.MetadataJSON(platform, true)
	require.NoError(t, err)

	var doc struct {
		Name       string `json:"name"`
		Symbol     string `json:"symbol"`
		Properties struct {
			Category string `json:"category"`
			Creators []struct {
				Address string  `json:"address"`
				Share   float64 `json:"share"`
			} `json:"creators"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Piece #1", doc.Name)
	assert.Equal(t, "", doc.Symbol)
	assert.Equal(t, "image", doc.Properties.Category)

	require.Len(t, doc.Properties.Creators, 3)
	last := doc.Properties.Creators[2]
	assert.Equal(t, platform.Address, last.Address)
	assert.Equal(t, 2.0, last.Share)
}

func TestMetadataJSONUnenforcedOmitsPlatform(t *testing.T) {
	rec := MintRecord{
		Name:     "Piece #2",
		Category: CategoryImage,
		Creators: []royaltydom.Creator{
			{Address: "userWallet111111111111111111111111111111111", Share: 100},
		},
	}

	data, err := rec.MetadataJSON(royaltydom.PlatformRecipient{}, false)
	require.NoError(t, err)

	var doc struct {
		Properties struct {
			Creators []struct {
				Address string `json:"address"`
			} `json:"creators"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Properties.Creators, 1)
}

func TestMetadataJSONAnimationURL(t *testing.T) {
	rec := MintRecord{
		Name:         "Clip",
		Image:        "https://gw.example/cover",
		AnimationURL: "https://gw.example/clip",
		Category:     CategoryVideo,
		Creators:     []royaltydom.Creator{{Address: "userWallet111111111111111111111111111111111", Share: 98}},
	}

	data, err := rec.MetadataJSON(royaltydom.PlatformRecipient{}, false)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "https://gw.example/clip", doc["animation_url"])
	assert.Equal(t, "https://gw.example/cover", doc["image"])
}
