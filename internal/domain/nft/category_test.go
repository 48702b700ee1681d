package nft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		fileName string
		want     Category
	}{
		{"art.png", CategoryImage},
		{"ART.JPG", CategoryImage},
		{"clip.mp4", CategoryVideo},
		{"movie.webm", CategoryVideo},
		{"track.mp3", CategoryAudio},
		{"loop.WAV", CategoryAudio},
		{"scene.glb", CategoryVR},
		{"model.gltf", CategoryVR},
		{"page.html", CategoryHTML},
		{"noextension", CategoryImage},
		{"weird.xyz", CategoryImage},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, DetectCategory(c.fileName), c.fileName)
	}
}

func TestRequiresCoverImage(t *testing.T) {
	assert.False(t, CategoryImage.RequiresCoverImage())
	assert.True(t, CategoryVideo.RequiresCoverImage())
	assert.True(t, CategoryAudio.RequiresCoverImage())
	assert.True(t, CategoryVR.RequiresCoverImage())
	assert.True(t, CategoryHTML.RequiresCoverImage())
}

func TestDedupedFileName(t *testing.T) {
	assert.Equal(t, "art.png", DedupedFileName("art.png", 0))
	assert.Equal(t, "art (1).png", DedupedFileName("art.png", 1))
	assert.Equal(t, "art (2).png", DedupedFileName("art.png", 2))
	assert.Equal(t, "noext (1)", DedupedFileName("noext", 1))
}

func TestValidateAttributes(t *testing.T) {
	ok := []Attribute{
		{TraitType: "background", Value: "blue"},
		{TraitType: "", Value: "orphan value"}, // dropped later, not an input error
	}
	assert.NoError(t, ValidateAttributes(ok))

	bad := []Attribute{{TraitType: "background", Value: "  "}}
	assert.ErrorIs(t, ValidateAttributes(bad), ErrInvalidAttribute)
}

func TestFilterAttributes(t *testing.T) {
	in := []Attribute{
		{TraitType: "background", Value: "blue"},
		{TraitType: "", Value: "dropped"},
		{TraitType: "rarity", Value: "legendary"},
	}
	out := FilterAttributes(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "background", out[0].TraitType)
	assert.Equal(t, "rarity", out[1].TraitType)
}
