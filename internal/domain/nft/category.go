// internal/domain/nft/category.go
package nft

import (
	"fmt"
	"path"
	"strings"
)

// Category はアセットのメディア区分です。
// image 以外の区分はカバー画像を必須とします。
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
	CategoryVR    Category = "vr"
	CategoryHTML  Category = "html"
)

var categoryByExt = map[string]Category{
	".jpg":  CategoryImage,
	".jpeg": CategoryImage,
	".png":  CategoryImage,
	".gif":  CategoryImage,
	".svg":  CategoryImage,
	".webp": CategoryImage,

	".mp4":  CategoryVideo,
	".mov":  CategoryVideo,
	".webm": CategoryVideo,

	".mp3":  CategoryAudio,
	".wav":  CategoryAudio,
	".flac": CategoryAudio,
	".ogg":  CategoryAudio,

	".glb":  CategoryVR,
	".gltf": CategoryVR,

	".html": CategoryHTML,
}

// DetectCategory はファイル名の拡張子からメディア区分を判定します。
// 不明な拡張子は image 扱いです。
func DetectCategory(fileName string) Category {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if c, ok := categoryByExt[ext]; ok {
		return c
	}
	return CategoryImage
}

// RequiresCoverImage は当該区分にカバー画像が必要かを返します。
func (c Category) RequiresCoverImage() bool {
	return c != CategoryImage
}

// DedupedFileName は同名ファイルの n 個目に " (n)" を付けた名前を返します。
// 例: "art.png" の 2 個目 -> "art (1).png"
func DedupedFileName(fileName string, duplicates int) string {
	if duplicates <= 0 {
		return fileName
	}
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return fmt.Sprintf("%s (%d)%s", base, duplicates, ext)
}
