// internal/adapters/out/gcs/asset_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	nftdom "bulkminter/internal/domain/nft"
)

// AssetRepositoryGCS
//   - アップロードされたメディアファイルと metadata.json を GCS に保存するアダプタ。
//   - minting.MetadataUploader を満たします。
//   - リトライ制御は呼び出し側の責務なので、各アップロードは 1 回だけ試行します。
type AssetRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewAssetRepositoryGCS(client *storage.Client, bucket string) *AssetRepositoryGCS {
	return &AssetRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

// UploadAsset はメディアファイル 1 本を sessions/{sessionId}/ 配下に置き、
// 公開 URL 付きの AssetRef を返します。
func (r *AssetRepositoryGCS) UploadAsset(
	ctx context.Context,
	sessionID string,
	fileName string,
	contentType string,
	body io.Reader,
) (nftdom.AssetRef, error) {
	var zero nftdom.AssetRef
	if r == nil || r.Client == nil {
		return zero, errors.New("asset_repository_gcs: nil storage client")
	}
	if r.Bucket == "" {
		return zero, errors.New("asset_repository_gcs: bucket is empty")
	}

	sessionID = strings.TrimSpace(sessionID)
	fileName = sanitizeFileName(fileName)
	if sessionID == "" || fileName == "" {
		return zero, fmt.Errorf("asset_repository_gcs: sessionID/fileName is empty")
	}

	ct := strings.TrimSpace(contentType)
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(fileName))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	objectPath := fmt.Sprintf("sessions/%s/%s", sessionID, fileName)

	w := r.Client.Bucket(r.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = ct
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return zero, fmt.Errorf("write object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return zero, fmt.Errorf("close object %s: %w", objectPath, err)
	}

	uri := publicURL(r.Bucket, objectPath)
	log.Printf("[gcs] UploadAsset ok sessionId=%q object=%q type=%q", sessionID, objectPath, ct)

	return nftdom.AssetRef{URI: uri, Type: ct, Name: fileName}, nil
}

// UploadMetadata は metadata.json を metadata/ 配下に置き、公開 URL を返します。
// オブジェクト名には uuid を使い、リトライのたびに新しい文書を作ります
// （古い URI を指す参照を残さないため）。
func (r *AssetRepositoryGCS) UploadMetadata(ctx context.Context, fileName string, doc []byte) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("asset_repository_gcs: nil storage client")
	}
	if r.Bucket == "" {
		return "", errors.New("asset_repository_gcs: bucket is empty")
	}
	if len(doc) == 0 {
		return "", errors.New("asset_repository_gcs: metadata doc is empty")
	}

	objectPath := fmt.Sprintf("metadata/%s.json", uuid.NewString())

	w := r.Client.Bucket(r.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = "application/json"
	w.ObjectAttrs.Metadata = map[string]string{"item_name": strings.TrimSpace(fileName)}
	if _, err := w.Write(doc); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write metadata %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close metadata %s: %w", objectPath, err)
	}

	uri := publicURL(r.Bucket, objectPath)
	log.Printf("[gcs] UploadMetadata ok object=%q len=%d", objectPath, len(doc))
	return uri, nil
}

// ------------------------------------------------------
// Helpers
// ------------------------------------------------------

func publicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s",
		bucket, (&url.URL{Path: objectPath}).EscapedPath())
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}
