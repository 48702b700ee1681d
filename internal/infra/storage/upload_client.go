// internal/infra/storage/upload_client.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Uploader サービス (Cloud Run) の HTTP API を叩く実装。
// cmd/uploader が提供する `POST /upload`（multipart）と
// `POST /upload/json` に対応します。
type UploadClient struct {
	client  *http.Client
	baseURL string // 例: "https://bulkminter-uploader-xxxx.asia-northeast1.run.app"
	apiKey  string // 認証が必要な場合に使用（UPLOADER_API_KEY など）
}

// UploadedFile は upload API のレスポンス 1 件分です。
type UploadedFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
	Name string `json:"name"`
}

func NewUploadClient(baseURL, apiKey string) *UploadClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")

	return &UploadClient{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// UploadFile は 1 ファイルを multipart で送り、公開 URI を受け取ります。
// リトライもキャッシュもしません（single attempt）。
func (u *UploadClient) UploadFile(ctx context.Context, fileName, contentType string, r io.Reader) (UploadedFile, error) {
	if u.baseURL == "" {
		return UploadedFile{}, fmt.Errorf("baseURL is empty; uploader endpoint not configured")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", fileName)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadedFile{}, fmt.Errorf("copy file body: %w", err)
	}
	if err := w.Close(); err != nil {
		return UploadedFile{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload", &body)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[upload_client] UploadFile request FAILED name=%q err=%v", fileName, err)
		return UploadedFile{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return UploadedFile{}, fmt.Errorf("upload failed: status=%d body=%s", resp.StatusCode, string(b))
	}

	var out struct {
		Files []UploadedFile `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadedFile{}, fmt.Errorf("decode upload response: %w", err)
	}
	if len(out.Files) == 0 || strings.TrimSpace(out.Files[0].URI) == "" {
		return UploadedFile{}, fmt.Errorf("upload response has no uri")
	}

	log.Printf("[upload_client] UploadFile ok name=%q uri=%s elapsed=%s", fileName, out.Files[0].URI, time.Since(start))
	return out.Files[0], nil
}

// UploadMetadata は metadata JSON を uploader サービス経由で置き、その URL を
// 返します。minting.MetadataUploader の実装です。
func (u *UploadClient) UploadMetadata(ctx context.Context, fileName string, doc []byte) (string, error) {
	if len(doc) == 0 {
		return "", fmt.Errorf("metadata document is empty")
	}
	if u.baseURL == "" {
		return "", fmt.Errorf("baseURL is empty; uploader endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload/json", bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Item-Name", fileName)
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[upload_client] UploadMetadata request FAILED name=%q err=%v", fileName, err)
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("metadata upload failed: status=%d body=%s", resp.StatusCode, string(b))
	}

	var out struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(out.URI) == "" {
		return "", fmt.Errorf("upload response has no uri")
	}

	log.Printf("[upload_client] UploadMetadata ok name=%q uri=%s elapsed=%s", fileName, out.URI, time.Since(start))
	return out.URI, nil
}
