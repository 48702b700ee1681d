// cmd/uploader/main.go
//
// アセットアップロードを API 本体から切り出した小さなサービスです。
//
//	POST /upload       multipart (files, batch) -> {files:[{uri,type,name}]}
//	POST /upload/json  metadata JSON            -> {uri}
//
// 認証は UPLOADER_API_KEY の Bearer 比較だけの簡易なものです
// （Cloud Run のサービス間呼び出しを想定）。
package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloud.google.com/go/storage"

	"bulkminter/internal/adapters/out/gcs"
	nftdom "bulkminter/internal/domain/nft"
	sessdom "bulkminter/internal/domain/session"
	"bulkminter/internal/infra/config"
	"bulkminter/internal/infra/logger"
)

const maxUploadBytes = 100 << 20 // multipart 全体の上限

func main() {
	cfg := config.Load()
	cleanup := logger.Init(cfg, "uploader.log")
	defer cleanup()

	ctx := context.Background()
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		logger.Log.Fatal("failed to init GCS client", zap.Error(err))
	}
	defer gcsClient.Close()

	assets := gcs.NewAssetRepositoryGCS(gcsClient, cfg.GCSBucket)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/", apiKeyAuth(cfg.UploaderAPIKey))
	authed.POST("/upload", uploadFiles(assets))
	authed.POST("/upload/json", uploadJSON(assets))

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("failed to shutdown uploader", zap.Error(err))
		}
	}()

	logger.Log.Info("uploader starting", zap.String("port", cfg.Port), zap.String("bucket", cfg.GCSBucket))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("failed to run uploader", zap.Error(err))
	}
}

// apiKeyAuth は固定 API キーの Bearer 比較です。キー未設定なら素通し。
func apiKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader("Authorization")
		want := "Bearer " + key
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		c.Next()
	}
}

// uploadFiles は multipart の files フィールドをすべて GCS に置きます。
// batch フィールド（省略時は uuid）がオブジェクトパスの仕切りになります。
func uploadFiles(assets *gcs.AssetRepositoryGCS) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid multipart form: " + err.Error()})
			return
		}

		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "no files"})
			return
		}
		if len(files) > sessdom.MaxFiles {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "too many files"})
			return
		}

		batch := c.PostForm("batch")
		if batch == "" {
			batch = uuid.NewString()
		}

		out := make([]nftdom.AssetRef, 0, len(files))
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "open file: " + err.Error()})
				return
			}
			ref, err := assets.UploadAsset(c.Request.Context(), batch, fh.Filename, fh.Header.Get("Content-Type"), f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "upload: " + err.Error()})
				return
			}
			out = append(out, ref)
		}

		c.JSON(http.StatusOK, gin.H{"batch": batch, "files": out})
	}
}

// uploadJSON は metadata JSON を 1 文書置いて公開 URL を返します。
func uploadJSON(assets *gcs.AssetRepositoryGCS) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "read body: " + err.Error()})
			return
		}
		uri, err := assets.UploadMetadata(c.Request.Context(), c.GetHeader("X-Item-Name"), doc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "upload: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uri": uri})
	}
}
