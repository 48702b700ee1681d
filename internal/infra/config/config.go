// internal/infra/config/config.go
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定を保持します。
// 値は環境変数から読み込み、未設定の項目はデフォルトで埋めます。
type Config struct {
	Port string

	// GCP
	GCPProjectID       string
	GCSBucket          string
	FirestoreProjectID string
	FirebaseProjectID  string
	GCSSignerEmail     string

	// Solana
	SolanaRPCEndpoint     string
	MintAuthoritySecretID string
	// ウォレットリレー（ユーザーウォレット承認）の URL。
	// 空ならサーバーサイド権限でミントします。
	WalletBridgeURL    string
	WalletBridgeAPIKey string

	// アップローダーサービス（cmd/uploader）の URL。
	// 空なら GCS へ直接アップロードします。
	UploaderURL    string
	UploaderAPIKey string

	// HTTP
	CORSAllowOrigin string

	// プラットフォーム受取人
	PlatformAddress       string
	PlatformShare         float64
	PlatformShareEnforced bool

	// 外部 API
	ChangeAPIBase    string
	ChangeAPIKey     string
	CoinGeckoAPIBase string

	// メール
	SendGridAPIKey string
	MailFrom       string

	// PostgreSQL（ミント結果アーカイブ）
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// ログ
	LogDir        string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load は環境変数から Config を組み立てます。
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com")
	v.SetDefault("MINT_AUTHORITY_SECRET_ID", "bulkminter-solana-mint-authority")
	v.SetDefault("PLATFORM_SHARE", 2.0)
	v.SetDefault("PLATFORM_SHARE_ENFORCED", true)
	v.SetDefault("CHANGE_API_BASE", "https://api.getchange.io")
	v.SetDefault("COINGECKO_API_BASE", "https://api.coingecko.com")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)

	project := v.GetString("GCP_PROJECT_ID")

	cfg := &Config{
		Port: v.GetString("PORT"),

		GCPProjectID:       project,
		GCSBucket:          v.GetString("GCS_BUCKET"),
		FirestoreProjectID: getOr(v, "FIRESTORE_PROJECT_ID", project),
		FirebaseProjectID:  getOr(v, "FIREBASE_PROJECT_ID", project),
		GCSSignerEmail:     v.GetString("GCS_SIGNER_EMAIL"),

		SolanaRPCEndpoint:     v.GetString("SOLANA_RPC_ENDPOINT"),
		MintAuthoritySecretID: v.GetString("MINT_AUTHORITY_SECRET_ID"),
		WalletBridgeURL:       v.GetString("WALLET_BRIDGE_URL"),
		WalletBridgeAPIKey:    v.GetString("WALLET_BRIDGE_API_KEY"),

		UploaderURL:    v.GetString("UPLOADER_URL"),
		UploaderAPIKey: v.GetString("UPLOADER_API_KEY"),

		CORSAllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),

		PlatformAddress:       v.GetString("PLATFORM_ADDRESS"),
		PlatformShare:         v.GetFloat64("PLATFORM_SHARE"),
		PlatformShareEnforced: v.GetBool("PLATFORM_SHARE_ENFORCED"),

		ChangeAPIBase:    v.GetString("CHANGE_API_BASE"),
		ChangeAPIKey:     v.GetString("CHANGE_API_KEY"),
		CoinGeckoAPIBase: v.GetString("COINGECKO_API_BASE"),

		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		MailFrom:       v.GetString("MAIL_FROM"),

		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetString("POSTGRES_PORT"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),

		LogDir:        v.GetString("LOG_DIR"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	return cfg
}

// ArchiveEnabled は Postgres アーカイブの設定が揃っているかどうかです。
func (c *Config) ArchiveEnabled() bool {
	return c.PostgresHost != "" && c.PostgresUser != "" && c.PostgresDB != ""
}

// MailEnabled はサマリーメール送信の設定が揃っているかどうかです。
func (c *Config) MailEnabled() bool {
	return c.SendGridAPIKey != "" && c.MailFrom != ""
}

func getOr(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}
