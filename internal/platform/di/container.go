// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	httpin "bulkminter/internal/adapters/in/http"
	"bulkminter/internal/adapters/in/http/handlers"
	"bulkminter/internal/adapters/out/db"
	fsout "bulkminter/internal/adapters/out/firestore"
	"bulkminter/internal/adapters/out/gcs"
	"bulkminter/internal/adapters/out/httpout"
	"bulkminter/internal/adapters/out/mail"
	charityapp "bulkminter/internal/application/charity"
	formapp "bulkminter/internal/application/form"
	"bulkminter/internal/application/minting"
	pricingapp "bulkminter/internal/application/pricing"
	royaltyapp "bulkminter/internal/application/royalty"
	sessapp "bulkminter/internal/application/session"
	royaltydom "bulkminter/internal/domain/royalty"
	appcfg "bulkminter/internal/infra/config"
	solanainfra "bulkminter/internal/infra/solana"
	storageinfra "bulkminter/internal/infra/storage"
)

// Container is shared runtime wiring for cmd/api.
// - owns external clients (Firestore/GCS/FirebaseAuth/Postgres/Solana)
// - owns adapters and usecases built on them
//
// Firestore は strict（エラーで起動中止）、FirebaseAuth / Postgres /
// SendGrid は best-effort（警告して機能を落とす）です。
type Container struct {
	Config *appcfg.Config

	// Clients (owned; Close-managed)
	Firestore    *firestore.Client
	GCS          *storage.Client
	FirebaseAuth *firebaseauth.Client
	Solana       *solanainfra.Client

	// Usecases
	SessionUC *sessapp.Usecase
	FormUC    *formapp.Usecase
	RoyaltyUC *royaltyapp.Usecase
	PricingUC *pricingapp.Usecase
	CharityUC *charityapp.Usecase
	Sequencer *minting.Sequencer

	Router *gin.Engine

	closers []func() error
}

// New initializes the container.
func New(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	if strings.TrimSpace(cfg.FirestoreProjectID) == "" {
		return nil, errors.New("di: projectID is empty (set GCP_PROJECT_ID or FIRESTORE_PROJECT_ID)")
	}

	c := &Container{Config: cfg}

	// 1) Firestore（strict: セッション状態の source of truth）
	fsClient, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		return nil, err
	}
	c.Firestore = fsClient
	c.closers = append(c.closers, fsClient.Close)

	// 2) GCS（strict: アセット置き場）
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.GCS = gcsClient
	c.closers = append(c.closers, gcsClient.Close)

	// 3) Firebase Auth（best-effort: 無ければ検証なしで起動）
	if app, aerr := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}); aerr != nil {
		log.Printf("[di] firebase app init failed (auth disabled) err=%v", aerr)
	} else if auth, aerr := app.Auth(ctx); aerr != nil {
		log.Printf("[di] firebase auth init failed (auth disabled) err=%v", aerr)
	} else {
		c.FirebaseAuth = auth
	}

	// 4) Solana RPC
	c.Solana = solanainfra.NewClient(cfg.SolanaRPCEndpoint)

	// 5) リポジトリ・アダプタ
	sessions := fsout.NewSessionRepositoryFS(fsClient)
	assets := gcs.NewAssetRepositoryGCS(gcsClient, cfg.GCSBucket)
	contacts := fsout.NewWalletContactFS(fsClient)

	platform := royaltydom.PlatformRecipient{
		Address: cfg.PlatformAddress,
		Share:   cfg.PlatformShare,
	}
	enforced := cfg.PlatformShareEnforced && strings.TrimSpace(cfg.PlatformAddress) != ""

	// metadata uploader: 専用サービスがあればそちら、無ければ GCS 直行
	var uploader minting.MetadataUploader = assets
	if strings.TrimSpace(cfg.UploaderURL) != "" {
		uploader = storageinfra.NewUploadClient(cfg.UploaderURL, cfg.UploaderAPIKey)
		log.Printf("[di] metadata uploader: remote service baseURL=%s", cfg.UploaderURL)
	} else {
		log.Printf("[di] metadata uploader: direct GCS bucket=%s", cfg.GCSBucket)
	}

	// minter: ウォレットリレーがあればユーザー承認型、無ければサーバー権限型
	var minter minting.WalletMinter
	if strings.TrimSpace(cfg.WalletBridgeURL) != "" {
		minter = httpout.NewWalletBridgeClient(cfg.WalletBridgeURL, cfg.WalletBridgeAPIKey)
		log.Printf("[di] wallet minter: bridge baseURL=%s", cfg.WalletBridgeURL)
	}

	var cosigner minting.MetadataCoSigner
	authority, aerr := solanainfra.LoadMintAuthority(ctx, cfg.GCPProjectID, cfg.MintAuthoritySecretID)
	if aerr != nil {
		if minter == nil {
			c.Close()
			return nil, errors.Join(errors.New("di: mint authority unavailable and no wallet bridge configured"), aerr)
		}
		log.Printf("[di] mint authority unavailable (co-sign disabled) err=%v", aerr)
		cosigner = noopCoSigner{}
	} else {
		if minter == nil {
			minter = solanainfra.NewMinter(c.Solana, authority)
			log.Printf("[di] wallet minter: server-side authority=%s", authority.Address())
		}
		cosigner = solanainfra.NewCoSigner(c.Solana, authority)
	}

	// 完了フック（メール・アーカイブ）
	var hooks minting.MultiNotifier
	if cfg.MailEnabled() {
		mailer := mail.NewSummaryMailer(
			mail.NewSendGridClient(cfg.SendGridAPIKey),
			cfg.MailFrom,
			contacts.ResolveEmail,
		)
		hooks = append(hooks, mailer)
	} else {
		log.Printf("[di] summary mail disabled (SENDGRID_API_KEY / MAIL_FROM not set)")
	}
	if cfg.ArchiveEnabled() {
		pg, perr := db.OpenPostgres(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
		if perr != nil {
			log.Printf("[di] postgres unavailable (archive disabled) err=%v", perr)
		} else {
			c.closers = append(c.closers, pg.Close)
			hooks = append(hooks, db.NewMintArchivePG(pg))
		}
	} else {
		log.Printf("[di] mint archive disabled (POSTGRES_* not set)")
	}

	// 6) ユースケース
	c.SessionUC = sessapp.NewUsecase(sessions)
	c.FormUC = formapp.NewUsecase()
	c.RoyaltyUC = royaltyapp.NewUsecase(platform, enforced)
	c.PricingUC = pricingapp.NewUsecase(c.Solana, httpout.NewCoinGeckoClient(cfg.CoinGeckoAPIBase))
	c.CharityUC = charityapp.NewUsecase(httpout.NewChangeClient(cfg.ChangeAPIBase, cfg.ChangeAPIKey))
	c.Sequencer = minting.NewSequencer(minting.Deps{
		Uploader:  uploader,
		Minter:    minter,
		Confirmer: c.Solana,
		CoSigner:  cosigner,
		Sessions:  sessions,
		Notifier:  hooks,
		Platform:  platform,
		Enforced:  enforced,
	})

	// 7) ルーター
	c.Router = httpin.NewRouter(httpin.RouterDeps{
		Session:         handlers.NewSessionHandler(c.SessionUC, c.FormUC),
		Royalty:         handlers.NewRoyaltyHandler(c.SessionUC, c.RoyaltyUC),
		Mint:            handlers.NewMintHandler(c.SessionUC, c.FormUC, c.Sequencer),
		Pricing:         handlers.NewPricingHandler(c.SessionUC, c.PricingUC),
		Charity:         handlers.NewCharityHandler(c.CharityUC),
		FirebaseAuth:    c.FirebaseAuth,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
	})

	return c, nil
}

// noopCoSigner は mint authority が引けない構成での代替です。
// 署名はスキップし、creator の verified 化は後追いの運用作業に回します。
type noopCoSigner struct{}

func (noopCoSigner) SignMetadata(_ context.Context, metadataAddress string) error {
	log.Printf("[di] co-sign skipped (no mint authority) metadata=%q", metadataAddress)
	return nil
}

// Close は所有クライアントを逆順で閉じます。
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[di] close error err=%v", err)
		}
	}
	c.closers = nil
}
