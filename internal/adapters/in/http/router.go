// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bulkminter/internal/adapters/in/http/handlers"
	"bulkminter/internal/adapters/in/http/middleware"
)

// RouterDeps collects all handlers (and other dependencies) injected from the DI container.
type RouterDeps struct {
	Session *handlers.SessionHandler
	Royalty *handlers.RoyaltyHandler
	Mint    *handlers.MintHandler
	Pricing *handlers.PricingHandler
	Charity *handlers.CharityHandler

	// nil ならトークン検証なし（ローカル開発）
	FirebaseAuth *middleware.FirebaseAuthClient

	CORSAllowOrigin string
}

// NewRouter は全ルートを組み立てます。/healthz 以外は auth 必須です。
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(deps.CORSAllowOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/", middleware.Auth(deps.FirebaseAuth))

	sessions := authed.Group("/sessions")
	{
		sessions.POST("", deps.Session.Create)
		sessions.GET("/:id", deps.Session.Get)
		sessions.POST("/:id/items/:index/metadata", deps.Session.SetItemMetadata)

		sessions.POST("/:id/royalties/creators", deps.Royalty.AddCreator)
		sessions.POST("/:id/royalties/donations", deps.Royalty.AddDonation)
		sessions.DELETE("/:id/royalties/creators/:address", deps.Royalty.RemoveCreator)
		sessions.PUT("/:id/royalties/creators/:address/share", deps.Royalty.UpdateShare)
		sessions.POST("/:id/royalties/apply", deps.Royalty.Apply)

		sessions.GET("/:id/price", deps.Pricing.Quote)

		sessions.POST("/:id/mint", deps.Mint.Start)
		sessions.POST("/:id/mint/retry", deps.Mint.Retry)
		sessions.POST("/:id/mint/skip", deps.Mint.Skip)
	}

	authed.GET("/charities/search", deps.Charity.Search)

	return r
}
