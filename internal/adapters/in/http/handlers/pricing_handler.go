// internal/adapters/in/http/handlers/pricing_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	pricingapp "bulkminter/internal/application/pricing"
	sessapp "bulkminter/internal/application/session"
)

// PricingHandler はミント費用見積りを担当します。
type PricingHandler struct {
	Sessions *sessapp.Usecase
	Pricing  *pricingapp.Usecase
}

func NewPricingHandler(sessions *sessapp.Usecase, pricing *pricingapp.Usecase) *PricingHandler {
	return &PricingHandler{Sessions: sessions, Pricing: pricing}
}

// Quote は GET /sessions/:id/price。
// セッションの所有者ウォレットと未処理アイテム数で見積ります。
func (h *PricingHandler) Quote(c *gin.Context) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	q, err := h.Pricing.QuoteMint(c.Request.Context(), s.OwnerWallet, len(s.Items))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, q)
}
