// internal/adapters/in/http/handlers/charity_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	charityapp "bulkminter/internal/application/charity"
	charitydom "bulkminter/internal/domain/charity"
)

// CharityHandler は寄付先（nonprofit）検索を担当します。
type CharityHandler struct {
	Charity *charityapp.Usecase
}

func NewCharityHandler(charity *charityapp.Usecase) *CharityHandler {
	return &CharityHandler{Charity: charity}
}

type nonprofitDTO struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EIN           string `json:"ein"`
	IconURL       string `json:"icon_url"`
	Website       string `json:"website"`
	SolanaAddress string `json:"solana_address"`
}

// Search は GET /charities/search?q=。
// Solana payout アドレスを持つ団体だけが返ります。
func (h *CharityHandler) Search(c *gin.Context) {
	term := c.Query("q")

	results, err := h.Charity.Search(c.Request.Context(), term)
	if err != nil {
		if errors.Is(err, charitydom.ErrEmptySearchTerm) {
			FailResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		ErrorResponse(c, err)
		return
	}

	out := make([]nonprofitDTO, 0, len(results))
	for _, n := range results {
		out = append(out, nonprofitDTO{
			Name:          n.Name,
			Description:   n.Description,
			EIN:           n.EIN,
			IconURL:       n.IconURL,
			Website:       n.Website,
			SolanaAddress: n.SolanaAddress,
		})
	}
	SuccessResponse(c, out)
}
