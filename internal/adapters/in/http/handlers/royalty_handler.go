// internal/adapters/in/http/handlers/royalty_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	royaltyapp "bulkminter/internal/application/royalty"
	sessapp "bulkminter/internal/application/session"
	charitydom "bulkminter/internal/domain/charity"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// RoyaltyHandler は ShareLedger の編集と確定を担当します。
// 台帳スコープはクエリ `?scope=all|<index>`（省略時 all）で指定します。
type RoyaltyHandler struct {
	Sessions *sessapp.Usecase
	Royalty  *royaltyapp.Usecase
}

func NewRoyaltyHandler(sessions *sessapp.Usecase, royalty *royaltyapp.Usecase) *RoyaltyHandler {
	return &RoyaltyHandler{Sessions: sessions, Royalty: royalty}
}

// ------------------------------------------------------
// DTO
// ------------------------------------------------------

type creatorDTO struct {
	Address     string  `json:"address"`
	Share       float64 `json:"share"`
	IsCharity   bool    `json:"isCharity,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type ledgerDTO struct {
	Scope    string       `json:"scope"`
	Creators []creatorDTO `json:"creators"`
	Platform *creatorDTO  `json:"platform,omitempty"`
	Valid    bool         `json:"valid"`
	Total    float64      `json:"total"`
}

type addCreatorRequest struct {
	Address string `json:"address"`
}

type addDonationRequest struct {
	Name          string `json:"name"`
	IconURL       string `json:"icon_url"`
	SolanaAddress string `json:"solana_address"`
}

type updateShareRequest struct {
	Share float64 `json:"share"`
}

type applyRoyaltyRequest struct {
	BasisPoints uint16  `json:"basisPoints"`
	MaxSupply   *uint64 `json:"maxSupply"`
}

func creatorDTOsFromDomain(in []royaltydom.Creator) []creatorDTO {
	out := make([]creatorDTO, 0, len(in))
	for _, c := range in {
		d := creatorDTO{Address: c.Address, Share: c.Share}
		if c.Charity != nil {
			d.IsCharity = c.Charity.IsCharity
			d.DisplayName = c.Charity.DisplayName
			d.ImageURL = c.Charity.ImageURL
		}
		out = append(out, d)
	}
	return out
}

func (h *RoyaltyHandler) ledgerDTO(s *sessdom.MintSession, scope string, creators []royaltydom.Creator) ledgerDTO {
	dto := ledgerDTO{
		Scope:    scope,
		Creators: creatorDTOsFromDomain(creators),
	}
	if p, enforced := h.Royalty.Platform(); enforced {
		dto.Platform = &creatorDTO{Address: p.Address, Share: p.Share}
	}
	if v, err := h.Royalty.Validate(s, scope); err == nil {
		dto.Valid = v.Valid
		dto.Total = v.Total
	}
	return dto
}

// ------------------------------------------------------
// handlers
// ------------------------------------------------------

func scopeQuery(c *gin.Context) string {
	return c.DefaultQuery("scope", royaltyapp.ScopeAll)
}

// mutateLedger は「セッション取得 → 台帳操作 → 保存 → 台帳返却」の定型です。
func (h *RoyaltyHandler) mutateLedger(
	c *gin.Context,
	op func(s *sessdom.MintSession, scope string) ([]royaltydom.Creator, error),
) {
	scope := scopeQuery(c)
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	creators, err := op(s, scope)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	if err := h.Sessions.Save(c.Request.Context(), s); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, h.ledgerDTO(s, scope, creators))
}

// AddCreator は POST /sessions/:id/royalties/creators。
func (h *RoyaltyHandler) AddCreator(c *gin.Context) {
	var req addCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.mutateLedger(c, func(s *sessdom.MintSession, scope string) ([]royaltydom.Creator, error) {
		return h.Royalty.AddCreator(s, scope, req.Address)
	})
}

// AddDonation は POST /sessions/:id/royalties/donations。
// 検索結果の nonprofit をそのまま受け取ります。
func (h *RoyaltyHandler) AddDonation(c *gin.Context) {
	var req addDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.mutateLedger(c, func(s *sessdom.MintSession, scope string) ([]royaltydom.Creator, error) {
		return h.Royalty.AddDonation(s, scope, charitydom.Nonprofit{
			Name:          req.Name,
			IconURL:       req.IconURL,
			SolanaAddress: req.SolanaAddress,
		})
	})
}

// RemoveCreator は DELETE /sessions/:id/royalties/creators/:address。
func (h *RoyaltyHandler) RemoveCreator(c *gin.Context) {
	address := c.Param("address")
	h.mutateLedger(c, func(s *sessdom.MintSession, scope string) ([]royaltydom.Creator, error) {
		return h.Royalty.RemoveCreator(s, scope, address)
	})
}

// UpdateShare は PUT /sessions/:id/royalties/creators/:address/share。
func (h *RoyaltyHandler) UpdateShare(c *gin.Context) {
	var req updateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	address := c.Param("address")
	h.mutateLedger(c, func(s *sessdom.MintSession, scope string) ([]royaltydom.Creator, error) {
		return h.Royalty.UpdateShare(s, scope, address, req.Share)
	})
}

// Apply は POST /sessions/:id/royalties/apply。
// scope=all なら全アイテム共通、index ならそのアイテムだけに確定します。
func (h *RoyaltyHandler) Apply(c *gin.Context) {
	var req applyRoyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	scope := scopeQuery(c)
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	if err := h.Royalty.Apply(s, scope, royaltyapp.ApplyInput{
		BasisPoints: req.BasisPoints,
		MaxSupply:   req.MaxSupply,
	}); err != nil {
		ErrorResponse(c, err)
		return
	}
	if err := h.Sessions.Save(c.Request.Context(), s); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, sessionStatusFromDomain(s))
}
