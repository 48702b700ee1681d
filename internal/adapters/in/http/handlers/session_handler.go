// internal/adapters/in/http/handlers/session_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	formapp "bulkminter/internal/application/form"
	sessapp "bulkminter/internal/application/session"
	nftdom "bulkminter/internal/domain/nft"
	sessdom "bulkminter/internal/domain/session"
)

// SessionHandler はセッション作成・フォーム入力・状態照会を担当します。
type SessionHandler struct {
	Sessions *sessapp.Usecase
	Form     *formapp.Usecase
}

func NewSessionHandler(sessions *sessapp.Usecase, form *formapp.Usecase) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Form: form}
}

// ------------------------------------------------------
// DTO
// ------------------------------------------------------

type assetRefDTO struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type createSessionRequest struct {
	OwnerWallet string        `json:"ownerWallet"`
	Files       []assetRefDTO `json:"files"`
}

type attributeDTO struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type itemMetadataRequest struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	CollectionName   string         `json:"collectionName"`
	CollectionFamily string         `json:"collectionFamily"`
	Attributes       []attributeDTO `json:"attributes"`
	CoverImage       *assetRefDTO   `json:"coverImage"`
}

type itemStatusDTO struct {
	Index      int    `json:"index"`
	FileName   string `json:"fileName"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	HasRoyalty bool   `json:"hasRoyalty"`
	Status     string `json:"status,omitempty"`
	Mint       string `json:"mint,omitempty"`
	TxID       string `json:"txId,omitempty"`
}

type sessionStatusDTO struct {
	ID          string          `json:"id"`
	OwnerWallet string          `json:"ownerWallet"`
	CreatedAt   time.Time       `json:"createdAt"`
	Phase       string          `json:"phase"`
	RoyaltyMode string          `json:"royaltyMode"`
	ActiveIndex int             `json:"activeIndex"`
	ActiveStep  string          `json:"activeStep,omitempty"`
	Items       []itemStatusDTO `json:"items"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
}

func sessionStatusFromDomain(s *sessdom.MintSession) sessionStatusDTO {
	dto := sessionStatusDTO{
		ID:          s.ID,
		OwnerWallet: s.OwnerWallet,
		CreatedAt:   s.CreatedAt,
		Phase:       string(s.Phase),
		RoyaltyMode: string(s.RoyaltyMode),
		ActiveIndex: s.ActiveIndex,
	}
	if s.Phase == sessdom.PhaseMinting {
		dto.ActiveStep = string(s.ActiveStep)
	}

	for i := range s.Items {
		item := itemStatusDTO{
			Index:      i,
			FileName:   s.Items[i].FileName,
			Name:       s.Items[i].Name,
			Category:   string(nftdom.DetectCategory(s.Items[i].FileName)),
			HasRoyalty: s.Items[i].Royalty != nil,
		}
		if i < len(s.Records) {
			item.Status = string(s.Records[i].Status)
		}
		if rcpt := s.Receipts[i]; rcpt != nil {
			item.Mint = rcpt.MintAddress
			item.TxID = rcpt.TxID
		}
		dto.Items = append(dto.Items, item)
	}

	dto.Succeeded, dto.Failed = s.Summary()
	return dto
}

func assetRefFromDTO(d assetRefDTO) nftdom.AssetRef {
	return nftdom.AssetRef{URI: d.URI, Type: d.Type, Name: d.Name}
}

// ------------------------------------------------------
// handlers
// ------------------------------------------------------

// Create は POST /sessions。アップロード済みアセット一覧から
// セッションを作ります。
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	assets := make([]nftdom.AssetRef, 0, len(req.Files))
	for _, f := range req.Files {
		assets = append(assets, assetRefFromDTO(f))
	}

	s, err := h.Sessions.Create(c.Request.Context(), req.OwnerWallet, assets)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, sessionStatusFromDomain(s))
}

// Get は GET /sessions/:id。アイテム別の進行状態と off-ramp 集計を返します。
func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, sessionStatusFromDomain(s))
}

// SetItemMetadata は POST /sessions/:id/items/:index/metadata。
// 空フィールドは「変更なし」として扱います。
func (h *SessionHandler) SetItemMetadata(c *gin.Context) {
	index, ok := itemIndexParam(c)
	if !ok {
		return
	}

	var req itemMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	in := formapp.ItemInput{
		Name:             req.Name,
		Description:      req.Description,
		CollectionName:   req.CollectionName,
		CollectionFamily: req.CollectionFamily,
	}
	if req.Attributes != nil {
		in.Attributes = make([]nftdom.Attribute, 0, len(req.Attributes))
		for _, a := range req.Attributes {
			in.Attributes = append(in.Attributes, nftdom.Attribute{TraitType: a.TraitType, Value: a.Value})
		}
	}
	if req.CoverImage != nil {
		cover := assetRefFromDTO(*req.CoverImage)
		in.CoverImage = &cover
	}

	if err := h.Form.SetItemMetadata(s, index, in); err != nil {
		ErrorResponse(c, err)
		return
	}
	if err := h.Sessions.Save(c.Request.Context(), s); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, sessionStatusFromDomain(s))
}
