// internal/adapters/in/http/handlers/mint_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	formapp "bulkminter/internal/application/form"
	"bulkminter/internal/application/minting"
	sessapp "bulkminter/internal/application/session"
	sessdom "bulkminter/internal/domain/session"
)

// MintHandler はシーケンサの起動・Retry・Skip を担当します。
//
// シーケンサは同期実行です。失敗ステップで停止した場合もハンドラ自体は
// 成功レスポンスを返し、停止位置は activeStep として観測されます。
type MintHandler struct {
	Sessions  *sessapp.Usecase
	Form      *formapp.Usecase
	Sequencer *minting.Sequencer
}

func NewMintHandler(sessions *sessapp.Usecase, form *formapp.Usecase, sequencer *minting.Sequencer) *MintHandler {
	return &MintHandler{Sessions: sessions, Form: form, Sequencer: sequencer}
}

// run は「セッション取得 → シーケンサ操作 → 状態返却」の定型です。
// 保存はシーケンサが進行のたびに行うため、ここでは行いません。
func (h *MintHandler) run(c *gin.Context, op func(s *sessdom.MintSession) error) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	if err := op(s); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, sessionStatusFromDomain(s))
}

// Start は POST /sessions/:id/mint。全アイテムを MintRecord に確定してから
// シーケンサを起動します。1 件でも確定できなければミントは始まりません。
func (h *MintHandler) Start(c *gin.Context) {
	h.run(c, func(s *sessdom.MintSession) error {
		records, err := h.Form.FinalizeAll(s)
		if err != nil {
			return err
		}
		return h.Sequencer.Start(c.Request.Context(), s, records)
	})
}

// Retry は POST /sessions/:id/mint/retry。
func (h *MintHandler) Retry(c *gin.Context) {
	h.run(c, func(s *sessdom.MintSession) error {
		return h.Sequencer.Retry(c.Request.Context(), s)
	})
}

// Skip は POST /sessions/:id/mint/skip。
func (h *MintHandler) Skip(c *gin.Context) {
	h.run(c, func(s *sessdom.MintSession) error {
		return h.Sequencer.Skip(c.Request.Context(), s)
	})
}
