// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bulkminter/internal/application/minting"
	royaltyapp "bulkminter/internal/application/royalty"
	nftdom "bulkminter/internal/domain/nft"
	royaltydom "bulkminter/internal/domain/royalty"
	sessdom "bulkminter/internal/domain/session"
)

// ResponseFormat は全エンドポイント共通のレスポンス封筒です。
type ResponseFormat struct {
	Code int    `json:"code"` // 0:成功 1:失敗
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseFormat{Code: 0, Msg: "ok", Data: data})
}

func FailResponse(c *gin.Context, status int, msg string) {
	c.JSON(status, ResponseFormat{Code: 1, Msg: msg})
}

// ErrorResponse はドメインエラーを HTTP ステータスに写像して返します。
func ErrorResponse(c *gin.Context, err error) {
	FailResponse(c, errorStatus(err), err.Error())
}

// errorStatus はエラー分類ごとの HTTP ステータスです。
// 未分類は 500 に落とします。
func errorStatus(err error) int {
	switch {
	case errors.Is(err, sessdom.ErrNotFound),
		errors.Is(err, royaltydom.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, sessdom.ErrWrongPhase),
		errors.Is(err, sessdom.ErrModeAlreadyChosen),
		errors.Is(err, minting.ErrNotRetryable),
		errors.Is(err, minting.ErrNotSkippable):
		return http.StatusConflict

	case errors.Is(err, sessdom.ErrInvalidOwner),
		errors.Is(err, sessdom.ErrNoFiles),
		errors.Is(err, sessdom.ErrTooManyFiles),
		errors.Is(err, sessdom.ErrIndexOutOfRange),
		errors.Is(err, royaltyapp.ErrInvalidScope),
		errors.Is(err, royaltydom.ErrInvalidAddress),
		errors.Is(err, royaltydom.ErrInvalidShare),
		errors.Is(err, royaltydom.ErrDuplicateAddress),
		errors.Is(err, royaltydom.ErrMaxCreators),
		errors.Is(err, royaltydom.ErrLastCreator),
		errors.Is(err, nftdom.ErrInvalidName),
		errors.Is(err, nftdom.ErrInvalidAttribute),
		errors.Is(err, nftdom.ErrMissingUpload),
		errors.Is(err, nftdom.ErrMissingRoyalty),
		errors.Is(err, nftdom.ErrMissingCover):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// itemIndexParam は :index パスパラメータを解釈します。
// 不正値はレスポンス済みとして ok=false を返します。
func itemIndexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		FailResponse(c, http.StatusBadRequest, "invalid item index")
		return 0, false
	}
	return i, true
}
