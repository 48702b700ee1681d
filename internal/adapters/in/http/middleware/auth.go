// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
// RouterDeps などからは *middleware.FirebaseAuthClient 型で受けられます。
type FirebaseAuthClient = fbauth.Client

// gin context key（string 衝突回避のため接頭辞付き）
const (
	CtxKeyUID   = "auth.uid"
	CtxKeyEmail = "auth.email"
)

// Auth は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、uid/email を gin context に詰めて次のハンドラへ渡します。
// クライアントが nil の場合（ローカル開発）は検証せず素通しします。
func Auth(client *FirebaseAuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized: missing bearer token"})
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized: empty bearer token"})
			return
		}

		token, err := client.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid uid in token"})
			return
		}

		c.Set(CtxKeyUID, uid)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(CtxKeyEmail, email)
		}
		c.Next()
	}
}

// UID は Auth が詰めた uid を取り出します（未認証なら空文字）。
func UID(c *gin.Context) string {
	return c.GetString(CtxKeyUID)
}

// Email は Auth が詰めた email を取り出します（未認証なら空文字）。
func Email(c *gin.Context) string {
	return c.GetString(CtxKeyEmail)
}
