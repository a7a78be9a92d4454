// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/memoria/internal/model"
	"github.com/hitoshi/memoria/internal/token"
)

// tokenCookieName は認証トークンを保持するCookieの名前。
const tokenCookieName = "token"

// ErrTokenNotPresent はリクエストに認証Cookieが含まれていない場合のエラー。
var ErrTokenNotPresent = errors.New("auth token not present on request")

type contextKey string

const identityContextKey contextKey = "identity"

// TokenVerifier はトークンの検証を行うインターフェース。
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (token.Identity, error)
}

// NewAuthMiddleware は認証ミドルウェアを生成する。
// リクエストのCookieからトークンを取り出して検証し、
// 検証済みのIdentityをコンテキストに載せて次のハンドラーへ渡す。
// トークンが無い・無効な場合は401を返す。
func NewAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookieName)
			if err != nil {
				WriteError(w, r, model.NewAuthError("Auth token not found on the request", ErrTokenNotPresent))
				return
			}

			identity, err := verifier.Verify(cookie.Value, time.Now())
			if err != nil {
				WriteError(w, r, model.NewAuthError("Invalid or expired auth token", err))
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithIdentity は検証済みのIdentityをコンテキストに格納する。
func ContextWithIdentity(ctx context.Context, identity token.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext はコンテキストから検証済みのIdentityを取り出す。
// 認証ミドルウェアを通過していないリクエストではfalseを返す。
func IdentityFromContext(ctx context.Context) (token.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(token.Identity)
	return identity, ok
}
