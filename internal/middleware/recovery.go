package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/hitoshi/memoria/internal/model"
)

// NewRecoveryMiddleware はハンドラーのpanicを捕捉して500を返すミドルウェアを生成する。
func NewRecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
					WriteError(w, r, model.NewInternalError("Error during IO operation", err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
