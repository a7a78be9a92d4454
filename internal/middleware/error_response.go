package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/memoria/internal/model"
)

// WriteError はAPIErrorをHTTPレスポンスとして書き出す。
// 5xx系のエラーは原因を含めてログに記録する。クライアントには
// 安全なメッセージのみを返す。
func WriteError(w http.ResponseWriter, r *http.Request, apiErr *model.APIError) {
	status := apiErr.StatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error("リクエスト処理中にエラーが発生しました",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", apiErr.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiErr.Response()); err != nil {
		slog.Error("エラーレスポンスの書き込みに失敗しました", slog.Any("error", err))
	}
}
