// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/memoria/internal/auth"
	"github.com/hitoshi/memoria/internal/middleware"
	"github.com/hitoshi/memoria/internal/model"
	"github.com/hitoshi/memoria/internal/token"
)

// credentialsRequest は登録とログインで共通のリクエストボディ。
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// messageResponse は成功時の共通レスポンスボディ。
type messageResponse struct {
	Message string `json:"message"`
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler は新しいAuthHandlerを生成する。
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register はPOST /api/users/registerを処理する。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeCredentials(r)
	if apiErr != nil {
		middleware.WriteError(w, r, apiErr)
		return
	}

	if err := h.service.Register(r.Context(), req.Username, req.Password); err != nil {
		middleware.WriteError(w, r, asAPIError(err))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User registered successfully"})
}

// Login はPOST /api/users/loginを処理する。
// 成功時は署名付きトークンをHttpOnly Cookieとして設定する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeCredentials(r)
	if apiErr != nil {
		middleware.WriteError(w, r, apiErr)
		return
	}

	tokenString, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, r, asAPIError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(token.TTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged in successfully"})
}

// decodeCredentials はリクエストボディを検証付きでデコードする。
// ユーザー名またはパスワードが空の場合もボディ不正として扱う。
func decodeCredentials(r *http.Request) (credentialsRequest, *model.APIError) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return credentialsRequest{}, model.NewInvalidBodyError(err)
	}
	if req.Username == "" || req.Password == "" {
		return credentialsRequest{}, model.NewInvalidBodyError(errors.New("username and password are required"))
	}
	return req, nil
}

// asAPIError はサービス層のエラーをAPIErrorに変換する。
// 想定外のエラー型はInternalとして扱う。
func asAPIError(err error) *model.APIError {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return model.NewInternalError("Error during IO operation", err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
