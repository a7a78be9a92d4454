package model

import (
	"fmt"
	"net/http"
)

// ErrorKind はAPIErrorの分類を表す閉じたバリアント。
// レイヤごとのエラーはすべてこの分類に畳み込み、
// HTTP境界でStatusCodeにより機械的にステータスへ変換する。
type ErrorKind int

const (
	// KindValidation はクライアント起因のエラー（不正な認証情報、ユーザー名重複、不正なボディ）。
	KindValidation ErrorKind = iota
	// KindAuth はトークンの欠落・無効・期限切れによる認証エラー。
	KindAuth
	// KindNotFound はリソース未検出。
	KindNotFound
	// KindStore はデータベース起因の失敗。クライアントには一般的なメッセージのみ返す。
	KindStore
	// KindInternal はその他のサーバ内部エラー。
	KindInternal
)

// APIError はアプリケーション全体で使う統一エラー型。
// Message はそのままクライアントに見せてよい文言に限る。
// Err は診断用の原因でレスポンスには含めない（ログのみ）。
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap は原因エラーを返す。errors.Is / errors.As 用。
func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode はエラー分類に対応するHTTPステータスコードを返す。
// 対応表は網羅的で、未知の分類は500に落とす。
func (e *APIError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindStore, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse はAPIエラーレスポンスの統一フォーマット。
type ErrorResponse struct {
	Message string `json:"message"`
}

// Response はクライアントに返すレスポンスボディを生成する。
// 原因（Err）は含めない。
func (e *APIError) Response() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: "Username already exists",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// 「ユーザーが存在しない」と「パスワードが違う」をクライアントに区別させないため、
// 両方のケースでこのエラーを返すこと。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: "Invalid username or password",
	}
}

// NewInvalidBodyError はリクエストボディのデコード失敗エラーを生成する。
func NewInvalidBodyError(err error) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: "Invalid json body parameters",
		Err:     err,
	}
}

// NewAuthError はトークン検証失敗による401エラーを生成する。
func NewAuthError(message string, err error) *APIError {
	return &APIError{
		Kind:    KindAuth,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError() *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: "The requested resource could not be found.",
	}
}

// NewStoreError はデータベース失敗エラーを生成する。
// 実際の原因はerrに保持しログにのみ出力する。
func NewStoreError(err error) *APIError {
	return &APIError{
		Kind:    KindStore,
		Message: "Error during IO operation",
		Err:     err,
	}
}

// NewInternalError はその他の内部エラーを生成する。
func NewInternalError(message string, err error) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
		Err:     err,
	}
}
