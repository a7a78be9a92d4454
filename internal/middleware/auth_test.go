package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/memoria/internal/token"
)

// mockVerifier はTokenVerifierのモック実装。
type mockVerifier struct {
	verifyFunc func(tokenString string, now time.Time) (token.Identity, error)
}

func (m *mockVerifier) Verify(tokenString string, now time.Time) (token.Identity, error) {
	return m.verifyFunc(tokenString, now)
}

var _ TokenVerifier = (*mockVerifier)(nil)

func TestAuthMiddleware_ValidToken(t *testing.T) {
	wantIdentity := token.Identity{ID: "65a1b2c3d4e5f6a7b8c9d0e1", Username: "alice"}
	verifier := &mockVerifier{
		verifyFunc: func(tokenString string, _ time.Time) (token.Identity, error) {
			if tokenString != "valid-token" {
				t.Errorf("予期しないトークン: %q", tokenString)
			}
			return wantIdentity, nil
		},
	}

	var gotIdentity token.Identity
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, gotOK = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/memory/save", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "valid-token"})
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !gotOK {
		t.Fatal("コンテキストにIdentityが設定されていない")
	}
	if gotIdentity != wantIdentity {
		t.Errorf("Identity: got %+v, want %+v", gotIdentity, wantIdentity)
	}
}

func TestAuthMiddleware_MissingCookie(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(string, time.Time) (token.Identity, error) {
			t.Fatal("Cookieが無い場合はVerifyを呼び出してはならない")
			return token.Identity{}, nil
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("認証失敗時に次のハンドラーが呼ばれた")
	})

	req := httptest.NewRequest("POST", "/api/memory/save", nil)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスボディのデコードに失敗: %v", err)
	}
	if body["message"] != "Auth token not found on the request" {
		t.Errorf("メッセージ: got %q", body["message"])
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(string, time.Time) (token.Identity, error) {
			return token.Identity{}, errors.New("signature is invalid")
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("認証失敗時に次のハンドラーが呼ばれた")
	})

	req := httptest.NewRequest("POST", "/api/memory/save", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tampered"})
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestIdentityFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("未設定のコンテキストからIdentityが取得できてしまった")
	}
}
