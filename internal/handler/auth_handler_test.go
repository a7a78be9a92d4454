package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hitoshi/memoria/internal/auth"
	"github.com/hitoshi/memoria/internal/metrics"
	"github.com/hitoshi/memoria/internal/model"
	"github.com/hitoshi/memoria/internal/password"
	"github.com/hitoshi/memoria/internal/repository"
	"github.com/hitoshi/memoria/internal/token"
)

// memoryUserRepo はテスト用のインメモリUserRepository。
type memoryUserRepo struct {
	users map[string]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*model.User)}
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	user.ID = bson.NewObjectID()
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

var _ repository.UserRepository = (*memoryUserRepo)(nil)

func newAuthHandler(repo repository.UserRepository) *AuthHandler {
	svc := auth.NewService(repo, password.NewHasher(), token.NewService([]byte("test-secret")), metrics.Nop{})
	return NewAuthHandler(svc)
}

func TestAuthHandler_Register(t *testing.T) {
	h := newAuthHandler(newMemoryUserRepo())

	req := httptest.NewRequest("POST", "/api/users/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ステータスコード: got %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスボディのデコードに失敗: %v", err)
	}
	if body["message"] != "User registered successfully" {
		t.Errorf("メッセージ: got %q", body["message"])
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	repo := newMemoryUserRepo()
	h := newAuthHandler(repo)

	for i, wantStatus := range []int{http.StatusOK, http.StatusBadRequest} {
		req := httptest.NewRequest("POST", "/api/users/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != wantStatus {
			t.Errorf("%d回目のステータスコード: got %d, want %d", i+1, rec.Code, wantStatus)
		}
	}
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	h := newAuthHandler(newMemoryUserRepo())

	tests := []struct {
		name string
		body string
	}{
		{name: "不正なJSON", body: `{"username":`},
		{name: "ユーザー名が空", body: `{"username":"","password":"s3cret"}`},
		{name: "パスワードが空", body: `{"username":"alice","password":""}`},
		{name: "フィールド欠落", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/users/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("レスポンスボディのデコードに失敗: %v", err)
			}
			if body["message"] != "Invalid json body parameters" {
				t.Errorf("メッセージ: got %q", body["message"])
			}
		})
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	repo := newMemoryUserRepo()
	h := newAuthHandler(repo)

	registerReq := httptest.NewRequest("POST", "/api/users/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	h.Register(httptest.NewRecorder(), registerReq)

	req := httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ステータスコード: got %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスボディのデコードに失敗: %v", err)
	}
	if body["message"] != "Logged in successfully" {
		t.Errorf("メッセージ: got %q", body["message"])
	}

	cookies := rec.Result().Cookies()
	var tokenCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	if tokenCookie == nil {
		t.Fatal("tokenというCookieが設定されていない")
	}
	if tokenCookie.Value == "" {
		t.Error("Cookieの値が空")
	}
	if !tokenCookie.HttpOnly {
		t.Error("CookieがHttpOnlyでない")
	}
	if !tokenCookie.Secure {
		t.Error("CookieがSecureでない")
	}
	if tokenCookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite: got %v, want Strict", tokenCookie.SameSite)
	}
	if tokenCookie.Path != "/" {
		t.Errorf("Path: got %q, want /", tokenCookie.Path)
	}
	if tokenCookie.MaxAge != 3600 {
		t.Errorf("MaxAge: got %d, want 3600", tokenCookie.MaxAge)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	h := newAuthHandler(repo)

	registerReq := httptest.NewRequest("POST", "/api/users/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	h.Register(httptest.NewRecorder(), registerReq)

	req := httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("ログイン失敗時にCookieが設定されている")
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスボディのデコードに失敗: %v", err)
	}
	if body["message"] != "Invalid username or password" {
		t.Errorf("メッセージ: got %q", body["message"])
	}
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	h := newAuthHandler(newMemoryUserRepo())

	req := httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{"username":"nobody","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ステータスコード: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
