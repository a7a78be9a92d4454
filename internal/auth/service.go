// Package auth はユーザー登録とログインのビジネスロジックを提供する。
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/memoria/internal/metrics"
	"github.com/hitoshi/memoria/internal/model"
	"github.com/hitoshi/memoria/internal/password"
	"github.com/hitoshi/memoria/internal/repository"
	"github.com/hitoshi/memoria/internal/token"
)

// Service は認証のビジネスロジックを担当する。
type Service struct {
	users   repository.UserRepository
	hasher  *password.Hasher
	tokens  *token.Service
	metrics metrics.Recorder
}

// NewService は新しいServiceを生成する。
func NewService(users repository.UserRepository, hasher *password.Hasher, tokens *token.Service, recorder metrics.Recorder) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
	}
}

// Register は新しいユーザーを登録する。
// ユーザー名が既に使われている場合はValidationエラーを返す。
func (s *Service) Register(ctx context.Context, username, plainPassword string) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.NewStoreError(err)
	}
	if existing != nil {
		return model.NewUsernameTakenError()
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return model.NewInternalError("Error during IO operation", err)
	}

	user := &model.User{
		Username: username,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 存在チェックと挿入の間に同名ユーザーが作られた場合は
		// 一意インデックス違反として現れる。
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.NewUsernameTakenError()
		}
		return model.NewStoreError(err)
	}

	s.metrics.RecordUserRegistered()
	return nil
}

// Login は資格情報を検証して署名付きトークンを返す。
// ユーザー名の列挙を防ぐため、ユーザーが存在しない場合と
// パスワードが一致しない場合は同じエラーを返す。
func (s *Service) Login(ctx context.Context, username, plainPassword string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", model.NewStoreError(err)
	}
	if user == nil {
		s.metrics.RecordLoginFailure()
		return "", model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Verify(plainPassword, user.Password)
	if err != nil {
		return "", model.NewInternalError("Error during IO operation", err)
	}
	if !ok {
		s.metrics.RecordLoginFailure()
		return "", model.NewInvalidCredentialsError()
	}

	identity := token.Identity{
		ID:       user.ID.Hex(),
		Username: user.Username,
	}
	tokenString, err := s.tokens.Issue(identity, time.Now())
	if err != nil {
		return "", model.NewInternalError("Error during IO operation", err)
	}

	s.metrics.RecordLoginSuccess()
	return tokenString, nil
}
