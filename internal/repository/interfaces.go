// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/memoria/internal/model"
)

// ErrDuplicateUsername は同名ユーザーの挿入がストアのユニーク制約に弾かれた場合のエラー。
// 「存在確認してから挿入」は原子的でないため、競合した挿入はこのエラーで検出する。
var ErrDuplicateUsername = errors.New("username already exists in the store")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
	// ユーザー名が既に存在する場合はErrDuplicateUsernameを返す。
	Create(ctx context.Context, user *model.User) error
}

// SaveRepository はゲームセッション記録の永続化インターフェース。
type SaveRepository interface {
	// Create はゲームセッション記録を追記する。更新・削除は提供しない。
	Create(ctx context.Context, save *model.GameSave) error
}
