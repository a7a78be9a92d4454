// Package password はパスワードのハッシュ化と照合を提供する。
// ソルト付き適応型ハッシュ（bcrypt）の薄いラッパーで、I/Oは行わない。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash は保存されているハッシュがbcrypt形式として不正な場合のエラー。
// 「パスワードが違う」（falseを返す）とは呼び出し側で区別できなければならない。
var ErrInvalidHash = errors.New("password hash is not a valid bcrypt hash")

// Hasher はbcryptによるハッシュ化と照合を行う。
// コストは固定で、インスタンスは全リクエストで共有して安全。
type Hasher struct {
	cost int
}

// NewHasher は既定コストのHasherを生成する。
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードをbcryptでハッシュ化する。
// ソルトはbcrypt内部で生成されるため、同じ入力でも毎回異なるハッシュになる。
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードとハッシュを照合する。
// 不一致は (false, nil)、ハッシュ自体が壊れている場合は (false, ErrInvalidHash) を返す。
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}
