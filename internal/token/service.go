// Package token は署名付きセッショントークン（JWT, HMAC-SHA256）の発行と検証を提供する。
// セッションの実体はトークンそのものにエンコードされ、サーバ側には一切永続化しない。
// 失効はexpの経過またはクライアントがCookieを破棄することでのみ起こる。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer はこのサービスが発行するトークンのiss値。検証時にも照合する。
const Issuer = "joao.xavier.api"

// TTL はトークンの有効期間。発行時刻から1時間で失効する。
const TTL = time.Hour

// 検証失敗の種別。ミドルウェアとテストはerrors.Isで判別する。
var (
	// ErrTokenMalformed はトークンが構造的に解析できない場合のエラー。
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrSignatureInvalid はHMAC署名が一致しない場合のエラー。
	ErrSignatureInvalid = errors.New("token signature is invalid")
	// ErrIssuerMismatch はissが期待値と異なる場合のエラー。
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrTokenExpired は現在時刻がexp以降の場合のエラー。
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenNotYetValid は現在時刻がnbfより前の場合のエラー。
	ErrTokenNotYetValid = errors.New("token is not valid yet")
)

// Identity はトークンに埋め込まれるユーザー識別情報。
// IDはユーザーIDの16進表現。
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Claims はトークンのペイロード。
// ワイヤ形式は {data:{id, username}, iss, exp, nbf, iat}。
type Claims struct {
	Data Identity `json:"data"`
	jwt.RegisteredClaims
}

// Service はトークンの発行と検証を行う。
// 対称鍵はプロセス起動時に環境から与えられ、以降は不変。
type Service struct {
	secret []byte
}

// NewService は署名鍵を保持するServiceを生成する。
func NewService(secret []byte) *Service {
	return &Service{secret: secret}
}

// Issue はnowを発行時刻としてユーザー識別情報入りのトークンを発行する。
// exp = now + TTL、nbf = iat = now。HMACは決定的なので、
// 同一入力からは常に同一のトークン文字列が得られる。
func (s *Service) Issue(identity Identity, now time.Time) (string, error) {
	claims := Claims{
		Data: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、埋め込まれたIdentityを返す。
// nowは時刻比較の基準で、テストからはここに任意の時刻を注入できる。
// 検証順序は報告用であり、いずれか1つでも失敗すればトークンは拒否される。
func (s *Service) Verify(tokenString string, now time.Time) (Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, classifyError(err)
	}

	return claims.Data, nil
}

// classifyError はgolang-jwtの（結合されうる）エラーを本パッケージの種別へ写像する。
// 構造 → 署名 → 発行者 → 期限切れ → 有効化前 の順で報告する。
func classifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrIssuerMismatch, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrTokenNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
