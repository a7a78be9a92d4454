// Package config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// 必須変数（MONGODB_URI、JWT_SECRET）が欠けている場合は起動を拒否する。
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MongoConfig はドキュメントストア接続の設定。
type MongoConfig struct {
	URI            string        `env:"MONGODB_URI,required,notEmpty"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"joao_xavier"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// AuthConfig は認証関連の設定。
type AuthConfig struct {
	// JWTSecret はトークン署名用の対称鍵。
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
}

// ServerConfig はHTTPサーバの設定。
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

// CORSConfig はCORSレイヤの設定。
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// Config はアプリケーション全体の設定。
type Config struct {
	Mongo  MongoConfig
	Auth   AuthConfig
	Server ServerConfig
	CORS   CORSConfig
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}
