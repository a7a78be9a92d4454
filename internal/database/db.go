// Package database はMongoDB接続の確立とインデックスの初期化を提供する。
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hitoshi/memoria/internal/config"
)

// ErrHealthcheckFailed はMongoDBへの疎通確認が失敗した場合のエラー。
var ErrHealthcheckFailed = errors.New("mongodb healthcheck failed")

// Connect はMongoDBクライアントを生成し、Pingで疎通を確認する。
// ctxには接続確認のタイムアウトを含めること。
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(cfg.URI).
			SetConnectTimeout(cfg.ConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return client, nil
}

// EnsureIndexes はアプリケーションが前提とするインデックスを作成する。
// usersコレクションのusernameユニークインデックスにより、
// 「存在確認してから挿入」の競合時もストア側で重複を拒否できる。
// CreateOneは冪等なので起動ごとに呼んで構わない。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique index on users.username: %w", err)
	}
	return nil
}

// Healthcheck はヘルスチェック用の関数を返す。
// 軽量なPingのみを行い、/healthzエンドポイントから利用する。
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
