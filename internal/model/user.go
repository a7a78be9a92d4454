// Package model はドメインモデルを定義する。
package model

import "go.mongodb.org/mongo-driver/v2/bson"

// User はサービス利用ユーザーを表す。
// サインアップ時に作成され、以降は不変（更新・削除フローは存在しない）。
// usernameの一意性はストア側のユニークインデックスで保証する。
type User struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Username string        `bson:"username"`
	// Password はbcryptハッシュ済みの文字列。平文は保持しない。
	Password string `bson:"password"`
}
