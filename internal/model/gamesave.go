package model

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Difficulty はゲームの難易度を表す。
// JSON上はバリアント名そのままの文字列（大文字小文字を区別する）。
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyNormal Difficulty = "Normal"
	DifficultyHard   Difficulty = "Hard"
)

// Valid は既知の難易度かどうかを返す。
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// UnmarshalJSON は難易度を厳密に検証しながらデコードする。
// 未知の値（"easy" のような大文字小文字違いを含む）はエラーになる。
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Difficulty(s)
	if !v.Valid() {
		return fmt.Errorf("unknown difficulty: %q", s)
	}
	*d = v
	return nil
}

// GameSave は1回のゲームセッションの記録を表す。
// 保存エンドポイントで作成され、追記専用（更新・削除されない）。
// BSONフィールド名はフロントエンドと共有しているキャメルケース表記に合わせる。
type GameSave struct {
	UserID     bson.ObjectID `bson:"userID"`
	GameDate   time.Time     `bson:"gameDate"`
	Failed     int           `bson:"failed"`
	Difficulty Difficulty    `bson:"difficulty"`
	Completed  int           `bson:"completed"`
	TimeTaken  int           `bson:"timeTaken"`
}
