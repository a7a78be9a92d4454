package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/hitoshi/memoria/internal/model"
)

const savesCollection = "saves"

// MongoSaveRepo はMongoDBを使用したゲームセッション記録リポジトリ。
type MongoSaveRepo struct {
	coll *mongo.Collection
}

// NewMongoSaveRepo はMongoSaveRepoを生成する。
func NewMongoSaveRepo(db *mongo.Database) *MongoSaveRepo {
	return &MongoSaveRepo{coll: db.Collection(savesCollection)}
}

// Create はゲームセッション記録を追記する。
func (r *MongoSaveRepo) Create(ctx context.Context, save *model.GameSave) error {
	if _, err := r.coll.InsertOne(ctx, save); err != nil {
		return fmt.Errorf("failed to insert game save: %w", err)
	}
	return nil
}
