// Package memory はゲームセッション記録の保存ロジックを提供する。
package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hitoshi/memoria/internal/metrics"
	"github.com/hitoshi/memoria/internal/model"
	"github.com/hitoshi/memoria/internal/repository"
)

// Service はゲームセッション記録のビジネスロジックを担当する。
type Service struct {
	saves   repository.SaveRepository
	metrics metrics.Recorder
}

// NewService は新しいServiceを生成する。
func NewService(saves repository.SaveRepository, recorder metrics.Recorder) *Service {
	return &Service{
		saves:   saves,
		metrics: recorder,
	}
}

// Save は認証済みユーザーのセッション記録を永続化する。
// 所有者はトークンから取り出したユーザーIDで決まり、
// リクエストボディでは指定できない。
func (s *Service) Save(ctx context.Context, userID string, save model.GameSave) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return model.NewInvalidBodyError(err)
	}
	save.UserID = objectID

	if err := s.saves.Create(ctx, &save); err != nil {
		return model.NewStoreError(err)
	}

	s.metrics.RecordSavePersisted()
	return nil
}
