package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/memoria/internal/memory"
	"github.com/hitoshi/memoria/internal/middleware"
	"github.com/hitoshi/memoria/internal/model"
)

// saveRequest はPOST /api/memory/saveのリクエストボディ。
// 所有者のユーザーIDはボディではなくトークンで決まる。
type saveRequest struct {
	GameDate   time.Time        `json:"gameDate"`
	Failed     int              `json:"failed"`
	Difficulty model.Difficulty `json:"difficulty"`
	Completed  int              `json:"completed"`
	TimeTaken  int              `json:"timeTaken"`
}

// MemoryHandler はゲームセッション記録のHTTPハンドラー。
type MemoryHandler struct {
	service *memory.Service
}

// NewMemoryHandler は新しいMemoryHandlerを生成する。
func NewMemoryHandler(service *memory.Service) *MemoryHandler {
	return &MemoryHandler{service: service}
}

// Save はPOST /api/memory/saveを処理する。
// 認証ミドルウェアの後段に配置する前提。
func (h *MemoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, r, model.NewAuthError("Auth token not found on the request", middleware.ErrTokenNotPresent))
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, model.NewInvalidBodyError(err))
		return
	}
	if !req.Difficulty.Valid() {
		middleware.WriteError(w, r, model.NewInvalidBodyError(errors.New("unknown difficulty")))
		return
	}

	save := model.GameSave{
		GameDate:   req.GameDate,
		Failed:     req.Failed,
		Difficulty: req.Difficulty,
		Completed:  req.Completed,
		TimeTaken:  req.TimeTaken,
	}
	if err := h.service.Save(r.Context(), identity.ID, save); err != nil {
		middleware.WriteError(w, r, asAPIError(err))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Game data saved successfully"})
}
